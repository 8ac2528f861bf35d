package departures

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/config"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/converter"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/internal/feedtest"
)

type feedResponse struct {
	data []byte
	err  error
}

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[gtfsrt.Feed]feedResponse
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: map[gtfsrt.Feed]feedResponse{}}
}

func (f *fakeFetcher) set(feed gtfsrt.Feed, data []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[feed] = feedResponse{data: data, err: err}
}

func (f *fakeFetcher) Fetch(_ context.Context, feed gtfsrt.Feed, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.responses[feed]
	return r.data, r.err
}

// 08:00:00 UTC on a weekday
var testNow = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func testConfig() config.AppConfig {
	cfg := config.AppConfig{
		GTFS: config.GTFSConfig{DataDir: "unused", Timezone: "UTC"},
		GTFSRT: config.GTFSRTConfig{
			TripUpdatesURL:      "tu.pb",
			VehiclePositionsURL: "vp.pb",
			ServiceAlertsURL:    "sa.pb",
		},
	}
	config.ApplyDefaults(&cfg)
	return cfg
}

func testTables() gtfs.Tables {
	return gtfs.Tables{
		Routes: []gtfs.Route{
			{ID: "R1", ShortName: "10", LongName: "Downtown"},
			{ID: "R2", ShortName: "20", LongName: "Airport"},
		},
		Stops: []gtfs.Stop{
			{ID: "S1", Name: "Main St", Latitude: 49.1, Longitude: -123.1},
			{ID: "S2", Name: "Ash Ave", Latitude: 49.2, Longitude: -123.2},
		},
		Trips: []gtfs.Trip{
			{ID: "T1", RouteID: "R1"},
			{ID: "T2", RouteID: "R1"},
			{ID: "T3", RouteID: "R1"},
			{ID: "X1", RouteID: "R2"},
		},
		StopTimes: []gtfs.StopTime{
			{TripID: "T1", StopID: "S1", StopSequence: 1, DepartureTime: "08:15:00"},
			{TripID: "T1", StopID: "S2", StopSequence: 2, DepartureTime: "08:20:00"},
			{TripID: "T2", StopID: "S1", StopSequence: 1, DepartureTime: "09:00:00"},
			{TripID: "T3", StopID: "S1", StopSequence: 1, DepartureTime: "07:30:00"},
			{TripID: "X1", StopID: "S1", StopSequence: 1, DepartureTime: "08:05:00"},
		},
	}
}

func newTestEngine(t *testing.T, f *fakeFetcher) *Engine {
	t.Helper()
	e := New(testConfig(), WithFetcher(f), WithClock(func() time.Time { return testNow }))
	e.InitializeFromTables(testTables())
	return e
}

func tripUpdatesFeed(t *testing.T) []byte {
	return feedtest.Marshal(t, feedtest.NewFeed(
		feedtest.TripUpdate("e1", "T1", feedtest.STU(feedtest.Seq(1), feedtest.DepartureDelay(180))),
		feedtest.Canceled(feedtest.TripUpdate("e2", "T2")),
	))
}

func vehiclesFeed(t *testing.T) []byte {
	return feedtest.Marshal(t, feedtest.NewFeed(
		feedtest.Vehicle("v1", "BUS1", "101", "T1", "R1", 49.1, -123.1),
		feedtest.Vehicle("v2", "BUS2", "", "X1", "R2", 49.2, -123.2),
		feedtest.Vehicle("v3", "BUS3", "", "T2", "R1", 0, 0),
	))
}

func alertsFeed(t *testing.T, alerts ...[2]string) []byte {
	var entities []*gtfsrtpb.FeedEntity
	for i, a := range alerts {
		entities = append(entities, feedtest.Alert(string(rune('a'+i)), a[0], a[1]))
	}
	return feedtest.Marshal(t, feedtest.NewFeed(entities...))
}

func TestEngine_NotInitialized(t *testing.T) {
	e := New(testConfig())
	assert.ErrorIs(t, e.Run(context.Background()), ErrNotInitialized)
	assert.False(t, e.Poll(context.Background()))
	assert.Nil(t, e.Routes())
	assert.Empty(t, e.GetDepartureBoard())
	assert.Empty(t, e.GetFilteredVehicles())
}

func TestEngine_PollCompilesBoard(t *testing.T) {
	f := newFakeFetcher()
	f.set(gtfsrt.FeedTripUpdates, tripUpdatesFeed(t), nil)
	e := newTestEngine(t, f)

	e.SelectStop("R1", "S1")
	require.True(t, e.Poll(context.Background()))

	board := e.GetDepartureBoard()
	require.Len(t, board, 1)
	assert.Equal(t, "T1", board[0].TripID)
	assert.Equal(t, 8*3600+18*60, board[0].Adjusted)
	assert.Equal(t, converter.StatusDelayed, board[0].Status)
	assert.Equal(t, testNow, e.BoardTime())
}

func TestEngine_SelectStopWithoutPoll(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher())
	e.SelectStop("R1", "S1")

	// no realtime yet: T1 and T2 scheduled, T3 already departed
	board := e.GetDepartureBoard()
	require.Len(t, board, 2)
	assert.Equal(t, "T1", board[0].TripID)
	assert.Equal(t, "T2", board[1].TripID)
	assert.Equal(t, converter.StatusScheduled, board[1].Status)
}

func TestEngine_FailedFeedKeepsLastSnapshot(t *testing.T) {
	f := newFakeFetcher()
	f.set(gtfsrt.FeedTripUpdates, tripUpdatesFeed(t), nil)
	f.set(gtfsrt.FeedVehiclePositions, vehiclesFeed(t), nil)
	e := newTestEngine(t, f)
	e.SelectStop("R1", "S1")
	require.True(t, e.Poll(context.Background()))

	f.set(gtfsrt.FeedTripUpdates, nil, errors.New("connection refused"))
	f.set(gtfsrt.FeedVehiclePositions, []byte("not a feed"), nil)
	require.True(t, e.Poll(context.Background()))

	board := e.GetDepartureBoard()
	require.Len(t, board, 1)
	assert.Equal(t, 180, board[0].Delay)
	assert.Len(t, e.GetFilteredVehicles(), 1)

	health := e.Health()
	require.Len(t, health, 3)
	for _, h := range health {
		if h.Feed == gtfsrt.FeedAlerts {
			assert.True(t, h.Healthy())
			continue
		}
		assert.False(t, h.Healthy(), h.Feed)
		assert.Equal(t, 1, h.ConsecutiveFailures)
	}
}

func TestEngine_SelectRouteFiltersVehicles(t *testing.T) {
	f := newFakeFetcher()
	f.set(gtfsrt.FeedVehiclePositions, vehiclesFeed(t), nil)
	e := newTestEngine(t, f)
	require.True(t, e.Poll(context.Background()))

	// no route: every positioned vehicle
	assert.Len(t, e.GetFilteredVehicles(), 2)

	e.SelectStop("R1", "S1")
	e.SelectRoute("R2")
	routeID, stopID := e.Selection()
	assert.Equal(t, "R2", routeID)
	assert.Empty(t, stopID)
	assert.Empty(t, e.GetDepartureBoard())

	vehicles := e.GetFilteredVehicles()
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Route 20 (Bus)", vehicles["BUS2"].DisplayLabel)
}

func TestEngine_AlertSelection(t *testing.T) {
	f := newFakeFetcher()
	f.set(gtfsrt.FeedAlerts, alertsFeed(t,
		[2]string{"Detour", "Main St closed"},
		[2]string{"", "Elevator out"},
		[2]string{"Ignored", converter.PlaceholderDescription},
	), nil)
	e := newTestEngine(t, f)
	require.True(t, e.Poll(context.Background()))

	alerts := e.GetCuratedAlerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, converter.DefaultAlertHeader, alerts[1].Header)

	assert.ErrorIs(t, e.SelectAlert("missing"), ErrUnknownAlert)
	require.NoError(t, e.SelectAlert(alerts[1].ID))
	selected, ok := e.SelectedAlert()
	require.True(t, ok)
	assert.Equal(t, "Elevator out", selected.Description)

	// the selected alert leaves the feed
	f.set(gtfsrt.FeedAlerts, alertsFeed(t, [2]string{"Detour", "Main St closed"}), nil)
	require.True(t, e.Poll(context.Background()))
	_, ok = e.SelectedAlert()
	assert.False(t, ok)

	require.NoError(t, e.SelectAlert(""))
}

func TestEngine_RunPollsImmediately(t *testing.T) {
	f := newFakeFetcher()
	f.set(gtfsrt.FeedTripUpdates, tripUpdatesFeed(t), nil)
	e := newTestEngine(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, ok := e.Store().TripUpdate("T1")
		return ok
	}, time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestEngine_OlderBoardDoesNotOverwriteNewer(t *testing.T) {
	f := newFakeFetcher()
	e := newTestEngine(t, f)
	e.SelectStop("R1", "S1")

	// compiled from the empty store, stored only after a poll lands
	stale := e.compileBoard()

	f.set(gtfsrt.FeedTripUpdates, tripUpdatesFeed(t), nil)
	require.True(t, e.Poll(context.Background()))
	require.Len(t, e.GetDepartureBoard(), 1)

	assert.False(t, e.storeBoard(stale))
	board := e.GetDepartureBoard()
	require.Len(t, board, 1)
	assert.Equal(t, 180, board[0].Delay)

	// same generation, same selection: a fresh compile still lands
	assert.True(t, e.storeBoard(e.compileBoard()))
}
