package departures

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/config"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/converter"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/poller"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/store"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/tracking"
)

var (
	// ErrNotInitialized is returned by operations that need the schedule
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrUnknownAlert is returned when selecting an alert id not on display
	ErrUnknownAlert = errors.New("unknown alert")
)

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the wall clock used for the "now" cutoff
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithFetcher replaces the GTFS-RT HTTP client used by the poller
func WithFetcher(f poller.Fetcher) Option {
	return func(e *Engine) { e.fetcher = f }
}

// WithRegistry registers feed metrics on r instead of a private registry
func WithRegistry(r *prometheus.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// Engine owns the schedule index, the feed store and the derived views.
// All exported methods are safe for concurrent use.
type Engine struct {
	cfg      config.AppConfig
	loc      *time.Location
	now      func() time.Time
	registry *prometheus.Registry
	metrics  *gtfsrt.Metrics
	client   *gtfsrt.Client
	fetcher  poller.Fetcher

	// set once by Initialize
	index  *gtfs.ScheduleIndex
	conv   *converter.Converter
	poller *poller.Poller
	feeds  *store.FeedStore

	mu            sync.RWMutex
	routeID       string
	stopID        string
	board         []converter.DepartureEntry
	vehicles      map[string]converter.VehicleMarker
	alerts        []converter.CuratedAlert
	selectedAlert string
	boardAt       time.Time

	// trip-update generation the board was compiled from
	boardGeneration uint64
}

// New creates an engine for cfg. cfg is expected to be finalized.
func New(cfg config.AppConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		loc:      time.Local,
		now:      time.Now,
		feeds:    store.NewFeedStore(),
		board:    []converter.DepartureEntry{},
		vehicles: map[string]converter.VehicleMarker{},
		alerts:   []converter.CuratedAlert{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if cfg.GTFS.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.GTFS.Timezone); err == nil {
			e.loc = loc
		} else {
			log.Warn().Err(err).Str("timezone", cfg.GTFS.Timezone).Msg("Unknown timezone, using local time")
		}
	}
	if e.registry == nil {
		e.registry = prometheus.NewRegistry()
	}
	e.metrics = gtfsrt.NewMetrics(e.registry)
	e.client = gtfsrt.NewClient(
		gtfsrt.WithTimeout(cfg.GTFSRT.Timeout()),
		gtfsrt.WithCacheBust(cfg.GTFSRT.CacheBustEnabled()),
		gtfsrt.WithMetrics(e.metrics),
	)
	if e.fetcher == nil {
		e.fetcher = e.client
	}
	return e
}

// Initialize loads the static schedule from the configured source. The
// engine must not be used if it returns an error.
func (e *Engine) Initialize(ctx context.Context) error {
	load := func(ctx context.Context) (gtfs.Tables, error) {
		if e.cfg.GTFS.StaticURL != "" {
			return gtfs.LoadFromZip(ctx, e.cfg.GTFS.StaticURL)
		}
		return gtfs.LoadFromDir(e.cfg.GTFS.DataDir)
	}
	start := time.Now()
	tables, fromCache, err := gtfs.LoadCached(ctx, e.cfg.GTFS.CachePath, load)
	if err != nil {
		if tables.RowCount() == 0 {
			return fmt.Errorf("load static GTFS: %w", err)
		}
		log.Warn().Err(err).Msg("Static GTFS loaded but cache not written")
	}
	log.Info().
		Bool("cache", fromCache).
		Int("routes", len(tables.Routes)).
		Int("stops", len(tables.Stops)).
		Int("trips", len(tables.Trips)).
		Int("stopTimes", len(tables.StopTimes)).
		Dur("elapsed", time.Since(start)).
		Msg("Static GTFS loaded")
	e.InitializeFromTables(tables)
	return nil
}

// InitializeFromTables builds the index and poller from already-loaded tables
func (e *Engine) InitializeFromTables(tables gtfs.Tables) {
	e.index = gtfs.NewScheduleIndex(tables)
	e.conv = converter.NewConverter(e.index, log.Logger)
	e.poller = poller.New(e.fetcher, e.feeds, poller.Sources{
		gtfsrt.FeedTripUpdates:      e.cfg.GTFSRT.TripUpdatesURL,
		gtfsrt.FeedVehiclePositions: e.cfg.GTFSRT.VehiclePositionsURL,
		gtfsrt.FeedAlerts:           e.cfg.GTFSRT.ServiceAlertsURL,
	},
		poller.WithInterval(e.cfg.GTFSRT.PollInterval()),
		poller.WithConcurrentFetch(e.cfg.GTFSRT.ConcurrentFetch),
		poller.WithMetrics(e.metrics),
		poller.WithHooks(poller.Hooks{
			OnVehicles: e.refreshVehicles,
			OnAlerts:   e.refreshAlerts,
			OnCycle:    e.refreshBoard,
		}),
	)
}

// Run polls until ctx is done
func (e *Engine) Run(ctx context.Context) error {
	if e.poller == nil {
		return ErrNotInitialized
	}
	return e.poller.Run(ctx)
}

// Poll runs one refresh cycle now. It returns false if a cycle was already
// in flight.
func (e *Engine) Poll(ctx context.Context) bool {
	if e.poller == nil {
		return false
	}
	return e.poller.Poll(ctx)
}

// SelectRoute changes the route, clears the stop and refreshes the vehicle
// markers. An empty routeID shows every vehicle.
func (e *Engine) SelectRoute(routeID string) {
	e.mu.Lock()
	e.routeID = routeID
	e.stopID = ""
	e.mu.Unlock()
	e.refreshVehicles()
	e.refreshBoard()
}

// SelectStop selects a route and stop and recompiles the departure board
func (e *Engine) SelectStop(routeID, stopID string) {
	e.mu.Lock()
	routeChanged := e.routeID != routeID
	e.routeID = routeID
	e.stopID = stopID
	e.mu.Unlock()
	if routeChanged {
		e.refreshVehicles()
	}
	e.refreshBoard()
}

// Selection returns the selected route and stop
func (e *Engine) Selection() (routeID, stopID string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.routeID, e.stopID
}

// GetDepartureBoard returns the board compiled at the last poll or
// selection change
func (e *Engine) GetDepartureBoard() []converter.DepartureEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]converter.DepartureEntry, len(e.board))
	copy(out, e.board)
	return out
}

// BoardTime returns when the board was last compiled
func (e *Engine) BoardTime() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.boardAt
}

// GetFilteredVehicles returns the vehicle markers for the selected route
func (e *Engine) GetFilteredVehicles() map[string]converter.VehicleMarker {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]converter.VehicleMarker, len(e.vehicles))
	for k, v := range e.vehicles {
		out[k] = v
	}
	return out
}

// GetCuratedAlerts returns the displayable alerts in feed order
func (e *Engine) GetCuratedAlerts() []converter.CuratedAlert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]converter.CuratedAlert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// SelectAlert shows the alert with id in the detail view. An empty id
// clears the selection.
func (e *Engine) SelectAlert(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == "" {
		e.selectedAlert = ""
		return nil
	}
	if _, ok := converter.FindAlert(e.alerts, id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAlert, id)
	}
	e.selectedAlert = id
	return nil
}

// SelectedAlert returns the alert in the detail view, if any
func (e *Engine) SelectedAlert() (converter.CuratedAlert, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.selectedAlert == "" {
		return converter.CuratedAlert{}, false
	}
	return converter.FindAlert(e.alerts, e.selectedAlert)
}

// Routes returns every route in routes.txt order
func (e *Engine) Routes() []gtfs.Route {
	if e.index == nil {
		return nil
	}
	return e.index.Routes()
}

// StopsForRoute returns the stops served by routeID, sorted by name
func (e *Engine) StopsForRoute(routeID string) []gtfs.Stop {
	if e.index == nil {
		return nil
	}
	return e.index.StopsForRoute(routeID)
}

// Index returns the schedule index; nil before initialization
func (e *Engine) Index() *gtfs.ScheduleIndex { return e.index }

// Store returns the realtime feed store
func (e *Engine) Store() *store.FeedStore { return e.feeds }

// Health returns the refresh state of every attempted feed
func (e *Engine) Health() []tracking.FeedHealth {
	if e.poller == nil {
		return nil
	}
	return e.poller.Tracker().All()
}

// Registry returns the Prometheus registry holding the feed metrics
func (e *Engine) Registry() *prometheus.Registry { return e.registry }

// Client returns the GTFS-RT client configured for the feeds
func (e *Engine) Client() *gtfsrt.Client { return e.client }

// Config returns the engine configuration
func (e *Engine) Config() config.AppConfig { return e.cfg }

// Now returns the current time in the schedule timezone
func (e *Engine) Now() time.Time { return e.now().In(e.loc) }

// compiledBoard is a board together with the selection and trip-update
// generation it was compiled from
type compiledBoard struct {
	routeID, stopID string
	generation      uint64
	at              time.Time
	entries         []converter.DepartureEntry
}

func (e *Engine) refreshBoard() {
	if e.conv == nil {
		return
	}
	e.storeBoard(e.compileBoard())
}

// compileBoard runs outside the engine lock
func (e *Engine) compileBoard() compiledBoard {
	now := e.Now()
	updates, generation := e.feeds.VersionedTripUpdates()

	e.mu.RLock()
	routeID, stopID := e.routeID, e.stopID
	e.mu.RUnlock()

	entries := []converter.DepartureEntry{}
	if routeID != "" && stopID != "" {
		entries = e.conv.CompileDepartures(updates, routeID, stopID, gtfs.SecondsSinceMidnight(now))
	}
	return compiledBoard{routeID: routeID, stopID: stopID, generation: generation, at: now, entries: entries}
}

// storeBoard swaps b in unless the selection moved on or a board from newer
// trip updates is already stored
func (e *Engine) storeBoard(b compiledBoard) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.routeID != b.routeID || e.stopID != b.stopID || b.generation < e.boardGeneration {
		return false
	}
	e.board = b.entries
	e.boardAt = b.at
	e.boardGeneration = b.generation
	return true
}

func (e *Engine) refreshVehicles() {
	if e.conv == nil {
		return
	}
	vehicles := e.feeds.VehiclePositions()

	e.mu.RLock()
	routeID := e.routeID
	e.mu.RUnlock()

	markers := e.conv.FilterVehicles(vehicles, routeID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.routeID == routeID {
		e.vehicles = markers
	}
}

func (e *Engine) refreshAlerts() {
	alerts := converter.CurateAlerts(e.feeds.Alerts())

	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts = alerts
	if e.selectedAlert != "" {
		if _, ok := converter.FindAlert(alerts, e.selectedAlert); !ok {
			e.selectedAlert = ""
		}
	}
}
