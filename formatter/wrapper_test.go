package formatter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/converter"
)

func TestWrapDepartureBoard(t *testing.T) {
	day := time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC)
	entries := []converter.DepartureEntry{{
		TripID: "T1", DepartureTime: "08:15:00",
		Scheduled: 29700, Delay: 180, Adjusted: 29880,
		HasRealtime: true, Status: converter.StatusDelayed,
	}}

	board := WrapDepartureBoard("R1", "S1", entries, day)
	require.Len(t, board.Departures, 1)
	d := board.Departures[0]
	assert.Equal(t, "8:18 AM", d.Time)
	assert.Equal(t, "8:15 AM", d.ScheduledTime)
	assert.Equal(t, "Delayed 3 min", d.Label)
	assert.Equal(t, "2024-03-05T08:18:00Z", d.ExpectedAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(BuildJSON(board), &decoded))
	deps := decoded["departures"].([]any)
	row := deps[0].(map[string]any)
	assert.Equal(t, "T1", row["tripId"])
	assert.Equal(t, "delayed", row["status"])
	assert.Equal(t, float64(29880), row["adjustedSeconds"])
	assert.NotContains(t, row, "Canceled")
}

func TestWrapDepartureBoard_EmptyIsArray(t *testing.T) {
	board := WrapDepartureBoard("R1", "S1", nil, time.Now())
	assert.JSONEq(t, `{"routeId":"R1","stopId":"S1","departures":[]}`, string(BuildJSON(board)))
}

func TestWrap(t *testing.T) {
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	env := Wrap([]string{"x"}, now, 10*time.Second)
	assert.Equal(t, "2024-03-05T08:00:00Z", env.ResponseTimestamp)
	assert.Equal(t, "2024-03-05T08:00:10Z", env.ValidUntil)

	env = Wrap(nil, now, 0)
	assert.Empty(t, env.ValidUntil)
}

func TestBuildJSON_Unencodable(t *testing.T) {
	assert.Equal(t, "null", string(BuildJSON(make(chan int))))
}
