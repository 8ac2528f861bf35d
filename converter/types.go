package converter

// Status classifies a departure for display
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOnTime    Status = "on-time"
	StatusDelayed   Status = "delayed"
)

const (
	// DelayedThresholdSeconds is the delay above which a departure is late
	DelayedThresholdSeconds = 60
	// MaxDepartures bounds the departure board
	MaxDepartures = 5

	// PlaceholderDescription is the description some producers send instead
	// of leaving the field empty
	PlaceholderDescription = "No description available."
	DefaultAlertHeader     = "Service Alert"
)

// DepartureEntry is one row of the departure board. Adjusted is always
// Scheduled + Delay.
type DepartureEntry struct {
	TripID        string `json:"tripId"`
	DepartureTime string `json:"departureTime"` // raw stop_times value
	Scheduled     int    `json:"scheduledSeconds"`
	Delay         int    `json:"delaySeconds"`
	Adjusted      int    `json:"adjustedSeconds"`
	Canceled      bool   `json:"-"`
	HasRealtime   bool   `json:"hasRealtime"`
	Status        Status `json:"status"`
}

// Classify returns the status for a resolved delay
func Classify(hasRealtime bool, delay int) Status {
	switch {
	case !hasRealtime:
		return StatusScheduled
	case delay > DelayedThresholdSeconds:
		return StatusDelayed
	default:
		return StatusOnTime
	}
}

// CuratedAlert is an alert fit for display. ID is derived from the text, so
// it survives refreshes that reorder or drop other alerts.
type CuratedAlert struct {
	ID          string `json:"id"`
	Header      string `json:"header"`
	Description string `json:"description"`
}
