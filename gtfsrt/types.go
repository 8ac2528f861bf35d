package gtfsrt

// Feed names a realtime feed type
type Feed string

const (
	FeedTripUpdates      Feed = "tripupdates"
	FeedVehiclePositions Feed = "vehicleupdates"
	FeedAlerts           Feed = "alerts"
)

// Feeds lists the feed types in poll order
var Feeds = []Feed{FeedTripUpdates, FeedVehiclePositions, FeedAlerts}

// TripUpdate is the realtime state of one scheduled trip
type TripUpdate struct {
	TripID          string
	RouteID         string
	Deleted         bool // FeedEntity.is_deleted
	Canceled        bool // trip schedule_relationship == CANCELED
	StopTimeUpdates []StopTimeUpdate
}

// IsCanceled reports whether the whole trip is withdrawn
func (t TripUpdate) IsCanceled() bool { return t.Deleted || t.Canceled }

// StopTimeUpdate is a per-stop prediction. Nil pointers mean the field was
// absent in the feed.
type StopTimeUpdate struct {
	StopSequence   *uint32
	StopID         *string
	ArrivalDelay   *int32
	DepartureDelay *int32
	Skipped        bool
}

// Delay returns the departure delay if present, else the arrival delay,
// else 0.
func (u StopTimeUpdate) Delay() int {
	if u.DepartureDelay != nil {
		return int(*u.DepartureDelay)
	}
	if u.ArrivalDelay != nil {
		return int(*u.ArrivalDelay)
	}
	return 0
}

// VehiclePosition is one vehicle from the vehicle-positions feed
type VehiclePosition struct {
	Key       string `json:"key"` // vehicle id, or trip id when the vehicle has no id
	VehicleID string `json:"vehicleId,omitempty"`
	Label     string `json:"vehicleLabel,omitempty"`

	HasTrip bool   `json:"-"`
	TripID  string `json:"tripId,omitempty"`
	RouteID string `json:"routeId,omitempty"`

	HasPosition bool    `json:"-"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Bearing     float64 `json:"bearing,omitempty"`

	Timestamp int64 `json:"timestamp,omitempty"`
}

// Alert is a service alert with its first translations flattened to text
type Alert struct {
	EntityID    string   `json:"entityId,omitempty"`
	Header      string   `json:"header"`
	Description string   `json:"description"`
	Cause       string   `json:"cause,omitempty"`
	Effect      string   `json:"effect,omitempty"`
	RouteIDs    []string `json:"routeIds,omitempty"`
	StopIDs     []string `json:"stopIds,omitempty"`
	TripIDs     []string `json:"tripIds,omitempty"`
}
