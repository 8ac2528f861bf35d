package gtfs

// Route is a row of routes.txt
type Route struct {
	ID        string `csv:"route_id" json:"route_id"`
	ShortName string `csv:"route_short_name" json:"route_short_name"`
	LongName  string `csv:"route_long_name" json:"route_long_name"`
}

// Label is the "<short> - <long>" text shown in route pickers
func (r Route) Label() string {
	switch {
	case r.ShortName == "":
		return r.LongName
	case r.LongName == "":
		return r.ShortName
	}
	return r.ShortName + " - " + r.LongName
}

// Stop is a row of stops.txt
type Stop struct {
	ID        string  `csv:"stop_id" json:"stop_id"`
	Name      string  `csv:"stop_name" json:"stop_name"`
	Latitude  float64 `csv:"stop_lat" json:"stop_lat"`
	Longitude float64 `csv:"stop_lon" json:"stop_lon"`
}

// Trip is a row of trips.txt
type Trip struct {
	ID      string `csv:"trip_id" json:"trip_id"`
	RouteID string `csv:"route_id" json:"route_id"`
}

// StopTime is a row of stop_times.txt. DepartureTime is kept as the raw
// HH:MM:SS string; see TimeOfDayToSeconds.
type StopTime struct {
	TripID        string `csv:"trip_id" json:"trip_id"`
	StopID        string `csv:"stop_id" json:"stop_id"`
	StopSequence  int    `csv:"stop_sequence" json:"stop_sequence"`
	DepartureTime string `csv:"departure_time" json:"departure_time"`
}

// Tables holds the static schedule as loaded, in file order
type Tables struct {
	Routes    []Route
	Stops     []Stop
	Trips     []Trip
	StopTimes []StopTime
}

// RowCount returns the total number of rows across all tables
func (t Tables) RowCount() int {
	return len(t.Routes) + len(t.Stops) + len(t.Trips) + len(t.StopTimes)
}
