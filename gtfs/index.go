package gtfs

import (
	"sort"
)

// ScheduleIndex stores the static schedule in memory for fast lookups.
// It is built once by NewScheduleIndex and never mutated afterwards.
type ScheduleIndex struct {
	routes          []Route               // table order
	routeByID       map[string]Route      // route_id -> route
	stopByID        map[string]Stop       // stop_id -> stop
	tripByID        map[string]Trip       // trip_id -> trip
	tripsByRoute    map[string][]string   // route_id -> trip_ids in trips.txt order
	stopTimesByStop map[string][]StopTime // stop_id -> stop_times in stop_times.txt order
	stopsByRoute    map[string][]string   // route_id -> distinct stop_ids served
}

// NewScheduleIndex builds the lookup structures in one pass over each table
func NewScheduleIndex(t Tables) *ScheduleIndex {
	g := &ScheduleIndex{
		routes:          make([]Route, 0, len(t.Routes)),
		routeByID:       make(map[string]Route, len(t.Routes)),
		stopByID:        make(map[string]Stop, len(t.Stops)),
		tripByID:        make(map[string]Trip, len(t.Trips)),
		tripsByRoute:    map[string][]string{},
		stopTimesByStop: map[string][]StopTime{},
		stopsByRoute:    map[string][]string{},
	}
	for _, r := range t.Routes {
		g.routes = append(g.routes, r)
		g.routeByID[r.ID] = r
	}
	for _, s := range t.Stops {
		g.stopByID[s.ID] = s
	}
	for _, tr := range t.Trips {
		g.tripByID[tr.ID] = tr
		g.tripsByRoute[tr.RouteID] = append(g.tripsByRoute[tr.RouteID], tr.ID)
	}
	seen := map[string]map[string]struct{}{} // route_id -> stop_id set
	for _, st := range t.StopTimes {
		g.stopTimesByStop[st.StopID] = append(g.stopTimesByStop[st.StopID], st)
		tr, ok := g.tripByID[st.TripID]
		if !ok {
			continue
		}
		set := seen[tr.RouteID]
		if set == nil {
			set = map[string]struct{}{}
			seen[tr.RouteID] = set
		}
		if _, dup := set[st.StopID]; !dup {
			set[st.StopID] = struct{}{}
			g.stopsByRoute[tr.RouteID] = append(g.stopsByRoute[tr.RouteID], st.StopID)
		}
	}
	return g
}

// Accessor methods

func (g *ScheduleIndex) GetRoute(routeID string) (Route, bool) {
	r, ok := g.routeByID[routeID]
	return r, ok
}

func (g *ScheduleIndex) GetStop(stopID string) (Stop, bool) {
	s, ok := g.stopByID[stopID]
	return s, ok
}

func (g *ScheduleIndex) GetTrip(tripID string) (Trip, bool) {
	t, ok := g.tripByID[tripID]
	return t, ok
}

// GetTripIDsForRoute returns the route's trip ids in trips.txt order.
// The returned slice is shared and must not be modified.
func (g *ScheduleIndex) GetTripIDsForRoute(routeID string) []string {
	return g.tripsByRoute[routeID]
}

// GetStopTimesForStop returns every stop_times row at stopID in file order.
// The returned slice is shared and must not be modified.
func (g *ScheduleIndex) GetStopTimesForStop(stopID string) []StopTime {
	return g.stopTimesByStop[stopID]
}

// Routes returns all routes in routes.txt order
func (g *ScheduleIndex) Routes() []Route {
	out := make([]Route, len(g.routes))
	copy(out, g.routes)
	return out
}

// StopsForRoute returns the distinct stops served by any trip of the route,
// sorted by stop name. Stop ids missing from stops.txt are skipped.
func (g *ScheduleIndex) StopsForRoute(routeID string) []Stop {
	ids := g.stopsByRoute[routeID]
	out := make([]Stop, 0, len(ids))
	for _, id := range ids {
		if s, ok := g.stopByID[id]; ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (g *ScheduleIndex) RouteCount() int { return len(g.routes) }

func (g *ScheduleIndex) StopCount() int { return len(g.stopByID) }

func (g *ScheduleIndex) TripCount() int { return len(g.tripByID) }
