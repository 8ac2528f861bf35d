package converter

import (
	"sort"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

// CompileDepartures returns at most MaxDepartures upcoming departures of
// routeID at stopID, ordered by adjusted time. Canceled departures and those
// adjusted to before nowSec are dropped. When several departures share an
// adjusted second only the first in stop_times order is kept.
func (c *Converter) CompileDepartures(updates map[string]gtfsrt.TripUpdate, routeID, stopID string, nowSec int) []DepartureEntry {
	out := []DepartureEntry{}
	tripIDs := c.GTFS.GetTripIDsForRoute(routeID)
	if len(tripIDs) == 0 {
		return out
	}
	onRoute := make(map[string]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		onRoute[id] = struct{}{}
	}

	warnings := NewWarningAggregator()
	for _, st := range c.GTFS.GetStopTimesForStop(stopID) {
		if _, ok := onRoute[st.TripID]; !ok {
			continue
		}
		e := resolveDeparture(st, updates, warnings)
		if e.Canceled || e.Adjusted < nowSec {
			continue
		}
		out = append(out, e)
	}
	warnings.LogAll(c.Log, "departures")

	sort.SliceStable(out, func(i, j int) bool { return out[i].Adjusted < out[j].Adjusted })

	// Sorted, so equal adjusted times are adjacent
	deduped := make([]DepartureEntry, 0, len(out))
	for _, e := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Adjusted == e.Adjusted {
			continue
		}
		deduped = append(deduped, e)
	}
	if len(deduped) > MaxDepartures {
		deduped = deduped[:MaxDepartures]
	}
	return deduped
}

func resolveDeparture(st gtfs.StopTime, updates map[string]gtfsrt.TripUpdate, warnings *WarningAggregator) DepartureEntry {
	scheduled, ok := gtfs.ParseTimeOfDay(st.DepartureTime)
	if !ok {
		warnings.Add(WarningBadDepartureTime, st.TripID)
	}
	e := DepartureEntry{
		TripID:        st.TripID,
		DepartureTime: st.DepartureTime,
		Scheduled:     scheduled,
	}
	if tu, ok := updates[st.TripID]; ok {
		if tu.IsCanceled() {
			e.Canceled = true
		} else if stu, ok := MatchStopTimeUpdate(tu.StopTimeUpdates, st); ok {
			e.HasRealtime = true
			if stu.Skipped {
				e.Canceled = true
			} else {
				e.Delay = stu.Delay()
			}
		} else {
			warnings.Add(WarningNoStopTimeUpdate, st.TripID)
		}
	}
	e.Adjusted = e.Scheduled + e.Delay
	e.Status = Classify(e.HasRealtime, e.Delay)
	return e
}

// MatchStopTimeUpdate finds the update for st, by stop sequence first and
// by stop id otherwise.
func MatchStopTimeUpdate(updates []gtfsrt.StopTimeUpdate, st gtfs.StopTime) (gtfsrt.StopTimeUpdate, bool) {
	for _, u := range updates {
		if u.StopSequence != nil && int64(*u.StopSequence) == int64(st.StopSequence) {
			return u, true
		}
	}
	for _, u := range updates {
		if u.StopID != nil && *u.StopID == st.StopID {
			return u, true
		}
	}
	return gtfsrt.StopTimeUpdate{}, false
}
