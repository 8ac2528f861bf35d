// Package converter derives the passenger-facing views from the static
// schedule and the realtime feed snapshots.
//
// # Overview
//
// Three views are produced, each a pure function of its inputs:
//   - Departure board: the next departures of a route at a stop, with
//     realtime delays applied (departures.go)
//   - Vehicle markers: vehicles with a usable position, optionally limited
//     to one route (vehicles.go)
//   - Curated alerts: alerts that carry a real description (alerts.go)
//
// # Usage
//
//	idx := gtfs.NewScheduleIndex(tables)
//	conv := converter.NewConverter(idx, logger)
//
//	snap := feedStore.Snapshot()
//	board := conv.CompileDepartures(snap.TripUpdates, "R1", "S1", gtfs.SecondsSinceMidnight(time.Now()))
//	markers := conv.FilterVehicles(snap.Vehicles, "R1")
//	alerts := converter.CurateAlerts(snap.Alerts)
//
// # Thread Safety
//
// A Converter holds only the immutable schedule index and a logger, so one
// instance may be shared across goroutines. Inputs are read, never modified.
//
// # Data quality
//
// Malformed rows and entities never fail a computation. They degrade to a
// default (scheduled time 0, vehicle hidden, alert dropped) and are counted
// in a Warnings aggregator that is logged once per call at debug level.
package converter
