/*
Package gtfs provides GTFS static schedule loading and indexing.

The four tables the departure board needs (routes, stops, trips and
stop_times) are loaded once into a Tables value and indexed by
NewScheduleIndex. The index is never mutated after construction and is safe
for concurrent readers.

# Loading

From a GTFS zip (URL or local path):

	tables, err := gtfs.LoadFromZip(ctx, "https://example.com/google_transit.zip")

From a directory holding routes/stops/trips/stop_times as .json or .txt:

	tables, err := gtfs.LoadFromDir("./data")

All four tables are required. A missing table returns ErrMissingTable and the
engine refuses to start.

# Lookups

Lookups of unknown ids return the zero value and false; they are never errors:

	stop, ok := index.GetStop("S1")
	tripIDs := index.GetTripIDsForRoute("R1") // nil for an unknown route

# Times past midnight

Scheduled times may exceed 24:00:00. TimeOfDayToSeconds keeps them on the
same service day: "25:10:00" is 90600 seconds.
*/
package gtfs
