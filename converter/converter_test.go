package converter

import (
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

func newTestConverter(stopTimes ...gtfs.StopTime) *Converter {
	tables := gtfs.Tables{
		Routes: []gtfs.Route{
			{ID: "R1", ShortName: "10", LongName: "Downtown"},
			{ID: "R2", ShortName: "20", LongName: "Airport"},
		},
		Stops: []gtfs.Stop{{ID: "S1", Name: "Main St"}, {ID: "S2", Name: "Ash Ave"}},
	}
	seen := map[string]bool{}
	for _, st := range stopTimes {
		if seen[st.TripID] {
			continue
		}
		seen[st.TripID] = true
		route := "R1"
		if st.TripID[0] == 'X' {
			route = "R2"
		}
		tables.Trips = append(tables.Trips, gtfs.Trip{ID: st.TripID, RouteID: route})
	}
	tables.StopTimes = stopTimes
	return NewConverter(gtfs.NewScheduleIndex(tables), zerolog.Nop())
}

func st(tripID, stopID string, seq int, dep string) gtfs.StopTime {
	return gtfs.StopTime{TripID: tripID, StopID: stopID, StopSequence: seq, DepartureTime: dep}
}

func seqUpdate(seq uint32, depDelay int32) gtfsrt.StopTimeUpdate {
	return gtfsrt.StopTimeUpdate{StopSequence: proto.Uint32(seq), DepartureDelay: proto.Int32(depDelay)}
}

func tripIDs(entries []DepartureEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.TripID
	}
	return out
}

func manyTrips(n int) []gtfs.StopTime {
	out := make([]gtfs.StopTime, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, st(fmt.Sprintf("T%d", i), "S1", 1, fmt.Sprintf("%02d:00:00", 8+i)))
	}
	return out
}
