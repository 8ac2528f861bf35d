package gtfs

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var csvFixture = map[string]string{
	"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
		"R1,10,Downtown,3\n" +
		"R2,20,Airport,3\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,Main St,49.1,-123.1\n" +
		"S2,Ash Ave,49.2,-123.2\n" +
		"S3,Cedar Rd,49.3,-123.3\n",
	"trips.txt": "route_id,service_id,trip_id\n" +
		"R1,WK,T1\n" +
		"R1,WK,T2\n" +
		"R2,WK,T3\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:00:00,08:15:00,S1,1\n" +
		"T1,08:20:00,08:20:00,S2,2\n" +
		"T2,09:00:00,09:00:00,S1,1\n" +
		"T3,25:10:00,25:10:00,S3,1\n",
}

func zipFixture(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func fixtureTables() Tables {
	return Tables{
		Routes: []Route{
			{ID: "R1", ShortName: "10", LongName: "Downtown"},
			{ID: "R2", ShortName: "20", LongName: "Airport"},
		},
		Stops: []Stop{
			{ID: "S1", Name: "Main St"},
			{ID: "S2", Name: "Ash Ave"},
			{ID: "S3", Name: "Cedar Rd"},
		},
		Trips: []Trip{
			{ID: "T1", RouteID: "R1"},
			{ID: "T2", RouteID: "R1"},
			{ID: "T3", RouteID: "R2"},
		},
		StopTimes: []StopTime{
			{TripID: "T1", StopID: "S1", StopSequence: 1, DepartureTime: "08:15:00"},
			{TripID: "T1", StopID: "S2", StopSequence: 2, DepartureTime: "08:20:00"},
			{TripID: "T2", StopID: "S1", StopSequence: 1, DepartureTime: "09:00:00"},
			{TripID: "T3", StopID: "S3", StopSequence: 1, DepartureTime: "25:10:00"},
			{TripID: "GHOST", StopID: "S9", StopSequence: 1, DepartureTime: "10:00:00"},
		},
	}
}
