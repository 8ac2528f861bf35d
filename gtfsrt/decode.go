package gtfsrt

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Missing proto2 required fields are tolerated; consumers only read what
// they need and default the rest.
var unmarshalOptions = proto.UnmarshalOptions{AllowPartial: true}

// Decode unmarshals a GTFS-RT FeedMessage
func Decode(data []byte) (*gtfsrtpb.FeedMessage, error) {
	var fm gtfsrtpb.FeedMessage
	if err := unmarshalOptions.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("decode feed message: %w", err)
	}
	return &fm, nil
}

// ParseTripUpdates keys trip updates by trip id. Entities without a trip id
// are skipped; a later entity for the same trip replaces an earlier one.
func ParseTripUpdates(fm *gtfsrtpb.FeedMessage) map[string]TripUpdate {
	out := make(map[string]TripUpdate, len(fm.GetEntity()))
	for _, e := range fm.GetEntity() {
		tu := e.GetTripUpdate()
		if tu == nil || tu.GetTrip() == nil {
			continue
		}
		trip := tu.GetTrip()
		tripID := trip.GetTripId()
		if tripID == "" {
			continue
		}
		u := TripUpdate{
			TripID:   tripID,
			RouteID:  trip.GetRouteId(),
			Deleted:  e.GetIsDeleted(),
			Canceled: trip.ScheduleRelationship != nil && trip.GetScheduleRelationship() == gtfsrtpb.TripDescriptor_CANCELED,
		}
		if n := len(tu.GetStopTimeUpdate()); n > 0 {
			u.StopTimeUpdates = make([]StopTimeUpdate, 0, n)
		}
		for _, stu := range tu.GetStopTimeUpdate() {
			s := StopTimeUpdate{
				StopSequence: stu.StopSequence,
				StopID:       stu.StopId,
				Skipped:      stu.ScheduleRelationship != nil && stu.GetScheduleRelationship() == gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED,
			}
			if ev := stu.GetArrival(); ev != nil {
				s.ArrivalDelay = ev.Delay
			}
			if ev := stu.GetDeparture(); ev != nil {
				s.DepartureDelay = ev.Delay
			}
			u.StopTimeUpdates = append(u.StopTimeUpdates, s)
		}
		out[tripID] = u
	}
	return out
}

// ParseVehiclePositions keys vehicles by vehicle id, falling back to trip id.
// Vehicles with neither are dropped.
func ParseVehiclePositions(fm *gtfsrtpb.FeedMessage) map[string]VehiclePosition {
	out := make(map[string]VehiclePosition, len(fm.GetEntity()))
	for _, e := range fm.GetEntity() {
		vp := e.GetVehicle()
		if vp == nil {
			continue
		}
		v := VehiclePosition{
			VehicleID: vp.GetVehicle().GetId(),
			Label:     vp.GetVehicle().GetLabel(),
			Timestamp: int64(vp.GetTimestamp()),
		}
		if trip := vp.GetTrip(); trip != nil {
			v.HasTrip = true
			v.TripID = trip.GetTripId()
			v.RouteID = trip.GetRouteId()
		}
		if pos := vp.GetPosition(); pos != nil {
			v.HasPosition = true
			v.Latitude = float64(pos.GetLatitude())
			v.Longitude = float64(pos.GetLongitude())
			v.Bearing = float64(pos.GetBearing())
		}
		switch {
		case v.VehicleID != "":
			v.Key = v.VehicleID
		case v.TripID != "":
			v.Key = v.TripID
		default:
			continue
		}
		out[v.Key] = v
	}
	return out
}

// ParseAlerts returns alerts in feed entity order
func ParseAlerts(fm *gtfsrtpb.FeedMessage) []Alert {
	var out []Alert
	for _, e := range fm.GetEntity() {
		a := e.GetAlert()
		if a == nil {
			continue
		}
		ra := Alert{
			EntityID:    e.GetId(),
			Header:      firstTranslation(a.GetHeaderText()),
			Description: firstTranslation(a.GetDescriptionText()),
		}
		if a.Cause != nil {
			ra.Cause = a.GetCause().String()
		}
		if a.Effect != nil {
			ra.Effect = a.GetEffect().String()
		}
		for _, ie := range a.GetInformedEntity() {
			if ie.RouteId != nil {
				ra.RouteIDs = append(ra.RouteIDs, ie.GetRouteId())
			}
			if ie.StopId != nil {
				ra.StopIDs = append(ra.StopIDs, ie.GetStopId())
			}
			if ie.GetTrip().GetTripId() != "" {
				ra.TripIDs = append(ra.TripIDs, ie.GetTrip().GetTripId())
			}
		}
		out = append(out, ra)
	}
	return out
}

func firstTranslation(ts *gtfsrtpb.TranslatedString) string {
	if ts == nil || len(ts.GetTranslation()) == 0 {
		return ""
	}
	return ts.GetTranslation()[0].GetText()
}
