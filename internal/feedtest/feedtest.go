// Package feedtest builds GTFS-RT FeedMessage fixtures for tests.
package feedtest

import (
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// NewFeed returns an empty FeedMessage with a valid header
func NewFeed(entities ...*gtfsrtpb.FeedEntity) *gtfsrtpb.FeedMessage {
	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(1700000000),
		},
		Entity: entities,
	}
}

// Marshal encodes fm, failing the test on error
func Marshal(t testing.TB, fm *gtfsrtpb.FeedMessage) []byte {
	t.Helper()
	data, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}
	return data
}

// StopTimeUpdateOption sets one optional field on a stop-time update
type StopTimeUpdateOption func(*gtfsrtpb.TripUpdate_StopTimeUpdate)

func Seq(n uint32) StopTimeUpdateOption {
	return func(u *gtfsrtpb.TripUpdate_StopTimeUpdate) { u.StopSequence = proto.Uint32(n) }
}

func StopID(id string) StopTimeUpdateOption {
	return func(u *gtfsrtpb.TripUpdate_StopTimeUpdate) { u.StopId = proto.String(id) }
}

func ArrivalDelay(d int32) StopTimeUpdateOption {
	return func(u *gtfsrtpb.TripUpdate_StopTimeUpdate) {
		u.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: proto.Int32(d)}
	}
}

func DepartureDelay(d int32) StopTimeUpdateOption {
	return func(u *gtfsrtpb.TripUpdate_StopTimeUpdate) {
		u.Departure = &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: proto.Int32(d)}
	}
}

func Skipped() StopTimeUpdateOption {
	return func(u *gtfsrtpb.TripUpdate_StopTimeUpdate) {
		u.ScheduleRelationship = gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED.Enum()
	}
}

func STU(opts ...StopTimeUpdateOption) *gtfsrtpb.TripUpdate_StopTimeUpdate {
	u := &gtfsrtpb.TripUpdate_StopTimeUpdate{}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// TripUpdate builds a trip-update entity
func TripUpdate(entityID, tripID string, stus ...*gtfsrtpb.TripUpdate_StopTimeUpdate) *gtfsrtpb.FeedEntity {
	return &gtfsrtpb.FeedEntity{
		Id: proto.String(entityID),
		TripUpdate: &gtfsrtpb.TripUpdate{
			Trip:           &gtfsrtpb.TripDescriptor{TripId: proto.String(tripID)},
			StopTimeUpdate: stus,
		},
	}
}

// Deleted marks the entity is_deleted
func Deleted(e *gtfsrtpb.FeedEntity) *gtfsrtpb.FeedEntity {
	e.IsDeleted = proto.Bool(true)
	return e
}

// Canceled sets the trip descriptor's schedule relationship to CANCELED
func Canceled(e *gtfsrtpb.FeedEntity) *gtfsrtpb.FeedEntity {
	e.TripUpdate.Trip.ScheduleRelationship = gtfsrtpb.TripDescriptor_CANCELED.Enum()
	return e
}

// Vehicle builds a vehicle-position entity. Empty ids leave the
// corresponding descriptor unset.
func Vehicle(entityID, vehicleID, label, tripID, routeID string, lat, lon float32) *gtfsrtpb.FeedEntity {
	vp := &gtfsrtpb.VehiclePosition{
		Position:  &gtfsrtpb.Position{Latitude: proto.Float32(lat), Longitude: proto.Float32(lon)},
		Timestamp: proto.Uint64(1700000000),
	}
	if vehicleID != "" || label != "" {
		vp.Vehicle = &gtfsrtpb.VehicleDescriptor{}
		if vehicleID != "" {
			vp.Vehicle.Id = proto.String(vehicleID)
		}
		if label != "" {
			vp.Vehicle.Label = proto.String(label)
		}
	}
	if tripID != "" || routeID != "" {
		vp.Trip = &gtfsrtpb.TripDescriptor{}
		if tripID != "" {
			vp.Trip.TripId = proto.String(tripID)
		}
		if routeID != "" {
			vp.Trip.RouteId = proto.String(routeID)
		}
	}
	return &gtfsrtpb.FeedEntity{Id: proto.String(entityID), Vehicle: vp}
}

// Alert builds an alert entity. Empty strings leave the text unset.
func Alert(entityID, header, description string) *gtfsrtpb.FeedEntity {
	a := &gtfsrtpb.Alert{}
	if header != "" {
		a.HeaderText = translated(header)
	}
	if description != "" {
		a.DescriptionText = translated(description)
	}
	return &gtfsrtpb.FeedEntity{Id: proto.String(entityID), Alert: a}
}

func translated(text string) *gtfsrtpb.TranslatedString {
	return &gtfsrtpb.TranslatedString{
		Translation: []*gtfsrtpb.TranslatedString_Translation{{Text: proto.String(text), Language: proto.String("en")}},
	}
}
