// Package store holds the latest successfully decoded realtime feeds.
//
// Each feed is an independent slice. Replace* swaps a whole slice under the
// write lock, so a reader sees either the previous or the new collection for
// a feed, never a mix. Collections handed to Replace* and returned by the
// getters are shared and must not be modified.
package store

import (
	"sync"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

// FeedStore provides thread-safe access to realtime data
type FeedStore struct {
	mu sync.RWMutex

	tripUpdates map[string]gtfsrt.TripUpdate      // trip_id -> update
	vehicles    map[string]gtfsrt.VehiclePosition // vehicle key -> position
	alerts      []gtfsrt.Alert                    // feed order

	// bumped on every replace of the feed
	generation map[gtfsrt.Feed]uint64
}

// Snapshot is a consistent view of all three slices
type Snapshot struct {
	TripUpdates map[string]gtfsrt.TripUpdate
	Vehicles    map[string]gtfsrt.VehiclePosition
	Alerts      []gtfsrt.Alert
}

// NewFeedStore creates an empty store
func NewFeedStore() *FeedStore {
	return &FeedStore{
		tripUpdates: map[string]gtfsrt.TripUpdate{},
		vehicles:    map[string]gtfsrt.VehiclePosition{},
		generation:  map[gtfsrt.Feed]uint64{},
	}
}

func (s *FeedStore) ReplaceTripUpdates(updates map[string]gtfsrt.TripUpdate) {
	if updates == nil {
		updates = map[string]gtfsrt.TripUpdate{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tripUpdates = updates
	s.generation[gtfsrt.FeedTripUpdates]++
}

func (s *FeedStore) ReplaceVehiclePositions(vehicles map[string]gtfsrt.VehiclePosition) {
	if vehicles == nil {
		vehicles = map[string]gtfsrt.VehiclePosition{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = vehicles
	s.generation[gtfsrt.FeedVehiclePositions]++
}

func (s *FeedStore) ReplaceAlerts(alerts []gtfsrt.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = alerts
	s.generation[gtfsrt.FeedAlerts]++
}

// TripUpdate returns the update for tripID, if any
func (s *FeedStore) TripUpdate(tripID string) (gtfsrt.TripUpdate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.tripUpdates[tripID]
	return u, ok
}

func (s *FeedStore) TripUpdates() map[string]gtfsrt.TripUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tripUpdates
}

// VersionedTripUpdates returns the trip updates together with the
// generation they were stored at
func (s *FeedStore) VersionedTripUpdates() (map[string]gtfsrt.TripUpdate, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tripUpdates, s.generation[gtfsrt.FeedTripUpdates]
}

func (s *FeedStore) VehiclePositions() map[string]gtfsrt.VehiclePosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vehicles
}

func (s *FeedStore) Alerts() []gtfsrt.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alerts
}

// Snapshot returns all three slices read under one lock
func (s *FeedStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{TripUpdates: s.tripUpdates, Vehicles: s.vehicles, Alerts: s.alerts}
}

// Generation counts the replaces of feed; 0 if never replaced
func (s *FeedStore) Generation(feed gtfsrt.Feed) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation[feed]
}

// Len returns the entity count held for feed
func (s *FeedStore) Len(feed gtfsrt.Feed) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch feed {
	case gtfsrt.FeedTripUpdates:
		return len(s.tripUpdates)
	case gtfsrt.FeedVehiclePositions:
		return len(s.vehicles)
	case gtfsrt.FeedAlerts:
		return len(s.alerts)
	}
	return 0
}
