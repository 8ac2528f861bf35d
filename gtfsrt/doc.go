// Package gtfsrt fetches and decodes GTFS-Realtime protobuf feeds.
//
// It supports three feed types:
//   - Trip Updates: per-stop delays, skipped stops and canceled trips
//   - Vehicle Positions: current vehicle locations
//   - Service Alerts: disruptions and service changes
//
// Decode turns raw bytes into a FeedMessage. ParseTripUpdates,
// ParseVehiclePositions and ParseAlerts flatten a FeedMessage into the small
// entity model the rest of the module works with, where absent optional
// protobuf fields stay nil rather than collapsing to zero.
//
// Client fetches a feed from an http(s) URL or a local file path.
package gtfsrt
