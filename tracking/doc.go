// Package tracking records the refresh history of each realtime feed.
//
// The Tracker is updated by the poller after every fetch attempt and read by
// the health endpoint. A FeedHealth value is a copy, so callers may keep it.
package tracking
