package utils

import (
	"time"
)

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return Iso8601FromTime(time.Now())
}

// Iso8601FromTime formats t in RFC3339 keeping its offset
func Iso8601FromTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	if sec <= 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// ValidUntilFrom calculates the valid until timestamp
func ValidUntilFrom(base time.Time, interval time.Duration) string {
	if base.IsZero() || interval <= 0 {
		return ""
	}
	return base.Add(interval).Format(time.RFC3339)
}

// ServiceDayTime returns the instant seconds after the wall-clock midnight
// of day's date, in day's location
func ServiceDayTime(day time.Time, seconds int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(seconds) * time.Second)
}
