package formatter

import (
	"fmt"
	"math"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/converter"
)

// FormatSecondsTo12Hour renders service-day seconds as "h:mm AM". Values of
// 24:00:00 and later wrap onto the next calendar day.
func FormatSecondsTo12Hour(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	// wrap before picking AM/PM so 25:10:00 is 1:10 AM, not 1:10 PM
	h := (seconds / 3600) % 24
	m := (seconds % 3600) / 60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, ampm)
}

// DelayLabel describes a departure's realtime state
func DelayLabel(e converter.DepartureEntry) string {
	switch {
	case !e.HasRealtime:
		return "Scheduled"
	case e.Delay > converter.DelayedThresholdSeconds:
		return fmt.Sprintf("Delayed %d min", roundMinutes(e.Delay))
	case e.Delay < -converter.DelayedThresholdSeconds:
		return fmt.Sprintf("Early %d min", roundMinutes(-e.Delay))
	}
	return "On Time"
}

// DepartureText is the one-line rendering, e.g. "8:18 AM (Delayed 3 min)"
func DepartureText(e converter.DepartureEntry) string {
	return fmt.Sprintf("%s (%s)", FormatSecondsTo12Hour(e.Adjusted), DelayLabel(e))
}

func roundMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}
