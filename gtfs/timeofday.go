package gtfs

import (
	"strconv"
	"strings"
	"time"
)

// TimeOfDayToSeconds converts an H:MM:SS schedule time to seconds since the
// start of the service day. Hours may be 24 or more. Empty or malformed
// values yield 0.
func TimeOfDayToSeconds(s string) int {
	sec, _ := ParseTimeOfDay(s)
	return sec
}

// ParseTimeOfDay is TimeOfDayToSeconds with a validity flag
func ParseTimeOfDay(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, false
	}
	var hms [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, false
		}
		hms[i] = v
	}
	if hms[1] > 59 || hms[2] > 59 {
		return 0, false
	}
	return hms[0]*3600 + hms[1]*60 + hms[2], true
}

// SecondsSinceMidnight returns t's wall-clock time of day in seconds, in t's
// location. On DST transition days this is the wall-clock value, not the
// elapsed time since midnight.
func SecondsSinceMidnight(t time.Time) int {
	h, m, s := t.Clock()
	return h*3600 + m*60 + s
}
