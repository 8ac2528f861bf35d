package converter

import (
	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfs"
)

// Converter derives views over one schedule index
type Converter struct {
	GTFS *gtfs.ScheduleIndex
	Log  zerolog.Logger
}

// NewConverter creates a new converter instance
func NewConverter(idx *gtfs.ScheduleIndex, logger zerolog.Logger) *Converter {
	return &Converter{GTFS: idx, Log: logger}
}
