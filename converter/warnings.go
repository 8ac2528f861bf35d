package converter

import (
	"strings"

	"github.com/rs/zerolog"
)

// Warning type constants
const (
	// departure warnings
	WarningBadDepartureTime = "bad_departure_time"
	WarningNoStopTimeUpdate = "no_stop_time_update"

	// vehicle warnings
	WarningNoLatLon = "no_lat_lon"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects data-quality warnings during one computation
// and logs a consolidated summary
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{warnings: make(map[string]*warningInfo)}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{examples: make([]string, 0, 3)}
	}
	info := w.warnings[warningType]
	info.count++
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns the occurrences of warningType
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// LogAll writes one debug event per warning type
func (w *WarningAggregator) LogAll(logger zerolog.Logger, view string) {
	for warningType, info := range w.warnings {
		description, action := describeWarning(warningType)
		logger.Debug().
			Str("view", view).
			Str("warning", warningType).
			Int("count", info.count).
			Str("examples", strings.Join(info.examples, ", ")).
			Msgf("%s. %s", description, action)
	}
}

func describeWarning(warningType string) (description, action string) {
	switch warningType {
	case WarningBadDepartureTime:
		return "stop_times rows with an unparsable departure_time", "Using 00:00:00"
	case WarningNoStopTimeUpdate:
		return "trip updates with no entry for the selected stop", "Using the scheduled time"
	case WarningNoLatLon:
		return "vehicles with no usable position", "Hiding marker"
	}
	return "unknown issue", "Using fallback behavior"
}
