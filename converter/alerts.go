package converter

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

// CurateAlerts keeps alerts with a real description, in feed order. Alerts
// repeating an earlier header and description are dropped.
func CurateAlerts(alerts []gtfsrt.Alert) []CuratedAlert {
	out := make([]CuratedAlert, 0, len(alerts))
	seen := map[string]struct{}{}
	for _, a := range alerts {
		if strings.TrimSpace(a.Description) == "" || a.Description == PlaceholderDescription {
			continue
		}
		header := a.Header
		if header == "" {
			header = DefaultAlertHeader
		}
		id := AlertID(header, a.Description)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, CuratedAlert{ID: id, Header: header, Description: a.Description})
	}
	return out
}

// AlertID is the hex xxhash64 of header and description
func AlertID(header, description string) string {
	d := xxhash.New()
	_, _ = d.WriteString(header)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(description)
	return strconv.FormatUint(d.Sum64(), 16)
}

// FindAlert returns the alert with id, if present
func FindAlert(alerts []CuratedAlert, id string) (CuratedAlert, bool) {
	for _, a := range alerts {
		if a.ID == id {
			return a, true
		}
	}
	return CuratedAlert{}, false
}
