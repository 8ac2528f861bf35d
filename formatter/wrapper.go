package formatter

import (
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/converter"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/utils"
)

// DepartureView is a departure with its display strings
type DepartureView struct {
	converter.DepartureEntry
	Time          string `json:"time"`
	ScheduledTime string `json:"scheduledTime"`
	Label         string `json:"label"`
	Text          string `json:"text"`
	ExpectedAt    string `json:"expectedAt"`
}

// BoardResponse is the departures payload
type BoardResponse struct {
	RouteID    string          `json:"routeId"`
	StopID     string          `json:"stopId"`
	Departures []DepartureView `json:"departures"`
}

// Envelope wraps every API payload with response metadata
type Envelope struct {
	ResponseTimestamp string `json:"responseTimestamp"`
	ValidUntil        string `json:"validUntil,omitempty"`
	Data              any    `json:"data"`
}

// RenderDepartures adds display strings to entries. serviceDay is any
// instant on the service day in the display location.
func RenderDepartures(entries []converter.DepartureEntry, serviceDay time.Time) []DepartureView {
	out := make([]DepartureView, 0, len(entries))
	for _, e := range entries {
		out = append(out, DepartureView{
			DepartureEntry: e,
			Time:           FormatSecondsTo12Hour(e.Adjusted),
			ScheduledTime:  FormatSecondsTo12Hour(e.Scheduled),
			Label:          DelayLabel(e),
			Text:           DepartureText(e),
			ExpectedAt:     utils.Iso8601FromTime(utils.ServiceDayTime(serviceDay, e.Adjusted)),
		})
	}
	return out
}

// WrapDepartureBoard builds the departures payload for a route and stop
func WrapDepartureBoard(routeID, stopID string, entries []converter.DepartureEntry, serviceDay time.Time) BoardResponse {
	return BoardResponse{
		RouteID:    routeID,
		StopID:     stopID,
		Departures: RenderDepartures(entries, serviceDay),
	}
}

// Wrap builds an Envelope stamped at now. A non-zero refresh sets
// ValidUntil to now+refresh.
func Wrap(data any, now time.Time, refresh time.Duration) Envelope {
	env := Envelope{ResponseTimestamp: utils.Iso8601FromTime(now), Data: data}
	if refresh > 0 {
		env.ValidUntil = utils.ValidUntilFrom(now, refresh)
	}
	return env
}
