package departures

import (
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/tracking"
)

type healthResponse struct {
	Status   string                `json:"status"`
	Routes   int                   `json:"routes"`
	Stops    int                   `json:"stops"`
	Trips    int                   `json:"trips"`
	Feeds    []tracking.FeedHealth `json:"feeds"`
	Selected map[string]string     `json:"selection"`
}

// Health status values. "degraded" means at least one feed is failing or
// has not succeeded for staleAfterPolls intervals; stale data is still
// being served.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusStarting = "starting"
)

const staleAfterPolls = 2

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	idx := s.engine.Index()
	if idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: statusStarting})
		return
	}
	feeds := s.engine.Health()
	maxAge := staleAfterPolls * s.engine.Config().GTFSRT.PollInterval()
	status := feedStatus(feeds, time.Now(), maxAge)
	routeID, stopID := s.engine.Selection()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   status,
		Routes:   idx.RouteCount(),
		Stops:    idx.StopCount(),
		Trips:    idx.TripCount(),
		Feeds:    feeds,
		Selected: map[string]string{"routeId": routeID, "stopId": stopID},
	})
}

// feedStatus summarizes the tracked feeds at now. Feed times come from the
// tracker's wall clock, not the engine's display clock.
func feedStatus(feeds []tracking.FeedHealth, now time.Time, maxAge time.Duration) string {
	for _, h := range feeds {
		if !h.Healthy() || (maxAge > 0 && h.Stale(now, maxAge)) {
			return statusDegraded
		}
	}
	if len(feeds) < len(gtfsrt.Feeds) {
		return statusStarting
	}
	return statusOK
}
