package departures

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/converter"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/formatter"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

type routeView struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Label     string `json:"label"`
}

type stopView struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type selectionView struct {
	RouteID string `json:"routeId"`
	StopID  string `json:"stopId"`
}

type alertsView struct {
	Alerts     []converter.CuratedAlert `json:"alerts"`
	SelectedID string                   `json:"selectedId,omitempty"`
}

func (s *Server) wrap(data any) formatter.Envelope {
	return formatter.Wrap(data, s.engine.Now(), s.engine.Config().GTFSRT.PollInterval())
}

func (s *Server) ready(w http.ResponseWriter, operation string) bool {
	if s.engine.Index() == nil {
		writeError(w, operation, ErrNotInitialized)
		return false
	}
	return true
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w, "routes") {
		return
	}
	routes := s.engine.Routes()
	out := make([]routeView, 0, len(routes))
	for _, rt := range routes {
		out = append(out, routeView{ID: rt.ID, ShortName: rt.ShortName, LongName: rt.LongName, Label: rt.Label()})
	}
	writeJSON(w, http.StatusOK, s.wrap(out))
}

func (s *Server) handleRouteStops(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w, "routeStops") {
		return
	}
	routeID := mux.Vars(r)["routeID"]
	if err := ensureRouteExists(routeID, s.engine.Index()); err != nil {
		writeError(w, "routeStops", err)
		return
	}
	writeJSON(w, http.StatusOK, s.wrap(stopViews(s.engine.StopsForRoute(routeID))))
}

func stopViews(stops []gtfs.Stop) []stopView {
	out := make([]stopView, 0, len(stops))
	for _, st := range stops {
		out = append(out, stopView{ID: st.ID, Name: st.Name, Lat: st.Latitude, Lon: st.Longitude})
	}
	return out
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	routeID, stopID := s.engine.Selection()
	writeJSON(w, http.StatusOK, s.wrap(selectionView{RouteID: routeID, StopID: stopID}))
}

func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w, "selection") {
		return
	}
	req, err := parseSelection(r.Body, s.engine.Index())
	if err != nil {
		writeError(w, "selection", err)
		return
	}
	if req.StopID == "" {
		s.engine.SelectRoute(req.RouteID)
	} else {
		s.engine.SelectStop(req.RouteID, req.StopID)
	}
	log.Debug().Str("routeId", req.RouteID).Str("stopId", req.StopID).Msg("Selection changed")
	writeJSON(w, http.StatusOK, s.wrap(selectionView(req)))
}

func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request) {
	routeID, stopID := s.engine.Selection()
	board := formatter.WrapDepartureBoard(routeID, stopID, s.engine.GetDepartureBoard(), s.engine.BoardTime())
	writeJSON(w, http.StatusOK, s.wrap(board))
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles := s.engine.GetFilteredVehicles()
	out := make([]converter.VehicleMarker, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	writeJSON(w, http.StatusOK, s.wrap(out))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	view := alertsView{Alerts: s.engine.GetCuratedAlerts()}
	if a, ok := s.engine.SelectedAlert(); ok {
		view.SelectedID = a.ID
	}
	writeJSON(w, http.StatusOK, s.wrap(view))
}

func (s *Server) handleGetSelectedAlert(w http.ResponseWriter, r *http.Request) {
	a, ok := s.engine.SelectedAlert()
	if !ok {
		writeJSON(w, http.StatusOK, s.wrap(nil))
		return
	}
	writeJSON(w, http.StatusOK, s.wrap(a))
}

func (s *Server) handlePutSelectedAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, "selectAlert", err)
		return
	}
	if err := s.engine.SelectAlert(req.ID); err != nil {
		writeError(w, "selectAlert", err)
		return
	}
	s.handleGetSelectedAlert(w, r)
}

func (s *Server) handleFeedProxy(w http.ResponseWriter, r *http.Request) {
	feed := gtfsrt.Feed(mux.Vars(r)["feed"])
	cfg := s.engine.Config().GTFSRT
	upstream := map[gtfsrt.Feed]string{
		gtfsrt.FeedTripUpdates:      cfg.TripUpdatesURL,
		gtfsrt.FeedVehiclePositions: cfg.VehiclePositionsURL,
		gtfsrt.FeedAlerts:           cfg.ServiceAlertsURL,
	}[feed]

	data, err := s.engine.Client().Fetch(r.Context(), feed, upstream)
	if err != nil {
		log.Warn().Err(err).Str("feed", string(feed)).Msg("Feed proxy failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(buildErrorPayload("feedProxy", http.StatusBadGateway, err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	_, _ = w.Write(data)
}
