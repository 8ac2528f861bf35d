package departures

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfs"
)

// QueryError is a client error reported with status 400 or 404
type QueryError struct {
	Msg      string
	NotFound bool
}

func (e *QueryError) Error() string { return e.Msg }

// selectionRequest is the body of PUT /api/selection
type selectionRequest struct {
	RouteID string `json:"routeId"`
	StopID  string `json:"stopId"`
}

// alertRequest is the body of PUT /api/alerts/selected
type alertRequest struct {
	ID string `json:"id"`
}

func decodeBody(r io.Reader, v any) error {
	dec := json.NewDecoder(io.LimitReader(r, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &QueryError{Msg: "Invalid request body: " + err.Error()}
	}
	return nil
}

func parseSelection(r io.Reader, idx *gtfs.ScheduleIndex) (selectionRequest, error) {
	var req selectionRequest
	if err := decodeBody(r, &req); err != nil {
		return req, err
	}
	req.RouteID = strings.TrimSpace(req.RouteID)
	req.StopID = strings.TrimSpace(req.StopID)
	if req.StopID != "" && req.RouteID == "" {
		return req, &QueryError{Msg: "A stopId requires a routeId."}
	}
	if err := ensureRouteExists(req.RouteID, idx); err != nil {
		return req, err
	}
	if err := ensureStopExists(req.StopID, idx); err != nil {
		return req, err
	}
	return req, nil
}

func ensureRouteExists(routeID string, idx *gtfs.ScheduleIndex) error {
	if routeID == "" {
		return nil
	}
	if _, ok := idx.GetRoute(routeID); !ok {
		return &QueryError{Msg: "No such route: " + routeID, NotFound: true}
	}
	return nil
}

func ensureStopExists(stopID string, idx *gtfs.ScheduleIndex) error {
	if stopID == "" {
		return nil
	}
	if _, ok := idx.GetStop(stopID); !ok {
		return &QueryError{Msg: "No such stop: " + stopID, NotFound: true}
	}
	return nil
}
