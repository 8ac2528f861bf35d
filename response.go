package departures

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/formatter"
)

type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Operation string `json:"operation"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
}

func buildErrorPayload(operation string, status int, msg string) []byte {
	return formatter.BuildJSON(errorPayload{Error: errorBody{Operation: operation, Status: status, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := formatter.WriteJSON(w, v); err != nil {
		log.Debug().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, operation string, err error) {
	status := http.StatusInternalServerError
	var qe *QueryError
	switch {
	case errors.As(err, &qe) && qe.NotFound:
		status = http.StatusNotFound
	case errors.As(err, &qe):
		status = http.StatusBadRequest
	case errors.Is(err, ErrUnknownAlert):
		status = http.StatusNotFound
	case errors.Is(err, ErrNotInitialized):
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buildErrorPayload(operation, status, err.Error()))
}
