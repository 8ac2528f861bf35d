package departures

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server exposes an Engine over HTTP
type Server struct {
	engine     *Engine
	httpServer *http.Server
}

// NewServer creates the API server listening on port
func NewServer(engine *Engine, port int) *Server {
	s := &Server{engine: engine}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Router creates and returns the HTTP router
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/routes", s.handleRoutes).Methods(http.MethodGet)
	r.HandleFunc("/api/routes/{routeID}/stops", s.handleRouteStops).Methods(http.MethodGet)
	r.HandleFunc("/api/selection", s.handleGetSelection).Methods(http.MethodGet)
	r.HandleFunc("/api/selection", s.handlePutSelection).Methods(http.MethodPut)
	r.HandleFunc("/api/departures", s.handleDepartures).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles", s.handleVehicles).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts", s.handleAlerts).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts/selected", s.handleGetSelectedAlert).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts/selected", s.handlePutSelectedAlert).Methods(http.MethodPut)

	r.HandleFunc("/feeds/{feed:tripupdates|vehicleupdates|alerts}.pb", s.handleFeedProxy).Methods(http.MethodGet)
	r.HandleFunc("/{feed:tripupdates|vehicleupdates|alerts}.pb", s.handleFeedProxy).Methods(http.MethodGet)

	if s.engine.Config().Server.MetricsEnabled() {
		r.Handle("/metrics", promhttp.HandlerFor(s.engine.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return corsMiddleware(r)
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start serves in the background
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()
	log.Info().Str("addr", s.httpServer.Addr).Msg("Server listening")
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then cancels the
// polling context and shuts the server down
func HandleGracefulShutdown(s *Server, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("Shutdown signal received")
	cancel()

	ctx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := s.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	} else {
		log.Info().Msg("Server shut down successfully")
	}
}
