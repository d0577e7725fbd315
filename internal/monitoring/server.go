// internal/monitoring/server.go
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes run metrics and a health endpoint over HTTP for the
// duration of a run.
type Server struct {
	metrics *MetricsManager
	server  *http.Server
	logger  *zap.Logger
	started time.Time
}

// NewServer builds the HTTP server on addr serving /metrics and /healthz.
func NewServer(addr string, metrics *MetricsManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		metrics: metrics,
		logger:  logger,
		started: time.Now(),
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(
		metrics.Registry(),
		promhttp.HandlerOpts{},
	)).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until the context is cancelled. Safe to run in a goroutine;
// the error channel pattern of a blocking ListenAndServe is avoided so a
// failed bind surfaces in the logs without killing the run.
func (s *Server) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("metrics endpoint listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Warn("metrics endpoint failed", zap.Error(err))
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": time.Since(s.started).Seconds(),
	})
}
