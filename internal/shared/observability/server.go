package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthStatus is what /health reports.
type HealthStatus struct {
	Status     string    `json:"status"`
	LastRun    time.Time `json:"last_run,omitempty"`
	LastRunOK  bool      `json:"last_run_ok"`
	FilesKnown int       `json:"files_known"`
}

// HealthSource supplies the current status; the app implements it.
type HealthSource interface {
	Health() HealthStatus
}

type Server struct {
	addr   string
	source HealthSource
	server *http.Server
}

func NewServer(addr string, source HealthSource) *Server {
	return &Server{addr: addr, source: source}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{Status: "up"}
		if s.source != nil {
			status = s.source.Health()
		}
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
