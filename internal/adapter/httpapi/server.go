// Package httpapi exposes the dashboard API alongside health, readiness,
// and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
)

// SnapshotSelector serves a snapshot for a time range, fetching it if the
// range differs from the current selection.
type SnapshotSelector interface {
	Select(ctx context.Context, rng domain.TimeRange) (domain.Snapshot, error)
	SelectedRange() domain.TimeRange
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard JSON API plus operational endpoints.
type Server struct {
	httpServer *http.Server
	selector   SnapshotSelector
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard routes and the
// /healthz, /readyz, /metrics operational routes.
func NewServer(addr string, selector SnapshotSelector, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		selector: selector,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/ranges", s.handleRanges)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/histogram", s.handleHistogram)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleRanges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rangesResponse{
		Ranges:   domain.Ranges(),
		Selected: s.selector.SelectedRange(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.selectSnapshot(w, r)
	if !ok {
		return
	}

	events := make([]eventDTO, len(snap.Events))
	for i, e := range snap.Events {
		events[i] = eventDTO{
			ID:         e.ID,
			Place:      e.Place,
			Magnitude:  e.Magnitude,
			DepthKM:    e.DepthKM,
			Lat:        e.Geo.Lat,
			Lon:        e.Geo.Lon,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
			Marker:     domain.ClassifyMarker(e.Magnitude),
		}
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Range:     snap.Range,
		Count:     len(events),
		FetchedAt: snap.FetchedAt.Format(time.RFC3339),
		Events:    events,
	})
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.selectSnapshot(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, histogramResponse{
		Range:     snap.Range,
		FetchedAt: snap.FetchedAt.Format(time.RFC3339),
		Total:     snap.Histogram.Total(),
		Bins:      snap.Histogram,
	})
}

// selectSnapshot resolves the range query parameter and fetches its
// snapshot, writing the error response itself when something fails.
func (s *Server) selectSnapshot(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	rng := s.selector.SelectedRange()
	if raw := r.URL.Query().Get("range"); raw != "" {
		parsed, err := domain.ParseTimeRange(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return domain.Snapshot{}, false
		}
		rng = parsed
	}

	snap, err := s.selector.Select(r.Context(), rng)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.Snapshot{}, false
		}
		s.logger.Error("snapshot selection failed", "range", rng, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return domain.Snapshot{}, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
