// Package http exposes the service's operational endpoints plus a small
// signal ingest and on-demand evaluation API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
	"github.com/couchcryptid/water-health-alerting/internal/rules"
	"github.com/couchcryptid/water-health-alerting/internal/store"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes health, readiness, and metrics endpoints alongside
// /signals (HTTP ingest into the rolling window) and /alerts (on-demand
// evaluation against the current window).
type Server struct {
	httpServer *http.Server
	window     *store.Store
	engine     *rules.Engine
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(
	addr string,
	ready ReadinessChecker,
	window *store.Store,
	engine *rules.Engine,
	clock clockwork.Clock,
	logger *slog.Logger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		window: window,
		engine: engine,
		clock:  clock,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /signals", s.handleIngestSignals)
	mux.HandleFunc("GET /signals", s.handleListSignals)
	mux.HandleFunc("GET /alerts", s.handleAlerts)

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

// ingestError describes one rejected record in an ingest request.
type ingestError struct {
	Index     int    `json:"index"`
	CommentID int64  `json:"comment_id,omitempty"`
	Error     string `json:"error"`
}

// ingestResponse summarizes a POST /signals request. Valid records are
// stored, invalid ones are itemized; one bad record never fails the batch.
type ingestResponse struct {
	Accepted int           `json:"accepted"`
	Rejected int           `json:"rejected"`
	Errors   []ingestError `json:"errors,omitempty"`
}

func (s *Server) handleIngestSignals(w http.ResponseWriter, r *http.Request) {
	var records []domain.SignalRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "request body must be a JSON array of signal records",
		})
		return
	}

	resp := ingestResponse{}
	signals := make([]domain.Signal, 0, len(records))
	for i, rec := range records {
		sig, err := domain.ParseSignalRecord(rec)
		if err != nil {
			resp.Rejected++
			resp.Errors = append(resp.Errors, ingestError{
				Index:     i,
				CommentID: rec.CommentID,
				Error:     err.Error(),
			})
			continue
		}
		signals = append(signals, sig)
	}
	s.window.AddBatch(signals)
	resp.Accepted = len(signals)

	s.logger.Info("signals ingested via http",
		"accepted", resp.Accepted, "rejected", resp.Rejected)

	status := http.StatusOK
	if resp.Accepted == 0 && resp.Rejected > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListSignals(w http.ResponseWriter, _ *http.Request) {
	signals := s.window.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(signals),
		"signals": signals,
	})
}

// handleAlerts runs a full evaluation pass against the current window at
// the request instant. An optional limit query parameter truncates the
// alert list; limit=0 or absent means unlimited.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "limit must be a non-negative integer",
			})
			return
		}
		limit = n
	}

	ref := s.clock.Now()
	signals := s.window.Snapshot()
	result := s.engine.Evaluate(signals, ref)

	alerts := result.Alerts
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}

	writeJSON(w, http.StatusOK, domain.NewAlertBatch(ref, len(signals), alerts))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
