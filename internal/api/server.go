// Package api serves the aggregated views as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-signals/internal/config"
	"github.com/yourusername/bet-signals/internal/metrics"
	"github.com/yourusername/bet-signals/internal/service"
)

// envelope wraps every view payload with freshness metadata so clients can
// tell a live snapshot from a stale last-known-good one.
type envelope struct {
	Data        interface{} `json:"data"`
	LastUpdated time.Time   `json:"last_updated"`
	Stale       bool        `json:"stale"`
}

// Server exposes the published snapshot views over HTTP. It only ever reads
// from the snapshot store; refreshes happen elsewhere.
type Server struct {
	store      *service.SnapshotStore
	aggregator *service.Aggregator
	logger     *logrus.Logger
	cfg        *config.Config
	server     *http.Server
}

// NewServer creates the JSON API server.
func NewServer(store *service.SnapshotStore, aggregator *service.Aggregator, cfg *config.Config, logger *logrus.Logger) *Server {
	return &Server{
		store:      store,
		aggregator: aggregator,
		logger:     logger,
		cfg:        cfg,
	}
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/profitability/daily", s.handleDaily)
	mux.HandleFunc("/api/v1/profitability/monthly", s.handleMonthly)
	mux.HandleFunc("/api/v1/transparency", s.handleTransparency)
	mux.HandleFunc("/api/v1/predictions/today", s.handlePredictions)
	mux.HandleFunc("/api/v1/history", s.handleHistory)

	if s.cfg.Metrics.Enabled {
		path := s.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, metrics.Handler())
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	s.logger.WithField("port", s.cfg.Server.Port).Info("API server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// views loads the snapshot, replying 503 before the first successful
// refresh. The boolean reports whether the caller should continue.
func (s *Server) views(w http.ResponseWriter) (service.Views, bool) {
	v, ok := s.store.Views()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "no data available yet")
		return service.Views{}, false
	}
	return v, true
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, v.Stats)
}

// handleDaily replies 204 when no completed day exists yet, matching the
// frontend contract of "nothing to show" rather than an error.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views(w)
	if !ok {
		return
	}
	if v.Daily == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, v.Daily)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views(w)
	if !ok {
		return
	}
	if v.Monthly == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, v.Monthly)
}

func (s *Server) handleTransparency(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views(w)
	if !ok {
		return
	}
	if v.Transparency == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, v.Transparency)
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, v.Predictions)
}

// handleHistory serves the filterable, paginated match history. Unknown
// filter values simply match nothing; a page past the end is empty.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views(w)
	if !ok {
		return
	}

	query := r.URL.Query()
	q := service.HistoryQuery{
		Sport:    query.Get("sport"),
		League:   query.Get("league"),
		Strategy: query.Get("strategy"),
		Status:   query.Get("status"),
	}
	if p := query.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		q.Page = n
	}

	s.writeJSON(w, http.StatusOK, s.aggregator.History(v.Records, q))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := envelope{
		Data:        data,
		LastUpdated: s.store.LastUpdated(),
		Stale:       s.store.IsStale(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.WithError(err).Error("Failed to encode API response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
