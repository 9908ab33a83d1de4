package api

import (
	"net/http"

	"github.com/miksipiksic/chess-insights/internal/logger"
)

// handleHealth is the liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 503 when the stats store is configured but unreachable.
// An unreachable cache only degrades requests, so it is reported without failing the check.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
	}

	if s.Cache != nil {
		if err := s.Cache.PingContext(ctx); err != nil {
			log.Warn("readiness check - cache unavailable: %v", err)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready (cache unavailable)"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
