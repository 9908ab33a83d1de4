package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/services"
)

const (
	headerStatsSource   = "X-Stats-Source"
	headerStatsWarnings = "X-Stats-Warnings"
)

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	log := logger.FromContext(r.Context()).WithField("player", player)
	log.Debug("computing player stats")

	report, err := s.Insights.PlayerStats(r.Context(), services.StatsRequest{
		Source:   s.PGNPath,
		Player:   player,
		UseCache: s.UseCache,
		Store:    s.Store,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	source := "computed"
	if report.FromCache {
		source = "cache"
	}
	w.Header().Set(headerStatsSource, source)

	if len(report.Warnings) > 0 {
		codes := make([]string, 0, len(report.Warnings))
		for _, warning := range report.Warnings {
			var appErr *errors.AppError
			if errors.As(warning, &appErr) {
				codes = append(codes, appErr.Code)
				continue
			}
			codes = append(codes, warning.Error())
		}
		w.Header().Set(headerStatsWarnings, strings.Join(codes, ","))
	}

	writeJSON(w, r, http.StatusOK, report.Stats)
}

func (s *Server) handlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	log := logger.FromContext(r.Context()).WithField("player", player)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}
	log.Debug("fetching stats history: limit=%d", limit)

	history, err := s.Insights.History(r.Context(), player, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if history == nil {
		history = []models.StatsSnapshot{}
	}
	writeJSON(w, r, http.StatusOK, history)
}
