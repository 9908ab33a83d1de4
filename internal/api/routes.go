package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/players/{player}", func(r chi.Router) {
		r.Get("/stats", s.handlePlayerStats)
		r.Get("/history", s.handlePlayerHistory)
	})
	return r
}
