package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/services"
)

// Pinger is satisfied by *sql.DB and the Redis cache.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a ping method to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type Server struct {
	Insights services.InsightsService
	// PGNPath is the game source every stats request is computed over.
	PGNPath  string
	UseCache bool
	Store    bool
	DB       Pinger
	Cache    Pinger
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
