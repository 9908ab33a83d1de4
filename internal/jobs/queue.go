package jobs

import "github.com/miksipiksic/chess-insights/internal/models"

// WriteQueue defers the cache and store writes that follow a stats computation.
type WriteQueue interface {
	EnqueueCacheWrite(stats models.PlayerStats) error
	EnqueueSnapshot(stats models.PlayerStats) error
}
