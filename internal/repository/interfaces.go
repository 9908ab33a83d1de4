package repository

import (
	"context"

	"github.com/miksipiksic/chess-insights/internal/models"
)

// StatsStore appends PlayerStats snapshots. Rows are never updated or deleted.
type StatsStore interface {
	Insert(ctx context.Context, stats models.PlayerStats) (int64, error)
	History(ctx context.Context, player string, limit int) ([]models.StatsSnapshot, error)
}
