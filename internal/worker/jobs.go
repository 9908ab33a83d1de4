package worker

import (
	"context"

	"github.com/miksipiksic/chess-insights/internal/cache"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/repository"
)

// CacheWriteJob stores freshly computed stats in the stats cache.
type CacheWriteJob struct {
	Cache cache.StatsCache
	Stats models.PlayerStats
}

func (j *CacheWriteJob) Name() string { return "cache_write" }

func (j *CacheWriteJob) Run(ctx context.Context) error {
	logger.FromContext(ctx).Debug("caching stats: player=%s", j.Stats.Player)
	return j.Cache.Set(ctx, j.Stats)
}

// SnapshotJob appends a stats snapshot to the stats store.
type SnapshotJob struct {
	Store repository.StatsStore
	Stats models.PlayerStats
}

func (j *SnapshotJob) Name() string { return "store_snapshot" }

func (j *SnapshotJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	id, err := j.Store.Insert(ctx, j.Stats)
	if err != nil {
		return err
	}
	log.Debug("stored snapshot: player=%s, id=%d", j.Stats.Player, id)
	return nil
}
