package jobs

import (
	"github.com/miksipiksic/chess-insights/internal/cache"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/repository"
	"github.com/miksipiksic/chess-insights/internal/worker"
)

// WorkerQueue implements WriteQueue on a worker pool.
type WorkerQueue struct {
	pool  *worker.Pool
	cache cache.StatsCache
	store repository.StatsStore
}

// NewWorkerQueue creates a WorkerQueue. A nil cache or store turns the matching
// Enqueue call into a no-op.
func NewWorkerQueue(pool *worker.Pool, statsCache cache.StatsCache, store repository.StatsStore) WriteQueue {
	return &WorkerQueue{pool: pool, cache: statsCache, store: store}
}

func (q *WorkerQueue) EnqueueCacheWrite(stats models.PlayerStats) error {
	if q.cache == nil {
		return nil
	}
	return q.pool.Submit(&worker.CacheWriteJob{Cache: q.cache, Stats: stats})
}

func (q *WorkerQueue) EnqueueSnapshot(stats models.PlayerStats) error {
	if q.store == nil {
		return nil
	}
	return q.pool.Submit(&worker.SnapshotJob{Store: q.store, Stats: stats})
}
