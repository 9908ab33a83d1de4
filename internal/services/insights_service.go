package services

import (
	"context"

	"github.com/miksipiksic/chess-insights/internal/analytics"
	"github.com/miksipiksic/chess-insights/internal/cache"
	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/jobs"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/repository"
	"github.com/miksipiksic/chess-insights/internal/table"
)

// StatsRequest names the game source, the player and which collaborators to use.
type StatsRequest struct {
	Source   string
	Player   string
	UseCache bool
	Store    bool
}

// Report is the outcome of a stats request. Warnings hold the non-fatal
// cache and store failures met along the way.
type Report struct {
	Stats     models.PlayerStats
	FromCache bool
	Warnings  []error
}

// InsightsService computes player statistics over a game source.
type InsightsService interface {
	PlayerStats(ctx context.Context, req StatsRequest) (*Report, error)
	History(ctx context.Context, player string, limit int) ([]models.StatsSnapshot, error)
}

type insightsService struct {
	loader table.Loader
	cache  cache.StatsCache
	store  repository.StatsStore
	queue  jobs.WriteQueue
}

// NewInsightsService creates an InsightsService. statsCache and store may be nil.
// With a non-nil queue the cache and store writes are deferred to it.
func NewInsightsService(loader table.Loader, statsCache cache.StatsCache, store repository.StatsStore, queue jobs.WriteQueue) InsightsService {
	return &insightsService{loader: loader, cache: statsCache, store: store, queue: queue}
}

func (s *insightsService) PlayerStats(ctx context.Context, req StatsRequest) (*Report, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"player": req.Player,
		"source": req.Source,
	})
	ctx = logger.NewContext(ctx, log)
	report := &Report{}

	useCache := req.UseCache && s.cache != nil
	if useCache {
		cached, err := s.cache.Get(ctx, req.Player)
		switch {
		case err != nil:
			log.Warn("stats cache read failed, recomputing: %v", err)
			report.Warnings = append(report.Warnings, cacheWarning(err))
		case cached != nil:
			log.Debug("stats served from cache")
			report.Stats = *cached
			report.FromCache = true
			return report, nil
		default:
			log.Debug("stats cache miss")
		}
	}

	t, err := s.loader.Load(ctx, req.Source)
	if err != nil {
		log.Error("failed to load games: %v", err)
		return nil, err
	}
	stats, err := analytics.ComputePlayerStats(t, req.Player)
	if err != nil {
		log.Error("failed to compute stats: %v", err)
		return nil, err
	}
	report.Stats = stats
	log.Info("computed stats: total_games=%d, wins=%d, losses=%d, draws=%d, avg_moves=%.2f",
		stats.TotalGames, stats.Wins, stats.Losses, stats.Draws, stats.AvgMoves)

	if useCache {
		if err := s.writeCache(ctx, stats); err != nil {
			log.Warn("failed to cache stats: %v", err)
			report.Warnings = append(report.Warnings, cacheWarning(err))
		}
	}
	if req.Store && s.store != nil {
		if err := s.writeSnapshot(ctx, stats); err != nil {
			log.Warn("failed to store stats snapshot: %v", err)
			report.Warnings = append(report.Warnings, storeWarning(err))
		}
	}
	return report, nil
}

func (s *insightsService) writeCache(ctx context.Context, stats models.PlayerStats) error {
	if s.queue != nil {
		return s.queue.EnqueueCacheWrite(stats)
	}
	return s.cache.Set(ctx, stats)
}

func (s *insightsService) writeSnapshot(ctx context.Context, stats models.PlayerStats) error {
	if s.queue != nil {
		return s.queue.EnqueueSnapshot(stats)
	}
	id, err := s.store.Insert(ctx, stats)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("stored stats snapshot: id=%d", id)
	return nil
}

func (s *insightsService) History(ctx context.Context, player string, limit int) ([]models.StatsSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting stats history: player=%s, limit=%d", player, limit)

	if s.store == nil {
		return nil, errors.NewNotFoundError("stats history", player)
	}
	history, err := s.store.History(ctx, player, limit)
	if err != nil {
		log.Error("failed to get stats history: %v", err)
		if errors.HasCode(err, errors.ErrCodeStoreUnavailable) {
			return nil, err
		}
		return nil, errors.NewInternalError(err)
	}
	return history, nil
}

func cacheWarning(err error) error {
	return asWarning(err, errors.NewCacheUnavailableError)
}

func storeWarning(err error) error {
	return asWarning(err, errors.NewStoreUnavailableError)
}

// asWarning keeps errors that are already non-fatal and wraps everything else,
// so a failed cache or store write never fails the request.
func asWarning(err error, wrap func(error) *errors.AppError) error {
	var appErr *errors.AppError
	if errors.As(err, &appErr) && !appErr.Fatal() {
		return err
	}
	return wrap(err)
}
