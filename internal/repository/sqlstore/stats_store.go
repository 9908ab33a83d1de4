package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/miksipiksic/chess-insights/internal/db"
	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

type statsStore struct {
	db      *sql.DB
	driver  string
	builder squirrel.StatementBuilderType
}

// NewStatsStore creates a StatsStore writing to the game_stats table through driver's SQL dialect.
func NewStatsStore(conn *sql.DB, driver string) repository.StatsStore {
	return &statsStore{db: conn, driver: driver, builder: db.Builder(driver)}
}

func (s *statsStore) Insert(ctx context.Context, stats models.PlayerStats) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_store")
	log.Debug("inserting stats snapshot: player=%s, total_games=%d", stats.Player, stats.TotalGames)

	query := s.builder.Insert("game_stats").
		Columns("player", "total_games", "wins", "losses", "draws", "avg_moves").
		Values(stats.Player, stats.TotalGames, stats.Wins, stats.Losses, stats.Draws, stats.AvgMoves)

	if s.driver == db.Postgres {
		sqlStr, args, err := query.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
			log.Error("failed to insert stats snapshot: %v", err)
			return 0, errors.NewStoreUnavailableError(err)
		}
		return id, nil
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to insert stats snapshot: %v", err)
		return 0, errors.NewStoreUnavailableError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.NewStoreUnavailableError(err)
	}
	log.Debug("stats snapshot stored: id=%d", id)
	return id, nil
}

func (s *statsStore) History(ctx context.Context, player string, limit int) ([]models.StatsSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_store")

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	log.Debug("listing stats snapshots: player=%s, limit=%d", player, limit)

	sqlStr, args, err := s.builder.
		Select("id", "player", "total_games", "wins", "losses", "draws", "avg_moves", "created_at").
		From("game_stats").
		Where(squirrel.Eq{"player": player}).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list stats snapshots: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}
	defer rows.Close()

	var out []models.StatsSnapshot
	for rows.Next() {
		var snap models.StatsSnapshot
		if err := rows.Scan(&snap.ID, &snap.Player, &snap.TotalGames, &snap.Wins, &snap.Losses, &snap.Draws, &snap.AvgMoves, &snap.CreatedAt); err != nil {
			log.Error("failed to scan stats snapshot row: %v", err)
			return nil, err
		}
		out = append(out, snap)
	}
	log.Debug("found %d stats snapshots", len(out))
	return out, rows.Err()
}
