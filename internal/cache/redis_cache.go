// Package cache keeps recently computed player statistics in Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a cached stats entry stays valid.
const DefaultTTL = time.Hour

const keyPrefix = "stats:"

// StatsCache stores PlayerStats by player name.
// Get returns nil, nil on a miss.
type StatsCache interface {
	Get(ctx context.Context, player string) (*models.PlayerStats, error)
	Set(ctx context.Context, stats models.PlayerStats) error
}

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache wraps an existing client. A non-positive ttl selects DefaultTTL.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Dial connects to Redis at url (redis://[:password@]host:port/db) and pings it.
func Dial(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}
	return connect(ctx, opts, ttl)
}

// DialAddr connects to Redis at host:port and pings it.
func DialAddr(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	return connect(ctx, &redis.Options{Addr: addr}, ttl)
}

func connect(ctx context.Context, opts *redis.Options, ttl time.Duration) (*RedisCache, error) {
	log := logger.FromContext(ctx).WithPrefix("cache")
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		log.Warn("redis ping failed: addr=%s: %v", opts.Addr, err)
		return nil, errors.NewCacheUnavailableError(err)
	}
	log.Debug("connected to redis: addr=%s db=%d", opts.Addr, opts.DB)
	return NewRedisCache(rdb, ttl), nil
}

// Key returns the Redis key under which stats for player are cached.
func Key(player string) string {
	return keyPrefix + player
}

func (c *RedisCache) Get(ctx context.Context, player string) (*models.PlayerStats, error) {
	log := logger.FromContext(ctx).WithPrefix("cache")

	raw, err := c.rdb.Get(ctx, Key(player)).Bytes()
	if err == redis.Nil {
		log.Debug("cache miss: player=%s", player)
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	var stats models.PlayerStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		log.Warn("discarding undecodable cache entry for %s: %v", player, err)
		return nil, nil
	}
	log.Debug("cache hit: player=%s", player)
	return &stats, nil
}

func (c *RedisCache) Set(ctx context.Context, stats models.PlayerStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, Key(stats.Player), raw, c.ttl).Err(); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	logger.FromContext(ctx).WithPrefix("cache").Debug("cached stats: player=%s ttl=%v", stats.Player, c.ttl)
	return nil
}

// Ping reports whether the backend is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
