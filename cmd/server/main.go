package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miksipiksic/chess-insights/internal/api"
	"github.com/miksipiksic/chess-insights/internal/cache"
	"github.com/miksipiksic/chess-insights/internal/config"
	"github.com/miksipiksic/chess-insights/internal/db"
	"github.com/miksipiksic/chess-insights/internal/jobs"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/repository"
	"github.com/miksipiksic/chess-insights/internal/repository/sqlstore"
	"github.com/miksipiksic/chess-insights/internal/services"
	"github.com/miksipiksic/chess-insights/internal/table"
	"github.com/miksipiksic/chess-insights/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(cfg.LogFormat),
		logger.WithColors(true),
	)
	logger.SetDefault(log)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	if cfg.PGNPath == "" {
		log.Error("invalid configuration: PGN_PATH cannot be empty")
		os.Exit(1)
	}

	log.Info("chess insights server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("pgn_path=%s", cfg.PGNPath)
	log.Debug("use_redis_cache=%t", cfg.UseCache)
	log.Debug("store_enabled=%t, store_driver=%s", cfg.StoreEnabled, cfg.StoreDriver)
	log.Debug("write_worker_count=%d", cfg.WriteWorkerCount)
	log.Debug("write_queue_size=%d", cfg.WriteQueueSize)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	srv := &api.Server{
		PGNPath:  cfg.PGNPath,
		UseCache: cfg.UseCache,
		Store:    cfg.StoreEnabled,
	}

	var statsCache cache.StatsCache
	if cfg.UseCache {
		redisCache, err := dialCache(ctx, cfg)
		if err != nil {
			log.Warn("continuing without stats cache: %v", err)
		} else {
			defer func() {
				log.Debug("closing redis connection")
				redisCache.Close()
			}()
			statsCache = redisCache
			srv.Cache = api.PingFunc(redisCache.Ping)
		}
	}

	var store repository.StatsStore
	if cfg.StoreEnabled {
		database, err := db.Open(ctx, cfg.StoreDriver, cfg.StoreDataSource())
		if err != nil {
			log.Warn("continuing without stats store: %v", err)
		} else {
			defer func() {
				log.Debug("closing database connection")
				database.Close()
			}()
			store = sqlstore.NewStatsStore(database.DB, database.Driver)
			srv.DB = database
		}
	}

	writePool := worker.NewPool(cfg.WriteWorkerCount, cfg.WriteQueueSize)
	writePool.Start(ctx)
	queue := jobs.NewWorkerQueue(writePool, statsCache, store)
	srv.Insights = services.NewInsightsService(table.FileLoader{}, statsCache, store, queue)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Pending cache and store writes are flushed before the connections close.
	log.Debug("stopping write pool")
	writePool.Stop()

	log.Info("chess insights server stopped")
}

func dialCache(ctx context.Context, cfg config.Config) (*cache.RedisCache, error) {
	if cfg.RedisURL != "" {
		return cache.Dial(ctx, cfg.RedisURL, cfg.CacheTTL())
	}
	return cache.DialAddr(ctx, cfg.RedisAddr(), cfg.CacheTTL())
}
