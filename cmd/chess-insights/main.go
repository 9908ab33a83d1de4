// Command chess-insights prints win/loss/draw statistics for one player
// over a PGN file or an exported game table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miksipiksic/chess-insights/internal/cache"
	"github.com/miksipiksic/chess-insights/internal/config"
	"github.com/miksipiksic/chess-insights/internal/db"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/repository"
	"github.com/miksipiksic/chess-insights/internal/repository/sqlstore"
	"github.com/miksipiksic/chess-insights/internal/services"
	"github.com/miksipiksic/chess-insights/internal/table"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

type options struct {
	pgnPath   string
	csvPath   string
	player    string
	useCache  bool
	store     bool
	exportCSV string
	history   int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("chess-insights", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.pgnPath, "pgn-path", "", "PGN file to read games from")
	fs.StringVar(&opts.csvPath, "csv-path", "", "exported game table (CSV) to read games from")
	fs.StringVar(&opts.player, "player", "", "player name, matched exactly")
	fs.BoolVar(&opts.useCache, "use-redis-cache", false, "read and write stats through Redis")
	fs.BoolVar(&opts.store, "store-in-mysql", false, "append the computed stats to the stats store")
	fs.StringVar(&opts.exportCSV, "export-csv", "", "write the loaded game table to this CSV file")
	fs.IntVar(&opts.history, "history", 0, "print the last N stored snapshots for the player")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	switch {
	case opts.pgnPath == "" && opts.csvPath == "":
		return opts, fmt.Errorf("one of --pgn-path or --csv-path is required")
	case opts.pgnPath != "" && opts.csvPath != "":
		return opts, fmt.Errorf("--pgn-path and --csv-path are mutually exclusive")
	case opts.player == "":
		return opts, fmt.Errorf("--player is required")
	case opts.history < 0:
		return opts, fmt.Errorf("--history must not be negative")
	}
	return opts, nil
}

func (o options) source() string {
	if o.csvPath != "" {
		return o.csvPath
	}
	return o.pgnPath
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(stderr, "chess-insights: %v\n", err)
		}
		return exitUsage
	}

	cfg := config.Load()
	log := logger.New(
		logger.WithOutput(stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(cfg.LogFormat),
		logger.WithColors(false),
	)
	logger.SetDefault(log)
	defer log.Sync()
	ctx = logger.NewContext(ctx, log)

	cfg.UseCache = opts.useCache
	cfg.StoreEnabled = opts.store || opts.history > 0
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		return exitUsage
	}

	var loader table.Loader = table.FileLoader{}
	if opts.exportCSV != "" {
		if err := exportTable(ctx, loader, opts.source(), opts.exportCSV); err != nil {
			log.Error("%v", err)
			return exitFatal
		}
	}

	var statsCache cache.StatsCache
	if opts.useCache {
		redisCache, err := dialCache(ctx, cfg)
		if err != nil {
			log.Warn("continuing without stats cache: %v", err)
		} else {
			defer redisCache.Close()
			statsCache = redisCache
		}
	}

	var store repository.StatsStore
	if opts.store || opts.history > 0 {
		database, err := db.Open(ctx, cfg.StoreDriver, cfg.StoreDataSource())
		if err != nil {
			log.Warn("continuing without stats store: %v", err)
		} else {
			defer database.Close()
			store = sqlstore.NewStatsStore(database.DB, database.Driver)
		}
	}

	svc := services.NewInsightsService(loader, statsCache, store, nil)
	report, err := svc.PlayerStats(ctx, services.StatsRequest{
		Source:   opts.source(),
		Player:   opts.player,
		UseCache: opts.useCache,
		Store:    opts.store,
	})
	if err != nil {
		log.Error("%v", err)
		return exitFatal
	}
	for _, w := range report.Warnings {
		log.Warn("%v", w)
	}

	printReport(stdout, report.Stats)

	if opts.history > 0 && store != nil {
		history, err := svc.History(ctx, opts.player, opts.history)
		if err != nil {
			log.Warn("cannot read stats history: %v", err)
		} else {
			printHistory(stdout, history)
		}
	}
	return exitOK
}

func dialCache(ctx context.Context, cfg config.Config) (*cache.RedisCache, error) {
	if cfg.RedisURL != "" {
		return cache.Dial(ctx, cfg.RedisURL, cfg.CacheTTL())
	}
	return cache.DialAddr(ctx, cfg.RedisAddr(), cfg.CacheTTL())
}

func exportTable(ctx context.Context, loader table.Loader, source, dest string) error {
	t, err := loader.Load(ctx, source)
	if err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if err := table.WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	logger.FromContext(ctx).Info("exported %d games to %s", t.Len(), dest)
	return f.Close()
}

func printReport(w io.Writer, s models.PlayerStats) {
	fmt.Fprintln(w, "=== Chess Insights ===")
	fmt.Fprintf(w, "Player:       %s\n", s.Player)
	fmt.Fprintf(w, "Total games:  %d\n", s.TotalGames)
	fmt.Fprintf(w, "Wins:         %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:       %d\n", s.Losses)
	fmt.Fprintf(w, "Draws:        %d\n", s.Draws)
	fmt.Fprintf(w, "Avg. moves:   %.2f\n", s.AvgMoves)
}

func printHistory(w io.Writer, history []models.StatsSnapshot) {
	fmt.Fprintf(w, "\n=== History (%d) ===\n", len(history))
	for _, snap := range history {
		fmt.Fprintf(w, "%s  total=%d wins=%d losses=%d draws=%d avg=%.2f\n",
			snap.CreatedAt.UTC().Format(time.RFC3339), snap.TotalGames, snap.Wins, snap.Losses, snap.Draws, snap.AvgMoves)
	}
}
