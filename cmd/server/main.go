package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/marketpulse/internal/alerts"
	"github.com/pscheid92/marketpulse/internal/broadcast"
	"github.com/pscheid92/marketpulse/internal/config"
	"github.com/pscheid92/marketpulse/internal/dedup"
	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/engine"
	"github.com/pscheid92/marketpulse/internal/history"
	"github.com/pscheid92/marketpulse/internal/logging"
	"github.com/pscheid92/marketpulse/internal/pipeline"
	"github.com/pscheid92/marketpulse/internal/ratelimit"
	"github.com/pscheid92/marketpulse/internal/scorer"
	"github.com/pscheid92/marketpulse/internal/server"
	"github.com/pscheid92/marketpulse/internal/spam"
	"github.com/pscheid92/marketpulse/internal/tickers"
)

const (
	ingestPerMinute   = 600
	ingestBurst       = 100
	snapshotInterval  = 5 * time.Minute
	dispatchInterval  = time.Minute
	compactionPeriod  = 10 * time.Minute
	shutdownTimeout   = 10 * time.Second
	connectionTimeout = 10 * time.Second
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to create connection pool", "error", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		slog.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}
	return pool
}

func setupRedis(cfg *config.Config) *goredis.Client {
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", "error", err)
		os.Exit(1)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to ping Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupScorer(cfg *config.Config, clock clockwork.Clock) domain.Scorer {
	if cfg.ScorerURL == "" {
		slog.Info("No scorer configured, using built-in lexicon")
		return scorer.NewLexicon()
	}
	slog.Info("Using external sentiment scorer", "url", cfg.ScorerURL)
	return scorer.NewBreaker(scorer.NewHTTPScorer(cfg.ScorerURL, clock))
}

func runCompaction(ctx context.Context, clock clockwork.Clock, eng *engine.Engine) {
	ticker := clock.NewTicker(compactionPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			eng.Compact()
		}
	}
}

func runGracefulShutdown(cancel context.CancelFunc, srv *server.Server, hub *broadcast.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		cancel()
		hub.Close()
		close(done)
	}()

	return done
}

func main() {
	_ = godotenv.Load()

	clock := clockwork.NewRealClock()
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool = setupDB(cfg)
		defer pool.Close()
	}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient = setupRedis(cfg)
		defer func() { _ = redisClient.Close() }()
	}

	var alertRepo alerts.Repository
	if pool != nil {
		repo, err := alerts.NewPostgresRepository(ctx, pool)
		if err != nil {
			slog.Error("Failed to set up alert repository", "error", err)
			os.Exit(1)
		}
		alertRepo = repo
	} else {
		slog.Info("No database configured, keeping alert log in memory")
		alertRepo = alerts.NewMemoryRepository(clock)
	}

	var historyStore history.Store
	if redisClient != nil {
		historyStore = history.NewRedisStore(redisClient)
	} else {
		slog.Info("No Redis configured, keeping index history in memory")
		historyStore = history.NewMemoryStore(clock)
	}

	eng := engine.New(clock)
	hub := broadcast.NewHub(clock)

	pipe := pipeline.New(
		clock,
		dedup.New(),
		spam.New(clock, nil),
		tickers.New(nil, nil),
		setupScorer(cfg, clock),
		eng,
		hub,
	)

	recorder := history.NewRecorder(clock, eng, historyStore, snapshotInterval)
	go recorder.Run(ctx)

	notifier := alerts.MultiNotifier{alerts.LogNotifier{}, alerts.StreamNotifier{Stream: hub}}
	dispatcher := alerts.NewDispatcher(clock, eng, alertRepo, notifier, dispatchInterval)
	go dispatcher.Run(ctx)

	go runCompaction(ctx, clock, eng)

	srv := server.NewServer(cfg, server.Deps{
		Pipeline: pipe,
		Engine:   eng,
		History:  historyStore,
		Alerts:   alertRepo,
		Hub:      hub,
		Limiter:  ratelimit.New(ingestPerMinute, ingestBurst),
		Clock:    clock,
		Redis:    redisClient,
		DB:       pool,
	})

	done := runGracefulShutdown(cancel, srv, hub)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
