package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/marketpulse/internal/alerts"
	"github.com/pscheid92/marketpulse/internal/broadcast"
	"github.com/pscheid92/marketpulse/internal/config"
	"github.com/pscheid92/marketpulse/internal/domain"
	apperrors "github.com/pscheid92/marketpulse/internal/errors"
	"github.com/pscheid92/marketpulse/internal/history"
	"github.com/pscheid92/marketpulse/internal/ratelimit"
)

// postProcessor is the pipeline entry point the ingest endpoint calls.
type postProcessor interface {
	Process(ctx context.Context, raw domain.RawPost) (*domain.Post, error)
}

// signalEngine is the read surface of the aggregation engine.
type signalEngine interface {
	FearGreedIndex() domain.FearGreedIndex
	TickerSentiment(symbol string) (domain.TickerSignal, bool)
	TrendingTickers(limit int) []domain.TrendingTicker
}

// Deps carries everything the server needs. Redis and DB may be nil when
// the deployment runs on in-memory stores.
type Deps struct {
	Pipeline postProcessor
	Engine   signalEngine
	History  history.Store
	Alerts   alerts.Repository
	Hub      *broadcast.Hub
	Limiter  *ratelimit.Limiter
	Clock    clockwork.Clock
	Redis    *goredis.Client
	DB       *pgxpool.Pool
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	deps      Deps
	startTime time.Time
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		deps:      deps,
		startTime: deps.Clock.Now(),
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
