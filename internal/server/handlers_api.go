package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/marketpulse/internal/domain"
	apperrors "github.com/pscheid92/marketpulse/internal/errors"
	"github.com/pscheid92/marketpulse/internal/pipeline"
)

const (
	defaultTrendingLimit = 10
	maxTrendingLimit     = 50
	defaultAlertHours    = 24
	maxAlertHours        = 168
	maxHistoryHours      = 720
)

func (s *Server) handleIngestPost(c echo.Context) error {
	var raw domain.RawPost
	if err := c.Bind(&raw); err != nil {
		return apperrors.ValidationError("malformed post payload")
	}

	if raw.Platform != "" && !s.deps.Limiter.Allow(raw.Platform) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "platform rate limit exceeded")
	}

	post, err := s.deps.Pipeline.Process(c.Request().Context(), raw)
	switch {
	case err == nil:
		return c.JSON(http.StatusAccepted, map[string]any{"status": "accepted", "post": post})
	case errors.Is(err, pipeline.ErrDuplicate):
		return c.JSON(http.StatusOK, map[string]string{"status": "rejected", "reason": "duplicate"})
	case errors.Is(err, pipeline.ErrSpam):
		return c.JSON(http.StatusOK, map[string]string{"status": "rejected", "reason": "spam"})
	case errors.Is(err, pipeline.ErrInvalidPost):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, domain.ErrScorerUnavailable):
		return apperrors.ExternalError("sentiment scorer unavailable", err)
	default:
		return apperrors.InternalError("failed to process post", err)
	}
}

func (s *Server) handleFearGreed(c echo.Context) error {
	historical := c.QueryParam("historical")
	if historical == "" {
		return c.JSON(http.StatusOK, s.deps.Engine.FearGreedIndex())
	}

	// "historical=true" returns the full retained range, a number selects
	// the trailing hours.
	hours := maxHistoryHours
	if historical != "true" {
		parsed, err := strconv.Atoi(historical)
		if err != nil || parsed <= 0 || parsed > maxHistoryHours {
			return apperrors.ValidationError("historical must be true or a positive hour count").
				WithField("historical", historical)
		}
		hours = parsed
	}

	now := s.deps.Clock.Now()
	snapshots, err := s.deps.History.Range(c.Request().Context(), now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		return apperrors.InternalError("failed to load index history", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"hours":   hours,
		"history": snapshots,
	})
}

func (s *Server) handleTickerSentiment(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))

	signal, ok := s.deps.Engine.TickerSentiment(symbol)
	if !ok {
		return apperrors.NotFoundError("no signal for ticker").WithField("ticker", symbol)
	}
	return c.JSON(http.StatusOK, signal)
}

func (s *Server) handleTrendingTickers(c echo.Context) error {
	limit := defaultTrendingLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
		}
		limit = min(parsed, maxTrendingLimit)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"tickers": s.deps.Engine.TrendingTickers(limit),
	})
}

func (s *Server) handleUnusualActivity(c echo.Context) error {
	hours := defaultAlertHours
	if raw := c.QueryParam("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.ValidationError("hours must be a positive integer").WithField("hours", raw)
		}
		hours = min(parsed, maxAlertHours)
	}

	since := s.deps.Clock.Now().Add(-time.Duration(hours) * time.Hour)
	list, err := s.deps.Alerts.ListSince(c.Request().Context(), since)
	if err != nil {
		return apperrors.InternalError("failed to load alerts", err)
	}
	if list == nil {
		list = []domain.Alert{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"hours":  hours,
		"alerts": list,
	})
}
