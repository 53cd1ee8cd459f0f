package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Signal API (API-key protected outside development)
	api := s.echo.Group("/api/v1", s.requireAPIKey)
	api.POST("/posts", s.handleIngestPost)
	api.GET("/fear-greed", s.handleFearGreed)
	api.GET("/ticker/:symbol/sentiment", s.handleTickerSentiment)
	api.GET("/tickers/trending", s.handleTrendingTickers)
	api.GET("/unusual-activity", s.handleUnusualActivity)

	// Live stream (WebSocket - no API key, browsers cannot set headers)
	s.echo.GET("/ws/sentiment-stream", s.handleSentimentStream)
}
