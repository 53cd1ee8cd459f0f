package server

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	apperrors "github.com/pscheid92/marketpulse/internal/errors"
)

const apiKeyHeader = "X-API-Key"

// requireAPIKey guards the signal API. With no configured keys
// (development) requests pass through.
func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.config.AuthEnabled() {
			return next(c)
		}

		provided := c.Request().Header.Get(apiKeyHeader)
		if provided == "" {
			return apperrors.UnauthorizedError("missing API key")
		}
		for _, key := range s.config.APIKeys {
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1 {
				return next(c)
			}
		}
		return apperrors.UnauthorizedError("invalid API key")
	}
}
