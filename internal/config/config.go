package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	AppEnv      string
	Port        string
	LogLevel    string
	LogFormat   string
	RedisURL    string
	DatabaseURL string
	ScorerURL   string
	APIKeys     []string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		RedisURL:    getEnv("REDIS_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		ScorerURL:   getEnv("SCORER_URL", ""),
		APIKeys:     splitKeys(getEnv("API_KEYS", "")),
	}

	if cfg.AppEnv == "production" {
		if len(cfg.APIKeys) == 0 {
			return nil, fmt.Errorf("API_KEYS is required in production")
		}
		if cfg.ScorerURL == "" {
			return nil, fmt.Errorf("SCORER_URL is required in production")
		}
	}

	return cfg, nil
}

// AuthEnabled reports whether API-key authentication is active.
// With no configured keys (development only) the API is open.
func (c *Config) AuthEnabled() bool {
	return len(c.APIKeys) > 0
}

func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
