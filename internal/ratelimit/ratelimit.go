package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter enforces a per-platform request budget for upstream scrapers and
// the ingest endpoint. Each platform gets its own token bucket.
type Limiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New builds a limiter allowing perMinute events per platform with the
// given burst.
func New(perMinute, burst int) *Limiter {
	return &Limiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether one event for the platform may proceed now.
func (l *Limiter) Allow(platform string) bool {
	return l.limiter(platform).Allow()
}

// Wait blocks until the platform has budget or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context, platform string) error {
	return l.limiter(platform).Wait(ctx)
}

func (l *Limiter) limiter(platform string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[platform]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[platform] = lim
	}
	return lim
}
