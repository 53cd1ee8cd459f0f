package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

const (
	breakerFailureThreshold = 5
	breakerOpenDuration     = 30 * time.Second
)

// Breaker wraps a Scorer with a circuit breaker. When the remote capability
// keeps failing, calls are rejected immediately instead of stacking up behind
// timeouts; rejected calls surface as domain.ErrScorerUnavailable.
type Breaker struct {
	inner domain.Scorer
	cb    *gobreaker.CircuitBreaker
}

func NewBreaker(inner domain.Scorer) *Breaker {
	settings := gobreaker.Settings{
		Name:    "scorer",
		Timeout: breakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			slog.Warn("Scorer circuit breaker state change", "from", from.String(), "to", to.String())
			metrics.ScorerBreakerState.Set(breakerStateValue(to))
		},
	}
	return &Breaker{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *Breaker) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.Score(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ScorerRequestsTotal.WithLabelValues("circuit_open").Inc()
			return domain.Sentiment{}, fmt.Errorf("%w: circuit open", domain.ErrScorerUnavailable)
		}
		return domain.Sentiment{}, err
	}

	sentiment, ok := result.(domain.Sentiment)
	if !ok {
		return domain.Sentiment{}, fmt.Errorf("unexpected scorer result type %T", result)
	}
	return sentiment, nil
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
