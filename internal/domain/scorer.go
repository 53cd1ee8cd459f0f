package domain

import (
	"context"
	"errors"
)

// ErrScorerUnavailable is returned when the sentiment capability cannot be
// reached (network failure or open circuit breaker). The post is not ingested;
// retry policy belongs to the caller.
var ErrScorerUnavailable = errors.New("sentiment scorer unavailable")

// Scorer is the external sentiment-classification capability. The pipeline
// never calls it for content already rejected by the deduplicator or the
// spam filter, and never while holding an engine lock.
type Scorer interface {
	Score(ctx context.Context, text string) (Sentiment, error)
}
