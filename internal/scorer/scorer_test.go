package scorer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/marketpulse/internal/domain"
)

func TestLexiconPositive(t *testing.T) {
	l := NewLexicon()

	s, err := l.Score(context.Background(), "TSLA calls, breakout incoming, very bullish")
	require.NoError(t, err)
	assert.Equal(t, "positive", s.Label)
	assert.Greater(t, s.Score, 0.0)
	assert.LessOrEqual(t, s.Score, 1.0)
}

func TestLexiconNegative(t *testing.T) {
	l := NewLexicon()

	s, err := l.Score(context.Background(), "market crash incoming, buying puts, total panic")
	require.NoError(t, err)
	assert.Equal(t, "negative", s.Label)
	assert.Less(t, s.Score, 0.0)
	assert.GreaterOrEqual(t, s.Score, -1.0)
}

func TestLexiconNeutral(t *testing.T) {
	l := NewLexicon()

	s, err := l.Score(context.Background(), "earnings report comes out on thursday")
	require.NoError(t, err)
	assert.Equal(t, "neutral", s.Label)
	assert.Zero(t, s.Score)
	assert.Equal(t, 0.5, s.Confidence)
}

type failingScorer struct {
	calls int
}

func (f *failingScorer) Score(context.Context, string) (domain.Sentiment, error) {
	f.calls++
	return domain.Sentiment{}, errors.New("model down")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingScorer{}
	b := NewBreaker(inner)

	for i := 0; i < breakerFailureThreshold; i++ {
		_, err := b.Score(context.Background(), "some text")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrScorerUnavailable)
	}

	// Circuit is open: the inner scorer is no longer called and the error
	// maps to the capability-unavailable sentinel.
	_, err := b.Score(context.Background(), "some text")
	require.ErrorIs(t, err, domain.ErrScorerUnavailable)
	assert.Equal(t, breakerFailureThreshold, inner.calls)
}

type fixedScorer struct {
	sentiment domain.Sentiment
}

func (f *fixedScorer) Score(context.Context, string) (domain.Sentiment, error) {
	return f.sentiment, nil
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	want := domain.Sentiment{Label: "positive", Score: 0.8, Confidence: 0.95}
	b := NewBreaker(&fixedScorer{sentiment: want})

	got, err := b.Score(context.Background(), "nvidia beat estimates")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
