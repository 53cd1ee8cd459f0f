package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

// Rejection reasons surfaced to callers. Wrapped errors carry detail,
// callers branch with errors.Is.
var (
	ErrInvalidPost = errors.New("invalid post")
	ErrDuplicate   = errors.New("duplicate post")
	ErrSpam        = errors.New("spam post")
)

// Deduplicator reports whether content duplicates a recently seen post.
type Deduplicator interface {
	IsDuplicate(content string, meta domain.PostMeta) bool
}

// SpamFilter reports whether a post should be rejected as spam.
type SpamFilter interface {
	IsSpam(content string, meta domain.PostMeta) bool
}

// TickerExtractor finds the ticker symbols a text talks about.
type TickerExtractor interface {
	Extract(text string) []string
}

// Ingestor receives fully processed posts.
type Ingestor interface {
	Ingest(post *domain.Post)
}

// Publisher fans a processed post out to live subscribers.
type Publisher interface {
	Publish(post *domain.Post)
}

// Pipeline runs a raw post through the processing stages in fixed order:
// validation, dedup, spam, ticker extraction, scoring, ingestion. Stages
// run outside any engine lock; only the final Ingest touches window state.
type Pipeline struct {
	clock     clockwork.Clock
	dedup     Deduplicator
	spam      SpamFilter
	tickers   TickerExtractor
	scorer    domain.Scorer
	ingestor  Ingestor
	publisher Publisher
}

// New wires the pipeline stages. Publisher may be nil when no live stream
// is attached.
func New(clock clockwork.Clock, dedup Deduplicator, spam SpamFilter, tickers TickerExtractor, scorer domain.Scorer, ingestor Ingestor, publisher Publisher) *Pipeline {
	return &Pipeline{
		clock:     clock,
		dedup:     dedup,
		spam:      spam,
		tickers:   tickers,
		scorer:    scorer,
		ingestor:  ingestor,
		publisher: publisher,
	}
}

// Process takes one raw post through the full pipeline and returns the
// processed post on acceptance. Rejections return a sentinel error; scorer
// failures are returned as-is so callers can retry later.
func (p *Pipeline) Process(ctx context.Context, raw domain.RawPost) (*domain.Post, error) {
	start := p.clock.Now()

	if err := validate(raw); err != nil {
		metrics.PipelinePostsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	meta := domain.PostMeta{
		Platform:  raw.Platform,
		Author:    raw.Author,
		Timestamp: raw.Timestamp,
	}

	if p.dedup.IsDuplicate(raw.Content, meta) {
		metrics.PipelinePostsTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicate
	}

	if p.spam.IsSpam(raw.Content, meta) {
		metrics.PipelinePostsTotal.WithLabelValues("spam").Inc()
		return nil, ErrSpam
	}

	symbols := p.tickers.Extract(raw.Content)

	sentiment, err := p.scorer.Score(ctx, raw.Content)
	if err != nil {
		metrics.PipelinePostsTotal.WithLabelValues("scorer_error").Inc()
		slog.Warn("Scoring failed, post not ingested", "platform", raw.Platform, "error", err)
		return nil, fmt.Errorf("scoring post: %w", err)
	}

	post := &domain.Post{
		ID:        uuid.New(),
		Platform:  raw.Platform,
		Author:    raw.Author,
		Content:   raw.Content,
		Tickers:   symbols,
		Sentiment: sentiment,
		Timestamp: raw.Timestamp,
	}

	p.ingestor.Ingest(post)
	if p.publisher != nil {
		p.publisher.Publish(post)
	}

	metrics.PipelinePostsTotal.WithLabelValues("accepted").Inc()
	metrics.PipelineProcessDuration.Observe(p.clock.Since(start).Seconds())
	return post, nil
}

func validate(raw domain.RawPost) error {
	switch {
	case raw.Platform == "":
		return fmt.Errorf("%w: missing platform", ErrInvalidPost)
	case raw.Author == "":
		return fmt.Errorf("%w: missing author", ErrInvalidPost)
	case raw.Content == "":
		return fmt.Errorf("%w: empty content", ErrInvalidPost)
	case raw.Timestamp.IsZero():
		return fmt.Errorf("%w: missing timestamp", ErrInvalidPost)
	}
	return nil
}
