package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

const requestTimeout = 5 * time.Second

// HTTPScorer calls a remote model-serving endpoint. The endpoint accepts
// {"text": ...} and returns {"label", "score", "confidence"} with score in
// [-1, 1] and confidence in [0, 1].
type HTTPScorer struct {
	url    string
	client *http.Client
	clock  clockwork.Clock
}

func NewHTTPScorer(url string, clock clockwork.Clock) *HTTPScorer {
	return &HTTPScorer{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
		clock:  clock,
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

func (s *HTTPScorer) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	start := s.clock.Now()

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("failed to build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ScorerRequestsTotal.WithLabelValues("error").Inc()
		return domain.Sentiment{}, fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ScorerRequestsTotal.WithLabelValues("error").Inc()
		return domain.Sentiment{}, fmt.Errorf("%w: scorer returned status %d", domain.ErrScorerUnavailable, resp.StatusCode)
	}

	var parsed scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ScorerRequestsTotal.WithLabelValues("error").Inc()
		return domain.Sentiment{}, fmt.Errorf("failed to decode score response: %w", err)
	}

	metrics.ScorerRequestsTotal.WithLabelValues("success").Inc()
	metrics.ScorerRequestDuration.Observe(s.clock.Since(start).Seconds())

	return domain.Sentiment{
		Label:      parsed.Label,
		Score:      clamp(parsed.Score, -1, 1),
		Confidence: clamp(parsed.Confidence, 0, 1),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
