package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawPost is a normalized post candidate pushed into the pipeline entry point
// by a platform scraper. Metadata carries platform-specific extras the core
// does not interpret.
type RawPost struct {
	Platform  string            `json:"platform"`
	Author    string            `json:"author"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// PostMeta is the slice of post metadata the filtering stages need.
type PostMeta struct {
	Platform  string
	Author    string
	Timestamp time.Time
}

// Post is a fully processed post: deduplicated, spam-checked, ticker-tagged
// and scored. Immutable once it enters the aggregation engine.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Platform  string    `json:"platform"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Tickers   []string  `json:"tickers"`
	Sentiment Sentiment `json:"sentiment"`
	Timestamp time.Time `json:"timestamp"`
	IsSpam    bool      `json:"is_spam"`
}

// Sentiment is the output of the external scoring capability.
// Score is in [-1, 1], Confidence in [0, 1].
type Sentiment struct {
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}
