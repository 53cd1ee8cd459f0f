package domain

import "time"

// FearGreedComponents holds the five weighted sub-scores of the index,
// each in [0, 100].
type FearGreedComponents struct {
	Sentiment float64 `json:"sentiment"`
	Volume    float64 `json:"volume"`
	Momentum  float64 `json:"momentum"`
	Options   float64 `json:"options"`
	Keywords  float64 `json:"keywords"`
}

// FearGreedIndex is the composite market-wide signal in [0, 100].
type FearGreedIndex struct {
	Value          float64             `json:"value"`
	Interpretation string              `json:"interpretation"`
	Components     FearGreedComponents `json:"components"`
	ComputedAt     time.Time           `json:"computed_at"`
}

// TickerSignal is the point-in-time sentiment signal for a single ticker.
// PlatformBreakdown maps platform name to mean sentiment over the retained
// window, for platforms with at least one post.
type TickerSignal struct {
	Ticker            string             `json:"ticker"`
	OverallScore      float64            `json:"overall_score"`
	Volume            int                `json:"volume"`
	Momentum          float64            `json:"momentum"`
	PlatformBreakdown map[string]float64 `json:"platform_breakdown"`
	UnusualActivity   bool               `json:"unusual_activity"`
	ComputedAt        time.Time          `json:"computed_at"`
}

// TrendingTicker is one entry of the mention-count leaderboard.
type TrendingTicker struct {
	Ticker       string  `json:"ticker"`
	Mentions     int     `json:"mentions"`
	AvgSentiment float64 `json:"avg_sentiment"`
}
