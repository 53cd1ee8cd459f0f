package scorer

import (
	"context"
	"strings"

	"github.com/pscheid92/marketpulse/internal/domain"
)

var (
	bullishWords = []string{
		"moon", "rocket", "bull", "bullish", "rally", "breakout", "calls",
		"buy", "long", "undervalued", "beat", "soar", "gain", "pump",
	}
	bearishWords = []string{
		"crash", "tank", "dump", "bear", "bearish", "puts", "sell",
		"short", "overvalued", "miss", "drop", "fear", "panic", "plunge",
	}
)

// Lexicon is a deterministic keyword-based scorer used in development and
// tests. It stands in for the remote model capability; the label/score
// contract is identical.
type Lexicon struct{}

func NewLexicon() *Lexicon {
	return &Lexicon{}
}

func (l *Lexicon) Score(_ context.Context, text string) (domain.Sentiment, error) {
	lower := strings.ToLower(text)

	var bullish, bearish int
	for _, w := range bullishWords {
		if strings.Contains(lower, w) {
			bullish++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(lower, w) {
			bearish++
		}
	}

	total := bullish + bearish
	if total == 0 {
		return domain.Sentiment{Label: "neutral", Score: 0, Confidence: 0.5}, nil
	}

	score := float64(bullish-bearish) / float64(total)
	label := "neutral"
	switch {
	case score > 0.2:
		label = "positive"
	case score < -0.2:
		label = "negative"
	}

	// Confidence grows with the number of matched terms, capped at 0.9:
	// a keyword scorer should never claim model-grade certainty.
	confidence := 0.5 + 0.1*float64(total)
	if confidence > 0.9 {
		confidence = 0.9
	}

	return domain.Sentiment{Label: label, Score: score, Confidence: confidence}, nil
}
