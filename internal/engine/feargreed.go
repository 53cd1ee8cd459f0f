package engine

import (
	"math"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

// Component weights of the composite index. They sum to 1.0.
const (
	weightSentiment = 0.35
	weightVolume    = 0.25
	weightMomentum  = 0.20
	weightOptions   = 0.10
	weightKeywords  = 0.10
)

const neutralComponent = 50.0

// FearGreedIndex computes the market-wide index in [0, 100] over the global
// window. With zero posts in the current hour it returns the neutral default
// without computing sub-components. Concurrent callers share one computation.
func (e *Engine) FearGreedIndex() domain.FearGreedIndex {
	v, _, _ := e.sf.Do("fear_greed", func() (any, error) {
		return e.computeFearGreed(), nil
	})
	index := v.(domain.FearGreedIndex)

	e.lastMu.Lock()
	e.lastIndex = &index
	e.lastMu.Unlock()
	metrics.FearGreedValue.Set(index.Value)

	return index
}

func (e *Engine) computeFearGreed() domain.FearGreedIndex {
	now := e.clock.Now()
	currentStart := bucketStart(now)

	e.global.mu.RLock()
	defer e.global.mu.RUnlock()

	current := e.global.buckets[currentStart]
	if current == nil || current.count == 0 {
		return domain.FearGreedIndex{
			Value:          50.0,
			Interpretation: "Neutral",
			Components: domain.FearGreedComponents{
				Sentiment: neutralComponent,
				Volume:    neutralComponent,
				Momentum:  neutralComponent,
				Options:   neutralComponent,
				Keywords:  neutralComponent,
			},
			ComputedAt: now,
		}
	}

	components := domain.FearGreedComponents{
		Sentiment: rescale(current.mean()),
		Volume:    e.volumeComponent(current),
		Momentum:  e.momentumComponent(currentStart),
		Options:   ratioComponent(current.callMentions, current.putMentions),
		Keywords:  ratioComponent(current.greedMentions, current.fearMentions),
	}

	value := components.Sentiment*weightSentiment +
		components.Volume*weightVolume +
		components.Momentum*weightMomentum +
		components.Options*weightOptions +
		components.Keywords*weightKeywords

	return domain.FearGreedIndex{
		Value:          math.Round(value*100) / 100,
		Interpretation: interpret(value),
		Components:     components,
		ComputedAt:     now,
	}
}

// volumeComponent compares the current hour's post count against the
// trailing 7-day hourly baseline, capped at 100. Caller holds the global
// read lock.
func (e *Engine) volumeComponent(current *bucket) float64 {
	since := bucketStart(e.clock.Now().Add(-retention))
	total, _ := e.global.totals(since)
	baseline := float64(total) / baselineHours

	ratio := 1.0
	if baseline > 0 {
		ratio = float64(current.count) / baseline
	}
	return math.Min(ratio*50, 100)
}

// momentumComponent compares the mean sentiment of the last completed hour
// against the hour before it. Missing data in either hour yields a neutral
// component. Caller holds the global read lock.
func (e *Engine) momentumComponent(currentStart int64) float64 {
	last := e.global.buckets[currentStart-int64(bucketWidth.Seconds())]
	previous := e.global.buckets[currentStart-2*int64(bucketWidth.Seconds())]

	if last == nil || last.count == 0 || previous == nil || previous.count == 0 {
		return rescale(0)
	}

	delta := clamp(last.mean()-previous.mean(), -1, 1)
	return rescale(delta)
}

// rescale maps [-1, 1] linearly onto [0, 100].
func rescale(v float64) float64 {
	return (v + 1) * 50
}

// ratioComponent scales positive/(positive+negative) to [0, 100], defaulting
// to neutral when neither side appears.
func ratioComponent(positive, negative int) float64 {
	total := positive + negative
	if total == 0 {
		return neutralComponent
	}
	return float64(positive) / float64(total) * 100
}

func interpret(value float64) string {
	switch {
	case value >= 80:
		return "Extreme Greed"
	case value >= 60:
		return "Greed"
	case value >= 40:
		return "Neutral"
	case value >= 20:
		return "Fear"
	default:
		return "Extreme Fear"
	}
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
