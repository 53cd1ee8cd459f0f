package engine

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

// platformWeights ranks source quality: licensed feeds over open forums over
// anonymous chats. Scores are re-normalized over the platforms actually
// present so absent platforms do not drag the score toward zero.
var platformWeights = map[string]float64{
	"licensed_twitter": 0.30,
	"licensed_news":    0.25,
	"reddit":           0.20,
	"discord":          0.15,
	"telegram":         0.10,
}

const (
	momentumBuckets     = 4
	volumeSpikeFactor   = 3.0
	divergenceThreshold = 0.5
)

// TickerSentiment computes the signal for one ticker over the retained
// window. The second return value is false when the ticker has no retained
// data, or when none of its posts come from a weighted platform. Callers
// treat that as an absent signal, not a neutral zero.
func (e *Engine) TickerSentiment(symbol string) (domain.TickerSignal, bool) {
	e.mu.RLock()
	w, ok := e.tickers[symbol]
	e.mu.RUnlock()
	if !ok {
		return domain.TickerSignal{}, false
	}

	now := e.clock.Now()
	since := bucketStart(now.Add(-retention))

	w.mu.RLock()
	defer w.mu.RUnlock()

	// Per-platform totals over the retained window.
	platformTotals := make(map[string]*platformAgg)
	volume := 0
	for start, b := range w.buckets {
		if start < since {
			continue
		}
		volume += b.count
		for platform, agg := range b.platforms {
			t, ok := platformTotals[platform]
			if !ok {
				t = &platformAgg{}
				platformTotals[platform] = t
			}
			t.count += agg.count
			t.sum += agg.sum
		}
	}
	if volume == 0 {
		return domain.TickerSignal{}, false
	}

	breakdown := make(map[string]float64, len(platformTotals))
	var weighted, totalWeight float64
	for platform, t := range platformTotals {
		mean := t.sum / float64(t.count)
		breakdown[platform] = mean
		if weight, ok := platformWeights[platform]; ok {
			weighted += mean * weight
			totalWeight += weight
		}
	}
	if totalWeight == 0 {
		return domain.TickerSignal{}, false
	}

	spike, divergence := w.unusualActivity(now)

	return domain.TickerSignal{
		Ticker:            symbol,
		OverallScore:      round3(weighted / totalWeight),
		Volume:            volume,
		Momentum:          round3(w.momentum(now)),
		PlatformBreakdown: breakdown,
		UnusualActivity:   spike || divergence,
		ComputedAt:        now,
	}, true
}

// momentum partitions the last 4 hours into hourly buckets and, with at
// least two non-empty buckets, returns last mean minus first mean clamped
// to [-1, 1]. Fewer than two non-empty buckets yield zero momentum. Caller
// holds the read lock.
func (w *window) momentum(now time.Time) float64 {
	currentStart := bucketStart(now)
	step := int64(bucketWidth.Seconds())

	var means []float64
	for i := momentumBuckets - 1; i >= 0; i-- {
		b := w.buckets[currentStart-int64(i)*step]
		if b != nil && b.count > 0 {
			means = append(means, b.mean())
		}
	}
	if len(means) < 2 {
		return 0
	}
	return clamp(means[len(means)-1]-means[0], -1, 1)
}

// unusualActivity checks the two alert conditions against the 7-day
// baseline: a volume spike in the current hour and a sentiment divergence
// between the current hour and the retained window. Caller holds the read
// lock.
func (w *window) unusualActivity(now time.Time) (spike, divergence bool) {
	since := bucketStart(now.Add(-retention))
	total, sum := w.totals(since)
	if total == 0 {
		return false, false
	}

	current := w.buckets[bucketStart(now)]
	baseline := float64(total) / baselineHours

	currentCount := 0
	if current != nil {
		currentCount = current.count
	}
	spike = float64(currentCount) > baseline*volumeSpikeFactor

	if current != nil && current.count > 0 {
		windowMean := sum / float64(total)
		divergence = math.Abs(current.mean()-windowMean) > divergenceThreshold
	}
	return spike, divergence
}

// DetectUnusualActivity evaluates the alert conditions for a ticker and,
// when at least one holds, emits an alert: high severity when both hold,
// medium when one does. The Notified flag belongs to the delivery sink.
func (e *Engine) DetectUnusualActivity(symbol string) (domain.Alert, bool) {
	e.mu.RLock()
	w, ok := e.tickers[symbol]
	e.mu.RUnlock()
	if !ok {
		return domain.Alert{}, false
	}

	now := e.clock.Now()

	w.mu.RLock()
	spike, divergence := w.unusualActivity(now)
	current := w.buckets[bucketStart(now)]
	since := bucketStart(now.Add(-retention))
	total, sum := w.totals(since)
	w.mu.RUnlock()

	if !spike && !divergence {
		return domain.Alert{}, false
	}

	severity := domain.SeverityMedium
	if spike && divergence {
		severity = domain.SeverityHigh
	}

	alertType := domain.AlertVolumeSpike
	if !spike {
		alertType = domain.AlertSentimentDivergence
	}

	currentCount := 0
	currentMean := 0.0
	if current != nil && current.count > 0 {
		currentCount = current.count
		currentMean = current.mean()
	}
	windowMean := 0.0
	if total > 0 {
		windowMean = sum / float64(total)
	}

	alert := domain.Alert{
		ID:       uuid.New(),
		Ticker:   symbol,
		Type:     alertType,
		Severity: severity,
		Details: map[string]any{
			"volume_spike":         spike,
			"sentiment_divergence": divergence,
			"current_hour_count":   currentCount,
			"baseline_hourly_rate": float64(total) / baselineHours,
			"current_hour_mean":    round3(currentMean),
			"window_mean":          round3(windowMean),
		},
		Timestamp: now,
	}

	metrics.AlertsEmittedTotal.WithLabelValues(string(severity)).Inc()
	return alert, true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
