package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertType identifies what triggered an unusual-activity alert.
type AlertType string

const (
	AlertVolumeSpike         AlertType = "volume_spike"
	AlertSentimentDivergence AlertType = "sentiment_divergence"
)

// AlertSeverity grades an alert. The engine only emits medium (one condition)
// or high (both conditions).
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// Alert is an unusual-activity event emitted by the aggregation engine.
// Notified is the only mutable field; it is flipped by the delivery sink.
type Alert struct {
	ID        uuid.UUID      `json:"id"`
	Ticker    string         `json:"ticker"`
	Type      AlertType      `json:"alert_type"`
	Severity  AlertSeverity  `json:"severity"`
	Details   map[string]any `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
	Notified  bool           `json:"notified"`
}
