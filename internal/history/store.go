package history

import (
	"context"
	"time"

	"github.com/pscheid92/marketpulse/internal/domain"
)

// historyRetention bounds how far back index snapshots are kept.
const historyRetention = 30 * 24 * time.Hour

// Store persists periodic Fear & Greed index snapshots for the historical
// API surface.
type Store interface {
	// Append records one snapshot, keyed by its ComputedAt time.
	Append(ctx context.Context, index domain.FearGreedIndex) error

	// Range returns snapshots with ComputedAt in [from, to], oldest first.
	Range(ctx context.Context, from, to time.Time) ([]domain.FearGreedIndex, error)
}
