package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

// IndexSource produces the current Fear & Greed index.
type IndexSource interface {
	FearGreedIndex() domain.FearGreedIndex
}

// Recorder snapshots the index into the store on a fixed interval.
type Recorder struct {
	clock    clockwork.Clock
	source   IndexSource
	store    Store
	interval time.Duration
}

func NewRecorder(clock clockwork.Clock, source IndexSource, store Store, interval time.Duration) *Recorder {
	return &Recorder{clock: clock, source: source, store: store, interval: interval}
}

// Run snapshots on every tick until the context is cancelled. Store
// failures are counted and logged; the next tick tries again.
func (r *Recorder) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.Snapshot(ctx)
		}
	}
}

// Snapshot records one snapshot immediately.
func (r *Recorder) Snapshot(ctx context.Context) {
	index := r.source.FearGreedIndex()
	if err := r.store.Append(ctx, index); err != nil {
		metrics.HistoryErrorsTotal.Inc()
		slog.Error("Failed to record fear/greed snapshot", "error", err)
		return
	}
	metrics.HistorySnapshotsTotal.Inc()
}
