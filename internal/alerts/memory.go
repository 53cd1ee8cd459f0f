package alerts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
)

// memoryRetention bounds the in-memory alert log to the same horizon the
// aggregation windows keep.
const memoryRetention = 7 * 24 * time.Hour

// MemoryRepository is the in-process alert log used when no database is
// configured. Entries past retention are pruned on write.
type MemoryRepository struct {
	clock clockwork.Clock

	mu     sync.RWMutex
	alerts []domain.Alert
}

func NewMemoryRepository(clock clockwork.Clock) *MemoryRepository {
	return &MemoryRepository{clock: clock}
}

func (r *MemoryRepository) Save(_ context.Context, alert domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-memoryRetention)
	kept := r.alerts[:0]
	for _, a := range r.alerts {
		if a.Timestamp.After(cutoff) {
			kept = append(kept, a)
		}
	}
	r.alerts = append(kept, alert)
	return nil
}

func (r *MemoryRepository) ListSince(_ context.Context, since time.Time) ([]domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Alert
	for _, a := range r.alerts {
		if !a.Timestamp.Before(since) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (r *MemoryRepository) ListUnnotified(_ context.Context) ([]domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Alert
	for _, a := range r.alerts {
		if !a.Notified {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (r *MemoryRepository) MarkNotified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].Notified = true
			return nil
		}
	}
	return nil
}
