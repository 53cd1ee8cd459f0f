package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
)

// MemoryStore keeps snapshots in process, used when no Redis is configured.
type MemoryStore struct {
	clock clockwork.Clock

	mu        sync.RWMutex
	snapshots []domain.FearGreedIndex
}

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{clock: clock}
}

func (s *MemoryStore) Append(_ context.Context, index domain.FearGreedIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-historyRetention)
	kept := s.snapshots[:0]
	for _, snap := range s.snapshots {
		if snap.ComputedAt.After(cutoff) {
			kept = append(kept, snap)
		}
	}
	s.snapshots = append(kept, index)

	sort.Slice(s.snapshots, func(i, j int) bool {
		return s.snapshots[i].ComputedAt.Before(s.snapshots[j].ComputedAt)
	})
	return nil
}

func (s *MemoryStore) Range(_ context.Context, from, to time.Time) ([]domain.FearGreedIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.FearGreedIndex
	for _, snap := range s.snapshots {
		if snap.ComputedAt.Before(from) || snap.ComputedAt.After(to) {
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}
