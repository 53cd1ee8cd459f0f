package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/marketpulse/internal/domain"
)

func snapshot(ts time.Time, value float64) domain.FearGreedIndex {
	return domain.FearGreedIndex{
		Value:          value,
		Interpretation: "Neutral",
		ComputedAt:     ts,
	}
}

func TestMemoryStoreRange(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clock)
	ctx := context.Background()
	now := clock.Now()

	require.NoError(t, store.Append(ctx, snapshot(now.Add(-2*time.Hour), 40)))
	require.NoError(t, store.Append(ctx, snapshot(now.Add(-time.Hour), 55)))
	require.NoError(t, store.Append(ctx, snapshot(now, 62)))

	got, err := store.Range(ctx, now.Add(-90*time.Minute), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Oldest first.
	assert.Equal(t, 55.0, got[0].Value)
	assert.Equal(t, 62.0, got[1].Value)
}

func TestMemoryStorePrunesOldSnapshots(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, snapshot(clock.Now(), 40)))

	clock.Advance(31 * 24 * time.Hour)
	require.NoError(t, store.Append(ctx, snapshot(clock.Now(), 60)))

	got, err := store.Range(ctx, time.Time{}, clock.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 60.0, got[0].Value)
}

type fakeSource struct {
	index domain.FearGreedIndex
	calls int
}

func (f *fakeSource) FearGreedIndex() domain.FearGreedIndex {
	f.calls++
	return f.index
}

type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) Append(context.Context, domain.FearGreedIndex) error {
	f.calls++
	return f.err
}

func (f *failingStore) Range(context.Context, time.Time, time.Time) ([]domain.FearGreedIndex, error) {
	return nil, f.err
}

func TestRecorderSnapshot(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clock)
	source := &fakeSource{index: snapshot(clock.Now(), 58)}
	recorder := NewRecorder(clock, source, store, 5*time.Minute)

	recorder.Snapshot(context.Background())

	got, err := store.Range(context.Background(), time.Time{}, clock.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 58.0, got[0].Value)
	assert.Equal(t, 1, source.calls)
}

func TestRecorderKeepsTickingAfterStoreFailure(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := &failingStore{err: errors.New("redis down")}
	source := &fakeSource{index: snapshot(clock.Now(), 58)}
	recorder := NewRecorder(clock, source, store, 5*time.Minute)

	recorder.Snapshot(context.Background())
	recorder.Snapshot(context.Background())

	assert.Equal(t, 2, store.calls)
}

func TestRecorderRunStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clock)
	source := &fakeSource{index: snapshot(clock.Now(), 58)}
	recorder := NewRecorder(clock, source, store, 5*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		recorder.Run(ctx)
		close(done)
	}()

	clock.BlockUntil(1)
	clock.Advance(5 * time.Minute)

	require.Eventually(t, func() bool {
		got, err := store.Range(context.Background(), time.Time{}, clock.Now())
		return err == nil && len(got) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop")
	}
}
