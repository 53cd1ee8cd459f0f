package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/marketpulse/internal/domain"
)

func testAlert(ts time.Time, ticker string, severity domain.AlertSeverity) domain.Alert {
	return domain.Alert{
		ID:        uuid.New(),
		Ticker:    ticker,
		Type:      domain.AlertVolumeSpike,
		Severity:  severity,
		Details:   map[string]any{"volume_spike": true},
		Timestamp: ts,
	}
}

func TestMemoryRepositorySaveAndListSince(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	repo := NewMemoryRepository(clock)
	ctx := context.Background()

	old := testAlert(clock.Now().Add(-3*time.Hour), "GME", domain.SeverityMedium)
	fresh := testAlert(clock.Now(), "TSLA", domain.SeverityHigh)
	require.NoError(t, repo.Save(ctx, old))
	require.NoError(t, repo.Save(ctx, fresh))

	got, err := repo.ListSince(ctx, clock.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TSLA", got[0].Ticker)

	all, err := repo.ListSince(ctx, clock.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, "TSLA", all[0].Ticker)
	assert.Equal(t, "GME", all[1].Ticker)
}

func TestMemoryRepositoryPrunesOldEntries(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	repo := NewMemoryRepository(clock)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testAlert(clock.Now(), "GME", domain.SeverityMedium)))

	clock.Advance(8 * 24 * time.Hour)
	require.NoError(t, repo.Save(ctx, testAlert(clock.Now(), "TSLA", domain.SeverityMedium)))

	got, err := repo.ListSince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TSLA", got[0].Ticker)
}

func TestMemoryRepositoryMarkNotified(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	repo := NewMemoryRepository(clock)
	ctx := context.Background()

	first := testAlert(clock.Now().Add(-time.Minute), "GME", domain.SeverityHigh)
	second := testAlert(clock.Now(), "TSLA", domain.SeverityHigh)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	pending, err := repo.ListUnnotified(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Oldest first.
	assert.Equal(t, "GME", pending[0].Ticker)

	require.NoError(t, repo.MarkNotified(ctx, first.ID))

	pending, err = repo.ListUnnotified(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "TSLA", pending[0].Ticker)
}
