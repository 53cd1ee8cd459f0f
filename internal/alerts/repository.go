package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pscheid92/marketpulse/internal/domain"
)

// Repository persists the unusual-activity alert log.
type Repository interface {
	// Save appends an alert to the log.
	Save(ctx context.Context, alert domain.Alert) error

	// ListSince returns alerts emitted at or after the given time, newest
	// first.
	ListSince(ctx context.Context, since time.Time) ([]domain.Alert, error)

	// ListUnnotified returns alerts not yet delivered, oldest first.
	ListUnnotified(ctx context.Context) ([]domain.Alert, error)

	// MarkNotified flips the notified flag for one alert.
	MarkNotified(ctx context.Context, id uuid.UUID) error
}
