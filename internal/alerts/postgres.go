package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pscheid92/marketpulse/internal/domain"
)

const alertsSchema = `
CREATE TABLE IF NOT EXISTS unusual_activity_log (
    id         UUID PRIMARY KEY,
    ticker     TEXT NOT NULL,
    alert_type TEXT NOT NULL,
    severity   TEXT NOT NULL,
    details    JSONB NOT NULL DEFAULT '{}',
    emitted_at TIMESTAMPTZ NOT NULL,
    notified   BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_unusual_activity_emitted ON unusual_activity_log (emitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_unusual_activity_unnotified ON unusual_activity_log (emitted_at) WHERE NOT notified;
`

// PostgresRepository stores the alert log in the unusual_activity_log table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	if _, err := pool.Exec(ctx, alertsSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure alert schema: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, alert domain.Alert) error {
	details, err := json.Marshal(alert.Details)
	if err != nil {
		return fmt.Errorf("failed to encode alert details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO unusual_activity_log (id, ticker, alert_type, severity, details, emitted_at, notified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		alert.ID, alert.Ticker, string(alert.Type), string(alert.Severity), details, alert.Timestamp, alert.Notified)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Alert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticker, alert_type, severity, details, emitted_at, notified
		 FROM unusual_activity_log
		 WHERE emitted_at >= $1
		 ORDER BY emitted_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (r *PostgresRepository) ListUnnotified(ctx context.Context) ([]domain.Alert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticker, alert_type, severity, details, emitted_at, notified
		 FROM unusual_activity_log
		 WHERE NOT notified
		 ORDER BY emitted_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unnotified alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (r *PostgresRepository) MarkNotified(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE unusual_activity_log SET notified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert notified: %w", err)
	}
	return nil
}

type alertRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAlerts(rows alertRows) ([]domain.Alert, error) {
	var out []domain.Alert
	for rows.Next() {
		var (
			a         domain.Alert
			alertType string
			severity  string
			details   []byte
		)
		if err := rows.Scan(&a.ID, &a.Ticker, &alertType, &severity, &details, &a.Timestamp, &a.Notified); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		a.Type = domain.AlertType(alertType)
		a.Severity = domain.AlertSeverity(severity)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &a.Details); err != nil {
				return nil, fmt.Errorf("failed to decode alert details: %w", err)
			}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alert rows: %w", err)
	}
	return out, nil
}
