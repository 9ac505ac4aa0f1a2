package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// RunStore persists the scheduler's period bookkeeping. Rows are keyed by
// (profile, period, cadence fingerprint), so a cadence edit mid-period
// leaves the old row orphaned and the new cadence starts fresh.
type RunStore struct{ db *sql.DB }

// NewRunStore creates a Postgres-backed run store.
func NewRunStore(db *sql.DB) *RunStore { return &RunStore{db: db} }

// Completed reports whether a completion is recorded for the key.
func (r *RunStore) Completed(ctx context.Context, profileID, periodKey, fingerprint string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM export_runs
			WHERE profile_id = $1 AND period_key = $2 AND config_fingerprint = $3
		)
	`, profileID, periodKey, fingerprint).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check export run: %w", err)
	}
	return exists, nil
}

// MarkCompleted records a completion. Idempotent: re-recording the same key
// updates the status instead of failing, which covers a tick retried after a
// crash between delivery and bookkeeping.
func (r *RunStore) MarkCompleted(ctx context.Context, profileID, periodKey, fingerprint string, status domain.DeliveryStatus, finishedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO export_runs (profile_id, period_key, config_fingerprint, status, finished_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (profile_id, period_key, config_fingerprint)
		DO UPDATE SET status = EXCLUDED.status, finished_at = EXCLUDED.finished_at
	`, profileID, periodKey, fingerprint, string(status), finishedAt)
	if err != nil {
		return fmt.Errorf("record export run: %w", err)
	}
	return nil
}
