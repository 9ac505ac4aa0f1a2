package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// ReportRepo is the reporting sink: one row per delivery run, read back by
// the dashboard listing.
type ReportRepo struct{ db *sql.DB }

// NewReportRepo creates a Postgres-backed reporting sink.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// Report persists a delivery result.
func (r *ReportRepo) Report(ctx context.Context, result *domain.DeliveryResult, summary string) error {
	files, err := json.Marshal(result.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO delivery_reports
			(run_id, profile_id, profile_name, trigger, status, station_count,
			 files, output_directory, summary, error, started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		result.RunID, result.ProfileID, result.ProfileName, string(result.Trigger),
		string(result.Status), result.StationCount, files, result.OutputDirectory,
		summary, nullIfEmpty(result.Error), result.StartedAt, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery report: %w", err)
	}
	return nil
}

// ReportRow is a persisted delivery report as listed for dashboards.
type ReportRow struct {
	RunID           string                 `json:"run_id"`
	ProfileID       string                 `json:"profile_id"`
	ProfileName     string                 `json:"profile_name"`
	Trigger         string                 `json:"trigger"`
	Status          string                 `json:"status"`
	StationCount    int                    `json:"station_count"`
	Files           []domain.DeliveredFile `json:"files"`
	OutputDirectory string                 `json:"output_directory"`
	Summary         string                 `json:"summary"`
	Error           string                 `json:"error,omitempty"`
	StartedAt       time.Time              `json:"started_at"`
	FinishedAt      time.Time              `json:"finished_at"`
}

// List returns recent reports, newest first, optionally filtered by profile.
func (r *ReportRepo) List(ctx context.Context, profileID string, limit int) ([]ReportRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	q := `
		SELECT run_id, profile_id, profile_name, trigger, status, station_count,
		       files, output_directory, summary, COALESCE(error,''),
		       started_at, finished_at
		FROM delivery_reports`
	args := []interface{}{}
	if profileID != "" {
		q += ` WHERE profile_id = $1`
		args = append(args, profileID)
	}
	q += fmt.Sprintf(` ORDER BY started_at DESC LIMIT %d`, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list delivery reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		var files []byte
		if err := rows.Scan(
			&row.RunID, &row.ProfileID, &row.ProfileName, &row.Trigger, &row.Status,
			&row.StationCount, &files, &row.OutputDirectory, &row.Summary, &row.Error,
			&row.StartedAt, &row.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan delivery report: %w", err)
		}
		if len(files) > 0 {
			if err := json.Unmarshal(files, &row.Files); err != nil {
				return nil, fmt.Errorf("decode files for run %s: %w", row.RunID, err)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
