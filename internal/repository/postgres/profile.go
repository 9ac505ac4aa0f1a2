package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hastla007/webradio-sub000/internal/domain"
	"github.com/hastla007/webradio-sub000/internal/export"
)

// ProfileRepo reads export profiles and their assigned player apps.
type ProfileRepo struct{ db *sql.DB }

// NewProfileRepo creates a Postgres-backed profile reader.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileColumns = `
	id, name, genre_ids, sub_genres, station_ids, player_id,
	auto_export_enabled, COALESCE(auto_export_interval,''), COALESCE(auto_export_time,''),
	created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (*domain.ExportProfile, error) {
	p := &domain.ExportProfile{}
	var playerID sql.NullString
	var interval string
	if err := row.Scan(
		&p.ID, &p.Name, pq.Array(&p.GenreIDs), pq.Array(&p.SubGenres), pq.Array(&p.StationIDs), &playerID,
		&p.AutoExport.Enabled, &interval, &p.AutoExport.Time,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.AutoExport.Interval = domain.ExportInterval(interval)
	if playerID.Valid {
		p.PlayerID = &playerID.String
	}
	return p, nil
}

// Profile returns a single profile, or export.ErrProfileNotFound.
func (r *ProfileRepo) Profile(ctx context.Context, id string) (*domain.ExportProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM export_profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, export.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Profiles returns all profiles.
func (r *ProfileRepo) Profiles(ctx context.Context) ([]domain.ExportProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM export_profiles ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Player returns the player app referenced by a profile. The ftp_password
// column holds vault ciphertext; it is never decrypted here.
func (r *ProfileRepo) Player(ctx context.Context, id string) (*domain.PlayerApp, error) {
	p := &domain.PlayerApp{}
	var protocol string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, ftp_enabled, COALESCE(ftp_server,''), COALESCE(ftp_username,''),
		       COALESCE(ftp_password,''), COALESCE(ftp_protocol,'ftp'), COALESCE(ftp_timeout_ms,0),
		       created_at, updated_at
		FROM player_apps
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.FTPEnabled, &p.FTPServer, &p.FTPUsername,
		&p.FTPPassword, &protocol, &p.FTPTimeoutMs,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player app %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get player app: %w", err)
	}
	p.FTPProtocol = domain.FTPProtocol(protocol)
	return p, nil
}
