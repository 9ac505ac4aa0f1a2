// Package postgres implements the engine's repository contracts against
// PostgreSQL. The catalogue tables are owned by the admin CRUD layer; this
// package only reads them. The delivery_reports and export_runs tables are
// owned by the engine.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// CatalogueRepo reads stations and genres.
type CatalogueRepo struct{ db *sql.DB }

// NewCatalogueRepo creates a Postgres-backed catalogue reader.
func NewCatalogueRepo(db *sql.DB) *CatalogueRepo { return &CatalogueRepo{db: db} }

// Stations returns the full station list, name-sorted.
func (r *CatalogueRepo) Stations(ctx context.Context) ([]domain.Station, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(genre_id,''), sub_genres,
		       stream_url, COALESCE(homepage,''), COALESCE(logo_url,''),
		       COALESCE(country,''), COALESCE(language,''),
		       COALESCE(bitrate,0), COALESCE(codec,''), is_active,
		       COALESCE(description,''), created_at, updated_at
		FROM stations
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var out []domain.Station
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(
			&st.ID, &st.Name, &st.GenreID, pq.Array(&st.SubGenres),
			&st.StreamURL, &st.Homepage, &st.LogoURL,
			&st.Country, &st.Language,
			&st.Bitrate, &st.Codec, &st.IsActive,
			&st.Description, &st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Genres returns all genres.
func (r *CatalogueRepo) Genres(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, sub_genres, created_at, updated_at
		FROM genres
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var out []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name, pq.Array(&g.SubGenres), &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
