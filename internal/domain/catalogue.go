package domain

import "time"

// Genre groups stations under a top-level category with free-text sub-genres.
// Sub-genre names are display text; all matching against them is
// case-insensitive.
type Genre struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SubGenres []string  `json:"sub_genres" db:"sub_genres"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Station is a single catalogue entry. A station belongs to at most one genre
// but may carry sub-genre tags independent of that genre's declared list.
// IsActive is supplied by the stream-uptime monitor and is read-only here.
type Station struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	GenreID     string    `json:"genre_id" db:"genre_id"`
	SubGenres   []string  `json:"sub_genres" db:"sub_genres"`
	StreamURL   string    `json:"stream_url" db:"stream_url"`
	Homepage    string    `json:"homepage" db:"homepage"`
	LogoURL     string    `json:"logo_url" db:"logo_url"`
	Country     string    `json:"country" db:"country"`
	Language    string    `json:"language" db:"language"`
	Bitrate     int       `json:"bitrate" db:"bitrate"`
	Codec       string    `json:"codec" db:"codec"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
