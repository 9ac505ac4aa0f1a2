package export

import (
	"context"
	"time"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// CatalogueRepository is the read surface the engine consumes from the CRUD
// layer. Implementations must be safe for concurrent use.
type CatalogueRepository interface {
	// Stations returns the full station list, name-sorted.
	Stations(ctx context.Context) ([]domain.Station, error)
	// Genres returns all genres.
	Genres(ctx context.Context) ([]domain.Genre, error)
}

// ProfileRepository reads export profiles and their assigned player apps.
type ProfileRepository interface {
	// Profile returns a single profile. Returns ErrProfileNotFound if it
	// doesn't exist.
	Profile(ctx context.Context, id string) (*domain.ExportProfile, error)
	// Profiles returns all profiles.
	Profiles(ctx context.Context) ([]domain.ExportProfile, error)
	// Player returns the player app referenced by a profile.
	Player(ctx context.Context, id string) (*domain.PlayerApp, error)
}

// Reporter is the reporting sink. One report is handed over per run,
// whatever the outcome; the engine does not keep results beyond that.
type Reporter interface {
	Report(ctx context.Context, result *domain.DeliveryResult, summary string) error
}

// RunStore is the scheduler's restart-idempotent period bookkeeping.
type RunStore interface {
	// Completed reports whether a run was already recorded for the profile,
	// period key, and cadence fingerprint.
	Completed(ctx context.Context, profileID, periodKey, fingerprint string) (bool, error)
	// MarkCompleted records a completion. Recording happens for every
	// terminal status so a failed period does not re-fire until the next one.
	MarkCompleted(ctx context.Context, profileID, periodKey, fingerprint string, status domain.DeliveryStatus, finishedAt time.Time) error
}
