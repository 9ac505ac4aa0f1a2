// Package export wires membership resolution, artifact building, and
// delivery into the single pipeline behind both the manual "export now"
// action and the auto-export scheduler.
package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/hastla007/webradio-sub000/internal/artifact"
	"github.com/hastla007/webradio-sub000/internal/delivery"
	"github.com/hastla007/webradio-sub000/internal/domain"
	"github.com/hastla007/webradio-sub000/internal/pkg/logger"
	"github.com/hastla007/webradio-sub000/internal/resolver"
)

// Runner executes the resolve → build → deliver pipeline. Deliveries for
// distinct profiles may run concurrently; deliveries for the same profile
// never overlap.
type Runner struct {
	catalogue CatalogueRepository
	profiles  ProfileRepository
	client    *delivery.Client
	reporter  Reporter

	mu       sync.Mutex
	inFlight map[string]struct{} // profile IDs with a running delivery
}

// NewRunner creates the pipeline service.
func NewRunner(catalogue CatalogueRepository, profiles ProfileRepository, client *delivery.Client, reporter Reporter) *Runner {
	return &Runner{
		catalogue: catalogue,
		profiles:  profiles,
		client:    client,
		reporter:  reporter,
		inFlight:  make(map[string]struct{}),
	}
}

// Export runs the full pipeline for one profile.
//
// Resolution and artifact errors are fail-fast and returned to the caller
// (artifact.ErrNoActiveStations for an empty resolved set, before any file
// is written). Delivery-step outcomes are expressed in the returned result,
// never as an error. A second trigger for a profile whose delivery is still
// running gets ErrExportInFlight.
func (r *Runner) Export(ctx context.Context, profileID string, trigger domain.ExportTrigger) (*domain.DeliveryResult, error) {
	if !r.acquire(profileID) {
		return nil, ErrExportInFlight
	}
	defer r.release(profileID)

	profile, err := r.profiles.Profile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	stations, err := r.catalogue.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}

	resolved := resolver.Resolve(profile, stations)

	art, err := artifact.Build(resolved, profile)
	if err != nil {
		// Includes the empty-set rejection; nothing has been written yet.
		return nil, err
	}

	var player *domain.PlayerApp
	if profile.PlayerID != nil {
		player, err = r.profiles.Player(ctx, *profile.PlayerID)
		if err != nil {
			logger.Warn("player lookup failed, delivering locally only",
				"profile_id", profile.ID,
				"player_id", *profile.PlayerID,
				"error", err.Error())
		}
	}

	result := r.client.Deliver(ctx, art, delivery.Target{
		Profile: profile,
		Player:  player,
		Trigger: trigger,
	})

	summary, err := artifact.Summary(art, result)
	if err != nil {
		summary = result.ProfileName + ": " + string(result.Status)
	}
	if err := r.reporter.Report(ctx, result, summary); err != nil {
		// Reporting is observability, not delivery; the run outcome stands.
		logger.Warn("delivery report not persisted",
			"profile_id", profile.ID,
			"run_id", result.RunID,
			"error", err.Error())
	}

	logger.Info("export finished",
		"profile_id", profile.ID,
		"trigger", string(trigger),
		"status", string(result.Status),
		"stations", result.StationCount)

	return result, nil
}

// Preview resolves a profile without building or delivering anything.
func (r *Runner) Preview(ctx context.Context, profileID string, sampleLimit int) (*resolver.Preview, error) {
	profile, err := r.profiles.Profile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	stations, err := r.catalogue.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	genres, err := r.catalogue.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	p := resolver.PreviewResolve(profile, stations, genres, sampleLimit)
	return &p, nil
}

func (r *Runner) acquire(profileID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[profileID]; busy {
		return false
	}
	r.inFlight[profileID] = struct{}{}
	return true
}

func (r *Runner) release(profileID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, profileID)
}
