// Package scheduler triggers the export pipeline on each profile's
// configured cadence.
//
// A single recurring ticker evaluates every profile per tick. Due profiles
// run concurrently, one goroutine each; the export runner's per-profile
// guard keeps same-profile runs from overlapping with a manual trigger.
// Period bookkeeping lives in the run store (PostgreSQL), so a profile that
// already delivered for the current day/week/month does not re-fire after a
// process restart.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hastla007/webradio-sub000/internal/domain"
	"github.com/hastla007/webradio-sub000/internal/export"
	"github.com/hastla007/webradio-sub000/internal/pkg/distlock"
)

// DefaultTickInterval keeps ticks sub-minute so an HH:MM boundary is never
// stepped over.
const DefaultTickInterval = 30 * time.Second

// Runner is the slice of the export pipeline the scheduler drives.
type Runner interface {
	Export(ctx context.Context, profileID string, trigger domain.ExportTrigger) (*domain.DeliveryResult, error)
}

// Scheduler owns auto-export triggering.
type Scheduler struct {
	profiles     export.ProfileRepository
	runs         export.RunStore
	runner       Runner
	clock        Clock
	lock         distlock.Lock // optional; nil disables tick ownership checks
	tickInterval time.Duration

	// Stats
	ticks            int64
	exportsTriggered int64
	errors           int64
	lastTick         atomic.Int64 // unix nanos

	// Control
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
}

// New creates a scheduler. A nil clock defaults to the system clock.
func New(profiles export.ProfileRepository, runs export.RunStore, runner Runner, clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		profiles:     profiles,
		runs:         runs,
		runner:       runner,
		clock:        clock,
		tickInterval: DefaultTickInterval,
	}
}

// SetTickInterval overrides the tick cadence. Values of a minute or more are
// rejected because they could step over a configured boundary minute.
func (s *Scheduler) SetTickInterval(d time.Duration) error {
	if d <= 0 || d >= time.Minute {
		return fmt.Errorf("tick interval must be positive and sub-minute, got %v", d)
	}
	s.tickInterval = d
	return nil
}

// SetLock installs a distributed lock guarding tick ownership.
func (s *Scheduler) SetLock(l distlock.Lock) { s.lock = l }

// Start begins the ticker loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	log.Printf("[AutoExport] Starting with tick interval: %v", s.tickInterval)

	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight exports.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	log.Printf("[AutoExport] Stopping...")
	s.cancel()
	s.wg.Wait()
	log.Printf("[AutoExport] Stopped. Ticks: %d, Exports: %d, Errors: %d",
		atomic.LoadInt64(&s.ticks), atomic.LoadInt64(&s.exportsTriggered), atomic.LoadInt64(&s.errors))
}

// IsRunning reports whether the ticker loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// LastTick returns the wall-clock time of the most recent completed tick.
func (s *Scheduler) LastTick() time.Time {
	n := s.lastTick.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.ctx)
		}
	}
}

// Tick evaluates every profile's cadence once. Exported so tests can drive
// the scheduler without the ticker. One profile's failure never aborts
// evaluation of the others.
func (s *Scheduler) Tick(ctx context.Context) {
	atomic.AddInt64(&s.ticks, 1)
	defer s.lastTick.Store(s.clock.Now().UnixNano())

	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx)
		if err != nil {
			log.Printf("[AutoExport] tick lock error: %v", err)
			atomic.AddInt64(&s.errors, 1)
			return
		}
		if !ok {
			// Another instance owns auto-export; stay idle.
			return
		}
		defer s.lock.Release(ctx)
	}

	profiles, err := s.profiles.Profiles(ctx)
	if err != nil {
		log.Printf("[AutoExport] list profiles: %v", err)
		atomic.AddInt64(&s.errors, 1)
		return
	}

	now := s.clock.Now()
	var wg sync.WaitGroup
	for i := range profiles {
		p := profiles[i]
		due, periodKey, fingerprint, err := s.evaluate(ctx, &p, now)
		if err != nil {
			log.Printf("[AutoExport] evaluate %s: %v", p.ID, err)
			atomic.AddInt64(&s.errors, 1)
			continue
		}
		if !due {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fire(ctx, &p, periodKey, fingerprint)
		}()
	}
	wg.Wait()
}

// evaluate decides whether a profile is due this tick: cadence boundary
// passed and no completion recorded for (profile, period, fingerprint).
func (s *Scheduler) evaluate(ctx context.Context, p *domain.ExportProfile, now time.Time) (bool, string, string, error) {
	if !Due(p.AutoExport, now) {
		return false, "", "", nil
	}

	periodKey := PeriodKey(p.AutoExport.Interval, now)
	fingerprint := Fingerprint(p.AutoExport)

	done, err := s.runs.Completed(ctx, p.ID, periodKey, fingerprint)
	if err != nil {
		return false, "", "", fmt.Errorf("run store lookup: %w", err)
	}
	return !done, periodKey, fingerprint, nil
}

// fire runs the pipeline for a due profile and records the period
// completion. The completion is recorded for every terminal delivery status
// (success, partial, failed) so the period never re-fires; an empty resolved
// set is not terminal and retries on later ticks, which lets the export
// self-heal when a station comes back online within the period.
func (s *Scheduler) fire(ctx context.Context, p *domain.ExportProfile, periodKey, fingerprint string) {
	result, err := s.runner.Export(ctx, p.ID, domain.TriggerScheduled)
	if err != nil {
		// Pipeline rejections (no stations, manual run in flight) and load
		// errors: log, count, and leave the period open.
		log.Printf("[AutoExport] export %s (%s): %v", p.Name, p.ID, err)
		atomic.AddInt64(&s.errors, 1)
		return
	}

	atomic.AddInt64(&s.exportsTriggered, 1)
	if err := s.runs.MarkCompleted(ctx, p.ID, periodKey, fingerprint, result.Status, result.FinishedAt); err != nil {
		log.Printf("[AutoExport] record completion %s period %s: %v", p.ID, periodKey, err)
		atomic.AddInt64(&s.errors, 1)
	}
}
