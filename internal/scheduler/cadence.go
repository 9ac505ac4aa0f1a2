package scheduler

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// Cadence rules:
//   - daily:   every day at the configured HH:MM
//   - weekly:  Monday at the configured HH:MM
//   - monthly: the 1st at the configured HH:MM
//
// A profile is due once its period's boundary has passed and no completion
// is recorded for that period. Evaluating "boundary passed" rather than
// "boundary equals now" means a tick arriving late (or a process restarted
// after the boundary) still fires, while the period bookkeeping keeps it to
// once per period.

// PeriodKey identifies the cadence period containing t.
// daily → "2026-08-24", weekly → "2026-W34" (ISO week), monthly → "2026-08".
func PeriodKey(interval domain.ExportInterval, t time.Time) string {
	switch interval {
	case domain.IntervalWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case domain.IntervalMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// Fingerprint hashes the cadence configuration. A config edit mid-period
// produces a new fingerprint, which resets the "already ran this period"
// bookkeeping for the profile.
func Fingerprint(cfg domain.AutoExportConfig) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s", cfg.Interval, cfg.Time)
	return fmt.Sprintf("%016x", h.Sum64())
}

// periodBoundary returns the wall-clock moment within now's period at which
// the profile becomes due, or false when the configured time doesn't parse.
func periodBoundary(cfg domain.AutoExportConfig, now time.Time) (time.Time, bool) {
	at, err := time.Parse("15:04", cfg.Time)
	if err != nil {
		return time.Time{}, false
	}

	day := now
	switch cfg.Interval {
	case domain.IntervalWeekly:
		// Walk back to Monday of the current ISO week.
		offset := (int(now.Weekday()) + 6) % 7
		day = now.AddDate(0, 0, -offset)
	case domain.IntervalMonthly:
		day = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}

	return time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), 0, 0, now.Location()), true
}

// Due reports whether the cadence boundary for the current period has been
// reached. It does not consult the run store; the scheduler combines both.
func Due(cfg domain.AutoExportConfig, now time.Time) bool {
	if !cfg.Enabled || !cfg.Interval.Valid() {
		return false
	}
	boundary, ok := periodBoundary(cfg, now)
	if !ok {
		return false
	}
	return !now.Before(boundary)
}
