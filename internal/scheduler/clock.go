package scheduler

import "time"

// Clock abstracts wall-clock access so tests can drive cadence evaluation
// with a fake time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the actual system time.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time { return time.Now() }

// MockClock returns a fixed, settable time for tests.
type MockClock struct {
	Time time.Time
}

// Now returns the configured mock time.
func (m *MockClock) Now() time.Time { return m.Time }

// Set moves the mock clock.
func (m *MockClock) Set(t time.Time) { m.Time = t }

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) { m.Time = m.Time.Add(d) }
