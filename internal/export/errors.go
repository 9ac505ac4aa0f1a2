package export

import "errors"

// Sentinel errors for the export pipeline.
var (
	ErrProfileNotFound = errors.New("export profile not found")
	// ErrExportInFlight: a delivery for the same profile is still running.
	// Two concurrent writers would race on the profile's output file, so the
	// later trigger is rejected rather than queued.
	ErrExportInFlight = errors.New("an export for this profile is already in flight")
)
