package domain

import "time"

// DeliveryStatus enumerates the outcome of a single export run.
type DeliveryStatus string

const (
	// DeliverySuccess: local write succeeded and, if remote delivery was
	// configured, the upload succeeded too.
	DeliverySuccess DeliveryStatus = "success"
	// DeliveryPartial: the local artifact was written but the remote upload
	// was skipped or failed (credentials, network, timeout).
	DeliveryPartial DeliveryStatus = "partial"
	// DeliveryFailed: the local write itself could not complete.
	DeliveryFailed DeliveryStatus = "failed"
)

// ExportTrigger records what started a run.
type ExportTrigger string

const (
	TriggerManual    ExportTrigger = "manual"
	TriggerScheduled ExportTrigger = "scheduled"
)

// DeliveredFile is the per-file outcome within a DeliveryResult.
type DeliveredFile struct {
	FileName    string `json:"file_name"`
	FTPUploaded bool   `json:"ftp_uploaded"`
}

// DeliveryResult is the transient outcome of one resolve+build+deliver run.
// It is created fresh per run, handed to the reporting sink, and discarded;
// it carries no identity beyond the run.
type DeliveryResult struct {
	RunID           string          `json:"run_id"`
	ProfileID       string          `json:"profile_id"`
	ProfileName     string          `json:"profile_name"`
	Trigger         ExportTrigger   `json:"trigger"`
	StationCount    int             `json:"station_count"`
	Files           []DeliveredFile `json:"files"`
	OutputDirectory string          `json:"output_directory"`
	StartedAt       time.Time       `json:"started_at"`
	FinishedAt      time.Time       `json:"finished_at"`
	Status          DeliveryStatus  `json:"status"`
	Error           string          `json:"error,omitempty"`
}

// Uploaded reports whether every file in the result reached the remote
// endpoint.
func (r *DeliveryResult) Uploaded() bool {
	if len(r.Files) == 0 {
		return false
	}
	for _, f := range r.Files {
		if !f.FTPUploaded {
			return false
		}
	}
	return true
}
