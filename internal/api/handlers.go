package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hastla007/webradio-sub000/internal/artifact"
	"github.com/hastla007/webradio-sub000/internal/domain"
	"github.com/hastla007/webradio-sub000/internal/export"
	"github.com/hastla007/webradio-sub000/internal/repository/postgres"
	"github.com/hastla007/webradio-sub000/internal/resolver"
)

// ExportService is the slice of the pipeline the HTTP surface needs.
type ExportService interface {
	Export(ctx context.Context, profileID string, trigger domain.ExportTrigger) (*domain.DeliveryResult, error)
	Preview(ctx context.Context, profileID string, sampleLimit int) (*resolver.Preview, error)
}

// SchedulerStatus exposes scheduler liveness for the health endpoint.
type SchedulerStatus interface {
	IsRunning() bool
	LastTick() time.Time
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	exports   ExportService
	reports   *postgres.ReportRepo
	scheduler SchedulerStatus // nil when the scheduler is disabled
}

// NewHandlers creates the handler set.
func NewHandlers(exports ExportService, reports *postgres.ReportRepo, scheduler SchedulerStatus) *Handlers {
	return &Handlers{exports: exports, reports: reports, scheduler: scheduler}
}

// HealthCheck reports process and scheduler liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	resp := map[string]interface{}{
		"timestamp": time.Now(),
	}
	if h.scheduler != nil {
		lastTick := h.scheduler.LastTick()
		resp["scheduler_running"] = h.scheduler.IsRunning()
		resp["last_tick"] = lastTick
		// Degraded when the ticker has been silent for over two minutes.
		if h.scheduler.IsRunning() && !lastTick.IsZero() && time.Since(lastTick) > 2*time.Minute {
			status = "degraded"
		}
	}
	resp["status"] = status
	respondJSON(w, http.StatusOK, resp)
}

// ExportNow triggers the pipeline manually for one profile, bypassing the
// automatic schedule entirely.
func (h *Handlers) ExportNow(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")

	result, err := h.exports.Export(r.Context(), profileID, domain.TriggerManual)
	switch {
	case errors.Is(err, export.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, export.ErrExportInFlight):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, artifact.ErrNoActiveStations):
		// An explicit rejection, not a generic failure: the caller must know
		// the rules matched nothing before anything was written.
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "no_active_stations",
			"message": "the profile's rules matched no stations; nothing was exported",
		})
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondJSON(w, http.StatusOK, result)
	}
}

// PreviewProfile returns the resolved membership counts for a profile
// without exporting.
func (h *Handlers) PreviewProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	preview, err := h.exports.Preview(r.Context(), profileID, limit)
	if errors.Is(err, export.ErrProfileNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

// ListReports returns recent delivery reports for dashboards.
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.reports.List(r.Context(), r.URL.Query().Get("profile_id"), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []postgres.ReportRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
