package httpapi

import (
	"database/sql"
	"net/http"
	"strings"

	"jobtrack-engine/internal/analytics"
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/pipeline"
	"jobtrack-engine/internal/store"
)

type JobsHandler struct {
	DB       *sql.DB
	Pipeline *pipeline.Service
}

// List returns jobs with their match (when scored). ?status=a,b filters to
// those pipeline statuses; no filter returns everything newest-scraped first.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	var statuses []domain.PipelineStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			st := domain.PipelineStatus(strings.TrimSpace(s))
			if !domain.ValidStatus(st) {
				WriteError(w, r, http.StatusBadRequest, "invalid_status", "unknown pipeline status "+string(st))
				return
			}
			statuses = append(statuses, st)
		}
	}

	jobs, err := store.ListJobs(r.Context(), h.DB, store.ListJobsOpts{Statuses: statuses})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []domain.JobWithMatch{}
	}
	writeJSON(w, jobs)
}

// Counts folds every job's status into the sidebar buckets.
func (h JobsHandler) Counts(w http.ResponseWriter, r *http.Request) {
	statuses, err := store.ListStatuses(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, analytics.Counts(statuses))
}

func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	job, err := store.GetJob(r.Context(), h.DB, id)
	if err == sql.ErrNoRows {
		WriteError(w, r, http.StatusNotFound, "not_found", "job "+id+" not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, job)
}

type setStatusReq struct {
	Status domain.PipelineStatus `json:"status"`
}

func (h JobsHandler) SetStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req setStatusReq
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.Pipeline.SetStatus(r.Context(), id, req.Status)
	if err == sql.ErrNoRows {
		WriteError(w, r, http.StatusNotFound, "not_found", "job "+id+" not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": req.Status})
}

type setNotesReq struct {
	Notes string `json:"notes"`
}

func (h JobsHandler) SetNotes(w http.ResponseWriter, r *http.Request, id string) {
	var req setNotesReq
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.Pipeline.SetNotes(r.Context(), id, req.Notes)
	if err == sql.ErrNoRows {
		WriteError(w, r, http.StatusNotFound, "not_found", "job "+id+" not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func (h JobsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Pipeline.Delete(r.Context(), id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

type bulkStatusReq struct {
	IDs    []string              `json:"ids"`
	Status domain.PipelineStatus `json:"status"`
}

func (h JobsHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		WriteError(w, r, http.StatusBadRequest, "empty_ids", "ids must not be empty")
		return
	}
	if err := h.Pipeline.BulkSetStatus(r.Context(), req.IDs, req.Status); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "count": len(req.IDs), "status": req.Status})
}

type bulkDeleteReq struct {
	IDs []string `json:"ids"`
}

func (h JobsHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		WriteError(w, r, http.StatusBadRequest, "empty_ids", "ids must not be empty")
		return
	}
	if err := h.Pipeline.BulkDelete(r.Context(), req.IDs); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "count": len(req.IDs)})
}
