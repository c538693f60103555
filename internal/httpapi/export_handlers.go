package httpapi

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/export"
	"jobtrack-engine/internal/store"
)

type ExportHandler struct {
	DB *sql.DB
}

// CSV streams the job list as a CSV download. ?status= filters like the
// jobs list does.
func (h ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	_ = export.Write(w, jobs)
}
