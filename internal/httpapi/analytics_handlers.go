package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"jobtrack-engine/internal/analytics"
	"jobtrack-engine/internal/store"
)

type AnalyticsHandler struct {
	DB *sql.DB
}

// View computes the derived analytics over the full job set.
// ?days=N restricts to jobs scored in the last N days, ?q= filters by
// title/company/location substring.
func (h AnalyticsHandler) View(w http.ResponseWriter, r *http.Request) {
	var f analytics.Filters
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_days", "days must be a non-negative integer")
			return
		}
		f.ScoredWithinDays = days
	}
	f.Query = r.URL.Query().Get("q")

	jobs, err := store.ListJobs(r.Context(), h.DB, store.ListJobsOpts{})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, analytics.Aggregate(jobs, f, time.Now().UTC()))
}
