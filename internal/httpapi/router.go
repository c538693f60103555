package httpapi

import (
	"net/http"
	"strings"
)

// NewMux returns the raw mux so main() can wrap it in middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Jobs
	jh := JobsHandler{DB: d.DB, Pipeline: d.Pipeline}
	sch := ScoreHandler{DB: d.DB, CfgVal: d.CfgVal, BatchStatus: d.BatchStatus, Log: d.Log, Score: d.Score}
	ah := ArtifactsHandler{Artifacts: d.Artifacts}

	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/counts", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Counts,
	}))
	mux.HandleFunc("/jobs/bulk/status", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: jh.BulkStatus,
	}))
	mux.HandleFunc("/jobs/bulk/delete", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: jh.BulkDelete,
	}))
	// /jobs/{id} and its subresources
	mux.HandleFunc("/jobs/", jobsDispatch(jh, sch, ah))

	// Search
	srh := SearchHandler{
		DB: d.DB, CfgVal: d.CfgVal, SearchStatus: d.SearchStatus,
		Hub: d.Hub, Log: d.Log, Searcher: d.Searcher, Ingest: d.Ingest,
	}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: srh.Run,
	}))
	mux.HandleFunc("/search/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: srh.Status,
	}))

	// Batch scoring
	mux.HandleFunc("/score/batch", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.BatchRun,
	}))
	mux.HandleFunc("/score/batch/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.BatchStatusGet,
	}))

	// Resume profile
	rh := ResumeHandler{CfgVal: d.CfgVal, Resume: d.Resume}
	mux.HandleFunc("/resume", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    rh.Get,
		http.MethodPost:   rh.Upload,
		http.MethodDelete: rh.Delete,
	}))

	// Analytics and export
	anh := AnalyticsHandler{DB: d.DB}
	mux.HandleFunc("/analytics", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: anh.View,
	}))
	exh := ExportHandler{DB: d.DB}
	mux.HandleFunc("/export/csv", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: exh.CSV,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/remote", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetRemoteAPIKey,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Uploaded resume files
	if d.FilesDir != "" {
		mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(d.FilesDir))))
	}

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}

// jobsDispatch routes /jobs/{id} and /jobs/{id}/{sub}. The id is opaque, so
// the path is split rather than pattern matched.
func jobsDispatch(jh JobsHandler, sch ScoreHandler, ah ArtifactsHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
		parts := strings.Split(rest, "/")

		if len(parts) == 1 && parts[0] != "" {
			id := parts[0]
			switch r.Method {
			case http.MethodGet:
				jh.Get(w, r, id)
			case http.MethodDelete:
				jh.Delete(w, r, id)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if len(parts) == 2 {
			id := parts[0]
			switch {
			case parts[1] == "status" && r.Method == http.MethodPatch:
				jh.SetStatus(w, r, id)
			case parts[1] == "notes" && r.Method == http.MethodPatch:
				jh.SetNotes(w, r, id)
			case parts[1] == "score" && r.Method == http.MethodPost:
				sch.ScoreJob(w, r, id)
			case parts[1] == "artifacts" && r.Method == http.MethodGet:
				ah.List(w, r, id)
			case parts[1] == "artifacts" && r.Method == http.MethodPost:
				ah.Generate(w, r, id)
			default:
				http.NotFound(w, r)
			}
			return
		}

		http.NotFound(w, r)
	}
}
