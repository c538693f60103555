package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/ingest"
	"jobtrack-engine/internal/remote"
)

type SearchHandler struct {
	DB           *sql.DB
	CfgVal       *atomic.Value // config.Config
	SearchStatus *atomic.Value // httpapi.SearchStatus
	Hub          *events.Hub
	Log          *logrus.Logger
	Searcher     Searcher
	Ingest       *ingest.Runner
}

type searchReq struct {
	Keywords        string `json:"keywords"`
	Location        string `json:"location"`
	WorkType        string `json:"work_type"`
	WorkArrangement string `json:"work_arrangement"`
	SalaryMin       int    `json:"salary_min"`
	SalaryMax       int    `json:"salary_max"`
	SalaryType      string `json:"salary_type"`
	DatePosted      string `json:"date_posted"`
	Limit           int    `json:"limit"`
}

func (h SearchHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.SearchStatus.Load().(SearchStatus)
	writeJSON(w, st)
}

// Run starts a search in the background. Request fields fall back to the
// configured search defaults; keywords must be non-empty after the fallback.
func (h SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if !decodeJSON(w, r, &req) {
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if req.Keywords == "" {
		req.Keywords = cfg.Search.Keywords
	}
	if req.Location == "" {
		req.Location = cfg.Search.Location
	}
	if req.WorkType == "" {
		req.WorkType = cfg.Search.WorkType
	}
	if req.SalaryMin == 0 {
		req.SalaryMin = cfg.Search.SalaryMin
	}
	if req.SalaryMax == 0 {
		req.SalaryMax = cfg.Search.SalaryMax
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	req.Keywords = strings.TrimSpace(req.Keywords)
	if req.Keywords == "" {
		WriteError(w, r, http.StatusBadRequest, "keywords_required", "keywords are required")
		return
	}

	st := h.SearchStatus.Load().(SearchStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.SearchStatus.Store(SearchStatus{
		Running:   true,
		LastRunAt: time.Now().Format(time.RFC3339),
		LastOkAt:  st.LastOkAt,
	})

	go h.run(req, cfg)

	writeJSON(w, map[string]any{"ok": true})
}

func (h SearchHandler) run(req searchReq, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Remote.TimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := h.Searcher.Scrape(ctx, remote.ScrapeRequest{
		Keywords: req.Keywords,
		Location: req.Location,
		Limit:    req.Limit,
		Filters: remote.ScrapeFilters{
			WorkType:        req.WorkType,
			WorkArrangement: req.WorkArrangement,
			SalaryMin:       nonZero(req.SalaryMin),
			SalaryMax:       nonZero(req.SalaryMax),
			SalaryType:      req.SalaryType,
			DatePosted:      req.DatePosted,
		},
	})

	now := time.Now().Format(time.RFC3339)
	next := h.SearchStatus.Load().(SearchStatus)
	next.Running = false
	next.LastRunAt = now
	next.LastNew = 0
	next.LastExisting = 0

	if err != nil {
		h.Log.Errorf("search: %v", err)
		next.LastError = err.Error()
		next.Message = "Search failed: " + err.Error()
		h.SearchStatus.Store(next)
		h.Hub.Publish(events.MakeEvent("", events.TypeSearchDone, 1, next))
		return
	}

	res := h.Ingest.Run(ctx, resp.Jobs)
	next.LastError = ""
	next.LastOkAt = now
	next.LastNew = res.New
	next.LastExisting = res.Existing
	next.Message = searchMessage(resp, res)
	h.SearchStatus.Store(next)
	h.Hub.Publish(events.MakeEvent("", events.TypeSearchDone, 1, next))
}

// searchMessage turns a scrape response into the line the UI shows. Empty
// result sets get diagnosed rather than reported as a bare zero.
func searchMessage(resp *remote.ScrapeResponse, res ingest.Result) string {
	if len(resp.Jobs) > 0 {
		return fmt.Sprintf("Found %d jobs (%d new, %d already tracked)", len(resp.Jobs), res.New, res.Existing)
	}
	if resp.Error != "" {
		return "Search failed: " + resp.Error
	}
	if d := resp.Diagnostics; d != nil {
		if d.PossibleBlocking {
			return "SEEK may be blocking automated searches right now; try again in a few minutes"
		}
		if d.JobIDsFound > 0 {
			return fmt.Sprintf("Found %d listings but could not extract their details", d.JobIDsFound)
		}
		if d.Message != "" {
			return d.Message
		}
	}
	return "No jobs matched your search"
}

func nonZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
