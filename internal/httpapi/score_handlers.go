package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/score"
	"jobtrack-engine/internal/store"
)

type ScoreHandler struct {
	DB          *sql.DB
	CfgVal      *atomic.Value // config.Config
	BatchStatus *atomic.Value // httpapi.BatchScoreStatus
	Log         *logrus.Logger
	Score       *score.Service
}

// ScoreJob scores a single job synchronously; the UI blocks on the result.
func (h ScoreHandler) ScoreJob(w http.ResponseWriter, r *http.Request, id string) {
	out, err := h.Score.ScoreJob(r.Context(), id)
	if errors.Is(err, score.ErrNoResumeProfile) {
		WriteError(w, r, http.StatusConflict, "no_resume_profile", err.Error())
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, "score_failed", err.Error())
		return
	}
	writeJSON(w, out)
}

func (h ScoreHandler) BatchStatusGet(w http.ResponseWriter, r *http.Request) {
	st := h.BatchStatus.Load().(BatchScoreStatus)
	writeJSON(w, st)
}

// BatchRun scores every unscored inbox job in the background, one at a time.
func (h ScoreHandler) BatchRun(w http.ResponseWriter, r *http.Request) {
	st := h.BatchStatus.Load().(BatchScoreStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	jobs, err := store.ListJobs(r.Context(), h.DB, store.ListJobsOpts{
		Statuses: []domain.PipelineStatus{domain.StatusInbox},
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	total := 0
	for _, j := range jobs {
		if j.Match == nil {
			total++
		}
	}
	if total == 0 {
		writeJSON(w, map[string]any{"ok": false, "msg": "nothing to score"})
		return
	}

	h.BatchStatus.Store(BatchScoreStatus{
		Running:   true,
		LastRunAt: time.Now().Format(time.RFC3339),
		LastOkAt:  st.LastOkAt,
		Total:     total,
	})

	cfg := h.CfgVal.Load().(config.Config)
	go h.run(jobs, cfg)

	writeJSON(w, map[string]any{"ok": true, "total": total})
}

func (h ScoreHandler) run(jobs []domain.JobWithMatch, cfg config.Config) {
	pace := time.Duration(cfg.Scoring.BatchPaceMS) * time.Millisecond
	var limiter *rate.Limiter
	if pace > 0 {
		limiter = rate.NewLimiter(rate.Every(pace), 1)
	}

	res, err := h.Score.ScoreBatch(context.Background(), jobs, limiter)

	now := time.Now().Format(time.RFC3339)
	next := h.BatchStatus.Load().(BatchScoreStatus)
	next.Running = false
	next.LastRunAt = now
	next.Scored = res.Scored
	next.Failed = res.Failed
	next.Moved = res.Moved
	if err != nil {
		next.LastError = err.Error()
	} else {
		next.LastError = ""
		next.LastOkAt = now
	}
	h.BatchStatus.Store(next)
}
