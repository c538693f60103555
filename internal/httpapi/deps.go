package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"jobtrack-engine/internal/artifact"
	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/ingest"
	"jobtrack-engine/internal/pipeline"
	"jobtrack-engine/internal/remote"
	"jobtrack-engine/internal/resume"
	"jobtrack-engine/internal/score"
)

// Searcher runs one search against the external job board.
type Searcher interface {
	Scrape(ctx context.Context, req remote.ScrapeRequest) (*remote.ScrapeResponse, error)
}

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *logrus.Logger

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	SearchStatus *atomic.Value // stores httpapi.SearchStatus
	BatchStatus  *atomic.Value // stores httpapi.BatchScoreStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Pipeline  *pipeline.Service
	Score     *score.Service
	Artifacts *artifact.Service
	Resume    *resume.Service
	Ingest    *ingest.Runner
	Searcher  Searcher

	// FilesDir backs the /files/ route (uploaded resumes).
	FilesDir string
}
