package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"jobtrack-engine/internal/artifact"
	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/httpapi"
	"jobtrack-engine/internal/ingest"
	"jobtrack-engine/internal/pipeline"
	"jobtrack-engine/internal/remote"
	"jobtrack-engine/internal/resume"
	"jobtrack-engine/internal/scheduler"
	"jobtrack-engine/internal/score"
	"jobtrack-engine/internal/secrets"
	"jobtrack-engine/internal/store"
)

func main() {
	// .env is optional; real config lives in the data dir.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("JOBTRACK_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(log); err != nil {
		log.Fatal(err)
	}
}

func run(log *logrus.Logger) error {
	// Data dir: env if provided (the desktop shell passes one), else ~/.jobtrack.
	dataDir := os.Getenv("JOBTRACK_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".jobtrack")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir. A second instance would race on sqlite and
	// double-run background work.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data dir lock: %w", err)
	}
	if !locked {
		return errors.New("another engine instance is already running against " + dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		raw, err := config.Load(userCfgPath)
		if err != nil {
			return raw, err
		}
		cfg, vr := config.NormalizeAndValidate(raw)
		for _, msg := range vr.Warnings {
			log.Warnf("config: %s", msg)
		}
		if !vr.OK() {
			return cfg, errors.New("config validation failed: " + vr.Errors[0])
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "jobtrack.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	hub := events.NewHub()

	apiKey, err := secrets.GetRemoteAPIKey()
	if err != nil {
		log.Warnf("no remote API key found (%v); remote calls will be unauthenticated", err)
	}
	client := remote.New(cfg.Remote.BaseURL, apiKey, time.Duration(cfg.Remote.TimeoutSeconds)*time.Second, log)

	files, err := resume.NewFileStore(filepath.Join(dataDir, "files"), "/files")
	if err != nil {
		return err
	}

	ingestRunner := &ingest.Runner{
		DB:  db,
		Log: log,
		OnNewJob: func(j domain.Job) {
			hub.Publish(events.MakeEvent("", events.TypeJobCreated, 1, map[string]any{"id": j.ID}))
		},
	}

	pipelineSvc := &pipeline.Service{DB: db, Hub: hub, Log: log}
	scoreSvc := &score.Service{
		DB:          db,
		Scorer:      client,
		Hub:         hub,
		Log:         log,
		DemoteBelow: cfg.Scoring.AutoDemoteBelow,
	}
	artifactSvc := &artifact.Service{
		DB:        db,
		Generator: client,
		Hub:       hub,
		Log:       log,
		MinScore:  cfg.Scoring.ArtifactMinScore,
	}
	resumeSvc := &resume.Service{
		DB:       db,
		Parser:   client,
		Files:    files,
		Hub:      hub,
		Log:      log,
		MaxBytes: cfg.Upload.MaxSizeMB << 20,
	}

	var searchStatus, batchStatus atomic.Value
	searchStatus.Store(httpapi.SearchStatus{})
	batchStatus.Store(httpapi.BatchScoreStatus{})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db,
		Hub:          hub,
		Log:          log,
		CfgVal:       &cfgVal,
		SearchStatus: &searchStatus,
		BatchStatus:  &batchStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		Pipeline:     pipelineSvc,
		Score:        scoreSvc,
		Artifacts:    artifactSvc,
		Resume:       resumeSvc,
		Ingest:       ingestRunner,
		Searcher:     client,
		FilesDir:     files.Dir,
	})

	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover(log),
		httpapi.AccessLog(log),
		httpapi.Cors,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Infof("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if serr := srv.Serve(ln); serr != nil && serr != http.ErrServerClosed {
			return serr
		}
		return nil
	})
	g.Go(func() error {
		// Keepalive so idle SSE streams aren't dropped by the webview.
		scheduler.Every(gctx, log, 30*time.Second, "sse-ping", func(context.Context) error {
			hub.Publish(events.MakeEvent("", events.TypePing, 1, nil))
			return nil
		})
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}
