// Package artifact manages generated application documents (tailored resume
// suggestions, cover letters): the eligibility gate, the generation cache,
// and append-only persistence.
package artifact

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

// ErrUnscored and ErrScoreTooLow carry the user-facing reasons the UI shows
// on disabled generation controls.
var ErrUnscored = errors.New("score the job first to generate artifacts")

type ScoreTooLowError struct {
	Score    int
	MinScore int
}

func (e *ScoreTooLowError) Error() string {
	return fmt.Sprintf("score must be %d+ (currently %d)", e.MinScore, e.Score)
}

type Generator interface {
	TailorResume(ctx context.Context, job domain.Job, profile domain.ResumeProfile, matchScore int) (*domain.TailoredResume, error)
	GenerateCoverLetter(ctx context.Context, job domain.Job, profile domain.ResumeProfile, matchScore int, highlights []string) (*domain.CoverLetter, error)
}

type Service struct {
	DB        *sql.DB
	Generator Generator
	Hub       *events.Hub
	Log       *logrus.Logger

	// MinScore gates generation; jobs scored below it (or unscored) are
	// not eligible.
	MinScore int
}

// Eligibility returns nil when the job's match score permits generation.
func (s *Service) Eligibility(match *domain.JobMatch) error {
	if match == nil {
		return ErrUnscored
	}
	if match.MatchScore < s.MinScore {
		return &ScoreTooLowError{Score: match.MatchScore, MinScore: s.MinScore}
	}
	return nil
}

func (s *Service) HasArtifact(ctx context.Context, jobID string, typ domain.ArtifactType) (bool, error) {
	return store.HasArtifact(ctx, s.DB, jobID, typ)
}

func (s *Service) List(ctx context.Context, jobID string) ([]domain.JobArtifact, error) {
	return store.ListArtifacts(ctx, s.DB, jobID)
}

// Generate produces an artifact of the given type for a job, or returns the
// cached one. When an artifact of that type already exists the generator is
// never invoked; the most recent stored artifact is surfaced instead
// (cached=true). New content is appended, never overwritten.
//
// highlights carries skill emphasis from a just-generated tailored resume
// into cover-letter generation; it is ignored for other types.
func (s *Service) Generate(ctx context.Context, jobID string, typ domain.ArtifactType, highlights []string) (domain.JobArtifact, bool, error) {
	if typ != domain.ArtifactTailoredResume && typ != domain.ArtifactCoverLetter {
		return domain.JobArtifact{}, false, fmt.Errorf("cannot generate artifact type %q", typ)
	}

	existing, err := store.LatestArtifact(ctx, s.DB, jobID, typ)
	if err == nil {
		return existing, true, nil
	}
	if err != sql.ErrNoRows {
		return domain.JobArtifact{}, false, err
	}

	job, err := store.GetJob(ctx, s.DB, jobID)
	if err == sql.ErrNoRows {
		return domain.JobArtifact{}, false, fmt.Errorf("job %s not found", jobID)
	}
	if err != nil {
		return domain.JobArtifact{}, false, err
	}

	match, err := store.GetMatchForJob(ctx, s.DB, jobID)
	if err == sql.ErrNoRows {
		return domain.JobArtifact{}, false, ErrUnscored
	}
	if err != nil {
		return domain.JobArtifact{}, false, err
	}
	if gateErr := s.Eligibility(&match); gateErr != nil {
		return domain.JobArtifact{}, false, gateErr
	}

	profile, err := store.GetResumeProfile(ctx, s.DB)
	if err == sql.ErrNoRows {
		return domain.JobArtifact{}, false, errors.New("no resume profile: upload a resume first")
	}
	if err != nil {
		return domain.JobArtifact{}, false, err
	}

	var content []byte
	var meta domain.AgentMeta
	switch typ {
	case domain.ArtifactTailoredResume:
		tr, gerr := s.Generator.TailorResume(ctx, job, profile, match.MatchScore)
		if gerr != nil {
			return domain.JobArtifact{}, false, gerr
		}
		meta = tr.AgentMeta
		content, _ = json.Marshal(tr)
	case domain.ArtifactCoverLetter:
		cl, gerr := s.Generator.GenerateCoverLetter(ctx, job, profile, match.MatchScore, highlights)
		if gerr != nil {
			return domain.JobArtifact{}, false, gerr
		}
		meta = cl.AgentMeta
		content, _ = json.Marshal(cl)
	}

	saved, err := store.InsertArtifact(ctx, s.DB, domain.JobArtifact{
		JobID:        jobID,
		ArtifactType: typ,
		Content:      content,
		Agent:        meta.Agent,
		Version:      meta.Version,
	})
	if err != nil {
		return domain.JobArtifact{}, false, err
	}

	s.Log.Infof("artifact generated job=%s type=%s agent=%s/%s", jobID, typ, meta.Agent, meta.Version)
	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", events.TypeArtifactCreated, 1, map[string]any{
			"job_id": jobID, "type": typ,
		}))
	}
	return saved, false, nil
}
