// Package score orchestrates match scoring: it calls the remote scorer,
// persists the result keyed on (job, resume profile), and applies the one
// automatic pipeline transition (auto-demotion of low-scoring inbox jobs).
package score

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/remote"
	"jobtrack-engine/internal/store"
)

// ErrNoResumeProfile is returned when scoring is attempted before a resume
// has been uploaded and parsed.
var ErrNoResumeProfile = errors.New("no resume profile: upload a resume first")

type Scorer interface {
	ScoreJob(ctx context.Context, job domain.Job, profile domain.ResumeProfile) (*remote.ScoreResult, error)
}

type Service struct {
	DB     *sql.DB
	Scorer Scorer
	Hub    *events.Hub
	Log    *logrus.Logger

	// DemoteBelow is the auto-demotion threshold: an inbox job scored
	// strictly below it moves to not_fit.
	DemoteBelow int
}

// Outcome reports one scoring run.
type Outcome struct {
	Match     domain.JobMatch `json:"match"`
	AutoMoved bool            `json:"auto_moved"`
}

// ScoreJob scores one job against the singleton profile. A failed remote
// call (network or embedded error payload) persists nothing. On success the
// match is upserted; scoring the same job twice keeps a single row.
func (s *Service) ScoreJob(ctx context.Context, jobID string) (Outcome, error) {
	job, err := store.GetJob(ctx, s.DB, jobID)
	if err == sql.ErrNoRows {
		return Outcome{}, fmt.Errorf("job %s not found", jobID)
	}
	if err != nil {
		return Outcome{}, err
	}

	profile, err := store.GetResumeProfile(ctx, s.DB)
	if err == sql.ErrNoRows {
		return Outcome{}, ErrNoResumeProfile
	}
	if err != nil {
		return Outcome{}, err
	}

	result, err := s.Scorer.ScoreJob(ctx, job, profile)
	if err != nil {
		return Outcome{}, fmt.Errorf("score job %s: %w", jobID, err)
	}

	match, err := store.UpsertMatch(ctx, s.DB, matchFromResult(jobID, profile.ID, result))
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Match: match}

	// Auto-demotion: fires only on the inbox->scored transition. A job the
	// user already moved elsewhere keeps its status whatever the score.
	if job.PipelineStatus == domain.StatusInbox && result.MatchScore < s.DemoteBelow {
		if err := store.UpdateJobStatus(ctx, s.DB, jobID, domain.StatusNotFit); err != nil {
			return out, fmt.Errorf("auto-demote %s: %w", jobID, err)
		}
		out.AutoMoved = true
	}

	s.publish(events.TypeJobScored, map[string]any{
		"id":         jobID,
		"score":      result.MatchScore,
		"auto_moved": out.AutoMoved,
	})
	return out, nil
}

func matchFromResult(jobID, profileID string, r *remote.ScoreResult) domain.JobMatch {
	return domain.JobMatch{
		JobID:                jobID,
		ResumeProfileID:      profileID,
		MatchScore:           r.MatchScore,
		SkillMatchPercentage: r.SkillMatchPercentage,
		Recommendation:       r.Recommendation,
		Reasoning:            r.Reasoning,
		Pros:                 r.Pros,
		Cons:                 r.Cons,
		Gaps:                 r.Gaps,
		StrategicAdvice:      r.StrategicAdvice,
		Agent:                r.Agent,
		AgentVersion:         r.AgentVersion,
		VetoReasons:          r.VetoReasons,
		Scores:               r.Scores,
	}
}

func (s *Service) publish(typ string, data any) {
	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", typ, 1, data))
	}
}
