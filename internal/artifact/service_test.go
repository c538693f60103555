package artifact

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/store"
)

type fakeGenerator struct {
	tailorCalls int
	letterCalls int
	err         error
}

func (f *fakeGenerator) TailorResume(ctx context.Context, job domain.Job, profile domain.ResumeProfile, matchScore int) (*domain.TailoredResume, error) {
	f.tailorCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TailoredResume{
		AgentMeta:         domain.AgentMeta{Agent: "tailor", Version: "1.0"},
		TargetRole:        domain.TargetRole{Title: job.Title, Company: job.Company},
		SkillsToEmphasize: []string{"Go", "SQL"},
		SummaryRewrite:    "Tailored summary for " + job.Title,
	}, nil
}

func (f *fakeGenerator) GenerateCoverLetter(ctx context.Context, job domain.Job, profile domain.ResumeProfile, matchScore int, highlights []string) (*domain.CoverLetter, error) {
	f.letterCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CoverLetter{
		AgentMeta:   domain.AgentMeta{Agent: "letter", Version: "1.0"},
		TargetRole:  domain.TargetRole{Title: job.Title, Company: job.Company},
		CoverLetter: "Dear hiring manager at " + job.Company,
	}, nil
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setup(t *testing.T) (*sql.DB, *fakeGenerator, *Service, domain.Job) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	_, err = store.SaveResumeProfile(context.Background(), db, domain.ResumeProfile{RawText: "resume"})
	require.NoError(t, err)

	job, err := store.InsertJob(context.Background(), db, domain.Job{
		SeekJobID: "1001",
		Title:     "Backend Engineer",
		Company:   "Initech",
		Location:  "Sydney NSW",
		JobURL:    "https://example.com/1001",
	})
	require.NoError(t, err)

	gen := &fakeGenerator{}
	svc := &Service{DB: db, Generator: gen, Log: quietLog(), MinScore: 60}
	return db, gen, svc, job
}

func scoreJobAt(t *testing.T, db *sql.DB, jobID string, score int) {
	t.Helper()
	_, err := store.UpsertMatch(context.Background(), db, domain.JobMatch{
		JobID: jobID, ResumeProfileID: "profile-1", MatchScore: score,
	})
	require.NoError(t, err)
}

func TestGenerateRequiresScore(t *testing.T) {
	_, gen, svc, job := setup(t)

	_, _, err := svc.Generate(context.Background(), job.ID, domain.ArtifactTailoredResume, nil)
	assert.ErrorIs(t, err, ErrUnscored)
	assert.Zero(t, gen.tailorCalls)
}

func TestGenerateRequiresMinimumScore(t *testing.T) {
	db, gen, svc, job := setup(t)
	scoreJobAt(t, db, job.ID, 59)

	_, _, err := svc.Generate(context.Background(), job.ID, domain.ArtifactCoverLetter, nil)
	var tooLow *ScoreTooLowError
	require.ErrorAs(t, err, &tooLow)
	assert.Equal(t, 59, tooLow.Score)
	assert.Equal(t, "score must be 60+ (currently 59)", tooLow.Error())
	assert.Zero(t, gen.letterCalls)
}

func TestGenerateAtThreshold(t *testing.T) {
	db, gen, svc, job := setup(t)
	scoreJobAt(t, db, job.ID, 60)

	art, cached, err := svc.Generate(context.Background(), job.ID, domain.ArtifactTailoredResume, nil)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, gen.tailorCalls)
	assert.Equal(t, domain.ArtifactTailoredResume, art.ArtifactType)

	var tr domain.TailoredResume
	require.NoError(t, json.Unmarshal(art.Content, &tr))
	assert.Equal(t, "Tailored summary for Backend Engineer", tr.SummaryRewrite)
}

func TestGenerateReturnsCachedWithoutRegenerating(t *testing.T) {
	db, gen, svc, job := setup(t)
	scoreJobAt(t, db, job.ID, 80)

	first, cached, err := svc.Generate(context.Background(), job.ID, domain.ArtifactCoverLetter, nil)
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := svc.Generate(context.Background(), job.ID, domain.ArtifactCoverLetter, nil)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, gen.letterCalls)
}

func TestGenerateCachePerType(t *testing.T) {
	db, gen, svc, job := setup(t)
	scoreJobAt(t, db, job.ID, 80)

	_, _, err := svc.Generate(context.Background(), job.ID, domain.ArtifactTailoredResume, nil)
	require.NoError(t, err)

	// a cached tailored resume does not satisfy a cover letter request
	_, cached, err := svc.Generate(context.Background(), job.ID, domain.ArtifactCoverLetter, nil)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, gen.tailorCalls)
	assert.Equal(t, 1, gen.letterCalls)
}

func TestGenerateFailurePersistsNothing(t *testing.T) {
	db, gen, svc, job := setup(t)
	scoreJobAt(t, db, job.ID, 80)
	gen.err = errors.New("upstream 500")

	_, _, err := svc.Generate(context.Background(), job.ID, domain.ArtifactTailoredResume, nil)
	require.Error(t, err)

	arts, lerr := store.ListArtifacts(context.Background(), db, job.ID)
	require.NoError(t, lerr)
	assert.Empty(t, arts)

	// next attempt is not poisoned by the failure
	gen.err = nil
	_, cached, err := svc.Generate(context.Background(), job.ID, domain.ArtifactTailoredResume, nil)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestGenerateRejectsScoreType(t *testing.T) {
	_, _, svc, job := setup(t)

	_, _, err := svc.Generate(context.Background(), job.ID, domain.ArtifactScore, nil)
	assert.Error(t, err)
}

func TestEligibility(t *testing.T) {
	_, _, svc, _ := setup(t)

	assert.ErrorIs(t, svc.Eligibility(nil), ErrUnscored)
	assert.Error(t, svc.Eligibility(&domain.JobMatch{MatchScore: 59}))
	assert.NoError(t, svc.Eligibility(&domain.JobMatch{MatchScore: 60}))
}
