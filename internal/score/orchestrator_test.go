package score

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/remote"
	"jobtrack-engine/internal/store"
)

type fakeScorer struct {
	calls   int
	results map[string]*remote.ScoreResult // by job id
	err     error
}

func (f *fakeScorer) ScoreJob(ctx context.Context, job domain.Job, profile domain.ResumeProfile) (*remote.ScoreResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[job.ID]; ok {
		return r, nil
	}
	return &remote.ScoreResult{MatchScore: 75, Recommendation: "apply"}, nil
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

func seedJob(t *testing.T, db *sql.DB, seekID string, status domain.PipelineStatus) domain.Job {
	t.Helper()
	j, err := store.InsertJob(context.Background(), db, domain.Job{
		SeekJobID: seekID,
		Title:     "Backend Engineer",
		Company:   "Initech",
		Location:  "Sydney NSW",
		JobURL:    "https://example.com/" + seekID,
	})
	require.NoError(t, err)
	if status != domain.StatusInbox {
		require.NoError(t, store.UpdateJobStatus(context.Background(), db, j.ID, status))
		j.PipelineStatus = status
	}
	return j
}

func seedProfile(t *testing.T, db *sql.DB) domain.ResumeProfile {
	t.Helper()
	p, err := store.SaveResumeProfile(context.Background(), db, domain.ResumeProfile{
		RawText:         "resume text",
		SkillsTechnical: []string{"Go"},
	})
	require.NoError(t, err)
	return p
}

func newService(db *sql.DB, scorer Scorer) *Service {
	return &Service{DB: db, Scorer: scorer, Log: quietLog(), DemoteBelow: 50}
}

func TestScoreJobPersistsMatch(t *testing.T) {
	db := openTestDB(t)
	profile := seedProfile(t, db)
	j := seedJob(t, db, "1001", domain.StatusInbox)

	svc := newService(db, &fakeScorer{})
	out, err := svc.ScoreJob(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, out.Match.MatchScore)
	assert.Equal(t, profile.ID, out.Match.ResumeProfileID)
	assert.False(t, out.AutoMoved)

	got, err := store.GetMatchForJob(context.Background(), db, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, got.MatchScore)

	// job stays in inbox at threshold and above
	job, err := store.GetJob(context.Background(), db, j.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInbox, job.PipelineStatus)
}

func TestScoreJobAutoDemotesLowScoringInbox(t *testing.T) {
	db := openTestDB(t)
	seedProfile(t, db)
	j := seedJob(t, db, "1001", domain.StatusInbox)

	svc := newService(db, &fakeScorer{results: map[string]*remote.ScoreResult{
		j.ID: {MatchScore: 49, Recommendation: "skip"},
	}})
	out, err := svc.ScoreJob(context.Background(), j.ID)
	require.NoError(t, err)
	assert.True(t, out.AutoMoved)

	job, err := store.GetJob(context.Background(), db, j.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotFit, job.PipelineStatus)
}

func TestScoreJobThresholdIsExclusive(t *testing.T) {
	db := openTestDB(t)
	seedProfile(t, db)
	j := seedJob(t, db, "1001", domain.StatusInbox)

	svc := newService(db, &fakeScorer{results: map[string]*remote.ScoreResult{
		j.ID: {MatchScore: 50, Recommendation: "maybe"},
	}})
	out, err := svc.ScoreJob(context.Background(), j.ID)
	require.NoError(t, err)
	assert.False(t, out.AutoMoved)

	job, err := store.GetJob(context.Background(), db, j.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInbox, job.PipelineStatus)
}

func TestScoreJobNeverDemotesOutsideInbox(t *testing.T) {
	db := openTestDB(t)
	seedProfile(t, db)
	j := seedJob(t, db, "1001", domain.StatusApplied)

	svc := newService(db, &fakeScorer{results: map[string]*remote.ScoreResult{
		j.ID: {MatchScore: 10, Recommendation: "skip"},
	}})
	out, err := svc.ScoreJob(context.Background(), j.ID)
	require.NoError(t, err)
	assert.False(t, out.AutoMoved)

	job, err := store.GetJob(context.Background(), db, j.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, job.PipelineStatus)
}

func TestScoreJobRemoteFailurePersistsNothing(t *testing.T) {
	db := openTestDB(t)
	seedProfile(t, db)
	j := seedJob(t, db, "1001", domain.StatusInbox)

	svc := newService(db, &fakeScorer{err: errors.New("upstream 500")})
	_, err := svc.ScoreJob(context.Background(), j.ID)
	require.Error(t, err)

	_, err = store.GetMatchForJob(context.Background(), db, j.ID)
	assert.Equal(t, sql.ErrNoRows, err)

	job, err := store.GetJob(context.Background(), db, j.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInbox, job.PipelineStatus)
}

func TestScoreJobRequiresProfile(t *testing.T) {
	db := openTestDB(t)
	j := seedJob(t, db, "1001", domain.StatusInbox)

	svc := newService(db, &fakeScorer{})
	_, err := svc.ScoreJob(context.Background(), j.ID)
	assert.ErrorIs(t, err, ErrNoResumeProfile)
}

func TestRescoreReplacesMatchInPlace(t *testing.T) {
	db := openTestDB(t)
	seedProfile(t, db)
	j := seedJob(t, db, "1001", domain.StatusInbox)

	scorer := &fakeScorer{results: map[string]*remote.ScoreResult{
		j.ID: {MatchScore: 65, Recommendation: "maybe"},
	}}
	svc := newService(db, scorer)

	first, err := svc.ScoreJob(context.Background(), j.ID)
	require.NoError(t, err)

	scorer.results[j.ID] = &remote.ScoreResult{MatchScore: 88, Recommendation: "apply"}
	second, err := svc.ScoreJob(context.Background(), j.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Match.ID, second.Match.ID)
	assert.Equal(t, 88, second.Match.MatchScore)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM job_matches;`).Scan(&n))
	assert.Equal(t, 1, n)
}
