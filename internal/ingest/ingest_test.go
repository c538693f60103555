package ingest

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/store"
)

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

func posting(seekID, title string) domain.ScrapedJob {
	return domain.ScrapedJob{
		SeekJobID:          seekID,
		Title:              title,
		Company:            "Initech",
		Location:           "Sydney NSW",
		DescriptionSnippet: "snippet",
		JobURL:             "https://example.com/job/" + seekID,
		DatePosted:         "2d ago",
	}
}

func TestRunInsertsNewJobsAtInbox(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	var created []domain.Job
	r := &Runner{
		DB: db, Log: quietLog(),
		Now:      func() time.Time { return now },
		OnNewJob: func(j domain.Job) { created = append(created, j) },
	}

	res := r.Run(context.Background(), []domain.ScrapedJob{
		posting("1001", "Backend Engineer"),
		posting("1002", "Platform Engineer"),
	})
	assert.Equal(t, Result{New: 2, Existing: 0}, res)
	require.Len(t, created, 2)

	got, err := store.GetJobBySourceID(context.Background(), db, "1001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInbox, got.PipelineStatus)
	assert.Equal(t, now, got.DateScraped)
	require.NotNil(t, got.DatePosted)
	assert.Equal(t, "2024-03-18", *got.DatePosted)
}

func TestRunDedupesBySourceID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	r := &Runner{DB: db, Log: quietLog(), Now: func() time.Time { return first }}
	res := r.Run(ctx, []domain.ScrapedJob{posting("1001", "Backend Engineer")})
	assert.Equal(t, Result{New: 1}, res)

	job, err := store.GetJobBySourceID(ctx, db, "1001")
	require.NoError(t, err)
	require.NoError(t, store.UpdateJobStatus(ctx, db, job.ID, domain.StatusApplied))
	require.NoError(t, store.UpdateJobNotes(ctx, db, job.ID, "called recruiter"))

	// Re-scrape the same posting later, with changed scraped fields.
	second := first.Add(48 * time.Hour)
	r.Now = func() time.Time { return second }
	changed := posting("1001", "Backend Engineer (updated title)")
	res = r.Run(ctx, []domain.ScrapedJob{changed})
	assert.Equal(t, Result{Existing: 1}, res)

	got, err := store.GetJobBySourceID(ctx, db, "1001")
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	// user state and original fields survive; only the scrape time advances
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, domain.StatusApplied, got.PipelineStatus)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "called recruiter", *got.Notes)
	assert.Equal(t, second, got.DateScraped)
}

func TestRunDuplicateWithinOneBatch(t *testing.T) {
	db := openTestDB(t)
	r := &Runner{DB: db, Log: quietLog()}

	res := r.Run(context.Background(), []domain.ScrapedJob{
		posting("1001", "Backend Engineer"),
		posting("1001", "Backend Engineer"),
	})
	assert.Equal(t, Result{New: 1, Existing: 1}, res)
}

func TestRunSkipsPlaceholders(t *testing.T) {
	db := openTestDB(t)
	r := &Runner{DB: db, Log: quietLog()}

	stubTitle := posting("1001", "SEEK Job #81234567")
	stubCompany := posting("1002", "Backend Engineer")
	stubCompany.Company = "View on SEEK"
	real := posting("1003", "Platform Engineer")

	res := r.Run(context.Background(), []domain.ScrapedJob{stubTitle, stubCompany, real})
	assert.Equal(t, Result{New: 1}, res)

	_, err := store.GetJobBySourceID(context.Background(), db, "1001")
	assert.Equal(t, sql.ErrNoRows, err)
	_, err = store.GetJobBySourceID(context.Background(), db, "1002")
	assert.Equal(t, sql.ErrNoRows, err)
	_, err = store.GetJobBySourceID(context.Background(), db, "1003")
	assert.NoError(t, err)
}

func TestRunKeepsPlaceholderLookalikes(t *testing.T) {
	db := openTestDB(t)
	r := &Runner{DB: db, Log: quietLog()}

	// contains but does not equal the placeholder shape
	p := posting("1001", "SEEK Job #123 specialist team lead")
	res := r.Run(context.Background(), []domain.ScrapedJob{p})
	assert.Equal(t, Result{New: 1}, res)
}

func TestRunUnparseableDateLeftNull(t *testing.T) {
	db := openTestDB(t)
	r := &Runner{DB: db, Log: quietLog()}

	p := posting("1001", "Backend Engineer")
	p.DatePosted = "a while back"
	res := r.Run(context.Background(), []domain.ScrapedJob{p})
	assert.Equal(t, Result{New: 1}, res)

	got, err := store.GetJobBySourceID(context.Background(), db, "1001")
	require.NoError(t, err)
	assert.Nil(t, got.DatePosted)
}
