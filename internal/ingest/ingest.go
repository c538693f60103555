package ingest

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/store"
)

// Upstream occasionally fails to extract a listing and emits a stub row.
// The match is deliberately literal; see the scraper's output format.
var placeholderTitleRe = regexp.MustCompile(`(?i)^SEEK Job #\d+$`)

const placeholderCompany = "View on SEEK"

// Result reports how a batch landed. Per-posting failures are logged, not
// counted.
type Result struct {
	New      int `json:"new"`
	Existing int `json:"existing"`
}

// Runner merges freshly scraped postings into the stored job set.
type Runner struct {
	DB  *sql.DB
	Log *logrus.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	// OnNewJob fires after each successful insert.
	OnNewJob func(job domain.Job)
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

// Run processes postings strictly in order, each completing its
// lookup-then-write before the next begins, so a duplicate appearing twice
// in one batch observes the earlier insert. One posting's failure never
// aborts the batch.
func (r *Runner) Run(ctx context.Context, postings []domain.ScrapedJob) Result {
	var res Result

	for _, p := range postings {
		if placeholderTitleRe.MatchString(p.Title) || p.Company == placeholderCompany {
			r.Log.Warnf("ingest: skipping placeholder job %s", p.SeekJobID)
			continue
		}

		_, err := store.GetJobBySourceID(ctx, r.DB, p.SeekJobID)
		switch {
		case err == nil:
			// Re-seen posting: advance the scrape timestamp only.
			if terr := store.TouchScrape(ctx, r.DB, p.SeekJobID, r.now()); terr != nil {
				r.Log.Errorf("ingest: touch %s: %v", p.SeekJobID, terr)
				continue
			}
			res.Existing++

		case err == sql.ErrNoRows:
			job, ierr := store.InsertJob(ctx, r.DB, r.jobFromPosting(p))
			if ierr != nil {
				r.Log.Errorf("ingest: insert %s: %v", p.SeekJobID, ierr)
				continue
			}
			res.New++
			if r.OnNewJob != nil {
				r.OnNewJob(job)
			}

		default:
			r.Log.Errorf("ingest: lookup %s: %v", p.SeekJobID, err)
		}
	}

	r.Log.Infof("ingest: batch done new=%d existing=%d of=%d", res.New, res.Existing, len(postings))
	return res
}

func (r *Runner) jobFromPosting(p domain.ScrapedJob) domain.Job {
	now := r.now()
	j := domain.Job{
		SeekJobID:          p.SeekJobID,
		Title:              p.Title,
		Company:            p.Company,
		Location:           p.Location,
		DescriptionSnippet: p.DescriptionSnippet,
		JobURL:             p.JobURL,
		DateScraped:        now,
		PipelineStatus:     domain.StatusInbox,
		UpdatedAt:          now,
	}
	j.SalaryRange = optional(p.SalaryRange)
	j.WorkType = optional(p.WorkType)
	j.WorkArrangement = optional(p.WorkArrangement)
	j.FullDescription = optional(p.FullDescription)

	if date, ok := domain.NormalizePostedDate(p.DatePosted, now); ok {
		j.DatePosted = &date
	} else if p.DatePosted != "" {
		r.Log.Warnf("ingest: could not parse date %q for %s", p.DatePosted, p.SeekJobID)
	}
	return j
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
