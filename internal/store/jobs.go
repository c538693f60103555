package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtrack-engine/internal/domain"
)

type ListJobsOpts struct {
	Statuses []domain.PipelineStatus // empty = all
}

// InsertJob stores a brand-new job. The caller is responsible for having
// checked seek_job_id first; a duplicate insert fails on the unique index.
func InsertJob(ctx context.Context, db *sql.DB, j domain.Job) (domain.Job, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.PipelineStatus == "" {
		j.PipelineStatus = domain.StatusInbox
	}
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO jobs (
  id, seek_job_id, title, company, location,
  salary_range, work_type, work_arrangement,
  description_snippet, full_description, job_url,
  date_posted, date_scraped, pipeline_status, notes, updated_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		j.ID, j.SeekJobID, j.Title, j.Company, j.Location,
		j.SalaryRange, j.WorkType, j.WorkArrangement,
		j.DescriptionSnippet, j.FullDescription, j.JobURL,
		j.DatePosted, j.DateScraped.UTC().Format(time.RFC3339), string(j.PipelineStatus), j.Notes,
		j.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return domain.Job{}, fmt.Errorf("insert job: %w", err)
	}
	return j, nil
}

// GetJobBySourceID looks a job up by its external (seek) id. Returns
// sql.ErrNoRows when absent.
func GetJobBySourceID(ctx context.Context, db *sql.DB, seekJobID string) (domain.Job, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE seek_job_id = ?
LIMIT 1;`, seekJobID)
	return scanJob(row)
}

func GetJob(ctx context.Context, db *sql.DB, id string) (domain.Job, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE id = ?
LIMIT 1;`, id)
	return scanJob(row)
}

// TouchScrape advances only the scrape timestamp of a re-seen posting.
func TouchScrape(ctx context.Context, db *sql.DB, seekJobID string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
UPDATE jobs SET date_scraped = ?
WHERE seek_job_id = ?;`,
		at.UTC().Format(time.RFC3339), seekJobID)
	if err != nil {
		return fmt.Errorf("touch scrape: %w", err)
	}
	return nil
}

// ListJobs returns jobs left-joined with their match, newest scrape first
// (status-filtered lists sort by updated_at, matching the UI's pipelines).
func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]domain.JobWithMatch, error) {
	where := ""
	order := "ORDER BY j.date_scraped DESC"
	var args []any
	if len(opts.Statuses) > 0 {
		ph := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			ph[i] = "?"
			args = append(args, string(s))
		}
		where = "WHERE j.pipeline_status IN (" + strings.Join(ph, ",") + ")"
		order = "ORDER BY j.updated_at DESC"
	}

	query := fmt.Sprintf(`
SELECT %s, %s
FROM jobs j
LEFT JOIN job_matches m ON m.job_id = j.id
%s
%s;`, prefixedJobColumns("j"), prefixedMatchColumns("m"), where, order)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobWithMatch
	for rows.Next() {
		jm, err := scanJobWithMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, jm)
	}
	return out, rows.Err()
}

func UpdateJobStatus(ctx context.Context, db *sql.DB, id string, status domain.PipelineStatus) error {
	res, err := db.ExecContext(ctx, `
UPDATE jobs SET pipeline_status = ?, updated_at = ?
WHERE id = ?;`,
		string(status), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func BulkUpdateJobStatus(ctx context.Context, db *sql.DB, ids []string, status domain.PipelineStatus) error {
	if len(ids) == 0 {
		return nil
	}
	ph := make([]string, len(ids))
	args := []any{string(status), time.Now().UTC().Format(time.RFC3339)}
	for i, id := range ids {
		ph[i] = "?"
		args = append(args, id)
	}
	_, err := db.ExecContext(ctx, `
UPDATE jobs SET pipeline_status = ?, updated_at = ?
WHERE id IN (`+strings.Join(ph, ",")+`);`, args...)
	if err != nil {
		return fmt.Errorf("bulk update status: %w", err)
	}
	return nil
}

func UpdateJobNotes(ctx context.Context, db *sql.DB, id string, notes string) error {
	res, err := db.ExecContext(ctx, `
UPDATE jobs SET notes = ?, updated_at = ?
WHERE id = ?;`,
		notes, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteJob removes a job unconditionally; matches and artifacts go with it
// via ON DELETE CASCADE.
func DeleteJob(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id)
	return err
}

func DeleteJobs(ctx context.Context, db *sql.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = "?"
		args[i] = id
	}
	_, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id IN (`+strings.Join(ph, ",")+`);`, args...)
	return err
}

// ListStatuses returns just the pipeline_status column, one row per job.
func ListStatuses(ctx context.Context, db *sql.DB) ([]domain.PipelineStatus, error) {
	rows, err := db.QueryContext(ctx, `SELECT pipeline_status FROM jobs;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PipelineStatus
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, domain.PipelineStatus(s))
	}
	return out, rows.Err()
}
