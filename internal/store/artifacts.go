package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobtrack-engine/internal/domain"
)

// InsertArtifact appends a generated document. Prior artifacts of the same
// type are never overwritten.
func InsertArtifact(ctx context.Context, db *sql.DB, a domain.JobArtifact) (domain.JobArtifact, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO job_artifacts (id, job_id, artifact_type, content, agent, version, created_at)
VALUES (?,?,?,?,?,?,?);`,
		a.ID, a.JobID, string(a.ArtifactType), string(a.Content), a.Agent, a.Version,
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return domain.JobArtifact{}, fmt.Errorf("insert artifact: %w", err)
	}
	return a, nil
}

// ListArtifacts returns all artifacts for a job, newest first.
func ListArtifacts(ctx context.Context, db *sql.DB, jobID string) ([]domain.JobArtifact, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, job_id, artifact_type, content, agent, version, created_at
FROM job_artifacts
WHERE job_id = ?
ORDER BY created_at DESC, rowid DESC;`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobArtifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LatestArtifact returns the most recently created artifact of the given
// type for a job, or sql.ErrNoRows.
func LatestArtifact(ctx context.Context, db *sql.DB, jobID string, typ domain.ArtifactType) (domain.JobArtifact, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, job_id, artifact_type, content, agent, version, created_at
FROM job_artifacts
WHERE job_id = ? AND artifact_type = ?
ORDER BY created_at DESC, rowid DESC
LIMIT 1;`, jobID, string(typ))
	return scanArtifact(row)
}

func HasArtifact(ctx context.Context, db *sql.DB, jobID string, typ domain.ArtifactType) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `
SELECT 1 FROM job_artifacts
WHERE job_id = ? AND artifact_type = ?
LIMIT 1;`, jobID, string(typ)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanArtifact(row rowScanner) (domain.JobArtifact, error) {
	var a domain.JobArtifact
	var typ, content, created string
	if err := row.Scan(&a.ID, &a.JobID, &typ, &content, &a.Agent, &a.Version, &created); err != nil {
		return domain.JobArtifact{}, err
	}
	a.ArtifactType = domain.ArtifactType(typ)
	a.Content = []byte(content)
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return a, nil
}
