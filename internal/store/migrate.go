package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  seek_job_id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL,
  salary_range TEXT,
  work_type TEXT,
  work_arrangement TEXT,
  description_snippet TEXT NOT NULL DEFAULT '',
  full_description TEXT,
  job_url TEXT NOT NULL,
  date_posted TEXT,
  date_scraped TEXT NOT NULL,
  pipeline_status TEXT NOT NULL DEFAULT 'inbox',
  notes TEXT,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS job_matches (
  id TEXT PRIMARY KEY,
  job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
  resume_profile_id TEXT NOT NULL,
  match_score INTEGER NOT NULL,
  skill_match_percentage INTEGER,
  recommendation TEXT NOT NULL DEFAULT '',
  reasoning TEXT,
  pros TEXT NOT NULL DEFAULT '[]',
  cons TEXT NOT NULL DEFAULT '[]',
  gaps TEXT NOT NULL DEFAULT '[]',
  strategic_advice TEXT,
  agent TEXT NOT NULL DEFAULT '',
  agent_version TEXT NOT NULL DEFAULT '',
  veto_reasons TEXT,
  scores TEXT,
  scored_at TEXT NOT NULL,
  UNIQUE(job_id, resume_profile_id)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS resume_profile (
  id TEXT PRIMARY KEY,
  raw_text TEXT NOT NULL DEFAULT '',
  skills_technical TEXT NOT NULL DEFAULT '[]',
  skills_soft TEXT NOT NULL DEFAULT '[]',
  years_experience INTEGER,
  education TEXT NOT NULL DEFAULT '[]',
  certifications TEXT NOT NULL DEFAULT '[]',
  previous_titles TEXT NOT NULL DEFAULT '[]',
  industries TEXT NOT NULL DEFAULT '[]',
  summary TEXT,
  file_url TEXT,
  file_name TEXT,
  file_type TEXT,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS job_artifacts (
  id TEXT PRIMARY KEY,
  job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
  artifact_type TEXT NOT NULL,
  content TEXT NOT NULL,
  agent TEXT NOT NULL DEFAULT '',
  version TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_status
ON jobs(pipeline_status);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_date_scraped
ON jobs(date_scraped);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_artifacts_job_type
ON job_artifacts(job_id, artifact_type, created_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
