package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobtrack-engine/internal/domain"
)

// UpsertMatch persists a scoring result keyed on (job_id, resume_profile_id).
// Scoring the same pair again replaces the prior row in place.
func UpsertMatch(ctx context.Context, db *sql.DB, m domain.JobMatch) (domain.JobMatch, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.ScoredAt.IsZero() {
		m.ScoredAt = time.Now().UTC()
	}

	var scoresJSON any
	if m.Scores != nil {
		b, _ := json.Marshal(m.Scores)
		scoresJSON = string(b)
	}
	var vetoJSON any
	if m.VetoReasons != nil {
		vetoJSON = encodeStringList(m.VetoReasons)
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO job_matches (
  id, job_id, resume_profile_id, match_score,
  skill_match_percentage, recommendation, reasoning,
  pros, cons, gaps, strategic_advice,
  agent, agent_version, veto_reasons, scores, scored_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(job_id, resume_profile_id) DO UPDATE SET
  match_score = excluded.match_score,
  skill_match_percentage = excluded.skill_match_percentage,
  recommendation = excluded.recommendation,
  reasoning = excluded.reasoning,
  pros = excluded.pros,
  cons = excluded.cons,
  gaps = excluded.gaps,
  strategic_advice = excluded.strategic_advice,
  agent = excluded.agent,
  agent_version = excluded.agent_version,
  veto_reasons = excluded.veto_reasons,
  scores = excluded.scores,
  scored_at = excluded.scored_at;`,
		m.ID, m.JobID, m.ResumeProfileID, m.MatchScore,
		m.SkillMatchPercentage, m.Recommendation, m.Reasoning,
		encodeStringList(m.Pros), encodeStringList(m.Cons), encodeStringList(m.Gaps), m.StrategicAdvice,
		m.Agent, m.AgentVersion, vetoJSON, scoresJSON,
		m.ScoredAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return domain.JobMatch{}, fmt.Errorf("upsert match: %w", err)
	}

	// The conflict path keeps the original row id; read it back so callers
	// hold the stored record.
	return GetMatchForJob(ctx, db, m.JobID)
}

// GetMatchForJob returns the match for a job, or sql.ErrNoRows.
func GetMatchForJob(ctx context.Context, db *sql.DB, jobID string) (domain.JobMatch, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+matchColumns+`
FROM job_matches
WHERE job_id = ?
LIMIT 1;`, jobID)
	return scanMatch(row)
}

func scanMatch(row rowScanner) (domain.JobMatch, error) {
	var m domain.JobMatch
	var skillPct sql.NullInt64
	var reasoning, advice, veto, scores sql.NullString
	var pros, cons, gaps, scoredAt string

	err := row.Scan(
		&m.ID, &m.JobID, &m.ResumeProfileID, &m.MatchScore,
		&skillPct, &m.Recommendation, &reasoning,
		&pros, &cons, &gaps, &advice,
		&m.Agent, &m.AgentVersion, &veto, &scores, &scoredAt,
	)
	if err != nil {
		return domain.JobMatch{}, err
	}

	if skillPct.Valid {
		v := int(skillPct.Int64)
		m.SkillMatchPercentage = &v
	}
	m.Reasoning = nullableString(reasoning)
	m.StrategicAdvice = nullableString(advice)
	m.Pros = decodeStringList(pros)
	m.Cons = decodeStringList(cons)
	m.Gaps = decodeStringList(gaps)
	if veto.Valid && veto.String != "" {
		m.VetoReasons = decodeStringList(veto.String)
	}
	if scores.Valid && scores.String != "" {
		var rs domain.RubricScores
		if json.Unmarshal([]byte(scores.String), &rs) == nil {
			m.Scores = &rs
		}
	}
	m.ScoredAt, _ = time.Parse(time.RFC3339, scoredAt)
	return m, nil
}
