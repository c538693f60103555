package store

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
)

const jobColumns = `id, seek_job_id, title, company, location,
  salary_range, work_type, work_arrangement,
  description_snippet, full_description, job_url,
  date_posted, date_scraped, pipeline_status, notes, updated_at`

const matchColumns = `id, job_id, resume_profile_id, match_score,
  skill_match_percentage, recommendation, reasoning,
  pros, cons, gaps, strategic_advice,
  agent, agent_version, veto_reasons, scores, scored_at`

func prefixCols(cols, alias string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func prefixedJobColumns(alias string) string   { return prefixCols(jobColumns, alias) }
func prefixedMatchColumns(alias string) string { return prefixCols(matchColumns, alias) }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (domain.Job, error) {
	var j domain.Job
	var salary, workType, workArr, fullDesc, datePosted, notes sql.NullString
	var scraped, updated, status string

	err := row.Scan(
		&j.ID, &j.SeekJobID, &j.Title, &j.Company, &j.Location,
		&salary, &workType, &workArr,
		&j.DescriptionSnippet, &fullDesc, &j.JobURL,
		&datePosted, &scraped, &status, &notes, &updated,
	)
	if err != nil {
		return domain.Job{}, err
	}

	j.SalaryRange = nullableString(salary)
	j.WorkType = nullableString(workType)
	j.WorkArrangement = nullableString(workArr)
	j.FullDescription = nullableString(fullDesc)
	j.DatePosted = nullableString(datePosted)
	j.Notes = nullableString(notes)
	j.PipelineStatus = domain.PipelineStatus(status)
	j.DateScraped, _ = time.Parse(time.RFC3339, scraped)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return j, nil
}

func scanJobWithMatch(row rowScanner) (domain.JobWithMatch, error) {
	var j domain.Job
	var salary, workType, workArr, fullDesc, datePosted, notes sql.NullString
	var scraped, updated, status string

	var mID, mJobID, mProfileID, mRec, mReasoning sql.NullString
	var mScore, mSkillPct sql.NullInt64
	var mPros, mCons, mGaps, mAdvice, mAgent, mVersion, mVeto, mScores, mScoredAt sql.NullString

	err := row.Scan(
		&j.ID, &j.SeekJobID, &j.Title, &j.Company, &j.Location,
		&salary, &workType, &workArr,
		&j.DescriptionSnippet, &fullDesc, &j.JobURL,
		&datePosted, &scraped, &status, &notes, &updated,
		&mID, &mJobID, &mProfileID, &mScore,
		&mSkillPct, &mRec, &mReasoning,
		&mPros, &mCons, &mGaps, &mAdvice,
		&mAgent, &mVersion, &mVeto, &mScores, &mScoredAt,
	)
	if err != nil {
		return domain.JobWithMatch{}, err
	}

	j.SalaryRange = nullableString(salary)
	j.WorkType = nullableString(workType)
	j.WorkArrangement = nullableString(workArr)
	j.FullDescription = nullableString(fullDesc)
	j.DatePosted = nullableString(datePosted)
	j.Notes = nullableString(notes)
	j.PipelineStatus = domain.PipelineStatus(status)
	j.DateScraped, _ = time.Parse(time.RFC3339, scraped)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updated)

	jm := domain.JobWithMatch{Job: j}
	if mID.Valid {
		m := domain.JobMatch{
			ID:              mID.String,
			JobID:           mJobID.String,
			ResumeProfileID: mProfileID.String,
			MatchScore:      int(mScore.Int64),
			Recommendation:  mRec.String,
			Reasoning:       nullableString(mReasoning),
			Pros:            decodeStringList(mPros.String),
			Cons:            decodeStringList(mCons.String),
			Gaps:            decodeStringList(mGaps.String),
			StrategicAdvice: nullableString(mAdvice),
			Agent:           mAgent.String,
			AgentVersion:    mVersion.String,
		}
		if mSkillPct.Valid {
			v := int(mSkillPct.Int64)
			m.SkillMatchPercentage = &v
		}
		if mVeto.Valid && mVeto.String != "" {
			m.VetoReasons = decodeStringList(mVeto.String)
		}
		if mScores.Valid && mScores.String != "" {
			var rs domain.RubricScores
			if json.Unmarshal([]byte(mScores.String), &rs) == nil {
				m.Scores = &rs
			}
		}
		m.ScoredAt, _ = time.Parse(time.RFC3339, mScoredAt.String)
		jm.Match = &m
	}
	return jm, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func encodeStringList(xs []string) string {
	if xs == nil {
		xs = []string{}
	}
	b, _ := json.Marshal(xs)
	return string(b)
}

func decodeStringList(raw string) []string {
	var xs []string
	_ = json.Unmarshal([]byte(raw), &xs)
	if xs == nil {
		xs = []string{}
	}
	return xs
}
