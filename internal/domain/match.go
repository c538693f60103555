package domain

import "time"

// RubricScores are the structured sub-scores some scorer versions return.
type RubricScores struct {
	HardSkills          int `json:"hard_skills"`
	ExperienceSeniority int `json:"experience_seniority"`
	Impact              int `json:"impact"`
	Credentials         int `json:"credentials"`
	SoftSkills          int `json:"soft_skills"`
}

// JobMatch is the scoring result for a (job, resume profile) pair. At most
// one row exists per pair; re-scoring replaces the prior result.
type JobMatch struct {
	ID                   string        `json:"id"`
	JobID                string        `json:"job_id"`
	ResumeProfileID      string        `json:"resume_profile_id"`
	MatchScore           int           `json:"match_score"`
	SkillMatchPercentage *int          `json:"skill_match_percentage"`
	Recommendation       string        `json:"recommendation"`
	Reasoning            *string       `json:"reasoning"`
	Pros                 []string      `json:"pros"`
	Cons                 []string      `json:"cons"`
	Gaps                 []string      `json:"gaps"`
	StrategicAdvice      *string       `json:"strategic_advice"`
	ScoredAt             time.Time     `json:"scored_at"`
	Agent                string        `json:"agent,omitempty"`
	AgentVersion         string        `json:"agent_version,omitempty"`
	VetoReasons          []string      `json:"veto_reasons,omitempty"`
	Scores               *RubricScores `json:"scores,omitempty"`
}
