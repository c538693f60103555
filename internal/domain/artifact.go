package domain

import (
	"encoding/json"
	"time"
)

type ArtifactType string

const (
	ArtifactScore          ArtifactType = "score"
	ArtifactTailoredResume ArtifactType = "tailored_resume"
	ArtifactCoverLetter    ArtifactType = "cover_letter"
)

func ValidArtifactType(t ArtifactType) bool {
	switch t {
	case ArtifactScore, ArtifactTailoredResume, ArtifactCoverLetter:
		return true
	}
	return false
}

// JobArtifact is a generated document attached to a job. History is
// append-only; "has artifact of type X" queries take the newest row.
type JobArtifact struct {
	ID           string          `json:"id"`
	JobID        string          `json:"job_id"`
	ArtifactType ArtifactType    `json:"artifact_type"`
	Content      json.RawMessage `json:"content"`
	Agent        string          `json:"agent"`
	Version      string          `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AgentMeta identifies which remote agent produced a generated document.
type AgentMeta struct {
	Agent          string `json:"agent"`
	Version        string `json:"version"`
	AlignmentCheck string `json:"alignment_check,omitempty"`
}

type TargetRole struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

type BulletRewrite struct {
	Section string `json:"section"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Why     string `json:"why"`
}

type GapMitigation struct {
	Gap        string `json:"gap"`
	Workaround string `json:"workaround"`
}

// TailoredResume is the structured output of the resume-tailor agent. The
// pipeline treats it as opaque apart from agent_meta and the highlight list
// carried into cover-letter generation.
type TailoredResume struct {
	AgentMeta         AgentMeta       `json:"agent_meta"`
	TargetRole        TargetRole      `json:"target_role"`
	KeywordsToInject  []string        `json:"keywords_to_inject"`
	SkillsToEmphasize []string        `json:"skills_to_emphasize"`
	SummaryRewrite    string          `json:"summary_rewrite"`
	BulletRewrites    []BulletRewrite `json:"bullet_rewrites"`
	GapMitigation     []GapMitigation `json:"gap_mitigation"`
	FinalNotes        string          `json:"final_notes"`
}

// CoverLetter is the structured output of the cover-letter-writer agent.
type CoverLetter struct {
	AgentMeta             AgentMeta  `json:"agent_meta"`
	TargetRole            TargetRole `json:"target_role"`
	CoverLetter           string     `json:"cover_letter"`
	KeyPointsUsed         []string   `json:"key_points_used"`
	SuggestedSubjectLines []string   `json:"suggested_subject_lines"`
	FinalChecklist        []string   `json:"final_checklist"`
}
