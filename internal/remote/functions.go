package remote

import (
	"context"

	"jobtrack-engine/internal/domain"
)

const (
	fnScrape      = "scrape-seek"
	fnParseResume = "parse-resume"
	fnScoreJob    = "score-job"
	fnTailor      = "tailor-resume"
	fnCoverLetter = "generate-cover-letter"
)

// ScrapeFilters are forwarded verbatim to the scraper function.
type ScrapeFilters struct {
	WorkType        string `json:"workType,omitempty"`
	WorkArrangement string `json:"workArrangement,omitempty"`
	SalaryMin       string `json:"salaryMin,omitempty"`
	SalaryMax       string `json:"salaryMax,omitempty"`
	SalaryType      string `json:"salaryType,omitempty"`
	DatePosted      string `json:"datePosted,omitempty"`
}

type ScrapeRequest struct {
	Keywords string        `json:"keywords"`
	Location string        `json:"location,omitempty"`
	Limit    int           `json:"limit"`
	Filters  ScrapeFilters `json:"filters"`
}

/// ScrapeDiagnostics explain an empty result: upstream blocking, a search
// that matched nothing, or a free-form message.
type ScrapeDiagnostics struct {
	PossibleBlocking bool   `json:"possible_blocking"`
	JobIDsFound      int    `json:"job_ids_found"`
	Message          string `json:"message,omitempty"`
}

type ScrapeResponse struct {
	Jobs        []domain.ScrapedJob `json:"jobs"`
	Diagnostics *ScrapeDiagnostics  `json:"diagnostics,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Scrape runs a search against the external job board. An empty job list is
// not an error here; callers interpret Diagnostics and Error to decide what
// to tell the user.
func (c *Client) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error) {
	var resp ScrapeResponse
	if err := c.invoke(ctx, fnScrape, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type ParseResumeRequest struct {
	FileContent string `json:"file_content"` // base64
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
}

// ParsedResume is the structured extraction the parse function returns.
type ParsedResume struct {
	RawText         string   `json:"raw_text"`
	SkillsTechnical []string `json:"skills_technical"`
	SkillsSoft      []string `json:"skills_soft"`
	YearsExperience *int     `json:"years_experience"`
	Education       []string `json:"education"`
	Certifications  []string `json:"certifications"`
	PreviousTitles  []string `json:"previous_titles"`
	Industries      []string `json:"industries"`
	Summary         *string  `json:"summary"`
	Error           string   `json:"error,omitempty"`
}

func (c *Client) ParseResume(ctx context.Context, req ParseResumeRequest) (*ParsedResume, error) {
	var resp ParsedResume
	if err := c.invoke(ctx, fnParseResume, req, &resp); err != nil {
		return nil, err
	}
	if err := embeddedError(fnParseResume, resp.Error); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScoreResult is the scorer's verdict for one (job, profile) pair.
type ScoreResult struct {
	MatchScore           int                  `json:"match_score"`
	SkillMatchPercentage *int                 `json:"skill_match_percentage"`
	Recommendation       string               `json:"recommendation"`
	Reasoning            *string              `json:"reasoning"`
	Pros                 []string             `json:"pros"`
	Cons                 []string             `json:"cons"`
	Gaps                 []string             `json:"gaps"`
	StrategicAdvice      *string              `json:"strategic_advice"`
	Agent                string               `json:"agent,omitempty"`
	AgentVersion         string               `json:"agent_version,omitempty"`
	VetoReasons          []string             `json:"veto_reasons,omitempty"`
	Scores               *domain.RubricScores `json:"scores,omitempty"`
}

type scoreEnvelope struct {
	ScoreResult
	Error string `json:"error,omitempty"`
}

func (c *Client) ScoreJob(ctx context.Context, job domain.Job, profile domain.ResumeProfile) (*ScoreResult, error) {
	body := map[string]any{"job": job, "profile": profile}
	var resp scoreEnvelope
	if err := c.invoke(ctx, fnScoreJob, body, &resp); err != nil {
		return nil, err
	}
	if err := embeddedError(fnScoreJob, resp.Error); err != nil {
		return nil, err
	}
	return &resp.ScoreResult, nil
}

// jobSummary is the slice of a job the generator functions need.
type jobSummary struct {
	Title              string  `json:"title"`
	Company            string  `json:"company"`
	Location           string  `json:"location"`
	DescriptionSnippet string  `json:"description_snippet"`
	FullDescription    *string `json:"full_description"`
}

func summarize(j domain.Job) jobSummary {
	return jobSummary{
		Title:              j.Title,
		Company:            j.Company,
		Location:           j.Location,
		DescriptionSnippet: j.DescriptionSnippet,
		FullDescription:    j.FullDescription,
	}
}

type tailorEnvelope struct {
	domain.TailoredResume
	Error string `json:"error,omitempty"`
}

func (c *Client) TailorResume(ctx context.Context, job domain.Job, profile domain.ResumeProfile, matchScore int) (*domain.TailoredResume, error) {
	body := map[string]any{
		"job":         summarize(job),
		"profile":     profile,
		"match_score": matchScore,
	}
	var resp tailorEnvelope
	if err := c.invoke(ctx, fnTailor, body, &resp); err != nil {
		return nil, err
	}
	if err := embeddedError(fnTailor, resp.Error); err != nil {
		return nil, err
	}
	return &resp.TailoredResume, nil
}

type coverLetterEnvelope struct {
	domain.CoverLetter
	Error string `json:"error,omitempty"`
}

func (c *Client) GenerateCoverLetter(ctx context.Context, job domain.Job, profile domain.ResumeProfile, matchScore int, highlights []string) (*domain.CoverLetter, error) {
	body := map[string]any{
		"job":         summarize(job),
		"profile":     profile,
		"match_score": matchScore,
	}
	if len(highlights) > 0 {
		body["tailored_highlights"] = highlights
	}
	var resp coverLetterEnvelope
	if err := c.invoke(ctx, fnCoverLetter, body, &resp); err != nil {
		return nil, err
	}
	if err := embeddedError(fnCoverLetter, resp.Error); err != nil {
		return nil, err
	}
	return &resp.CoverLetter, nil
}
