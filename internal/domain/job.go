package domain

import "time"

// PipelineStatus is the stage of a job inside the application workflow.
// Transitions are user-driven; the one automatic transition (inbox -> not_fit
// on a low score) lives in the scoring orchestrator.
type PipelineStatus string

const (
	StatusInbox          PipelineStatus = "inbox"
	StatusShortlist      PipelineStatus = "shortlist"
	StatusNotFit         PipelineStatus = "not_fit"
	StatusApplied        PipelineStatus = "applied"
	StatusScreening      PipelineStatus = "screening"
	StatusInterview      PipelineStatus = "interview"
	StatusFinalInterview PipelineStatus = "final_interview"
	StatusOffer          PipelineStatus = "offer"
	StatusRejected       PipelineStatus = "rejected"
	StatusWithdrawn      PipelineStatus = "withdrawn"
)

var allStatuses = map[PipelineStatus]bool{
	StatusInbox:          true,
	StatusShortlist:      true,
	StatusNotFit:         true,
	StatusApplied:        true,
	StatusScreening:      true,
	StatusInterview:      true,
	StatusFinalInterview: true,
	StatusOffer:          true,
	StatusRejected:       true,
	StatusWithdrawn:      true,
}

func ValidStatus(s PipelineStatus) bool { return allStatuses[s] }

// Job is a stored posting. seek_job_id is the stable external identifier;
// a given external id is ingested at most once.
type Job struct {
	ID                 string         `json:"id"`
	SeekJobID          string         `json:"seek_job_id"`
	Title              string         `json:"title"`
	Company            string         `json:"company"`
	Location           string         `json:"location"`
	SalaryRange        *string        `json:"salary_range"`
	WorkType           *string        `json:"work_type"`
	WorkArrangement    *string        `json:"work_arrangement"`
	DescriptionSnippet string         `json:"description_snippet"`
	FullDescription    *string        `json:"full_description"`
	JobURL             string         `json:"job_url"`
	DatePosted         *string        `json:"date_posted"` // YYYY-MM-DD, source-imprecise
	DateScraped        time.Time      `json:"date_scraped"`
	PipelineStatus     PipelineStatus `json:"pipeline_status"`
	Notes              *string        `json:"notes"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// JobWithMatch joins a job with its scoring result, if any.
type JobWithMatch struct {
	Job
	Match *JobMatch `json:"match,omitempty"`
}

// ScrapedJob is a raw posting from the remote scrape function, prior to
// ingestion.
type ScrapedJob struct {
	SeekJobID          string `json:"seek_job_id"`
	Title              string `json:"title"`
	Company            string `json:"company"`
	Location           string `json:"location"`
	SalaryRange        string `json:"salary_range,omitempty"`
	WorkType           string `json:"work_type,omitempty"`
	WorkArrangement    string `json:"work_arrangement,omitempty"`
	DescriptionSnippet string `json:"description_snippet"`
	FullDescription    string `json:"full_description,omitempty"`
	JobURL             string `json:"job_url"`
	DatePosted         string `json:"date_posted,omitempty"`
}

// PipelineCounts are the six sidebar buckets. Ten statuses fold into six
// counts: not_fit/rejected/withdrawn -> not_fit, applied/screening -> applied,
// interview/final_interview -> interview.
type PipelineCounts struct {
	Inbox     int `json:"inbox"`
	Shortlist int `json:"shortlist"`
	NotFit    int `json:"not_fit"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
}

// Add folds one status into its count bucket. Statuses outside the six
// groupings would be ignored, but every current status maps somewhere.
func (c *PipelineCounts) Add(s PipelineStatus) {
	switch s {
	case StatusInbox:
		c.Inbox++
	case StatusShortlist:
		c.Shortlist++
	case StatusNotFit, StatusRejected, StatusWithdrawn:
		c.NotFit++
	case StatusApplied, StatusScreening:
		c.Applied++
	case StatusInterview, StatusFinalInterview:
		c.Interview++
	case StatusOffer:
		c.Offer++
	}
}
