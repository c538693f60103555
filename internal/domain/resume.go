package domain

import "time"

// ResumeProfile is the singleton parsed-resume record. Uploading a new
// resume replaces it in place.
type ResumeProfile struct {
	ID              string    `json:"id"`
	RawText         string    `json:"raw_text"`
	SkillsTechnical []string  `json:"skills_technical"`
	SkillsSoft      []string  `json:"skills_soft"`
	YearsExperience *int      `json:"years_experience"`
	Education       []string  `json:"education"`
	Certifications  []string  `json:"certifications"`
	PreviousTitles  []string  `json:"previous_titles"`
	Industries      []string  `json:"industries"`
	Summary         *string   `json:"summary"`
	FileURL         *string   `json:"file_url,omitempty"`
	FileName        *string   `json:"file_name,omitempty"`
	FileType        *string   `json:"file_type,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
