package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobtrack-engine/internal/domain"
)

// GetResumeProfile returns the singleton profile, or sql.ErrNoRows.
func GetResumeProfile(ctx context.Context, db *sql.DB) (domain.ResumeProfile, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, raw_text, skills_technical, skills_soft, years_experience,
       education, certifications, previous_titles, industries, summary,
       file_url, file_name, file_type, updated_at
FROM resume_profile
LIMIT 1;`)

	var p domain.ResumeProfile
	var years sql.NullInt64
	var tech, soft, edu, certs, titles, inds, updated string
	var summary, fileURL, fileName, fileType sql.NullString

	err := row.Scan(
		&p.ID, &p.RawText, &tech, &soft, &years,
		&edu, &certs, &titles, &inds, &summary,
		&fileURL, &fileName, &fileType, &updated,
	)
	if err != nil {
		return domain.ResumeProfile{}, err
	}

	if years.Valid {
		v := int(years.Int64)
		p.YearsExperience = &v
	}
	p.SkillsTechnical = decodeStringList(tech)
	p.SkillsSoft = decodeStringList(soft)
	p.Education = decodeStringList(edu)
	p.Certifications = decodeStringList(certs)
	p.PreviousTitles = decodeStringList(titles)
	p.Industries = decodeStringList(inds)
	p.Summary = nullableString(summary)
	p.FileURL = nullableString(fileURL)
	p.FileName = nullableString(fileName)
	p.FileType = nullableString(fileType)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return p, nil
}

// SaveResumeProfile upserts the singleton: an existing row is overwritten in
// place (keeping its id), otherwise a new row is inserted.
func SaveResumeProfile(ctx context.Context, db *sql.DB, p domain.ResumeProfile) (domain.ResumeProfile, error) {
	existing, err := GetResumeProfile(ctx, db)
	switch {
	case err == nil:
		p.ID = existing.ID
	case err == sql.ErrNoRows:
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
	default:
		return domain.ResumeProfile{}, err
	}

	p.UpdatedAt = time.Now().UTC()

	_, err = db.ExecContext(ctx, `
INSERT INTO resume_profile (
  id, raw_text, skills_technical, skills_soft, years_experience,
  education, certifications, previous_titles, industries, summary,
  file_url, file_name, file_type, updated_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  raw_text = excluded.raw_text,
  skills_technical = excluded.skills_technical,
  skills_soft = excluded.skills_soft,
  years_experience = excluded.years_experience,
  education = excluded.education,
  certifications = excluded.certifications,
  previous_titles = excluded.previous_titles,
  industries = excluded.industries,
  summary = excluded.summary,
  file_url = excluded.file_url,
  file_name = excluded.file_name,
  file_type = excluded.file_type,
  updated_at = excluded.updated_at;`,
		p.ID, p.RawText, encodeStringList(p.SkillsTechnical), encodeStringList(p.SkillsSoft), p.YearsExperience,
		encodeStringList(p.Education), encodeStringList(p.Certifications), encodeStringList(p.PreviousTitles),
		encodeStringList(p.Industries), p.Summary,
		p.FileURL, p.FileName, p.FileType,
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return domain.ResumeProfile{}, fmt.Errorf("save resume profile: %w", err)
	}
	return p, nil
}

func DeleteResumeProfile(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM resume_profile WHERE id = ?;`, id)
	return err
}
