// Package resume owns the singleton resume profile: upload validation, file
// storage, the remote parse call, and profile replacement/removal.
package resume

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/remote"
	"jobtrack-engine/internal/store"
)

// MaxUploadBytes is the default cap; config upload.max_size_mb overrides it.
const MaxUploadBytes = 10 << 20

// ErrNoProfile is returned by Get/Delete when nothing has been uploaded.
var ErrNoProfile = errors.New("no resume profile")

var allowedTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

var allowedExts = map[string]bool{
	".pdf": true, ".docx": true, ".txt": true,
}

type Parser interface {
	ParseResume(ctx context.Context, req remote.ParseResumeRequest) (*remote.ParsedResume, error)
}

type Service struct {
	DB     *sql.DB
	Parser Parser
	Files  *FileStore
	Hub    *events.Hub
	Log    *logrus.Logger

	// MaxBytes caps uploads; zero means MaxUploadBytes.
	MaxBytes int

	Now func() time.Time
}

func (s *Service) maxBytes() int {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return MaxUploadBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ValidateUpload rejects bad uploads before any external call happens.
// maxBytes <= 0 falls back to MaxUploadBytes.
func ValidateUpload(fileName, contentType string, size, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	if size <= 0 {
		return errors.New("file is empty")
	}
	if size > maxBytes {
		return fmt.Errorf("file too large: please upload a file smaller than %dMB", maxBytes>>20)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedTypes[contentType] && !allowedExts[ext] {
		return errors.New("invalid file type: please upload a PDF, DOCX, or TXT file")
	}
	return nil
}

// Upload validates, stores the file, parses it remotely, and replaces the
// singleton profile. The stored file name is timestamped; the storage layer
// overwrites by name so re-uploads never accumulate under one name.
func (s *Service) Upload(ctx context.Context, fileName, contentType string, data []byte) (domain.ResumeProfile, error) {
	if err := ValidateUpload(fileName, contentType, len(data), s.maxBytes()); err != nil {
		return domain.ResumeProfile{}, err
	}

	storedName := fmt.Sprintf("resume_%d%s", s.now().UnixMilli(), strings.ToLower(filepath.Ext(fileName)))
	fileURL, err := s.Files.Put(storedName, data)
	if err != nil {
		return domain.ResumeProfile{}, err
	}

	parsed, err := s.Parser.ParseResume(ctx, remote.ParseResumeRequest{
		FileContent: base64.StdEncoding.EncodeToString(data),
		FileName:    fileName,
		FileType:    contentType,
	})
	if err != nil {
		// The stored file is orphaned on parse failure; clean it up so a
		// retry starts fresh.
		_ = s.Files.Remove(storedName)
		return domain.ResumeProfile{}, fmt.Errorf("parse resume: %w", err)
	}

	profile := domain.ResumeProfile{
		RawText:         parsed.RawText,
		SkillsTechnical: parsed.SkillsTechnical,
		SkillsSoft:      parsed.SkillsSoft,
		YearsExperience: parsed.YearsExperience,
		Education:       parsed.Education,
		Certifications:  parsed.Certifications,
		PreviousTitles:  parsed.PreviousTitles,
		Industries:      parsed.Industries,
		Summary:         parsed.Summary,
		FileURL:         &fileURL,
		FileName:        &fileName,
		FileType:        &contentType,
	}

	saved, err := store.SaveResumeProfile(ctx, s.DB, profile)
	if err != nil {
		return domain.ResumeProfile{}, err
	}

	s.Log.Infof("resume profile saved file=%s skills=%d", storedName, len(saved.SkillsTechnical))
	s.publish()
	return saved, nil
}

func (s *Service) Get(ctx context.Context) (domain.ResumeProfile, error) {
	p, err := store.GetResumeProfile(ctx, s.DB)
	if err == sql.ErrNoRows {
		return domain.ResumeProfile{}, ErrNoProfile
	}
	return p, err
}

// Delete removes the profile and its backing file.
func (s *Service) Delete(ctx context.Context) error {
	p, err := store.GetResumeProfile(ctx, s.DB)
	if err == sql.ErrNoRows {
		return ErrNoProfile
	}
	if err != nil {
		return err
	}

	if p.FileURL != nil {
		parts := strings.Split(*p.FileURL, "/")
		if name := parts[len(parts)-1]; name != "" {
			if rerr := s.Files.Remove(name); rerr != nil {
				s.Log.Warnf("resume: remove file %s: %v", name, rerr)
			}
		}
	}

	if err := store.DeleteResumeProfile(ctx, s.DB, p.ID); err != nil {
		return err
	}
	s.publish()
	return nil
}

func (s *Service) publish() {
	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", events.TypeProfileUpdated, 1, nil))
	}
}
