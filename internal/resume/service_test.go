package resume

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/remote"
	"jobtrack-engine/internal/store"
)

type fakeParser struct {
	calls int
	got   remote.ParseResumeRequest
	err   error
}

func (f *fakeParser) ParseResume(ctx context.Context, req remote.ParseResumeRequest) (*remote.ParsedResume, error) {
	f.calls++
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &remote.ParsedResume{
		RawText:         "parsed text",
		SkillsTechnical: []string{"Go", "SQL"},
		PreviousTitles:  []string{"Backend Engineer"},
	}, nil
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setup(t *testing.T) (*Service, *fakeParser, *sql.DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	filesDir := filepath.Join(dir, "files")
	files, err := NewFileStore(filesDir, "/files")
	require.NoError(t, err)

	parser := &fakeParser{}
	svc := &Service{DB: db, Parser: parser, Files: files, Log: quietLog()}
	return svc, parser, db, filesDir
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("resume.pdf", "application/pdf", 1000, 0))
	assert.NoError(t, ValidateUpload("resume.docx", "", 1000, 0))
	assert.NoError(t, ValidateUpload("resume.TXT", "", 1000, 0))

	err := ValidateUpload("resume.exe", "application/octet-stream", 1000, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF, DOCX, or TXT")

	err = ValidateUpload("resume.pdf", "application/pdf", MaxUploadBytes+1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10MB")

	assert.Error(t, ValidateUpload("resume.pdf", "application/pdf", 0, 0))
}

func TestValidateUploadConfiguredCap(t *testing.T) {
	// A raised cap admits what the default would reject.
	assert.NoError(t, ValidateUpload("resume.pdf", "application/pdf", MaxUploadBytes+1, 20<<20))

	// A lowered cap rejects and names its own size, not the default.
	err := ValidateUpload("resume.pdf", "application/pdf", 2<<20, 1<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1MB")
	assert.NotContains(t, err.Error(), "10MB")
}

func TestUploadHonorsServiceCap(t *testing.T) {
	svc, parser, _, _ := setup(t)
	svc.MaxBytes = 1 << 20

	_, err := svc.Upload(context.Background(), "resume.pdf", "application/pdf", make([]byte, 2<<20))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
	assert.Zero(t, parser.calls)
}

func TestUploadStoresFileAndProfile(t *testing.T) {
	svc, parser, db, filesDir := setup(t)

	data := []byte("%PDF-1.4 fake")
	profile, err := svc.Upload(context.Background(), "My Resume.pdf", "application/pdf", data)
	require.NoError(t, err)

	assert.Equal(t, "parsed text", profile.RawText)
	assert.Equal(t, []string{"Go", "SQL"}, profile.SkillsTechnical)
	require.NotNil(t, profile.FileName)
	assert.Equal(t, "My Resume.pdf", *profile.FileName)
	require.NotNil(t, profile.FileURL)
	assert.True(t, strings.HasPrefix(*profile.FileURL, "/files/resume_"))
	assert.True(t, strings.HasSuffix(*profile.FileURL, ".pdf"))

	// parser got the base64 content
	decoded, derr := base64.StdEncoding.DecodeString(parser.got.FileContent)
	require.NoError(t, derr)
	assert.Equal(t, data, decoded)

	// the file landed on disk under the timestamped name
	entries, err := os.ReadDir(filesDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "resume_"))

	// and the profile is the singleton row
	saved, err := store.GetResumeProfile(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, saved.ID)
}

func TestUploadReplacesProfile(t *testing.T) {
	svc, _, db, _ := setup(t)

	first, err := svc.Upload(context.Background(), "one.pdf", "application/pdf", []byte("a"))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), "two.pdf", "application/pdf", []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	saved, err := store.GetResumeProfile(context.Background(), db)
	require.NoError(t, err)
	require.NotNil(t, saved.FileName)
	assert.Equal(t, "two.pdf", *saved.FileName)
}

func TestUploadRejectsBeforeParsing(t *testing.T) {
	svc, parser, _, filesDir := setup(t)

	_, err := svc.Upload(context.Background(), "virus.exe", "application/octet-stream", []byte("x"))
	require.Error(t, err)
	assert.Zero(t, parser.calls)

	entries, rerr := os.ReadDir(filesDir)
	require.NoError(t, rerr)
	assert.Empty(t, entries)
}

func TestUploadParseFailureCleansUpFile(t *testing.T) {
	svc, parser, db, filesDir := setup(t)
	parser.err = errors.New("unreadable document")

	_, err := svc.Upload(context.Background(), "resume.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)

	entries, rerr := os.ReadDir(filesDir)
	require.NoError(t, rerr)
	assert.Empty(t, entries)

	_, err = store.GetResumeProfile(context.Background(), db)
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestGetAndDelete(t *testing.T) {
	svc, _, _, filesDir := setup(t)

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoProfile)
	assert.ErrorIs(t, svc.Delete(context.Background()), ErrNoProfile)

	_, err = svc.Upload(context.Background(), "resume.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "parsed text", got.RawText)

	require.NoError(t, svc.Delete(context.Background()))

	_, err = svc.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoProfile)
	entries, rerr := os.ReadDir(filesDir)
	require.NoError(t, rerr)
	assert.Empty(t, entries)
}
