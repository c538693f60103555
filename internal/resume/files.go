package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps uploaded resume files under the data dir and hands out
// URLs served by the engine's /files/ route. Put overwrites by name, the
// same contract the hosted object storage gave the UI.
type FileStore struct {
	Dir     string
	BaseURL string // e.g. "/files"
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create file store dir: %w", err)
	}
	return &FileStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (fs *FileStore) Put(name string, data []byte) (url string, err error) {
	clean, err := fs.safeName(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(fs.Dir, clean), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", clean, err)
	}
	return fs.BaseURL + "/" + clean, nil
}

func (fs *FileStore) Remove(name string) error {
	clean, err := fs.safeName(name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(fs.Dir, clean))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (fs *FileStore) Path(name string) (string, error) {
	clean, err := fs.safeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(fs.Dir, clean), nil
}

func (fs *FileStore) safeName(name string) (string, error) {
	clean := filepath.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == ".." || strings.ContainsAny(clean, "/\\") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return clean, nil
}
