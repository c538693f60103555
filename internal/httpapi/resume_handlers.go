package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/resume"
)

type ResumeHandler struct {
	CfgVal *atomic.Value // config.Config
	Resume *resume.Service
}

// Upload accepts a multipart form with a single "file" field, parses it
// remotely, and replaces the profile. Oversized or wrong-typed files fail
// before anything is stored.
func (h ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	maxBytes := int64(cfg.Upload.MaxSizeMB) << 20

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+4096)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_upload",
			fmt.Sprintf("file too large: please upload a file smaller than %dMB", cfg.Upload.MaxSizeMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_upload", "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_upload", "could not read upload: "+err.Error())
		return
	}

	contentType := header.Header.Get("Content-Type")
	profile, err := h.Resume.Upload(r.Context(), header.Filename, contentType, data)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "upload_failed", err.Error())
		return
	}
	writeJSON(w, profile)
}

func (h ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Resume.Get(r.Context())
	if errors.Is(err, resume.ErrNoProfile) {
		WriteError(w, r, http.StatusNotFound, "no_profile", "no resume profile")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, profile)
}

func (h ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Resume.Delete(r.Context())
	if errors.Is(err, resume.ErrNoProfile) {
		WriteError(w, r, http.StatusNotFound, "no_profile", "no resume profile")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
