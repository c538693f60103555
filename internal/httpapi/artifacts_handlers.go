package httpapi

import (
	"errors"
	"net/http"

	"jobtrack-engine/internal/artifact"
	"jobtrack-engine/internal/domain"
)

type ArtifactsHandler struct {
	Artifacts *artifact.Service
}

func (h ArtifactsHandler) List(w http.ResponseWriter, r *http.Request, id string) {
	arts, err := h.Artifacts.List(r.Context(), id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if arts == nil {
		arts = []domain.JobArtifact{}
	}
	writeJSON(w, arts)
}

type generateReq struct {
	Type       domain.ArtifactType `json:"type"`
	Highlights []string            `json:"highlights,omitempty"`
}

type generateResp struct {
	Artifact domain.JobArtifact `json:"artifact"`
	Cached   bool               `json:"cached"`
}

// Generate creates (or returns the cached) artifact for a job. Ineligible
// jobs get a 409 carrying the reason the UI shows on the disabled control.
func (h ArtifactsHandler) Generate(w http.ResponseWriter, r *http.Request, id string) {
	var req generateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if !domain.ValidArtifactType(req.Type) {
		WriteError(w, r, http.StatusBadRequest, "invalid_type", "unknown artifact type "+string(req.Type))
		return
	}

	art, cached, err := h.Artifacts.Generate(r.Context(), id, req.Type, req.Highlights)
	var tooLow *artifact.ScoreTooLowError
	switch {
	case errors.Is(err, artifact.ErrUnscored):
		WriteError(w, r, http.StatusConflict, "unscored", err.Error())
		return
	case errors.As(err, &tooLow):
		WriteError(w, r, http.StatusConflict, "score_too_low", err.Error())
		return
	case err != nil:
		WriteError(w, r, http.StatusBadGateway, "generate_failed", err.Error())
		return
	}
	writeJSON(w, generateResp{Artifact: art, Cached: cached})
}
