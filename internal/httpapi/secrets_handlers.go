package httpapi

import (
	"net/http"
	"strings"

	"jobtrack-engine/internal/secrets"
)

type SecretsHandler struct{}

type setAPIKeyReq struct {
	APIKey string `json:"api_key"`
}

// SetRemoteAPIKey stores the remote function key in the OS keychain. The
// engine picks it up on next start.
func (h SecretsHandler) SetRemoteAPIKey(w http.ResponseWriter, r *http.Request) {
	var req setAPIKeyReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_key", "api_key must not be empty")
		return
	}
	if err := secrets.SetRemoteAPIKey(req.APIKey); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", "failed to store key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
