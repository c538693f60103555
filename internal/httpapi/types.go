package httpapi

// SearchStatus is the last/current search run, kept in an atomic.Value.
type SearchStatus struct {
	Running      bool   `json:"running"`
	LastRunAt    string `json:"last_run_at"`
	LastOkAt     string `json:"last_ok_at"`
	LastError    string `json:"last_error"`
	LastNew      int    `json:"last_new"`
	LastExisting int    `json:"last_existing"`
	// Message carries the user-facing outcome of the last run, including
	// diagnostics for empty results.
	Message string `json:"message"`
}

// BatchScoreStatus mirrors SearchStatus for batch scoring runs.
type BatchScoreStatus struct {
	Running   bool   `json:"running"`
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Total     int    `json:"total"`
	Scored    int    `json:"scored"`
	Failed    int    `json:"failed"`
	Moved     int    `json:"moved_to_not_fit"`
}
