package events

import (
	"encoding/json"
	"time"
)

// Event names pushed to the UI over SSE.
const (
	TypeJobCreated      = "job_created"
	TypeJobScored       = "job_scored"
	TypeJobMoved        = "job_moved"
	TypeJobDeleted      = "job_deleted"
	TypeSearchDone      = "search_done"
	TypeBatchScoreDone  = "batch_score_done"
	TypeArtifactCreated = "artifact_created"
	TypeProfileUpdated  = "profile_updated"
	TypePing            = "ping"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
