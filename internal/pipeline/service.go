// Package pipeline holds the user-driven job mutations: status moves, notes,
// and deletion, single and bulk. There is no formal transition graph; any
// status may be set from any other.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

type Service struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *logrus.Logger
}

func (s *Service) SetStatus(ctx context.Context, jobID string, status domain.PipelineStatus) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("unknown pipeline status %q", status)
	}
	if err := store.UpdateJobStatus(ctx, s.DB, jobID, status); err != nil {
		return err
	}
	s.publish(events.TypeJobMoved, map[string]any{"id": jobID, "status": status})
	return nil
}

// BulkSetStatus applies the same move to every id. Each item succeeds or
// fails independently of the others at the store level; the single UPDATE
// here covers all rows, missing ids are simply unaffected.
func (s *Service) BulkSetStatus(ctx context.Context, jobIDs []string, status domain.PipelineStatus) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("unknown pipeline status %q", status)
	}
	if err := store.BulkUpdateJobStatus(ctx, s.DB, jobIDs, status); err != nil {
		return err
	}
	s.publish(events.TypeJobMoved, map[string]any{"ids": jobIDs, "status": status})
	return nil
}

func (s *Service) SetNotes(ctx context.Context, jobID string, notes string) error {
	return store.UpdateJobNotes(ctx, s.DB, jobID, notes)
}

// Delete removes a job unconditionally regardless of status.
func (s *Service) Delete(ctx context.Context, jobID string) error {
	if err := store.DeleteJob(ctx, s.DB, jobID); err != nil {
		return err
	}
	s.publish(events.TypeJobDeleted, map[string]any{"id": jobID})
	return nil
}

func (s *Service) BulkDelete(ctx context.Context, jobIDs []string) error {
	if err := store.DeleteJobs(ctx, s.DB, jobIDs); err != nil {
		return err
	}
	s.publish(events.TypeJobDeleted, map[string]any{"ids": jobIDs})
	return nil
}

func (s *Service) Get(ctx context.Context, jobID string) (domain.Job, error) {
	j, err := store.GetJob(ctx, s.DB, jobID)
	if err == sql.ErrNoRows {
		return domain.Job{}, fmt.Errorf("job %s not found", jobID)
	}
	return j, err
}

func (s *Service) publish(typ string, data any) {
	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", typ, 1, data))
	}
}
