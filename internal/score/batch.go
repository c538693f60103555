package score

import (
	"context"
	"database/sql"

	"golang.org/x/time/rate"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

// BatchResult aggregates a batch run. Failed items are counted, not fatal.
type BatchResult struct {
	Scored int `json:"scored"`
	Failed int `json:"failed"`
	Moved  int `json:"moved_to_not_fit"`
}

// ScoreBatch scores every currently-unscored job in the given set, strictly
// sequentially. Limiter paces the remote calls (1/s in production) to stay
// inside the scorer's rate limits; no two calls are ever in flight at once.
// Requires a resume profile up front so a missing one fails fast instead of
// per item.
func (s *Service) ScoreBatch(ctx context.Context, jobs []domain.JobWithMatch, limiter *rate.Limiter) (BatchResult, error) {
	var res BatchResult

	if _, err := store.GetResumeProfile(ctx, s.DB); err == sql.ErrNoRows {
		return res, ErrNoResumeProfile
	} else if err != nil {
		return res, err
	}

	for _, j := range jobs {
		if j.Match != nil {
			continue
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return res, err
			}
		}

		out, err := s.ScoreJob(ctx, j.ID)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			s.Log.Errorf("batch score: job %s: %v", j.ID, err)
			res.Failed++
			continue
		}
		res.Scored++
		if out.AutoMoved {
			res.Moved++
		}
	}

	s.Log.Infof("batch score done scored=%d failed=%d moved=%d", res.Scored, res.Failed, res.Moved)
	s.publish(events.TypeBatchScoreDone, res)
	return res, nil
}
