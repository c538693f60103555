// Package analytics computes the derived views over the job+match set:
// pipeline counts, score distribution, false positive/negative sets, and
// per-agent-version accuracy. It is a pure pass over an in-memory slice,
// recomputed in full whenever the underlying collection changes; at the
// expected scale (hundreds of jobs) incremental maintenance isn't worth it.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
)

const defaultAgentVersion = "1.0"

// Filters narrow the job set before any aggregate is computed. A days
// cutoff applies to the match's scored-at timestamp, so unscored jobs never
// pass it. Query is a case-insensitive substring over title/company/location.
type Filters struct {
	ScoredWithinDays int    `json:"scored_within_days"` // 0 = all time
	Query            string `json:"query"`
}

// ScoreBucket is one of the four fixed distribution ranges. Bounds are
// inclusive on both ends and the buckets neither overlap nor gap.
type ScoreBucket struct {
	Label string `json:"label"`
	Lo    int    `json:"lo"`
	Hi    int    `json:"hi"`
	Count int    `json:"count"`
}

type AgentVersionStats struct {
	Version        string `json:"version"`
	Count          int    `json:"count"`
	AvgScore       int    `json:"avg_score"`
	FalsePositives int    `json:"false_positives"`
	FalseNegatives int    `json:"false_negatives"`
	AccuracyRate   int    `json:"accuracy_rate"`
}

type View struct {
	Counts         domain.PipelineCounts `json:"counts"`
	TotalScored    int                   `json:"total_scored"`
	AvgScore       int                   `json:"avg_score"`
	Buckets        []ScoreBucket         `json:"buckets"`
	FalsePositives []domain.JobWithMatch `json:"false_positives"`
	FalseNegatives []domain.JobWithMatch `json:"false_negatives"`
	AgentStats     []AgentVersionStats   `json:"agent_stats"`
}

// isFalsePositive: the scorer liked it, the pipeline outcome didn't.
func isFalsePositive(j domain.JobWithMatch) bool {
	return j.Match != nil && j.Match.MatchScore >= 70 &&
		(j.PipelineStatus == domain.StatusNotFit || j.PipelineStatus == domain.StatusRejected)
}

// isFalseNegative: the scorer panned it, the pipeline outcome disagreed.
func isFalseNegative(j domain.JobWithMatch) bool {
	return j.Match != nil && j.Match.MatchScore < 50 &&
		(j.PipelineStatus == domain.StatusInterview ||
			j.PipelineStatus == domain.StatusFinalInterview ||
			j.PipelineStatus == domain.StatusOffer)
}

// Aggregate computes the full derived view. now anchors the date filter so
// callers (and tests) control "today".
func Aggregate(jobs []domain.JobWithMatch, f Filters, now time.Time) View {
	filtered := applyFilters(jobs, f, now)

	view := View{
		Buckets: []ScoreBucket{
			{Label: "Weak", Lo: 0, Hi: 49},
			{Label: "Moderate", Lo: 50, Hi: 69},
			{Label: "Good", Lo: 70, Hi: 84},
			{Label: "Strong", Lo: 85, Hi: 100},
		},
		FalsePositives: []domain.JobWithMatch{},
		FalseNegatives: []domain.JobWithMatch{},
	}

	scoreSum := 0
	type versionAgg struct {
		count, scoreSum, fps, fns int
	}
	versions := map[string]*versionAgg{}

	for _, j := range filtered {
		view.Counts.Add(j.PipelineStatus)

		if j.Match == nil {
			continue
		}
		view.TotalScored++
		score := j.Match.MatchScore
		scoreSum += score

		for i := range view.Buckets {
			b := &view.Buckets[i]
			if score >= b.Lo && score <= b.Hi {
				b.Count++
				break
			}
		}

		fp := isFalsePositive(j)
		fn := isFalseNegative(j)
		if fp {
			view.FalsePositives = append(view.FalsePositives, j)
		}
		if fn {
			view.FalseNegatives = append(view.FalseNegatives, j)
		}

		version := j.Match.AgentVersion
		if version == "" {
			version = defaultAgentVersion
		}
		agg := versions[version]
		if agg == nil {
			agg = &versionAgg{}
			versions[version] = agg
		}
		agg.count++
		agg.scoreSum += score
		if fp {
			agg.fps++
		}
		if fn {
			agg.fns++
		}
	}

	if view.TotalScored > 0 {
		view.AvgScore = roundDiv(scoreSum, view.TotalScored)
	}

	for version, agg := range versions {
		view.AgentStats = append(view.AgentStats, AgentVersionStats{
			Version:        version,
			Count:          agg.count,
			AvgScore:       roundDiv(agg.scoreSum, agg.count),
			FalsePositives: agg.fps,
			FalseNegatives: agg.fns,
			AccuracyRate:   roundDiv(100*(agg.count-agg.fps-agg.fns), agg.count),
		})
	}
	sort.Slice(view.AgentStats, func(i, k int) bool {
		if view.AgentStats[i].Count != view.AgentStats[k].Count {
			return view.AgentStats[i].Count > view.AgentStats[k].Count
		}
		return view.AgentStats[i].Version < view.AgentStats[k].Version
	})

	return view
}

// Counts folds the full (unfiltered) status list into the six sidebar
// buckets.
func Counts(statuses []domain.PipelineStatus) domain.PipelineCounts {
	var c domain.PipelineCounts
	for _, s := range statuses {
		c.Add(s)
	}
	return c
}

func applyFilters(jobs []domain.JobWithMatch, f Filters, now time.Time) []domain.JobWithMatch {
	if f.ScoredWithinDays <= 0 && strings.TrimSpace(f.Query) == "" {
		return jobs
	}

	var cutoff time.Time
	if f.ScoredWithinDays > 0 {
		cutoff = now.AddDate(0, 0, -f.ScoredWithinDays)
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []domain.JobWithMatch
	for _, j := range jobs {
		if f.ScoredWithinDays > 0 {
			if j.Match == nil || j.Match.ScoredAt.Before(cutoff) {
				continue
			}
		}
		if query != "" {
			if !strings.Contains(strings.ToLower(j.Title), query) &&
				!strings.Contains(strings.ToLower(j.Company), query) &&
				!strings.Contains(strings.ToLower(j.Location), query) {
				continue
			}
		}
		out = append(out, j)
	}
	return out
}

func roundDiv(num, den int) int {
	return int(math.Round(float64(num) / float64(den)))
}
