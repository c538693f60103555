package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything wrong or
// questionable about it. Zero-valued tunables are filled with defaults rather
// than rejected, so a hand-trimmed config file still starts.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	if out.App.Port == 0 {
		out.App.Port = 8787
	}
	if out.App.Port < 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535 (got %d)", out.App.Port)
	}

	out.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(out.Remote.BaseURL), "/")
	if out.Remote.BaseURL == "" {
		res.addErr("remote.base_url is required")
	} else if !strings.HasPrefix(out.Remote.BaseURL, "http://") && !strings.HasPrefix(out.Remote.BaseURL, "https://") {
		res.addErr("remote.base_url must start with http:// or https://")
	}
	if out.Remote.TimeoutSeconds <= 0 {
		out.Remote.TimeoutSeconds = 120
	} else if out.Remote.TimeoutSeconds < 30 {
		res.addWarn("remote.timeout_seconds is very low (%d); scrape and scoring calls routinely run long.", out.Remote.TimeoutSeconds)
	}

	out.Search.Keywords = strings.TrimSpace(out.Search.Keywords)
	out.Search.Location = strings.TrimSpace(out.Search.Location)
	if out.Search.SalaryMin < 0 {
		res.addErr("search.salary_min must be >= 0")
	}
	if out.Search.SalaryMax != 0 && out.Search.SalaryMax < out.Search.SalaryMin {
		res.addErr("search.salary_max (%d) is below search.salary_min (%d)", out.Search.SalaryMax, out.Search.SalaryMin)
	}

	if out.Scoring.AutoDemoteBelow == 0 {
		out.Scoring.AutoDemoteBelow = 50
	}
	if out.Scoring.AutoDemoteBelow < 0 || out.Scoring.AutoDemoteBelow > 100 {
		res.addErr("scoring.auto_demote_below must be 0..100")
	}
	if out.Scoring.ArtifactMinScore == 0 {
		out.Scoring.ArtifactMinScore = 60
	}
	if out.Scoring.ArtifactMinScore < 0 || out.Scoring.ArtifactMinScore > 100 {
		res.addErr("scoring.artifact_min_score must be 0..100")
	}
	if out.Scoring.ArtifactMinScore < out.Scoring.AutoDemoteBelow {
		res.addWarn("scoring.artifact_min_score (%d) is below auto_demote_below (%d); auto-demoted jobs would still be artifact-eligible.", out.Scoring.ArtifactMinScore, out.Scoring.AutoDemoteBelow)
	}
	if out.Scoring.BatchPaceMS == 0 {
		out.Scoring.BatchPaceMS = 1000
	}
	if out.Scoring.BatchPaceMS < 0 {
		res.addErr("scoring.batch_pace_ms must be >= 0")
	} else if out.Scoring.BatchPaceMS < 250 {
		res.addWarn("scoring.batch_pace_ms is very low (%d) and may trip upstream rate limits.", out.Scoring.BatchPaceMS)
	}

	if out.Upload.MaxSizeMB == 0 {
		out.Upload.MaxSizeMB = 10
	}
	if out.Upload.MaxSizeMB < 0 {
		res.addErr("upload.max_size_mb must be > 0")
	}

	return out, res
}
