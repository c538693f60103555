package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	daysAgoRe   = regexp.MustCompile(`^(\d+)d\s*ago$`)
	hoursAgoRe  = regexp.MustCompile(`^(\d+)h\s*ago$`)
	minsAgoRe   = regexp.MustCompile(`^(\d+)m\s*ago$`)
	isoPrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

const dateLayout = "2006-01-02"

// NormalizePostedDate converts the heterogeneous relative-date strings job
// boards emit ("3d ago", "Yesterday", "just posted") into a calendar date
// relative to today. Sub-day precision is discarded. Returns ok=false when
// the string cannot be interpreted; callers store null rather than failing.
func NormalizePostedDate(raw string, today time.Time) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimSpace(raw))

	if m := daysAgoRe.FindStringSubmatch(normalized); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		return today.AddDate(0, 0, -n).Format(dateLayout), true
	}
	if hoursAgoRe.MatchString(normalized) || minsAgoRe.MatchString(normalized) {
		return today.Format(dateLayout), true
	}
	switch normalized {
	case "today", "just posted", "just now":
		return today.Format(dateLayout), true
	case "yesterday":
		return today.AddDate(0, 0, -1).Format(dateLayout), true
	}
	// A leading YYYY-MM-DD is taken verbatim, trailing text ignored.
	if m := isoPrefixRe.FindString(strings.TrimSpace(raw)); m != "" {
		return m, true
	}
	return "", false
}
