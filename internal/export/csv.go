// Package export renders the job list as CSV for download.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
)

// Header matches what the UI has always exported; other tooling depends on
// the column order.
var Header = []string{
	"Title", "Company", "Location", "Salary", "Work Type", "Work Arrangement",
	"Match Score", "Recommendation", "URL", "Date Posted", "Date Scraped",
}

// Filename names the download after the export date.
func Filename(today time.Time) string {
	return fmt.Sprintf("job-inbox-%s.csv", today.Format("2006-01-02"))
}

// Write emits a header row plus one row per job in input order. Every field
// is double-quote wrapped (encoding/csv only quotes when it must, and the
// consumers of this file expect uniform quoting); missing optional values
// render as empty quoted strings.
func Write(w io.Writer, jobs []domain.JobWithMatch) error {
	if err := writeRow(w, Header); err != nil {
		return err
	}
	for _, j := range jobs {
		row := []string{
			j.Title,
			j.Company,
			j.Location,
			orEmpty(j.SalaryRange),
			orEmpty(j.WorkType),
			orEmpty(j.WorkArrangement),
			matchScore(j.Match),
			recommendation(j.Match),
			j.JobURL,
			orEmpty(j.DatePosted),
			j.DateScraped.UTC().Format(time.RFC3339),
		}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func matchScore(m *domain.JobMatch) string {
	if m == nil {
		return ""
	}
	return strconv.Itoa(m.MatchScore)
}

func recommendation(m *domain.JobMatch) string {
	if m == nil {
		return ""
	}
	return m.Recommendation
}
