package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
)

func strptr(s string) *string { return &s }

func TestFilename(t *testing.T) {
	assert.Equal(t, "job-inbox-2024-03-20.csv",
		Filename(time.Date(2024, 3, 20, 23, 59, 0, 0, time.UTC)))
}

func TestWriteHeaderAndRow(t *testing.T) {
	scraped := time.Date(2024, 3, 20, 10, 30, 0, 0, time.UTC)
	jobs := []domain.JobWithMatch{
		{
			Job: domain.Job{
				Title:           "Backend Engineer",
				Company:         "Initech",
				Location:        "Sydney NSW",
				SalaryRange:     strptr("$120k-$140k"),
				WorkType:        strptr("Full time"),
				WorkArrangement: strptr("Hybrid"),
				JobURL:          "https://example.com/1001",
				DatePosted:      strptr("2024-03-18"),
				DateScraped:     scraped,
			},
			Match: &domain.JobMatch{MatchScore: 82, Recommendation: "apply"},
		},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, jobs))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`"Title","Company","Location","Salary","Work Type","Work Arrangement","Match Score","Recommendation","URL","Date Posted","Date Scraped"`,
		lines[0])
	assert.Equal(t,
		`"Backend Engineer","Initech","Sydney NSW","$120k-$140k","Full time","Hybrid","82","apply","https://example.com/1001","2024-03-18","2024-03-20T10:30:00Z"`,
		lines[1])
}

func TestWriteMissingOptionalsAreEmptyQuoted(t *testing.T) {
	jobs := []domain.JobWithMatch{
		{Job: domain.Job{
			Title:       "Backend Engineer",
			Company:     "Initech",
			Location:    "Sydney NSW",
			JobURL:      "https://example.com/1001",
			DateScraped: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		}},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, jobs))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`"Backend Engineer","Initech","Sydney NSW","","","","","","https://example.com/1001","","2024-03-20T00:00:00Z"`,
		lines[1])
}

func TestWriteEscapesQuotesAndKeepsCommas(t *testing.T) {
	jobs := []domain.JobWithMatch{
		{Job: domain.Job{
			Title:       `Senior "Go" Engineer`,
			Company:     "Initech, Pty Ltd",
			Location:    "Sydney NSW",
			JobURL:      "https://example.com/1001",
			DateScraped: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		}},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, jobs))

	assert.Contains(t, sb.String(), `"Senior ""Go"" Engineer"`)
	assert.Contains(t, sb.String(), `"Initech, Pty Ltd"`)
}

func TestWritePreservesInputOrder(t *testing.T) {
	jobs := []domain.JobWithMatch{
		{Job: domain.Job{Title: "First", DateScraped: time.Now()}},
		{Job: domain.Job{Title: "Second", DateScraped: time.Now()}},
		{Job: domain.Job{Title: "Third", DateScraped: time.Now()}},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, jobs))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], `"First"`))
	assert.True(t, strings.HasPrefix(lines[2], `"Second"`))
	assert.True(t, strings.HasPrefix(lines[3], `"Third"`))
}
