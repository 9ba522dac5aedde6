package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellaton/jobscout/internal/export"
	"github.com/lpellaton/jobscout/internal/jobs"
)

var exportedAt = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func samplePostings() []jobs.Posting {
	deadline := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	return []jobs.Posting{
		{
			URL:          "https://example.com/jobs/1",
			Title:        "Process Engineer",
			Company:      "Givaudan",
			City:         "Geneva",
			Canton:       "GE",
			Description:  "A role with, commas and \"quotes\".",
			Deadline:     &deadline,
			Source:       "rss",
			DateScraped:  exportedAt,
			FilterStatus: jobs.StatusPassed,
		},
		{
			URL:          "https://example.com/jobs/2",
			Title:        "Automation Engineer",
			Company:      "ABB",
			Source:       "jobup",
			DateScraped:  exportedAt,
			FilterStatus: jobs.StatusPassed,
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	format, err := export.ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, format)

	format, err = export.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSON, format)

	_, err = export.ParseFormat("xml")
	require.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	path := export.DefaultPath("output", jobs.StatusPassed, export.FormatCSV, exportedAt)
	assert.Equal(t, "output/jobs_passed_2026-08-24.csv", path)

	path = export.DefaultPath("reports", jobs.StatusAmbiguous, export.FormatJSON, exportedAt)
	assert.Equal(t, "reports/jobs_ambiguous_2026-08-24.json", path)
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, samplePostings(), jobs.StatusPassed, exportedAt))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "# Exported: 2026-08-24T12:00:00Z", lines[0])
	assert.Equal(t, "# Status filter: passed", lines[1])
	assert.Equal(t, "# Total: 2", lines[2])

	// The data section parses back as CSV despite embedded commas/quotes.
	data := strings.Join(lines[3:], "\n")
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two rows")
	assert.Equal(t, "url", records[0][0])
	assert.Equal(t, "https://example.com/jobs/1", records[1][0])
	assert.Equal(t, "A role with, commas and \"quotes\".", records[1][5])
	assert.Equal(t, "2026-09-30T00:00:00Z", records[1][9])
	assert.Equal(t, "", records[2][9], "nil deadline renders empty")
}

func TestWriteCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil, jobs.StatusRejected, exportedAt))
	assert.Contains(t, buf.String(), "# Total: 0")
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, samplePostings(), jobs.StatusPassed, exportedAt))

	var parsed struct {
		Metadata struct {
			ExportedAt   string `json:"exported_at"`
			StatusFilter string `json:"status_filter"`
			Total        int    `json:"total"`
		} `json:"metadata"`
		Postings []struct {
			URL          string `json:"url"`
			Title        string `json:"title"`
			Deadline     string `json:"deadline"`
			FilterStatus string `json:"filter_status"`
		} `json:"postings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, "2026-08-24T12:00:00Z", parsed.Metadata.ExportedAt)
	assert.Equal(t, "passed", parsed.Metadata.StatusFilter)
	assert.Equal(t, 2, parsed.Metadata.Total)
	require.Len(t, parsed.Postings, 2)
	assert.Equal(t, "https://example.com/jobs/1", parsed.Postings[0].URL)
	assert.Equal(t, "2026-09-30T00:00:00Z", parsed.Postings[0].Deadline)
	assert.Equal(t, "passed", parsed.Postings[1].FilterStatus)

	// Pretty printed for human review.
	assert.Contains(t, buf.String(), "\n  \"metadata\"")
}

func TestWriteJSONEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, nil, jobs.StatusPassed, exportedAt))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	postings, ok := parsed["postings"].([]any)
	require.True(t, ok, "postings must be an array, not null")
	assert.Empty(t, postings)
}
