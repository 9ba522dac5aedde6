// Package export writes filtered postings to CSV and JSON report files.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lpellaton/jobscout/internal/jobs"
)

// Format selects the output encoding.
type Format string

// Supported output encodings.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
	}
}

// DefaultPath builds the conventional output path for a status export,
// e.g. output/jobs_passed_2026-08-24.csv.
func DefaultPath(dir string, status jobs.FilterStatus, format Format, now time.Time) string {
	name := fmt.Sprintf("jobs_%s_%s.%s", status, now.Format("2006-01-02"), format)
	return filepath.Join(dir, name)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
