package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/lpellaton/jobscout/internal/jobs"
)

var csvHeader = []string{
	"url", "title", "company", "city", "canton",
	"description", "qualifications", "language_requirements", "experience_level",
	"deadline", "date_posted", "source", "date_scraped",
	"filter_status", "filter_reason",
}

// WriteCSV emits postings as CSV preceded by `#` metadata comment lines
// (export time, status filter, row count). Spreadsheet tools skip the
// comments; scripts can parse them for provenance.
func WriteCSV(w io.Writer, postings []jobs.Posting, status jobs.FilterStatus, now time.Time) error {
	if _, err := fmt.Fprintf(w, "# Exported: %s\n", now.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if _, err := fmt.Fprintf(w, "# Status filter: %s\n", status); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if _, err := fmt.Fprintf(w, "# Total: %d\n", len(postings)); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range postings {
		record := []string{
			p.URL, p.Title, p.Company, p.City, p.Canton,
			p.Description, p.Qualifications, p.LanguageRequirements, p.ExperienceLevel,
			formatTime(p.Deadline), formatTime(p.DatePosted), p.Source,
			p.DateScraped.Format(time.RFC3339),
			string(p.FilterStatus), p.FilterReason,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", p.URL, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
