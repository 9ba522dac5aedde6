package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lpellaton/jobscout/internal/jobs"
)

type jsonEnvelope struct {
	Metadata jsonMetadata  `json:"metadata"`
	Postings []jsonPosting `json:"postings"`
}

type jsonMetadata struct {
	ExportedAt   string `json:"exported_at"`
	StatusFilter string `json:"status_filter"`
	Total        int    `json:"total"`
}

type jsonPosting struct {
	URL                  string `json:"url"`
	Title                string `json:"title"`
	Company              string `json:"company,omitempty"`
	City                 string `json:"city,omitempty"`
	Canton               string `json:"canton,omitempty"`
	Description          string `json:"description,omitempty"`
	Qualifications       string `json:"qualifications,omitempty"`
	LanguageRequirements string `json:"language_requirements,omitempty"`
	ExperienceLevel      string `json:"experience_level,omitempty"`
	Deadline             string `json:"deadline,omitempty"`
	DatePosted           string `json:"date_posted,omitempty"`
	Source               string `json:"source"`
	DateScraped          string `json:"date_scraped"`
	FilterStatus         string `json:"filter_status"`
	FilterReason         string `json:"filter_reason,omitempty"`
}

// WriteJSON emits postings inside a metadata envelope, pretty-printed for
// human review.
func WriteJSON(w io.Writer, postings []jobs.Posting, status jobs.FilterStatus, now time.Time) error {
	env := jsonEnvelope{
		Metadata: jsonMetadata{
			ExportedAt:   now.Format(time.RFC3339),
			StatusFilter: string(status),
			Total:        len(postings),
		},
		Postings: make([]jsonPosting, 0, len(postings)),
	}
	for _, p := range postings {
		env.Postings = append(env.Postings, jsonPosting{
			URL:                  p.URL,
			Title:                p.Title,
			Company:              p.Company,
			City:                 p.City,
			Canton:               p.Canton,
			Description:          p.Description,
			Qualifications:       p.Qualifications,
			LanguageRequirements: p.LanguageRequirements,
			ExperienceLevel:      p.ExperienceLevel,
			Deadline:             formatTime(p.Deadline),
			DatePosted:           formatTime(p.DatePosted),
			Source:               p.Source,
			DateScraped:          p.DateScraped.Format(time.RFC3339),
			FilterStatus:         string(p.FilterStatus),
			FilterReason:         p.FilterReason,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}
