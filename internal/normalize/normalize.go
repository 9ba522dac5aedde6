// Package normalize maps raw scraped postings into canonical Postings.
package normalize

import (
	"strings"
	"time"

	"github.com/lpellaton/jobscout/internal/jobs"
)

// Normalizer fills canonical fields from raw adapter output: canton lookup
// from free-text locations, scrape timestamps, and initial filter state.
type Normalizer struct {
	cities map[string]string
	clock  jobs.Clock
}

// New builds a Normalizer with the city-to-canton table.
func New(cities map[string]string, clock jobs.Clock) *Normalizer {
	return &Normalizer{
		cities: cities,
		clock:  clock,
	}
}

// Normalize converts a RawPosting into a Posting. DateScraped is set once
// here and never changes afterwards; the filter status starts unprocessed.
func (n *Normalizer) Normalize(raw jobs.RawPosting) jobs.Posting {
	city, canton := n.ResolveLocation(raw.Location)
	return jobs.Posting{
		URL:            strings.TrimSpace(raw.URL),
		Title:          strings.TrimSpace(raw.Title),
		Company:        strings.TrimSpace(raw.Company),
		City:           city,
		Canton:         canton,
		Description:    strings.TrimSpace(raw.Description),
		Qualifications: strings.TrimSpace(raw.Qualifications),
		DatePosted:     parseDate(raw.DatePosted),
		Deadline:       parseDate(raw.Deadline),
		Source:         raw.Source,
		DateScraped:    n.clock.Now(),
		FilterStatus:   jobs.StatusUnprocessed,
	}
}

// ResolveLocation maps a free-text location string to (city, canton) via the
// static city table. Unknown locations resolve to empty strings; cantons
// outside Romandie still resolve so the classifier can reject them by name.
func (n *Normalizer) ResolveLocation(raw string) (string, string) {
	if raw == "" {
		return "", ""
	}
	lowered := strings.ToLower(raw)
	for city, canton := range n.cities {
		if strings.Contains(lowered, strings.ToLower(city)) {
			return city, canton
		}
	}
	return "", ""
}

// ResolveCanton returns the canton for a known city name, or empty.
func (n *Normalizer) ResolveCanton(city string) string {
	if canton, ok := n.cities[city]; ok {
		return canton
	}
	for known, canton := range n.cities {
		if strings.EqualFold(known, city) {
			return canton
		}
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006",
	time.RFC1123Z,
	time.RFC1123,
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
