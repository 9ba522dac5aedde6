// Package jobs defines core types shared across subsystems.
package jobs

import "time"

// FilterStatus represents the classification state of a posting.
type FilterStatus string

// Filter status values persisted in the repository.
const (
	StatusUnprocessed FilterStatus = "unprocessed"
	StatusPassed      FilterStatus = "passed"
	StatusRejected    FilterStatus = "rejected"
	StatusAmbiguous   FilterStatus = "ambiguous"
)

// RomandieCantons is the fixed set of accepted canton codes.
var RomandieCantons = map[string]bool{
	"GE": true,
	"VD": true,
	"VS": true,
	"NE": true,
	"JU": true,
	"FR": true,
}

// RawPosting is the unstructured record produced by a source adapter.
// Fields may be partially populated; the normalizer fills defaults.
type RawPosting struct {
	Title          string
	Company        string
	Location       string
	Description    string
	Qualifications string
	DatePosted     string
	Deadline       string
	URL            string
	Source         string
}

// Posting is the canonical unit flowing through dedup, classification,
// and storage.
type Posting struct {
	ID                   int64
	URL                  string
	ContentFingerprint   string
	Title                string
	Company              string
	City                 string
	Canton               string
	Description          string
	Qualifications       string
	LanguageRequirements string
	ExperienceLevel      string
	Deadline             *time.Time
	DatePosted           *time.Time
	Source               string
	DateScraped          time.Time
	FilterStatus         FilterStatus
	FilterReason         string
}

// Decision is a proposed (status, reason) pair from the classifier or the
// judgment fallback. It never mutates storage; the orchestrator owns the
// lifecycle transition.
type Decision struct {
	Status FilterStatus
	Reason string
}

// Summary aggregates the outcome of one pipeline run. Counts partition the
// input postings; no posting is counted twice.
type Summary struct {
	RunID      string
	Passed     int
	Rejected   int
	Ambiguous  int
	Duplicates int
	Errors     int
}

// Total returns the number of postings accounted for.
func (s Summary) Total() int {
	return s.Passed + s.Rejected + s.Ambiguous + s.Duplicates + s.Errors
}

// HarvestSummary reports the outcome of the source harvest phase.
type HarvestSummary struct {
	SourcesSucceeded []string
	SourcesFailed    []string
	Collected        int
}
