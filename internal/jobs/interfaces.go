package jobs

import (
	"context"
	"time"
)

// Repository persists postings and their filter dispositions.
type Repository interface {
	Exists(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, posting Posting) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status FilterStatus, reason string) error
	AllFingerprints(ctx context.Context) (map[string]bool, error)
	CountByStatus(ctx context.Context, status FilterStatus) (int, error)
	ListByStatus(ctx context.Context, status FilterStatus) ([]Posting, error)
}

// Reporter provides the aggregate views used by the status command.
type Reporter interface {
	CountByStatus(ctx context.Context, status FilterStatus) (int, error)
	SourceCounts(ctx context.Context) (map[string]int, error)
	LastScraped(ctx context.Context) (*time.Time, error)
}

// Fetcher performs a single logical HTTP retrieval with politeness and
// resilience policy applied.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// SourceAdapter turns fetched documents into raw postings. Implementations
// are thin; all transport policy lives behind the Fetcher.
type SourceAdapter interface {
	Name() string
	FetchRaw(ctx context.Context) ([]RawPosting, error)
}

// Classifier proposes a disposition from deterministic rules.
type Classifier interface {
	Classify(posting Posting) Decision
}

// Judge arbitrates postings the rules could not resolve.
type Judge interface {
	Judge(ctx context.Context, posting Posting) (Decision, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
