package jobs

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the pipeline.
var (
	// ErrPolicyDenied means robots rules disallow the URL. Callers skip,
	// never retry.
	ErrPolicyDenied = errors.New("crawl policy denies url")

	// ErrDuplicateURL is returned by Repository.Insert when the unique
	// constraint on url is violated. Treated as a duplicate, not a crash.
	ErrDuplicateURL = errors.New("posting url already exists")

	// ErrJudgeUnavailable means the judgment service call failed; the
	// posting stays ambiguous for this run.
	ErrJudgeUnavailable = errors.New("judgment service unavailable")
)

// FetchError is returned after the retry budget is exhausted or on a
// non-retryable HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d after %d attempt(s)", e.URL, e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("fetch %s after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
