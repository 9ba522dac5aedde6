package jobs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lpellaton/jobscout/internal/jobs"
)

func TestFetchErrorFormatting(t *testing.T) {
	t.Parallel()

	withStatus := &jobs.FetchError{URL: "https://example.com", StatusCode: 503, Attempts: 3}
	assert.Equal(t, "fetch https://example.com: status 503 after 3 attempt(s)", withStatus.Error())

	cause := errors.New("connection refused")
	withErr := &jobs.FetchError{URL: "https://example.com", Attempts: 2, Err: cause}
	assert.Contains(t, withErr.Error(), "connection refused")
	assert.ErrorIs(t, withErr, cause)
}

func TestSummaryTotal(t *testing.T) {
	t.Parallel()

	s := jobs.Summary{Passed: 1, Rejected: 2, Ambiguous: 3, Duplicates: 4, Errors: 5}
	assert.Equal(t, 15, s.Total())
}
