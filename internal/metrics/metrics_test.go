package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellaton/jobscout/internal/metrics"
)

func TestSanitizeDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://www.Jobup.ch/en/jobs", "www.jobup.ch"},
		{"example.com/path", "example.com"},
		{"http://example.com:8080/x", "example.com"},
		{"", "unknown"},
		{"http://", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metrics.SanitizeDomain(tt.in), tt.in)
	}
}

func TestObserveBeforeInitIsNoop(t *testing.T) {
	// Must not panic when Init has not run.
	metrics.ObserveFetch("example.com", "ok")
	metrics.ObservePosting("rss", "passed")
	metrics.ObserveJudge("error")
	metrics.ObserveRateLimitDelay("example.com", time.Second)
}

func TestInitAndObserve(t *testing.T) {
	metrics.Init()
	metrics.Init() // idempotent

	metrics.ObserveFetch("Example.COM", "ok")
	metrics.ObservePosting("rss", "passed")
	metrics.ObserveJudge("passed")
	metrics.ObserveRateLimitDelay("example.com", 250*time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "jobscout_fetch_requests_total")
	assert.Contains(t, body, `domain="example.com"`)
	assert.Contains(t, body, "jobscout_postings_total")
}
