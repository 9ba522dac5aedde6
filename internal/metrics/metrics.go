// Package metrics exposes Prometheus collectors for the jobscout pipeline.
package metrics

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchRequestsTotal    *prometheus.CounterVec
	postingsTotal         *prometheus.CounterVec
	judgeCallsTotal       *prometheus.CounterVec
	rateLimitDelaySeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		fetchRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobscout_fetch_requests_total",
				Help: "Total fetch attempts, labeled by domain and outcome.",
			},
			[]string{"domain", "outcome"},
		)

		postingsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobscout_postings_total",
				Help: "Postings processed by the pipeline, labeled by source and disposition.",
			},
			[]string{"source", "disposition"},
		)

		judgeCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobscout_judge_calls_total",
				Help: "Judgment fallback calls, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		rateLimitDelaySeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobscout_rate_limit_delay_seconds",
				Help:    "Histogram of per-domain politeness wait durations.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"domain"},
		)
	})
}

// SanitizeDomain extracts a lowercase hostname from a URL, or "unknown".
func SanitizeDomain(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler exposing the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch counts one fetch attempt for a domain.
func ObserveFetch(domain, outcome string) {
	if fetchRequestsTotal == nil {
		return
	}
	fetchRequestsTotal.WithLabelValues(strings.ToLower(domain), outcome).Inc()
}

// ObservePosting counts one posting disposition.
func ObservePosting(source, disposition string) {
	if postingsTotal == nil {
		return
	}
	postingsTotal.WithLabelValues(source, disposition).Inc()
}

// ObserveJudge counts one judgment fallback call.
func ObserveJudge(outcome string) {
	if judgeCallsTotal == nil {
		return
	}
	judgeCallsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRateLimitDelay records the duration of a politeness wait.
func ObserveRateLimitDelay(domain string, duration time.Duration) {
	if rateLimitDelaySeconds == nil {
		return
	}
	rateLimitDelaySeconds.WithLabelValues(domain).Observe(duration.Seconds())
}
