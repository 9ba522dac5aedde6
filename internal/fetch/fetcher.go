// Package fetch implements the resilient HTTP retrieval engine every source
// adapter depends on: robots compliance, per-domain politeness, user-agent
// rotation, and bounded retry with exponential backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/metrics"
)

const maxBodyBytes = 5 << 20

// Config controls Fetcher behavior.
type Config struct {
	UserAgents  []string
	Delay       time.Duration
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
}

// Fetcher performs single logical retrievals with politeness and resilience
// policy. Safe for concurrent use; the domain gate serializes same-domain
// requests across all callers.
type Fetcher struct {
	cfg    Config
	client *http.Client
	agents *agentPool
	robots RobotsPolicy
	gate   *DomainGate
	logger *zap.Logger
}

// New builds a Fetcher.
func New(cfg Config, robots RobotsPolicy, gate *DomainGate, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		agents: newAgentPool(cfg.UserAgents),
		robots: robots,
		gate:   gate,
		logger: logger,
	}
}

// Fetch retrieves url. The crawl policy is consulted before any network
// call; a disallowed URL returns jobs.ErrPolicyDenied immediately. 429 and
// 5xx responses and transport timeouts are retried with exponential backoff
// up to the attempt budget; other 4xx responses fail at once.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	domain := parsed.Hostname()

	if !f.robots.Allowed(ctx, rawURL) {
		f.logger.Info("crawl policy denies url", zap.String("url", rawURL))
		metrics.ObserveFetch(domain, "policy_denied")
		return nil, fmt.Errorf("%w: %s", jobs.ErrPolicyDenied, rawURL)
	}

	var lastStatus int
	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		if err := f.gate.Wait(ctx, domain); err != nil {
			return nil, err
		}

		body, status, err := f.doRequest(ctx, rawURL)
		switch {
		case err == nil && status < 400:
			metrics.ObserveFetch(domain, "ok")
			return body, nil
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
			}
			if !isTransient(err) {
				metrics.ObserveFetch(domain, "error")
				return nil, &jobs.FetchError{URL: rawURL, Attempts: attempt, Err: err}
			}
			lastErr = err
			lastStatus = 0
		case status == http.StatusTooManyRequests || status >= 500:
			lastStatus = status
			lastErr = nil
		default:
			// 4xx other than 429: retrying cannot help.
			metrics.ObserveFetch(domain, "client_error")
			return nil, &jobs.FetchError{URL: rawURL, StatusCode: status, Attempts: attempt}
		}

		if attempt < f.cfg.MaxAttempts {
			backoff := f.cfg.BackoffBase << (attempt - 1)
			f.logger.Debug("fetch retry",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Int("status", lastStatus),
				zap.Duration("backoff", backoff),
			)
			if !pause(ctx, backoff) {
				return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
			}
		}
	}

	metrics.ObserveFetch(domain, "exhausted")
	return nil, &jobs.FetchError{
		URL:        rawURL,
		StatusCode: lastStatus,
		Attempts:   f.cfg.MaxAttempts,
		Err:        lastErr,
	}
}

func (f *Fetcher) doRequest(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.agents.Next())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Debug("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode >= 400 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// isTransient reports whether a transport error is worth another attempt.
// Timeouts count toward the retry budget like any 5xx; transient DNS
// failures and connection resets look identical at this level, so every
// network-shaped error qualifies. Context cancellation never does.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// pause waits for delay or until the context finishes. Returns false when
// the context ended first.
func pause(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
