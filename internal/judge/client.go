// Package judge arbitrates ambiguous postings through an external
// language-model judgment service.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/metrics"
)

const systemPrompt = `You are a job listing classifier. Determine if this job posting is suitable for an entry-level engineer (process, automation, or energy) in French-speaking Switzerland who can only work in English.

Respond ONLY with JSON: {"pass": true/false, "reason": "brief explanation"}`

// Config controls the judgment client.
type Config struct {
	Endpoint            string
	Model               string
	APIKey              string
	MaxDescriptionChars int
	Timeout             time.Duration
}

// Client calls the judgment service once per ambiguous posting. There is no
// local retry: a single failure is final for that posting in that run. A
// circuit breaker stops hammering a dead service across postings.
type Client struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[verdict]
	logger  *zap.Logger
}

type verdict struct {
	Pass   bool   `json:"pass"`
	Reason string `json:"reason"`
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.MaxDescriptionChars <= 0 {
		cfg.MaxDescriptionChars = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	settings := gobreaker.Settings{
		Name:    "judge",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("judge breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[verdict](settings),
		logger:  logger,
	}
}

// Judge asks the service to resolve the three dimensions the rules could
// not: language purity, entry-level fit, discipline fit. Any malformed or
// error response leaves the posting ambiguous; the fallback can only move a
// posting out of ambiguous, never silently force a decision on error.
func (c *Client) Judge(ctx context.Context, posting jobs.Posting) (jobs.Decision, error) {
	v, err := c.breaker.Execute(func() (verdict, error) {
		return c.call(ctx, posting)
	})
	if err != nil {
		metrics.ObserveJudge("error")
		c.logger.Warn("judgment call failed", zap.String("url", posting.URL), zap.Error(err))
		return jobs.Decision{
			Status: jobs.StatusAmbiguous,
			Reason: "judgment unavailable: " + err.Error(),
		}, fmt.Errorf("%w: %w", jobs.ErrJudgeUnavailable, err)
	}

	if v.Pass {
		metrics.ObserveJudge("passed")
		return jobs.Decision{Status: jobs.StatusPassed, Reason: ""}, nil
	}
	metrics.ObserveJudge("rejected")
	reason := v.Reason
	if reason == "" {
		reason = "judgment rejected"
	}
	return jobs.Decision{Status: jobs.StatusRejected, Reason: reason}, nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Client) call(ctx context.Context, posting jobs.Posting) (verdict, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: 256,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: c.buildPrompt(posting)},
		},
	})
	if err != nil {
		return verdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return verdict{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return verdict{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("failed to close judge response body", zap.Error(cerr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return verdict{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return verdict{}, fmt.Errorf("judge service returned %d", resp.StatusCode)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return verdict{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return verdict{}, fmt.Errorf("judge response has no content")
	}

	var v verdict
	text := strings.TrimSpace(parsed.Content[0].Text)
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return verdict{}, fmt.Errorf("judge verdict is not valid JSON: %w", err)
	}
	return v, nil
}

// buildPrompt assembles the bounded request: description truncated to the
// configured limit plus the identifying fields.
func (c *Client) buildPrompt(p jobs.Posting) string {
	desc := p.Description
	if len(desc) > c.cfg.MaxDescriptionChars {
		desc = desc[:c.cfg.MaxDescriptionChars]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", orNA(p.Title))
	fmt.Fprintf(&b, "Company: %s\n", orNA(p.Company))
	fmt.Fprintf(&b, "Location: %s, %s\n", orNA(p.City), orNA(p.Canton))
	fmt.Fprintf(&b, "Description: %s\n", orNA(desc))
	fmt.Fprintf(&b, "Qualifications: %s\n", orNA(p.Qualifications))
	fmt.Fprintf(&b, "Experience level: %s\n", orNA(p.ExperienceLevel))
	fmt.Fprintf(&b, "Language requirements: %s\n", orNA(p.LanguageRequirements))
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
