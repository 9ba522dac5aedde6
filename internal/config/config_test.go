package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellaton/jobscout/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Crawler.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.RequestDelay())
	assert.True(t, cfg.Crawler.RespectRobots)
	assert.Len(t, cfg.Crawler.UserAgents, 5)

	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 3, cfg.HTTP.MaxAttempts)
	assert.Equal(t, time.Second, cfg.BackoffBase())

	assert.ElementsMatch(t, []string{"GE", "VD", "VS", "NE", "JU", "FR"}, cfg.Filter.Cantons)
	assert.Equal(t, "GE", cfg.Filter.Cities["Geneva"])
	assert.Equal(t, "BE", cfg.Filter.Cities["Bienne"])
	assert.Equal(t, 50, cfg.Filter.MinDescriptionLen)
	assert.Equal(t, 5, cfg.Filter.MaxExperienceYears)

	assert.Equal(t, "https://api.anthropic.com/v1/messages", cfg.Judge.Endpoint)
	assert.Equal(t, 2000, cfg.Judge.MaxDescriptionChars)
	assert.Equal(t, 60*time.Second, cfg.JudgeTimeout())

	assert.Equal(t, "https://www.jobup.ch", cfg.Sources.Jobup.BaseURL)
	assert.Equal(t, 5, cfg.Sources.Jobup.MaxPages)
	assert.Equal(t, "output", cfg.Export.OutputDir)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
crawler:
  concurrency: 8
  delay_seconds: 5
sources:
  rss:
    - name: epfl
      url: https://example.com/feed.xml
  jobup:
    enabled: true
    query: process engineer
db:
  dsn: postgres://localhost/jobscout_test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Crawler.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.RequestDelay())
	require.Len(t, cfg.Sources.RSS, 1)
	assert.Equal(t, "epfl", cfg.Sources.RSS[0].Name)
	assert.True(t, cfg.Sources.Jobup.Enabled)
	assert.Equal(t, "process engineer", cfg.Sources.Jobup.Query)
	assert.Equal(t, "postgres://localhost/jobscout_test", cfg.DB.DSN)

	// Untouched sections keep their defaults.
	assert.Equal(t, 3, cfg.HTTP.MaxAttempts)
	assert.Equal(t, 5, cfg.Filter.MaxExperienceYears)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base, err := config.Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero concurrency", func(c *config.Config) { c.Crawler.Concurrency = 0 }},
		{"negative delay", func(c *config.Config) { c.Crawler.DelaySeconds = -1 }},
		{"no user agents", func(c *config.Config) { c.Crawler.UserAgents = nil }},
		{"zero timeout", func(c *config.Config) { c.HTTP.TimeoutSeconds = 0 }},
		{"zero attempts", func(c *config.Config) { c.HTTP.MaxAttempts = 0 }},
		{"negative min description", func(c *config.Config) { c.Filter.MinDescriptionLen = -1 }},
		{"zero experience cutoff", func(c *config.Config) { c.Filter.MaxExperienceYears = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateJudge(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateJudge(), "missing api key must fail fast")

	cfg.Judge.APIKey = "sk-test"
	assert.NoError(t, cfg.ValidateJudge())

	cfg.Judge.Model = ""
	assert.Error(t, cfg.ValidateJudge())
}
