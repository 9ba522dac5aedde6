// Package config loads and validates jobscout configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Sources SourcesConfig `mapstructure:"sources"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Judge   JudgeConfig   `mapstructure:"judge"`
	DB      DBConfig      `mapstructure:"db"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig governs politeness and harvest behavior.
type CrawlerConfig struct {
	Concurrency   int      `mapstructure:"concurrency"`
	DelaySeconds  int      `mapstructure:"delay_seconds"`
	RespectRobots bool     `mapstructure:"respect_robots"`
	UserAgents    []string `mapstructure:"user_agents"`
}

// SourcesConfig declares the posting sources the harvest phase runs.
type SourcesConfig struct {
	RSS         []RSSFeedConfig    `mapstructure:"rss"`
	Jobup       JobupConfig        `mapstructure:"jobup"`
	CareerPages []CareerPageConfig `mapstructure:"career_pages"`
}

// RSSFeedConfig is one syndicated feed of postings.
type RSSFeedConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// JobupConfig drives the jobup.ch search adapter.
type JobupConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	Query    string `mapstructure:"query"`
	Location string `mapstructure:"location"`
	MaxPages int    `mapstructure:"max_pages"`
}

// CareerPageConfig describes one company career page scraped with CSS
// selectors. Company applies to every posting from the page.
type CareerPageConfig struct {
	Name                string `mapstructure:"name"`
	Company             string `mapstructure:"company"`
	URL                 string `mapstructure:"url"`
	ItemSelector        string `mapstructure:"item_selector"`
	TitleSelector       string `mapstructure:"title_selector"`
	LinkSelector        string `mapstructure:"link_selector"`
	LocationSelector    string `mapstructure:"location_selector"`
	DescriptionSelector string `mapstructure:"description_selector"`
}

// HTTPConfig configures fetch timeout and retry behavior.
type HTTPConfig struct {
	TimeoutSeconds     int `mapstructure:"timeout_seconds"`
	MaxAttempts        int `mapstructure:"max_attempts"`
	BackoffBaseSeconds int `mapstructure:"backoff_base_seconds"`
}

// FilterConfig holds the rule-engine pattern sets and thresholds.
type FilterConfig struct {
	Cantons            []string            `mapstructure:"cantons"`
	Cities             map[string]string   `mapstructure:"cities"`
	DisciplineKeywords map[string][]string `mapstructure:"discipline_keywords"`
	FrenchPatterns     []string            `mapstructure:"french_patterns"`
	GermanPatterns     []string            `mapstructure:"german_patterns"`
	SeniorPatterns     []string            `mapstructure:"senior_patterns"`
	EntryLevelPatterns []string            `mapstructure:"entry_level_patterns"`
	EnrollmentPatterns []string            `mapstructure:"enrollment_patterns"`
	InternshipPatterns []string            `mapstructure:"internship_patterns"`
	MinDescriptionLen  int                 `mapstructure:"min_description_len"`
	MaxExperienceYears int                 `mapstructure:"max_experience_years"`
}

// JudgeConfig configures the external judgment service client.
type JudgeConfig struct {
	Endpoint            string `mapstructure:"endpoint"`
	Model               string `mapstructure:"model"`
	APIKey              string `mapstructure:"api_key"`
	MaxDescriptionChars int    `mapstructure:"max_description_chars"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// MetricsConfig controls the optional ops endpoint. Empty addr disables it.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// ExportConfig sets where report files land.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.concurrency", 4)
	v.SetDefault("crawler.delay_seconds", 2)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("crawler.user_agents", defaultUserAgents)
	v.SetDefault("sources.jobup.base_url", "https://www.jobup.ch")
	v.SetDefault("sources.jobup.max_pages", 5)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_attempts", 3)
	v.SetDefault("http.backoff_base_seconds", 1)
	v.SetDefault("filter.cantons", []string{"GE", "VD", "VS", "NE", "JU", "FR"})
	v.SetDefault("filter.cities", defaultCities)
	v.SetDefault("filter.discipline_keywords", defaultDisciplineKeywords)
	v.SetDefault("filter.french_patterns", defaultFrenchPatterns)
	v.SetDefault("filter.german_patterns", defaultGermanPatterns)
	v.SetDefault("filter.senior_patterns", defaultSeniorPatterns)
	v.SetDefault("filter.entry_level_patterns", defaultEntryLevelPatterns)
	v.SetDefault("filter.enrollment_patterns", defaultEnrollmentPatterns)
	v.SetDefault("filter.internship_patterns", defaultInternshipPatterns)
	v.SetDefault("filter.min_description_len", 50)
	v.SetDefault("filter.max_experience_years", 5)
	v.SetDefault("judge.endpoint", "https://api.anthropic.com/v1/messages")
	v.SetDefault("judge.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("judge.max_description_chars", 2000)
	v.SetDefault("judge.timeout_seconds", 60)
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("export.output_dir", "output")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.Crawler.DelaySeconds < 0 {
		return fmt.Errorf("crawler.delay_seconds must be >= 0")
	}
	if len(c.Crawler.UserAgents) == 0 {
		return fmt.Errorf("crawler.user_agents must not be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be > 0")
	}
	if c.Filter.MinDescriptionLen < 0 {
		return fmt.Errorf("filter.min_description_len must be >= 0")
	}
	if c.Filter.MaxExperienceYears <= 0 {
		return fmt.Errorf("filter.max_experience_years must be > 0")
	}
	return nil
}

// ValidateJudge runs at startup when the fallback is explicitly requested;
// missing credentials are fatal before the run begins, never mid-run.
func (c Config) ValidateJudge() error {
	if c.Judge.APIKey == "" {
		return fmt.Errorf("judge.api_key is required when the judgment fallback is enabled")
	}
	if c.Judge.Model == "" {
		return fmt.Errorf("judge.model is required when the judgment fallback is enabled")
	}
	return nil
}

// RequestDelay converts the configured per-domain delay into a duration.
func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.Crawler.DelaySeconds) * time.Second
}

// FetchTimeout converts the configured request timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// JudgeTimeout converts the configured judgment timeout into a duration.
func (c Config) JudgeTimeout() time.Duration {
	return time.Duration(c.Judge.TimeoutSeconds) * time.Second
}

// BackoffBase converts the configured backoff base into a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.HTTP.BackoffBaseSeconds) * time.Second
}
