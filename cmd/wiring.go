package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/classify"
	"github.com/lpellaton/jobscout/internal/clock/system"
	"github.com/lpellaton/jobscout/internal/config"
	"github.com/lpellaton/jobscout/internal/fetch"
	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/judge"
	"github.com/lpellaton/jobscout/internal/normalize"
	"github.com/lpellaton/jobscout/internal/pipeline"
	"github.com/lpellaton/jobscout/internal/sources"
)

func buildFetcher(cfg config.Config, logger *zap.Logger) *fetch.Fetcher {
	userAgent := ""
	if len(cfg.Crawler.UserAgents) > 0 {
		userAgent = cfg.Crawler.UserAgents[0]
	}
	robots := fetch.NewRobotsPolicy(cfg.Crawler.RespectRobots, userAgent, logger)
	gate := fetch.NewDomainGate(cfg.RequestDelay())
	return fetch.New(fetch.Config{
		UserAgents:  cfg.Crawler.UserAgents,
		Delay:       cfg.RequestDelay(),
		Timeout:     cfg.FetchTimeout(),
		MaxAttempts: cfg.HTTP.MaxAttempts,
		BackoffBase: cfg.BackoffBase(),
	}, robots, gate, logger)
}

// buildAdapters instantiates every configured source, optionally filtered
// to the named subset.
func buildAdapters(cfg config.Config, fetcher jobs.Fetcher, logger *zap.Logger, only []string) ([]jobs.SourceAdapter, error) {
	var all []jobs.SourceAdapter

	for _, feed := range cfg.Sources.RSS {
		if feed.Name == "" || feed.URL == "" {
			return nil, fmt.Errorf("rss source needs both name and url")
		}
		all = append(all, sources.NewRSS(feed.Name, feed.URL, fetcher))
	}

	if cfg.Sources.Jobup.Enabled {
		all = append(all, sources.NewJobup(sources.JobupConfig{
			BaseURL:  cfg.Sources.Jobup.BaseURL,
			Query:    cfg.Sources.Jobup.Query,
			Location: cfg.Sources.Jobup.Location,
			MaxPages: cfg.Sources.Jobup.MaxPages,
		}, fetcher, logger))
	}

	userAgent := ""
	if len(cfg.Crawler.UserAgents) > 0 {
		userAgent = cfg.Crawler.UserAgents[0]
	}
	for _, page := range cfg.Sources.CareerPages {
		if page.Name == "" || page.URL == "" {
			return nil, fmt.Errorf("career page source needs both name and url")
		}
		all = append(all, sources.NewCareerPage(sources.CareerPageConfig{
			Name:                page.Name,
			Company:             page.Company,
			URL:                 page.URL,
			ItemSelector:        page.ItemSelector,
			TitleSelector:       page.TitleSelector,
			LinkSelector:        page.LinkSelector,
			LocationSelector:    page.LocationSelector,
			DescriptionSelector: page.DescriptionSelector,
		}, sources.CareerPageOptions{
			UserAgent:     userAgent,
			Delay:         cfg.RequestDelay(),
			Timeout:       cfg.FetchTimeout(),
			RespectRobots: cfg.Crawler.RespectRobots,
		}, logger))
	}

	if len(only) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}
	var picked []jobs.SourceAdapter
	for _, adapter := range all {
		if wanted[adapter.Name()] {
			picked = append(picked, adapter)
			delete(wanted, adapter.Name())
		}
	}
	for name := range wanted {
		return nil, fmt.Errorf("unknown source %q", name)
	}
	return picked, nil
}

func buildJudge(cfg config.Config, logger *zap.Logger) (jobs.Judge, error) {
	if err := cfg.ValidateJudge(); err != nil {
		return nil, err
	}
	return judge.New(judge.Config{
		Endpoint:            cfg.Judge.Endpoint,
		Model:               cfg.Judge.Model,
		APIKey:              cfg.Judge.APIKey,
		MaxDescriptionChars: cfg.Judge.MaxDescriptionChars,
		Timeout:             cfg.JudgeTimeout(),
	}, logger), nil
}

func printSummary(summary jobs.Summary) {
	fmt.Printf("Passed: %d  Rejected: %d  Ambiguous: %d  Duplicates: %d  Errors: %d\n",
		summary.Passed, summary.Rejected, summary.Ambiguous, summary.Duplicates, summary.Errors)
}

func buildOrchestrator(appInstance App, arbiter jobs.Judge) (*pipeline.Orchestrator, error) {
	cfg := appInstance.Config()
	engine, err := classify.NewEngine(cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}
	normalizer := normalize.New(cfg.Filter.Cities, system.New())
	return pipeline.New(
		appInstance.Repository(),
		engine,
		arbiter,
		normalizer,
		cfg.Crawler.Concurrency,
		appInstance.Logger(),
	), nil
}
