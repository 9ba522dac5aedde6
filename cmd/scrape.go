package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/metrics"
)

func newScrapeCmd() *cobra.Command {
	var (
		sourceNames []string
		allSources  bool
		withJudge   bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Harvests postings from the configured sources and classifies them",
		Long: `Runs every configured source adapter (or the subset named with --source),
normalizes and deduplicates the collected postings, and classifies each new
one. With --llm, postings the rules cannot resolve are escalated to the
judgment service.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			if allSources && len(sourceNames) > 0 {
				return fmt.Errorf("--all and --source are mutually exclusive")
			}
			return runScrape(cmd.Context(), sourceNames, withJudge)
		},
	}

	cmd.Flags().StringSliceVar(&sourceNames, "source", nil, "run only the named sources (repeatable)")
	cmd.Flags().BoolVar(&allSources, "all", false, "run every configured source (the default)")
	cmd.Flags().BoolVar(&withJudge, "llm", false, "escalate ambiguous postings to the judgment service")
	return cmd
}

func runScrape(ctx context.Context, sourceNames []string, withJudge bool) error {
	appInstance, err := resolveApp(ctx)
	if err != nil {
		return err
	}
	cfg := appInstance.Config()
	logger := appInstance.Logger()

	metrics.Init()
	if ops := metrics.NewServer(cfg.Metrics.ListenAddr, logger); ops != nil {
		ops.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ops.Shutdown(shutdownCtx); err != nil {
				logger.Warn("ops server shutdown failed", zap.Error(err))
			}
		}()
	}

	var arbiter jobs.Judge
	if withJudge {
		arbiter, err = buildJudge(cfg, logger)
		if err != nil {
			return err
		}
	}

	fetcher := buildFetcher(cfg, logger)
	adapters, err := buildAdapters(cfg, fetcher, logger, sourceNames)
	if err != nil {
		return err
	}
	if len(adapters) == 0 {
		return fmt.Errorf("no sources configured; add sources to the config file")
	}

	orchestrator, err := buildOrchestrator(appInstance, arbiter)
	if err != nil {
		return err
	}

	postings, harvest := orchestrator.Harvest(ctx, adapters)
	logger.Info("harvest complete",
		zap.Strings("succeeded", harvest.SourcesSucceeded),
		zap.Strings("failed", harvest.SourcesFailed),
		zap.Int("collected", harvest.Collected),
	)

	summary, err := orchestrator.Run(ctx, postings)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	fmt.Printf("Run %s: %d collected from %d source(s)\n",
		summary.RunID, harvest.Collected, len(harvest.SourcesSucceeded))
	if len(harvest.SourcesFailed) > 0 {
		fmt.Printf("Sources failed: %s\n", strings.Join(harvest.SourcesFailed, ", "))
	}
	printSummary(summary)
	return nil
}
