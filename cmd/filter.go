package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lpellaton/jobscout/internal/jobs"
)

func newFilterCmd() *cobra.Command {
	var (
		withJudge bool
		statusArg string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Re-runs classification over stored postings",
		Long: `Classifies stored postings without scraping anything. By default it
processes unprocessed postings; --status selects another disposition, for
example --status ambiguous after enabling the judgment service with --llm.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			status, err := parseStatus(statusArg)
			if err != nil {
				return err
			}

			var arbiter jobs.Judge
			if withJudge {
				arbiter, err = buildJudge(appInstance.Config(), appInstance.Logger())
				if err != nil {
					return err
				}
			}

			orchestrator, err := buildOrchestrator(appInstance, arbiter)
			if err != nil {
				return err
			}

			summary, err := orchestrator.Reclassify(cmd.Context(), status)
			if err != nil {
				return fmt.Errorf("reclassify: %w", err)
			}

			fmt.Printf("Run %s: reclassified %s postings\n", summary.RunID, status)
			printSummary(summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withJudge, "llm", false, "escalate ambiguous postings to the judgment service")
	cmd.Flags().StringVar(&statusArg, "status", string(jobs.StatusUnprocessed), "disposition to reprocess (unprocessed, ambiguous, passed, rejected)")
	return cmd
}

func parseStatus(s string) (jobs.FilterStatus, error) {
	switch status := jobs.FilterStatus(s); status {
	case jobs.StatusUnprocessed, jobs.StatusPassed, jobs.StatusRejected, jobs.StatusAmbiguous:
		return status, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}
