package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/lpellaton/jobscout/internal/jobs"
)

var statusOrder = []jobs.FilterStatus{
	jobs.StatusUnprocessed,
	jobs.StatusPassed,
	jobs.StatusRejected,
	jobs.StatusAmbiguous,
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Shows posting counts by disposition and source",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			reporter := appInstance.Reporter()

			total := 0
			fmt.Println("Postings by status:")
			for _, status := range statusOrder {
				n, err := reporter.CountByStatus(cmd.Context(), status)
				if err != nil {
					return fmt.Errorf("count %s: %w", status, err)
				}
				total += n
				fmt.Printf("  %-12s %d\n", status, n)
			}
			fmt.Printf("  %-12s %d\n", "total", total)

			counts, err := reporter.SourceCounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("source counts: %w", err)
			}
			if len(counts) > 0 {
				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				sort.Strings(names)
				fmt.Println("Postings by source:")
				for _, name := range names {
					fmt.Printf("  %-12s %d\n", name, counts[name])
				}
			}

			last, err := reporter.LastScraped(cmd.Context())
			if err != nil {
				return fmt.Errorf("last scraped: %w", err)
			}
			if last != nil {
				fmt.Printf("Last scraped: %s\n", last.Format(time.RFC3339))
			} else {
				fmt.Println("Last scraped: never")
			}
			return nil
		},
	}
}
