package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lpellaton/jobscout/internal/export"
	"github.com/lpellaton/jobscout/internal/jobs"
)

func newExportCmd() *cobra.Command {
	var (
		formatArg string
		statusArg string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Writes stored postings to a CSV or JSON report file",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			format, err := export.ParseFormat(formatArg)
			if err != nil {
				return err
			}
			status, err := parseStatus(statusArg)
			if err != nil {
				return err
			}

			postings, err := appInstance.Repository().ListByStatus(cmd.Context(), status)
			if err != nil {
				return fmt.Errorf("load postings: %w", err)
			}

			now := time.Now().UTC()
			path := output
			if path == "" {
				path = export.DefaultPath(appInstance.Config().Export.OutputDir, status, format, now)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() {
				_ = f.Close()
			}()

			switch format {
			case export.FormatCSV:
				err = export.WriteCSV(f, postings, status, now)
			case export.FormatJSON:
				err = export.WriteJSON(f, postings, status, now)
			}
			if err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output file: %w", err)
			}

			fmt.Printf("Exported %d %s posting(s) to %s\n", len(postings), status, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatArg, "format", string(export.FormatCSV), "output format (csv or json)")
	cmd.Flags().StringVar(&statusArg, "status", string(jobs.StatusPassed), "disposition to export")
	cmd.Flags().StringVar(&output, "output", "", "output file path (default: <output_dir>/jobs_<status>_<date>.<format>)")
	return cmd
}
