// Package cmd defines and implements the CLI commands for the jobscout
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/config"
	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/logging"
	"github.com/lpellaton/jobscout/internal/storage/postgres"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App bundles the services commands depend on. It is an interface so tests
// can inject a fake through the newApp factory.
type App interface {
	Close()
	Config() config.Config
	Logger() *zap.Logger
	Repository() jobs.Repository
	Reporter() jobs.Reporter
	InitSchema(ctx context.Context) error
}

type defaultApp struct {
	cfg    config.Config
	logger *zap.Logger
	store  *postgres.Repository
}

func (a *defaultApp) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}

func (a *defaultApp) Config() config.Config       { return a.cfg }
func (a *defaultApp) Logger() *zap.Logger         { return a.logger }
func (a *defaultApp) Repository() jobs.Repository { return a.store }
func (a *defaultApp) Reporter() jobs.Reporter     { return a.store }
func (a *defaultApp) InitSchema(ctx context.Context) error {
	return a.store.InitSchema(ctx)
}

// newApp is the application factory. A variable so tests can replace it.
var newApp = func(ctx context.Context) (App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	return &defaultApp{cfg: cfg, logger: logger, store: store}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobscout",
		Short: "Harvests and filters Swiss job postings for entry-level engineers.",
		Long: `jobscout collects job postings from configured sources, deduplicates
them, and classifies each one against location, language, experience,
discipline, and enrollment rules. Postings the rules cannot resolve can be
escalated to a language-model judgment service.`,

		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: environment only)")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
