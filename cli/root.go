// Package cli provides the command-line interface of the dashboard.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/config"
	"vehicles-dashboard/utils"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "vehicles-dashboard",
		Short: "Used vehicle listings dashboard",
		Long: `An interactive dashboard over the cleaned Craigslist Cars & Trucks
listings: price distribution, depreciation by age, listings per state,
price vs odometer and the most expensive models.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := utils.NewLoggerWithLevel(cfg.LogLevel)
			if err != nil {
				return apperrors.InvalidInput(fmt.Sprintf("config: log_level %q", cfg.LogLevel), err)
			}
			if cfg.File != "" {
				logger.Debug("[config] using %s", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./dashboard.yaml)")
	flags.String("data-path", "", "CSV file with the cleaned listings (default: vehicles_clean.csv)")
	flags.String("source", "", "listing source: csv, postgres, duckdb, sqlite or clickhouse")
	flags.String("dsn", "", "connection string of a SQL source")
	flags.String("table", "", "table holding the listings in a SQL source")
	flags.String("profile", "", "dashboard profile: classic or monthly")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Int("max-concurrency", 0, "parallel exports and browser tabs")

	_ = rootCmd.RegisterFlagCompletionFunc("profile", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"classic", "monthly"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("source", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"csv", "postgres", "duckdb", "sqlite", "clickhouse"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewPreviewCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewSnapshotCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *utils.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*utils.Logger); ok {
		return l
	}
	return utils.NewLogger()
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "vehicles-dashboard v%s\n", Version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built %s from %s\n", BuildDate, GitCommit)
		},
	}
}
