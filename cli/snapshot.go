package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vehicles-dashboard/snapshot"
)

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand() *cobra.Command {
	var (
		baseURL string
		outDir  string
		settle  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Screenshot every tab of a running dashboard",
		Long: `Open each tab of a running dashboard in headless Chrome and save a
full-page screenshot per view. Start the dashboard with "serve" first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			if baseURL == "" {
				baseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
			}

			s := snapshot.New(snapshot.Options{
				BaseURL:        baseURL,
				OutDir:         outDir,
				Views:          profileOf(cfg).Views,
				ChromeBin:      cfg.ChromeBin,
				MaxConcurrency: cfg.MaxConcurrency,
				MaxRetries:     cfg.MaxRetries,
				Settle:         settle,
			}, logger)

			results, err := s.Capture(cmd.Context())
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					logger.Error("[snapshot] %s: %v", r.View, r.Err)
					continue
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Path)
			}
			if failed > 0 {
				return fmt.Errorf("snapshot: %d of %d views failed (run %s)", failed, len(results), s.RunID())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "dashboard URL (default: http://localhost:<port>)")
	cmd.Flags().StringVar(&outDir, "out", "snapshots", "output directory")
	cmd.Flags().DurationVar(&settle, "settle", 2*time.Second, "wait after a tab is visible before capturing")

	return cmd
}
