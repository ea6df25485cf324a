package cli

import (
	"github.com/spf13/cobra"

	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/services"
)

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	var states int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the headline figures of the dataset",
		Long:  `Print the listing count, price statistics, the most expensive models and the listings per state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			snap, err := loadSnapshot(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			svc := services.NewInsightService(logger)
			svc.Print(cmd.OutOrStdout(), svc.Generate(snap.Table), states)
			return nil
		},
	}

	cmd.Flags().IntVar(&states, "states", 15, "number of states to list (0 for all)")
	return cmd
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the raw data preview and column statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			snap, err := loadSnapshot(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			services.PrintPreview(cmd.OutOrStdout(), dashboard.RawPreview(snap.Table), rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 10, "rows of raw data to print (0 for the whole preview)")
	return cmd
}
