package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/models"
	"vehicles-dashboard/render"
	"vehicles-dashboard/utils"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	OutDir string
	Views  []string
	Width  int
	Height int
}

type exportResult struct {
	View models.ViewID
	Path string
	Err  error
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every chart of the profile to PNG files",
		Long: `Render the charts of the configured profile with their default widget
values and write one PNG per view to the output directory.`,
		Example: `  # All charts of the classic profile
  vehicles-dashboard export --out charts

  # Only the price histogram and the state chart, larger
  vehicles-dashboard export --views price,geography --width 1600 --height 900`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			views, err := exportViews(profileOf(cfg), opts.Views)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			results := exportCharts(snap.Table, views, dashboard.DefaultState(), opts, cfg.MaxConcurrency, logger)
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					logger.Error("[export] %s: %v", r.View, r.Err)
					continue
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Path)
			}
			if failed > 0 {
				return fmt.Errorf("export: %d of %d charts failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", "charts", "output directory")
	cmd.Flags().StringSliceVar(&opts.Views, "views", nil, "views to export (default: every chart of the profile)")
	cmd.Flags().IntVar(&opts.Width, "width", render.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", render.DefaultHeight, "image height in pixels")

	return cmd
}

// exportViews resolves the requested view names against the profile.
func exportViews(p dashboard.Profile, names []string) ([]models.ViewID, error) {
	if len(names) == 0 {
		return p.Charts(), nil
	}
	views := make([]models.ViewID, 0, len(names))
	for _, n := range names {
		v := models.ViewID(n)
		if v == models.ViewPreview || !p.Has(v) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("export: %q is not a chart of the %s profile", n, p.Name), nil)
		}
		views = append(views, v)
	}
	return views, nil
}

// exportCharts renders views on a worker pool and writes <view>.png files
// into opts.OutDir. Results come back in the order of views.
func exportCharts(t *models.Table, views []models.ViewID, state dashboard.State, opts *ExportOptions, workers int, logger *utils.Logger) []exportResult {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		results := make([]exportResult, len(views))
		for i, v := range views {
			results[i] = exportResult{View: v, Err: fmt.Errorf("export: create %s: %w", opts.OutDir, err)}
		}
		return results
	}

	pool := utils.NewWorkerPool(workers, 0)
	return utils.Collect(pool, views, func(v models.ViewID) exportResult {
		path, err := exportChart(t, v, state, opts)
		if err == nil {
			logger.Debug("[export] wrote %s", path)
		}
		return exportResult{View: v, Path: path, Err: err}
	})
}

func exportChart(t *models.Table, view models.ViewID, state dashboard.State, opts *ExportOptions) (string, error) {
	spec, err := dashboard.Render(view, t, state)
	if err != nil {
		return "", err
	}

	path := filepath.Join(opts.OutDir, string(view)+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := render.PNG(f, spec, opts.Width, opts.Height); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("export: draw %s: %w", view, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("export: close %s: %w", path, err)
	}
	return path, nil
}
