// Package snapshot captures screenshots of a running dashboard with a
// headless Chrome, one image per view tab.
package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"vehicles-dashboard/models"
	"vehicles-dashboard/utils"
)

// Options configures a capture run.
type Options struct {
	BaseURL        string
	OutDir         string
	Views          []models.ViewID
	ChromeBin      string
	MaxConcurrency int
	MaxRetries     int
	Width          int
	Height         int
	// Settle is how long to wait after the tab is visible for charts to draw.
	Settle time.Duration
}

// Result is the outcome for one view.
type Result struct {
	View models.ViewID
	Path string
	Err  error
}

// Snapshotter drives the browser.
type Snapshotter struct {
	opts   Options
	logger *utils.Logger
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig
	runID  string
}

// New creates a ready-to-use Snapshotter.
func New(opts Options, logger *utils.Logger) *Snapshotter {
	if opts.Width <= 0 {
		opts.Width = 1400
	}
	if opts.Height <= 0 {
		opts.Height = 1000
	}
	if opts.Settle <= 0 {
		opts.Settle = 2 * time.Second
	}
	return &Snapshotter{
		opts:   opts,
		logger: logger,
		pool:   utils.NewWorkerPool(opts.MaxConcurrency, 250*time.Millisecond),
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    15 * time.Second,
			Logger:      logger,
		},
		runID: uuid.NewString()[:8],
	}
}

// RunID identifies the files written by this Snapshotter.
func (s *Snapshotter) RunID() string {
	return s.runID
}

// Capture screenshots every configured view. Failures are reported per
// view; the returned error is set only when the browser cannot start or
// the output directory cannot be created.
func (s *Snapshotter) Capture(ctx context.Context) ([]Result, error) {
	if err := os.MkdirAll(s.opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}

	chromeBin := findChromeBinary(s.opts.ChromeBin)
	s.logger.Info("[snapshot] Using browser binary: %s", orDefault(chromeBin, "(chromedp default)"))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(s.opts.Width, s.opts.Height),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// start the browser once so that tabs share it
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	results := utils.Collect(s.pool, s.opts.Views, func(view models.ViewID) Result {
		path, err := s.captureView(browserCtx, view)
		if err != nil {
			s.logger.Warn("[snapshot] %s failed: %v", view, err)
		} else {
			s.logger.Info("[snapshot] %s -> %s", view, path)
		}
		return Result{View: view, Path: path, Err: err}
	})
	return results, nil
}

func (s *Snapshotter) captureView(browserCtx context.Context, view models.ViewID) (string, error) {
	target := ViewURL(s.opts.BaseURL, view)
	var shot []byte

	err := s.retry.Do(browserCtx, "snapshot-"+string(view), func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(ctx,
			chromedp.EmulateViewport(int64(s.opts.Width), int64(s.opts.Height)),
			chromedp.Navigate(target),
			chromedp.WaitVisible("#panel-"+string(view), chromedp.ByQuery),
			chromedp.Sleep(s.opts.Settle),
			chromedp.FullScreenshot(&shot, 100),
		)
	})
	if err != nil {
		return "", fmt.Errorf("capture %s: %w", target, err)
	}

	path := filepath.Join(s.opts.OutDir, FileName(s.runID, view))
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ViewURL is the address of the page with the given tab selected.
func ViewURL(base string, view models.ViewID) string {
	return strings.TrimRight(base, "/") + "/?tab=" + url.QueryEscape(string(view))
}

// FileName names the screenshot of a view.
func FileName(runID string, view models.ViewID) string {
	return fmt.Sprintf("%s-%s.png", runID, view)
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
