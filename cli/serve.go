package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"vehicles-dashboard/cache"
	"vehicles-dashboard/cache/redis"
	"vehicles-dashboard/config"
	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/render"
	"vehicles-dashboard/services"
	"vehicles-dashboard/storage"
	"vehicles-dashboard/telemetry"
	"vehicles-dashboard/utils"
	"vehicles-dashboard/web"
)

// startTimeout bounds the initial dataset load.
const startTimeout = 5 * time.Minute

var errServerStopped = errors.New("serve: server stopped unexpectedly")

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard",
		Long: `Load the listings once and serve the interactive dashboard.

With --watch the CSV file is watched and open pages reload when a new
version has been loaded.`,
		Example: `  # Serve the classic dashboard on the default port
  vehicles-dashboard serve

  # Monthly profile on port 3000, reloading when the CSV changes
  vehicles-dashboard serve --profile monthly --port 3000 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), GetConfig(cmd.Context()), GetLogger(cmd.Context()))
		},
	}

	cmd.Flags().Int("port", 0, "port to serve on (default: 8501)")
	cmd.Flags().Bool("watch", false, "reload the dataset when the CSV file changes")
	cmd.Flags().String("banner-path", "", "banner image shown above the classic profile")
	cmd.Flags().String("redis-addr", "", "redis address for the render cache (disabled when empty)")
	cmd.Flags().Duration("cache-ttl", 0, "lifetime of cached renders (default: 10m)")
	cmd.Flags().String("otlp-endpoint", "", "OTLP gRPC collector for traces (disabled when empty)")

	return cmd
}

// banner is the resized banner image, empty when there is none.
type banner []byte

func runServe(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	defer logger.Sync()

	app := fx.New(
		fx.Supply(cfg, logger, profileOf(cfg)),
		fx.WithLogger(func(l *utils.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap()}
		}),
		fx.StartTimeout(startTimeout),
		fx.Provide(
			newDataset,
			newCache,
			loadBanner,
			services.NewInsightService,
			newServer,
		),
		fx.Invoke(registerTracing, loadDataset, runServer),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	sig := <-app.Wait()
	logger.Info("[serve] stopping (%v)", sig.Signal)

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}
	if sig.ExitCode != 0 {
		return errServerStopped
	}
	return nil
}

// newCache connects to redis when configured and falls back to no caching
// when it is not reachable.
func newCache(lc fx.Lifecycle, cfg *config.Config, logger *utils.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.Nop{}
	}

	c := redis.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		logger.Warn("[serve] redis at %s unavailable, rendering without cache: %v", cfg.RedisAddr, err)
		_ = c.Close()
		return cache.Nop{}
	}

	logger.Info("[serve] caching renders in redis at %s (ttl %v)", cfg.RedisAddr, cfg.CacheTTL)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c
}

// loadBanner resizes the banner once. A missing banner only costs a warning.
func loadBanner(cfg *config.Config, profile dashboard.Profile, logger *utils.Logger) banner {
	if !profile.Banner || cfg.BannerPath == "" {
		return nil
	}
	b, err := render.Banner(cfg.BannerPath, cfg.BannerWidth, cfg.BannerHeight)
	if err != nil {
		logger.Warn("[serve] banner not shown: %v", err)
		return nil
	}
	return b
}

func newServer(cfg *config.Config, profile dashboard.Profile, dataset *storage.Dataset, c cache.Cache, b banner,
	insights *services.InsightService, logger *utils.Logger) *web.Server {
	opts := web.Options{
		Addr:     cfg.Addr(),
		Profile:  profile,
		Banner:   b,
		Cache:    c,
		CacheTTL: cfg.CacheTTL,
	}
	if cfg.Watch {
		if cfg.Source == config.SourceCSV {
			opts.WatchPath = cfg.DataPath
		} else {
			logger.Warn("[serve] --watch only applies to the csv source")
		}
	}
	return web.NewServer(dataset, opts, insights, logger)
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config, logger *utils.Logger) {
	if cfg.OTLPEndpoint == "" {
		return
	}
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.Setup(ctx, Version, cfg.OTLPEndpoint)
			if err != nil {
				logger.Warn("[serve] tracing disabled: %v", err)
				return nil
			}
			logger.Info("[serve] exporting traces to %s", cfg.OTLPEndpoint)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

// loadDataset performs the first load; a failure aborts startup.
func loadDataset(lc fx.Lifecycle, dataset *storage.Dataset) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := dataset.Load(ctx)
			return err
		},
	})
}

// runServer serves until the app stops. A server that fails on its own
// shuts the app down with a non-zero exit code.
func runServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *web.Server, logger *utils.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := srv.Serve(ctx); err != nil {
					logger.Error("[serve] %v", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
