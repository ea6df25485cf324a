// Package web serves the dashboard: a server-rendered page whose charts are
// streamed to the browser over datastar SSE.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"vehicles-dashboard/cache"
	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/services"
	"vehicles-dashboard/storage"
	"vehicles-dashboard/utils"
)

// Options holds configuration for the dashboard server.
type Options struct {
	Addr     string
	Profile  dashboard.Profile
	Banner   []byte
	Cache    cache.Cache
	CacheTTL time.Duration

	// WatchPath, when set, reloads the dataset whenever that file changes.
	WatchPath string
	Debounce  time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	dataset  *storage.Dataset
	opts     Options
	handlers *Handlers
	notifier *Notifier
	logger   *utils.Logger
}

func NewServer(dataset *storage.Dataset, opts Options, insights *services.InsightService, logger *utils.Logger) *Server {
	notify := NewNotifier()
	return &Server{
		dataset:  dataset,
		opts:     opts,
		handlers: NewHandlers(dataset, opts.Profile, opts.Banner, opts.Cache, opts.CacheTTL, notify, insights, logger),
		notifier: notify,
		logger:   logger,
	}
}

// Notifier returns the server's notifier for reload events.
func (s *Server) Notifier() *Notifier {
	return s.notifier
}

// Router builds the HTTP handler with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	SetupRoutes(r, s.handlers)
	return r
}

// Serve starts the server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("[web] serving %s dashboard on http://%s", s.opts.Profile.Name, s.opts.Addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.opts.Addr,
		Handler: s.Router(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.opts.WatchPath != "" {
		eg.Go(func() error {
			err := s.dataset.Watch(egctx, s.opts.WatchPath, s.opts.Debounce, func(snap *storage.Snapshot) {
				s.logger.Info("[web] dataset version %s published, notifying %d page(s)", snap.Version, s.notifier.Len())
				s.notifier.Broadcast()
			})
			if err != nil {
				// keep serving the loaded version
				s.logger.Error("[web] file watch disabled: %v", err)
			}
			return nil
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("web: server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("[web] shutting down...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
