package cli

import (
	"context"
	"errors"
	"time"

	"vehicles-dashboard/config"
	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/services"
	"vehicles-dashboard/storage"
	"vehicles-dashboard/utils"
)

// newOpener returns the reader factory of the configured source.
func newOpener(cfg *config.Config, logger *utils.Logger) storage.Opener {
	if cfg.Source == config.SourceCSV {
		return func(context.Context) (storage.ListingReader, error) {
			return storage.NewCSVReader(cfg.DataPath, logger), nil
		}
	}

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		ShouldRetry: transient,
		Logger:      logger,
	}
	return func(ctx context.Context) (storage.ListingReader, error) {
		return storage.NewSQLReader(ctx, cfg.Source, cfg.DSN(), cfg.Table, retry, logger)
	}
}

// transient reports whether a failed connection attempt may succeed later.
func transient(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func newDataset(cfg *config.Config, logger *utils.Logger) *storage.Dataset {
	return storage.NewDataset(newOpener(cfg, logger), services.NewNormaliser(logger), logger)
}

// loadSnapshot reads the configured source once.
func loadSnapshot(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*storage.Snapshot, error) {
	return newDataset(cfg, logger).Load(ctx)
}

// profileOf returns the configured profile; Validate already rejected
// unknown names.
func profileOf(cfg *config.Config) dashboard.Profile {
	p, err := dashboard.ProfileByName(cfg.Profile)
	if err != nil {
		return dashboard.Classic
	}
	return p
}
