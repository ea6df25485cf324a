package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"vehicles-dashboard/models"
	"vehicles-dashboard/services"
	"vehicles-dashboard/telemetry"
	"vehicles-dashboard/utils"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Snapshot is one loaded, immutable version of the dataset.
type Snapshot struct {
	Table    *models.Table
	Version  string
	LoadedAt time.Time
}

// Opener returns a fresh reader for each load.
type Opener func(ctx context.Context) (ListingReader, error)

// Dataset owns the shared table. Readers take the current snapshot and keep
// using it even after a reload has replaced it.
type Dataset struct {
	open       Opener
	normaliser *services.Normaliser
	logger     *utils.Logger

	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex
}

func NewDataset(open Opener, normaliser *services.Normaliser, logger *utils.Logger) *Dataset {
	return &Dataset{open: open, normaliser: normaliser, logger: logger}
}

// Load reads and normalises the source and publishes the result as the
// current snapshot. On error the previous snapshot stays current.
func (d *Dataset) Load(ctx context.Context) (*Snapshot, error) {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	ctx, span := telemetry.Tracer("storage").Start(ctx, "dataset.load")
	defer span.End()

	start := time.Now()
	reader, err := d.open(ctx)
	if err != nil {
		telemetry.Fail(span, "open", err)
		return nil, err
	}
	defer reader.Close()

	raw, err := reader.Read(ctx)
	if err != nil {
		telemetry.Fail(span, "read", err)
		return nil, err
	}

	snap := &Snapshot{
		Table:    d.normaliser.Normalise(raw),
		Version:  uuid.NewString(),
		LoadedAt: time.Now().UTC(),
	}
	d.current.Store(snap)

	span.SetAttributes(
		telemetry.Int("dataset.rows", snap.Table.Len()),
		telemetry.String("dataset.version", snap.Version),
	)
	d.logger.Info("[dataset] loaded %d listings in %v (version %s)",
		snap.Table.Len(), time.Since(start).Round(time.Millisecond), snap.Version)
	return snap, nil
}

// Current returns the latest snapshot, or nil before the first Load.
func (d *Dataset) Current() *Snapshot {
	return d.current.Load()
}

// Watch reloads the dataset whenever the file at path changes and calls
// onReload with each new snapshot. It blocks until ctx is cancelled.
func (d *Dataset) Watch(ctx context.Context, path string, debounce time.Duration, onReload func(*Snapshot)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dataset: create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// editors and exporters often replace the file, so watch the directory
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("dataset: watch %s: %w", filepath.Dir(target), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	d.logger.Info("[dataset] watching %s for changes", target)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				d.logger.Debug("[dataset] %s changed, reloading", target)
				snap, err := d.Load(ctx)
				if err != nil {
					d.logger.Error("[dataset] reload failed, keeping previous version: %v", err)
					return
				}
				if onReload != nil {
					onReload(snap)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("[dataset] watcher error: %v", err)
		}
	}
}
