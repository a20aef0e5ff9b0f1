package watcher

import (
	"context"
	"log/slog"
)

// ReloadFunc re-reads the watched document.
type ReloadFunc func(ctx context.Context) error

// Reloader calls a ReloadFunc for every settled change of the watched file.
type Reloader struct {
	watcher *Watcher
	reload  ReloadFunc
	logger  *slog.Logger
}

// NewReloader pairs a watcher with the function that applies the change.
func NewReloader(w *Watcher, reload ReloadFunc, logger *slog.Logger) *Reloader {
	return &Reloader{watcher: w, reload: reload, logger: logger}
}

// Run starts the watcher and reloads until ctx is canceled or the watcher
// is stopped. A failed reload is logged; the previous document stays in service.
func (r *Reloader) Run(ctx context.Context) {
	r.watcher.Start(ctx)
	r.logger.Info("watching catalog file", "path", r.watcher.Path())

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.watcher.Done():
			return
		case event := <-r.watcher.Events():
			switch event.Type {
			case EventChanged:
				if err := r.reload(ctx); err != nil {
					r.logger.Warn("catalog reload failed, keeping current catalog",
						"path", event.Path, "error", err)
					continue
				}
				r.logger.Debug("catalog file change applied", "path", event.Path, "size", event.Size)
			case EventRemoved:
				r.logger.Warn("catalog file removed, serving in-memory catalog", "path", event.Path)
			}
		case err := <-r.watcher.Errors():
			r.logger.Warn("watcher error", "error", err)
		}
	}
}
