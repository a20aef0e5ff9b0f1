// Package watcher reloads the catalog when its document file is edited on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file using fsnotify on its parent directory, so
// atomic replace-by-rename is seen as a change. Events are debounced until
// size and mtime stop moving for SettleDelay.
type Watcher struct {
	logger  *slog.Logger
	opts    Options
	watcher *fsnotify.Watcher
	target  string

	mu      sync.Mutex
	pending *pendingEvent

	events chan Event
	errors chan error

	// lifeMu orders Start's wg.Add before Stop's wg.Wait.
	lifeMu   sync.Mutex
	stopped  bool
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// pendingEvent tracks a file that may still be changing
type pendingEvent struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher for path. The file may not exist yet, but its
// directory must.
func New(logger *slog.Logger, path string, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	target := filepath.Clean(path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	return &Watcher{
		logger:  logger,
		opts:    opts,
		watcher: fw,
		target:  target,
		events:  make(chan Event, 16),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.target }

// Start processes file system events in the background until ctx is
// canceled or Stop is called. Start after Stop does nothing.
func (w *Watcher) Start(ctx context.Context) {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()

	if w.stopped {
		return
	}
	w.wg.Add(1)
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("watcher error dropped", "error", err)
			}
		}
	}
}

// handleFsnotifyEvent filters to the target file and debounces writes.
func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if path != w.target || w.opts.shouldIgnore(path) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create):
		w.startSettling()
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// A rename away is followed by a Create when the file is replaced.
		if _, err := os.Stat(w.target); err == nil {
			w.startSettling()
			return
		}
		w.cancelPending()
		w.emitEvent(Event{Type: EventRemoved, Path: w.target})
	}
}

// startSettling (re)arms the settle timer for the target.
func (w *Watcher) startSettling() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
	}

	info, err := os.Stat(w.target)
	if err != nil {
		w.logger.Warn("failed to stat file", "path", w.target, "error", err)
		w.pending = nil
		return
	}

	w.pending = &pendingEvent{
		size:    info.Size(),
		modTime: info.ModTime(),
		timer:   time.AfterFunc(w.opts.SettleDelay, w.checkSettled),
	}
}

// checkSettled emits once the file has stopped changing.
func (w *Watcher) checkSettled() {
	w.mu.Lock()
	pending := w.pending
	if pending == nil {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(w.target)
	if err != nil {
		w.pending = nil
		w.mu.Unlock()
		w.emitEvent(Event{Type: EventRemoved, Path: w.target})
		return
	}

	if info.Size() != pending.size || !info.ModTime().Equal(pending.modTime) {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
		w.mu.Unlock()
		return
	}

	w.pending = nil
	w.mu.Unlock()

	w.emitEvent(Event{
		Type:    EventChanged,
		Path:    w.target,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
}

func (w *Watcher) emitEvent(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel for receiving settled file events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Done is closed by Stop.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Stop stops the watcher and releases resources. It is safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.lifeMu.Lock()
		w.stopped = true
		close(w.done)
		w.lifeMu.Unlock()

		w.cancelPending()
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
