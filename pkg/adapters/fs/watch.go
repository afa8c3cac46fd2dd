package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 50 * time.Millisecond

// ChangeType describes what happened to a watched file.
type ChangeType string

const (
	ChangeModified ChangeType = "MODIFY"
	ChangeRemoved  ChangeType = "DELETE"
)

// Change is emitted once per debounced burst of events on the watched file.
type Change struct {
	Type ChangeType
	Path string
	Time time.Time
}

// String implements fmt.Stringer.
func (c Change) String() string {
	return fmt.Sprintf("%s %s", c.Type, c.Path)
}

// WatchConfig tunes Watch.
type WatchConfig struct {
	Debounce time.Duration
	Logger   *slog.Logger
	// ErrorHandler receives watcher errors, which are otherwise only logged.
	ErrorHandler func(error)
}

type fileWatcher struct {
	target  string
	watcher *fsnotify.Watcher
	out     chan Change
	config  WatchConfig
}

// Watch reports changes to the file at path until ctx is done, then closes
// the returned channel. The parent directory is watched, so the file may be
// created, replaced by an atomic rename or removed.
func Watch(ctx context.Context, path string, config WatchConfig) (<-chan Change, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	w := &fileWatcher{
		target:  target,
		watcher: watcher,
		out:     make(chan Change),
		config:  config,
	}

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		config.Logger.Error("watcher stopped", "path", target, "error", err)
		if config.ErrorHandler != nil {
			config.ErrorHandler(err)
		}
	}))

	return w.out, nil
}

// run is the event loop: it filters events for the target file and emits
// the last one of each burst once the debounce window passes quietly.
func (w *fileWatcher) run(ctx context.Context) error {
	defer close(w.out)
	defer w.watcher.Close()

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	var pending *Change
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			w.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

			change := Change{Type: ChangeModified, Path: w.target, Time: time.Now()}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				change.Type = ChangeRemoved
			}
			pending = &change
			timer.Reset(w.config.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.config.Logger.Error("fsnotify error", "error", err)
			if w.config.ErrorHandler != nil {
				w.config.ErrorHandler(err)
			}

		case <-timer.C:
			if pending == nil {
				continue
			}
			select {
			case w.out <- *pending:
			case <-ctx.Done():
				return nil
			}
			pending = nil
		}
	}
}
