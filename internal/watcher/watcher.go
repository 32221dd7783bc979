// Package watcher reloads the registry when files in a catalog directory
// change. Bursts of events are debounced into one notification.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hanzoai/design-registry/internal/log"
)

// Watcher monitors a catalog directory tree and signals on YAML changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Dir         string
	DebounceDur time.Duration
}

// DefaultConfig returns defaults for watching dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		DebounceDur: 200 * time.Millisecond,
	}
}

// New creates a new catalog watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		root:      cfg.Dir,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the root and every directory below it. The returned channel
// receives a signal after changes settle.
func (w *Watcher) Start() (<-chan struct{}, error) {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(log.CatWatcher, "Watching catalog", "dir", w.root, "debounce", w.debounce)
	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// Run starts the watcher and calls reload after every settled change until
// ctx is cancelled. Reload errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, reload func(context.Context) error) error {
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			log.Debug(log.CatWatcher, "Catalog changed, reloading", "dir", w.root)
			if err := reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.ErrorErr(log.CatWatcher, "Reload after change failed", err, "dir", w.root)
			}
		}
	}
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			w.trackNewDir(event)
			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "File watcher error", err, "dir", w.root)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// trackNewDir starts watching directories created after Start.
func (w *Watcher) trackNewDir(event fsnotify.Event) {
	if event.Op&fsnotify.Create == 0 {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if err := w.fsWatcher.Add(event.Name); err != nil {
			log.ErrorErr(log.CatWatcher, "Failed to watch new directory", err, "dir", event.Name)
		}
	}
}

// isRelevantEvent reports whether the event touches a catalog file.
// Editors often save by rename, so removes and renames count too.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := filepath.Ext(base)
	return ext == ".yaml" || ext == ".yml"
}
