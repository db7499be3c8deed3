package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

const defaultDebounce = 300 * time.Millisecond

// Loader lazily loads a catalog file once and keeps it until reloaded
type Loader struct {
	path     string
	debounce time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	cat   *Catalog
}

// NewLoader makes a loader for the catalog file at path. Nothing is read until first use.
func NewLoader(path string) *Loader {
	return &Loader{path: path, debounce: defaultDebounce}
}

// Path returns the catalog file path
func (l *Loader) Path() string {
	return l.path
}

// Catalog returns the loaded catalog, reading the file on first call.
// Concurrent first calls share a single read.
func (l *Loader) Catalog() (*Catalog, error) {
	l.mu.RLock()
	cat := l.cat
	l.mu.RUnlock()
	if cat != nil {
		return cat, nil
	}

	v, err, _ := l.group.Do("load", func() (any, error) {
		l.mu.RLock()
		loaded := l.cat
		l.mu.RUnlock()
		if loaded != nil {
			return loaded, nil
		}
		return l.load()
	})
	if err != nil {
		return nil, err // nolint:wrapcheck // LoadError carries path and cause
	}
	return v.(*Catalog), nil
}

// Reload re-reads the file and replaces the catalog. On failure the previous catalog stays.
func (l *Loader) Reload() (*Catalog, error) {
	v, err, _ := l.group.Do("load", func() (any, error) {
		return l.load()
	})
	if err != nil {
		return nil, err // nolint:wrapcheck // LoadError carries path and cause
	}
	return v.(*Catalog), nil
}

func (l *Loader) load() (*Catalog, error) {
	cat, err := LoadFile(l.path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cat = cat
	l.mu.Unlock()
	slog.Debug("catalog loaded", "path", l.path, "components", cat.Len())
	return cat, nil
}

// Watch reloads the catalog whenever its file changes, until ctx is canceled.
// The parent directory is watched so editors that replace the file are picked up.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go l.watchLoop(ctx, watcher)
	return nil
}

// watchLoop processes file system events with debouncing
func (l *Loader) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	debounceTimer := time.NewTimer(l.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	target := filepath.Clean(l.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounceTimer.Reset(l.debounce)
			}

		case <-debounceTimer.C:
			if cat, err := l.Reload(); err != nil {
				slog.Warn("catalog reload failed, keeping previous catalog", "path", l.path, "error", err)
			} else {
				slog.Info("catalog reloaded", "path", l.path, "components", cat.Len())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Debug("catalog watcher error", "error", err)
		}
	}
}
