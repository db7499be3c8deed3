package docs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

const (
	cacheKey        = "doc_files"
	defaultCacheTTL = 1 * time.Hour
	defaultDebounce = 500 * time.Millisecond
)

// CachedStore keeps the scanned file list in memory and drops it when the docs change
type CachedStore struct {
	store         *Store
	cache         cache.Cache[string, []FileInfo]
	watcher       *fsnotify.Watcher
	stopCh        chan struct{}
	doneCh        chan struct{}
	mu            sync.Mutex
	ttl           time.Duration
	debounce      time.Duration
	watcherActive bool
}

// NewCachedStore wraps store with a file list cache. Watching is best effort: without a
// watcher the cache still expires after ttl.
func NewCachedStore(store *Store, ttl, debounce time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	cs := &CachedStore{
		store:    store,
		cache:    cache.NewCache[string, []FileInfo]().WithTTL(ttl),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		ttl:      ttl,
		debounce: debounce,
	}

	if err := cs.startWatcher(); err != nil {
		slog.Warn("docs watcher disabled", "dir", store.Dir(), "error", err)
		close(cs.doneCh)
	}
	return cs
}

// Dir returns the docs directory
func (cs *CachedStore) Dir() string {
	return cs.store.Dir()
}

// Scan returns the cached file list or scans on a miss
func (cs *CachedStore) Scan(ctx context.Context) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err // nolint:wrapcheck // context errors should be returned as-is
	}
	if files, ok := cs.cache.Get(cacheKey); ok {
		return files, nil
	}

	files, err := cs.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	cs.cache.Set(cacheKey, files, cs.ttl)
	return files, nil
}

// Find returns the doc for a component using the cached file list
func (cs *CachedStore) Find(ctx context.Context, name string) (*engine.ComponentDoc, error) {
	files, err := cs.Scan(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := cs.store.findIn(files, name)
	if err != nil {
		// the file may have gone between scan and read
		cs.invalidate()
		return nil, err
	}
	return doc, nil
}

// Close stops the watcher, safe to call more than once
func (cs *CachedStore) Close() error {
	cs.mu.Lock()
	if !cs.watcherActive {
		cs.mu.Unlock()
		return nil
	}
	cs.watcherActive = false
	close(cs.stopCh)
	cs.mu.Unlock()

	err := cs.watcher.Close()
	<-cs.doneCh
	if err != nil {
		return fmt.Errorf("failed to close docs watcher: %w", err)
	}
	return nil
}

func (cs *CachedStore) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	cs.watcher = watcher

	if err := cs.addWatchRecursive(cs.store.Dir()); err != nil {
		_ = watcher.Close()
		return err
	}

	cs.mu.Lock()
	cs.watcherActive = true
	cs.mu.Unlock()

	go cs.watchLoop()
	return nil
}

// addWatchRecursive watches dir and its non-hidden subdirectories
func (cs *CachedStore) addWatchRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error { // nolint:wrapcheck // walk errors are descriptive
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := cs.watcher.Add(path); err != nil {
			slog.Debug("can't watch docs dir", "path", path, "error", err)
		}
		return nil
	})
}

func (cs *CachedStore) watchLoop() {
	defer close(cs.doneCh)

	debounceTimer := time.NewTimer(cs.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case <-cs.stopCh:
			return

		case event, ok := <-cs.watcher.Events:
			if !ok {
				return
			}
			// a new subdirectory is watched too and may already hold docs
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				_ = cs.addWatchRecursive(event.Name)
				debounceTimer.Reset(cs.debounce)
			}
			if isRelevantEvent(event) {
				debounceTimer.Reset(cs.debounce)
			}

		case <-debounceTimer.C:
			slog.Debug("docs changed, dropping cached file list", "dir", cs.store.Dir())
			cs.invalidate()

		case err, ok := <-cs.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("docs watcher error", "error", err)
		}
	}
}

// isRelevantEvent reports changes to visible markdown files
func isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !strings.HasSuffix(event.Name, ".md") {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir() && !strings.HasPrefix(filepath.Base(path), ".")
}

func (cs *CachedStore) invalidate() {
	cs.cache.Invalidate(cacheKey)
}
