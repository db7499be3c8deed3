package docs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCachedStore_CacheHit(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "Button.md", "# Button")

	cs := NewCachedStore(NewStore(Params{Dir: dir}), time.Hour, time.Hour)
	defer cs.Close()
	assert.Equal(t, dir, cs.Dir())

	files, err := cs.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)

	// the debounce is an hour, so the new file stays invisible until invalidation
	writeDoc(t, dir, "Modal.md", "# Modal")
	files, err = cs.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 1)

	cs.invalidate()
	files, err = cs.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestCachedStore_WatchInvalidates(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeDoc(t, dir, "Button.md", "# Button")

	cs := NewCachedStore(NewStore(Params{Dir: dir}), time.Hour, 50*time.Millisecond)

	doc, err := cs.Find(context.Background(), "Modal")
	require.NoError(t, err)
	assert.Nil(t, doc)

	writeDoc(t, dir, "Modal.md", "---\ndescription: Dialog\n---\nbody")

	assert.Eventually(t, func() bool {
		doc, err := cs.Find(context.Background(), "Modal")
		return err == nil && doc != nil && doc.Description == "Dialog"
	}, 3*time.Second, 20*time.Millisecond, "new doc should appear after the watcher fires")

	require.NoError(t, cs.Close())
	require.NoError(t, cs.Close(), "second close is a no-op")
}

func TestCachedStore_WatchesNewSubdir(t *testing.T) {
	dir := t.TempDir()
	cs := NewCachedStore(NewStore(Params{Dir: dir}), time.Hour, 50*time.Millisecond)
	defer cs.Close()

	files, err := cs.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, files)

	writeDoc(t, dir, "forms/InputText.md", "# Input")

	assert.Eventually(t, func() bool {
		files, err := cs.Scan(context.Background())
		return err == nil && len(files) == 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestCachedStore_MissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)

	cs := NewCachedStore(NewStore(Params{Dir: filepath.Join(t.TempDir(), "nope")}), 0, 0)
	assert.Equal(t, defaultCacheTTL, cs.ttl)
	assert.Equal(t, defaultDebounce, cs.debounce)

	doc, err := cs.Find(context.Background(), "Button")
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.NoError(t, cs.Close())
}

func TestCachedStore_Canceled(t *testing.T) {
	cs := NewCachedStore(NewStore(Params{Dir: t.TempDir()}), time.Hour, 0)
	defer cs.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cs.Scan(ctx)
	assert.Equal(t, context.Canceled, err)
}

func TestIsRelevantEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write md", fsnotify.Event{Name: "/docs/Button.md", Op: fsnotify.Write}, true},
		{"create md", fsnotify.Event{Name: "/docs/Button.md", Op: fsnotify.Create}, true},
		{"remove md", fsnotify.Event{Name: "/docs/Button.md", Op: fsnotify.Remove}, true},
		{"rename md", fsnotify.Event{Name: "/docs/Button.md", Op: fsnotify.Rename}, true},
		{"chmod md", fsnotify.Event{Name: "/docs/Button.md", Op: fsnotify.Chmod}, false},
		{"write txt", fsnotify.Event{Name: "/docs/notes.txt", Op: fsnotify.Write}, false},
		{"hidden md", fsnotify.Event{Name: "/docs/.draft.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevantEvent(tt.event))
		})
	}
}
