package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects notifications.
type recorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func (r *recorder) FileChanged(path string) {
	r.mu.Lock()
	r.changed = append(r.changed, path)
	r.mu.Unlock()
}

func (r *recorder) FileRemoved(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) sawChange(suffix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.changed {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

func (r *recorder) sawRemoval(suffix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.removed {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

func startWatcher(t *testing.T, roots []string, rec Handler) *Watcher {
	t.Helper()
	w := New(roots, []string{".yaml", ".json"}, true, rec, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	require.NoError(t, w.Start(ctx))
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestWatcher_AddRemoveDirectories(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, nil, &recorder{})

	require.NoError(t, w.AddDirectory(dir, false))
	require.NoError(t, w.AddDirectory(dir, false))
	dirs := w.Directories()
	if assert.Len(t, dirs, 1) {
		assert.Equal(t, filepath.Clean(dir), filepath.Clean(dirs[0]))
	}

	require.NoError(t, w.RemoveDirectory(dir))
	assert.Empty(t, w.Directories())
}

func TestWatcher_ReportsChangesAfterDebounce(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec)

	writeFile(t, filepath.Join(dir, "soup.yaml"), "title: Soup\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip")

	assert.Eventually(t, func() bool { return rec.sawChange("soup.yaml") }, 3*time.Second, 20*time.Millisecond)
	assert.False(t, rec.sawChange("notes.txt"))
}

func TestWatcher_ReportsRemovals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tea.json")
	writeFile(t, path, `{"title":"Tea"}`)
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return rec.sawRemoval("tea.json") }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_NewDirectoryIsScanned(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec)

	writeFile(t, filepath.Join(dir, "level1", "level2", "deep.yaml"), "title: Deep\n")

	assert.Eventually(t, func() bool { return rec.sawChange("deep.yaml") }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_ImportExisting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "title: A\n")
	writeFile(t, filepath.Join(dir, "ignore.xyz"), "x")
	rec := &recorder{}
	w := startWatcher(t, []string{dir}, rec)

	w.ImportExisting()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if assert.Len(t, rec.changed, 1) {
		assert.True(t, strings.HasSuffix(rec.changed[0], "a.yaml"))
	}
}

func TestWatcher_ImportExistingNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.yaml"), "title: Top\n")
	writeFile(t, filepath.Join(dir, "sub", "nested.yaml"), "title: Nested\n")
	rec := &recorder{}
	w := New([]string{dir}, []string{".yaml"}, false, rec)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)

	w.ImportExisting()
	assert.True(t, rec.sawChange("top.yaml"))
	assert.False(t, rec.sawChange("nested.yaml"))
}

func TestWatcher_StartCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fixtures", "recipes")
	startWatcher(t, []string{root}, Funcs{})

	_, err := os.Stat(root)
	assert.NoError(t, err)
}

func TestFuncs(t *testing.T) {
	var changed, removed string
	f := Funcs{
		Changed: func(p string) { changed = p },
		Removed: func(p string) { removed = p },
	}
	f.FileChanged("a")
	f.FileRemoved("b")
	assert.Equal(t, "a", changed)
	assert.Equal(t, "b", removed)

	Funcs{}.FileChanged("ignored")
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.yaml", []string{".yaml"}, true},
		{"/a/b.YML", []string{"yml"}, true},
		{"/a/b.md", []string{".yaml"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.yaml", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		got := inDir(tt.dir, tt.path)
		if got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}
