// Package watcher follows fixture directories with fsnotify and reports changed
// and removed recipe files after a short debounce.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last write before a file is reported.
const DefaultDebounce = 400 * time.Millisecond

// Handler receives file notifications. Calls may come from several goroutines.
type Handler interface {
	FileChanged(path string)
	FileRemoved(path string)
}

// Funcs adapts plain functions to Handler. Nil functions are skipped.
type Funcs struct {
	Changed func(path string)
	Removed func(path string)
}

// FileChanged calls f.Changed.
func (f Funcs) FileChanged(path string) {
	if f.Changed != nil {
		f.Changed(path)
	}
}

// FileRemoved calls f.Removed.
func (f Funcs) FileRemoved(path string) {
	if f.Removed != nil {
		f.Removed(path)
	}
}

// Watcher watches fixture roots and notifies a Handler.
type Watcher struct {
	handler    Handler
	extensions []string
	recursive  bool
	debounce   time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	fs      *fsnotify.Watcher
	roots   []string
	watched map[string][]string // root -> directories registered with fsnotify
	pending map[string]*time.Timer
	done    chan struct{}
	started bool
	stop    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over roots. Only files whose extension is listed are
// reported; an empty list reports every file.
func New(roots, extensions []string, recursive bool, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		handler:    handler,
		extensions: extensions,
		recursive:  recursive,
		debounce:   DefaultDebounce,
		logger:     zap.NewNop(),
		roots:      append([]string(nil), roots...),
		watched:    make(map[string][]string),
		pending:    make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers every root and runs until ctx is cancelled or Stop is called.
// Missing roots are created.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fs = fsw
	w.started = true
	w.logger.Debug("watcher starting",
		zap.Strings("roots", w.roots),
		zap.Strings("extensions", w.extensions),
		zap.Bool("recursive", w.recursive))
	for _, root := range w.roots {
		if err := w.watchRootLocked(root); err != nil {
			_ = w.fs.Close()
			w.fs = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	events, errs := fsw.Events, fsw.Errors
	w.mu.Unlock()
	go w.loop(ctx, events, errs)
	return nil
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.logger.Debug("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	path := ev.Name
	if !w.covered(path) {
		return
	}
	w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	switch {
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.enterDirectory(path)
			return
		}
		if w.wanted(path) {
			w.schedule(path)
		}
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		w.unschedule(path)
		if w.wanted(path) {
			w.handler.FileRemoved(path)
		}
	}
}

// enterDirectory registers a directory that appeared under a root and reports
// the fixtures already inside it.
func (w *Watcher) enterDirectory(dir string) {
	w.mu.Lock()
	fsw := w.fs
	w.mu.Unlock()
	if fsw == nil {
		return
	}
	register := func(path string) {
		if err := fsw.Add(path); err != nil {
			w.logger.Debug("watcher failed to add directory", zap.String("path", path), zap.Error(err))
		}
	}
	if w.recursive {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				register(path)
			}
			return nil
		})
	} else {
		register(dir)
	}
	w.scan(dir)
}

func (w *Watcher) covered(path string) bool {
	w.mu.Lock()
	roots := append([]string(nil), w.roots...)
	w.mu.Unlock()
	clean := filepath.Clean(path)
	for _, root := range roots {
		r := filepath.Clean(root)
		if r == clean || inDir(r, clean) {
			return true
		}
	}
	return false
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) wanted(path string) bool {
	return matchExtension(path, w.extensions)
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.logger.Debug("watcher reporting change", zap.String("path", path))
		w.handler.FileChanged(path)
	})
}

func (w *Watcher) unschedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// AddDirectory starts watching root. With importExisting the fixtures already in
// it are reported in the background. Adding a watched root is a no-op.
func (w *Watcher) AddDirectory(root string, importExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fs == nil {
		return nil
	}
	for _, r := range w.roots {
		if filepath.Clean(r) == abs {
			return nil
		}
	}
	if err := w.watchRootLocked(abs); err != nil {
		return err
	}
	w.roots = append(w.roots, abs)
	w.logger.Debug("watcher directory added", zap.String("path", abs), zap.Bool("import_existing", importExisting))
	if importExisting {
		go w.scan(abs)
	}
	return nil
}

func (w *Watcher) watchRootLocked(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := os.MkdirAll(root, 0755); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var dirs []string
	if w.recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			if err := w.fs.Add(path); err != nil {
				return err
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		if err := w.fs.Add(root); err != nil {
			return err
		}
		dirs = append(dirs, root)
	}
	w.watched[root] = dirs
	return nil
}

// scan reports every matching file under root as changed.
func (w *Watcher) scan(root string) {
	w.logger.Debug("watcher scanning directory", zap.String("root", root))
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && !w.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if w.wanted(path) {
			w.handler.FileChanged(path)
		}
		return nil
	})
}

// RemoveDirectory stops watching root. Recipes already imported from it stay.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fs == nil {
		return nil
	}
	for i, r := range w.roots {
		if filepath.Clean(r) != abs {
			continue
		}
		for _, dir := range w.watched[abs] {
			_ = w.fs.Remove(dir)
		}
		delete(w.watched, abs)
		w.roots = append(w.roots[:i], w.roots[i+1:]...)
		w.logger.Debug("watcher directory removed", zap.String("path", abs))
		return nil
	}
	return nil
}

// Directories returns a copy of the watched roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// ImportExisting reports every matching file already present under each root.
// Call it after Start to load fixtures that predate the watcher.
func (w *Watcher) ImportExisting() {
	for _, root := range w.Directories() {
		w.scan(root)
	}
}

// Stop stops the watcher and releases resources. Pending notifications are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.fs == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	_ = w.fs.Close()
	w.fs = nil
	w.started = false
	w.mu.Unlock()
	w.stop.Do(func() { close(w.done) })
}
