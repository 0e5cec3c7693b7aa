// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a source tree, drops events for ignored directories and
// editor scratch files, and coalesces bursts of events per file (editors often
// write a file several times per save) into a single callback.
package fsnotify

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay quiet before onChange fires.
const DefaultSettle = 75 * time.Millisecond

// Editor and interpreter droppings that never trigger a re-check.
var scratchSuffixes = []string{".swp", ".swx", ".tmp", "~", ".pyc", ".pyo", ".DS_Store"}

// SkipFunc reports whether path should be left alone. isDir is true for
// directories, which are then not watched at all.
type SkipFunc func(path string, isDir bool) bool

// Option configures a Watcher.
type Option func(*Watcher)

// WithSkip installs the filter used for directories and changed files.
func WithSkip(skip SkipFunc) Option {
	return func(w *Watcher) { w.skip = skip }
}

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// WithLogger routes watch errors to log instead of slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw     *fsnotify.Watcher
	skip   SkipFunc
	settle time.Duration
	log    *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	done    chan struct{}
	stopped bool
}

// NewWatcher creates a new file system watcher.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:      fw,
		skip:    func(string, bool) bool { return false },
		settle:  DefaultSettle,
		log:     slog.Default(),
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring each root recursively. A file root watches its
// directory. onChange is called with the absolute path of each changed file
// once its events have settled.
func (w *Watcher) Watch(roots []string, onChange func(filePath string)) error {
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		info, err := os.Stat(absRoot)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			absRoot = filepath.Dir(absRoot)
		}
		if err := w.addTree(absRoot, absRoot); err != nil {
			return err
		}
	}

	go w.loop(onChange)
	return nil
}

// addTree registers dir and every non-skipped directory below it.
func (w *Watcher) addTree(root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil // unreadable subtrees are not watched
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skip(path, true) {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
}

func (w *Watcher) loop(onChange func(string)) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(event, onChange)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, onChange func(string)) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.skip(path, true) {
				if err := w.addTree(path, path); err != nil {
					w.log.Warn("watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if isScratch(path) || w.skip(path, false) {
		return
	}
	w.schedule(path, onChange)
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	return w.fw.Close()
}

func isScratch(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range scratchSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return strings.HasPrefix(base, ".#")
}
