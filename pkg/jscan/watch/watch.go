// Package watch provides filesystem watching for continuous discovery.
// It watches the directories where runtimes were found plus the PATH
// directories, and fires a debounced rescan callback when any of them
// change, so a freshly installed or removed JDK shows up without a manual
// rescan.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jscan-dev/jscan/pkg/jscan/logging"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
)

var logger = logging.Get("watch")

// DefaultDebounce is the quiet period after the last filesystem event
// before the rescan callback fires.
const DefaultDebounce = 2 * time.Second

// Watcher watches runtime locations for filesystem changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu     sync.Mutex
	paths  map[string]bool
	closed bool
}

// New creates a new Watcher. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:  fsw,
		debounce: debounce,
		paths:    make(map[string]bool),
	}, nil
}

// WatchResult adds watches on the parent directory of every runtime in the
// result. Watch failures are logged and skipped; a location that cannot be
// watched just falls back to manual rescans.
func (w *Watcher) WatchResult(result *types.ScanResult) {
	for _, rt := range result.Runtimes {
		w.Add(filepath.Dir(rt.Path))
	}
}

// WatchPathDirs adds watches on every existing directory named in PATH.
func (w *Watcher) WatchPathDirs() {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		w.Add(dir)
	}
}

// Add watches a single directory. Adding the same directory twice is a
// no-op.
func (w *Watcher) Add(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.paths[path] {
		return
	}

	if err := w.watcher.Add(path); err != nil {
		logger.Warn("failed to add watch", "path", path, "error", err)
		return
	}

	w.paths[path] = true
	logger.Debug("watching directory", "path", path)
}

// Watched returns the number of directories currently watched.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Run starts the event loop and blocks until the context is cancelled or
// the watcher is closed. Filesystem events are coalesced: onRescan fires
// once per burst, after the debounce period of quiet.
func (w *Watcher) Run(ctx context.Context, onRescan func()) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				timer.Stop()
				return
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("filesystem change", "path", event.Name, "op", event.Op.String())
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				timer.Stop()
				return
			}
			logger.Error("watcher error", "error", err)

		case <-timer.C:
			pending = false
			logger.Info("change detected, rescanning")
			if onRescan != nil {
				onRescan()
			}
		}
	}
}

// relevant reports whether an event can change the discovered runtime set.
// Chmod-only events cannot add or remove a launcher.
func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	w.paths = make(map[string]bool)
	return w.watcher.Close()
}
