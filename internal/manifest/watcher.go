package manifest

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher flags manifest edits so long-lived sessions can reload the
// roster between requests. Detection is best-effort: when the fsnotify
// watcher cannot be created, Changed falls back to comparing
// modification times.
type Watcher struct {
	path string

	mu      sync.RWMutex
	changed bool
	lastMod time.Time

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher watches the manifest at path. The file does not need to
// exist yet; creating it later still counts as a change.
func NewWatcher(path string) *Watcher {
	w := &Watcher{
		path: path,
		done: make(chan struct{}),
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		// Continue without watcher - Changed polls modification times
		return w
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return w
	}
	w.watcher = fsw

	go w.watch()

	return w
}

// watch monitors the manifest's directory for edits to the file.
func (w *Watcher) watch() {
	name := filepath.Base(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.mu.Lock()
				w.changed = true
				w.mu.Unlock()
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// Changed reports whether the manifest was edited since the last
// Acknowledge.
func (w *Watcher) Changed() bool {
	// Also check the file directly in case the watcher missed it
	if info, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		if info.ModTime().After(w.lastMod) {
			w.changed = true
		}
		w.mu.Unlock()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.changed
}

// Acknowledge clears the change flag after the caller reloaded.
func (w *Watcher) Acknowledge() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changed = false
	if info, err := os.Stat(w.path); err == nil {
		w.lastMod = info.ModTime()
	}
}

// Close shuts down the watcher.
func (w *Watcher) Close() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
