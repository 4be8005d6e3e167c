// Package watch rebuilds a source file whenever it changes on disk.
// Editors fire bursts of write events for one save (write, chmod,
// rename-into-place), so triggers are debounced before the rebuild
// callback runs.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher runs a callback on every (debounced) change to one file.
type Watcher struct {
	debounce time.Duration
}

// New returns a watcher with the given debounce window.
func New(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{debounce: debounce}
}

// Run invokes rebuild once immediately, then again after each burst
// of changes to path, until ctx is cancelled. The parent directory is
// watched rather than the file itself: editors that save via rename
// replace the inode, which would silently detach a file-level watch.
func (w *Watcher) Run(ctx context.Context, path string, rebuild func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	rebuild()
	trigger := NewDebouncer(w.debounce, rebuild)
	defer trigger.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			trigger.Trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}

// Debouncer coalesces a burst of triggers into one callback: the
// callback fires once the window elapses with no further trigger.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a debouncer calling fn after each quiet window.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger records one event, (re)starting the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
