// Package activity turns filesystem events into task activity: while the
// dashboard is running, editing files in the watched directory counts as
// working and keeps the inactivity clock from firing.
package activity

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of filesystem events (editor save storms) into a
// single touch.
const debounce = 2 * time.Second

// Watcher reports activity seen under a directory.
type Watcher struct {
	dir     string
	onTouch func()
	logger  *log.Logger
}

// NewWatcher watches dir (non-recursively) and calls onTouch at most once per
// debounce window when files change.
func NewWatcher(dir string, onTouch func(), logger *log.Logger) *Watcher {
	return &Watcher{dir: dir, onTouch: onTouch, logger: logger}
}

// Run watches until ctx is cancelled. Watch failures are logged and disable
// file-based activity for the session; they never take the tracker down.
func (w *Watcher) Run(ctx context.Context) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		if w.logger != nil {
			w.logger.Printf("activity watcher unavailable: %v", err)
		}
		return
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		if w.logger != nil {
			w.logger.Printf("cannot watch %s: %v", w.dir, err)
		}
		return
	}

	var lastTouch time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if time.Since(lastTouch) < debounce {
				continue
			}
			lastTouch = time.Now()
			w.onTouch()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Printf("activity watcher: %v", err)
			}
		}
	}
}
