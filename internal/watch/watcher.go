// Package watch reports new and changed files in a directory.
package watch

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of events has to go quiet before the
// callback runs.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors one directory for files with a given extension.
type Watcher struct {
	dir      string
	ext      string
	logger   *slog.Logger
	Ready    chan struct{}
	Debounce time.Duration

	newWatcher func() (*fsnotify.Watcher, error)
}

func NewWatcher(dir, ext string, logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:        dir,
		ext:        ext,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		Debounce:   DefaultDebounce,
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch calls callback with the path of the last relevant file once events
// settle. Callbacks run on the calling goroutine, one at a time. It blocks
// until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, callback func(path string)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "dir", w.dir, "ext", w.ext)
	if w.Ready != nil {
		close(w.Ready)
	}

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("File changed", "path", event.Name, "op", event.Op.String())
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			callback(pending)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !strings.HasSuffix(event.Name, w.ext) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return false
		}
	}
	return true
}
