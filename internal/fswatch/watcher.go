// Package fswatch tells the browser when the directory on screen changes.
// Only one directory is watched at a time and only its immediate children.
package fswatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var ErrWatcherClosed = errors.New("watcher closed")

type Watcher struct {
	// Changes receives one value per burst of events; sends never block.
	// Close closes it.
	Changes chan string

	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	dir      string
	isClosed bool
}

func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: w,
		Changes: make(chan string, 1),
	}, nil
}

// Watch replaces the watched directory with dir.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isClosed {
		return ErrWatcherClosed
	}
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.watcher.Remove(w.dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			slog.Debug("watcher remove", "dir", w.dir, "error", err)
		}
		w.dir = ""
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	slog.Debug("watcher add", "dir", dir)
	return nil
}

func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Start pumps events until ctx is done or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			w.notify(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			slog.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) notify(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isClosed {
		return
	}
	select {
	case w.Changes <- path:
	default:
		// a change is already pending
	}
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isClosed {
		return ErrWatcherClosed
	}
	w.isClosed = true
	close(w.Changes)
	return w.watcher.Close()
}
