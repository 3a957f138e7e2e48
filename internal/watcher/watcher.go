// Package watcher turns filesystem notifications for one folder into
// candidate-file events.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Operation is the kind of change observed.
type Operation int

const (
	Created Operation = iota
	Modified
)

func (o Operation) String() string {
	if o == Created {
		return "create"
	}
	return "write"
}

// Event is a change to a regular file in the watched folder.
type Event struct {
	Path      string
	Operation Operation
}

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	fs      *fsnotify.Watcher
	exclude []string
	log     *log.Logger
}

// New creates a watcher. Paths under any of exclude are never reported.
func New(logger *log.Logger, exclude ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fs: fw, log: logger}
	for _, e := range exclude {
		if e == "" {
			continue
		}
		if abs, err := filepath.Abs(e); err == nil {
			e = abs
		}
		w.exclude = append(w.exclude, filepath.Clean(e))
	}
	return w, nil
}

// Watch starts monitoring dir. The returned channel closes when ctx is done
// or the watcher is stopped.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := w.fs.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan Event, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}

				var op Operation
				switch {
				case ev.Has(fsnotify.Create):
					op = Created
				case ev.Has(fsnotify.Write):
					op = Modified
				default:
					continue
				}
				if !w.Accept(ev.Name) {
					continue
				}

				select {
				case events <- Event{Path: ev.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.log.Error("watch error", "dir", dir, "err", err)
			}
		}
	}()

	return events, nil
}

// Accept reports whether path is a regular, visible file outside the
// excluded subtrees.
func (w *Watcher) Accept(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, ex := range w.exclude {
		if abs == ex || strings.HasPrefix(abs, ex+string(filepath.Separator)) {
			return false
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		// Already moved or deleted.
		return false
	}
	return info.Mode().IsRegular()
}

// Stop releases the underlying notifier.
func (w *Watcher) Stop() error {
	return w.fs.Close()
}
