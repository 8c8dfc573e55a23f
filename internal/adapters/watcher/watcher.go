// Package watcher reports source tree changes for watch mode builds.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are never watched in addition to hidden and build
// directories.
var skipDirectories = map[string]bool{
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify. The fsnotify watcher is
// created by Start, so a Watcher that is never started holds no resources.
type Watcher struct {
	logger ports.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
	}
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher != nil {
		return zerr.New("watcher already started")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}

	for dir := range watchRecursively(root) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	w.fsWatcher = fsw
	go w.processEvents(ctx, fsw)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively yields root and every directory below it that is not skipped.
func watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && shouldSkip(d.Name()) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkip matches the directories the config loader ignores, which
// includes the build directory itself.
func shouldSkip(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || skipDirectories[name]
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok || shouldSkip(filepath.Base(event.Name)) {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for dir := range watchRecursively(event.Name) {
						_ = fsw.Add(dir)
					}
				}
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("file watcher: " + err.Error())
			}
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Op.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Op.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Op.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Op.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
