package watcher

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces rapid file system events into batched rebuilds.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a debouncer calling callback with the sorted set of
// paths added during a quiet period of window.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	paths := d.drain()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		go d.callback(paths)
	}
}

// Flush calls the callback with the pending paths right away and waits for
// it to return.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// fire is already running and owns the pending set.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.drain()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// drain empties the pending set. Callers hold mu.
func (d *Debouncer) drain() []string {
	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}
