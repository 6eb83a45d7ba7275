package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of events per path. Editors usually write a
// file in several steps (truncate, write, chmod, rename); only the last
// event of a burst schedules the callback.
type Debouncer struct {
	delay    time.Duration
	callback func(path string)

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

// NewDebouncer creates a Debouncer that calls callback once per path after
// delay has passed without a new Add for that path.
func NewDebouncer(delay time.Duration, callback func(path string)) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
		pending:  make(map[string]*time.Timer),
	}
}

// Add schedules path, restarting its timer if one is already pending.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if timer, exists := d.pending[path]; exists && timer.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.pending[path] == timer {
			delete(d.pending, path)
		}
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped && d.callback != nil {
			d.callback(path)
		}
	})
	d.pending[path] = timer
}

// Stop cancels every pending path and waits for callbacks already running.
// Add is a no-op afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	for path, timer := range d.pending {
		if timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, path)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// PendingCount returns the number of paths waiting for their delay.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// IsPending reports whether path is waiting for its delay.
func (d *Debouncer) IsPending(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, exists := d.pending[path]
	return exists
}
