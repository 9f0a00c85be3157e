// Package watch re-runs ambiguity analysis on files as they are saved.
package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers per key. The callback fires once per
// key after the window elapses with no further triggers for that key.
type Debouncer struct {
	window   time.Duration
	callback func(key string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDebouncer creates a debouncer with the given window duration.
func NewDebouncer(window time.Duration, callback func(key string)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
		timers:   make(map[string]*time.Timer),
	}
}

// Trigger resets the timer for key.
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		d.callback(key)
	})
}

// Pending reports how many keys are waiting for their window to elapse.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
