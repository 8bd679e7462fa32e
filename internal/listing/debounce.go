package listing

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once the trigger has
// been quiet for the configured delay.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
	stopped bool
	running sync.WaitGroup
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger cancels any pending call and schedules fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()
	d.gen++
	gen := d.gen
	d.pending = fn
	d.running.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.running.Done()
		d.mu.Lock()
		current := gen == d.gen && !d.stopped
		if current {
			d.timer = nil
			d.pending = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Flush runs the pending call now instead of waiting out the delay. It is a
// no-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	if fn == nil || d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.gen++
	d.mu.Unlock()
	fn()
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.gen++
}

// Stop cancels the pending call, rejects future triggers and waits for a
// call that already started.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.cancelLocked()
	d.mu.Unlock()
	d.running.Wait()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil && d.timer.Stop() {
		// the callback will never run, so release its slot here
		d.running.Done()
	}
	d.timer = nil
	d.pending = nil
}
