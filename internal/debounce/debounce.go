// Package debounce runs the last of a burst of commands after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending command. Scheduling a new command
// replaces the pending one and restarts the delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	seq     uint64
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule queues fn to run after the delay. A non-positive delay runs fn
// synchronously.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	if d.delay <= 0 {
		d.pending = nil
		d.mu.Unlock()
		fn()
		return
	}
	seq := d.seq
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
	d.mu.Unlock()
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	// superseded or cancelled after the timer already fired
	if seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	fn()
}

// Flush runs the pending command now, if any. It reports whether one ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.take()
	d.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Cancel drops the pending command without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.take()
	d.mu.Unlock()
}

// Pending reports whether a command is waiting.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels the pending command and ignores later schedules.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.take()
	d.stopped = true
	d.mu.Unlock()
}

// take must be called with mu held.
func (d *Debouncer) take() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	fn := d.pending
	d.pending = nil
	return fn
}
