package session

import (
	"sync"
	"time"
)

// Scheduler runs fn once after d and returns a function that cancels the
// pending run, reporting whether it was still pending.
type Scheduler func(d time.Duration, fn func()) (cancel func() bool)

// AfterFunc schedules on the runtime timer.
func AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Debouncer collapses bursts of triggers: the callback of the last Trigger
// runs once, Interval after it, and earlier pending callbacks are dropped.
type Debouncer struct {
	interval time.Duration
	schedule Scheduler

	mu     sync.Mutex
	cancel func() bool
	gen    uint64
}

// NewDebouncer returns a Debouncer. A nil schedule uses AfterFunc; an
// interval of zero or less runs callbacks synchronously.
func NewDebouncer(interval time.Duration, schedule Scheduler) *Debouncer {
	if schedule == nil {
		schedule = AfterFunc
	}
	return &Debouncer{interval: interval, schedule: schedule}
}

// Interval is the configured quiet period.
func (d *Debouncer) Interval() time.Duration { return d.interval }

// Trigger replaces any pending callback with fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	d.stopLocked()
	if d.interval <= 0 {
		d.mu.Unlock()
		fn()
		return
	}
	gen := d.gen
	d.cancel = d.schedule(d.interval, func() {
		d.mu.Lock()
		current := gen == d.gen
		if current {
			d.cancel = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
	d.mu.Unlock()
}

// Stop drops the pending callback, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopLocked()
	d.mu.Unlock()
}

// Pending reports whether a callback is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

func (d *Debouncer) stopLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
}
