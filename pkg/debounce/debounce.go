// Package debounce coalesces bursts of notifications into single calls.
//
// A [Debouncer] is driven by the caller's clock rather than by timers: the
// host calls [Debouncer.Trigger] whenever something changed and
// [Debouncer.Poll] once per frame. That keeps every call on the host's
// thread and makes the behavior reproducible in tests.
//
// Two durations shape the behavior. The delay is how long the input must be
// quiet before the callback fires. The ceiling bounds the latency under
// continuous triggering: once that much time has passed since the last call,
// the next trigger or poll fires immediately.
package debounce

import "time"

// Debouncer wraps a callback with delay and ceiling semantics.
// A Debouncer is not safe for concurrent use.
type Debouncer struct {
	fn      func()
	delay   time.Duration
	ceiling time.Duration

	lastFire time.Time
	deadline time.Time
	pending  bool
	firing   bool
}

// New returns a Debouncer calling fn. A ceiling below delay is raised to
// delay.
func New(fn func(), delay, ceiling time.Duration) *Debouncer {
	return &Debouncer{
		fn:      fn,
		delay:   delay,
		ceiling: max(ceiling, delay),
	}
}

// Trigger records a change at now. The callback fires immediately when the
// ceiling has elapsed since the last call, otherwise it is (re)scheduled for
// now+delay. A trigger raised from inside the callback only marks the
// debouncer pending.
func (d *Debouncer) Trigger(now time.Time) {
	if d.firing {
		d.pending = true
		d.deadline = now.Add(d.delay)
		return
	}
	if d.overdue(now) {
		d.fire(now)
		return
	}
	d.pending = true
	d.deadline = now.Add(d.delay)
}

// Poll fires the callback when a pending call is due at now and reports
// whether it did.
func (d *Debouncer) Poll(now time.Time) bool {
	if !d.pending || d.firing {
		return false
	}
	if now.Before(d.deadline) && !d.overdue(now) {
		return false
	}
	d.fire(now)
	return true
}

// Flush fires a pending call right away.
func (d *Debouncer) Flush(now time.Time) bool {
	if !d.pending || d.firing {
		return false
	}
	d.fire(now)
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool { return d.pending }

// Cancel drops a scheduled call.
func (d *Debouncer) Cancel() { d.pending = false }

func (d *Debouncer) overdue(now time.Time) bool {
	return d.lastFire.IsZero() || now.Sub(d.lastFire) >= d.ceiling
}

func (d *Debouncer) fire(now time.Time) {
	d.pending = false
	d.lastFire = now
	d.firing = true
	defer func() { d.firing = false }()
	d.fn()
}
