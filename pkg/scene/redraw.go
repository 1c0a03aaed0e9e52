package scene

import "time"

// Scheduler gates redraws to a frame rate. Requests are batched: the first
// request of a batch starts the clock and later ones are coalesced into it.
// The host asks Due once per frame tick.
type Scheduler struct {
	interval   time.Duration
	pending    bool
	first      time.Time
	lastRedraw time.Time
}

// NewScheduler returns a scheduler for fps frames per second. A
// non-positive rate uses DefaultFrameRate.
func NewScheduler(fps int) *Scheduler {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return &Scheduler{interval: time.Second / time.Duration(fps)}
}

// Interval returns the minimum time between redraws.
func (r *Scheduler) Interval() time.Duration { return r.interval }

// Request asks for a redraw on behalf of a change made at `at`. A request
// older than the last completed redraw is stale and dropped.
func (r *Scheduler) Request(at time.Time) {
	if at.Before(r.lastRedraw) {
		return
	}
	if !r.pending {
		r.pending = true
		r.first = at
	}
}

// Pending reports whether a redraw is waiting.
func (r *Scheduler) Pending() bool { return r.pending }

// Due reports whether the host should draw at now. A true result closes
// the batch and records now as the last redraw.
func (r *Scheduler) Due(now time.Time) bool {
	if !r.pending || now.Sub(r.first) < r.interval {
		return false
	}
	r.Done(now)
	return true
}

// Done records a redraw at now that happened outside Due.
func (r *Scheduler) Done(now time.Time) {
	r.pending = false
	r.lastRedraw = now
}
