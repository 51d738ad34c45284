package service

import (
	"sync"
	"time"
)

// CooldownTracker emits a live countdown toward a declared next-available
// time. It re-derives the remaining seconds from the deadline on every tick,
// so a missed or delayed tick can never leave the countdown negative or
// stuck above zero after the deadline passes.
//
// One tracker runs per active session; Stop must be called when the session
// ends so the periodic task does not leak.
type CooldownTracker struct {
	deadline time.Time
	interval time.Duration
	now      func() time.Time

	stopOnce sync.Once
	done     chan struct{}
}

// NewCooldownTracker creates a tracker counting down to deadline, ticking at
// the given interval. The now function defaults to time.Now when nil.
func NewCooldownTracker(deadline time.Time, interval time.Duration, now func() time.Time) *CooldownTracker {
	if now == nil {
		now = time.Now
	}
	return &CooldownTracker{
		deadline: deadline,
		interval: interval,
		now:      now,
		done:     make(chan struct{}),
	}
}

// Remaining reports the whole seconds left before the deadline, floored at
// zero.
func (t *CooldownTracker) Remaining() int {
	return remainingSeconds(t.deadline, t.now())
}

// Start runs the countdown in a new goroutine, invoking onTick with the
// remaining seconds on every interval. The final invocation passes exactly
// zero, after which the goroutine exits on its own. Stop ends it early.
func (t *CooldownTracker) Start(onTick func(remaining int)) {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				remaining := t.Remaining()
				onTick(remaining)
				if remaining == 0 {
					return
				}
			}
		}
	}()
}

// Stop tears the countdown down. Safe to call more than once and safe to
// call after the countdown finished on its own.
func (t *CooldownTracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}
