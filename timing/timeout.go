// Package timing provides frame-driven timers. The scene runs a single render loop, so
// deferred work is expressed as deadlines checked against the scene clock rather than
// goroutines or time.AfterFunc.
package timing

import "time"

// Timeout is a cancellable, restartable one-shot deadline.
// The zero value is an idle timeout.
type Timeout struct {
	deadline time.Duration
	armed    bool
}

// Start arms the timeout to fire d after now, replacing any pending deadline.
func (t *Timeout) Start(now, d time.Duration) {
	t.deadline = now + d
	t.armed = true
}

// Cancel disarms the timeout.
func (t *Timeout) Cancel() {
	t.armed = false
}

// Pending reports whether the timeout is armed and has not fired.
func (t *Timeout) Pending() bool {
	return t.armed
}

// Remaining returns the time left before the deadline, or 0 if idle.
func (t *Timeout) Remaining(now time.Duration) time.Duration {
	if !t.armed || now >= t.deadline {
		return 0
	}
	return t.deadline - now
}

// Fired reports true exactly once, on the first call at or after the deadline.
func (t *Timeout) Fired(now time.Duration) bool {
	if !t.armed || now < t.deadline {
		return false
	}
	t.armed = false
	return true
}

// Clock accumulates frame deltas into a monotonic scene time.
type Clock struct {
	now time.Duration
}

// Advance moves the clock forward by dt seconds and returns the new time.
func (c *Clock) Advance(dt float64) time.Duration {
	if dt > 0 {
		c.now += time.Duration(dt * float64(time.Second))
	}
	return c.now
}

// Now returns the current scene time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Seconds converts a float number of seconds to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
