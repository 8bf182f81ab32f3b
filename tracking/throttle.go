package tracking

import (
	"sync"
	"time"
)

// Throttle limits a stream of events to one commit per interval. The first
// event after a Reset always passes, so the UI never waits a full window for
// its first fix.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return newThrottle(interval, time.Now)
}

func newThrottle(interval time.Duration, now func() time.Time) *Throttle {
	return &Throttle{interval: interval, now: now}
}

// Allow reports whether an event may be committed now, and if so starts the
// next window.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset clears the window so the next event passes immediately.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
}
