package tracking

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestThrottleCommitsOncePerWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	th := newThrottle(10*time.Second, clock.now)

	// Five callbacks inside the window: only the first commits.
	commits := 0
	for i := 0; i < 5; i++ {
		if th.Allow() {
			commits++
		}
		clock.advance(2 * time.Second)
	}
	if commits != 1 {
		t.Fatalf("expected exactly 1 commit within the window, got %d", commits)
	}

	// Clock is now 10s past the first commit: the next callback passes.
	if !th.Allow() {
		t.Error("expected a 2nd commit once the window elapsed")
	}
}

func TestThrottleFirstEventPassesImmediately(t *testing.T) {
	th := newThrottle(10*time.Second, (&fakeClock{t: time.Unix(0, 1)}).now)
	if !th.Allow() {
		t.Error("first event must pass immediately")
	}
}

func TestThrottleReset(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	th := newThrottle(10*time.Second, clock.now)

	th.Allow()
	clock.advance(time.Second)
	if th.Allow() {
		t.Fatal("second event within the window must be dropped")
	}

	th.Reset()
	if !th.Allow() {
		t.Error("first event after reset must pass")
	}
}
