package tracking

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Committer persists one throttled position update for a trip.
type Committer interface {
	CommitPosition(ctx context.Context, tripID int64, pos Position) error
}

// Tracker owns one GPS watch for the duration of one trip: acquired on Start,
// released on Stop (or context cancellation). Raw fixes may arrive
// sub-second; commits are throttled.
type Tracker struct {
	source    PositionSource
	committer Committer
	throttle  *Throttle
	tripID    int64

	mu      sync.Mutex
	stop    func()
	started bool
}

func NewTracker(source PositionSource, committer Committer, tripID int64, minInterval time.Duration) *Tracker {
	return &Tracker{
		source:    source,
		committer: committer,
		throttle:  NewThrottle(minInterval),
		tripID:    tripID,
	}
}

// Start begins watching. The throttle is reset so the first fix commits
// immediately.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return errors.New("tracker already started")
	}

	t.throttle.Reset()
	stop, err := t.source.Watch(ctx, WatchOptions{HighAccuracy: true, Timeout: 15 * time.Second}, func(pos Position, err error) {
		if err != nil {
			var perr PositionError
			if errors.As(err, &perr) {
				log.Printf("tracking: trip %d: %s", t.tripID, perr.UserMessage())
			} else {
				log.Printf("tracking: trip %d: watch error: %v", t.tripID, err)
			}
			return
		}
		if !t.throttle.Allow() {
			return
		}
		if err := t.committer.CommitPosition(ctx, t.tripID, pos); err != nil {
			log.Printf("tracking: trip %d: commit failed: %v", t.tripID, err)
		}
	})
	if err != nil {
		return err
	}
	t.stop = stop
	t.started = true
	return nil
}

// Stop releases the GPS watch. Safe to call more than once; must be called
// when the trip ends or the portal page unmounts.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	t.started = false
}
