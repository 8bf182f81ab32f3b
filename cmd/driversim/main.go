// driversim simulates a driver device for local development: it generates
// GPS fixes along a straight line between two known places and commits
// throttled position updates to a running fleet-tracking server.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fleet-tracking-system/geocoding"
	"fleet-tracking-system/models"
	"fleet-tracking-system/tracking"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "fleet-tracking server base URL")
	tripID := flag.Int64("trip", 0, "trip ID to update")
	from := flag.String("from", "Luanda", "start place name")
	to := flag.String("to", "Lobito", "destination place name")
	duration := flag.Duration("duration", 5*time.Minute, "simulated trip duration")
	fixEvery := flag.Duration("fix-every", 2*time.Second, "raw GPS fix interval")
	commitEvery := flag.Duration("commit-every", 10*time.Second, "minimum interval between committed updates")
	flag.Parse()

	if *tripID == 0 {
		log.Fatal("-trip is required")
	}

	gazetteer := geocoding.DefaultGazetteer()
	start, ok := gazetteer.Lookup(*from)
	if !ok {
		log.Fatalf("unknown start place %q", *from)
	}
	end, ok := gazetteer.Lookup(*to)
	if !ok {
		log.Fatalf("unknown destination place %q", *to)
	}

	source := &simulatedSource{
		start:    start,
		end:      end,
		duration: *duration,
		interval: *fixEvery,
	}
	tracker := tracking.NewTracker(source, tracking.NewHTTPCommitter(*server, nil), *tripID, *commitEvery)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tracker.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer tracker.Stop()

	log.Printf("simulating trip %d: %s -> %s over %s", *tripID, *from, *to, *duration)
	select {
	case <-ctx.Done():
	case <-time.After(*duration):
	}
	log.Println("simulation finished")
}

// simulatedSource emits fixes interpolated along the start->end line for the
// configured duration, then keeps reporting the endpoint.
type simulatedSource struct {
	start    models.Coordinates
	end      models.Coordinates
	duration time.Duration
	interval time.Duration

	mu      sync.Mutex
	stopped bool
}

func (s *simulatedSource) Current(ctx context.Context, opts tracking.WatchOptions) (tracking.Position, error) {
	return tracking.Position{Lat: s.start.Lat, Lng: s.start.Lng, Timestamp: time.Now()}, nil
}

func (s *simulatedSource) Watch(ctx context.Context, opts tracking.WatchOptions, fn func(tracking.Position, error)) (func(), error) {
	began := time.Now()
	ticker := time.NewTicker(s.interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		fn(s.at(0), nil)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				frac := float64(time.Since(began)) / float64(s.duration)
				if frac > 1 {
					frac = 1
				}
				fn(s.at(frac), nil)
			}
		}
	}()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.stopped {
			s.stopped = true
			close(done)
		}
	}, nil
}

func (s *simulatedSource) at(frac float64) tracking.Position {
	return tracking.Position{
		Lat:       s.start.Lat + frac*(s.end.Lat-s.start.Lat),
		Lng:       s.start.Lng + frac*(s.end.Lng-s.start.Lng),
		Timestamp: time.Now(),
	}
}
