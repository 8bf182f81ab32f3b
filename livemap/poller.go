package livemap

import (
	"context"
	"log"
	"time"

	"fleet-tracking-system/models"
)

// FleetSource produces the snapshots the renderer reconciles against. Vehicle
// and route lists come from independent queries and may be one cycle apart;
// the renderer tolerates that.
type FleetSource interface {
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListActiveRoutes(ctx context.Context) ([]models.ActiveRoute, error)
}

// Poller refreshes the renderer on a fixed interval. "Real-time" here is
// short polling, not push.
type Poller struct {
	source   FleetSource
	renderer *Renderer
	interval time.Duration
	timeout  time.Duration
}

func NewPoller(source FleetSource, renderer *Renderer, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = 4 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Poller{source: source, renderer: renderer, interval: interval, timeout: timeout}
}

// Run polls until the context is cancelled. The first tick fires immediately
// so the scene is populated as soon as the server is up.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.tick(ctx)
			t.Reset(p.interval)
		}
	}
}

// tick fetches both lists and reconciles. A failed fetch keeps the previous
// scene; a stale frame beats a blank map.
func (p *Poller) tick(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	vehicles, err := p.source.ListVehicles(cctx)
	if err != nil {
		log.Printf("livemap: vehicle poll failed: %v", err)
		return
	}
	routes, err := p.source.ListActiveRoutes(cctx)
	if err != nil {
		log.Printf("livemap: route poll failed: %v", err)
		return
	}
	p.renderer.Reconcile(vehicles, routes)
}
