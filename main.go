package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fleet-tracking-system/api"
	"fleet-tracking-system/cache"
	"fleet-tracking-system/config"
	"fleet-tracking-system/database"
	"fleet-tracking-system/geocoding"
	"fleet-tracking-system/geoindex"
	"fleet-tracking-system/livemap"
	"fleet-tracking-system/migration"
	"fleet-tracking-system/routing"
)

func main() {
	runMigrations := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	// Initialize configuration
	config.InitConfig()

	if *runMigrations {
		if err := migration.RunMigrations(); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
		return
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal(err)
	}

	// Initialize Redis
	if err := cache.InitRedis(); err != nil {
		log.Fatal(err)
	}

	resolver := geocoding.NewResolver(
		config.Cfg.Geocoding.BaseURL,
		config.Cfg.Geocoding.Country,
		config.Cfg.Geocoding.Limit,
		nil,
	)
	builder := routing.NewBuilder(config.Cfg.Routing.BaseURL, nil)
	index := geoindex.New(geoindex.GeohashingTechnique)
	renderer := livemap.NewRenderer(geocoding.DefaultGazetteer())

	api.Init(renderer, resolver, builder, index)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer renderer.Close()

	seedGeoindex(ctx, index)

	poller := livemap.NewPoller(
		database.Fleet{},
		renderer,
		time.Duration(config.Cfg.Poll.IntervalSeconds)*time.Second,
		time.Duration(config.Cfg.Poll.TimeoutSeconds)*time.Second,
	)
	go poller.Run(ctx)

	// Register routes
	router := api.RegisterRoutes()

	// Start the server
	srv := &http.Server{Addr: config.Cfg.Server.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server started on %s", config.Cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// seedGeoindex rebuilds the in-memory spatial index from the vehicles table
// so nearby queries work right after a restart.
func seedGeoindex(ctx context.Context, index *geoindex.Index) {
	vehicles, err := database.ListVehicles(ctx)
	if err != nil {
		log.Printf("geoindex seed failed: %v", err)
		return
	}
	for _, v := range vehicles {
		if v.HasLocation() {
			index.Upsert(geoindex.Entry{VehicleID: v.ID, Lat: *v.Latitude, Lng: *v.Longitude})
		}
	}
	log.Printf("geoindex seeded with %d vehicles", len(vehicles))
}
