// Command client runs one trip end-to-end against the simulator: quote,
// confirm, poll until terminal, acknowledge. A development smoke tool for
// the trip core.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"tripflow/internal/config"
	"tripflow/internal/domain"
	"tripflow/internal/geo"
	"tripflow/internal/pricing"
	"tripflow/internal/redis"
	"tripflow/internal/sim"
	"tripflow/internal/transport"
	"tripflow/internal/trip"

	"tripflow/internal/app"
)

func main() {
	pickup := flag.String("pickup", "Connaught Place", "pickup address")
	destination := flag.String("dest", "IGI Airport Terminal 3", "destination address")
	kind := flag.String("kind", "RIDE", "RIDE or DELIVERY")
	tier := flag.String("tier", "ECONOMY", "pricing tier")
	flag.Parse()

	cfg := config.Load()

	cat := domain.Category{
		Kind: domain.CategoryKind(*kind),
		Tier: domain.CategoryTier(*tier),
	}
	if !cat.Valid() {
		log.Fatalf("unknown category %s/%s", *kind, *tier)
	}

	table := pricing.DefaultTable()
	if cfg.Pricing.TariffFile != "" {
		var err error
		table, err = pricing.LoadTable(cfg.Pricing.TariffFile)
		if err != nil {
			log.Fatalf("failed to load tariffs: %v", err)
		}
	}

	var fallback *domain.GeoPoint
	center := domain.GeoPoint{Latitude: cfg.Geo.FallbackLat, Longitude: cfg.Geo.FallbackLng}
	if cfg.Geo.FallbackEnabled {
		fallback = &center
	}

	var snapshots trip.SnapshotStore
	if cfg.Redis.Enabled {
		client, err := app.NewRedisClient(context.Background(), cfg.Redis, nil)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer client.Close()
		snapshots = redis.NewSnapshotStore(client)
	}

	controller := trip.NewController(
		geo.NewResolver(sim.NewGeocoder(center), fallback),
		pricing.NewEstimator(table),
		transport.NewHTTPClient(cfg.Transport.BaseURL, cfg.Transport.Timeout),
		trip.LogSink{},
		snapshots,
		trip.Options{
			RidePollInterval:     cfg.Sync.RidePollInterval,
			DeliveryPollInterval: cfg.Sync.DeliveryPollInterval,
			FailureThreshold:     cfg.Sync.FailureThreshold,
		},
	)
	defer controller.Shutdown()

	ctx := context.Background()

	quote, err := controller.Request(ctx, *pickup, *destination, cat)
	if err != nil {
		log.Fatalf("quote failed: %v", err)
	}
	log.Printf("quote: %.2f km, fare %d", quote.DistanceKm, quote.Fare)

	t, err := controller.Confirm(ctx, quote)
	if err != nil {
		log.Fatalf("confirm failed: %v", err)
	}
	log.Printf("trip %s confirmed, tracking %s", t.ID, t.TrackingCode)

	for {
		time.Sleep(2 * time.Second)
		current, ok := controller.Current(cat.Kind)
		if !ok {
			log.Fatal("trip vanished")
		}
		if current.Status.Terminal() {
			log.Printf("trip finished: %s, final fare %d", current.Status, current.FinalFare)
			break
		}
		log.Printf("status: %s (degraded=%v)", current.Status, controller.Degraded(cat.Kind))
	}

	if err := controller.AcknowledgeCompletion(ctx, cat.Kind); err != nil {
		log.Fatalf("acknowledge failed: %v", err)
	}
	log.Println("trip acknowledged")
}
