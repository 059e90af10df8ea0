package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripflow/internal/domain"
	"tripflow/internal/policy"
	"tripflow/internal/pricing"
	"tripflow/internal/statemachine"
	"tripflow/internal/trip"
)

func newTestController(client *fakeClient, sink *captureSink, fallback *domain.GeoPoint) *trip.Controller {
	return trip.NewController(
		newResolver(fallback),
		pricing.NewEstimator(pricing.DefaultTable()),
		client,
		sink,
		nil,
		trip.Options{
			RidePollInterval:     5 * time.Millisecond,
			DeliveryPollInterval: 5 * time.Millisecond,
			FailureThreshold:     3,
		},
	)
}

func waitForTrip(t *testing.T, c *trip.Controller, kind domain.CategoryKind, cond func(*domain.Trip) bool) *domain.Trip {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if current, ok := c.Current(kind); ok && cond(current) {
			return current
		}
		time.Sleep(2 * time.Millisecond)
	}
	current, ok := c.Current(kind)
	if !ok {
		t.Fatal("no active trip while waiting")
	}
	t.Fatalf("trip never reached expected state, stuck at %s", current.Status)
	return nil
}

func TestRideLifecycle(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	sink := &captureSink{}
	ctrl := newTestController(client, sink, nil)
	defer ctrl.Shutdown()

	ctx := context.Background()

	quote, err := ctrl.Request(ctx, "Connaught Place", "IGI Airport", domain.RideEconomy)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if quote.DistanceKm < 14 || quote.DistanceKm > 20 {
		t.Errorf("distance = %.2f km, want between 14 and 20", quote.DistanceKm)
	}
	if quote.Fare <= 0 {
		t.Fatalf("fare = %d, want positive", quote.Fare)
	}
	if !sink.has(trip.EventQuoteProduced) {
		t.Error("no QUOTE_PRODUCED event")
	}

	path := statemachine.Sequence(domain.KindRide)
	client.events = statusScript(path, quote.Fare)

	created, err := ctrl.Confirm(ctx, quote)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if created.Status != domain.StatusRequested {
		t.Errorf("initial status = %s, want REQUESTED", created.Status)
	}
	if created.TrackingCode == "" {
		t.Error("no tracking code assigned")
	}

	done := waitForTrip(t, ctrl, domain.KindRide, func(tr *domain.Trip) bool {
		return tr.Status == domain.StatusCompleted
	})
	if done.FinalFare != quote.Fare {
		t.Errorf("final fare = %d, want %d", done.FinalFare, quote.Fare)
	}
	if done.Partner == nil {
		t.Error("partner missing after completion")
	}
	if len(done.History) != len(path) {
		t.Errorf("history length = %d, want %d", len(done.History), len(path))
	}

	if err := ctrl.AcknowledgeCompletion(ctx, domain.KindRide); err != nil {
		t.Fatalf("AcknowledgeCompletion: %v", err)
	}
	if _, ok := ctrl.Current(domain.KindRide); ok {
		t.Error("trip still held after acknowledgement")
	}

	for _, want := range []trip.EventType{
		trip.EventTripConfirmed,
		trip.EventStatusChanged,
		trip.EventTripCompleted,
		trip.EventTripReleased,
	} {
		if !sink.has(want) {
			t.Errorf("missing %s event", want)
		}
	}
}

func TestConfirm_OneActiveTripPerKind(t *testing.T) {
	t.Parallel()

	client := &fakeClient{events: statusScript([]domain.TripStatus{domain.StatusRequested}, 0)}
	ctrl := newTestController(client, &captureSink{}, nil)
	defer ctrl.Shutdown()

	ctx := context.Background()

	rideQuote, err := ctrl.Request(ctx, "Connaught Place", "IGI Airport", domain.RideEconomy)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := ctrl.Confirm(ctx, rideQuote); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}

	if _, err := ctrl.Confirm(ctx, rideQuote); !errors.Is(err, trip.ErrTripAlreadyActive) {
		t.Errorf("second ride Confirm: error = %v, want ErrTripAlreadyActive", err)
	}

	// A delivery is independent of the active ride.
	deliveryQuote, err := ctrl.Request(ctx, "Connaught Place", "IGI Airport", domain.DeliverySmall)
	if err != nil {
		t.Fatalf("delivery Request: %v", err)
	}
	if _, err := ctrl.Confirm(ctx, deliveryQuote); err != nil {
		t.Errorf("delivery Confirm alongside active ride: %v", err)
	}
}

func TestCancel_RideWhileAssigned(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	sink := &captureSink{}
	ctrl := newTestController(client, sink, nil)
	defer ctrl.Shutdown()

	ctx := context.Background()

	quote, err := ctrl.Request(ctx, "Connaught Place", "IGI Airport", domain.RideComfort)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	client.events = statusScript([]domain.TripStatus{
		domain.StatusRequested,
		domain.StatusAssigned,
	}, 0)

	if _, err := ctrl.Confirm(ctx, quote); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	waitForTrip(t, ctrl, domain.KindRide, func(tr *domain.Trip) bool {
		return tr.Status == domain.StatusAssigned
	})

	if err := ctrl.Cancel(ctx, domain.KindRide); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	current, ok := ctrl.Current(domain.KindRide)
	if !ok {
		t.Fatal("trip released by Cancel; expected it held until acknowledged")
	}
	if current.Status != domain.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", current.Status)
	}
	if got := client.cancelled(); len(got) != 1 || got[0] != "trip-1" {
		t.Errorf("remote cancel calls = %v, want [trip-1]", got)
	}
	if !sink.has(trip.EventTripCancelled) {
		t.Error("no TRIP_CANCELLED event")
	}

	if err := ctrl.AcknowledgeCompletion(ctx, domain.KindRide); err != nil {
		t.Fatalf("AcknowledgeCompletion after cancel: %v", err)
	}
}

func TestCancel_DeliveryAfterPickupIsRejected(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	ctrl := newTestController(client, &captureSink{}, nil)
	defer ctrl.Shutdown()

	ctx := context.Background()

	quote, err := ctrl.Request(ctx, "Connaught Place", "IGI Airport", domain.DeliveryMedium)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	client.events = statusScript([]domain.TripStatus{
		domain.StatusRequested,
		domain.StatusAssigned,
		domain.StatusEnRoute,
		domain.StatusPickedUp,
	}, 0)

	if _, err := ctrl.Confirm(ctx, quote); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	waitForTrip(t, ctrl, domain.KindDelivery, func(tr *domain.Trip) bool {
		return tr.Status == domain.StatusPickedUp
	})

	err = ctrl.Cancel(ctx, domain.KindDelivery)
	if !errors.Is(err, policy.ErrCancellationNotAllowed) {
		t.Fatalf("Cancel after pickup: error = %v, want ErrCancellationNotAllowed", err)
	}

	current, _ := ctrl.Current(domain.KindDelivery)
	if current.Status != domain.StatusPickedUp {
		t.Errorf("status = %s, want PICKED_UP untouched", current.Status)
	}
	if got := client.cancelled(); len(got) != 0 {
		t.Errorf("remote cancel was called despite policy rejection: %v", got)
	}
}

func TestCancel_NoActiveTrip(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(&fakeClient{}, &captureSink{}, nil)
	defer ctrl.Shutdown()

	if err := ctrl.Cancel(context.Background(), domain.KindRide); !errors.Is(err, trip.ErrNoActiveTrip) {
		t.Errorf("error = %v, want ErrNoActiveTrip", err)
	}
}

func TestAcknowledgeCompletion_WhileStillActive(t *testing.T) {
	t.Parallel()

	client := &fakeClient{events: statusScript([]domain.TripStatus{domain.StatusRequested}, 0)}
	ctrl := newTestController(client, &captureSink{}, nil)
	defer ctrl.Shutdown()

	ctx := context.Background()

	quote, err := ctrl.Request(ctx, "Connaught Place", "IGI Airport", domain.RideEconomy)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := ctrl.Confirm(ctx, quote); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if err := ctrl.AcknowledgeCompletion(ctx, domain.KindRide); !errors.Is(err, trip.ErrTripStillActive) {
		t.Errorf("error = %v, want ErrTripStillActive", err)
	}
}

func TestDegraded_AfterRepeatedFetchFailures(t *testing.T) {
	t.Parallel()

	client := &fakeClient{fetchErr: errors.New("connection refused")}
	sink := &captureSink{}
	ctrl := newTestController(client, sink, nil)
	defer ctrl.Shutdown()

	ctx := context.Background()

	quote, err := ctrl.Request(ctx, "Connaught Place", "IGI Airport", domain.RideEconomy)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := ctrl.Confirm(ctx, quote); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !ctrl.Degraded(domain.KindRide) && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if !ctrl.Degraded(domain.KindRide) {
		t.Fatal("controller never reported a degraded connection")
	}
	if !sink.has(trip.EventSyncDegraded) {
		t.Error("no SYNC_DEGRADED event")
	}
}

func TestRequest_UnresolvedLocation(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(&fakeClient{}, &captureSink{}, nil)
	defer ctrl.Shutdown()

	_, err := ctrl.Request(context.Background(), "nowhere in particular", "IGI Airport", domain.RideEconomy)
	if !errors.Is(err, trip.ErrLocationUnresolved) {
		t.Errorf("error = %v, want ErrLocationUnresolved", err)
	}
}

func TestRequest_ApproximateFallbackWarns(t *testing.T) {
	t.Parallel()

	fallback := domain.GeoPoint{Latitude: 28.6139, Longitude: 77.2090}
	sink := &captureSink{}
	ctrl := newTestController(&fakeClient{}, sink, &fallback)
	defer ctrl.Shutdown()

	quote, err := ctrl.Request(context.Background(), "nowhere in particular", "IGI Airport", domain.RideEconomy)
	if err != nil {
		t.Fatalf("Request with fallback: %v", err)
	}
	if !quote.Pickup.Approximate {
		t.Error("pickup not marked approximate")
	}
	if !sink.has(trip.EventApproximateLocation) {
		t.Error("no APPROXIMATE_LOCATION event")
	}
}

func TestRequest_InvalidCategory(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(&fakeClient{}, &captureSink{}, nil)
	defer ctrl.Shutdown()

	_, err := ctrl.Request(context.Background(), "Connaught Place", "IGI Airport",
		domain.Category{Kind: "RIDE", Tier: "GOLD"})
	if !errors.Is(err, pricing.ErrUnknownCategory) {
		t.Errorf("error = %v, want ErrUnknownCategory", err)
	}
}

func TestConfirm_InvalidQuote(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(&fakeClient{}, &captureSink{}, nil)
	defer ctrl.Shutdown()

	ctx := context.Background()
	if _, err := ctrl.Confirm(ctx, nil); !errors.Is(err, trip.ErrInvalidQuote) {
		t.Errorf("nil quote: error = %v, want ErrInvalidQuote", err)
	}
	if _, err := ctrl.Confirm(ctx, &domain.Quote{Category: domain.RideEconomy}); !errors.Is(err, trip.ErrInvalidQuote) {
		t.Errorf("zero fare: error = %v, want ErrInvalidQuote", err)
	}
}
