// Package trip exposes the controller façade the view layer talks to. It
// composes the resolver, the fare estimator, the state machine, the
// cancellation policy and the status synchronizer around at most one active
// trip per category kind.
package trip

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tripflow/internal/domain"
	"tripflow/internal/geo"
	"tripflow/internal/policy"
	"tripflow/internal/pricing"
	"tripflow/internal/statemachine"
	"tripflow/internal/statussync"
	"tripflow/internal/transport"
)

// SnapshotStore persists the last-known state of active trips so a torn
// down view can re-render it. Implementations are best-effort; the
// controller ignores store failures.
type SnapshotStore interface {
	SaveTrip(ctx context.Context, trip *domain.Trip) error
	DeleteTrip(ctx context.Context, trackingCode string) error
}

// Options tune the controller's synchronizers.
type Options struct {
	RidePollInterval     time.Duration // default 10s
	DeliveryPollInterval time.Duration // default 30s
	FailureThreshold     int           // default 3
}

func (o Options) withDefaults() Options {
	if o.RidePollInterval <= 0 {
		o.RidePollInterval = 10 * time.Second
	}
	if o.DeliveryPollInterval <= 0 {
		o.DeliveryPollInterval = 30 * time.Second
	}
	if o.FailureThreshold <= 0 {
		o.FailureThreshold = 3
	}
	return o
}

// activeTrip pairs a trip with its running synchronizer.
type activeTrip struct {
	trip *domain.Trip
	sync *statussync.Synchronizer
}

// Controller is the single entry point for the view layer. All trip
// mutation is serialized by its mutex: one transition at a time, in arrival
// order.
type Controller struct {
	resolver  *geo.Resolver
	estimator *pricing.Estimator
	client    transport.Client
	sink      EventSink
	snapshots SnapshotStore // may be nil
	opts      Options

	mu     sync.Mutex
	active map[domain.CategoryKind]*activeTrip
}

// NewController creates a Controller. snapshots may be nil to disable the
// snapshot cache; sink may be nil for no observability.
func NewController(
	resolver *geo.Resolver,
	estimator *pricing.Estimator,
	client transport.Client,
	sink EventSink,
	snapshots SnapshotStore,
	opts Options,
) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		resolver:  resolver,
		estimator: estimator,
		client:    client,
		sink:      sink,
		snapshots: snapshots,
		opts:      opts.withDefaults(),
		active:    make(map[domain.CategoryKind]*activeTrip),
	}
}

// Request resolves both endpoints and produces a fare quote. No trip is
// created. Endpoints that resolve only approximately produce a non-fatal
// APPROXIMATE_LOCATION event; an endpoint that cannot be resolved at all
// fails with ErrLocationUnresolved.
func (c *Controller) Request(ctx context.Context, pickupText, destinationText string, cat domain.Category) (*domain.Quote, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %s", pricing.ErrUnknownCategory, cat)
	}

	pickup, err := c.resolveEndpoint(ctx, pickupText, "pickup")
	if err != nil {
		return nil, err
	}
	destination, err := c.resolveEndpoint(ctx, destinationText, "destination")
	if err != nil {
		return nil, err
	}

	distance := geo.DistanceKm(pickup.Point, destination.Point)
	fare, err := c.estimator.Quote(distance, cat)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		Category:    cat,
		Pickup:      pickup,
		Destination: destination,
		DistanceKm:  distance,
		Fare:        fare,
		CreatedAt:   time.Now(),
	}

	c.sink.Emit(Event{
		Type:    EventQuoteProduced,
		Message: fmt.Sprintf("quoted %d for %.2f km %s", fare, distance, cat),
		Data: map[string]any{
			"category":    cat.String(),
			"distance_km": distance,
			"fare":        fare,
		},
		CreatedAt: time.Now(),
	})

	return quote, nil
}

func (c *Controller) resolveEndpoint(ctx context.Context, text, role string) (domain.Location, error) {
	loc, err := c.resolver.Resolve(ctx, text)
	if err != nil {
		return domain.Location{}, fmt.Errorf("%w: %s %q", ErrLocationUnresolved, role, text)
	}
	if loc.Approximate {
		c.sink.Emit(Event{
			Type:      EventApproximateLocation,
			Message:   fmt.Sprintf("%s %q resolved approximately", role, text),
			Data:      map[string]any{"role": role, "address": text},
			CreatedAt: time.Now(),
		})
	}
	return loc, nil
}

// Confirm submits the quote to the remote system, creates the trip in
// REQUESTED and starts its status synchronizer. At most one trip per
// category kind may be active.
func (c *Controller) Confirm(ctx context.Context, quote *domain.Quote) (*domain.Trip, error) {
	if quote == nil || !quote.Category.Valid() || quote.Fare <= 0 {
		return nil, ErrInvalidQuote
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kind := quote.Category.Kind
	if _, exists := c.active[kind]; exists {
		return nil, fmt.Errorf("%w: %s", ErrTripAlreadyActive, kind)
	}

	resp, err := c.client.CreateTrip(ctx, transport.CreateTripRequest{
		Category:    quote.Category,
		Pickup:      quote.Pickup,
		Destination: quote.Destination,
		QuotedFare:  quote.Fare,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &domain.Trip{
		ID:                 resp.ID,
		TrackingCode:       resp.TrackingCode,
		Category:           quote.Category,
		Pickup:             quote.Pickup,
		Destination:        quote.Destination,
		Status:             domain.StatusRequested,
		History:            []domain.StatusChange{{Status: domain.StatusRequested, At: now}},
		QuotedFare:         quote.Fare,
		CreatedAt:          now,
		LastStatusChangeAt: now,
	}

	entry := &activeTrip{trip: t}
	entry.sync = statussync.New(
		t.ID,
		c.pollInterval(kind),
		c.opts.FailureThreshold,
		c.client,
		func(ev domain.StatusEvent) (bool, error) { return c.applyRemote(kind, ev) },
		c.syncCallbacks(t),
	)
	c.active[kind] = entry

	c.saveSnapshot(t)
	c.sink.Emit(Event{
		Type:      EventTripConfirmed,
		TripID:    t.ID,
		Message:   fmt.Sprintf("trip %s confirmed, tracking %s", t.ID, t.TrackingCode),
		Data:      map[string]any{"tracking_code": t.TrackingCode, "category": t.Category.String()},
		CreatedAt: now,
	})

	entry.sync.Start(context.Background())

	return t.Clone(), nil
}

func (c *Controller) pollInterval(kind domain.CategoryKind) time.Duration {
	if kind == domain.KindDelivery {
		return c.opts.DeliveryPollInterval
	}
	return c.opts.RidePollInterval
}

func (c *Controller) syncCallbacks(t *domain.Trip) statussync.Callbacks {
	return statussync.Callbacks{
		OnFetchError: func(err error, consecutive int) {
			c.sink.Emit(Event{
				Type:      EventSyncFetchFailed,
				TripID:    t.ID,
				Message:   fmt.Sprintf("status fetch failed (%d consecutive): %v", consecutive, err),
				Data:      map[string]any{"consecutive": consecutive},
				CreatedAt: time.Now(),
			})
		},
		OnDegraded: func() {
			c.sink.Emit(Event{
				Type:      EventSyncDegraded,
				TripID:    t.ID,
				Message:   "connection degraded",
				CreatedAt: time.Now(),
			})
		},
		OnRecovered: func() {
			c.sink.Emit(Event{
				Type:      EventSyncRecovered,
				TripID:    t.ID,
				Message:   "connection recovered",
				CreatedAt: time.Now(),
			})
		},
		OnApplyError: func(err error) {
			c.sink.Emit(Event{
				Type:      EventSyncFetchFailed,
				TripID:    t.ID,
				Message:   fmt.Sprintf("observed status rejected: %v", err),
				CreatedAt: time.Now(),
			})
		},
	}
}

// applyRemote feeds one observed status into the trip of the given kind.
// Called from the synchronizer's goroutine; serialized with every other
// mutation by the controller mutex.
func (c *Controller) applyRemote(kind domain.CategoryKind, ev domain.StatusEvent) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.active[kind]
	if !ok {
		// Trip released between fetch and apply; stop the loop quietly.
		return true, nil
	}
	t := entry.trip

	if t.Status.Terminal() {
		return true, nil
	}

	changed, err := statemachine.Apply(t, ev)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	c.saveSnapshot(t)
	c.sink.Emit(Event{
		Type:      EventStatusChanged,
		TripID:    t.ID,
		Message:   fmt.Sprintf("status changed to %s", t.Status),
		Data:      map[string]any{"status": string(t.Status)},
		CreatedAt: time.Now(),
	})

	if t.Status == domain.StatusCompleted {
		c.sink.Emit(Event{
			Type:      EventTripCompleted,
			TripID:    t.ID,
			Message:   fmt.Sprintf("trip completed, final fare %d", t.FinalFare),
			Data:      map[string]any{"final_fare": t.FinalFare},
			CreatedAt: time.Now(),
		})
	}

	return t.Status.Terminal(), nil
}

// Cancel cancels the active trip of the given kind. The cancellation policy
// is consulted fresh against the trip's current status; past the
// irrevocable boundary the call fails with policy.ErrCancellationNotAllowed
// and the trip is left untouched.
func (c *Controller) Cancel(ctx context.Context, kind domain.CategoryKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.active[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoActiveTrip, kind)
	}
	t := entry.trip

	if err := policy.CanCancel(t); err != nil {
		return err
	}

	if err := c.client.RequestCancel(ctx, t.ID); err != nil {
		return err
	}

	if _, err := statemachine.Apply(t, domain.StatusEvent{
		Status:     domain.StatusCancelled,
		ObservedAt: time.Now(),
	}); err != nil {
		return err
	}

	entry.sync.Stop()
	c.saveSnapshot(t)
	c.sink.Emit(Event{
		Type:      EventTripCancelled,
		TripID:    t.ID,
		Message:   "trip cancelled",
		CreatedAt: time.Now(),
	})

	return nil
}

// AcknowledgeCompletion releases a terminal trip once the view has shown
// its receipt, allowing the next Confirm for that kind.
func (c *Controller) AcknowledgeCompletion(ctx context.Context, kind domain.CategoryKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.active[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoActiveTrip, kind)
	}
	if entry.trip.Active() {
		return fmt.Errorf("%w: status %s", ErrTripStillActive, entry.trip.Status)
	}

	entry.sync.Stop()
	delete(c.active, kind)

	if c.snapshots != nil {
		_ = c.snapshots.DeleteTrip(ctx, entry.trip.TrackingCode)
	}
	c.sink.Emit(Event{
		Type:      EventTripReleased,
		TripID:    entry.trip.ID,
		Message:   "trip released",
		CreatedAt: time.Now(),
	})

	return nil
}

// Current returns a read-only snapshot of the trip of the given kind, or
// false when none is held.
func (c *Controller) Current(kind domain.CategoryKind) (*domain.Trip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.active[kind]
	if !ok {
		return nil, false
	}
	return entry.trip.Clone(), true
}

// Degraded reports whether the synchronizer for the given kind has crossed
// its consecutive-failure threshold.
func (c *Controller) Degraded(kind domain.CategoryKind) bool {
	c.mu.Lock()
	entry, ok := c.active[kind]
	c.mu.Unlock()
	if !ok {
		return false
	}
	return entry.sync.Degraded()
}

// Shutdown stops every running synchronizer. Trips are left in place so a
// recreated view can still read them.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.active {
		entry.sync.Stop()
	}
}

// saveSnapshot persists the trip best-effort. Callers hold the mutex.
func (c *Controller) saveSnapshot(t *domain.Trip) {
	if c.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.snapshots.SaveTrip(ctx, t.Clone())
}
