// Package tests holds end-to-end lifecycle tests for the trip controller,
// with hand-rolled fakes for the remote client and the event sink.
package tests

import (
	"context"
	"errors"
	"sync"
	"time"

	"tripflow/internal/domain"
	"tripflow/internal/geo"
	"tripflow/internal/transport"
	"tripflow/internal/trip"
)

// fakeClient is a scripted transport.Client. FetchStatus replays the events
// slice in order, repeating the last entry once exhausted.
type fakeClient struct {
	mu          sync.Mutex
	events      []domain.StatusEvent
	idx         int
	created     []transport.CreateTripRequest
	cancelCalls []string
	createErr   error
	fetchErr    error
}

var _ transport.Client = (*fakeClient)(nil)

func (c *fakeClient) CreateTrip(_ context.Context, req transport.CreateTripRequest) (*transport.CreateTripResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created = append(c.created, req)
	return &transport.CreateTripResponse{
		ID:           "trip-1",
		TrackingCode: "TRK-AB12CD34",
	}, nil
}

func (c *fakeClient) FetchStatus(_ context.Context, _ string) (*domain.StatusEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	if len(c.events) == 0 {
		return nil, errors.New("no scripted events")
	}
	i := c.idx
	if i >= len(c.events) {
		i = len(c.events) - 1
	}
	c.idx++
	ev := c.events[i]
	return &ev, nil
}

func (c *fakeClient) RequestCancel(_ context.Context, tripID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelCalls = append(c.cancelCalls, tripID)
	return nil
}

func (c *fakeClient) cancelled() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cancelCalls...)
}

// captureSink records every emitted event for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []trip.Event
}

var _ trip.EventSink = (*captureSink)(nil)

func (s *captureSink) Emit(ev trip.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *captureSink) has(t trip.EventType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Type == t {
			return true
		}
	}
	return false
}

// mapGeocoder resolves only the addresses it knows.
type mapGeocoder struct {
	points map[string]domain.GeoPoint
}

func (g *mapGeocoder) Geocode(_ context.Context, address string) (domain.GeoPoint, error) {
	p, ok := g.points[address]
	if !ok {
		return domain.GeoPoint{}, errors.New("address not known")
	}
	return p, nil
}

func (g *mapGeocoder) ReverseGeocode(_ context.Context, _ domain.GeoPoint) (string, error) {
	return "", errors.New("not implemented")
}

// knownGeocoder covers the two endpoints the lifecycle tests quote between.
func knownGeocoder() *mapGeocoder {
	return &mapGeocoder{points: map[string]domain.GeoPoint{
		"Connaught Place": {Latitude: 28.6315, Longitude: 77.2167},
		"IGI Airport":     {Latitude: 28.5562, Longitude: 77.0889},
	}}
}

func newResolver(fallback *domain.GeoPoint) *geo.Resolver {
	return geo.NewResolver(knownGeocoder(), fallback)
}

// statusScript builds the event sequence a remote would serve for the given
// path, attaching partner data from ASSIGNED onward and the final fare at
// COMPLETED.
func statusScript(path []domain.TripStatus, finalFare int64) []domain.StatusEvent {
	partner := &domain.Partner{
		Name:    "Ravi Kumar",
		Phone:   "+91-98100-11223",
		Vehicle: "White Swift DL 3C 4521",
		Rating:  4.8,
	}

	events := make([]domain.StatusEvent, 0, len(path))
	assigned := false
	for _, status := range path {
		ev := domain.StatusEvent{Status: status, ObservedAt: time.Now()}
		if status == domain.StatusAssigned {
			assigned = true
		}
		if assigned {
			p := *partner
			ev.Partner = &p
		}
		if status == domain.StatusCompleted {
			ev.FinalFare = finalFare
		}
		events = append(events, ev)
	}
	return events
}
