// Package sim is the development stand-in for the remote marketplace: an
// in-memory trip registry that advances each trip along its category's
// status path on a fixed step interval. It gives the status synchronizer a
// real source to poll without a production backend.
package sim

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripflow/internal/domain"
	"tripflow/internal/statemachine"
)

var (
	// ErrNotFound is returned for unknown trip ids.
	ErrNotFound = errors.New("trip not found")

	// ErrNotCancellable is returned when a trip is already terminal.
	ErrNotCancellable = errors.New("trip cannot be cancelled")
)

// partnerRoster is the pool of simulated drivers/couriers.
var partnerRoster = []domain.Partner{
	{Name: "Ravi Kumar", Phone: "+91-98100-11223", Vehicle: "White Swift DL 3C 4521", Rating: 4.8},
	{Name: "Meena Joshi", Phone: "+91-98100-44556", Vehicle: "Blue Activa DL 8S 1177", Rating: 4.6},
	{Name: "Arjun Singh", Phone: "+91-98100-77889", Vehicle: "Grey Ertiga DL 1Z 9034", Rating: 4.9},
}

// tripRecord is the simulator's view of one trip.
type tripRecord struct {
	id           string
	trackingCode string
	category     domain.Category
	quotedFare   int64

	status    domain.TripStatus
	partner   *domain.Partner
	finalFare int64
	updatedAt time.Time

	stopCh chan struct{}
}

// Registry holds simulated trips and advances them over time.
type Registry struct {
	step time.Duration

	mu      sync.Mutex
	trips   map[string]*tripRecord
	nextIdx int
	closed  bool
}

// NewRegistry creates a Registry whose trips advance one status every step.
func NewRegistry(step time.Duration) *Registry {
	return &Registry{
		step:  step,
		trips: make(map[string]*tripRecord),
	}
}

// CreateTrip registers a new trip in REQUESTED and starts its progression.
// It returns the assigned id and tracking code.
func (r *Registry) CreateTrip(cat domain.Category, quotedFare int64) (id, trackingCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = uuid.New().String()
	trackingCode = "TRK-" + strings.ToUpper(id[:8])

	rec := &tripRecord{
		id:           id,
		trackingCode: trackingCode,
		category:     cat,
		quotedFare:   quotedFare,
		status:       domain.StatusRequested,
		updatedAt:    time.Now(),
		stopCh:       make(chan struct{}),
	}
	r.trips[id] = rec

	if !r.closed {
		go r.advance(rec)
	}
	return id, trackingCode
}

// Status returns the current observed status for a trip, with partner data
// from ASSIGNED onward and the final fare at COMPLETED.
func (r *Registry) Status(id string) (*domain.StatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.trips[id]
	if !ok {
		return nil, ErrNotFound
	}

	ev := &domain.StatusEvent{
		Status:     rec.status,
		ObservedAt: rec.updatedAt,
	}
	if rec.partner != nil {
		p := *rec.partner
		ev.Partner = &p
	}
	if rec.status == domain.StatusCompleted {
		ev.FinalFare = rec.finalFare
	}
	return ev, nil
}

// Cancel marks a trip CANCELLED and stops its progression. Terminal trips
// cannot be cancelled.
func (r *Registry) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.trips[id]
	if !ok {
		return ErrNotFound
	}
	if rec.status.Terminal() {
		return ErrNotCancellable
	}

	rec.status = domain.StatusCancelled
	rec.updatedAt = time.Now()
	close(rec.stopCh)
	return nil
}

// Close stops every trip's progression. Existing statuses stay readable.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, rec := range r.trips {
		if !rec.status.Terminal() {
			close(rec.stopCh)
		}
	}
}

// advance steps one trip forward along its category path until terminal.
func (r *Registry) advance(rec *tripRecord) {
	ticker := time.NewTicker(r.step)
	defer ticker.Stop()

	for {
		select {
		case <-rec.stopCh:
			return
		case <-ticker.C:
			if done := r.stepTrip(rec); done {
				return
			}
		}
	}
}

func (r *Registry) stepTrip(rec *tripRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.status.Terminal() {
		return true
	}

	next, ok := statemachine.Next(rec.category.Kind, rec.status)
	if !ok {
		return true
	}

	rec.status = next
	rec.updatedAt = time.Now()

	switch next {
	case domain.StatusAssigned:
		p := partnerRoster[r.nextIdx%len(partnerRoster)]
		r.nextIdx++
		rec.partner = &p
	case domain.StatusCompleted:
		rec.finalFare = rec.quotedFare
		return true
	}
	return false
}
