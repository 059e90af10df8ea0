// Package statemachine holds the canonical trip states and the transition
// table between them. All trip mutation in the system goes through Apply.
package statemachine

import (
	"fmt"
	"time"

	"tripflow/internal/domain"
)

// rideSequence and deliverySequence are the forward paths for each kind.
// CANCELLED is reachable from every non-terminal state and is not part of
// the forward path.
var rideSequence = []domain.TripStatus{
	domain.StatusRequested,
	domain.StatusAssigned,
	domain.StatusEnRoute,
	domain.StatusArrived,
	domain.StatusInProgress,
	domain.StatusCompleted,
}

var deliverySequence = []domain.TripStatus{
	domain.StatusRequested,
	domain.StatusAssigned,
	domain.StatusEnRoute,
	domain.StatusPickedUp,
	domain.StatusInTransit,
	domain.StatusCompleted,
}

// next[kind][status] is the single legal forward successor.
var next = func() map[domain.CategoryKind]map[domain.TripStatus]domain.TripStatus {
	m := make(map[domain.CategoryKind]map[domain.TripStatus]domain.TripStatus)
	for kind, seq := range map[domain.CategoryKind][]domain.TripStatus{
		domain.KindRide:     rideSequence,
		domain.KindDelivery: deliverySequence,
	} {
		m[kind] = make(map[domain.TripStatus]domain.TripStatus, len(seq)-1)
		for i := 0; i < len(seq)-1; i++ {
			m[kind][seq[i]] = seq[i+1]
		}
	}
	return m
}()

// Sequence returns the forward status path for a category kind, in order,
// from REQUESTED to COMPLETED.
func Sequence(kind domain.CategoryKind) []domain.TripStatus {
	var seq []domain.TripStatus
	switch kind {
	case domain.KindDelivery:
		seq = deliverySequence
	default:
		seq = rideSequence
	}
	out := make([]domain.TripStatus, len(seq))
	copy(out, seq)
	return out
}

// Next returns the legal forward successor of status for the given kind.
// ok is false for terminal states and statuses outside the kind's path.
func Next(kind domain.CategoryKind, status domain.TripStatus) (domain.TripStatus, bool) {
	n, ok := next[kind][status]
	return n, ok
}

// Apply feeds one observed status event into the trip. It returns true when
// the trip changed. Re-delivery of the trip's current status is an
// idempotent no-op: no history entry, no side effects, no error. Every
// other (state, event) pair either advances the trip one step along its
// category path (or to CANCELLED) or fails with ErrIllegalTransition.
//
// Side effects on entry: ASSIGNED populates the partner and fails with
// ErrMissingPartnerData when the event lacks one; COMPLETED sets the final
// fare and fails with ErrMissingFareData without it; CANCELLED is accepted
// regardless of payload. On any error the trip is left untouched.
func Apply(trip *domain.Trip, ev domain.StatusEvent) (bool, error) {
	if ev.Status == trip.Status {
		return false, nil
	}

	if trip.Status.Terminal() {
		return false, fmt.Errorf("%w: %s is terminal, observed %s",
			ErrIllegalTransition, trip.Status, ev.Status)
	}

	if ev.Status != domain.StatusCancelled {
		successor, ok := Next(trip.Category.Kind, trip.Status)
		if !ok || successor != ev.Status {
			return false, fmt.Errorf("%w: %s -> %s for %s",
				ErrIllegalTransition, trip.Status, ev.Status, trip.Category.Kind)
		}
	}

	// Validate payload before mutating anything.
	switch ev.Status {
	case domain.StatusAssigned:
		if ev.Partner == nil {
			return false, ErrMissingPartnerData
		}
	case domain.StatusCompleted:
		if ev.FinalFare <= 0 {
			return false, ErrMissingFareData
		}
	}

	at := ev.ObservedAt
	if at.IsZero() {
		at = time.Now()
	}

	switch ev.Status {
	case domain.StatusAssigned:
		p := *ev.Partner
		trip.Partner = &p
	case domain.StatusCompleted:
		trip.FinalFare = ev.FinalFare
	}

	trip.Status = ev.Status
	trip.LastStatusChangeAt = at
	trip.History = append(trip.History, domain.StatusChange{Status: ev.Status, At: at})

	return true, nil
}
