// Package policy decides whether a trip may still be cancelled.
package policy

import (
	"errors"
	"fmt"

	"tripflow/internal/domain"
)

// ErrCancellationNotAllowed is returned when the trip has passed its
// irrevocable boundary.
var ErrCancellationNotAllowed = errors.New("cancellation not allowed")

// cancellable[kind] is the set of statuses strictly before the irrevocable
// boundary: IN_PROGRESS for rides (cancellable through driver arrival),
// PICKED_UP for deliveries (no cancel once the package leaves the pickup).
var cancellable = map[domain.CategoryKind]map[domain.TripStatus]bool{
	domain.KindRide: {
		domain.StatusRequested: true,
		domain.StatusAssigned:  true,
		domain.StatusEnRoute:   true,
		domain.StatusArrived:   true,
	},
	domain.KindDelivery: {
		domain.StatusRequested: true,
		domain.StatusAssigned:  true,
		domain.StatusEnRoute:   true,
	},
}

// CanCancel reports whether the trip may be cancelled in its current
// status. It returns nil when cancellation is legal, and an error wrapping
// ErrCancellationNotAllowed that names the boundary otherwise. Evaluated
// fresh on every attempt — the answer depends on the trip's current,
// possibly just-updated, status.
func CanCancel(trip *domain.Trip) error {
	if cancellable[trip.Category.Kind][trip.Status] {
		return nil
	}

	boundary := domain.StatusInProgress
	if trip.Category.Kind == domain.KindDelivery {
		boundary = domain.StatusPickedUp
	}

	if trip.Status.Terminal() {
		return fmt.Errorf("%w: trip already %s", ErrCancellationNotAllowed, trip.Status)
	}
	return fmt.Errorf("%w: trip reached %s (irrevocable from %s)",
		ErrCancellationNotAllowed, trip.Status, boundary)
}
