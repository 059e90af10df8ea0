package trip

import "errors"

var (
	// ErrLocationUnresolved is returned when a trip endpoint cannot be
	// resolved even approximately.
	ErrLocationUnresolved = errors.New("location could not be resolved")

	// ErrTripAlreadyActive is returned when confirming a quote while a trip
	// of the same kind is still active.
	ErrTripAlreadyActive = errors.New("a trip of this kind is already active")

	// ErrNoActiveTrip is returned when an operation needs an active trip
	// and none exists for the kind.
	ErrNoActiveTrip = errors.New("no active trip")

	// ErrTripStillActive is returned when acknowledging completion of a
	// trip that has not reached a terminal state.
	ErrTripStillActive = errors.New("trip has not reached a terminal state")

	// ErrInvalidQuote is returned when confirming a nil or malformed quote.
	ErrInvalidQuote = errors.New("invalid quote")
)
