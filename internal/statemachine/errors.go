package statemachine

import "errors"

var (
	// ErrIllegalTransition is returned when the observed status is not a
	// legal move from the trip's current status.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrMissingPartnerData is returned when an ASSIGNED event carries no
	// partner details.
	ErrMissingPartnerData = errors.New("assigned event missing partner data")

	// ErrMissingFareData is returned when a COMPLETED event carries no
	// final fare.
	ErrMissingFareData = errors.New("completed event missing final fare")
)
