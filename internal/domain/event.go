package domain

import "time"

// StatusEvent is one observed remote status for a trip, as reported by the
// status source. Partner is present when the remote has assigned one;
// FinalFare (minor units) is present only on completion.
type StatusEvent struct {
	Status     TripStatus
	Partner    *Partner
	FinalFare  int64
	ObservedAt time.Time
}
