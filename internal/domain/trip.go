package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	StatusRequested  TripStatus = "REQUESTED"
	StatusAssigned   TripStatus = "ASSIGNED"
	StatusEnRoute    TripStatus = "PARTNER_EN_ROUTE"
	StatusArrived    TripStatus = "ARRIVED"     // ride only
	StatusPickedUp   TripStatus = "PICKED_UP"   // delivery only
	StatusInProgress TripStatus = "IN_PROGRESS" // ride only
	StatusInTransit  TripStatus = "IN_TRANSIT"  // delivery only
	StatusCompleted  TripStatus = "COMPLETED"
	StatusCancelled  TripStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are possible.
func (s TripStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Partner is the driver or courier assigned to a trip. Retained for the
// receipt even after the trip reaches a terminal state.
type Partner struct {
	Name    string
	Phone   string
	Vehicle string
	Rating  float64
}

// StatusChange is one entry in a trip's append-only status history.
type StatusChange struct {
	Status TripStatus
	At     time.Time
}

// Trip is a single ride or delivery order tracked end-to-end.
// ID and TrackingCode are assigned by the remote system at creation and
// never change. Status only moves forward; History records every applied
// change for the receipt and for debugging.
type Trip struct {
	ID           string
	TrackingCode string
	Category     Category
	Pickup       Location
	Destination  Location

	Status  TripStatus
	History []StatusChange

	// Fares in minor currency units. FinalFare is set only at COMPLETED.
	QuotedFare int64
	FinalFare  int64

	// Partner is populated once the trip reaches ASSIGNED and never cleared.
	Partner *Partner

	CreatedAt          time.Time
	LastStatusChangeAt time.Time
}

// Active reports whether the trip is still in a non-terminal state.
func (t *Trip) Active() bool {
	return !t.Status.Terminal()
}

// Clone returns a deep copy safe to hand to the view layer.
func (t *Trip) Clone() *Trip {
	if t == nil {
		return nil
	}
	cp := *t
	cp.History = make([]StatusChange, len(t.History))
	copy(cp.History, t.History)
	if t.Partner != nil {
		p := *t.Partner
		cp.Partner = &p
	}
	return &cp
}
