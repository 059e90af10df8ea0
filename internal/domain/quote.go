package domain

import "time"

// Quote is a pre-commitment fare estimate. It is not bound to a created
// trip; confirming a quote is what creates one.
type Quote struct {
	Category    Category
	Pickup      Location
	Destination Location
	DistanceKm  float64
	Fare        int64 // minor currency units
	CreatedAt   time.Time
}
