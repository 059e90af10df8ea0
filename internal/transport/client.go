// Package transport defines the remote marketplace client the trip core
// consumes, and an HTTP implementation of it.
package transport

import (
	"context"
	"errors"

	"tripflow/internal/domain"
)

var (
	// ErrNetwork wraps transient transport failures: connection errors,
	// timeouts, and 5xx responses. Safe to retry.
	ErrNetwork = errors.New("network error")

	// ErrNotFound is returned when the remote does not know the trip.
	ErrNotFound = errors.New("trip not found")

	// ErrServerRejected is returned when the remote refused the request.
	ErrServerRejected = errors.New("server rejected request")
)

// CreateTripRequest is the submission sent to the remote system when a
// quote is confirmed.
type CreateTripRequest struct {
	Category    domain.Category
	Pickup      domain.Location
	Destination domain.Location
	QuotedFare  int64
}

// CreateTripResponse carries the identifiers assigned by the remote system.
type CreateTripResponse struct {
	ID           string
	TrackingCode string
}

// Client is the remote status source of truth. Implementations classify
// their failures into ErrNetwork, ErrNotFound and ErrServerRejected.
type Client interface {
	CreateTrip(ctx context.Context, req CreateTripRequest) (*CreateTripResponse, error)
	FetchStatus(ctx context.Context, tripID string) (*domain.StatusEvent, error)
	RequestCancel(ctx context.Context, tripID string) error
}
