package geo

import (
	"context"
	"errors"
	"fmt"

	"tripflow/internal/domain"
)

// ErrResolution is returned when an address cannot be resolved and no
// approximate fallback is available.
var ErrResolution = errors.New("address could not be resolved")

// Geocoder is the external address resolution provider.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (domain.GeoPoint, error)
	ReverseGeocode(ctx context.Context, point domain.GeoPoint) (string, error)
}

// Resolver turns free-form address text into trip endpoint locations.
// When the underlying provider fails and a fallback point is configured,
// Resolve degrades to an approximate location instead of failing the flow.
type Resolver struct {
	geocoder Geocoder
	fallback *domain.GeoPoint
}

// NewResolver creates a Resolver. fallback may be nil, in which case
// provider failures surface as ErrResolution.
func NewResolver(geocoder Geocoder, fallback *domain.GeoPoint) *Resolver {
	return &Resolver{geocoder: geocoder, fallback: fallback}
}

// Resolve resolves address text to a Location. On provider failure with a
// configured fallback, the returned Location has Approximate set; callers
// should surface a non-fatal notice rather than abort.
func (r *Resolver) Resolve(ctx context.Context, text string) (domain.Location, error) {
	if text == "" {
		return domain.Location{}, fmt.Errorf("%w: empty address", ErrResolution)
	}

	point, err := r.geocoder.Geocode(ctx, text)
	if err == nil {
		if !point.Valid() {
			return domain.Location{}, fmt.Errorf("%w: provider returned out-of-range point", ErrResolution)
		}
		return domain.Location{Point: point, Address: text}, nil
	}

	if r.fallback == nil {
		return domain.Location{}, fmt.Errorf("%w: %v", ErrResolution, err)
	}

	return domain.Location{
		Point:       *r.fallback,
		Address:     text,
		Approximate: true,
	}, nil
}

// ResolvePoint attaches an address to a known coordinate pair via reverse
// geocoding. Failure is non-fatal: the location is returned without an
// address.
func (r *Resolver) ResolvePoint(ctx context.Context, point domain.GeoPoint) (domain.Location, error) {
	if !point.Valid() {
		return domain.Location{}, fmt.Errorf("%w: out-of-range point", ErrResolution)
	}

	address, err := r.geocoder.ReverseGeocode(ctx, point)
	if err != nil {
		return domain.Location{Point: point}, nil
	}
	return domain.Location{Point: point, Address: address}, nil
}
