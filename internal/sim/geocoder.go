package sim

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"tripflow/internal/domain"
)

// Geocoder is a deterministic stand-in for a real address resolution
// provider: the same text always maps to the same point, scattered within
// roughly 15 km of the configured city center. Addresses containing
// "unknown" fail, to exercise the resolver's fallback path.
type Geocoder struct {
	center domain.GeoPoint
}

// NewGeocoder creates a Geocoder around the given city center.
func NewGeocoder(center domain.GeoPoint) *Geocoder {
	return &Geocoder{center: center}
}

// Geocode maps address text to a stable pseudo-random point near the center.
func (g *Geocoder) Geocode(_ context.Context, text string) (domain.GeoPoint, error) {
	if strings.Contains(strings.ToLower(text), "unknown") {
		return domain.GeoPoint{}, fmt.Errorf("no match for %q", text)
	}

	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	sum := h.Sum64()

	// Two independent offsets in [-0.075, 0.075) degrees.
	latOff := (float64(sum&0xFFFF)/65536.0 - 0.5) * 0.15
	lngOff := (float64((sum>>16)&0xFFFF)/65536.0 - 0.5) * 0.15

	return domain.GeoPoint{
		Latitude:  g.center.Latitude + latOff,
		Longitude: g.center.Longitude + lngOff,
	}, nil
}

// ReverseGeocode renders a coordinate pair as a plain textual address.
func (g *Geocoder) ReverseGeocode(_ context.Context, point domain.GeoPoint) (string, error) {
	return fmt.Sprintf("near %.4f, %.4f", point.Latitude, point.Longitude), nil
}
