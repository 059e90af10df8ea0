package geo

import (
	"context"
	"errors"
	"testing"

	"tripflow/internal/domain"
)

// stubGeocoder returns a fixed point, or fails when shouldFail is set.
type stubGeocoder struct {
	point      domain.GeoPoint
	shouldFail bool
}

func (g *stubGeocoder) Geocode(_ context.Context, _ string) (domain.GeoPoint, error) {
	if g.shouldFail {
		return domain.GeoPoint{}, errors.New("provider unavailable")
	}
	return g.point, nil
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, _ domain.GeoPoint) (string, error) {
	if g.shouldFail {
		return "", errors.New("provider unavailable")
	}
	return "Main Street 1", nil
}

func TestResolve_ExactMatch(t *testing.T) {
	t.Parallel()

	want := domain.GeoPoint{Latitude: 28.61, Longitude: 77.21}
	r := NewResolver(&stubGeocoder{point: want}, nil)

	loc, err := r.Resolve(context.Background(), "Connaught Place")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loc.Point.Equal(want) {
		t.Errorf("resolved point = %v, want %v", loc.Point, want)
	}
	if loc.Approximate {
		t.Error("exact resolution should not be marked approximate")
	}
	if loc.Address != "Connaught Place" {
		t.Errorf("address = %q, want the input text", loc.Address)
	}
}

func TestResolve_FallsBackApproximately(t *testing.T) {
	t.Parallel()

	fallback := domain.GeoPoint{Latitude: 28.6139, Longitude: 77.2090}
	r := NewResolver(&stubGeocoder{shouldFail: true}, &fallback)

	loc, err := r.Resolve(context.Background(), "somewhere odd")
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if !loc.Approximate {
		t.Error("fallback location should be marked approximate")
	}
	if !loc.Point.Equal(fallback) {
		t.Errorf("fallback point = %v, want %v", loc.Point, fallback)
	}
}

func TestResolve_NoFallback_Fails(t *testing.T) {
	t.Parallel()

	r := NewResolver(&stubGeocoder{shouldFail: true}, nil)

	_, err := r.Resolve(context.Background(), "somewhere odd")
	if !errors.Is(err, ErrResolution) {
		t.Errorf("error = %v, want ErrResolution", err)
	}
}

func TestResolve_EmptyAddress_Fails(t *testing.T) {
	t.Parallel()

	fallback := domain.GeoPoint{Latitude: 1, Longitude: 1}
	r := NewResolver(&stubGeocoder{}, &fallback)

	if _, err := r.Resolve(context.Background(), ""); !errors.Is(err, ErrResolution) {
		t.Errorf("error = %v, want ErrResolution for empty address", err)
	}
}

func TestResolvePoint_ReverseFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	r := NewResolver(&stubGeocoder{shouldFail: true}, nil)
	point := domain.GeoPoint{Latitude: 28.61, Longitude: 77.21}

	loc, err := r.ResolvePoint(context.Background(), point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Address != "" {
		t.Errorf("address = %q, want empty on reverse failure", loc.Address)
	}
	if !loc.Point.Equal(point) {
		t.Errorf("point = %v, want %v", loc.Point, point)
	}
}
