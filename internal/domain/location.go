package domain

// GeoPoint is an immutable WGS-84 coordinate pair.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the point is within coordinate bounds.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Equal reports whether two points are exactly the same coordinates.
func (p GeoPoint) Equal(q GeoPoint) bool {
	return p.Latitude == q.Latitude && p.Longitude == q.Longitude
}

// Location is a resolved trip endpoint. Address may be empty when only
// coordinates are known. Approximate is set when the resolver fell back to a
// best-effort point instead of an exact match.
type Location struct {
	Point       GeoPoint
	Address     string
	Approximate bool
}
