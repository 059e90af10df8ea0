// Package geo provides great-circle distance computation and address
// resolution for trip endpoints. Distances use the Haversine formula on
// WGS-84 coordinates.
package geo

import (
	"math"

	"tripflow/internal/domain"
)

// EarthRadiusKm is the mean radius of Earth in kilometers.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in
// kilometers. The result is non-negative, symmetric in its arguments, and
// zero iff the points are equal.
func DistanceKm(a, b domain.GeoPoint) float64 {
	if a.Equal(b) {
		return 0
	}

	dLat := degToRad(b.Latitude - a.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Latitude))*math.Cos(degToRad(b.Latitude))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
