// Package geo computes great-circle distances between marketplace locations.
package geo

import (
	"math"

	"marketplace-engine/internal/domain/shared"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance in kilometres between two coordinates
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Between is DistanceKm for two locations
func Between(a, b shared.Location) float64 {
	return DistanceKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Within reports whether b lies within radiusKm of a
func Within(a, b shared.Location, radiusKm float64) bool {
	return Between(a, b) <= radiusKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
