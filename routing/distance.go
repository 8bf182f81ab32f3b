package routing

import (
	"math"

	"fleet-tracking-system/models"
)

const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b models.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// Midpoint returns the arithmetic midpoint of two points. Good enough for
// centering a map view over short spans; not a geodesic midpoint.
func Midpoint(a, b models.Coordinates) models.Coordinates {
	return models.Coordinates{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}
