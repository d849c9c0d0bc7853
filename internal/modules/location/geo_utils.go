// Package location — geo_utils contains pure geographic computation helpers.
package location

import (
	"math"

	"lifeline/internal/types"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceKm is HaversineKm over Point values.
func DistanceKm(a, b types.Point) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
