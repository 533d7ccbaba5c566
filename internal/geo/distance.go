package geo

import (
	"math"

	"mdvrp-planner/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used for all great-circle distances.
const EarthRadiusMeters = 6371000.0

// DefaultMinSeparationMeters is the threshold below which two entities are "too close".
const DefaultMinSeparationMeters = 100.0

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := math.Pi / 180
	dLat := (lat2 - lat1) * toRad
	dLng := (lng2 - lng1) * toRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance is HaversineMeters over domain coordinates.
func Distance(a, b domain.Coordinates) float64 {
	return HaversineMeters(a.Lat, a.Lon, b.Lat, b.Lon)
}

// TooClose reports whether two points are strictly closer than minMeters.
func TooClose(lat1, lng1, lat2, lng2, minMeters float64) bool {
	return HaversineMeters(lat1, lng1, lat2, lng2) < minMeters
}
