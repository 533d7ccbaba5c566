package domain

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// LngLat formats the pair the way OSRM expects it in a URL path: "lng,lat".
func (c Coordinates) LngLat() string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// Point converts to an orb.Point, which is ordered [lon, lat].
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// FromPoint is the inverse of Point.
func FromPoint(p orb.Point) Coordinates { return Coordinates{Lat: p.Lat(), Lon: p.Lon()} }

// InRange reports whether both components are finite and within the
// valid latitude/longitude ranges. It applies no land heuristic.
func (c Coordinates) InRange() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
