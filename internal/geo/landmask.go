package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// LandClassifier decides whether a coordinate is plausibly on land.
// The default implementation is a coarse rule list; a land-mask or
// geocoding backed classifier can be swapped in without touching callers.
type LandClassifier interface {
	IsLikelyOnLand(lat, lng float64) bool
}

// BoxRule maps an open bounding box to a verdict.
type BoxRule struct {
	Name  string
	Bound orb.Bound
	Land  bool
}

// contains uses strict inequalities on every edge.
func (r BoxRule) contains(lat, lng float64) bool {
	return lat > r.Bound.Min.Lat() && lat < r.Bound.Max.Lat() &&
		lng > r.Bound.Min.Lon() && lng < r.Bound.Max.Lon()
}

// BoxRules evaluates rules in order; the first containing box wins.
// Points matched by no rule are treated as land.
type BoxRules []BoxRule

func (rs BoxRules) IsLikelyOnLand(lat, lng float64) bool {
	for _, r := range rs {
		if r.contains(lat, lng) {
			return r.Land
		}
	}
	return true
}

func box(minLat, maxLat, minLng, maxLng float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{minLng, minLat},
		Max: orb.Point{maxLng, maxLat},
	}
}

var inf = math.Inf(1)

// DefaultLandMask approximates the major ocean basins. It will reject some
// inland points and accept some coastal water; it exists to catch gross
// data-entry errors without a network call.
var DefaultLandMask = BoxRules{
	// Carve-outs must precede the Pacific band they cut into.
	{Name: "us-west-coast", Bound: box(25, 50, -130, -120), Land: true},
	{Name: "americas-west-coast", Bound: box(-40, 15, -85, -70), Land: true},

	{Name: "pacific", Bound: box(-60, 60, -180, -120), Land: false},
	{Name: "atlantic", Bound: box(-40, 60, -50, -10), Land: false},
	{Name: "indian", Bound: box(-50, 30, 40, 100), Land: false},
	{Name: "antarctic", Bound: box(-inf, -70, -inf, inf), Land: false},
	{Name: "arctic", Bound: box(80, inf, -inf, inf), Land: false},
}
