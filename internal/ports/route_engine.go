package ports

import (
	"context"

	"mdvrp-planner/internal/domain"

	"github.com/paulmach/orb"
)

// One candidate path produced by the routing engine.
type RouteCandidate struct {
	Geometry       orb.LineString
	DistanceMeters float64
}

// Realized routing result for an ordered waypoint list.
// Snapped[i] is where waypoint i landed on the road network.
type RouteResult struct {
	Candidates []RouteCandidate
	Snapped    []domain.Coordinates
}

// Contract for a point-to-point routing engine (e.g. OSRM /route).
type RouteEngine interface {
	Route(ctx context.Context, waypoints []domain.Coordinates) (RouteResult, error)
}
