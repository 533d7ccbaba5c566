package ports

import (
	"context"

	"mdvrp-planner/internal/domain"
)

// Raw pairwise distance table as returned by the distance service.
// Distances[i][j] is nil when the service could not route i -> j.
// A nil Distances means the service returned no distances at all.
type TableResult struct {
	Distances [][]*float64
}

// Contract for a batched distance-table service (e.g. OSRM /table).
type DistanceTable interface {
	// Return pairwise distances in meters between all given coordinates, in order.
	Table(ctx context.Context, coords []domain.Coordinates) (TableResult, error)
}
