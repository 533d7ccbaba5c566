package ports

import "context"

// Cached live distance between two coordinate keys.
// DistanceMeters is +Inf for a pair the service reported unreachable.
type DistanceResult struct {
	DistanceMeters float64
}

// Persistent cache of origin->destination distances keyed by "lng,lat" strings.
type DistanceCache interface {
	// Fetch cached distances for one origin and multiple destinations.
	// Missing keys are simply absent from the result.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	// Store many results for a single origin.
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
