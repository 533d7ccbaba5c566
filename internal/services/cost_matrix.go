package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/platform/metrics"
	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"
)

// MatrixSource says where a cost matrix's values came from.
type MatrixSource string

const (
	SourceLive     MatrixSource = "live"
	SourceCache    MatrixSource = "cache"
	SourceFallback MatrixSource = "fallback"
)

// Approximate meters per degree used by the straight-line fallback.
const metersPerDegree = 111000.0

// CostMatrixBuilder produces depot-by-customer travel costs.
//
// It prefers one batched distance-table call and degrades to a straight-line
// approximation when that call fails. A matrix is never a per-cell mix of
// live and fallback values.
type CostMatrixBuilder struct {
	table ports.DistanceTable
	cache ports.DistanceCache
}

// NewCostMatrixBuilder wires the builder. cache may be nil.
func NewCostMatrixBuilder(table ports.DistanceTable, cache ports.DistanceCache) *CostMatrixBuilder {
	return &CostMatrixBuilder{table: table, cache: cache}
}

// Build never fails: every error is logged and answered with the fallback matrix.
func (b *CostMatrixBuilder) Build(ctx context.Context, depots []domain.Depot, customers []domain.Customer) (domain.CostMatrix, MatrixSource) {
	m, source := b.build(ctx, depots, customers)
	metrics.CostMatrixBuilds.WithLabelValues(string(source)).Inc()
	return m, source
}

func (b *CostMatrixBuilder) build(ctx context.Context, depots []domain.Depot, customers []domain.Customer) (domain.CostMatrix, MatrixSource) {
	if len(depots) == 0 || len(customers) == 0 {
		return domain.NewCostMatrix(len(depots), len(customers)), SourceLive
	}

	if m, ok := b.fromCache(ctx, depots, customers); ok {
		return m, SourceCache
	}

	m, err := b.fromTable(ctx, depots, customers)
	if err != nil {
		log.Printf("req_id=%s op=cost_matrix source=fallback depots=%d customers=%d err=%v",
			obs.RequestID(ctx), len(depots), len(customers), err)
		return FallbackMatrix(depots, customers), SourceFallback
	}

	b.storeCache(ctx, depots, customers, m)
	return m, SourceLive
}

func (b *CostMatrixBuilder) fromTable(ctx context.Context, depots []domain.Depot, customers []domain.Customer) (_ domain.CostMatrix, err error) {
	defer obs.Time(ctx, "cost_matrix.table")(&err)

	if b.table == nil {
		return nil, errors.New("no distance table configured")
	}

	coords := make([]domain.Coordinates, 0, len(depots)+len(customers))
	for _, d := range depots {
		coords = append(coords, d.Location)
	}
	for _, c := range customers {
		coords = append(coords, c.Location)
	}

	res, err := b.table.Table(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("distance table: %w", err)
	}
	return sliceDepotCustomerBlock(res.Distances, len(depots), len(customers))
}

// sliceDepotCustomerBlock reads rows [0:D] and columns [D:D+C]. Null cells are unreachable.
func sliceDepotCustomerBlock(distances [][]*float64, nDepots, nCustomers int) (domain.CostMatrix, error) {
	if distances == nil {
		return nil, errors.New("response has no distances")
	}
	if len(distances) < nDepots {
		return nil, fmt.Errorf("distances has %d rows, want at least %d", len(distances), nDepots)
	}

	m := domain.NewCostMatrix(nDepots, nCustomers)
	for i := 0; i < nDepots; i++ {
		row := distances[i]
		if len(row) < nDepots+nCustomers {
			return nil, fmt.Errorf("distances row %d has %d columns, want at least %d", i, len(row), nDepots+nCustomers)
		}
		for j := 0; j < nCustomers; j++ {
			cell := row[nDepots+j]
			if cell == nil || math.IsNaN(*cell) {
				m[i][j] = domain.Unreachable
				continue
			}
			m[i][j] = *cell
		}
	}
	return m, nil
}

// FallbackMatrix approximates each cell as the planar degree distance times 111 km, rounded.
// Non-finite coordinates yield an unreachable cell instead of NaN.
func FallbackMatrix(depots []domain.Depot, customers []domain.Customer) domain.CostMatrix {
	m := domain.NewCostMatrix(len(depots), len(customers))
	for i, d := range depots {
		for j, c := range customers {
			v := math.Round(math.Hypot(c.Location.Lat-d.Location.Lat, c.Location.Lon-d.Location.Lon) * metersPerDegree)
			if math.IsNaN(v) {
				v = domain.Unreachable
			}
			m[i][j] = v
		}
	}
	return m
}

// fromCache answers only when every cell is cached; a partial hit fetches the whole table.
func (b *CostMatrixBuilder) fromCache(ctx context.Context, depots []domain.Depot, customers []domain.Customer) (domain.CostMatrix, bool) {
	if b.cache == nil {
		return nil, false
	}

	keys := make([]string, len(customers))
	for j, c := range customers {
		keys[j] = c.Location.LngLat()
	}

	m := domain.NewCostMatrix(len(depots), len(customers))
	for i, d := range depots {
		got, err := b.cache.GetMany(ctx, d.Location.LngLat(), keys)
		if err != nil {
			log.Printf("req_id=%s op=cost_matrix.cache err=%v", obs.RequestID(ctx), err)
			return nil, false
		}
		for j, k := range keys {
			r, ok := got[k]
			if !ok {
				return nil, false
			}
			m[i][j] = r.DistanceMeters
		}
	}
	return m, true
}

// storeCache writes live values back. Failures only cost a future cache miss.
func (b *CostMatrixBuilder) storeCache(ctx context.Context, depots []domain.Depot, customers []domain.Customer, m domain.CostMatrix) {
	if b.cache == nil {
		return
	}

	for i, d := range depots {
		results := make(map[string]ports.DistanceResult, len(customers))
		for j, c := range customers {
			results[c.Location.LngLat()] = ports.DistanceResult{DistanceMeters: m[i][j]}
		}
		if err := b.cache.PutMany(ctx, d.Location.LngLat(), results); err != nil {
			log.Printf("req_id=%s op=cost_matrix.cache.put origin=%s err=%v", obs.RequestID(ctx), d.Location.LngLat(), err)
			return
		}
	}
}
