package services

import (
	"fmt"
	"strconv"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/geo"
)

// ValidationReport is an ordered list of distinct violation messages.
type ValidationReport []string

func (r ValidationReport) OK() bool { return len(r) == 0 }

type located struct {
	kind     string
	name     string
	location domain.Coordinates
}

// FleetValidator runs aggregate checks over one snapshot of a scenario's entities.
// It never mutates its inputs; every ValidateAll call builds a new report.
type FleetValidator struct {
	customers []domain.Customer
	depots    []domain.Depot
	vehicles  []domain.Vehicle

	coords     geo.Validator
	minSpacing float64
}

func NewFleetValidator(customers []domain.Customer, depots []domain.Depot, vehicles []domain.Vehicle) *FleetValidator {
	return &FleetValidator{
		customers:  customers,
		depots:     depots,
		vehicles:   vehicles,
		coords:     geo.NewValidator(geo.DefaultLandMask),
		minSpacing: geo.DefaultMinSeparationMeters,
	}
}

// WithLandClassifier swaps the land heuristic used for per-entity checks.
func (v *FleetValidator) WithLandClassifier(land geo.LandClassifier) *FleetValidator {
	v.coords = geo.NewValidator(land)
	return v
}

// ValidateAll returns violations in a stable order: per-entity coordinate
// failures, then too-close pairs, then demand and supply balance.
//
// The too-close check runs over ordered pairs, so a close pair is reported
// once in each direction. Both strings differ and both are kept.
func (v *FleetValidator) ValidateAll() ValidationReport {
	var r reportBuilder

	entities := make([]located, 0, len(v.customers)+len(v.depots))
	for _, c := range v.customers {
		entities = append(entities, located{kind: "Customer", name: c.Name, location: c.Location})
	}
	for _, d := range v.depots {
		entities = append(entities, located{kind: "Depot", name: d.Name, location: d.Location})
	}

	for _, e := range entities {
		res := v.coords.ValidateCoordinate(e.location.Lat, e.location.Lon)
		if !res.Valid {
			r.add(fmt.Sprintf("%s \"%s\": %s", e.kind, e.name, res.Error))
		}
	}

	for i, a := range entities {
		for j, b := range entities {
			if i == j {
				continue
			}
			if geo.TooClose(a.location.Lat, a.location.Lon, b.location.Lat, b.location.Lon, v.minSpacing) {
				r.add(fmt.Sprintf("%s \"%s\" is too close to %s \"%s\"", a.kind, a.name, b.kind, b.name))
			}
		}
	}

	capacity := domain.TotalCapacity(v.vehicles)
	if capacity != 0 {
		if demand := domain.TotalDemand(v.customers); demand > capacity {
			r.add(fmt.Sprintf("Total demand %s is greater than total capacity %s", formatAmount(demand), formatAmount(capacity)))
		}
		if supply := domain.TotalSupply(v.depots); supply > capacity {
			r.add(fmt.Sprintf("Total supply %s is greater than total capacity %s", formatAmount(supply), formatAmount(capacity)))
		}
	}

	return r.report()
}

type reportBuilder struct {
	seen map[string]struct{}
	out  ValidationReport
}

func (b *reportBuilder) add(msg string) {
	if b.seen == nil {
		b.seen = make(map[string]struct{})
	}
	if _, dup := b.seen[msg]; dup {
		return
	}
	b.seen[msg] = struct{}{}
	b.out = append(b.out, msg)
}

func (b *reportBuilder) report() ValidationReport {
	if b.out == nil {
		return ValidationReport{}
	}
	return b.out
}

func formatAmount(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
