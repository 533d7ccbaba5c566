package services

import (
	"log"
	"strings"

	"mdvrp-planner/internal/domain"
)

// RouteAssembler turns the solver's stop names back into coordinates.
//
// A stop resolves to the first depot, then the first customer, whose name
// contains the stop name, ignoring case. With non-unique names or names that
// are substrings of each other the first match wins.
type RouteAssembler struct {
	depots    []domain.Depot
	customers []domain.Customer
}

func NewRouteAssembler(depots []domain.Depot, customers []domain.Customer) *RouteAssembler {
	return &RouteAssembler{depots: depots, customers: customers}
}

// Assemble keeps input order and route ids. Unresolved stops are dropped and
// every non-empty route is closed by repeating its first point.
func (a *RouteAssembler) Assemble(routes []domain.SolverRoute) []domain.Route {
	out := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		points := make([]domain.Coordinates, 0, len(r.Stops)+1)
		for _, stop := range r.Stops {
			p, ok := a.resolve(stop)
			if !ok {
				log.Printf("level=debug op=route_assembler route=%s unresolved_stop=%q", r.ID, stop)
				continue
			}
			points = append(points, p)
		}
		if len(points) > 0 {
			points = append(points, points[0])
		}
		out = append(out, domain.Route{ID: r.ID, Points: points})
	}
	return out
}

func (a *RouteAssembler) resolve(stop string) (domain.Coordinates, bool) {
	needle := strings.ToLower(strings.TrimSpace(stop))
	if needle == "" {
		return domain.Coordinates{}, false
	}
	for _, d := range a.depots {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d.Location, true
		}
	}
	for _, c := range a.customers {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c.Location, true
		}
	}
	return domain.Coordinates{}, false
}

// Renderable keeps routes with at least 2 points, all finite and in range.
// The land heuristic is not applied here.
func Renderable(routes []domain.Route) []domain.Route {
	out := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		if len(r.Points) < 2 {
			continue
		}
		ok := true
		for _, p := range r.Points {
			if !p.InRange() {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}
