package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RouteID identifies a vehicle route as chosen by the solver.
// The solver emits both numeric and string ids, so decoding accepts either.
type RouteID string

func (id *RouteID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("route id: %w", err)
		}
		*id = RouteID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("route id: %w", err)
	}
	*id = RouteID(strings.TrimSpace(n.String()))
	return nil
}

// SolverRoute is one vehicle's symbolic route as returned by the solver.
// Stops are entity display names, not ids.
type SolverRoute struct {
	ID    RouteID
	Stops []string
}

// Route is an ordered, closed coordinate sequence for one vehicle.
// A route with fewer than 2 points is never rendered.
type Route struct {
	ID     RouteID
	Points []Coordinates
}

// Waypoints returns a copy of the points safe to hand to a routing engine.
func (r Route) Waypoints() []Coordinates {
	return append([]Coordinates(nil), r.Points...)
}

// Represents the solver's answer after route assembly.
// Status and TotalCost are opaque pass-through fields.
type Plan struct {
	Status    string
	TotalCost float64
	Routes    []Route
}
