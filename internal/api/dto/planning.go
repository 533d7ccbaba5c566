package dto

import (
	"encoding/json"

	"mdvrp-planner/internal/domain"
)

type ValidationResponse struct {
	Generation uint64   `json:"generation"`
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}

// CostMatrixResponse carries unreachable cells as null.
type CostMatrixResponse struct {
	Generation uint64            `json:"generation"`
	Source     string            `json:"source"`
	Matrix     domain.CostMatrix `json:"matrix"`
}

type RouteResponse struct {
	ID string `json:"id"`
	// Points are [lat, lng] pairs; the last repeats the first.
	Points [][2]float64 `json:"points"`
}

type PlanResponse struct {
	Generation   uint64          `json:"generation"`
	Status       string          `json:"status"`
	TotalCost    float64         `json:"total_cost"`
	MatrixSource string          `json:"matrix_source"`
	Routes       []RouteResponse `json:"routes"`
	Dropped      int             `json:"dropped_routes"`
}

func FromRoutes(routes []domain.Route) []RouteResponse {
	out := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		pts := make([][2]float64, 0, len(r.Points))
		for _, p := range r.Points {
			pts = append(pts, [2]float64{p.Lat, p.Lon})
		}
		out = append(out, RouteResponse{ID: string(r.ID), Points: pts})
	}
	return out
}

// ViolationsResponse is returned with 422 when a solve is blocked by input violations.
type ViolationsResponse struct {
	Error      string   `json:"error"`
	Generation uint64   `json:"generation"`
	Violations []string `json:"violations"`
}

type TransportationResponse struct {
	Generation   uint64            `json:"generation"`
	MatrixSource string            `json:"matrix_source"`
	CostMatrix   domain.CostMatrix `json:"cost_matrix"`
	Result       json.RawMessage   `json:"result"`
}

type Marker struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteCheckResponse struct {
	ID      string  `json:"id"`
	State   string  `json:"state"`
	Kind    string  `json:"kind,omitempty"`
	Message string  `json:"message,omitempty"`
	Marker  *Marker `json:"marker,omitempty"`
}

type RouteValidationResponse struct {
	Generation uint64               `json:"generation"`
	Routes     []RouteCheckResponse `json:"routes"`
}
