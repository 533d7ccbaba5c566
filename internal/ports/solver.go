package ports

import (
	"context"
	"encoding/json"

	"mdvrp-planner/internal/domain"
)

type SolveRequest struct {
	Depots     []domain.Depot
	Customers  []domain.Customer
	Vehicles   []domain.Vehicle
	CostMatrix domain.CostMatrix
}

// Solver output. Status and TotalCost are passed through for display only.
type SolveResponse struct {
	Status    string
	TotalCost float64
	Routes    []domain.SolverRoute
}

type TransportationRequest struct {
	Customers  []domain.Customer
	Depots     []domain.Depot
	CostMatrix domain.CostMatrix
}

// Contract for the remote optimizer. It is a black box to this service.
type Solver interface {
	// Solve the multi-depot VRP and return symbolic per-vehicle routes.
	SolveMDVRP(ctx context.Context, req SolveRequest) (SolveResponse, error)
	// Solve the depot->customer transportation problem. The result is opaque.
	SolveTransportation(ctx context.Context, req TransportationRequest) (json.RawMessage, error)
}
