package ports

import (
	"context"
	"errors"

	"mdvrp-planner/internal/domain"
)

var ErrNotFound = errors.New("not found")

type ScenarioSummary struct {
	ID   string
	Name string
	Date string
}

// Port: the remote persistence API that owns scenarios and their entities.
type ScenarioStore interface {
	ListScenarios(ctx context.Context) ([]ScenarioSummary, error)
	GetScenario(ctx context.Context, id string) (domain.Scenario, error)
	// Create a scenario together with its initial entities.
	CreateScenario(ctx context.Context, s domain.Scenario) (domain.Scenario, error)
	RenameScenario(ctx context.Context, id, name string) error
	DeleteScenario(ctx context.Context, id string) error

	AddCustomer(ctx context.Context, scenarioID string, c domain.Customer) (domain.Customer, error)
	RemoveCustomer(ctx context.Context, scenarioID, customerID string) error
	AddDepot(ctx context.Context, scenarioID string, d domain.Depot) (domain.Depot, error)
	RemoveDepot(ctx context.Context, scenarioID, depotID string) error
	AddVehicle(ctx context.Context, scenarioID string, v domain.Vehicle) (domain.Vehicle, error)
	RemoveVehicle(ctx context.Context, scenarioID, vehicleID string) error
}
