package repositories

import (
	"context"
	"fmt"
	"sync"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/ports"

	"github.com/google/uuid"
)

// MemoryScenarioStore keeps scenarios in process memory.
// It stands in for the persistence API in development and tests.
type MemoryScenarioStore struct {
	mu        sync.RWMutex
	scenarios map[string]domain.Scenario
	order     []string
}

func NewMemoryScenarioStore(seed ...domain.Scenario) *MemoryScenarioStore {
	s := &MemoryScenarioStore{scenarios: make(map[string]domain.Scenario)}
	for _, sc := range seed {
		if sc.ID == "" {
			sc.ID = uuid.NewString()
		}
		s.put(sc)
	}
	return s
}

func (s *MemoryScenarioStore) put(sc domain.Scenario) {
	if _, ok := s.scenarios[sc.ID]; !ok {
		s.order = append(s.order, sc.ID)
	}
	s.scenarios[sc.ID] = sc.Clone()
}

func (s *MemoryScenarioStore) ListScenarios(ctx context.Context) ([]ports.ScenarioSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.ScenarioSummary, 0, len(s.order))
	for _, id := range s.order {
		sc := s.scenarios[id]
		out = append(out, ports.ScenarioSummary{ID: sc.ID, Name: sc.Name, Date: sc.Date})
	}
	return out, nil
}

func (s *MemoryScenarioStore) GetScenario(ctx context.Context, id string) (domain.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scenarios[id]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("get scenario %s: %w", id, ports.ErrNotFound)
	}
	return sc.Clone(), nil
}

func (s *MemoryScenarioStore) CreateScenario(ctx context.Context, sc domain.Scenario) (domain.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc = sc.Clone()
	sc.ID = uuid.NewString()
	for i := range sc.Customers {
		if sc.Customers[i].ID == "" {
			sc.Customers[i].ID = uuid.NewString()
		}
	}
	for i := range sc.Depots {
		if sc.Depots[i].ID == "" {
			sc.Depots[i].ID = uuid.NewString()
		}
	}
	for i := range sc.Vehicles {
		if sc.Vehicles[i].ID == "" {
			sc.Vehicles[i].ID = uuid.NewString()
		}
	}

	s.put(sc)
	return sc.Clone(), nil
}

func (s *MemoryScenarioStore) RenameScenario(ctx context.Context, id, name string) error {
	return s.update(id, func(sc *domain.Scenario) error {
		sc.Name = name
		return nil
	})
}

func (s *MemoryScenarioStore) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scenarios[id]; !ok {
		return fmt.Errorf("delete scenario %s: %w", id, ports.ErrNotFound)
	}
	delete(s.scenarios, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryScenarioStore) AddCustomer(ctx context.Context, scenarioID string, c domain.Customer) (domain.Customer, error) {
	c.ID = uuid.NewString()
	err := s.update(scenarioID, func(sc *domain.Scenario) error {
		sc.Customers = append(sc.Customers, c)
		return nil
	})
	return c, err
}

func (s *MemoryScenarioStore) RemoveCustomer(ctx context.Context, scenarioID, customerID string) error {
	return s.update(scenarioID, func(sc *domain.Scenario) error {
		i := indexOf(len(sc.Customers), func(i int) bool { return sc.Customers[i].ID == customerID })
		if i < 0 {
			return fmt.Errorf("customer %s: %w", customerID, ports.ErrNotFound)
		}
		sc.Customers = append(sc.Customers[:i], sc.Customers[i+1:]...)
		return nil
	})
}

func (s *MemoryScenarioStore) AddDepot(ctx context.Context, scenarioID string, d domain.Depot) (domain.Depot, error) {
	d.ID = uuid.NewString()
	err := s.update(scenarioID, func(sc *domain.Scenario) error {
		sc.Depots = append(sc.Depots, d)
		return nil
	})
	return d, err
}

func (s *MemoryScenarioStore) RemoveDepot(ctx context.Context, scenarioID, depotID string) error {
	return s.update(scenarioID, func(sc *domain.Scenario) error {
		i := indexOf(len(sc.Depots), func(i int) bool { return sc.Depots[i].ID == depotID })
		if i < 0 {
			return fmt.Errorf("depot %s: %w", depotID, ports.ErrNotFound)
		}
		sc.Depots = append(sc.Depots[:i], sc.Depots[i+1:]...)
		return nil
	})
}

func (s *MemoryScenarioStore) AddVehicle(ctx context.Context, scenarioID string, v domain.Vehicle) (domain.Vehicle, error) {
	v.ID = uuid.NewString()
	err := s.update(scenarioID, func(sc *domain.Scenario) error {
		sc.Vehicles = append(sc.Vehicles, v)
		return nil
	})
	return v, err
}

func (s *MemoryScenarioStore) RemoveVehicle(ctx context.Context, scenarioID, vehicleID string) error {
	return s.update(scenarioID, func(sc *domain.Scenario) error {
		i := indexOf(len(sc.Vehicles), func(i int) bool { return sc.Vehicles[i].ID == vehicleID })
		if i < 0 {
			return fmt.Errorf("vehicle %s: %w", vehicleID, ports.ErrNotFound)
		}
		sc.Vehicles = append(sc.Vehicles[:i], sc.Vehicles[i+1:]...)
		return nil
	})
}

// update applies fn to a private copy and stores it only when fn succeeds.
func (s *MemoryScenarioStore) update(id string, fn func(*domain.Scenario) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scenarios[id]
	if !ok {
		return fmt.Errorf("scenario %s: %w", id, ports.ErrNotFound)
	}
	sc = sc.Clone()
	if err := fn(&sc); err != nil {
		return err
	}
	s.scenarios[id] = sc
	return nil
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}

