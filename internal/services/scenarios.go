package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/geo"
	"mdvrp-planner/internal/ports"
)

// ErrInvalidEntity rejects an entity before it reaches the store.
var ErrInvalidEntity = errors.New("invalid entity")

// Scenarios keeps the persistence API and the in-process sessions in step.
// Every write goes to the store first; the session only sees records the
// store accepted.
type Scenarios struct {
	store  ports.ScenarioStore
	coords geo.Validator

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewScenarios(store ports.ScenarioStore) *Scenarios {
	return &Scenarios{
		store:    store,
		coords:   geo.NewValidator(geo.DefaultLandMask),
		sessions: make(map[string]*Session),
	}
}

func (s *Scenarios) List(ctx context.Context) ([]ports.ScenarioSummary, error) {
	out, err := s.store.ListScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return out, nil
}

// Session returns the live session for id, loading it from the store on first use.
func (s *Scenarios) Session(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	sc, err := s.store.GetScenario(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	sess = NewSession(sc)
	s.sessions[id] = sess
	return sess, nil
}

func (s *Scenarios) Create(ctx context.Context, sc domain.Scenario) (domain.Scenario, error) {
	if strings.TrimSpace(sc.Name) == "" {
		return domain.Scenario{}, fmt.Errorf("create scenario: %w: name must be non-empty", ErrInvalidEntity)
	}
	created, err := s.store.CreateScenario(ctx, sc)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("create scenario: %w", err)
	}

	s.mu.Lock()
	s.sessions[created.ID] = NewSession(created)
	s.mu.Unlock()
	return created, nil
}

func (s *Scenarios) Rename(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("rename scenario: %w: name must be non-empty", ErrInvalidEntity)
	}
	if err := s.store.RenameScenario(ctx, id, name); err != nil {
		return fmt.Errorf("rename scenario: %w", err)
	}
	if sess := s.loaded(id); sess != nil {
		sess.Rename(name)
	}
	return nil
}

func (s *Scenarios) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteScenario(ctx, id); err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *Scenarios) AddCustomer(ctx context.Context, scenarioID string, c domain.Customer) (domain.Customer, error) {
	if err := s.checkEntity("Customer", c.Name, c.Location, c.Demand); err != nil {
		return domain.Customer{}, fmt.Errorf("add customer: %w", err)
	}
	sess, err := s.Session(ctx, scenarioID)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("add customer: %w", err)
	}
	saved, err := s.store.AddCustomer(ctx, scenarioID, c)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("add customer: %w", err)
	}
	sess.AddCustomer(saved)
	return saved, nil
}

func (s *Scenarios) RemoveCustomer(ctx context.Context, scenarioID, id string) error {
	sess, err := s.Session(ctx, scenarioID)
	if err != nil {
		return fmt.Errorf("remove customer: %w", err)
	}
	if err := s.store.RemoveCustomer(ctx, scenarioID, id); err != nil {
		return fmt.Errorf("remove customer: %w", err)
	}
	sess.RemoveCustomer(id)
	return nil
}

func (s *Scenarios) AddDepot(ctx context.Context, scenarioID string, d domain.Depot) (domain.Depot, error) {
	if err := s.checkEntity("Depot", d.Name, d.Location, d.Capacity); err != nil {
		return domain.Depot{}, fmt.Errorf("add depot: %w", err)
	}
	sess, err := s.Session(ctx, scenarioID)
	if err != nil {
		return domain.Depot{}, fmt.Errorf("add depot: %w", err)
	}
	saved, err := s.store.AddDepot(ctx, scenarioID, d)
	if err != nil {
		return domain.Depot{}, fmt.Errorf("add depot: %w", err)
	}
	sess.AddDepot(saved)
	return saved, nil
}

func (s *Scenarios) RemoveDepot(ctx context.Context, scenarioID, id string) error {
	sess, err := s.Session(ctx, scenarioID)
	if err != nil {
		return fmt.Errorf("remove depot: %w", err)
	}
	if err := s.store.RemoveDepot(ctx, scenarioID, id); err != nil {
		return fmt.Errorf("remove depot: %w", err)
	}
	sess.RemoveDepot(id)
	return nil
}

func (s *Scenarios) AddVehicle(ctx context.Context, scenarioID string, v domain.Vehicle) (domain.Vehicle, error) {
	if v.Capacity < 0 {
		return domain.Vehicle{}, fmt.Errorf("add vehicle: %w: capacity must be non-negative", ErrInvalidEntity)
	}
	sess, err := s.Session(ctx, scenarioID)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("add vehicle: %w", err)
	}
	saved, err := s.store.AddVehicle(ctx, scenarioID, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("add vehicle: %w", err)
	}
	sess.AddVehicle(saved)
	return saved, nil
}

func (s *Scenarios) RemoveVehicle(ctx context.Context, scenarioID, id string) error {
	sess, err := s.Session(ctx, scenarioID)
	if err != nil {
		return fmt.Errorf("remove vehicle: %w", err)
	}
	if err := s.store.RemoveVehicle(ctx, scenarioID, id); err != nil {
		return fmt.Errorf("remove vehicle: %w", err)
	}
	sess.RemoveVehicle(id)
	return nil
}

func (s *Scenarios) loaded(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// checkEntity runs the same coordinate check the fleet report uses, so an
// obviously bad point is refused at entry instead of reported later.
func (s *Scenarios) checkEntity(kind, name string, loc domain.Coordinates, amount float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name must be non-empty", ErrInvalidEntity, strings.ToLower(kind))
	}
	if amount < 0 {
		return fmt.Errorf("%w: %s %q: amount must be non-negative", ErrInvalidEntity, kind, name)
	}
	if res := s.coords.ValidateCoordinate(loc.Lat, loc.Lon); !res.Valid {
		return fmt.Errorf("%w: %s %q: %s", ErrInvalidEntity, kind, name, res.Error)
	}
	return nil
}
