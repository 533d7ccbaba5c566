package services

import (
	"errors"
	"sync"

	"mdvrp-planner/internal/domain"
)

var (
	ErrSolveInProgress = errors.New("solve already in progress")
	ErrStale           = errors.New("entity set changed; result discarded")
)

// Session is the working state of one scenario. Entity changes bump the
// generation, which invalidates any matrix, solve or geometry result that
// was started against an older snapshot.
type Session struct {
	mu         sync.Mutex
	scenario   domain.Scenario
	generation uint64
	solving    bool

	plan     *domain.Plan
	planGen  uint64
	attempts []*Attempt
}

func NewSession(sc domain.Scenario) *Session {
	return &Session{scenario: sc.Clone(), generation: 1}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario.ID
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Snapshot returns a copy of the entity set and the generation it belongs to.
func (s *Session) Snapshot() (domain.Scenario, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario.Clone(), s.generation
}

func (s *Session) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario.Name = name
}

func (s *Session) AddCustomer(c domain.Customer) {
	s.mutate(func(sc *domain.Scenario) bool {
		sc.Customers = append(sc.Customers, c)
		return true
	})
}

func (s *Session) RemoveCustomer(id string) bool {
	return s.mutate(func(sc *domain.Scenario) bool {
		for i := range sc.Customers {
			if sc.Customers[i].ID == id {
				sc.Customers = append(sc.Customers[:i:i], sc.Customers[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *Session) AddDepot(d domain.Depot) {
	s.mutate(func(sc *domain.Scenario) bool {
		sc.Depots = append(sc.Depots, d)
		return true
	})
}

func (s *Session) RemoveDepot(id string) bool {
	return s.mutate(func(sc *domain.Scenario) bool {
		for i := range sc.Depots {
			if sc.Depots[i].ID == id {
				sc.Depots = append(sc.Depots[:i:i], sc.Depots[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *Session) AddVehicle(v domain.Vehicle) {
	s.mutate(func(sc *domain.Scenario) bool {
		sc.Vehicles = append(sc.Vehicles, v)
		return true
	})
}

func (s *Session) RemoveVehicle(id string) bool {
	return s.mutate(func(sc *domain.Scenario) bool {
		for i := range sc.Vehicles {
			if sc.Vehicles[i].ID == id {
				sc.Vehicles = append(sc.Vehicles[:i:i], sc.Vehicles[i+1:]...)
				return true
			}
		}
		return false
	})
}

// mutate applies fn and, when it reports a change, bumps the generation and
// drops results computed for the previous entity set.
func (s *Session) mutate(fn func(*domain.Scenario) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(&s.scenario) {
		return false
	}
	s.generation++
	s.plan = nil
	s.attempts = nil
	return true
}

// BeginSolve marks a solve as running. The returned func ends it.
func (s *Session) BeginSolve() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.solving {
		return nil, ErrSolveInProgress
	}
	s.solving = true

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.solving = false
			s.mu.Unlock()
		})
	}, nil
}

func (s *Session) Solving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solving
}

// ApplyPlan stores plan only if the entity set is still at generation.
func (s *Session) ApplyPlan(generation uint64, plan domain.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return ErrStale
	}
	s.plan = &plan
	s.planGen = generation
	s.attempts = nil
	return nil
}

// Plan returns the current plan and the generation it was computed for.
func (s *Session) Plan() (domain.Plan, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return domain.Plan{}, 0, false
	}
	return *s.plan, s.planGen, true
}

func (s *Session) ApplyAttempts(generation uint64, attempts []*Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return ErrStale
	}
	s.attempts = attempts
	return nil
}

func (s *Session) Attempts() []*Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Attempt(nil), s.attempts...)
}
