package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/platform/metrics"
	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"
)

// PlanResult is what one solve produced. When Violations is non-empty the
// solver was not called and Plan is empty.
type PlanResult struct {
	Generation   uint64
	Violations   ValidationReport
	MatrixSource MatrixSource
	CostMatrix   domain.CostMatrix
	Plan         domain.Plan
	// Routes dropped by the renderability filter.
	Dropped int
}

type TransportationResult struct {
	Generation   uint64
	MatrixSource MatrixSource
	CostMatrix   domain.CostMatrix
	Result       json.RawMessage
}

// Planner drives one session through validation, matrix, solver and assembly.
type Planner struct {
	matrix       *CostMatrixBuilder
	solver       ports.Solver
	guard        *Guard
	solveTimeout time.Duration
}

func NewPlanner(matrix *CostMatrixBuilder, solver ports.Solver, guard *Guard, solveTimeout time.Duration) *Planner {
	return &Planner{matrix: matrix, solver: solver, guard: guard, solveTimeout: solveTimeout}
}

// Validate reports violations for the session's current entity set.
func (p *Planner) Validate(s *Session) (ValidationReport, uint64) {
	sc, gen := s.Snapshot()
	return NewFleetValidator(sc.Customers, sc.Depots, sc.Vehicles).ValidateAll(), gen
}

// CostMatrix builds the matrix for the current snapshot.
func (p *Planner) CostMatrix(ctx context.Context, s *Session) (domain.CostMatrix, MatrixSource, uint64, error) {
	sc, gen := s.Snapshot()
	m, source := p.matrix.Build(ctx, sc.Depots, sc.Customers)
	if s.Generation() != gen {
		return nil, "", 0, ErrStale
	}
	return m, source, gen, nil
}

// Plan solves the session. Only one solve per session runs at a time, and a
// result whose entity set changed meanwhile is discarded with ErrStale.
func (p *Planner) Plan(ctx context.Context, s *Session) (_ PlanResult, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)
	defer func() { metrics.PlanRuns.WithLabelValues(planOutcome(err)).Inc() }()

	release, err := s.BeginSolve()
	if err != nil {
		return PlanResult{}, err
	}
	defer release()

	sc, gen := s.Snapshot()

	report := NewFleetValidator(sc.Customers, sc.Depots, sc.Vehicles).ValidateAll()
	if !report.OK() {
		return PlanResult{Generation: gen, Violations: report}, nil
	}

	matrix, source := p.matrix.Build(ctx, sc.Depots, sc.Customers)
	if s.Generation() != gen {
		return PlanResult{}, ErrStale
	}

	solveCtx := ctx
	if p.solveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, p.solveTimeout)
		defer cancel()
	}

	resp, err := p.solver.SolveMDVRP(solveCtx, ports.SolveRequest{
		Depots:     sc.Depots,
		Customers:  sc.Customers,
		Vehicles:   sc.Vehicles,
		CostMatrix: matrix,
	})
	if err != nil {
		return PlanResult{}, fmt.Errorf("plan: %w", err)
	}

	assembled := NewRouteAssembler(sc.Depots, sc.Customers).Assemble(resp.Routes)
	routes := Renderable(assembled)

	plan := domain.Plan{Status: resp.Status, TotalCost: resp.TotalCost, Routes: routes}
	if err := s.ApplyPlan(gen, plan); err != nil {
		return PlanResult{}, err
	}

	if dropped := len(assembled) - len(routes); dropped > 0 {
		log.Printf("req_id=%s op=planner.Plan scenario=%s dropped_routes=%d", obs.RequestID(ctx), sc.ID, dropped)
	}

	return PlanResult{
		Generation:   gen,
		Violations:   ValidationReport{},
		MatrixSource: source,
		CostMatrix:   matrix,
		Plan:         plan,
		Dropped:      len(assembled) - len(routes),
	}, nil
}

// Transportation solves the depot-to-customer transportation problem.
// The solver's answer is passed through untouched.
func (p *Planner) Transportation(ctx context.Context, s *Session) (_ TransportationResult, err error) {
	defer obs.Time(ctx, "planner.Transportation")(&err)

	release, err := s.BeginSolve()
	if err != nil {
		return TransportationResult{}, err
	}
	defer release()

	sc, gen := s.Snapshot()
	matrix, source := p.matrix.Build(ctx, sc.Depots, sc.Customers)
	if s.Generation() != gen {
		return TransportationResult{}, ErrStale
	}

	solveCtx := ctx
	if p.solveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, p.solveTimeout)
		defer cancel()
	}

	raw, err := p.solver.SolveTransportation(solveCtx, ports.TransportationRequest{
		Customers:  sc.Customers,
		Depots:     sc.Depots,
		CostMatrix: matrix,
	})
	if err != nil {
		return TransportationResult{}, fmt.Errorf("transportation: %w", err)
	}
	if s.Generation() != gen {
		return TransportationResult{}, ErrStale
	}

	return TransportationResult{Generation: gen, MatrixSource: source, CostMatrix: matrix, Result: raw}, nil
}

// ErrNoPlan is returned when route validation is asked for before any solve.
var ErrNoPlan = errors.New("no plan to validate")

// ValidateRoutes runs the geometry guard over the session's current plan.
func (p *Planner) ValidateRoutes(ctx context.Context, s *Session) ([]*Attempt, error) {
	plan, gen, ok := s.Plan()
	if !ok {
		return nil, ErrNoPlan
	}

	attempts, err := p.guard.ValidateAll(ctx, gen, s.Generation, plan.Routes)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyAttempts(gen, attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func planOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSolveInProgress):
		return "busy"
	case errors.Is(err, ErrStale):
		return "stale"
	default:
		return "error"
	}
}
