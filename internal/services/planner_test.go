package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"mdvrp-planner/internal/adapters/distance"
	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endToEndScenario() domain.Scenario {
	return domain.Scenario{
		ID:        "s1",
		Name:      "e2e",
		Depots:    []domain.Depot{{ID: "d", Name: "D", Location: at(54.35, 18.64), Capacity: 100}},
		Customers: []domain.Customer{{ID: "c1", Name: "C1", Location: at(54.40, 18.50), Demand: 40}, {ID: "c2", Name: "C2", Location: at(54.45, 18.55), Demand: 40}},
		Vehicles:  []domain.Vehicle{{ID: "v", Capacity: 100, DepotID: "d"}},
	}
}

func liveTable() *distance.MockDistanceTable {
	return distance.NewMockDistanceTable([][]*float64{
		{cell(0), cell(11000), cell(12500)},
		{cell(11000), cell(0), cell(6000)},
		{cell(12500), cell(6000), cell(0)},
	})
}

func TestPlannerEndToEnd(t *testing.T) {
	sc := endToEndScenario()
	session := NewSession(sc)
	solver := &fakeSolver{resp: ports.SolveResponse{
		Status:    "Optimal",
		TotalCost: 29500,
		Routes:    []domain.SolverRoute{{ID: "1", Stops: []string{"D", "C1", "C2"}}},
	}}
	p := NewPlanner(NewCostMatrixBuilder(liveTable(), nil), solver, nil, time.Second)

	report, _ := p.Validate(session)
	assert.Empty(t, report)

	res, err := p.Plan(context.Background(), session)
	require.NoError(t, err)

	assert.Empty(t, res.Violations)
	assert.Equal(t, SourceLive, res.MatrixSource)
	require.Equal(t, 1, res.CostMatrix.Rows())
	require.Equal(t, 2, res.CostMatrix.Cols())
	assert.False(t, res.CostMatrix.HasUnreachable())
	assert.Equal(t, domain.CostMatrix{{11000, 12500}}, solver.last.CostMatrix)

	require.Len(t, res.Plan.Routes, 1)
	pts := res.Plan.Routes[0].Points
	require.Len(t, pts, 4)
	assert.Equal(t, []domain.Coordinates{sc.Depots[0].Location, sc.Customers[0].Location, sc.Customers[1].Location, sc.Depots[0].Location}, pts)
	assert.Equal(t, "Optimal", res.Plan.Status)
	assert.Equal(t, 29500.0, res.Plan.TotalCost)

	stored, gen, ok := session.Plan()
	require.True(t, ok)
	assert.Equal(t, res.Plan, stored)
	assert.Equal(t, res.Generation, gen)
	assert.False(t, session.Solving())
}

func TestPlannerViolationsBlockSolver(t *testing.T) {
	sc := endToEndScenario()
	sc.Customers[0].Demand = 90
	session := NewSession(sc)
	solver := &fakeSolver{}
	table := liveTable()
	p := NewPlanner(NewCostMatrixBuilder(table, nil), solver, nil, 0)

	res, err := p.Plan(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, ValidationReport{"Total demand 130 is greater than total capacity 100"}, res.Violations)
	assert.Zero(t, solver.Calls())
	assert.Zero(t, table.Calls())
}

func TestPlannerRejectsConcurrentSolve(t *testing.T) {
	session := NewSession(endToEndScenario())
	solver := &fakeSolver{
		resp:    ports.SolveResponse{Routes: []domain.SolverRoute{}},
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	p := NewPlanner(NewCostMatrixBuilder(liveTable(), nil), solver, nil, 0)

	done := make(chan error, 1)
	go func() {
		_, err := p.Plan(context.Background(), session)
		done <- err
	}()
	<-solver.entered

	_, err := p.Plan(context.Background(), session)
	assert.ErrorIs(t, err, ErrSolveInProgress)
	_, err = p.Transportation(context.Background(), session)
	assert.ErrorIs(t, err, ErrSolveInProgress)

	close(solver.release)
	require.NoError(t, <-done)
}

func TestPlannerDiscardsStaleResult(t *testing.T) {
	session := NewSession(endToEndScenario())
	solver := &fakeSolver{
		resp: ports.SolveResponse{Routes: []domain.SolverRoute{{ID: "1", Stops: []string{"D", "C1"}}}},
	}
	solver.during = func() {
		session.AddCustomer(domain.Customer{ID: "c3", Name: "C3", Location: at(54.5, 18.6), Demand: 1})
	}
	p := NewPlanner(NewCostMatrixBuilder(liveTable(), nil), solver, nil, 0)

	_, err := p.Plan(context.Background(), session)
	assert.ErrorIs(t, err, ErrStale)

	_, _, ok := session.Plan()
	assert.False(t, ok)
	assert.False(t, session.Solving())
}

func TestPlannerSolverErrorPropagates(t *testing.T) {
	session := NewSession(endToEndScenario())
	boom := errors.New("malformed solver response")
	p := NewPlanner(NewCostMatrixBuilder(liveTable(), nil), &fakeSolver{err: boom}, nil, 0)

	_, err := p.Plan(context.Background(), session)
	assert.ErrorIs(t, err, boom)
	assert.False(t, session.Solving())
}

func TestPlannerFiltersUnrenderableRoutes(t *testing.T) {
	session := NewSession(endToEndScenario())
	solver := &fakeSolver{resp: ports.SolveResponse{Routes: []domain.SolverRoute{
		{ID: "1", Stops: []string{"D", "C1"}},
		{ID: "2", Stops: []string{"Unknown"}},
	}}}
	p := NewPlanner(NewCostMatrixBuilder(liveTable(), nil), solver, nil, 0)

	res, err := p.Plan(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, res.Plan.Routes, 1)
	assert.Equal(t, domain.RouteID("1"), res.Plan.Routes[0].ID)
	assert.Equal(t, 1, res.Dropped)
}

func TestPlannerTransportationPassesThrough(t *testing.T) {
	session := NewSession(endToEndScenario())
	solver := &fakeSolver{tp: json.RawMessage(`{"allocation":[[40,40]]}`)}
	p := NewPlanner(NewCostMatrixBuilder(distance.NewFailingDistanceTable(nil), nil), solver, nil, 0)

	res, err := p.Transportation(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.MatrixSource)
	assert.JSONEq(t, `{"allocation":[[40,40]]}`, string(res.Result))
	for _, v := range res.CostMatrix[0] {
		assert.False(t, math.IsNaN(v))
	}
}

func TestPlannerValidateRoutes(t *testing.T) {
	session := NewSession(endToEndScenario())
	solver := &fakeSolver{resp: ports.SolveResponse{Routes: []domain.SolverRoute{{ID: "1", Stops: []string{"D", "C1", "C2"}}}}}
	engine := engineFunc(func(ctx context.Context, wps []domain.Coordinates) (ports.RouteResult, error) {
		return ports.RouteResult{
			Candidates: []ports.RouteCandidate{{Geometry: goodLine(), DistanceMeters: 29000}},
			Snapped:    snappedNear(wps),
		}, nil
	})
	p := NewPlanner(NewCostMatrixBuilder(liveTable(), nil), solver, NewGuard(engine, time.Second, nil), 0)

	_, err := p.ValidateRoutes(context.Background(), session)
	assert.ErrorIs(t, err, ErrNoPlan)

	_, err = p.Plan(context.Background(), session)
	require.NoError(t, err)

	attempts, err := p.ValidateRoutes(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, StateAccepted, attempts[0].State)
	assert.Len(t, session.Attempts(), 1)
}

func TestPlannerValidateRoutesCancelledKeepsNoAttempts(t *testing.T) {
	session := NewSession(endToEndScenario())
	solver := &fakeSolver{resp: ports.SolveResponse{Routes: []domain.SolverRoute{{ID: "1", Stops: []string{"D", "C1", "C2"}}}}}
	engine := engineFunc(func(ctx context.Context, wps []domain.Coordinates) (ports.RouteResult, error) {
		<-ctx.Done()
		return ports.RouteResult{}, ctx.Err()
	})
	p := NewPlanner(NewCostMatrixBuilder(liveTable(), nil), solver, NewGuard(engine, time.Second, nil), 0)

	_, err := p.Plan(context.Background(), session)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.ValidateRoutes(ctx, session)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, session.Attempts())
}
