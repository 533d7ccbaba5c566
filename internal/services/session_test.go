package services

import (
	"testing"

	"mdvrp-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMutationsBumpGeneration(t *testing.T) {
	s := NewSession(domain.Scenario{ID: "s1"})
	g0 := s.Generation()

	s.AddCustomer(domain.Customer{ID: "c1", Name: "C1"})
	s.AddDepot(domain.Depot{ID: "d1", Name: "D1"})
	s.AddVehicle(domain.Vehicle{ID: "v1", DepotID: "d1"})
	assert.Equal(t, g0+3, s.Generation())

	assert.False(t, s.RemoveCustomer("missing"))
	assert.Equal(t, g0+3, s.Generation())

	assert.True(t, s.RemoveVehicle("v1"))
	assert.True(t, s.RemoveDepot("d1"))
	assert.True(t, s.RemoveCustomer("c1"))
	assert.Equal(t, g0+6, s.Generation())

	sc, gen := s.Snapshot()
	assert.Equal(t, g0+6, gen)
	assert.Empty(t, sc.Customers)
	assert.Empty(t, sc.Depots)
	assert.Empty(t, sc.Vehicles)
}

func TestSessionSnapshotIsACopy(t *testing.T) {
	s := NewSession(domain.Scenario{Customers: []domain.Customer{{ID: "c1", Name: "C1"}}})
	sc, _ := s.Snapshot()
	sc.Customers[0].Name = "changed"

	again, _ := s.Snapshot()
	assert.Equal(t, "C1", again.Customers[0].Name)
}

func TestSessionRemoveDoesNotCorruptEarlierSnapshots(t *testing.T) {
	s := NewSession(domain.Scenario{Customers: []domain.Customer{{ID: "a"}, {ID: "b"}, {ID: "c"}}})
	before, _ := s.Snapshot()

	require.True(t, s.RemoveCustomer("a"))
	assert.Equal(t, "a", before.Customers[0].ID)

	after, _ := s.Snapshot()
	require.Len(t, after.Customers, 2)
	assert.Equal(t, "b", after.Customers[0].ID)
}

func TestSessionBeginSolveBlocksReentry(t *testing.T) {
	s := NewSession(domain.Scenario{})

	release, err := s.BeginSolve()
	require.NoError(t, err)
	assert.True(t, s.Solving())

	_, err = s.BeginSolve()
	assert.ErrorIs(t, err, ErrSolveInProgress)

	release()
	release()
	assert.False(t, s.Solving())

	release2, err := s.BeginSolve()
	require.NoError(t, err)
	release2()
}

func TestSessionApplyPlanRejectsStaleGeneration(t *testing.T) {
	s := NewSession(domain.Scenario{})
	_, gen := s.Snapshot()

	s.AddCustomer(domain.Customer{ID: "late"})
	assert.ErrorIs(t, s.ApplyPlan(gen, domain.Plan{Status: "Optimal"}), ErrStale)

	_, _, ok := s.Plan()
	assert.False(t, ok)

	require.NoError(t, s.ApplyPlan(s.Generation(), domain.Plan{Status: "Optimal"}))
	plan, planGen, ok := s.Plan()
	require.True(t, ok)
	assert.Equal(t, "Optimal", plan.Status)
	assert.Equal(t, s.Generation(), planGen)

	s.AddVehicle(domain.Vehicle{ID: "v"})
	_, _, ok = s.Plan()
	assert.False(t, ok, "entity change drops the plan")
}
