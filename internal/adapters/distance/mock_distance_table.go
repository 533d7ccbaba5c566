package distance

import (
	"context"
	"errors"
	"sync"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/ports"
)

// MockDistanceTable serves a fixed table, or a fixed error, and counts calls.
type MockDistanceTable struct {
	mu     sync.Mutex
	result ports.TableResult
	err    error
	calls  int
	last   []domain.Coordinates
}

func NewMockDistanceTable(distances [][]*float64) *MockDistanceTable {
	return &MockDistanceTable{result: ports.TableResult{Distances: distances}}
}

// NewFailingDistanceTable returns a table that always fails with err.
func NewFailingDistanceTable(err error) *MockDistanceTable {
	if err == nil {
		err = errors.New("distance table unavailable")
	}
	return &MockDistanceTable{err: err}
}

func (m *MockDistanceTable) Table(ctx context.Context, coords []domain.Coordinates) (ports.TableResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.last = append([]domain.Coordinates(nil), coords...)
	if m.err != nil {
		return ports.TableResult{}, m.err
	}
	return m.result, nil
}

func (m *MockDistanceTable) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastCoords returns the coordinates passed to the most recent call.
func (m *MockDistanceTable) LastCoords() []domain.Coordinates {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Coordinates(nil), m.last...)
}

// F is shorthand for building nullable table cells in tests.
func F(v float64) *float64 { return &v }
