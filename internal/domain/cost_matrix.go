package domain

import (
	"encoding/json"
	"math"
)

// CostMatrix is a depot-by-customer travel cost grid in meters.
// A +Inf cell marks a customer unreachable from that depot.
type CostMatrix [][]float64

// Unreachable is the cell value for a pair the distance service could not route.
var Unreachable = math.Inf(1)

func NewCostMatrix(rows, cols int) CostMatrix {
	m := make(CostMatrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func (m CostMatrix) Rows() int { return len(m) }

func (m CostMatrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// HasUnreachable reports whether any cell is +Inf.
func (m CostMatrix) HasUnreachable() bool {
	for _, row := range m {
		for _, v := range row {
			if math.IsInf(v, 1) {
				return true
			}
		}
	}
	return false
}

// MarshalJSON encodes +Inf cells as null; JSON has no infinity.
func (m CostMatrix) MarshalJSON() ([]byte, error) {
	out := make([][]*float64, len(m))
	for i, row := range m {
		out[i] = make([]*float64, len(row))
		for j := range row {
			if math.IsInf(row[j], 0) || math.IsNaN(row[j]) {
				continue
			}
			v := row[j]
			out[i][j] = &v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON: null cells decode to +Inf.
func (m *CostMatrix) UnmarshalJSON(b []byte) error {
	var raw [][]*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(CostMatrix, len(raw))
	for i, row := range raw {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				out[i][j] = Unreachable
				continue
			}
			out[i][j] = *v
		}
	}
	*m = out
	return nil
}
