package domain

// Represents a supply point and the start/end of every route served from it.
type Depot struct {
	ID          string
	Name        string
	Location    Coordinates
	Capacity    float64
	MaxDistance *float64
	Type        string
}

// TotalSupply sums Capacity across depots.
func TotalSupply(depots []Depot) float64 {
	total := 0.0
	for _, d := range depots {
		total += d.Capacity
	}
	return total
}
