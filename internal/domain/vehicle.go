package domain

// Vehicle with a load capacity, assigned to a depot.
// DepotID is a reference only; deleting the depot does not delete the vehicle.
type Vehicle struct {
	ID       string
	Capacity float64
	DepotID  string
}

// TotalCapacity sums Capacity across vehicles.
func TotalCapacity(vehicles []Vehicle) float64 {
	total := 0.0
	for _, v := range vehicles {
		total += v.Capacity
	}
	return total
}
