package domain

// Represents a demand point that must be visited once by some vehicle.
// Customers are created by user action and only ever removed, never edited.
type Customer struct {
	ID       string
	Name     string
	Location Coordinates
	Demand   float64
}

// TotalDemand sums Demand across customers.
func TotalDemand(customers []Customer) float64 {
	total := 0.0
	for _, c := range customers {
		total += c.Demand
	}
	return total
}
