package domain

// Scenario is the persisted aggregate a planning session works on.
type Scenario struct {
	ID        string
	Name      string
	Date      string
	Customers []Customer
	Depots    []Depot
	Vehicles  []Vehicle
}

// Clone returns a copy whose slices do not alias the receiver's.
func (s Scenario) Clone() Scenario {
	out := s
	out.Customers = append([]Customer(nil), s.Customers...)
	out.Depots = append([]Depot(nil), s.Depots...)
	out.Vehicles = append([]Vehicle(nil), s.Vehicles...)
	return out
}
