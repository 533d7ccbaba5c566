package dto

import "mdvrp-planner/internal/domain"

type Customer struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Demand float64 `json:"demand"`
}

type Depot struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Capacity    float64  `json:"capacity"`
	MaxDistance *float64 `json:"max_distance,omitempty"`
	Type        string   `json:"type,omitempty"`
}

type Vehicle struct {
	ID       string  `json:"id,omitempty"`
	Capacity float64 `json:"capacity"`
	DepotID  string  `json:"depot_id,omitempty"`
}

func (c Customer) ToDomain() domain.Customer {
	return domain.Customer{ID: c.ID, Name: c.Name, Location: domain.Coordinates{Lat: c.Lat, Lon: c.Lng}, Demand: c.Demand}
}

func FromCustomer(c domain.Customer) Customer {
	return Customer{ID: c.ID, Name: c.Name, Lat: c.Location.Lat, Lng: c.Location.Lon, Demand: c.Demand}
}

func (d Depot) ToDomain() domain.Depot {
	return domain.Depot{
		ID:          d.ID,
		Name:        d.Name,
		Location:    domain.Coordinates{Lat: d.Lat, Lon: d.Lng},
		Capacity:    d.Capacity,
		MaxDistance: d.MaxDistance,
		Type:        d.Type,
	}
}

func FromDepot(d domain.Depot) Depot {
	return Depot{
		ID:          d.ID,
		Name:        d.Name,
		Lat:         d.Location.Lat,
		Lng:         d.Location.Lon,
		Capacity:    d.Capacity,
		MaxDistance: d.MaxDistance,
		Type:        d.Type,
	}
}

func (v Vehicle) ToDomain() domain.Vehicle {
	return domain.Vehicle{ID: v.ID, Capacity: v.Capacity, DepotID: v.DepotID}
}

func FromVehicle(v domain.Vehicle) Vehicle {
	return Vehicle{ID: v.ID, Capacity: v.Capacity, DepotID: v.DepotID}
}
