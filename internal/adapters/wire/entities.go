// Package wire holds the JSON shapes shared by the remote solver and the
// remote persistence API. Coordinates travel as *_x = latitude, *_y = longitude.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mdvrp-planner/internal/domain"
)

// ID decodes from either a JSON string or number; it always encodes as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type Customer struct {
	ID     ID      `json:"id,omitempty"`
	Name   string  `json:"customer_name"`
	X      float64 `json:"customer_x"`
	Y      float64 `json:"customer_y"`
	Demand float64 `json:"demand"`
}

type Depot struct {
	ID          ID       `json:"id,omitempty"`
	Name        string   `json:"depot_name"`
	X           float64  `json:"depot_x"`
	Y           float64  `json:"depot_y"`
	Capacity    float64  `json:"capacity"`
	MaxDistance *float64 `json:"maxDistance,omitempty"`
	Type        string   `json:"type,omitempty"`
}

type Vehicle struct {
	ID       ID      `json:"id,omitempty"`
	Capacity float64 `json:"capacity"`
	DepotID  ID      `json:"depot_id,omitempty"`
}

func FromCustomer(c domain.Customer) Customer {
	return Customer{ID: ID(c.ID), Name: c.Name, X: c.Location.Lat, Y: c.Location.Lon, Demand: c.Demand}
}

func (c Customer) ToDomain() domain.Customer {
	return domain.Customer{
		ID:       string(c.ID),
		Name:     c.Name,
		Location: domain.Coordinates{Lat: c.X, Lon: c.Y},
		Demand:   c.Demand,
	}
}

func FromDepot(d domain.Depot) Depot {
	return Depot{
		ID:          ID(d.ID),
		Name:        d.Name,
		X:           d.Location.Lat,
		Y:           d.Location.Lon,
		Capacity:    d.Capacity,
		MaxDistance: d.MaxDistance,
		Type:        d.Type,
	}
}

func (d Depot) ToDomain() domain.Depot {
	return domain.Depot{
		ID:          string(d.ID),
		Name:        d.Name,
		Location:    domain.Coordinates{Lat: d.X, Lon: d.Y},
		Capacity:    d.Capacity,
		MaxDistance: d.MaxDistance,
		Type:        d.Type,
	}
}

func FromVehicle(v domain.Vehicle) Vehicle {
	return Vehicle{ID: ID(v.ID), Capacity: v.Capacity, DepotID: ID(v.DepotID)}
}

func (v Vehicle) ToDomain() domain.Vehicle {
	return domain.Vehicle{ID: string(v.ID), Capacity: v.Capacity, DepotID: string(v.DepotID)}
}

func Customers(cs []domain.Customer) []Customer {
	out := make([]Customer, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCustomer(c))
	}
	return out
}

func Depots(ds []domain.Depot) []Depot {
	out := make([]Depot, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDepot(d))
	}
	return out
}

func Vehicles(vs []domain.Vehicle) []Vehicle {
	out := make([]Vehicle, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromVehicle(v))
	}
	return out
}
