package dto

import "mdvrp-planner/internal/domain"

type ScenarioSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date,omitempty"`
}

type ListScenariosResponse struct {
	Scenarios []ScenarioSummary `json:"scenarios"`
}

type CreateScenarioRequest struct {
	Name      string     `json:"name"`
	Date      string     `json:"date"`
	Customers []Customer `json:"customers"`
	Depots    []Depot    `json:"depots"`
	Vehicles  []Vehicle  `json:"vehicles"`
}

func (r CreateScenarioRequest) ToDomain() domain.Scenario {
	sc := domain.Scenario{Name: r.Name, Date: r.Date}
	for _, c := range r.Customers {
		sc.Customers = append(sc.Customers, c.ToDomain())
	}
	for _, d := range r.Depots {
		sc.Depots = append(sc.Depots, d.ToDomain())
	}
	for _, v := range r.Vehicles {
		sc.Vehicles = append(sc.Vehicles, v.ToDomain())
	}
	return sc
}

type RenameScenarioRequest struct {
	Name string `json:"name"`
}

type ScenarioResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Date       string     `json:"date,omitempty"`
	Generation uint64     `json:"generation"`
	Solving    bool       `json:"solving"`
	Customers  []Customer `json:"customers"`
	Depots     []Depot    `json:"depots"`
	Vehicles   []Vehicle  `json:"vehicles"`
}

func FromScenario(sc domain.Scenario, generation uint64, solving bool) ScenarioResponse {
	res := ScenarioResponse{
		ID:         sc.ID,
		Name:       sc.Name,
		Date:       sc.Date,
		Generation: generation,
		Solving:    solving,
		Customers:  make([]Customer, 0, len(sc.Customers)),
		Depots:     make([]Depot, 0, len(sc.Depots)),
		Vehicles:   make([]Vehicle, 0, len(sc.Vehicles)),
	}
	for _, c := range sc.Customers {
		res.Customers = append(res.Customers, FromCustomer(c))
	}
	for _, d := range sc.Depots {
		res.Depots = append(res.Depots, FromDepot(d))
	}
	for _, v := range sc.Vehicles {
		res.Vehicles = append(res.Vehicles, FromVehicle(v))
	}
	return res
}
