package wire

import (
	"encoding/json"
	"strconv"
	"strings"
)

type ScenarioSummary struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Date string `json:"date,omitempty"`
}

// FullScenario is the body of POST /scenarios/full.
type FullScenario struct {
	Name      string     `json:"name"`
	Date      string     `json:"date,omitempty"`
	Customers []Customer `json:"customers"`
	Depots    []Depot    `json:"depots"`
	Vehicles  []Vehicle  `json:"vehicles"`
}

// ScenarioEntities is the answer of POST /scenarios_by_id.
type ScenarioEntities struct {
	Scenario  *ScenarioSummary `json:"scenario,omitempty"`
	Customers []Customer       `json:"customers"`
	Depots    []Depot          `json:"depots"`
	Vehicles  []Vehicle        `json:"vehicles"`
}

// Status is the envelope returned by delete and rename calls.
type Status struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s Status) OK() bool {
	return strings.EqualFold(s.Status, "success")
}

// Ref renders an id for a request body. Integer ids travel as JSON numbers,
// which is what the persistence API issues; anything else stays a string.
func Ref(id string) any {
	id = strings.TrimSpace(id)
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		return json.Number(id)
	}
	return id
}
