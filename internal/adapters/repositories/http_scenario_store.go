package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mdvrp-planner/internal/adapters/wire"
	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// HTTPScenarioStore is a client for the remote persistence API.
// Every entity call carries the owning scenario id in its body.
type HTTPScenarioStore struct {
	session *http.Client
	baseURL string
}

func NewHTTPScenarioStore(baseURL string) (*HTTPScenarioStore, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("persistence base url is empty")
	}
	return &HTTPScenarioStore{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}, nil
}

func (s *HTTPScenarioStore) ListScenarios(ctx context.Context) (_ []ports.ScenarioSummary, err error) {
	defer obs.Time(ctx, "persistence.ListScenarios")(&err)

	var raw []wire.ScenarioSummary
	if err := s.doJSON(ctx, http.MethodGet, "/scenarios", nil, &raw); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}

	out := make([]ports.ScenarioSummary, 0, len(raw))
	for _, r := range raw {
		out = append(out, ports.ScenarioSummary{ID: string(r.ID), Name: r.Name, Date: r.Date})
	}
	return out, nil
}

func (s *HTTPScenarioStore) GetScenario(ctx context.Context, id string) (_ domain.Scenario, err error) {
	defer obs.Time(ctx, "persistence.GetScenario")(&err)

	body := map[string]any{"scenario_id": wire.Ref(id)}
	var raw wire.ScenarioEntities
	if err := s.doJSON(ctx, http.MethodPost, "/scenarios_by_id", body, &raw); err != nil {
		return domain.Scenario{}, fmt.Errorf("get scenario %s: %w", id, err)
	}

	sc := domain.Scenario{ID: id}
	if raw.Scenario != nil {
		sc.Name = raw.Scenario.Name
		sc.Date = raw.Scenario.Date
	}
	for _, c := range raw.Customers {
		sc.Customers = append(sc.Customers, c.ToDomain())
	}
	for _, d := range raw.Depots {
		sc.Depots = append(sc.Depots, d.ToDomain())
	}
	for _, v := range raw.Vehicles {
		sc.Vehicles = append(sc.Vehicles, v.ToDomain())
	}
	return sc, nil
}

func (s *HTTPScenarioStore) CreateScenario(ctx context.Context, sc domain.Scenario) (_ domain.Scenario, err error) {
	defer obs.Time(ctx, "persistence.CreateScenario")(&err)

	body := wire.FullScenario{
		Name:      sc.Name,
		Date:      sc.Date,
		Customers: wire.Customers(sc.Customers),
		Depots:    wire.Depots(sc.Depots),
		Vehicles:  wire.Vehicles(sc.Vehicles),
	}

	var raw struct {
		Scenario wire.ScenarioSummary `json:"scenario"`
	}
	if err := s.doJSON(ctx, http.MethodPost, "/scenarios/full", body, &raw); err != nil {
		return domain.Scenario{}, fmt.Errorf("create scenario: %w", err)
	}
	if raw.Scenario.ID == "" {
		return domain.Scenario{}, errors.New("create scenario: response carries no scenario id")
	}

	out := sc.Clone()
	out.ID = string(raw.Scenario.ID)
	if raw.Scenario.Name != "" {
		out.Name = raw.Scenario.Name
	}
	if raw.Scenario.Date != "" {
		out.Date = raw.Scenario.Date
	}
	return out, nil
}

func (s *HTTPScenarioStore) RenameScenario(ctx context.Context, id, name string) error {
	body := map[string]any{"scenario_id": wire.Ref(id), "new_name": name}
	if err := s.doStatus(ctx, http.MethodPatch, "/scenarios", body); err != nil {
		return fmt.Errorf("rename scenario %s: %w", id, err)
	}
	return nil
}

func (s *HTTPScenarioStore) DeleteScenario(ctx context.Context, id string) error {
	body := map[string]any{"scenario_id": wire.Ref(id)}
	if err := s.doStatus(ctx, http.MethodDelete, "/scenarios", body); err != nil {
		return fmt.Errorf("delete scenario %s: %w", id, err)
	}
	return nil
}

func (s *HTTPScenarioStore) AddCustomer(ctx context.Context, scenarioID string, c domain.Customer) (domain.Customer, error) {
	body := struct {
		wire.Customer
		ScenarioID any `json:"scenario_id"`
	}{wire.FromCustomer(c), wire.Ref(scenarioID)}

	var out wire.Customer
	if err := s.doJSON(ctx, http.MethodPost, "/customers", body, &out); err != nil {
		return domain.Customer{}, fmt.Errorf("add customer: %w", err)
	}
	return out.ToDomain(), nil
}

func (s *HTTPScenarioStore) RemoveCustomer(ctx context.Context, scenarioID, customerID string) error {
	body := map[string]any{"scenario_id": wire.Ref(scenarioID), "customer_id": wire.Ref(customerID)}
	if err := s.doStatus(ctx, http.MethodDelete, "/customers", body); err != nil {
		return fmt.Errorf("remove customer %s: %w", customerID, err)
	}
	return nil
}

func (s *HTTPScenarioStore) AddDepot(ctx context.Context, scenarioID string, d domain.Depot) (domain.Depot, error) {
	body := struct {
		wire.Depot
		ScenarioID any `json:"scenario_id"`
	}{wire.FromDepot(d), wire.Ref(scenarioID)}

	var out wire.Depot
	if err := s.doJSON(ctx, http.MethodPost, "/depots", body, &out); err != nil {
		return domain.Depot{}, fmt.Errorf("add depot: %w", err)
	}
	return out.ToDomain(), nil
}

func (s *HTTPScenarioStore) RemoveDepot(ctx context.Context, scenarioID, depotID string) error {
	body := map[string]any{"scenario_id": wire.Ref(scenarioID), "depot_id": wire.Ref(depotID)}
	if err := s.doStatus(ctx, http.MethodDelete, "/depots", body); err != nil {
		return fmt.Errorf("remove depot %s: %w", depotID, err)
	}
	return nil
}

// AddVehicle posts one vehicle. The API answers with an array of the
// vehicles it created; the first one is returned.
func (s *HTTPScenarioStore) AddVehicle(ctx context.Context, scenarioID string, v domain.Vehicle) (domain.Vehicle, error) {
	body := struct {
		wire.Vehicle
		ScenarioID any `json:"scenario_id"`
	}{wire.FromVehicle(v), wire.Ref(scenarioID)}

	var out []wire.Vehicle
	if err := s.doJSON(ctx, http.MethodPost, "/vehicles", body, &out); err != nil {
		return domain.Vehicle{}, fmt.Errorf("add vehicle: %w", err)
	}
	if len(out) == 0 {
		return domain.Vehicle{}, errors.New("add vehicle: empty response")
	}
	return out[0].ToDomain(), nil
}

func (s *HTTPScenarioStore) RemoveVehicle(ctx context.Context, scenarioID, vehicleID string) error {
	body := map[string]any{"scenario_id": wire.Ref(scenarioID), "vehicle_id": wire.Ref(vehicleID)}
	if err := s.doStatus(ctx, http.MethodDelete, "/vehicles", body); err != nil {
		return fmt.Errorf("remove vehicle %s: %w", vehicleID, err)
	}
	return nil
}

func (s *HTTPScenarioStore) doStatus(ctx context.Context, method, path string, body any) error {
	var st wire.Status
	if err := s.doJSON(ctx, method, path, body, &st); err != nil {
		return err
	}
	if !st.OK() {
		if st.Error != "" {
			return fmt.Errorf("status %q: %s", st.Status, st.Error)
		}
		return fmt.Errorf("status %q", st.Status)
	}
	return nil
}

func (s *HTTPScenarioStore) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.session.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
