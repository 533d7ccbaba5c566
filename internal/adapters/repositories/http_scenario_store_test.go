package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Body   map[string]any
}

func newTestStore(t *testing.T, routes map[string]string) (*HTTPScenarioStore, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		calls = append(calls, rec)

		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	s, err := NewHTTPScenarioStore(srv.URL + "/")
	require.NoError(t, err)
	return s, &calls
}

func TestHTTPStoreGetScenarioDecodesEntities(t *testing.T) {
	s, calls := newTestStore(t, map[string]string{
		"POST /scenarios_by_id": `{
			"customers":[{"id":1,"customer_name":"Cust 1","customer_x":54.4,"customer_y":18.5,"demand":10}],
			"depots":[{"id":"2","depot_name":"Depot A","depot_x":54.3,"depot_y":18.6,"capacity":100,"type":"main"}],
			"vehicles":[{"id":3,"capacity":40,"depot_id":2}]
		}`,
	})

	sc, err := s.GetScenario(context.Background(), "7")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, float64(7), (*calls)[0].Body["scenario_id"])

	assert.Equal(t, "7", sc.ID)
	require.Len(t, sc.Customers, 1)
	assert.Equal(t, domain.Customer{ID: "1", Name: "Cust 1", Location: domain.Coordinates{Lat: 54.4, Lon: 18.5}, Demand: 10}, sc.Customers[0])
	require.Len(t, sc.Depots, 1)
	assert.Equal(t, "Depot A", sc.Depots[0].Name)
	require.Len(t, sc.Vehicles, 1)
	assert.Equal(t, "2", sc.Vehicles[0].DepotID)
}

func TestHTTPStoreCreateAndList(t *testing.T) {
	s, calls := newTestStore(t, map[string]string{
		"POST /scenarios/full": `{"scenario":{"id":11,"name":"Week 1","date":"2025-06-02"}}`,
		"GET /scenarios":       `[{"id":11,"name":"Week 1","date":"2025-06-02"}]`,
	})
	ctx := context.Background()

	sc, err := s.CreateScenario(ctx, domain.Scenario{
		Name:      "Week 1",
		Customers: []domain.Customer{{Name: "C", Location: domain.Coordinates{Lat: 1, Lon: 2}, Demand: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "11", sc.ID)
	assert.Equal(t, "2025-06-02", sc.Date)
	require.Len(t, sc.Customers, 1)

	body := (*calls)[0].Body
	assert.Equal(t, "Week 1", body["name"])
	customers, ok := body["customers"].([]any)
	require.True(t, ok)
	require.Len(t, customers, 1)
	assert.Equal(t, 1.0, customers[0].(map[string]any)["customer_x"])

	list, err := s.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ports.ScenarioSummary{{ID: "11", Name: "Week 1", Date: "2025-06-02"}}, list)
}

func TestHTTPStoreStatusEnvelope(t *testing.T) {
	s, calls := newTestStore(t, map[string]string{
		"PATCH /scenarios":  `{"status":"success"}`,
		"DELETE /scenarios": `{"status":"error","error":"locked"}`,
		"DELETE /customers": `{"status":"success"}`,
		"DELETE /vehicles":  `{"status":"success"}`,
		"DELETE /depots":    `{"status":"success"}`,
	})
	ctx := context.Background()

	require.NoError(t, s.RenameScenario(ctx, "5", "renamed"))
	assert.Equal(t, "renamed", (*calls)[0].Body["new_name"])

	err := s.DeleteScenario(ctx, "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")

	require.NoError(t, s.RemoveCustomer(ctx, "5", "c-1"))
	assert.Equal(t, "c-1", (*calls)[2].Body["customer_id"])
	require.NoError(t, s.RemoveVehicle(ctx, "5", "9"))
	assert.Equal(t, float64(9), (*calls)[3].Body["vehicle_id"])
	require.NoError(t, s.RemoveDepot(ctx, "5", "4"))
}

func TestHTTPStoreAddEntities(t *testing.T) {
	s, calls := newTestStore(t, map[string]string{
		"POST /customers": `{"id":21,"customer_name":"C","customer_x":1,"customer_y":2,"demand":3}`,
		"POST /depots":    `{"id":22,"depot_name":"D","depot_x":1,"depot_y":2,"capacity":30}`,
		"POST /vehicles":  `[{"id":23,"capacity":15,"depot_id":22}]`,
	})
	ctx := context.Background()

	c, err := s.AddCustomer(ctx, "5", domain.Customer{Name: "C", Location: domain.Coordinates{Lat: 1, Lon: 2}, Demand: 3})
	require.NoError(t, err)
	assert.Equal(t, "21", c.ID)
	assert.Equal(t, float64(5), (*calls)[0].Body["scenario_id"])
	assert.Equal(t, "C", (*calls)[0].Body["customer_name"])

	d, err := s.AddDepot(ctx, "5", domain.Depot{Name: "D", Capacity: 30})
	require.NoError(t, err)
	assert.Equal(t, "22", d.ID)

	v, err := s.AddVehicle(ctx, "5", domain.Vehicle{Capacity: 15, DepotID: "22"})
	require.NoError(t, err)
	assert.Equal(t, domain.Vehicle{ID: "23", Capacity: 15, DepotID: "22"}, v)
}

func TestHTTPStoreNotFound(t *testing.T) {
	s, _ := newTestStore(t, map[string]string{})
	_, err := s.GetScenario(context.Background(), "1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestHTTPStoreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	s, err := NewHTTPScenarioStore(srv.URL)
	require.NoError(t, err)

	_, err = s.ListScenarios(context.Background())
	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Equal(t, "db down", he.Body)
}
