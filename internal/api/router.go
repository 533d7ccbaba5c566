package api

import (
	"net/http"
	"time"

	"mdvrp-planner/internal/api/handlers"
	"mdvrp-planner/internal/platform/metrics"
	"mdvrp-planner/internal/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Scenarios *services.Scenarios
	Planner   *services.Planner
	Notices   *services.NoticeBoard
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	metrics.Register()

	health := &handlers.HealthHandler{Started: time.Now()}
	scenarios := &handlers.ScenarioHandler{Scenarios: d.Scenarios}
	planning := &handlers.PlanningHandler{Scenarios: d.Scenarios, Planner: d.Planner}
	notices := &handlers.NoticeHandler{Board: d.Notices}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware, metricsMiddleware)

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc("/scenarios", scenarios.List).Methods(http.MethodGet)
	r.HandleFunc("/scenarios", scenarios.Create).Methods(http.MethodPost)
	r.HandleFunc("/scenarios/{id}", scenarios.Get).Methods(http.MethodGet)
	r.HandleFunc("/scenarios/{id}", scenarios.Rename).Methods(http.MethodPatch)
	r.HandleFunc("/scenarios/{id}", scenarios.Delete).Methods(http.MethodDelete)

	r.HandleFunc("/scenarios/{id}/customers", scenarios.AddCustomer).Methods(http.MethodPost)
	r.HandleFunc("/scenarios/{id}/customers/{entityID}", scenarios.RemoveCustomer).Methods(http.MethodDelete)
	r.HandleFunc("/scenarios/{id}/depots", scenarios.AddDepot).Methods(http.MethodPost)
	r.HandleFunc("/scenarios/{id}/depots/{entityID}", scenarios.RemoveDepot).Methods(http.MethodDelete)
	r.HandleFunc("/scenarios/{id}/vehicles", scenarios.AddVehicle).Methods(http.MethodPost)
	r.HandleFunc("/scenarios/{id}/vehicles/{entityID}", scenarios.RemoveVehicle).Methods(http.MethodDelete)

	r.HandleFunc("/scenarios/{id}/validation", planning.Validation).Methods(http.MethodGet)
	r.HandleFunc("/scenarios/{id}/cost-matrix", planning.CostMatrix).Methods(http.MethodPost)
	r.HandleFunc("/scenarios/{id}/plan", planning.Plan).Methods(http.MethodPost)
	r.HandleFunc("/scenarios/{id}/transportation", planning.Transportation).Methods(http.MethodPost)
	r.HandleFunc("/scenarios/{id}/routes/validate", planning.ValidateRoutes).Methods(http.MethodPost)

	r.HandleFunc("/notices", notices.Current).Methods(http.MethodGet)
	r.HandleFunc("/notices", notices.Dismiss).Methods(http.MethodDelete)
	r.HandleFunc("/ws/notices", notices.Stream).Methods(http.MethodGet)

	return r
}
