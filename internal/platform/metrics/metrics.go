package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route template and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)

	// CostMatrixBuilds counts matrices by where their values came from: live, cache or fallback.
	CostMatrixBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cost_matrix_builds_total", Help: "Cost matrix builds by source."},
		[]string{"source"},
	)

	// GeometryValidations counts terminal guard outcomes.
	GeometryValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_geometry_validations_total", Help: "Route geometry validations by outcome."},
		[]string{"state", "kind"},
	)

	// PlanRuns counts solve attempts by outcome.
	PlanRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_runs_total", Help: "Plan requests by outcome."},
		[]string{"outcome"},
	)
)

var regOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(CostMatrixBuilds)
		Registry.MustRegister(GeometryValidations)
		Registry.MustRegister(PlanRuns)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
