package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the planner.
	Registry = prometheus.NewRegistry()

	// PlanRuns counts planning runs by outcome (ok, error).
	PlanRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "planner_runs_total", Help: "Planning runs by outcome."},
		[]string{"outcome"},
	)
	// PlanDuration records end-to-end planning time in seconds.
	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "planner_run_duration_seconds", Help: "Planning run duration in seconds.", Buckets: prometheus.DefBuckets},
	)

	// OrdersAssigned counts order placements by assignment phase (manual, greedy, fallback, unassigned).
	OrdersAssigned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "planner_orders_total", Help: "Orders by assignment phase."},
		[]string{"phase"},
	)
	// IgnoredPins counts manual constraints that referenced an unknown order or vehicle.
	IgnoredPins = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "planner_ignored_pins_total", Help: "Manual constraints ignored for unknown targets."},
	)

	// SolverOutcomes counts per-vehicle solver calls by outcome (solved, no_solution, error).
	SolverOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "planner_solver_calls_total", Help: "Route solver calls by outcome."},
		[]string{"outcome"},
	)
	// SolveDuration records per-vehicle solver time in seconds.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "planner_solve_duration_seconds", Help: "Route solver duration in seconds.", Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10}},
		[]string{"outcome"},
	)
)

// RegisterDefault registers the planner collectors on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(PlanRuns)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(OrdersAssigned)
		Registry.MustRegister(IgnoredPins)
		Registry.MustRegister(SolverOutcomes)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// WriteTextfile dumps Registry in the text exposition format for the
// node_exporter textfile collector. The batch planner has no scrape endpoint.
func WriteTextfile(path string) error {
	RegisterDefault()
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile %q: %w", path, err)
	}
	return nil
}
