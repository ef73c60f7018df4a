package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RunsTotal counts completed reconciliation runs by outcome.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "choreosync_runs_total",
			Help: "Total number of reconciliation runs by outcome",
		},
		[]string{"outcome"},
	)

	// RunDuration measures full reconciliation run duration in seconds.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "choreosync_run_duration_seconds",
			Help: "Reconciliation run duration in seconds",
			// Buckets from sub-second to 10 minutes; a run walks every namespace.
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// EntityCount tracks the number of catalog entities emitted by the
	// latest run, per kind.
	EntityCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "choreosync_entities_total",
			Help: "Number of catalog entities emitted by the latest run",
		},
		[]string{"kind"},
	)

	// FetchFailures counts isolated per-kind fetch failures during runs.
	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "choreosync_fetch_failures_total",
			Help: "Total number of isolated per-kind fetch failures",
		},
		[]string{"namespace", "kind"},
	)

	// PromotionCycles counts environments excluded from promotion ordering
	// because they participate in a cycle.
	PromotionCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "choreosync_promotion_cycle_exclusions_total",
			Help: "Total number of environments excluded from promotion ordering due to cycles",
		},
		[]string{"namespace", "pipeline"},
	)
)

// registerSyncMetrics registers all reconciliation-run metrics.
func registerSyncMetrics() error {
	metrics := []prometheus.Collector{
		RunsTotal,
		RunDuration,
		EntityCount,
		FetchFailures,
		PromotionCycles,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}
