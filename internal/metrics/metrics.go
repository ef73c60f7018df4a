// Package metrics provides Prometheus metrics for the choreosync daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	Registry = prometheus.NewRegistry()

	// initialized tracks whether metrics have been initialized.
	initialized = false
)

// Init initializes the metrics registry with all collectors.
// This should be called once during application startup.
func Init() error {
	if initialized {
		return nil
	}

	// Register Go runtime collectors
	if err := Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}

	if err := registerHTTPMetrics(); err != nil {
		return err
	}

	if err := registerSyncMetrics(); err != nil {
		return err
	}

	initialized = true
	return nil
}

// MustInit initializes metrics and panics on error.
// Use this for application startup where metrics are required.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}
