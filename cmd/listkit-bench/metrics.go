package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// benchMetrics holds the gauges one bench run exports. Every series carries
// the run id so textfiles from several runs can be collected side by side.
type benchMetrics struct {
	registry *prometheus.Registry
	duration *prometheus.GaugeVec
	ops      *prometheus.GaugeVec
	opsRate  *prometheus.GaugeVec
	failures *prometheus.CounterVec
}

func newBenchMetrics(runID string) *benchMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{"workload", "container"}
	constLabels := prometheus.Labels{"run_id": runID}
	return &benchMetrics{
		registry: reg,
		duration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "listkit",
			Subsystem:   "bench",
			Name:        "duration_seconds",
			Help:        "Wall time of the timed part of a workload.",
			ConstLabels: constLabels,
		}, labels),
		ops: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "listkit",
			Subsystem:   "bench",
			Name:        "operations",
			Help:        "Operations performed by a workload.",
			ConstLabels: constLabels,
		}, labels),
		opsRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "listkit",
			Subsystem:   "bench",
			Name:        "operations_per_second",
			Help:        "Operations per second achieved by a workload.",
			ConstLabels: constLabels,
		}, labels),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "listkit",
			Subsystem:   "bench",
			Name:        "failures_total",
			Help:        "Workloads that ended with an error.",
			ConstLabels: constLabels,
		}, labels),
	}
}

func (m *benchMetrics) record(r BenchResult) {
	if r.Err != nil {
		m.failures.WithLabelValues(r.Name, r.Container).Inc()
		return
	}
	m.duration.WithLabelValues(r.Name, r.Container).Set(r.Duration.Seconds())
	m.ops.WithLabelValues(r.Name, r.Container).Set(float64(r.Ops))
	if r.Ops > 0 && r.Duration > 0 {
		m.opsRate.WithLabelValues(r.Name, r.Container).Set(float64(r.Ops) / r.Duration.Seconds())
	}
}

// writeTextfile writes the registry in the node exporter textfile format.
func (m *benchMetrics) writeTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
