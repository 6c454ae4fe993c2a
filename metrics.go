package orbitprop

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Propagation outcomes used as the "outcome" label.
const (
	outcomeCompleted = "completed"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// Metrics bundles the Prometheus metrics of propagation runs. Each instance owns its registry so
// that it can be pushed as a batch job.
type Metrics struct {
	registry *prometheus.Registry

	Runs        *prometheus.CounterVec
	Steps       prometheus.Counter
	Evaluations prometheus.Counter
	Duration    prometheus.Histogram
	Records     prometheus.Gauge
	EnergyDrift prometheus.Gauge
}

// NewMetrics registers the propagation metrics on the provided registry, or on a new one when nil.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orbitprop_propagations_total",
			Help: "Total number of propagations, labeled by outcome.",
		}, []string{"outcome"}),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orbitprop_steps_total",
			Help: "Total number of RK4 steps taken.",
		}),
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orbitprop_evaluations_total",
			Help: "Total number of equations of motion evaluations.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orbitprop_propagation_duration_seconds",
			Help:    "Wall clock duration of propagations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbitprop_records",
			Help: "Number of records of the last successful propagation.",
		}),
		EnergyDrift: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbitprop_energy_drift",
			Help: "Absolute change of the specific mechanical energy over the last successful propagation (km^2/s^2).",
		}),
	}
	for _, c := range []prometheus.Collector{m.Runs, m.Steps, m.Evaluations, m.Duration, m.Records, m.EnergyDrift} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return m, nil
}

// Registry returns the registry holding these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push sends the metrics to the Pushgateway at url under the provided job name.
func (m *Metrics) Push(url, job string) error {
	return push.New(url, job).Gatherer(m.registry).Push()
}

// observe records a run of the provided outcome.
func (m *Metrics) observe(outcome string, duration time.Duration, steps, evals uint64) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.Steps.Add(float64(steps))
	m.Evaluations.Add(float64(evals))
	m.Duration.Observe(duration.Seconds())
}

func (m *Metrics) observeSuccess(duration time.Duration, steps, evals uint64, records int, drift float64) {
	if m == nil {
		return
	}
	m.observe(outcomeCompleted, duration, steps, evals)
	m.Records.Set(float64(records))
	m.EnergyDrift.Set(drift)
}
