package orbitprop

import (
	"fmt"
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/willAlbertini707/orbitprop/integrator"
)

// Option configures a Propagator.
type Option func(*Propagator)

// WithLogger sets the logger of the propagator. Nothing is logged by default.
func WithLogger(logger kitlog.Logger) Option {
	return func(p *Propagator) {
		p.logger = logger
	}
}

// WithMetrics records the outcome of every propagation in the provided metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Propagator) {
		p.metrics = m
	}
}

// WithPerturbations selects the perturbing accelerations applied when the physical parameters
// enable perturbations. Defaults to AllPerturbations.
func WithPerturbations(perts Perturbations) Option {
	return func(p *Propagator) {
		p.perts = perts
	}
}

// WithMaxSteps caps the number of RK4 steps of a propagation. Zero removes the cap.
func WithMaxSteps(steps uint64) Option {
	return func(p *Propagator) {
		p.maxSteps = steps
	}
}

// Propagator propagates an initial Cartesian state with a fixed step RK4 and keeps the resulting
// time series. A Propagator is not safe for concurrent use; independent propagators are.
type Propagator struct {
	initial  integrator.State
	params   PhysicalParameters
	perts    Perturbations
	maxSteps uint64
	logger   kitlog.Logger
	metrics  *Metrics
	series   *TimeSeries
}

// NewPropagator returns a propagator of the initial state (km and km/s) with these physical parameters.
func NewPropagator(initial integrator.State, params PhysicalParameters, opts ...Option) (*Propagator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for i, v := range initial {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: initial state component %d is not finite", ErrConfiguration, i)
		}
	}
	p := &Propagator{
		initial:  initial,
		params:   params,
		perts:    AllPerturbations(),
		maxSteps: integrator.DefaultMaxSteps,
		logger:   kitlog.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Propagate integrates the equations of motion from t0 to tf (seconds after InitJD) with a step of dx seconds.
// On success, the time series replaces any previous result. On failure, no result is kept.
func (p *Propagator) Propagate(t0, tf, dx float64) error {
	p.series = nil
	start := time.Now()
	if math.IsNaN(t0) || math.IsInf(t0, 0) || math.IsNaN(tf) || math.IsInf(tf, 0) {
		return p.reject(start, fmt.Errorf("%w: time bounds [%g, %g] are not finite", ErrConfiguration, t0, tf))
	}
	if tf < t0 {
		return p.reject(start, fmt.Errorf("%w: final time %g is before initial time %g", ErrConfiguration, tf, t0))
	}

	eom := NewEquationsOfMotion(p.params, p.perts)
	rk := integrator.NewRK4(t0, p.initial, tf, dx, eom)
	rk.MaxSteps = p.maxSteps
	R, V := RV(p.initial)
	p.logger.Log("level", "info", "subsys", "prop", "status", "started", "t0", t0, "tf", tf, "step", dx, "perturbations", eom.Perturbations(), "orbit", NewOrbitFromRV(R, V, p.params.Mu))

	times, states, err := rk.Solve()
	duration := time.Since(start)
	if err != nil {
		p.logger.Log("level", "error", "subsys", "prop", "status", rk.Status(), "steps", rk.Iterations(), "duration", duration, "err", err)
		p.metrics.observe(outcomeFailed, duration, rk.Iterations(), rk.Evaluations())
		return fmt.Errorf("%w: %w", ErrIntegration, err)
	}

	series := newTimeSeries(times, states)
	drift := series.EnergyDrift(p.params.Mu)
	tLast, sLast := series.Last()
	R, V = RV(sLast)
	final := NewOrbitFromRV(R, V, p.params.Mu)
	p.logger.Log("level", "notice", "subsys", "prop", "status", rk.Status(), "t", tLast, "records", series.Len(), "steps", rk.Iterations(), "duration", duration, "ξdrift(km²/s²)", drift, "orbit", final, "rP", final.Periapsis(), "rA", final.Apoapsis())
	if Norm(R) < p.params.BodyRadius {
		p.logger.Log("level", "warning", "subsys", "prop", "message", "final position below the surface", "r", Norm(R))
	}
	p.metrics.observeSuccess(duration, rk.Iterations(), rk.Evaluations(), series.Len(), drift)
	p.series = series
	return nil
}

func (p *Propagator) reject(start time.Time, err error) error {
	p.logger.Log("level", "error", "subsys", "prop", "status", "rejected", "err", err)
	p.metrics.observe(outcomeRejected, time.Since(start), 0, 0)
	return err
}

// TimeSeries returns the result of the last successful propagation.
func (p *Propagator) TimeSeries() (*TimeSeries, error) {
	if p.series == nil {
		return nil, ErrNotPropagated
	}
	return p.series, nil
}
