package integrator

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultMaxSteps is the default hard limit on the number of steps of a single Solve.
	DefaultMaxSteps = 50000000
	// snapε is the fraction of a step under which the last step is merged into the final time.
	snapε = 1e-9
	// maxPrealloc caps the initial capacity of the output slices.
	maxPrealloc = 1 << 20
)

var (
	// ErrInvalidStep is returned when the step size is not a finite positive number.
	ErrInvalidStep = errors.New("step size must be finite and positive")
	// ErrInvalidInterval is returned when the integration bounds are not finite or go backwards.
	ErrInvalidInterval = errors.New("integration interval must be finite and increasing")
	// ErrStalled is returned when a step no longer advances the independent variable.
	ErrStalled = errors.New("step does not advance time")
	// ErrMaxSteps is returned when the step limit is reached before the final time.
	ErrMaxSteps = errors.New("maximum number of steps reached")
)

// Status is the state of an RK4 integration.
type Status uint8

const (
	// Initialized is the status of a freshly created integrator.
	Initialized Status = iota + 1
	// Running is the status while Solve is stepping.
	Running
	// Completed is the status after reaching the final time.
	Completed
	// Failed is the status after an integration error.
	Failed
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	panic("cannot stringify unknown integrator status")
}

// RK4 defines a fixed step classical Runge-Kutta integrator.
type RK4 struct {
	X0, Xf     float64    // The initial and final x.
	Y0         State      // The initial state.
	StepSize   float64    // The step size.
	MaxSteps   uint64     // Hard limit on the number of steps, zero means no limit.
	Integrator Integrable // What is to be integrated.
	status     Status
	iterations uint64
	evals      uint64
}

// NewRK4 returns a new RK4 integrator instance.
// The bounds and step size are only checked by Solve.
func NewRK4(x0 float64, y0 State, xf, stepSize float64, inte Integrable) *RK4 {
	if inte == nil {
		panic("config Integrator may not be nil")
	}
	return &RK4{X0: x0, Xf: xf, Y0: y0, StepSize: stepSize, MaxSteps: DefaultMaxSteps, Integrator: inte, status: Initialized}
}

// Status returns the current status of the integration.
func (r *RK4) Status() Status {
	return r.status
}

// Iterations returns the number of steps performed so far.
func (r *RK4) Iterations() uint64 {
	return r.iterations
}

// Evaluations returns the number of calls to the Integrable's Func.
func (r *RK4) Evaluations() uint64 {
	return r.evals
}

// Solve integrates from X0 to Xf and returns every time and state, initial and final points included.
// The last step is shortened to land exactly on Xf. On error, no partial history is returned.
func (r *RK4) Solve() ([]float64, []State, error) {
	if r.status != Initialized {
		return nil, nil, fmt.Errorf("cannot solve an integrator which is %s", r.status)
	}
	r.status = Running
	if err := r.validate(); err != nil {
		return r.fail(err)
	}

	capacity := 1
	if r.Xf > r.X0 {
		if est := math.Ceil((r.Xf - r.X0) / r.StepSize); est < maxPrealloc {
			capacity += int(est)
		} else {
			capacity = maxPrealloc
		}
	}
	xs := make([]float64, 1, capacity)
	ys := make([]State, 1, capacity)
	xs[0] = r.X0
	ys[0] = r.Y0

	xi, yi := r.X0, r.Y0
	for k := uint64(1); xi < r.Xf; k++ {
		if r.MaxSteps > 0 && k > r.MaxSteps {
			return r.fail(fmt.Errorf("%w: %d steps without reaching x=%g (x=%g)", ErrMaxSteps, r.MaxSteps, r.Xf, xi))
		}
		// Computing x from the step count avoids accumulating rounding errors.
		next := r.X0 + float64(k)*r.StepSize
		if next >= r.Xf || r.Xf-next <= snapε*r.StepSize {
			next = r.Xf
		}
		h := next - xi
		if h <= 0 {
			return r.fail(fmt.Errorf("%w: x=%g, step=%g", ErrStalled, xi, r.StepSize))
		}
		yi = r.step(xi, h, yi)
		xi = next
		xs = append(xs, xi)
		ys = append(ys, yi)
		r.iterations++
	}
	r.status = Completed
	return xs, ys, nil
}

func (r *RK4) validate() error {
	if math.IsNaN(r.X0) || math.IsInf(r.X0, 0) || math.IsNaN(r.Xf) || math.IsInf(r.Xf, 0) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, r.X0, r.Xf)
	}
	if r.Xf < r.X0 {
		return fmt.Errorf("%w: final %g before initial %g", ErrInvalidInterval, r.Xf, r.X0)
	}
	if r.X0 == r.Xf {
		// Nothing to integrate, whatever the step.
		return nil
	}
	if !(r.StepSize > 0) || math.IsInf(r.StepSize, 1) {
		return fmt.Errorf("%w: %g", ErrInvalidStep, r.StepSize)
	}
	return nil
}

func (r *RK4) fail(err error) ([]float64, []State, error) {
	r.status = Failed
	return nil, nil, err
}

// step performs one RK4 step of size h from (x, y).
func (r *RK4) step(x, h float64, y State) (next State) {
	const (
		half     = 1 / 2.0
		oneSixth = 1 / 6.0
		oneThird = 1 / 3.0
	)
	var k1, k2, k3, k4, tState State
	halfStep := h * half

	for i, dy := range r.Integrator.Func(x, y) {
		k1[i] = dy * h
		tState[i] = y[i] + k1[i]*half
	}
	for i, dy := range r.Integrator.Func(x+halfStep, tState) {
		k2[i] = dy * h
		tState[i] = y[i] + k2[i]*half
	}
	for i, dy := range r.Integrator.Func(x+halfStep, tState) {
		k3[i] = dy * h
		tState[i] = y[i] + k3[i]
	}
	for i, dy := range r.Integrator.Func(x+h, tState) {
		k4[i] = dy * h
		next[i] = y[i] + oneSixth*(k1[i]+k4[i]) + oneThird*(k2[i]+k3[i])
	}
	r.evals += 4
	return
}
