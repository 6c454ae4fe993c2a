package integrator

// State is the integrated vector: a position followed by a velocity.
type State [6]float64

// Integrable defines something which can be integrated.
// WARNING: Func is called four times per step, at intermediate times and states, so it must not
// keep any memory between calls.
type Integrable interface {
	Func(t float64, s State) State // ODE function from time t and state s, must return the derivative.
}
