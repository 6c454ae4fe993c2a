package orbitprop

import (
	"math"

	"github.com/gonum/matrix/mat64"
	"github.com/willAlbertini707/orbitprop/integrator"
)

// TimeSeries is the immutable result of a successful propagation: one state per time, in
// increasing time order, starting with the initial state.
type TimeSeries struct {
	times  []float64
	states []integrator.State
}

func newTimeSeries(times []float64, states []integrator.State) *TimeSeries {
	if len(times) != len(states) {
		panic("times and states differ in length")
	}
	return &TimeSeries{times, states}
}

// Len returns the number of records.
func (ts *TimeSeries) Len() int {
	return len(ts.times)
}

// At returns the time and state of the i-th record.
func (ts *TimeSeries) At(i int) (float64, integrator.State) {
	return ts.times[i], ts.states[i]
}

// Last returns the final record.
func (ts *TimeSeries) Last() (float64, integrator.State) {
	return ts.At(ts.Len() - 1)
}

// Times returns a copy of the record times.
func (ts *TimeSeries) Times() []float64 {
	return append([]float64(nil), ts.times...)
}

// States returns a copy of the record states.
func (ts *TimeSeries) States() []integrator.State {
	return append([]integrator.State(nil), ts.states...)
}

// Dense returns the series as a Len()x7 matrix of rows [t, rx, ry, rz, vx, vy, vz].
func (ts *TimeSeries) Dense() *mat64.Dense {
	data := make([]float64, 0, 7*ts.Len())
	for i, t := range ts.times {
		data = append(data, t)
		data = append(data, ts.states[i][:]...)
	}
	return mat64.NewDense(ts.Len(), 7, data)
}

// EnergyDrift returns the largest absolute change of the specific mechanical energy from the
// initial record over the series.
func (ts *TimeSeries) EnergyDrift(μ float64) (drift float64) {
	ξ0 := Energyξ(ts.states[0], μ)
	for _, s := range ts.states[1:] {
		drift = math.Max(drift, math.Abs(Energyξ(s, μ)-ξ0))
	}
	return
}
