package orbitprop

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// PQW2ECI converts a given vector from the perifocal frame to the inertial frame.
func PQW2ECI(i, ω, Ω float64, vI Vector3) Vector3 {
	var mulM mat64.Dense
	mulM.Mul(R3(-Ω), R1(-i))
	mulM.Mul(&mulM, R3(-ω))
	return MxV33(&mulM, vI)
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v Vector3) Vector3 {
	vVec := mat64.NewVector(3, []float64{v[0], v[1], v[2]})
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return Vector3{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}
