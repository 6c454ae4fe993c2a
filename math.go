package orbitprop

import (
	"math"

	"github.com/gonum/floats"
	"github.com/willAlbertini707/orbitprop/integrator"
)

const (
	deg2rad = math.Pi / 180
)

// Vector3 is a Cartesian 3-vector.
type Vector3 [3]float64

// RV splits a state into its position and velocity vectors.
func RV(s integrator.State) (R, V Vector3) {
	return Vector3{s[0], s[1], s[2]}, Vector3{s[3], s[4], s[5]}
}

// NewState returns the state made of the provided position and velocity.
func NewState(R, V Vector3) integrator.State {
	return integrator.State{R[0], R[1], R[2], V[0], V[1], V[2]}
}

// Norm returns the norm of a given vector.
func Norm(v Vector3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Dot performs the inner product.
func Dot(a, b Vector3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross performs the cross product.
func Cross(a, b Vector3) Vector3 {
	return Vector3{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// unit returns the unit vector of a given vector.
func unit(a Vector3) Vector3 {
	n := Norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return Vector3{}
	}
	return scale(1/n, a)
}

func add(a, b Vector3) Vector3 {
	return Vector3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b Vector3) Vector3 {
	return Vector3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scale(k float64, a Vector3) Vector3 {
	return Vector3{k * a[0], k * a[1], k * a[2]}
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Deg2rad converts degrees to radians.
func Deg2rad(a float64) float64 {
	return a * deg2rad
}

// Rad2deg converts radians to degrees.
func Rad2deg(a float64) float64 {
	return a / deg2rad
}

// mod360 returns the non-negative remainder of a by 360.
func mod360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
