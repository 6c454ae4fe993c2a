package orbitprop

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/willAlbertini707/orbitprop/integrator"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
)

// Orbit defines an orbit via its classical orbital elements about a body of gravitational parameter μ.
// Angles are stored in radians.
type Orbit struct {
	a, e, i, Ω, ω, ν float64
	μ                float64
}

// Energyξ returns the specific mechanical energy of a Cartesian state.
func Energyξ(s integrator.State, μ float64) float64 {
	R, V := RV(s)
	v := Norm(V)
	return v*v/2 - μ/Norm(R)
}

// Energyξ returns the specific mechanical energy ξ.
func (o Orbit) Energyξ() float64 {
	return -o.μ / (2 * o.a)
}

// Tildeω returns the longitude of periapsis.
func (o Orbit) Tildeω() float64 {
	return math.Mod(o.ω+o.Ω, 2*math.Pi)
}

// TrueLongλ returns the *approximate* true longitude (cf. Vallado page 103).
func (o Orbit) TrueLongλ() float64 {
	return math.Mod(o.ω+o.Ω+o.ν, 2*math.Pi)
}

// ArgLatitudeU returns the argument of latitude.
func (o Orbit) ArgLatitudeU() float64 {
	return math.Mod(o.ν+o.ω, 2*math.Pi)
}

// SemiParameter returns the semi parameter.
func (o Orbit) SemiParameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// Apoapsis returns the apoapsis radius.
func (o Orbit) Apoapsis() float64 {
	return o.a * (1 + o.e)
}

// Periapsis returns the periapsis radius.
func (o Orbit) Periapsis() float64 {
	return o.a * (1 - o.e)
}

// Period returns the period of this orbit in seconds, or NaN if the orbit is not closed.
func (o Orbit) Period() float64 {
	if o.a <= 0 {
		return math.NaN()
	}
	return 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.μ)
}

// Elements returns the semi-major axis (km) and the angles in degrees.
func (o Orbit) Elements() (a, e, i, Ω, ω, ν float64) {
	return o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.ν)
}

// RV returns the inertial position and velocity vectors.
func (o Orbit) RV() (R, V Vector3) {
	p := o.SemiParameter()
	sinν, cosν := math.Sincos(o.ν)
	R = Vector3{p * cosν / (1 + o.e*cosν), p * sinν / (1 + o.e*cosν), 0}
	V = Vector3{-math.Sqrt(o.μ/p) * sinν, math.Sqrt(o.μ/p) * (o.e + cosν), 0}
	return PQW2ECI(o.i, o.ω, o.Ω, R), PQW2ECI(o.i, o.ω, o.Ω, V)
}

// State returns the Cartesian state of this orbit.
func (o Orbit) State() integrator.State {
	return NewState(o.RV())
}

// String implements the stringer interface (hence the value receiver)
func (o Orbit) String() string {
	if o.e < eccentricityε {
		if o.i > angleε {
			return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f u=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ArgLatitudeU()))
		}
		return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f λ=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.TrueLongλ()))
	}
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.ν))
}

// Equals returns whether two orbits are identical with free true anomaly.
func (o Orbit) Equals(o1 Orbit) (bool, error) {
	if !floats.EqualWithinRel(o.μ, o1.μ, 1e-12) {
		return false, errors.New("different gravitational parameter")
	}
	if !floats.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, errors.New("inclination invalid")
	}
	if o.i > angleε && !floats.EqualWithinAbs(o.Ω, o1.Ω, angleε) {
		return false, errors.New("RAAN invalid")
	}
	if o.e > eccentricityε && !floats.EqualWithinAbs(o.ω, o1.ω, angleε) {
		return false, errors.New("argument of perigee invalid")
	}
	return true, nil
}

// NewOrbitFromOE creates an orbit from the orbital elements.
// WARNING: Angles must be in degrees not radian.
func NewOrbitFromOE(a, e, i, Ω, ω, ν, μ float64) Orbit {
	return Orbit{a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), Deg2rad(ν), μ}
}

// NewOrbitFromRV returns the orbital elements from the R and V vectors.
// For circular orbits, ω is zero and ν holds the argument of latitude (or the true longitude if
// the orbit is also equatorial). For equatorial orbits, Ω is zero and ω holds the longitude of periapsis.
func NewOrbitFromRV(R, V Vector3, μ float64) Orbit {
	// From Vallado's RV2COE, page 113
	hVec := Cross(R, V)
	n := Cross(Vector3{0, 0, 1}, hVec)
	v := Norm(V)
	r := Norm(R)
	ξ := (v*v)/2 - μ/r
	a := -μ / (2 * ξ)
	eVec := sub(scale(v*v-μ/r, R), scale(Dot(R, V), V))
	eVec = scale(1/μ, eVec)
	e := Norm(eVec)
	i := math.Acos(hVec[2] / Norm(hVec))

	var Ω, ω, ν float64
	equatorial := Norm(n) < 1e-12 || i < angleε || math.Pi-i < angleε
	if !equatorial {
		Ω = acosClamped(n[0] / Norm(n))
		if n[1] < 0 {
			Ω = 2*math.Pi - Ω
		}
	}
	switch {
	case e < eccentricityε && equatorial:
		// True longitude
		ν = acosClamped(R[0] / r)
		if R[1] < 0 {
			ν = 2*math.Pi - ν
		}
	case e < eccentricityε:
		// Argument of latitude
		ν = acosClamped(Dot(n, R) / (Norm(n) * r))
		if R[2] < 0 {
			ν = 2*math.Pi - ν
		}
	default:
		if equatorial {
			// Longitude of periapsis
			ω = acosClamped(eVec[0] / e)
			if eVec[1] < 0 {
				ω = 2*math.Pi - ω
			}
		} else {
			ω = acosClamped(Dot(n, eVec) / (Norm(n) * e))
			if eVec[2] < 0 {
				ω = 2*math.Pi - ω
			}
		}
		ν = acosClamped(Dot(eVec, R) / (e * r))
		if Dot(R, V) < 0 {
			ν = 2*math.Pi - ν
		}
	}
	return Orbit{a, e, math.Mod(i, 2*math.Pi), math.Mod(Ω, 2*math.Pi), math.Mod(ω, 2*math.Pi), math.Mod(ν, 2*math.Pi), μ}
}

// acosClamped avoids the NaN of math.Acos when rounding errors push the cosine past one.
func acosClamped(c float64) float64 {
	if abs := math.Abs(c); abs > 1 && floats.EqualWithinAbs(abs, 1, 1e-12) {
		c = sign(c)
	}
	return math.Acos(c)
}
