package orbitprop

import (
	"fmt"
	"math"

	"github.com/willAlbertini707/orbitprop/integrator"
)

// PhysicalParameters defines the central body and spacecraft parameters of a propagation.
type PhysicalParameters struct {
	Mu            float64 // Central body gravitational parameter (km^3/s^2)
	Area          float64 // Cross sectional area (m^2)
	Cd            float64 // Drag coefficient
	Mass          float64 // Spacecraft mass (kg)
	BodyRadius    float64 // Central body radius (km)
	Cr            float64 // Reflectivity coefficient
	InitJD        float64 // Julian date at t = 0
	Perturbations bool    // Whether to add the perturbing accelerations to the central body gravity
}

// Validate returns an error if any parameter cannot be used in the equations of motion.
func (p PhysicalParameters) Validate() error {
	for _, field := range []struct {
		name string
		val  float64
	}{{"mu", p.Mu}, {"area", p.Area}, {"cd", p.Cd}, {"mass", p.Mass}, {"body_radius", p.BodyRadius}, {"cr", p.Cr}, {"init_jd", p.InitJD}} {
		if math.IsNaN(field.val) || math.IsInf(field.val, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrConfiguration, field.name)
		}
	}
	if p.Mu <= 0 {
		return fmt.Errorf("%w: mu must be positive (got %g)", ErrConfiguration, p.Mu)
	}
	if p.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive (got %g)", ErrConfiguration, p.Mass)
	}
	return nil
}

// EquationsOfMotion computes the derivative of a Cartesian state: central body gravity plus
// the enabled perturbations. It implements integrator.Integrable and keeps no state between calls.
type EquationsOfMotion struct {
	params PhysicalParameters
	perts  Perturbations
}

// NewEquationsOfMotion returns the equations of motion for these parameters. The perturbations
// are only accounted for when params.Perturbations is set.
func NewEquationsOfMotion(params PhysicalParameters, perts Perturbations) EquationsOfMotion {
	if !params.Perturbations {
		perts = Perturbations{}
	}
	return EquationsOfMotion{params, perts}
}

// Perturbations returns the perturbations which are actually applied.
func (e EquationsOfMotion) Perturbations() Perturbations {
	return e.perts
}

// Func implements the integrator.Integrable interface.
func (e EquationsOfMotion) Func(t float64, s integrator.State) (fDot integrator.State) {
	R, V := RV(s)
	rNorm := Norm(R)
	acc := scale(-e.params.Mu/math.Pow(rNorm, 3), R)
	if e.params.Perturbations {
		acc = add(acc, e.perts.perturb(t, s, R, rNorm, V, e.params))
	}
	// d\vec{R}/dt
	fDot[0] = s[3]
	fDot[1] = s[4]
	fDot[2] = s[5]
	// d\vec{V}/dt
	fDot[3] = acc[0]
	fDot[4] = acc[1]
	fDot[5] = acc[2]
	return
}
