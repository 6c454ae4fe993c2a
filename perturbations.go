package orbitprop

import (
	"math"
	"strconv"
	"strings"

	"github.com/willAlbertini707/orbitprop/integrator"
)

const (
	// solarPressure is the solar radiation pressure at 1 AU (N/m^2).
	solarPressure = 4.57e-6
	// dragUnits reconciles the density table with the km based drag formula.
	dragUnits = 1000.0
	// srpUnits converts the SRP acceleration from m/s^2 to km/s^2.
	srpUnits = 1000.0
	// maxJn is the highest supported zonal harmonic.
	maxJn = 6
)

// Perturbations defines which perturbing accelerations are added to the central body gravity.
// The zero value adds nothing.
type Perturbations struct {
	Drag           bool                                        // Atmospheric drag
	SolarThirdBody bool                                        // Sun as a third body
	SRP            bool                                        // Solar radiation pressure with eclipses
	Jn             uint8                                       // Zonal harmonics up to Jn (2 to 6), zero to disable
	Arbitrary      func(t float64, s integrator.State) Vector3 // Additional arbitrary perturbation.
}

// AllPerturbations returns the perturbations with every model enabled and J2 through J6.
func AllPerturbations() Perturbations {
	return Perturbations{Drag: true, SolarThirdBody: true, SRP: true, Jn: maxJn}
}

func (p Perturbations) isEmpty() bool {
	return !p.Drag && !p.SolarThirdBody && !p.SRP && p.Jn < 2 && p.Arbitrary == nil
}

func (p Perturbations) needsSun() bool {
	return p.SolarThirdBody || p.SRP
}

// String implements the Stringer interface.
func (p Perturbations) String() string {
	if p.isEmpty() {
		return "none"
	}
	var models []string
	if p.Drag {
		models = append(models, "drag")
	}
	if p.SolarThirdBody {
		models = append(models, "sun")
	}
	if p.SRP {
		models = append(models, "srp")
	}
	if p.Jn >= 2 {
		models = append(models, "J2-J"+strconv.Itoa(int(p.Jn)))
	}
	if p.Arbitrary != nil {
		models = append(models, "arbitrary")
	}
	return strings.Join(models, "+")
}

// Perturb returns the sum of the enabled perturbing accelerations at time t (seconds after InitJD)
// for the provided state.
func (p Perturbations) Perturb(t float64, s integrator.State, params PhysicalParameters) Vector3 {
	R, V := RV(s)
	return p.perturb(t, s, R, Norm(R), V, params)
}

func (p Perturbations) perturb(t float64, s integrator.State, R Vector3, rNorm float64, V Vector3, params PhysicalParameters) (pert Vector3) {
	if p.isEmpty() {
		return
	}
	if p.Drag {
		pert = add(pert, DragAcceleration(R, rNorm, V, params))
	}
	if p.needsSun() {
		rSun := SunPosition(params.InitJD + t/secondsPerDay)
		rSunNorm := Norm(rSun)
		if p.SolarThirdBody {
			pert = add(pert, SolarThirdBody(R, rSun, rSunNorm))
		}
		if p.SRP {
			pert = add(pert, SolarRadiationPressure(R, rNorm, rSun, rSunNorm, params))
		}
	}
	if p.Jn >= 2 {
		pert = add(pert, ZonalHarmonics(R, rNorm, params, p.Jn))
	}
	if p.Arbitrary != nil {
		pert = add(pert, p.Arbitrary(t, s))
	}
	return
}

// DragAcceleration returns the drag acceleration in an atmosphere rotating with the Earth.
// NOTE: The altitude is computed from the Earth equatorial radius, not from the configured body radius.
func DragAcceleration(R Vector3, rNorm float64, V Vector3, params PhysicalParameters) Vector3 {
	vRel := sub(V, Cross(Vector3{0, 0, Earth.RotationRate()}, R))
	vRelNorm := Norm(vRel)
	ρ := ExpRho(rNorm - Earth.Radius)
	return scale(vRelNorm, scale(-0.5*params.Cd*dragUnits*params.Area*ρ/params.Mass, vRel))
}

// SunPosition returns the geocentric equatorial position of the Sun (km) at the provided Julian date.
// This is the low precision ephemeris from Curtis, Orbital Mechanics for Engineering Students.
func SunPosition(jd float64) Vector3 {
	// Days since J2000
	n := jd - J2000
	// Mean anomaly (deg)
	M := mod360(357.528 + 0.9856003*n)
	// Mean longitude (deg)
	L := mod360(280.460 + 0.98564736*n)
	// Apparent ecliptic longitude (deg)
	λ := mod360(L + 1.915*math.Sin(Deg2rad(M)) + 0.020*math.Sin(Deg2rad(2*M)))
	// Obliquity of the ecliptic (deg)
	ε := 23.439 - 0.0000004*n
	sinλ, cosλ := math.Sincos(Deg2rad(λ))
	sinε, cosε := math.Sincos(Deg2rad(ε))
	r := (1.00014 - 0.01671*math.Cos(Deg2rad(M)) - 0.000140*math.Cos(Deg2rad(2*M))) * AU
	return Vector3{r * cosλ, r * sinλ * cosε, r * sinλ * sinε}
}

// SolarThirdBody returns the perturbing acceleration of the Sun on the spacecraft.
func SolarThirdBody(R, rSun Vector3, rSunNorm float64) Vector3 {
	scSun := sub(rSun, R)
	scSunNorm3 := math.Pow(Norm(scSun), 3)
	rSunNorm3 := math.Pow(rSunNorm, 3)
	return scale(Sun.GM(), sub(scale(1/scSunNorm3, scSun), scale(1/rSunNorm3, rSun)))
}

// InShadow returns whether the spacecraft is eclipsed by the central body. The test compares the
// Sun-spacecraft angle seen from the body center to the half angles subtended by the body as seen
// from the Sun and from the spacecraft.
func InShadow(R Vector3, rNorm float64, rSun Vector3, rSunNorm, bodyRadius float64) bool {
	θA := math.Acos(bodyRadius / rSunNorm)
	θB := math.Acos(bodyRadius / rNorm)
	θ := math.Acos(Dot(rSun, R) / (rNorm * rSunNorm))
	return θA+θB < θ
}

// SolarRadiationPressure returns the SRP acceleration, which is null when the spacecraft is in the shadow
// of the central body. There is no penumbra.
func SolarRadiationPressure(R Vector3, rNorm float64, rSun Vector3, rSunNorm float64, params PhysicalParameters) Vector3 {
	if InShadow(R, rNorm, rSun, rSunNorm, params.BodyRadius) {
		return Vector3{}
	}
	return scale(-solarPressure*params.Cr*params.Area/params.Mass/rNorm/srpUnits, R)
}

// ZonalHarmonics returns the acceleration from the J2 up to the Jn zonal harmonics of the Earth,
// using the configured central body μ and radius.
func ZonalHarmonics(R Vector3, rNorm float64, params PhysicalParameters, jn uint8) (acc Vector3) {
	x, y, z := R[0], R[1], R[2]
	μ := params.Mu
	Re := params.BodyRadius
	r2 := math.Pow(rNorm, 2)
	z2 := math.Pow(z, 2)
	z4 := math.Pow(z, 4)

	if jn >= 2 {
		front := -3 * Earth.J(2) * μ * math.Pow(Re, 2) / (2 * math.Pow(rNorm, 5))
		back := 5 * z2 / r2
		acc[0] += front * x * (1 - back)
		acc[1] += front * y * (1 - back)
		acc[2] += front * z * (3 - back)
	}
	if jn >= 3 {
		front := -5 * Earth.J(3) * μ * math.Pow(Re, 3) / (2 * math.Pow(rNorm, 7))
		back := 3*z - 7*math.Pow(z, 3)/r2
		acc[0] += front * x * back
		acc[1] += front * y * back
		acc[2] += front * (6*z2 - 7*z4/r2 - 3*r2/5)
	}
	if jn >= 4 {
		front := 15 * Earth.J(4) * μ * math.Pow(Re, 4) / (8 * math.Pow(rNorm, 7))
		back := 1 - 14*z2/r2 + 21*z4/math.Pow(rNorm, 4)
		acc[0] += front * x * back
		acc[1] += front * y * back
		acc[2] += front * z * (5 - 70*z2/3/r2 + 21*z4/math.Pow(rNorm, 4))
	}
	if jn >= 5 {
		front := 3 * Earth.J(5) * μ * math.Pow(Re, 5) / (8 * math.Pow(rNorm, 9))
		back := 35 - 210*z2/r2 + 231*z4/math.Pow(rNorm, 4)
		acc[0] += front * x * z * back
		acc[1] += front * y * z * back
		acc[2] += front*z*z*(105-315*z2/r2+231*z4/math.Pow(rNorm, 4)) - 15*Earth.J(5)*μ*math.Pow(Re, 5)/(8*math.Pow(rNorm, 7))
	}
	if jn >= 6 {
		front := -Earth.J(6) * μ * math.Pow(Re, 6) / (16 * math.Pow(rNorm, 9))
		back := 35 - 945*z2/r2 + 3465*z4/math.Pow(rNorm, 4) - 3003*math.Pow(z, 6)/math.Pow(rNorm, 6)
		acc[0] += front * x * back
		acc[1] += front * y * back
		acc[2] += front * z * (245 - 2205*z2/r2 + 4851*z4/math.Pow(rNorm, 4) - 3003*math.Pow(z, 6)/math.Pow(rNorm, 6))
	}
	return
}
