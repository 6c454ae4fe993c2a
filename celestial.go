package orbitprop

const (
	// AU is one astronomical unit in kilometers.
	AU = 149597870.691
	// J2000 is the Julian date of the J2000 epoch.
	J2000 = 2451545.0
	// secondsPerDay converts integration seconds into Julian days.
	secondsPerDay = 86400.0
)

// CelestialObject defines a celestial object.
type CelestialObject struct {
	Name   string
	Radius float64    // Equatorial radius (km)
	μ      float64    // Gravitational parameter (km^3/s^2)
	ω      float64    // Rotation rate about the polar axis (rad/s)
	jn     [7]float64 // Zonal coefficients indexed by degree
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// RotationRate returns the rotation rate of the body in radians per second.
func (c CelestialObject) RotationRate() float64 {
	return c.ω
}

// J returns the zonal J_n factor for the provided n.
// Only J2 through J6 are defined, any other degree returns zero.
func (c CelestialObject) J(n uint8) float64 {
	if n < 2 || int(n) >= len(c.jn) {
		return 0
	}
	return c.jn[n]
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 695700, 132712e6, 0, [7]float64{}}

// Earth is home. The radius is the reference used by the drag model.
var Earth = CelestialObject{"Earth", 6378, 398600.435436, 72.9211e-6,
	[7]float64{0, 0, 1.08262668355e-3, -2.53265648533e-6, -1.61962215937e-6, -2.27296082869e-7, 5.40681239107e-7}}
