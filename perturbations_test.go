package orbitprop

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/willAlbertini707/orbitprop/integrator"
)

var testParams = PhysicalParameters{Mu: μEarth, Area: 1, Cd: 2.2, Mass: 100, BodyRadius: 6378, Cr: 1.5, InitJD: J2000, Perturbations: true}

func TestPertArbitrary(t *testing.T) {
	s := integrator.State{6524.834, 6862.875, 6448.296, 4.901327, 5.533756, -1.976341}
	pertForce := Vector3{1, 2, 3}
	var gotT float64
	perts := Perturbations{Arbitrary: func(t float64, s integrator.State) Vector3 {
		gotT = t
		return pertForce
	}}
	if pert := perts.Perturb(42, s, testParams); pert != pertForce {
		t.Fatalf("arbitrary pertubations fail: %v", pert)
	}
	if gotT != 42 {
		t.Fatalf("arbitrary perturbation called at t=%f", gotT)
	}
	if pert := (Perturbations{}).Perturb(42, s, testParams); pert != (Vector3{}) {
		t.Fatalf("no perturbation should be null: %v", pert)
	}
}

func TestPertString(t *testing.T) {
	for _, test := range []struct {
		perts Perturbations
		exp   string
	}{
		{Perturbations{}, "none"},
		{Perturbations{Jn: 1}, "none"},
		{AllPerturbations(), "drag+sun+srp+J2-J6"},
		{Perturbations{SRP: true, Jn: 3}, "srp+J2-J3"},
		{Perturbations{Arbitrary: func(float64, integrator.State) Vector3 { return Vector3{} }}, "arbitrary"},
	} {
		if got := test.perts.String(); got != test.exp {
			t.Fatalf("got %s instead of %s", got, test.exp)
		}
	}
}

func TestPertDrag(t *testing.T) {
	R := Vector3{7000, 0, 0}
	V := Vector3{0, 7.5, 0}
	acc := DragAcceleration(R, Norm(R), V, testParams)
	// The atmosphere co-rotates with the Earth, so the relative velocity is smaller than the inertial one.
	vRel := 7.5 - 7000*72.9211e-6
	exp := 0.5 * testParams.Cd * 1000 * testParams.Area * ExpRho(622) / testParams.Mass * vRel * vRel
	if acc[0] != 0 || acc[2] != 0 {
		t.Fatalf("drag should only oppose the relative velocity: %v", acc)
	}
	if !floats.EqualWithinRel(acc[1], -exp, 1e-12) {
		t.Fatalf("drag=%e instead of %e", acc[1], -exp)
	}
	// Drag does not depend on the configured body radius.
	params := testParams
	params.BodyRadius = 3389
	if DragAcceleration(R, Norm(R), V, params) != acc {
		t.Fatal("drag altitude depends on the body radius")
	}
}

func TestPertSunPosition(t *testing.T) {
	for _, dt := range []time.Time{
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2013, 3, 20, 11, 2, 0, 0, time.UTC),
		time.Date(2017, 8, 21, 18, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 21, 9, 20, 0, 0, time.UTC),
	} {
		jd := julian.TimeToJD(dt)
		rSun := SunPosition(jd)
		if d := Norm(rSun) / AU; d < 0.98 || d > 1.02 {
			t.Fatalf("%s: Sun at %f AU", dt, d)
		}
		α, δ := solar.ApparentEquatorial(jd)
		exp := Vector3{δ.Cos() * α.Cos(), δ.Cos() * α.Sin(), δ.Sin()}
		if θ := math.Acos(math.Min(1, Dot(unit(rSun), exp))); θ > Deg2rad(0.05) {
			t.Fatalf("%s: Sun direction off by %f degrees", dt, Rad2deg(θ))
		}
	}
}

func TestPertSolarThirdBody(t *testing.T) {
	R := Vector3{7000, 0, 0}
	rSun := Vector3{AU, 0, 0}
	acc := SolarThirdBody(R, rSun, AU)
	exp := Sun.GM() * (1/math.Pow(AU-7000, 2) - 1/math.Pow(AU, 2))
	if !floats.EqualWithinRel(acc[0], exp, 1e-6) || acc[1] != 0 || acc[2] != 0 {
		t.Fatalf("third body=%v instead of [%e 0 0]", acc, exp)
	}
	// The tidal acceleration is null at the body center.
	if acc := SolarThirdBody(Vector3{}, rSun, AU); Norm(acc) != 0 {
		t.Fatalf("non null acceleration at the center: %v", acc)
	}
}

func TestPertShadow(t *testing.T) {
	rSun := Vector3{AU, 0, 0}
	for _, test := range []struct {
		R      Vector3
		shadow bool
	}{
		{Vector3{7000, 0, 0}, false},
		{Vector3{0, 7000, 0}, false},
		{Vector3{-7000, 0, 0}, true},
		{Vector3{-7000, 1000, 0}, true},
		{Vector3{-7000, 0, 8000}, false},
		{Vector3{-42164, 0, 0}, true},
	} {
		if got := InShadow(test.R, Norm(test.R), rSun, AU, 6378); got != test.shadow {
			t.Fatalf("%v: shadow=%t", test.R, got)
		}
	}
}

func TestPertSRP(t *testing.T) {
	rSun := Vector3{AU, 0, 0}
	R := Vector3{-7000, 0, 0}
	if acc := SolarRadiationPressure(R, Norm(R), rSun, AU, testParams); acc != (Vector3{}) {
		t.Fatalf("SRP in the shadow: %v", acc)
	}
	R = Vector3{7000, 0, 0}
	acc := SolarRadiationPressure(R, Norm(R), rSun, AU, testParams)
	exp := 4.57e-6 * testParams.Cr * testParams.Area / testParams.Mass / 1000
	if !floats.EqualWithinRel(Norm(acc), exp, 1e-12) {
		t.Fatalf("|SRP|=%e instead of %e", Norm(acc), exp)
	}
	if !floats.EqualWithinAbs(Dot(unit(acc), unit(R)), -1, 1e-12) {
		t.Fatalf("SRP not along -R: %v", acc)
	}
}

func TestPertZonalJ2(t *testing.T) {
	R := Vector3{-2384.46, 5729.01, 3050.46}
	r := Norm(R)
	x, y, z := R[0], R[1], R[2]
	accJ2 := 1.5 * Earth.J(2) * μEarth * math.Pow(testParams.BodyRadius, 2)
	r7 := math.Pow(r, 7)
	r5 := math.Pow(r, 5)
	exp := Vector3{
		accJ2 * (5*x*z*z/r7 - x/r5),
		accJ2 * (5*y*z*z/r7 - y/r5),
		accJ2 * (5*z*z*z/r7 - 3*z/r5),
	}
	if acc := ZonalHarmonics(R, r, testParams, 2); !vectorsEqual(acc, exp) {
		t.Fatalf("J2 invalid\n%+v\n%+v", acc, exp)
	}
	if acc := ZonalHarmonics(R, r, testParams, 0); acc != (Vector3{}) {
		t.Fatalf("J0 should be null: %v", acc)
	}
}

func TestPertZonalTerms(t *testing.T) {
	for _, test := range []struct {
		R     Vector3
		terms [5]Vector3 // J2 through J6 taken separately
		total Vector3
	}{
		{
			Vector3{-2384.46, 5729.01, 3050.46},
			[5]Vector3{
				{1.0683306318884908e-07, -2.566818849297318e-07, -1.0299586068723394e-05},
				{-1.0320243005754941e-08, 2.4795876375531613e-08, 1.25342805217965e-08},
				{-5.8725485487731116e-09, 1.4109647199536432e-08, -1.014033261759797e-08},
				{2.0781968902145544e-10, -4.99316858576285e-10, -2.4703108177395646e-09},
				{-2.3817850160686116e-09, 5.722582964238125e-09, 1.7247363014514642e-09},
			},
			Vector3{8.846630630727385e-08, -2.1255309524900184e-07, -1.0297937695335482e-05},
		},
		{
			Vector3{4000, -3000, -5500},
			[5]Vector3{
				{8.065755030557471e-06, -6.049316272918104e-06, 1.6751144887681237e-06},
				{9.567376385035505e-09, -7.175532288776628e-09, 1.6931041865573222e-08},
				{2.3648820838293214e-09, -1.773661562871991e-09, -1.3007331277036687e-08},
				{-1.2222045789205377e-09, 9.166534341904032e-10, 1.1513405318512097e-09},
				{-3.3213081093995058e-09, 2.4909810820496293e-09, -6.89275688881977e-11},
			},
			Vector3{8.073143776338016e-06, -6.0548578322535125e-06, 1.6801206123196233e-06},
		},
	} {
		r := Norm(test.R)
		var prev, sum Vector3
		for jn := uint8(2); jn <= 6; jn++ {
			acc := ZonalHarmonics(test.R, r, testParams, jn)
			term := sub(acc, prev)
			exp := test.terms[jn-2]
			for i := 0; i < 3; i++ {
				if !floats.EqualWithinRel(term[i], exp[i], 1e-6) {
					t.Fatalf("J%d term at %v: got %v, expected %v", jn, test.R, term, exp)
				}
			}
			sum = add(sum, exp)
			if !vectorsEqual(acc, sum) {
				t.Fatalf("J2-J%d at %v: got %v, expected %v", jn, test.R, acc, sum)
			}
			prev = acc
		}
		if !vectorsEqual(prev, test.total) {
			t.Fatalf("J2-J6 at %v: got %v, expected %v", test.R, prev, test.total)
		}
	}
}

func TestPertZonalCutoff(t *testing.T) {
	R := Vector3{-2384.46, 5729.01, 3050.46}
	r := Norm(R)
	if ZonalHarmonics(R, r, testParams, 7) != ZonalHarmonics(R, r, testParams, 6) {
		t.Fatal("zonal harmonics above J6 are not supported")
	}
	// On the equator, J2 only pulls radially and J3 only acts out of plane.
	R = Vector3{7000, 0, 0}
	j2 := ZonalHarmonics(R, 7000, testParams, 2)
	if j2[0] >= 0 || j2[1] != 0 || j2[2] != 0 {
		t.Fatalf("equatorial J2 invalid: %v", j2)
	}
	j3 := sub(ZonalHarmonics(R, 7000, testParams, 3), j2)
	if j3[0] != 0 || j3[1] != 0 || j3[2] == 0 {
		t.Fatalf("equatorial J3 invalid: %v", j3)
	}
}

func TestPerturbSum(t *testing.T) {
	s := integrator.State{-7000, 1000, 500, -0.5, -7.4, 0.2}
	R, V := RV(s)
	perts := AllPerturbations()
	rSun := SunPosition(testParams.InitJD + 3600/secondsPerDay)
	exp := add(DragAcceleration(R, Norm(R), V, testParams), SolarThirdBody(R, rSun, Norm(rSun)))
	exp = add(exp, SolarRadiationPressure(R, Norm(R), rSun, Norm(rSun), testParams))
	exp = add(exp, ZonalHarmonics(R, Norm(R), testParams, 6))
	if got := perts.Perturb(3600, s, testParams); !vectorsEqual(got, exp) {
		t.Fatalf("sum of perturbations invalid\n%+v\n%+v", got, exp)
	}
}
