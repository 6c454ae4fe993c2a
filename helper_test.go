package orbitprop

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

// vectorsEqual returns whether both vectors are equal within a relative tolerance.
func vectorsEqual(a, b Vector3) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbsOrRel(a[i], b[i], 1e-12, 1e-9) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in radians are equal modulo 2π within angleε.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε || 2*math.Pi-diff < angleε {
		return true, nil
	}
	return false, errors.New("angles not equal")
}

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("The code did not panic")
		}
	}()
	f()
}
