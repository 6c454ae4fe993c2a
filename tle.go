package orbitprop

import (
	"fmt"
	"math"
	"strings"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/willAlbertini707/orbitprop/integrator"
)

// StateFromTLE returns the SGP4 state of a two line element set at the provided Julian date, rounded down
// to the second. The state is expressed in the TEME frame, which is used as the inertial frame.
// NOTE: go-satellite exits the process on unparsable fields, so the lines are checked beforehand.
func StateFromTLE(line1, line2 string, jd float64) (s integrator.State, err error) {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	if err = validateTLE(line1, line2); err != nil {
		return s, fmt.Errorf("%w: invalid TLE: %w", ErrConfiguration, err)
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return s, fmt.Errorf("%w: sgp4 init failed: code=%d %s", ErrConfiguration, sat.Error, sat.ErrorStr)
	}
	dt := julian.JDToTime(jd).UTC()
	year, month, day := dt.Date()
	hour, minute, sec := dt.Clock()
	pos, vel := satellite.Propagate(sat, year, int(month), day, hour, minute, sec)
	s = integrator.State{pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z}
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return integrator.State{}, fmt.Errorf("%w: sgp4 propagation to JD %f failed", ErrConfiguration, jd)
		}
	}
	return s, nil
}

func validateTLE(line1, line2 string) error {
	for i, line := range []string{line1, line2} {
		if len(line) != 69 {
			return fmt.Errorf("line %d length %d, expected 69", i+1, len(line))
		}
		if line[0] != byte('1'+i) || line[1] != ' ' {
			return fmt.Errorf("line %d must start with '%d '", i+1, i+1)
		}
		if exp := tleChecksum(line); line[68] != exp {
			return fmt.Errorf("line %d checksum is %c, expected %c", i+1, line[68], exp)
		}
	}
	if line1[2:7] != line2[2:7] {
		return fmt.Errorf("satellite numbers differ: %s and %s", line1[2:7], line2[2:7])
	}
	return nil
}

// tleChecksum returns the modulo 10 checksum of the first 68 columns: digits count for their
// value and minus signs for one.
func tleChecksum(line string) byte {
	sum := 0
	for _, c := range line[:68] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return byte('0' + sum%10)
}
