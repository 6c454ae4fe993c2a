package orbitprop

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/willAlbertini707/orbitprop/integrator"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration file.
const EnvPrefix = "ORBITPROP"

// Config is a complete propagation setup.
type Config struct {
	Initial       integrator.State
	Params        PhysicalParameters
	Perturbations Perturbations
	T0, Tf, Dx    float64
	MaxSteps      uint64
	OutputFile    string // CSV output, empty for stdout
	ElementsFile  string // Optional orbital elements CSV output
	CosmoDir      string // Optional Cosmographia output directory
	Name          string // Name of the spacecraft in the Cosmographia catalog
	LogFormat     string // logfmt or json
}

// LoadConfig reads the configuration from a .env file (KEY=value lines). Every key may be overridden
// by an environment variable of the same name in upper case prefixed with ORBITPROP_.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: reading %s: %w", ErrConfiguration, path, err)
	}
	return NewConfig(v)
}

// NewConfig builds the configuration from the provided viper instance.
func NewConfig(v *viper.Viper) (Config, error) {
	var conf Config
	r := reader{v: v}
	conf.Params = PhysicalParameters{
		Mu:         r.float("mu"),
		Area:       r.float("area"),
		Cd:         r.float("cd"),
		Mass:       r.float("mass"),
		BodyRadius: r.float("body_radius"),
		Cr:         r.float("cr"),
	}
	perturbationsKey := "add_perturbations"
	if !r.isSet(perturbationsKey) && r.isSet("add_pertubations") {
		perturbationsKey = "add_pertubations"
	}
	conf.Params.Perturbations = r.bool(perturbationsKey)
	conf.T0 = r.float("t0")
	conf.Tf = r.float("tf")
	conf.Dx = r.float("dx")

	switch {
	case r.isSet("init_jd") && r.isSet("init_epoch"):
		r.fail("init_jd and init_epoch are mutually exclusive")
	case r.isSet("init_epoch"):
		epoch, perr := time.Parse(time.RFC3339, r.string("init_epoch"))
		if perr != nil {
			r.fail("init_epoch: %s", perr)
		}
		conf.Params.InitJD = julian.TimeToJD(epoch.UTC())
	default:
		conf.Params.InitJD = r.float("init_jd")
	}

	jn := r.optionalUint("jn", maxJn)
	if jn == 1 || jn > maxJn {
		r.fail("jn must be 0 or between 2 and %d (got %d)", maxJn, jn)
	}
	conf.Perturbations = Perturbations{
		Drag:           r.optionalBool("drag", true),
		SolarThirdBody: r.optionalBool("third_body", true),
		SRP:            r.optionalBool("srp", true),
		Jn:             uint8(jn),
	}
	conf.MaxSteps = r.optionalUint("max_steps", integrator.DefaultMaxSteps)
	conf.OutputFile = r.optionalString("output_file", "")
	conf.ElementsFile = r.optionalString("elements_file", "")
	conf.CosmoDir = r.optionalString("cosmo_dir", "")
	conf.Name = r.optionalString("name", "orbitprop")
	conf.LogFormat = r.optionalString("log_format", "logfmt")
	if conf.LogFormat != "logfmt" && conf.LogFormat != "json" {
		r.fail("log_format must be logfmt or json (got %s)", conf.LogFormat)
	}
	if r.err != nil {
		return Config{}, r.err
	}

	// The initial state is given as a Cartesian state, as orbital elements or as a TLE.
	sources := 0
	for _, key := range []string{"initial_state", "sma", "tle_line1"} {
		if r.isSet(key) {
			sources++
		}
	}
	switch {
	case sources == 0:
		r.fail("missing initial_state")
	case sources > 1:
		r.fail("initial_state, orbital elements and TLE are mutually exclusive")
	case r.isSet("initial_state"):
		conf.Initial = r.state("initial_state")
	case r.isSet("sma"):
		o := NewOrbitFromOE(r.float("sma"), r.float("ecc"), r.float("inc"), r.float("raan"), r.float("argp"), r.float("nu"), conf.Params.Mu)
		conf.Initial = o.State()
	default:
		if r.err == nil {
			conf.Initial, r.err = StateFromTLE(r.string("tle_line1"), r.string("tle_line2"), conf.Params.InitJD)
		}
	}
	if r.err != nil {
		return Config{}, r.err
	}
	if err := conf.Params.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// reader converts configuration values strictly, keeping the first error.
type reader struct {
	v   *viper.Viper
	err error
}

func (r *reader) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
	}
}

func (r *reader) isSet(key string) bool {
	return r.v.IsSet(key) && strings.TrimSpace(cast.ToString(r.v.Get(key))) != ""
}

func (r *reader) string(key string) string {
	if !r.isSet(key) {
		r.fail("missing %s", key)
		return ""
	}
	return strings.TrimSpace(cast.ToString(r.v.Get(key)))
}

func (r *reader) float(key string) float64 {
	raw := r.string(key)
	if raw == "" {
		return math.NaN()
	}
	val, err := cast.ToFloat64E(raw)
	if err != nil {
		r.fail("%s: %q is not a number", key, raw)
		return math.NaN()
	}
	return val
}

// bool only accepts the literals true and false.
func (r *reader) bool(key string) bool {
	raw := r.string(key)
	switch raw {
	case "":
		return false
	case "true":
		return true
	case "false":
		return false
	}
	r.fail("%s: %q is not a boolean, expected true or false", key, raw)
	return false
}

func (r *reader) optionalBool(key string, dflt bool) bool {
	if !r.isSet(key) {
		return dflt
	}
	return r.bool(key)
}

func (r *reader) optionalUint(key string, dflt uint64) uint64 {
	if !r.isSet(key) {
		return dflt
	}
	raw := r.string(key)
	val, err := cast.ToUint64E(raw)
	if err != nil || strings.HasPrefix(raw, "-") {
		r.fail("%s: %q is not a non-negative integer", key, raw)
	}
	return val
}

func (r *reader) optionalString(key, dflt string) string {
	if !r.isSet(key) {
		return dflt
	}
	return r.string(key)
}

func (r *reader) state(key string) (s integrator.State) {
	raw := r.string(key)
	fields := strings.Split(raw, ",")
	if len(fields) != len(s) {
		r.fail("%s: expected %d comma separated values, got %d", key, len(s), len(fields))
		return
	}
	for i, field := range fields {
		val, err := cast.ToFloat64E(strings.TrimSpace(field))
		if err != nil {
			r.fail("%s: %q is not a number", key, field)
			return
		}
		s[i] = val
	}
	return
}
