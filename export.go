package orbitprop

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// WriteCSV writes one record per line as `t, rx, ry, rz, vx, vy, vz`.
func (ts *TimeSeries) WriteCSV(w io.Writer) error {
	buf := bufio.NewWriter(w)
	line := make([]byte, 0, 256)
	for i, t := range ts.times {
		line = strconv.AppendFloat(line[:0], t, 'f', -1, 64)
		for _, v := range ts.states[i] {
			line = append(line, ", "...)
			line = strconv.AppendFloat(line, v, 'f', -1, 64)
		}
		line = append(line, '\n')
		if _, err := buf.Write(line); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// WriteElementsCSV writes the orbital elements of each record, with angles in degrees.
func (ts *TimeSeries) WriteElementsCSV(w io.Writer, μ float64) error {
	buf := bufio.NewWriter(w)
	fmt.Fprintf(buf, "# Records are a, e, i, Ω, ω, ν. All angles are in degrees.\ntime,a,e,i,Omega,omega,nu\n")
	for i, t := range ts.times {
		R, V := RV(ts.states[i])
		a, e, inc, Ω, ω, ν := NewOrbitFromRV(R, V, μ).Elements()
		fmt.Fprintf(buf, "%f,%.3f,%.6f,%.3f,%.3f,%.3f,%.3f\n", t, a, e, inc, Ω, ω, ν)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// WriteCSV writes the result of the last successful propagation, see TimeSeries.WriteCSV.
func (p *Propagator) WriteCSV(w io.Writer) error {
	ts, err := p.TimeSeries()
	if err != nil {
		return err
	}
	return ts.WriteCSV(w)
}

// WriteCSVFile creates (or truncates) the file at path and writes the results as CSV in it.
func (p *Propagator) WriteCSVFile(path string) error {
	ts, err := p.TimeSeries()
	if err != nil {
		return err
	}
	return writeFile(path, ts.WriteCSV)
}

// WriteElementsCSVFile writes the orbital elements of the last successful propagation to the file at path.
func (p *Propagator) WriteElementsCSVFile(path string) error {
	ts, err := p.TimeSeries()
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return ts.WriteElementsCSV(w, p.params.Mu)
	})
}

// WriteCosmographia writes the last successful propagation as a Cosmographia interpolated states
// file (prop-<name>.xyzv) and its catalog (catalog-<name>.json) in dir.
func (p *Propagator) WriteCosmographia(dir, name string) error {
	ts, err := p.TimeSeries()
	if err != nil {
		return err
	}
	traj := CgTrajectory{Type: "InterpolatedStates", Source: "prop-" + name + ".xyzv"}
	if err := traj.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := writeFile(filepath.Join(dir, traj.Source), func(w io.Writer) error {
		return ts.writeInterpolatedStates(w, p.params.InitJD)
	}); err != nil {
		return err
	}

	t0, _ := ts.At(0)
	tf, _ := ts.Last()
	start := julian.JDToTime(p.params.InitJD + t0/secondsPerDay).UTC().Round(time.Second)
	end := julian.JDToTime(p.params.InitJD + tf/secondsPerDay).UTC().Round(time.Second)
	color := []float64{0.6, 1, 1}
	item := CgItems{
		Class:           "spacecraft",
		Name:            name,
		StartTime:       start.Format(time.RFC3339),
		EndTime:         end.Format(time.RFC3339),
		Center:          Earth.Name,
		TrajectoryFrame: "ICRF",
		Trajectory:      &traj,
		Label:           &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
		TrajectoryPlot: &CgTrajectoryPlot{Color: color, LineWidth: 1, Duration: fmt.Sprintf("%d d", int(end.Sub(start).Hours()/24+1)),
			Lead: "0 d", SampleCount: 10},
	}
	c := CgCatalog{Version: "1.0", Name: name, Items: []*CgItems{&item}}
	return writeFile(filepath.Join(dir, "catalog-"+name+".json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
		return nil
	})
}

func (ts *TimeSeries) writeInterpolatedStates(w io.Writer, initJD float64) error {
	buf := bufio.NewWriter(w)
	fmt.Fprintf(buf, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position in km
#   Velocity in km/sec
`, time.Now().UTC())
	for i, t := range ts.times {
		R, V := RV(ts.states[i])
		state := CgInterpolatedState{JD: initJD + t/secondsPerDay, Position: R, Velocity: V}
		buf.WriteString(state.ToText() + "\n")
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrExport, cerr)
		}
	}()
	return write(f)
}

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory. The source must be a file name relative to the catalog.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, ".xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	if t.Source != filepath.Base(t.Source) {
		return fmt.Errorf("trajectory source %q is not a plain file name", t.Source)
	}
	return nil
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState is one record of a Cosmographia interpolated states file.
type CgInterpolatedState struct {
	JD       float64
	Position Vector3
	Velocity Vector3
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	var vals [7]float64
	for j, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		vals[j] = val
	}
	i.JD = vals[0]
	i.Position = Vector3{vals[1], vals[2], vals[3]}
	i.Velocity = Vector3{vals[4], vals[5], vals[6]}
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates parses the records of a Cosmographia interpolated states file.
func ParseInterpolatedStates(s string) ([]*CgInterpolatedState, error) {
	var states = []*CgInterpolatedState{}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = ' '
	r.Comment = '#'
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		state := CgInterpolatedState{}
		if err := state.FromText(record); err != nil {
			return nil, err
		}
		states = append(states, &state)
	}
	return states, nil
}
