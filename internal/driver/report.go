package driver

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"javamaybe/internal/diag"
	"javamaybe/internal/mono"
	"javamaybe/internal/observ"
)

// Report is the YAML fork report written by --report.
type Report struct {
	Generated string         `yaml:"generated"`
	Root      string         `yaml:"root"`
	Units     []UnitReport   `yaml:"units"`
	Totals    Totals         `yaml:"totals"`
	Timings   *observ.Report `yaml:"timings,omitempty"`
}

type UnitReport struct {
	Path      string              `yaml:"path"`
	Output    string              `yaml:"output,omitempty"`
	Status    string              `yaml:"status"`
	Error     string              `yaml:"error,omitempty"`
	Overloads int                 `yaml:"overloads"`
	Warnings  int                 `yaml:"warnings,omitempty"`
	Errors    int                 `yaml:"errors,omitempty"`
	Methods   []mono.MethodReport `yaml:"methods,omitempty"`
}

type Totals struct {
	Units     int `yaml:"units"`
	Failed    int `yaml:"failed"`
	Skipped   int `yaml:"skipped"`
	Methods   int `yaml:"methods"`
	Overloads int `yaml:"overloads"`
}

// BuildReport summarises res; withTimings attaches the phase timings.
func BuildReport(res *Result, withTimings bool) *Report {
	rep := &Report{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Root:      res.Root,
		Units:     make([]UnitReport, 0, len(res.Units)),
	}
	for i := range res.Units {
		u := &res.Units[i]
		ur := UnitReport{
			Path:      u.Rel,
			Output:    u.Out,
			Status:    unitStatus(u),
			Overloads: u.Overloads,
			Methods:   u.Methods,
		}
		if u.Err != nil {
			ur.Error = u.Err.Error()
			rep.Totals.Failed++
		}
		if u.Skipped {
			rep.Totals.Skipped++
		}
		if u.Bag != nil {
			for _, d := range u.Bag.Items() {
				switch d.Severity {
				case diag.SevError:
					ur.Errors++
				case diag.SevWarning:
					ur.Warnings++
				}
			}
		}
		rep.Totals.Units++
		rep.Totals.Methods += len(u.Methods)
		rep.Totals.Overloads += u.Overloads
		rep.Units = append(rep.Units, ur)
	}
	if withTimings && len(res.Timings.Phases) > 0 {
		t := res.Timings
		rep.Timings = &t
	}
	return rep
}

func unitStatus(u *UnitResult) string {
	switch {
	case u.Err != nil:
		return string(StatusError)
	case u.Skipped:
		return string(StatusSkipped)
	case len(u.Methods) == 0:
		return "unchanged"
	default:
		return "specialized"
	}
}

// Encode writes the report as YAML.
func (r *Report) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return enc.Close()
}

// WriteReport writes the report to path ("-" for stdout).
func WriteReport(r *Report, path string) error {
	if path == "-" {
		return r.Encode(os.Stdout)
	}
	f, err := os.Create(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := r.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadReport parses a report written by WriteReport.
func ReadReport(r io.Reader) (*Report, error) {
	var rep Report
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rep); err != nil {
		return nil, fmt.Errorf("report: parse: %w", err)
	}
	return &rep, nil
}
