// Package runreport summarizes one monomorphizer run for the CLI: a
// UUID-tagged record of what was specialized, what was skipped, and
// why, renderable as YAML (format: yaml in monoc.yaml) or plain text
// for a terminal.
package runreport

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/monomorphizer/internal/diag"
	"github.com/malphas-lang/monomorphizer/internal/mono"
)

// Report is one run's summary, keyed by a fresh run ID so a batch of
// concurrent runs (see cmd/monoc's batch mode) can be told apart in
// aggregated output.
type Report struct {
	RunID       string    `yaml:"run_id"`
	Source      string    `yaml:"source"`
	StartedAt   time.Time `yaml:"started_at"`
	Duration    time.Duration `yaml:"duration"`
	Specialized []string  `yaml:"specialized"`
	Skipped     []Skip    `yaml:"skipped,omitempty"`
}

// Skip records one diagnostic's worth of "why wasn't this specialized".
type Skip struct {
	Function string `yaml:"function"`
	Code     string `yaml:"code"`
	Message  string `yaml:"message"`
}

// New builds a Report from a completed Transform, stamping it with a
// fresh run ID and the wall-clock time the caller measured.
func New(source string, startedAt time.Time, elapsed time.Duration, result *mono.Report) *Report {
	r := &Report{
		RunID:     uuid.New().String(),
		Source:    source,
		StartedAt: startedAt,
		Duration:  elapsed,
	}
	for _, d := range result.Diagnostics {
		switch d.Code {
		case diag.CodeMonoSpecialized, diag.CodeMonoUnionDispatch:
			r.Specialized = append(r.Specialized, d.Message)
		default:
			r.Skipped = append(r.Skipped, Skip{
				Function: d.Where.Function,
				Code:     string(d.Code),
				Message:  d.Message,
			})
		}
	}
	return r
}

// WriteYAML renders the report as YAML to w.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("runreport: encode: %w", err)
	}
	return nil
}

// WriteText renders a short human summary to w, used for the default
// text format.
func (r *Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "run %s: %s (%s)\n  specialized: %d\n  skipped:     %d\n",
		r.RunID, r.Source, r.Duration, len(r.Specialized), len(r.Skipped))
	return err
}
