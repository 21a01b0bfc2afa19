package runreport_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/malphas-lang/monomorphizer/internal/diag"
	"github.com/malphas-lang/monomorphizer/internal/mono"
	"github.com/malphas-lang/monomorphizer/internal/runreport"
)

func TestNewClassifiesDiagnostics(t *testing.T) {
	result := &mono.Report{Diagnostics: []diag.Diagnostic{
		{Code: diag.CodeMonoSpecialized, Message: "specializing add as add_Int", Where: diag.Where{Function: "add"}},
		{Code: diag.CodeMonoSkipNilCompared, Message: "maybe compares a local against nil", Where: diag.Where{Function: "maybe"}},
	}}

	r := runreport.New("example.rb", time.Now(), 5*time.Millisecond, result)
	if r.RunID == "" {
		t.Fatalf("expected a non-empty run ID")
	}
	if len(r.Specialized) != 1 || len(r.Skipped) != 1 {
		t.Fatalf("got %d specialized, %d skipped; want 1, 1", len(r.Specialized), len(r.Skipped))
	}
	if r.Skipped[0].Function != "maybe" {
		t.Fatalf("Skipped[0].Function = %q, want maybe", r.Skipped[0].Function)
	}
}

func TestWriteYAMLIncludesRunID(t *testing.T) {
	result := &mono.Report{}
	r := runreport.New("example.rb", time.Now(), time.Millisecond, result)

	var buf bytes.Buffer
	if err := r.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	if !strings.Contains(buf.String(), "run_id:") {
		t.Fatalf("expected YAML output to contain run_id, got %q", buf.String())
	}
}

func TestWriteText(t *testing.T) {
	result := &mono.Report{}
	r := runreport.New("example.rb", time.Now(), time.Millisecond, result)

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), r.RunID) {
		t.Fatalf("expected text output to contain run ID, got %q", buf.String())
	}
}
