package mono_test

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/malphas-lang/monomorphizer/internal/diag"
	"github.com/malphas-lang/monomorphizer/internal/hirio"
	"github.com/malphas-lang/monomorphizer/internal/mono"
	"github.com/malphas-lang/monomorphizer/internal/typeinfo"
)

// TestGoldenFixtures runs every testdata/*.txtar archive twice (to
// check the determinism property directly) and compares the rendered
// diagnostics and the set of specialized names against the archive's
// "want.diagnostics" and "want.specialized" files.
func TestGoldenFixtures(t *testing.T) {
	archives := []string{"testdata/simple_specialization.txtar"}

	for _, path := range archives {
		path := path
		t.Run(path, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("txtar.ParseFile(%s): %v", path, err)
			}
			input := fileNamed(t, ar, "input.json")
			wantDiags := strings.TrimRight(string(fileNamed(t, ar, "want.diagnostics")), "\n")
			wantSpecialized := strings.Fields(string(fileNamed(t, ar, "want.specialized")))

			var firstDiags, firstNames string
			for run := 0; run < 2; run++ {
				prog, err := hirio.Load(bytes.NewReader(input))
				if err != nil {
					t.Fatalf("hirio.Load: %v", err)
				}
				report, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
				if err != nil {
					t.Fatalf("Transform: %v", err)
				}

				var buf bytes.Buffer
				diag.NewFormatter().FormatAll(&buf, report.Diagnostics)
				gotDiags := strings.TrimRight(buf.String(), "\n")

				var names []string
				for _, fn := range prog.Functions {
					for _, want := range wantSpecialized {
						if fn.Name == want {
							names = append(names, fn.Name)
						}
					}
				}
				gotNames := strings.Join(names, " ")

				if run == 0 {
					firstDiags, firstNames = gotDiags, gotNames
					if gotDiags != wantDiags {
						t.Errorf("diagnostics mismatch:\n got:  %q\n want: %q", gotDiags, wantDiags)
					}
					if gotNames != strings.Join(wantSpecialized, " ") {
						t.Errorf("specialized set mismatch:\n got:  %q\n want: %q", gotNames, strings.Join(wantSpecialized, " "))
					}
					continue
				}
				if gotDiags != firstDiags || gotNames != firstNames {
					t.Errorf("non-deterministic across runs: run0=(%q,%q) run1=(%q,%q)", firstDiags, firstNames, gotDiags, gotNames)
				}
			}
		})
	}
}

func fileNamed(t *testing.T, ar *txtar.Archive, name string) []byte {
	t.Helper()
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("archive missing file %q", name)
	return nil
}
