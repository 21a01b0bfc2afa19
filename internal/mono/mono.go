// Package mono implements the monomorphizer: the collector, planner,
// and rewriter that together turn polymorphic self-calls into
// specialized clones plus call-site annotations, as a single
// synchronous pass over a hir.Program.
package mono

import (
	"github.com/malphas-lang/monomorphizer/internal/diag"
	"github.com/malphas-lang/monomorphizer/internal/hir"
	"github.com/malphas-lang/monomorphizer/internal/typeinfo"
)

// Options configures a Transform run. It is empty today but gives
// callers (the CLI in particular) a stable place to add knobs later
// without breaking Transform's signature.
type Options struct{}

// Report summarizes a completed Transform: every diagnostic raised
// along the way, the call-node annotations the back end consults, and
// a lookup surface for the specialized name a given (target, types)
// pair was assigned, if any.
type Report struct {
	Diagnostics []diag.Diagnostic
	Annotations *Annotations

	names map[string]string // Key.String() -> specialized name
}

// SpecializedName reports the name synthesized for target specialized
// over concreteTypes, if that specialization was generated.
func (r *Report) SpecializedName(target string, concreteTypes []string) (string, bool) {
	name, ok := r.names[Key{Target: target, Types: concreteTypes}.String()]
	return name, ok
}

// Transform runs the full monomorphization pipeline over prog in
// place: it appends specialized clones to prog.Functions and returns a
// Report describing what was done. Nothing here is concurrent — the
// collector, planner, and rewriter each make one deterministic,
// insertion-order-preserving pass, and re-running Transform on the
// same input yields byte-identical output.
func Transform(prog *hir.Program, ti typeinfo.Oracle, opts Options) (*Report, error) {
	if prog == nil {
		return nil, errNilProgram
	}
	if ti == nil {
		ti = typeinfo.Static{}
	}

	sites := collect(prog, ti)
	skip, skipDiags := buildSkipSet(prog, sites)
	p := buildPlan(sites, skip)
	synthDiags := synthesize(prog, p)
	ann := annotate(sites, p)

	diags := make([]diag.Diagnostic, 0, len(skipDiags)+len(p.diagnostics)+len(synthDiags))
	diags = append(diags, skipDiags...)
	diags = append(diags, p.diagnostics...)
	diags = append(diags, synthDiags...)

	return &Report{Diagnostics: diags, Annotations: ann, names: p.names}, nil
}
