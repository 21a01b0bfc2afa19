package mono

import (
	"github.com/malphas-lang/monomorphizer/internal/diag"
	"github.com/malphas-lang/monomorphizer/internal/hir"
	"github.com/malphas-lang/monomorphizer/internal/types"
)

// plan is everything Step B/C produce: the registered specialization
// keys (in registration order, for deterministic synthesis/emission),
// the union-dispatch descriptors keyed by (target, original-types), and
// the diagnostics explaining every drop along the way.
type plan struct {
	order       []Key
	names       map[string]string // Key.String() -> specialized name
	unionOrder  []string
	unionTable  map[string]*UnionDispatch
	unionCalls  map[string][]*hir.Call
	diagnostics []diag.Diagnostic

	// concreteTypes holds, per registered Key.String(), the actual
	// types.Type values observed at the call site that registered the
	// key — not just their suffix strings — so Step D can retype a
	// clone's parameters with the real concrete type (NilType, a
	// parameterized ClassInstance with its Args intact, etc.) rather
	// than a synthetic ClassInstance reconstructed from the suffix.
	concreteTypes map[string][]types.Type
}

// buildSkipSet implements Step A: functions that must never be
// specialized, for either of two independent reasons.
func buildSkipSet(prog *hir.Program, sites []callSite) (map[string]bool, []diag.Diagnostic) {
	skip := make(map[string]bool)
	var diags []diag.Diagnostic

	// A1: inconsistent-arity/type sites, considered over non-union
	// entries only, grouped by target.
	byTarget := make(map[string][]callSite)
	var targetOrder []string
	for _, s := range sites {
		if s.UnionDispatch {
			continue
		}
		if _, seen := byTarget[s.Target]; !seen {
			targetOrder = append(targetOrder, s.Target)
		}
		byTarget[s.Target] = append(byTarget[s.Target], s)
	}
	for _, target := range targetOrder {
		group := byTarget[target]
		if len(group) <= 1 {
			continue
		}
		if hasInconsistentPosition(group) {
			skip[target] = true
			diags = append(diags, diag.Diagnostic{
				Stage:    diag.StageMono,
				Severity: diag.SeverityNote,
				Code:     diag.CodeMonoSkipInconsistentSite,
				Message:  "call sites of " + target + " disagree on argument types at the same position; no specialization will be generated",
				Where:    diag.Where{Function: target},
			})
		}
	}

	// A2: nil-compared (or nil?-queried) parameters.
	for _, fn := range prog.Functions {
		if skip[fn.Name] {
			continue
		}
		if hasNilSensitivity(fn) {
			skip[fn.Name] = true
			diags = append(diags, diag.Diagnostic{
				Stage:    diag.StageMono,
				Severity: diag.SeverityNote,
				Code:     diag.CodeMonoSkipNilCompared,
				Message:  fn.Name + " compares a local against nil; no specialization will be generated",
				Where:    diag.Where{Function: fn.Name},
			})
		}
	}

	return skip, diags
}

func hasInconsistentPosition(group []callSite) bool {
	width := 0
	for _, s := range group {
		if len(s.Types) > width {
			width = len(s.Types)
		}
	}
	for i := 0; i < width; i++ {
		seen := make(map[string]bool)
		for _, s := range group {
			if i >= len(s.Types) {
				continue // missing positions are ignored
			}
			seen[types.ToSuffix(s.Types[i])] = true
		}
		if len(seen) > 1 {
			return true
		}
	}
	return false
}

// hasNilSensitivity scans every instruction of every block of fn for a
// nil comparison against one of fn's own parameters, or — reproducing
// the source's over-broad widening, preserved per spec §9's open
// question — a nil? call against ANY local, parameter or not.
func hasNilSensitivity(fn *hir.Function) bool {
	paramNames := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		paramNames[p.Name] = true
	}

	for _, block := range fn.Body {
		for _, instr := range allInstructions(block) {
			call, ok := instr.(*hir.Call)
			if !ok {
				continue
			}
			if isNilQuery(call) {
				return true
			}
			if isNilComparison(call, paramNames) {
				return true
			}
		}
	}
	return false
}

// isNilQuery reports whether call is `<local>.nil?`. Per the source's
// widening this fires for any LoadLocal receiver, not just ones that
// happen to be a parameter.
func isNilQuery(call *hir.Call) bool {
	if call.Method != "nil?" {
		return false
	}
	_, ok := call.Receiver.(*hir.LoadLocal)
	return ok
}

// isNilComparison reports whether call is `p == nil` or `nil == p` for
// some parameter p of the enclosing function.
func isNilComparison(call *hir.Call, paramNames map[string]bool) bool {
	if call.Method != "==" {
		return false
	}
	if recv, ok := call.Receiver.(*hir.LoadLocal); ok && paramNames[recv.Var] {
		for _, a := range call.Args {
			if _, isNil := a.(hir.NilLit); isNil {
				return true
			}
		}
	}
	if _, recvNil := call.Receiver.(hir.NilLit); recvNil {
		for _, a := range call.Args {
			if ll, ok := a.(*hir.LoadLocal); ok && paramNames[ll.Var] {
				return true
			}
		}
	}
	return false
}

// buildPlan implements Steps B and C: grouping, naming, and union-site
// consolidation.
func buildPlan(sites []callSite, skip map[string]bool) *plan {
	p := &plan{
		names:         make(map[string]string),
		unionTable:    make(map[string]*UnionDispatch),
		concreteTypes: make(map[string][]types.Type),
	}

	type group struct {
		target  string
		suffix  []string
		dropped bool
	}
	groups := make(map[string]*group)

	// unionSite collects, per surviving group, the union entries that
	// need a Step-C consolidation record.
	type unionSite struct {
		call          *hir.Call
		target        string
		originalTypes []types.Type
		concreteKey   string
		specialized   string
	}
	var unionSites []unionSite

	for _, s := range sites {
		suffix := types.SuffixesOf(s.Types)
		key := Key{Target: s.Target, Types: suffix}.String()

		g, seen := groups[key]
		if !seen {
			g = &group{target: s.Target, suffix: suffix}
			groups[key] = g

			switch {
			case anyUntyped(s.Types):
				g.dropped = true
				p.diagnostics = append(p.diagnostics, diag.Diagnostic{
					Stage: diag.StageMono, Severity: diag.SeverityNote,
					Code:    diag.CodeMonoSkipUntypedArg,
					Message: s.Target + " called with an untyped argument; call left unannotated",
					Where:   diag.Where{Function: s.Target},
				})
			case skip[s.Target]:
				g.dropped = true
				p.diagnostics = append(p.diagnostics, diag.Diagnostic{
					Stage: diag.StageMono, Severity: diag.SeverityNote,
					Code: diag.CodeMonoSkipInconsistentSite,
					Message: s.Target + " is on the skip list; call left unannotated",
					Where: diag.Where{Function: s.Target, Call: s.Target},
				})
			case anyUnresolvedGeneric(s.Types):
				g.dropped = true
				p.diagnostics = append(p.diagnostics, diag.Diagnostic{
					Stage: diag.StageMono, Severity: diag.SeverityNote,
					Code: diag.CodeMonoSkipUnresolvedGeneric,
					Message: s.Target + " has an unresolved generic parameter at this site; call left unannotated",
					Where: diag.Where{Function: s.Target},
				})
			}
		}

		if g.dropped {
			continue
		}

		if _, registered := p.names[key]; !registered {
			name := SpecializedName(s.Target, suffix)
			p.names[key] = name
			p.order = append(p.order, Key{Target: s.Target, Types: suffix})
			p.concreteTypes[key] = append([]types.Type(nil), s.Types...)
			p.diagnostics = append(p.diagnostics, diag.Diagnostic{
				Stage: diag.StageMono, Severity: diag.SeverityNote,
				Code: diag.CodeMonoSpecialized,
				Message: "specializing " + s.Target + " as " + name,
				Where: diag.Where{Function: s.Target},
			})
		}

		if s.UnionDispatch {
			unionSites = append(unionSites, unionSite{
				call:          s.Call,
				target:        s.Target,
				originalTypes: s.OriginalTypes,
				concreteKey:   Key{Types: suffix}.String(),
				specialized:   p.names[key],
			})
		}
	}

	// Step C: consolidate union sites by (target, original-types).
	var consolidatedOrder []string
	consolidated := make(map[string]*UnionDispatch)
	consolidatedCalls := make(map[string][]*hir.Call)
	for _, us := range unionSites {
		originalSig := types.SignaturesOf(us.originalTypes)
		ck := Key{Target: us.target, Types: originalSig}.String()

		ud, ok := consolidated[ck]
		if !ok {
			ud = &UnionDispatch{
				Target:          us.target,
				OriginalTypes:   originalSig,
				Specializations: make(map[string]string),
			}
			for i, t := range us.originalTypes {
				if types.IsUnion(t) {
					ud.UnionPositions = append(ud.UnionPositions, i)
				}
			}
			consolidated[ck] = ud
			consolidatedOrder = append(consolidatedOrder, ck)
			p.diagnostics = append(p.diagnostics, diag.Diagnostic{
				Stage: diag.StageMono, Severity: diag.SeverityNote,
				Code:    diag.CodeMonoUnionDispatch,
				Message: "consolidating union dispatch for " + us.target,
				Where:   diag.Where{Function: us.target},
			})
		}
		ud.Specializations[us.concreteKey] = us.specialized
		consolidatedCalls[ck] = append(consolidatedCalls[ck], us.call)
	}
	p.unionTable = consolidated
	p.unionOrder = consolidatedOrder
	p.unionCalls = consolidatedCalls

	return p
}

func anyUntyped(ts []types.Type) bool {
	for _, t := range ts {
		if _, ok := t.(types.Untyped); ok {
			return true
		}
	}
	return false
}

func anyUnresolvedGeneric(ts []types.Type) bool {
	for _, t := range ts {
		if types.IsUnresolvedGeneric(t) {
			return true
		}
	}
	return false
}
