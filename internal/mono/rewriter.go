package mono

import (
	"github.com/malphas-lang/monomorphizer/internal/diag"
	"github.com/malphas-lang/monomorphizer/internal/hir"
	"github.com/malphas-lang/monomorphizer/internal/types"
)

// synthesize implements Step D: for every registered key, clone the
// target function's body, retype its parameters to the concrete types
// the key carries, and append the clone to prog under its specialized
// name. Missing targets and clone failures are never fatal: a missing
// target degrades to a diagnostic, its name is withdrawn from the plan,
// and the call sites in question simply stay unannotated; an instruction
// that fails to clone is replaced by the original instruction, without
// a diagnostic.
func synthesize(prog *hir.Program, p *plan) []diag.Diagnostic {
	var diags []diag.Diagnostic

	for _, key := range p.order {
		name := p.names[key.String()]
		if prog.FunctionNamed(name) != nil {
			continue // already synthesized (e.g. a prior run's output observed again)
		}

		target := prog.FunctionNamed(key.Target)
		if target == nil {
			diags = append(diags, diag.Diagnostic{
				Stage: diag.StageMono, Severity: diag.SeverityWarning,
				Code:    diag.CodeMonoSkipMissingTarget,
				Message: "specialization target " + key.Target + " not found in program",
				Where:   diag.Where{Function: key.Target},
			})
			delete(p.names, key.String())
			for ck, ud := range p.unionTable {
				for concrete, n := range ud.Specializations {
					if n == name {
						delete(ud.Specializations, concrete)
					}
				}
				if len(ud.Specializations) == 0 {
					delete(p.unionTable, ck)
				}
			}
			continue
		}

		clone := cloneFunctionForSpecialization(target, name, p.concreteTypes[key.String()])
		prog.Functions = append(prog.Functions, clone)
	}

	return diags
}

// cloneFunctionForSpecialization deep-clones target's body and params,
// substituting each parameter's declared type with the concrete
// types.Type observed at the call sites that triggered this
// specialization — per spec "type = concrete_types[i]", not a
// synthetic type reconstructed from the naming suffix, so a NilType,
// BoolType, or parameterized ClassInstance (with its Args) survives
// the clone intact. A parameter without a corresponding position
// (width mismatch) keeps its original declared type.
func cloneFunctionForSpecialization(target *hir.Function, name string, concreteTypes []types.Type) *hir.Function {
	clone := &hir.Function{
		Name:             name,
		ReturnType:       target.ReturnType,
		IsInstanceMethod: target.IsInstanceMethod,
		OwnerClass:       target.OwnerClass,
	}

	clone.Params = make([]hir.Param, len(target.Params))
	for i, p := range target.Params {
		np := p
		if i < len(concreteTypes) {
			np.Type = concreteTypes[i]
		}
		clone.Params[i] = np
	}

	clone.Body = make([]*hir.BasicBlock, len(target.Body))
	for i, block := range target.Body {
		clone.Body[i] = cloneBlock(block)
	}

	return clone
}

func cloneBlock(block *hir.BasicBlock) *hir.BasicBlock {
	nb := &hir.BasicBlock{Label: block.Label}
	nb.Instructions = make([]hir.Instruction, len(block.Instructions))
	for i, instr := range block.Instructions {
		// CloneInstruction never aborts: a clone failure substitutes the
		// original instruction verbatim rather than corrupting the body.
		c, _ := hir.CloneInstruction(instr)
		nb.Instructions[i] = c
	}
	if block.Terminator != nil {
		c, _ := hir.CloneInstruction(block.Terminator)
		nb.Terminator = c
	}
	return nb
}

// annotate implements Step E: walk every collected entry once, and for
// each call node that survived Steps B/C, attach either a direct
// specialization name or a consolidated union-dispatch descriptor. A
// call already seen (the common case for a union site, which produces
// one callSite per expanded member) is never annotated twice.
func annotate(sites []callSite, p *plan) *Annotations {
	ann := NewAnnotations()
	processed := make(map[*hir.Call]bool)

	for ck, ud := range p.unionTable {
		for _, call := range p.unionCalls[ck] {
			if processed[call] {
				continue
			}
			ann.setUnion(call, ud)
			processed[call] = true
		}
	}

	for _, s := range sites {
		if s.UnionDispatch {
			continue
		}
		if processed[s.Call] {
			continue
		}
		key := Key{Target: s.Target, Types: types.SuffixesOf(s.Types)}.String()
		name, ok := p.names[key]
		if !ok {
			continue // dropped in Step B — left unannotated
		}
		ann.setDirect(s.Call, name)
		processed[s.Call] = true
	}

	return ann
}
