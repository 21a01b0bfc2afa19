package mono

import (
	"github.com/malphas-lang/monomorphizer/internal/hir"
	"github.com/malphas-lang/monomorphizer/internal/typeinfo"
	"github.com/malphas-lang/monomorphizer/internal/types"
)

// callSite is one recorded observation: a call node, the function it
// appears in, the local target it resolves to, and the type sequence
// that should drive specialization.
type callSite struct {
	Call    *hir.Call
	Context *hir.Function
	Target  string

	// Types is the sequence that keys this observation: the call's
	// concrete argument types for a non-union site, or one member of
	// expand(typesToExpand) for a union site.
	Types []types.Type

	UnionDispatch bool
	// OriginalTypes is only set when UnionDispatch is true: the
	// pre-expansion sequence (param-or-arg union at each varying
	// position) that produced this and its sibling entries.
	OriginalTypes []types.Type
}

// collect walks every function's blocks in program order, applies the
// inclusion filter of spec §4.2 to every Call instruction, and returns
// one callSite per passing call (more than one for a union-typed call,
// one per expand() member).
func collect(prog *hir.Program, ti typeinfo.Oracle) []callSite {
	var sites []callSite

	for _, fn := range prog.Functions {
		for _, block := range fn.Body {
			for _, instr := range allInstructions(block) {
				call, ok := instr.(*hir.Call)
				if !ok {
					continue
				}
				sites = append(sites, collectCall(prog, ti, fn, call)...)
			}
		}
	}
	return sites
}

func allInstructions(block *hir.BasicBlock) []hir.Instruction {
	if block.Terminator == nil {
		return block.Instructions
	}
	return append(append([]hir.Instruction{}, block.Instructions...), block.Terminator)
}

func collectCall(prog *hir.Program, ti typeinfo.Oracle, ctx *hir.Function, call *hir.Call) []callSite {
	// Filter 1: only self-calls are eligible; cross-instance calls are
	// left to the back end even when statically resolvable.
	if _, isSelf := call.Receiver.(hir.SelfRef); !isSelf {
		return nil
	}

	// Filter 2: local-function lookup only.
	target := prog.FunctionNamed(call.Method)
	if target == nil {
		return nil
	}

	// Filter 3: target must take at least one parameter.
	if len(target.Params) == 0 {
		return nil
	}

	// Filter 4: no aggregating (rest / keyword-rest) parameter —
	// per-element specialization over a heterogeneous container is
	// unsound.
	for _, p := range target.Params {
		if p.HasAggregatingFlag() {
			return nil
		}
	}

	paramTypes := make([]types.Type, len(target.Params))
	for i, p := range target.Params {
		paramTypes[i] = p.Type
	}
	argTypes := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = ti.TypeOf(a)
	}

	hasUnion := false
	for _, t := range paramTypes {
		if types.IsUnion(t) {
			hasUnion = true
			break
		}
	}
	if !hasUnion {
		for _, t := range argTypes {
			if types.IsUnion(t) {
				hasUnion = true
				break
			}
		}
	}

	if hasUnion {
		return collectUnionBranch(ctx, call, target.Name, paramTypes, argTypes)
	}
	return collectDirectBranch(ctx, call, target.Name, argTypes)
}

func collectUnionBranch(ctx *hir.Function, call *hir.Call, target string, paramTypes, argTypes []types.Type) []callSite {
	n := len(argTypes)
	if len(paramTypes) > n {
		n = len(paramTypes)
	}
	typesToExpand := make([]types.Type, n)
	for i := 0; i < n; i++ {
		var pt, at types.Type
		if i < len(paramTypes) {
			pt = paramTypes[i]
		}
		if i < len(argTypes) {
			at = argTypes[i]
		}
		switch {
		case types.IsUnion(pt):
			typesToExpand[i] = pt
		case types.IsUnion(at):
			typesToExpand[i] = at
		case at != nil:
			typesToExpand[i] = at
		default:
			typesToExpand[i] = pt
		}
	}

	expanded := types.Expand(typesToExpand)
	sites := make([]callSite, 0, len(expanded))
	for _, seq := range expanded {
		sites = append(sites, callSite{
			Call:          call,
			Context:       ctx,
			Target:        target,
			Types:         seq,
			UnionDispatch: true,
			OriginalTypes: typesToExpand,
		})
	}
	return sites
}

func collectDirectBranch(ctx *hir.Function, call *hir.Call, target string, argTypes []types.Type) []callSite {
	for _, t := range argTypes {
		if types.IsPolymorphic(t) {
			return nil
		}
	}
	return []callSite{{
		Call:    call,
		Context: ctx,
		Target:  target,
		Types:   argTypes,
	}}
}
