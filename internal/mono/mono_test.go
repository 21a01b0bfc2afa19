package mono_test

import (
	"testing"

	"github.com/malphas-lang/monomorphizer/internal/hir"
	"github.com/malphas-lang/monomorphizer/internal/mono"
	"github.com/malphas-lang/monomorphizer/internal/typeinfo"
	"github.com/malphas-lang/monomorphizer/internal/types"
)

func cls(name string) *types.ClassInstance { return &types.ClassInstance{Name: name} }

// callFunction builds a one-block function that self-calls target with
// the given argument values, exactly the shape the collector's
// inclusion filter expects.
func callFunction(name, target string, args ...hir.Value) *hir.Function {
	return &hir.Function{
		Name: name,
		Params: []hir.Param{{Name: "recv"}},
		Body: []*hir.BasicBlock{{
			Label: "entry",
			Instructions: []hir.Instruction{
				&hir.Call{Result: "r", Receiver: hir.SelfRef{}, Method: target, Args: args},
			},
		}},
	}
}

func plainTarget(name string, paramTypes ...types.Type) *hir.Function {
	params := make([]hir.Param, len(paramTypes))
	for i, t := range paramTypes {
		params[i] = hir.Param{Name: "p" + string(rune('0'+i)), Type: t}
	}
	return &hir.Function{Name: name, Params: params, Body: []*hir.BasicBlock{{Label: "entry"}}}
}

func TestTransformSimpleSpecialization(t *testing.T) {
	prog := &hir.Program{Functions: []*hir.Function{
		plainTarget("add", cls("Int")),
		callFunction("caller", "add", &hir.LoadLocal{Var: "x", Typ: cls("Int")}),
	}}

	report, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	name, ok := report.SpecializedName("add", []string{"Int"})
	if !ok || name != "add_Int" {
		t.Fatalf("SpecializedName = %q, %v; want add_Int, true", name, ok)
	}
	if prog.FunctionNamed("add_Int") == nil {
		t.Fatalf("specialized function add_Int not appended to program")
	}
}

func TestTransformUnionDispatch(t *testing.T) {
	union := &types.Union{Members: []types.Type{cls("Int"), cls("String")}}
	call := &hir.Call{Result: "r", Receiver: hir.SelfRef{}, Method: "show", Args: []hir.Value{&hir.LoadLocal{Var: "x", Typ: union}}}
	prog := &hir.Program{Functions: []*hir.Function{
		plainTarget("show", union),
		{
			Name:   "caller",
			Params: []hir.Param{{Name: "recv"}},
			Body:   []*hir.BasicBlock{{Label: "entry", Instructions: []hir.Instruction{call}}},
		},
	}}

	report, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	if prog.FunctionNamed("show_Int") == nil || prog.FunctionNamed("show_String") == nil {
		t.Fatalf("expected both show_Int and show_String to be synthesized")
	}

	ud, ok := report.Annotations.UnionDispatchFor(call)
	if !ok {
		t.Fatalf("call was not annotated with a union dispatch")
	}
	if ud.Target != "show" {
		t.Fatalf("UnionDispatch.Target = %q, want show", ud.Target)
	}
	if len(ud.Specializations) != 2 {
		t.Fatalf("Specializations = %v, want 2 entries", ud.Specializations)
	}
}

func TestTransformSkipsNilComparedParameter(t *testing.T) {
	param := hir.Param{Name: "p0", Type: cls("Int")}
	nilCheck := &hir.Call{
		Result:   "c",
		Receiver: &hir.LoadLocal{Var: "p0", Typ: cls("Int")},
		Method:   "==",
		Args:     []hir.Value{hir.NilLit{}},
	}
	target := &hir.Function{
		Name:   "maybe",
		Params: []hir.Param{param},
		Body:   []*hir.BasicBlock{{Label: "entry", Instructions: []hir.Instruction{nilCheck}}},
	}
	prog := &hir.Program{Functions: []*hir.Function{
		target,
		callFunction("caller", "maybe", &hir.LoadLocal{Var: "x", Typ: cls("Int")}),
	}}

	report, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if _, ok := report.SpecializedName("maybe", []string{"Int"}); ok {
		t.Fatalf("maybe should have been skipped for nil-comparing its parameter")
	}
	if prog.FunctionNamed("maybe_Int") != nil {
		t.Fatalf("maybe_Int should not have been synthesized")
	}
}

func TestTransformSkipsInconsistentSites(t *testing.T) {
	target := plainTarget("op", cls("Int"))
	prog := &hir.Program{Functions: []*hir.Function{
		target,
		callFunction("callerA", "op", &hir.LoadLocal{Var: "x", Typ: cls("Int")}),
		callFunction("callerB", "op", &hir.LoadLocal{Var: "y", Typ: cls("String")}),
	}}

	report, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if _, ok := report.SpecializedName("op", []string{"Int"}); ok {
		t.Fatalf("op should be skip-listed: its call sites disagree at position 0")
	}
	if _, ok := report.SpecializedName("op", []string{"String"}); ok {
		t.Fatalf("op should be skip-listed: its call sites disagree at position 0")
	}
}

func TestTransformIgnoresUnresolvedGeneric(t *testing.T) {
	target := plainTarget("identity", cls("T"))
	prog := &hir.Program{Functions: []*hir.Function{
		target,
		callFunction("caller", "identity", &hir.LoadLocal{Var: "x", Typ: cls("T")}),
	}}

	report, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(report.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic explaining the skipped unresolved-generic call")
	}
	if prog.FunctionNamed("identity_Any") != nil {
		t.Fatalf("identity should not be specialized over an unresolved generic parameter")
	}
}

func TestTransformSkipsRestParameterTarget(t *testing.T) {
	target := &hir.Function{
		Name:   "variadic",
		Params: []hir.Param{{Name: "args", Type: cls("Int"), Rest: true}},
		Body:   []*hir.BasicBlock{{Label: "entry"}},
	}
	prog := &hir.Program{Functions: []*hir.Function{
		target,
		callFunction("caller", "variadic", &hir.LoadLocal{Var: "x", Typ: cls("Int")}),
	}}

	report, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if _, ok := report.SpecializedName("variadic", []string{"Int"}); ok {
		t.Fatalf("a rest-parameter target must never be specialized")
	}
}

func TestTransformDeterministicAcrossRuns(t *testing.T) {
	build := func() *hir.Program {
		return &hir.Program{Functions: []*hir.Function{
			plainTarget("add", cls("Int")),
			callFunction("caller", "add", &hir.LoadLocal{Var: "x", Typ: cls("Int")}),
		}}
	}

	p1 := build()
	r1, err := mono.Transform(p1, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform (1st run): %v", err)
	}
	p2 := build()
	r2, err := mono.Transform(p2, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform (2nd run): %v", err)
	}

	n1, _ := r1.SpecializedName("add", []string{"Int"})
	n2, _ := r2.SpecializedName("add", []string{"Int"})
	if n1 != n2 {
		t.Fatalf("non-deterministic specialized name: %q vs %q", n1, n2)
	}
	if len(p1.Functions) != len(p2.Functions) {
		t.Fatalf("non-deterministic function count: %d vs %d", len(p1.Functions), len(p2.Functions))
	}
}

func TestTransformSpecializesNilParameterWithSingletonType(t *testing.T) {
	prog := &hir.Program{Functions: []*hir.Function{
		plainTarget("accept", cls("T")),
		callFunction("caller", "accept", hir.NilLit{}),
	}}

	_, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	clone := prog.FunctionNamed("accept_Nil")
	if clone == nil {
		t.Fatalf("expected accept_Nil to be synthesized")
	}
	if _, ok := clone.Params[0].Type.(types.NilType); !ok {
		t.Fatalf("accept_Nil's parameter type = %#v, want types.NilType{}", clone.Params[0].Type)
	}
}

func TestTransformSpecializesParameterizedClassInstancePreservesArgs(t *testing.T) {
	arrayOfInt := &types.ClassInstance{Name: "Array", Args: []types.Type{cls("Int")}}
	prog := &hir.Program{Functions: []*hir.Function{
		plainTarget("first", cls("T")),
		callFunction("caller", "first", &hir.LoadLocal{Var: "x", Typ: arrayOfInt}),
	}}

	_, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	clone := prog.FunctionNamed("first_Array")
	if clone == nil {
		t.Fatalf("expected first_Array to be synthesized")
	}
	ci, ok := clone.Params[0].Type.(*types.ClassInstance)
	if !ok {
		t.Fatalf("first_Array's parameter type = %#v, want *types.ClassInstance", clone.Params[0].Type)
	}
	if len(ci.Args) != 1 || ci.Args[0].String() != "Int" {
		t.Fatalf("first_Array's parameter type lost its Args: %#v", ci)
	}
}

func TestTransformNilProgram(t *testing.T) {
	if _, err := mono.Transform(nil, typeinfo.Static{}, mono.Options{}); err == nil {
		t.Fatalf("expected an error for a nil program")
	}
}
