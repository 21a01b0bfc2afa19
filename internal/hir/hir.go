// Package hir is the high-level intermediate representation consumed by
// the monomorphizer: an ordered, appendable program of functions built
// from basic blocks of instructions. Construction from source (parsing,
// lowering) happens upstream; this package only models the shape the
// middle-end reads and appends to.
package hir

import (
	"github.com/malphas-lang/monomorphizer/internal/types"
)

// Program is the whole compilation unit: an ordered, mutable sequence of
// functions. Specialization appends new functions; nothing is removed.
type Program struct {
	Functions []*Function
}

// FunctionNamed returns the first function in the program with the given
// name, the local-function lookup the collector and planner both need.
func (p *Program) FunctionNamed(name string) *Function {
	if p == nil {
		return nil
	}
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Function is a single HIR function: a name, an ordered parameter list, a
// body of basic blocks, and the metadata needed to decide instance-method
// dispatch (IsInstanceMethod, OwnerClass).
type Function struct {
	Name             string
	Params           []Param
	Body             []*BasicBlock
	ReturnType       types.Type
	IsInstanceMethod bool
	OwnerClass       string
}

// Param is one formal parameter. Rest, Keyword, KeywordRest and Block are
// independent, non-exclusive flags: a parameter may, in principle, carry
// more than one.
type Param struct {
	Name        string
	Type        types.Type
	Default     Value
	Rest        bool
	Keyword     bool
	KeywordRest bool
	Block       bool
}

// HasAggregatingFlag reports whether p collects a heterogeneous tail of
// arguments into a container (rest or keyword-rest), the shape the
// collector's inclusion filter refuses to specialize per parameter.
func (p Param) HasAggregatingFlag() bool {
	return p.Rest || p.KeywordRest
}

// BasicBlock is a label, an ordered instruction list, and an optional
// terminator.
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Terminator   Instruction
}

// Value is anything usable as a call argument, a parameter default, or a
// call receiver: a reference to a local, a nil literal, a self reference,
// or an opaque upstream value the core does not interpret.
type Value interface {
	ValueType() types.Type
	cloneValue() Value
}

// Instruction is a single operation within a basic block, or a block's
// terminator. The core only inspects Call; every other instruction kind
// — including ones this package never defines, carried as Opaque — is
// copied through a specialized function's body unexamined.
type Instruction interface {
	cloneInstruction() Instruction
}

// LoadLocal reads the current value of a local variable.
type LoadLocal struct {
	Var string
	Typ types.Type
}

func (l *LoadLocal) ValueType() types.Type  { return l.Typ }
func (l *LoadLocal) cloneValue() Value      { c := *l; return &c }
func (l *LoadLocal) cloneInstruction() Instruction { c := *l; return &c }

// NilLit is the nil literal.
type NilLit struct{}

func (NilLit) ValueType() types.Type          { return types.NilType{} }
func (n NilLit) cloneValue() Value            { return n }
func (n NilLit) cloneInstruction() Instruction { return n }

// SelfRef is a reference to the receiver of the enclosing method.
type SelfRef struct {
	Typ types.Type
}

func (s SelfRef) ValueType() types.Type          { return s.Typ }
func (s SelfRef) cloneValue() Value              { return s }
func (s SelfRef) cloneInstruction() Instruction { return s }

// Call invokes Method on Receiver with Args, binding the result (if any)
// to Result. Receiver is nil for a plain local call.
type Call struct {
	Result   string
	Receiver Value
	Method   string
	Args     []Value
	Typ      types.Type
}

func (c *Call) ValueType() types.Type { return c.Typ }
func (c *Call) cloneValue() Value     { return c.cloneInstruction().(*Call) }
func (c *Call) cloneInstruction() Instruction {
	clone := &Call{Result: c.Result, Method: c.Method, Typ: c.Typ}
	if c.Receiver != nil {
		clone.Receiver = c.Receiver.cloneValue()
	}
	clone.Args = make([]Value, len(c.Args))
	for i, a := range c.Args {
		if a == nil {
			continue
		}
		clone.Args[i] = a.cloneValue()
	}
	return clone
}

// Opaque wraps any upstream instruction or value the core has no
// business interpreting (arithmetic, field access, branches, literals
// other than nil...). It is copied by value, verbatim, so the back end
// still sees exactly what the original function saw.
type Opaque struct {
	Kind    string
	Typ     types.Type
	Payload any
}

func (o Opaque) ValueType() types.Type          { return o.Typ }
func (o Opaque) cloneValue() Value              { return o }
func (o Opaque) cloneInstruction() Instruction { return o }

// CloneInstruction copies a single instruction by value. It never fails
// for the instruction kinds this package defines; a nil instruction
// clones to nil so an absent terminator stays absent.
func CloneInstruction(instr Instruction) (clone Instruction, ok bool) {
	if instr == nil {
		return nil, true
	}
	defer func() {
		if r := recover(); r != nil {
			clone, ok = instr, false
		}
	}()
	return instr.cloneInstruction(), true
}

// CloneValue copies a value by value, with the same never-abort
// guarantee as CloneInstruction.
func CloneValue(v Value) (clone Value, ok bool) {
	if v == nil {
		return nil, true
	}
	defer func() {
		if r := recover(); r != nil {
			clone, ok = v, false
		}
	}()
	return v.cloneValue(), true
}
