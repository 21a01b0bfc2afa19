// Package hirio loads and dumps hir.Program as JSON for the CLI: a DTO
// layer over the interface-heavy HIR types, since encoding/json cannot
// round-trip an interface field without a discriminated wrapper.
package hirio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/malphas-lang/monomorphizer/internal/hir"
	"github.com/malphas-lang/monomorphizer/internal/types"
)

// programDTO mirrors hir.Program for wire purposes.
type programDTO struct {
	Functions []functionDTO `json:"functions"`
}

type functionDTO struct {
	Name             string     `json:"name"`
	Params           []paramDTO `json:"params"`
	Body             []blockDTO `json:"body"`
	ReturnType       typeDTO    `json:"return_type,omitempty"`
	IsInstanceMethod bool       `json:"is_instance_method,omitempty"`
	OwnerClass       string     `json:"owner_class,omitempty"`
}

type paramDTO struct {
	Name        string  `json:"name"`
	Type        typeDTO `json:"type,omitempty"`
	Rest        bool    `json:"rest,omitempty"`
	Keyword     bool    `json:"keyword,omitempty"`
	KeywordRest bool    `json:"keyword_rest,omitempty"`
	Block       bool    `json:"block,omitempty"`
}

type blockDTO struct {
	Label        string          `json:"label"`
	Instructions []instrDTO      `json:"instructions,omitempty"`
	Terminator   *instrDTO       `json:"terminator,omitempty"`
}

// instrDTO is a discriminated union over the instruction/value kinds
// this core interprets, plus a passthrough for everything it doesn't.
type instrDTO struct {
	Kind     string    `json:"kind"`
	Var      string    `json:"var,omitempty"`
	Result   string    `json:"result,omitempty"`
	Method   string    `json:"method,omitempty"`
	Receiver *instrDTO `json:"receiver,omitempty"`
	Args     []instrDTO `json:"args,omitempty"`
	Type     typeDTO   `json:"type,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}

// typeDTO mirrors types.Type the same way instrDTO mirrors hir.Value:
// a discriminated union keyed by Kind.
type typeDTO struct {
	Kind    string    `json:"kind,omitempty"`
	Name    string    `json:"name,omitempty"`
	ID      string    `json:"id,omitempty"`
	Args    []typeDTO `json:"args,omitempty"`
	Members []typeDTO `json:"members,omitempty"`
}

// Load decodes a hir.Program from r.
func Load(r io.Reader) (*hir.Program, error) {
	var dto programDTO
	if err := json.NewDecoder(r).Decode(&dto); err != nil {
		return nil, fmt.Errorf("hirio: decode program: %w", err)
	}
	return dto.toProgram(), nil
}

// Dump encodes prog to w as indented JSON.
func Dump(w io.Writer, prog *hir.Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromProgram(prog)); err != nil {
		return fmt.Errorf("hirio: encode program: %w", err)
	}
	return nil
}

func fromProgram(prog *hir.Program) programDTO {
	if prog == nil {
		return programDTO{}
	}
	dto := programDTO{Functions: make([]functionDTO, len(prog.Functions))}
	for i, fn := range prog.Functions {
		dto.Functions[i] = fromFunction(fn)
	}
	return dto
}

func fromFunction(fn *hir.Function) functionDTO {
	d := functionDTO{
		Name:             fn.Name,
		ReturnType:       fromType(fn.ReturnType),
		IsInstanceMethod: fn.IsInstanceMethod,
		OwnerClass:       fn.OwnerClass,
	}
	d.Params = make([]paramDTO, len(fn.Params))
	for i, p := range fn.Params {
		d.Params[i] = paramDTO{
			Name: p.Name, Type: fromType(p.Type),
			Rest: p.Rest, Keyword: p.Keyword,
			KeywordRest: p.KeywordRest, Block: p.Block,
		}
	}
	d.Body = make([]blockDTO, len(fn.Body))
	for i, b := range fn.Body {
		d.Body[i] = fromBlock(b)
	}
	return d
}

func fromBlock(b *hir.BasicBlock) blockDTO {
	d := blockDTO{Label: b.Label}
	d.Instructions = make([]instrDTO, len(b.Instructions))
	for i, instr := range b.Instructions {
		d.Instructions[i] = fromInstruction(instr)
	}
	if b.Terminator != nil {
		t := fromInstruction(b.Terminator)
		d.Terminator = &t
	}
	return d
}

func fromInstruction(instr hir.Instruction) instrDTO {
	switch v := instr.(type) {
	case *hir.LoadLocal:
		return instrDTO{Kind: "load_local", Var: v.Var, Type: fromType(v.Typ)}
	case hir.NilLit:
		return instrDTO{Kind: "nil"}
	case hir.SelfRef:
		return instrDTO{Kind: "self", Type: fromType(v.Typ)}
	case *hir.Call:
		d := instrDTO{Kind: "call", Result: v.Result, Method: v.Method, Type: fromType(v.Typ)}
		if v.Receiver != nil {
			r := fromInstruction(v.Receiver.(hir.Instruction))
			d.Receiver = &r
		}
		d.Args = make([]instrDTO, len(v.Args))
		for i, a := range v.Args {
			if a == nil {
				continue
			}
			d.Args[i] = fromInstruction(a.(hir.Instruction))
		}
		return d
	case hir.Opaque:
		return instrDTO{Kind: "opaque:" + v.Kind, Type: fromType(v.Typ), Payload: v.Payload}
	default:
		return instrDTO{Kind: "unknown"}
	}
}

func fromType(t types.Type) typeDTO {
	switch v := t.(type) {
	case nil:
		return typeDTO{}
	case *types.ClassInstance:
		d := typeDTO{Kind: "class", Name: v.Name}
		d.Args = make([]typeDTO, len(v.Args))
		for i, a := range v.Args {
			d.Args[i] = fromType(a)
		}
		return d
	case types.NilType:
		return typeDTO{Kind: "nil"}
	case types.BoolType:
		return typeDTO{Kind: "bool"}
	case *types.Union:
		d := typeDTO{Kind: "union"}
		d.Members = make([]typeDTO, len(v.Members))
		for i, m := range v.Members {
			d.Members[i] = fromType(m)
		}
		return d
	case types.Untyped:
		return typeDTO{Kind: "untyped"}
	case *types.TypeVar:
		return typeDTO{Kind: "typevar", ID: v.ID}
	default:
		return typeDTO{}
	}
}

func (d programDTO) toProgram() *hir.Program {
	prog := &hir.Program{Functions: make([]*hir.Function, len(d.Functions))}
	for i, fd := range d.Functions {
		prog.Functions[i] = fd.toFunction()
	}
	return prog
}

func (d functionDTO) toFunction() *hir.Function {
	fn := &hir.Function{
		Name:             d.Name,
		ReturnType:       d.ReturnType.toType(),
		IsInstanceMethod: d.IsInstanceMethod,
		OwnerClass:       d.OwnerClass,
	}
	fn.Params = make([]hir.Param, len(d.Params))
	for i, pd := range d.Params {
		fn.Params[i] = hir.Param{
			Name: pd.Name, Type: pd.Type.toType(),
			Rest: pd.Rest, Keyword: pd.Keyword,
			KeywordRest: pd.KeywordRest, Block: pd.Block,
		}
	}
	fn.Body = make([]*hir.BasicBlock, len(d.Body))
	for i, bd := range d.Body {
		fn.Body[i] = bd.toBlock()
	}
	return fn
}

func (d blockDTO) toBlock() *hir.BasicBlock {
	b := &hir.BasicBlock{Label: d.Label}
	b.Instructions = make([]hir.Instruction, len(d.Instructions))
	for i, id := range d.Instructions {
		b.Instructions[i] = id.toInstruction()
	}
	if d.Terminator != nil {
		b.Terminator = d.Terminator.toInstruction()
	}
	return b
}

func (d instrDTO) toInstruction() hir.Instruction {
	switch {
	case d.Kind == "load_local":
		return &hir.LoadLocal{Var: d.Var, Typ: d.Type.toType()}
	case d.Kind == "nil":
		return hir.NilLit{}
	case d.Kind == "self":
		return hir.SelfRef{Typ: d.Type.toType()}
	case d.Kind == "call":
		c := &hir.Call{Result: d.Result, Method: d.Method, Typ: d.Type.toType()}
		if d.Receiver != nil {
			c.Receiver = d.Receiver.toInstruction().(hir.Value)
		}
		c.Args = make([]hir.Value, len(d.Args))
		for i, ad := range d.Args {
			c.Args[i] = ad.toInstruction().(hir.Value)
		}
		return c
	case len(d.Kind) > 7 && d.Kind[:7] == "opaque:":
		return hir.Opaque{Kind: d.Kind[7:], Typ: d.Type.toType(), Payload: d.Payload}
	default:
		return hir.Opaque{Kind: "unknown"}
	}
}

func (d typeDTO) toType() types.Type {
	switch d.Kind {
	case "":
		return nil
	case "class":
		args := make([]types.Type, len(d.Args))
		for i, a := range d.Args {
			args[i] = a.toType()
		}
		return &types.ClassInstance{Name: d.Name, Args: args}
	case "nil":
		return types.NilType{}
	case "bool":
		return types.BoolType{}
	case "union":
		members := make([]types.Type, len(d.Members))
		for i, m := range d.Members {
			members[i] = m.toType()
		}
		return &types.Union{Members: members}
	case "untyped":
		return types.Untyped{}
	case "typevar":
		return &types.TypeVar{ID: d.ID}
	default:
		return types.Untyped{}
	}
}
