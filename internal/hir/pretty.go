package hir

import (
	"fmt"
	"strings"
)

// PrettyPrint returns a human-readable dump of every function in the
// program, in declaration order. It is a debugging aid; neither the
// monomorphizer nor cmd/monoc calls it.
func (p *Program) PrettyPrint() string {
	var b strings.Builder
	for i, fn := range p.Functions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fn.PrettyPrint())
	}
	return b.String()
}

// PrettyPrint returns a human-readable signature-and-body dump of fn.
func (f *Function) PrettyPrint() string {
	var b strings.Builder
	if f.IsInstanceMethod {
		owner := f.OwnerClass
		if owner == "" {
			owner = "?"
		}
		fmt.Fprintf(&b, "fn %s#%s(", owner, f.Name)
	} else {
		fmt.Fprintf(&b, "fn %s(", f.Name)
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = paramString(p)
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") -> ")
	b.WriteString(typeString(f.ReturnType))
	b.WriteString(" {\n")
	for _, block := range f.Body {
		b.WriteString(block.PrettyPrint())
	}
	b.WriteString("}")
	return b.String()
}

func paramString(p Param) string {
	var flags []string
	if p.Rest {
		flags = append(flags, "rest")
	}
	if p.Keyword {
		flags = append(flags, "keyword")
	}
	if p.KeywordRest {
		flags = append(flags, "keyword_rest")
	}
	if p.Block {
		flags = append(flags, "block")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%s: %s", p.Name, typeString(p.Type))
	}
	return fmt.Sprintf("%s: %s[%s]", p.Name, typeString(p.Type), strings.Join(flags, ","))
}

// PrettyPrint returns a human-readable dump of a single basic block.
func (bb *BasicBlock) PrettyPrint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s:\n", bb.Label)
	for _, instr := range bb.Instructions {
		fmt.Fprintf(&b, "    %s\n", instructionString(instr))
	}
	if bb.Terminator != nil {
		fmt.Fprintf(&b, "    %s\n", instructionString(bb.Terminator))
	}
	return b.String()
}

func instructionString(instr Instruction) string {
	switch v := instr.(type) {
	case *Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = valueString(a)
		}
		recv := ""
		if v.Receiver != nil {
			recv = valueString(v.Receiver) + "."
		}
		result := ""
		if v.Result != "" {
			result = v.Result + " = "
		}
		return fmt.Sprintf("%s%s%s(%s)", result, recv, v.Method, strings.Join(args, ", "))
	case *LoadLocal:
		return fmt.Sprintf("load %s", v.Var)
	case NilLit:
		return "nil"
	case SelfRef:
		return "self"
	case Opaque:
		return fmt.Sprintf("<%s>", v.Kind)
	default:
		return fmt.Sprintf("<?instr:%T>", instr)
	}
}

func valueString(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return instructionValueString(v)
}

func instructionValueString(v Value) string {
	switch t := v.(type) {
	case *LoadLocal:
		return t.Var
	case NilLit:
		return "nil"
	case SelfRef:
		return "self"
	case *Call:
		return instructionString(t)
	case Opaque:
		return fmt.Sprintf("<%s>", t.Kind)
	default:
		return fmt.Sprintf("<?value:%T>", v)
	}
}

func typeString(t interface{ String() string }) string {
	if t == nil {
		return "void"
	}
	return t.String()
}
