// Package types defines the closed type model the monomorphizer consumes
// from the TypeInfo oracle: a small tagged sum rather than an inheritance
// hierarchy, plus the Type Adapter operations the rest of the pipeline
// relies on (classification, suffix derivation, union expansion).
package types

import (
	"sort"
	"strings"
)

// Type is a value produced by Hindley-Milner inference augmented with
// user-supplied union signatures. It is one of ClassInstance, Nil, Bool,
// Union, Untyped, or TypeVar.
type Type interface {
	String() string
	isType()
}

// ClassInstance is a nominal class, optionally parameterized.
type ClassInstance struct {
	Name string
	Args []Type
}

func (c *ClassInstance) isType() {}
func (c *ClassInstance) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "[" + strings.Join(parts, ", ") + "]"
}

// NilType is the singleton type of the nil literal.
type NilType struct{}

func (NilType) isType()        {}
func (NilType) String() string { return "Nil" }

// BoolType is the singleton type of true/false.
type BoolType struct{}

func (BoolType) isType()        {}
func (BoolType) String() string { return "Bool" }

// Union is a sum of two or more member types. Members preserve the order
// they were constructed in; Expand relies on that order, while equality
// between unions (not needed by the core, but provided for completeness)
// goes through Key, which is order-insensitive.
type Union struct {
	Members []Type
}

func (u *Union) isType() {}
func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Key returns a deterministic, order-insensitive identity for the union,
// used only when a union itself (rather than its expanded members) needs
// a stable textual form.
func (u *Union) Key() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Untyped marks a value inference gave up on.
type Untyped struct{}

func (Untyped) isType()        {}
func (Untyped) String() string { return "Untyped" }

// TypeVar is a free inference variable that was never solved.
type TypeVar struct {
	ID string
}

func (t *TypeVar) isType()        {}
func (t *TypeVar) String() string { return "TypeVar(" + t.ID + ")" }

// ReservedGenericNames is the closed set of class-instance names treated as
// unresolved generic parameters rather than concrete classes.
var ReservedGenericNames = map[string]bool{
	"Elem": true, "K": true, "V": true, "U": true, "T": true,
	"S": true, "R": true, "E": true, "A": true, "B": true,
	"C": true, "D": true, "N": true, "M": true,
}

// IsPolymorphic is true when t gives no usable concrete shape: absent,
// Untyped, or an unsolved TypeVar.
func IsPolymorphic(t Type) bool {
	if t == nil {
		return true
	}
	switch t.(type) {
	case Untyped:
		return true
	case *TypeVar:
		return true
	default:
		return false
	}
}

// IsUnion reports whether t is a sum type.
func IsUnion(t Type) bool {
	_, ok := t.(*Union)
	return ok
}

// IsUnresolvedGeneric reports whether t is a ClassInstance whose name is a
// reserved generic parameter name, and so must not be specialized on.
func IsUnresolvedGeneric(t Type) bool {
	ci, ok := t.(*ClassInstance)
	if !ok {
		return false
	}
	return ReservedGenericNames[ci.Name]
}

// ToSuffix derives the stable name fragment used both to key a
// specialization and to build the specialized function's name.
func ToSuffix(t Type) string {
	switch v := t.(type) {
	case *ClassInstance:
		if ReservedGenericNames[v.Name] {
			return "Any"
		}
		return v.Name
	case NilType:
		return "Nil"
	case BoolType:
		return "Bool"
	default:
		return sanitize(t.String())
	}
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Expand computes the Cartesian product of a position list over union
// members: every Union position is replaced, in turn, by each of its
// members (in the member's declared order), while non-union positions
// are copied through unchanged. Ordering is left-to-right position order.
func Expand(ts []Type) [][]Type {
	if len(ts) == 0 {
		return [][]Type{{}}
	}
	head := ts[0]
	rest := Expand(ts[1:])

	var heads []Type
	if u, ok := head.(*Union); ok {
		heads = u.Members
	} else {
		heads = []Type{head}
	}

	out := make([][]Type, 0, len(heads)*len(rest))
	for _, h := range heads {
		for _, r := range rest {
			seq := make([]Type, 0, 1+len(r))
			seq = append(seq, h)
			seq = append(seq, r...)
			out = append(out, seq)
		}
	}
	return out
}

// Signature derives a grouping key for a type that may itself still be a
// Union — unlike ToSuffix (which only ever runs on already-concrete
// types), Signature is used to key union-dispatch descriptors by their
// original, unexpanded parameter/argument types.
func Signature(t Type) string {
	if u, ok := t.(*Union); ok {
		return "Union_" + sanitize(u.Key())
	}
	return ToSuffix(t)
}

// SignaturesOf maps Signature across a sequence.
func SignaturesOf(ts []Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = Signature(t)
	}
	return out
}

// SuffixesOf maps ToSuffix across a sequence; the result is both the
// specialization key's type-string component and the name fragment joined
// into a specialized function's name.
func SuffixesOf(ts []Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = ToSuffix(t)
	}
	return out
}
