// Package typeinfo is the external TypeInfo oracle contract the
// monomorphizer consumes: the result of Hindley-Milner inference plus
// user-supplied union signatures, exposed as a per-value type lookup.
// Its implementation (full inference, RBS ingestion) lives upstream and
// outside this repo's scope; this package only defines the interface and
// a small reference implementation used by tests and the CLI.
package typeinfo

import (
	"github.com/malphas-lang/monomorphizer/internal/hir"
	"github.com/malphas-lang/monomorphizer/internal/types"
)

// Oracle answers "what concrete (or polymorphic) type does this HIR
// value have" — the only capability the collector needs from inference.
// A value with no attached type yields Untyped, matching
// get_concrete_type's "Untyped if none" fallback from spec §4.2.
type Oracle interface {
	TypeOf(v hir.Value) types.Type
}

// Static is a reference Oracle backed by a value's own ValueType. It is
// the normal case for HIR produced by this repo's own fixtures and CLI
// loaders: every hir.Value already knows its type (LoadLocal, NilLit,
// SelfRef, and Call results all carry one), so there is nothing further
// to resolve — the oracle just forwards to the attached type.
type Static struct{}

// TypeOf returns v's attached type, or Untyped if v is nil or carries no
// type.
func (Static) TypeOf(v hir.Value) types.Type {
	if v == nil {
		return types.Untyped{}
	}
	t := v.ValueType()
	if t == nil {
		return types.Untyped{}
	}
	return t
}
