package mono

// UnionDispatch is the metadata attached to a call node whose argument
// types are unions: it tells the back end how to choose among the
// specialized clones reachable from that single call site.
type UnionDispatch struct {
	Target string
	// OriginalTypes are the suffix/signature forms of the types the
	// union positions were expanded from, in call-argument order.
	OriginalTypes []string
	// UnionPositions are the indices within OriginalTypes that actually
	// varied — the only positions the back end needs to test.
	UnionPositions []int
	// Specializations maps a joined concrete-type-suffix sequence
	// (Key{Types: suffixes}.String(), covering every argument position,
	// not only UnionPositions) to the specialized function's name.
	Specializations map[string]string
}

// annotation is the side-table payload for a single call node: exactly
// one of DirectSpec or Union is ever populated, never both.
type annotation struct {
	DirectSpec string
	Union      *UnionDispatch
}

// Annotations is the recommended representation from spec §9: a
// side-table keyed by call-node identity rather than a mutated field on
// the call node itself, so hir.Call stays free of monomorphizer-specific
// payload types.
type Annotations struct {
	byCall map[any]annotation
}

// NewAnnotations creates an empty annotation table.
func NewAnnotations() *Annotations {
	return &Annotations{byCall: make(map[any]annotation)}
}

func (a *Annotations) setDirect(call any, name string) {
	a.byCall[call] = annotation{DirectSpec: name}
}

func (a *Annotations) setUnion(call any, ud *UnionDispatch) {
	a.byCall[call] = annotation{Union: ud}
}

// DirectSpec returns the specialized function name attached to call, if
// any.
func (a *Annotations) DirectSpec(call any) (string, bool) {
	ann, ok := a.byCall[call]
	if !ok || ann.DirectSpec == "" {
		return "", false
	}
	return ann.DirectSpec, true
}

// UnionDispatchFor returns the union-dispatch descriptor attached to
// call, if any.
func (a *Annotations) UnionDispatchFor(call any) (*UnionDispatch, bool) {
	ann, ok := a.byCall[call]
	if !ok || ann.Union == nil {
		return nil, false
	}
	return ann.Union, true
}

// Len reports how many call nodes carry an annotation.
func (a *Annotations) Len() int {
	return len(a.byCall)
}
