package typesystem

import "fmt"

// RawTypeRef is a bare index into a TypeSet, with no notion of variable
// scope.
type RawTypeRef int

// TypeRef is a RawTypeRef plus a scope shift: a variable id j stored under
// a TypeRef with shift s denotes the logical variable j+s. This is what
// lets a polymorphic scheme be instantiated into a fresh scope without
// rewriting any nodes.
type TypeRef struct {
	Raw   RawTypeRef
	Shift int
}

// Shifted wraps the raw reference with a scope shift.
func (r RawTypeRef) Shifted(shift int) TypeRef {
	return TypeRef{Raw: r, Shift: shift}
}

// TNode is a type term stored in a TypeSet: a variable or a named
// constructor whose children are references into the same set.
type TNode struct {
	Kind TypeKind
	V    int          // variable id (TypeVar)
	Sym  string       // constructor name (TypeTerm)
	Args []RawTypeRef // constructor arguments (TypeTerm)
}

type refBinding struct {
	v  int
	tp TypeRef
}

// TypeSet is the flat arena of type terms plus the unification state over
// them: an append-only substitution log and the next unused logical
// variable id. Each node caches the maximum variable id occurring in its
// subterm so Instantiate knows how many fresh variables to allocate
// without re-traversing the term.
type TypeSet struct {
	Nodes   []TNode
	maxVars []int // cached max var id per node, -1 when ground
	subst   []refBinding
	nextVar int
}

// SetState captures a TypeSet's unification state for rollback. The same
// last-in first-out discipline as Context.State applies.
type SetState struct {
	substLen int
	nextVar  int
}

// NewTypeSet returns an empty type arena.
func NewTypeSet() *TypeSet {
	return &TypeSet{}
}

// AddTp appends a whole Type tree and returns the reference of its root.
func (ts *TypeSet) AddTp(tp Type) RawTypeRef {
	if tp.Kind == TypeVar {
		return ts.AddNode(TNode{Kind: TypeVar, V: tp.V})
	}
	args := make([]RawTypeRef, len(tp.Args))
	for i, arg := range tp.Args {
		args[i] = ts.AddTp(arg)
	}
	return ts.AddNode(TNode{Kind: TypeTerm, Sym: tp.Sym, Args: args})
}

// AddNode appends a single node whose children already exist in the set,
// caching the maximum variable id occurring within it.
func (ts *TypeSet) AddNode(n TNode) RawTypeRef {
	maxVar := -1
	if n.Kind == TypeVar {
		maxVar = n.V
	} else {
		for _, arg := range n.Args {
			if mv := ts.maxVars[arg]; mv > maxVar {
				maxVar = mv
			}
		}
	}
	ts.maxVars = append(ts.maxVars, maxVar)
	ts.Nodes = append(ts.Nodes, n)
	return RawTypeRef(len(ts.Nodes) - 1)
}

// AddArrow appends the arrow term left -> right.
func (ts *TypeSet) AddArrow(left, right RawTypeRef) RawTypeRef {
	return ts.AddNode(TNode{Kind: TypeTerm, Sym: ArrowSym, Args: []RawTypeRef{left, right}})
}

// Node returns the node behind a raw reference.
func (ts *TypeSet) Node(r RawTypeRef) TNode {
	return ts.Nodes[r]
}

// MaxVar returns the cached maximum variable id in the subterm rooted at
// r; false when the subterm is ground.
func (ts *TypeSet) MaxVar(r RawTypeRef) (int, bool) {
	mv := ts.maxVars[r]
	return mv, mv >= 0
}

// Instantiate allocates fresh logical variables for every variable of the
// scheme rooted at r and returns a reference to it in that fresh scope. No
// nodes are copied or rewritten: only the shift changes, so this is O(1)
// regardless of term size.
func (ts *TypeSet) Instantiate(r RawTypeRef) TypeRef {
	shiftBy := ts.nextVar
	if maxVar, ok := ts.MaxVar(r); ok {
		ts.nextVar += maxVar + 1
	}
	return r.Shifted(shiftBy)
}

// SaveState captures the substitution log and variable counter.
func (ts *TypeSet) SaveState() SetState {
	return SetState{substLen: len(ts.subst), nextVar: ts.nextVar}
}

// LoadState rolls the unification state back by truncation. Term nodes are
// kept; they are harmless and may be reused.
func (ts *TypeSet) LoadState(st SetState) {
	ts.subst = ts.subst[:st.substLen]
	ts.nextVar = st.nextVar
}

// NextVar returns the next unused logical variable id.
func (ts *TypeSet) NextVar() int { return ts.nextVar }

// getVar returns what a logical variable is bound to, searching the log
// from the end so later bindings shadow earlier ones.
func (ts *TypeSet) getVar(v int) (TypeRef, bool) {
	for i := len(ts.subst) - 1; i >= 0; i-- {
		if ts.subst[i].v == v {
			return ts.subst[i].tp, true
		}
	}
	return TypeRef{}, false
}

func (ts *TypeSet) setVar(v int, tp TypeRef) error {
	if _, bound := ts.getVar(v); bound {
		return ErrRebind
	}
	ts.subst = append(ts.subst, refBinding{v: v, tp: tp})
	return nil
}

// Canonicalize resolves a chain of variable bindings to its current
// representative: while the reference points at a bound variable, follow
// the binding. Analogous to a union-find find, without path compression.
func (ts *TypeSet) Canonicalize(t TypeRef) TypeRef {
	n := ts.Node(t.Raw)
	if n.Kind == TypeVar {
		if bound, ok := ts.getVar(n.V + t.Shift); ok {
			return ts.Canonicalize(bound)
		}
	}
	return t
}

// occurs reports whether logical variable i occurs in t, after
// canonicalization and shifting.
func (ts *TypeSet) occurs(i int, t TypeRef) bool {
	canonical := ts.Canonicalize(t)
	n := ts.Node(canonical.Raw)
	if n.Kind == TypeVar {
		return i == n.V+canonical.Shift
	}
	for _, arg := range n.Args {
		if ts.occurs(i, arg.Shifted(canonical.Shift)) {
			return true
		}
	}
	return false
}

// IsConcreteRaw reports whether the subterm rooted at r contains no
// variables.
func (ts *TypeSet) IsConcreteRaw(r RawTypeRef) bool {
	_, hasVar := ts.MaxVar(r)
	return !hasVar
}

// IsConcrete reports whether t resolves to a term with no unbound
// variables.
func (ts *TypeSet) IsConcrete(t TypeRef) bool {
	canonical := ts.Canonicalize(t)
	n := ts.Node(canonical.Raw)
	if n.Kind == TypeVar {
		return false
	}
	for _, arg := range n.Args {
		if !ts.IsConcrete(arg.Shifted(canonical.Shift)) {
			return false
		}
	}
	return true
}

// AsArrowRaw splits the term at r into the two sides of an arrow.
func (ts *TypeSet) AsArrowRaw(r RawTypeRef) (RawTypeRef, RawTypeRef, bool) {
	n := ts.Node(r)
	if n.Kind != TypeTerm || n.Sym != ArrowSym || len(n.Args) != 2 {
		return 0, 0, false
	}
	return n.Args[0], n.Args[1], true
}

// AsArrow canonicalizes t and splits it into the two sides of an arrow,
// each carrying the canonical shift.
func (ts *TypeSet) AsArrow(t TypeRef) (TypeRef, TypeRef, bool) {
	canonical := ts.Canonicalize(t)
	left, right, ok := ts.AsArrowRaw(canonical.Raw)
	if !ok {
		return TypeRef{}, TypeRef{}, false
	}
	return left.Shifted(canonical.Shift), right.Shifted(canonical.Shift), true
}

// IsArrow reports whether t resolves to a function type.
func (ts *TypeSet) IsArrow(t TypeRef) bool {
	_, _, ok := ts.AsArrow(t)
	return ok
}

// Arity is the number of uncurried arguments of the arrow chain at t.
func (ts *TypeSet) Arity(t TypeRef) int {
	n := 0
	for {
		_, right, ok := ts.AsArrow(t)
		if !ok {
			return n
		}
		n++
		t = right
	}
}

// ReturnType is the rightmost type of the arrow chain at t, or t itself
// when it is not an arrow.
func (ts *TypeSet) ReturnType(t TypeRef) TypeRef {
	for {
		_, right, ok := ts.AsArrow(t)
		if !ok {
			return t
		}
		t = right
	}
}

// Tp materializes the subterm rooted at r into an owned Type tree with
// unshifted variable ids. Convenient for display and tests; slow compared
// to working on references.
func (ts *TypeSet) Tp(r RawTypeRef) Type {
	n := ts.Node(r)
	if n.Kind == TypeVar {
		return NewVar(n.V)
	}
	args := make([]Type, len(n.Args))
	for i, arg := range n.Args {
		args[i] = ts.Tp(arg)
	}
	return Type{Kind: TypeTerm, Sym: n.Sym, Args: args}
}

// TpShifted materializes t with its shift applied to every variable id.
// Bindings are not resolved.
func (ts *TypeSet) TpShifted(t TypeRef) Type {
	n := ts.Node(t.Raw)
	if n.Kind == TypeVar {
		return NewVar(n.V + t.Shift)
	}
	args := make([]Type, len(n.Args))
	for i, arg := range n.Args {
		args[i] = ts.TpShifted(arg.Shifted(t.Shift))
	}
	return Type{Kind: TypeTerm, Sym: n.Sym, Args: args}
}

// Resolve materializes t with both the shift and the substitution applied:
// every bound variable is replaced by what it resolves to.
func (ts *TypeSet) Resolve(t TypeRef) Type {
	canonical := ts.Canonicalize(t)
	n := ts.Node(canonical.Raw)
	if n.Kind == TypeVar {
		return NewVar(n.V + canonical.Shift)
	}
	args := make([]Type, len(n.Args))
	for i, arg := range n.Args {
		args[i] = ts.Resolve(arg.Shifted(canonical.Shift))
	}
	return Type{Kind: TypeTerm, Sym: n.Sym, Args: args}
}

// Show renders a shifted reference for debugging.
func (ts *TypeSet) Show(t TypeRef) string {
	return fmt.Sprintf("[shift %d] %s", t.Shift, ts.Tp(t.Raw))
}

// MightUnify is the conservative pre-check over the arena: false means
// Unify is certain to fail. It works even when t1 has not been
// instantiated into fresh variables, which is why the first argument is a
// raw reference.
func (ts *TypeSet) MightUnify(t1 RawTypeRef, t2 TypeRef) bool {
	n1 := ts.Node(t1)
	canonical2 := ts.Canonicalize(t2)
	n2 := ts.Node(canonical2.Raw)
	if n1.Kind == TypeVar || n2.Kind == TypeVar {
		return true
	}
	if n1.Sym != n2.Sym || len(n1.Args) != len(n2.Args) {
		return false
	}
	for i := range n1.Args {
		if !ts.MightUnify(n1.Args[i], n2.Args[i].Shifted(canonical2.Shift)) {
			return false
		}
	}
	return true
}

// Unify makes t1 and t2 equal under the substitution log, binding logical
// variables as needed. Recoverable failures are *UnifyError (Occurs,
// Production); ErrRebind is an invariant violation.
func (ts *TypeSet) Unify(t1, t2 TypeRef) error {
	canonical1 := ts.Canonicalize(t1)
	canonical2 := ts.Canonicalize(t2)
	n1 := ts.Node(canonical1.Raw)
	n2 := ts.Node(canonical2.Raw)

	if n1.Kind == TypeVar {
		shifted := n1.V + canonical1.Shift
		// identical variable on both sides is a no-op
		if n2.Kind == TypeVar && shifted == n2.V+canonical2.Shift {
			return nil
		}
		if ts.occurs(shifted, canonical2) {
			return ts.errUnify(Occurs, canonical1, canonical2)
		}
		return ts.setVar(shifted, canonical2)
	}
	if n2.Kind == TypeVar {
		shifted := n2.V + canonical2.Shift
		if ts.occurs(shifted, canonical1) {
			return ts.errUnify(Occurs, canonical1, canonical2)
		}
		return ts.setVar(shifted, canonical1)
	}

	if n1.Sym != n2.Sym || len(n1.Args) != len(n2.Args) {
		return ts.errUnify(Production, canonical1, canonical2)
	}
	for i := range n1.Args {
		if err := ts.Unify(n1.Args[i].Shifted(canonical1.Shift), n2.Args[i].Shifted(canonical2.Shift)); err != nil {
			return err
		}
	}
	return nil
}

func (ts *TypeSet) errUnify(kind UnifyErrKind, t1, t2 TypeRef) error {
	return &UnifyError{Kind: kind, T1: ts.TpShifted(t1).String(), T2: ts.TpShifted(t2).String()}
}
