// Package expr implements the flat-arena representation of untyped lambda
// calculus programs.
//
// All nodes of all programs live in a single append-only ExprSet and refer
// to each other through plain integer indices. This keeps subtrees
// contiguous (when spans are tracked), makes bulk copies between arenas a
// memcpy plus a constant index shift, and avoids a pointer graph entirely.
package expr

import (
	"fmt"
)

// Idx is a position in an ExprSet.
type Idx = int

// Hole marks a missing subterm. It is never a valid arena position and
// renders as "??".
const Hole Idx = -1

// NodeKind discriminates the variants of Node.
type NodeKind int

const (
	KindVar  NodeKind = iota // $i - de Bruijn index variable
	KindIVar                 // #i - de Bruijn index variable used by inventions
	KindPrim                 // primitive: functions, constants, all non-variable leaves
	KindApp                  // f applied to x
	KindLam                  // lambda abstraction, referred to through $i Vars
)

// Node is a single expression node. It is a flat tagged struct rather than
// an interface so that ExprSet stays a plain []Node.
type Node struct {
	Kind NodeKind
	DBI  int    // de Bruijn index (Var, IVar)
	Sym  string // primitive symbol (Prim)
	F    Idx    // function (App) or body (Lam)
	X    Idx    // argument (App)
}

// VarNode returns a $i de Bruijn variable node.
func VarNode(i int) Node { return Node{Kind: KindVar, DBI: i} }

// IVarNode returns a #i invention variable node.
func IVarNode(i int) Node { return Node{Kind: KindIVar, DBI: i} }

// PrimNode returns a primitive leaf node.
func PrimNode(sym string) Node { return Node{Kind: KindPrim, Sym: sym} }

// AppNode returns an application node over two existing positions.
func AppNode(f, x Idx) Node { return Node{Kind: KindApp, F: f, X: x} }

// LamNode returns an abstraction node over an existing body position.
func LamNode(body Idx) Node { return Node{Kind: KindLam, F: body} }

// Order records the index relation between parents and children in an
// ExprSet.
type Order int

const (
	// ChildFirst: every node's children have a strictly smaller index.
	// This is the natural result of bottom-up construction.
	ChildFirst Order = iota
	// ParentFirst: every node's children have a strictly larger index.
	ParentFirst
	// AnyOrder: no guaranteed relation, e.g. after mixing two
	// differently-ordered arenas.
	AnyOrder
)

func (o Order) String() string {
	switch o {
	case ChildFirst:
		return "child-first"
	case ParentFirst:
		return "parent-first"
	default:
		return "any"
	}
}

// Span is a half-open index range [Start,End) covering a node and the full
// transitive closure of its descendants.
type Span struct {
	Start Idx
	End   Idx
}

// ExprSet owns all expression nodes of one or more programs. It is
// append-only: nodes are never deleted, only truncated off the end. An
// ExprSet has no internal locking; concurrent mutation must be prevented by
// the caller. Read-only sharing is safe once construction is complete.
type ExprSet struct {
	Nodes []Node
	// Spans tracks the subtree span of every node. Nil unless span tracking
	// was requested at construction.
	Spans []Span
	Order Order

	trackSpans bool
}

// NewExprSet returns an empty arena with the given order tag, optionally
// maintaining subtree spans for every node.
func NewExprSet(order Order, trackSpans bool) *ExprSet {
	s := &ExprSet{Order: order, trackSpans: trackSpans}
	if trackSpans {
		s.Spans = []Span{}
	}
	return s
}

// TracksSpans reports whether the arena maintains subtree spans.
func (s *ExprSet) TracksSpans() bool { return s.trackSpans }

// Len returns the number of nodes in the arena.
func (s *ExprSet) Len() int { return len(s.Nodes) }

// Add appends a node and returns its position. Every index referenced by
// the node must already exist in the arena; a forward or out-of-range
// reference is a bug in the caller and yields an error.
//
// Span maintenance is O(1): the new node's span is the min/max union of its
// children's already-computed spans and its own index.
func (s *ExprSet) Add(n Node) (Idx, error) {
	idx := len(s.Nodes)
	switch n.Kind {
	case KindApp:
		if err := s.checkRef(n.F, idx); err != nil {
			return 0, err
		}
		if err := s.checkRef(n.X, idx); err != nil {
			return 0, err
		}
	case KindLam:
		if err := s.checkRef(n.F, idx); err != nil {
			return 0, err
		}
	}
	if s.trackSpans {
		var span Span
		switch n.Kind {
		case KindApp:
			f, x := s.Spans[n.F], s.Spans[n.X]
			span = Span{
				Start: min(min(f.Start, x.Start), idx),
				End:   max(max(f.End, x.End), idx+1),
			}
		case KindLam:
			b := s.Spans[n.F]
			span = Span{Start: min(b.Start, idx), End: max(b.End, idx+1)}
		default:
			span = Span{Start: idx, End: idx + 1}
		}
		s.Spans = append(s.Spans, span)
	}
	s.Nodes = append(s.Nodes, n)
	return idx, nil
}

func (s *ExprSet) checkRef(child, idx Idx) error {
	if child < 0 || child >= idx {
		return fmt.Errorf("expr: node at %d references %d which does not exist yet", idx, child)
	}
	return nil
}

// Get returns a non-owning view of the subtree rooted at idx. The view must
// not outlive the arena.
func (s *ExprSet) Get(idx Idx) Expr {
	return Expr{Set: s, Idx: idx}
}

// Slice returns the nodes in [span.Start, span.End). The returned slice
// aliases the arena.
func (s *ExprSet) Slice(span Span) []Node {
	return s.Nodes[span.Start:span.End]
}

// Truncate shrinks the arena to n nodes, discarding everything appended
// after. Used to throw away partially-built subtrees, e.g. after a parse
// failure.
func (s *ExprSet) Truncate(n int) {
	s.Nodes = s.Nodes[:n]
	if s.trackSpans {
		s.Spans = s.Spans[:n]
	}
}

// Span returns the subtree span of the node at idx. The second result is
// false when the arena does not track spans.
func (s *ExprSet) Span(idx Idx) (Span, bool) {
	if !s.trackSpans {
		return Span{}, false
	}
	return s.Spans[idx], true
}

// CopySpan copies the contiguous span of the subtree rooted at idx from s
// into dst, rewriting every internal index reference (and span, if dst
// tracks them) by a constant shift. It returns the root's position in dst.
//
// If the two arenas have opposite order tags the freshly appended slice is
// reversed in place, with references and spans remapped accordingly.
// Copying from an AnyOrder source into a ChildFirst or ParentFirst
// destination cannot preserve the destination's ordering invariant and is
// an error.
func (s *ExprSet) CopySpan(idx Idx, dst *ExprSet) (Idx, error) {
	if !s.trackSpans {
		return 0, fmt.Errorf("expr: CopySpan requires span tracking on the source arena")
	}
	if s.Order == AnyOrder && dst.Order != AnyOrder {
		return 0, fmt.Errorf("expr: cannot copy an any-ordered span into a %s arena", dst.Order)
	}
	span := s.Spans[idx]
	lo := dst.Len()
	shift := lo - span.Start
	hi := lo + (span.End - span.Start)

	reverse := (s.Order == ChildFirst && dst.Order == ParentFirst) ||
		(s.Order == ParentFirst && dst.Order == ChildFirst)
	// remap sends a shifted index through the in-place reversal.
	remap := func(i Idx) Idx {
		if reverse {
			return lo + hi - 1 - i
		}
		return i
	}

	for i := span.Start; i < span.End; i++ {
		n := s.Nodes[i]
		switch n.Kind {
		case KindApp:
			n.F = remap(n.F + shift)
			n.X = remap(n.X + shift)
		case KindLam:
			n.F = remap(n.F + shift)
		}
		dst.Nodes = append(dst.Nodes, n)
		if dst.trackSpans {
			sp := s.Spans[i]
			if reverse {
				// [a,b) reflected through the slice becomes [lo+hi-b, lo+hi-a).
				dst.Spans = append(dst.Spans, Span{
					Start: lo + hi - (sp.End + shift),
					End:   lo + hi - (sp.Start + shift),
				})
			} else {
				dst.Spans = append(dst.Spans, Span{Start: sp.Start + shift, End: sp.End + shift})
			}
		}
	}
	if reverse {
		reverseNodes(dst.Nodes[lo:hi])
		if dst.trackSpans {
			reverseSpans(dst.Spans[lo:hi])
		}
	}
	return remap(idx + shift), nil
}

func reverseNodes(nodes []Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

func reverseSpans(spans []Span) {
	for i, j := 0, len(spans)-1; i < j; i, j = i+1, j-1 {
		spans[i], spans[j] = spans[j], spans[i]
	}
}

// Expr is a non-owning (arena, index) view of a subtree.
type Expr struct {
	Set *ExprSet
	Idx Idx
}

// Node returns the node this view points at.
func (e Expr) Node() Node {
	return e.Set.Nodes[e.Idx]
}

// Get returns a view of another position in the same arena.
func (e Expr) Get(idx Idx) Expr {
	return Expr{Set: e.Set, Idx: idx}
}
