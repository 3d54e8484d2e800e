package typesystem

import (
	"errors"
	"fmt"
)

// UnifyErrKind classifies recoverable unification failures.
type UnifyErrKind int

const (
	// Occurs: binding the variable would construct an infinite type,
	// e.g. unify(t0, t0 -> int).
	Occurs UnifyErrKind = iota
	// ConcreteSubtree: two fully ground, unequal types. Only produced by
	// the tree-based engine's concrete fast path.
	ConcreteSubtree
	// Production: mismatched head symbol or arity.
	Production
)

func (k UnifyErrKind) String() string {
	switch k {
	case Occurs:
		return "occurs"
	case ConcreteSubtree:
		return "concrete subtree"
	case Production:
		return "production"
	default:
		return fmt.Sprintf("unify error %d", int(k))
	}
}

// UnifyError is a recoverable unification failure.
type UnifyError struct {
	Kind   UnifyErrKind
	T1, T2 string // rendered types, for the message only
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", e.T1, e.T2, e.Kind)
}

// UnifyErrKindOf extracts the failure kind from an error returned by Unify.
// The second result is false for invariant-violation errors.
func UnifyErrKindOf(err error) (UnifyErrKind, bool) {
	var ue *UnifyError
	if errors.As(err, &ue) {
		return ue.Kind, true
	}
	return 0, false
}

// Invariant violations. These indicate a bug in the caller and should not
// be caught and retried.
var (
	// ErrRebind: a type variable was bound a second time.
	ErrRebind = errors.New("type variable is already bound")
	// ErrNoRollback: SaveState/LoadState on a union-find context, which
	// has no binding log to truncate.
	ErrNoRollback = errors.New("rollback requires an append-only context")
)

func errOccurs(t1, t2 fmt.Stringer) error {
	return &UnifyError{Kind: Occurs, T1: t1.String(), T2: t2.String()}
}

func errConcrete(t1, t2 fmt.Stringer) error {
	return &UnifyError{Kind: ConcreteSubtree, T1: t1.String(), T2: t2.String()}
}

func errProduction(t1, t2 fmt.Stringer) error {
	return &UnifyError{Kind: Production, T1: t1.String(), T2: t2.String()}
}
