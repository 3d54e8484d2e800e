// Package infer implements type inference for the expression arena: a
// recursive walk that allocates fresh type variables for lambda parameters
// and application results, unifies function types against argument and
// result types, and consults the domain signature for primitive schemes.
package infer

import (
	"errors"
	"fmt"

	"github.com/funvibe/lamb/internal/dsl"
	"github.com/funvibe/lamb/internal/expr"
	"github.com/funvibe/lamb/internal/typesystem"
)

// Invariant violations: these indicate a malformed program or a bug in
// the caller, not a type error.
var (
	// ErrUnboundVar: a $i variable deeper than the enclosing binders.
	ErrUnboundVar = errors.New("unbound variable encountered during inference")
	// ErrIVar: #i invention variables are type-checked by the invention
	// machinery, not this driver.
	ErrIVar = errors.New("cannot infer an invention variable")
	// ErrUnknownPrim: a primitive the signature has no scheme for.
	ErrUnknownPrim = errors.New("unknown primitive")
)

// Env is the de Bruijn variable environment: the front entry is the
// innermost, most recently bound parameter type.
type Env struct {
	tps []typesystem.Type
}

// NewEnv returns an environment with the given types, front first.
func NewEnv(tps ...typesystem.Type) *Env {
	return &Env{tps: tps}
}

// Push binds a new innermost parameter type.
func (e *Env) Push(tp typesystem.Type) {
	e.tps = append(e.tps, typesystem.Type{})
	copy(e.tps[1:], e.tps)
	e.tps[0] = tp
}

// Pop unbinds the innermost parameter type.
func (e *Env) Pop() {
	e.tps = e.tps[1:]
}

// At returns the type bound at de Bruijn depth i.
func (e *Env) At(i int) (typesystem.Type, bool) {
	if i < 0 || i >= len(e.tps) {
		return typesystem.Type{}, false
	}
	return e.tps[i], true
}

// Len is the current binder depth.
func (e *Env) Len() int { return len(e.tps) }

// Infer computes the type of the subtree rooted at idx, mutating the
// context with the bindings unification discovers. Arguments are inferred
// before functions, matching the arena's natural evaluation order.
func Infer(set *expr.ExprSet, idx expr.Idx, ctx *typesystem.Context, env *Env, sig dsl.Signature) (typesystem.Type, error) {
	n := set.Nodes[idx]
	switch n.Kind {
	case expr.KindApp:
		xTp, err := Infer(set, n.X, ctx, env, sig)
		if err != nil {
			return typesystem.Type{}, err
		}
		fTp, err := Infer(set, n.F, ctx, env, sig)
		if err != nil {
			return typesystem.Type{}, err
		}
		returnTp := ctx.FreshVar()
		if err := ctx.Unify(fTp, typesystem.Arrow(xTp, returnTp)); err != nil {
			return typesystem.Type{}, err
		}
		return returnTp.Apply(ctx), nil
	case expr.KindLam:
		paramTp := ctx.FreshVar()
		env.Push(paramTp)
		bodyTp, err := Infer(set, n.F, ctx, env, sig)
		env.Pop()
		if err != nil {
			return typesystem.Type{}, err
		}
		return typesystem.Arrow(paramTp, bodyTp).Apply(ctx), nil
	case expr.KindVar:
		tp, ok := env.At(n.DBI)
		if !ok {
			return typesystem.Type{}, fmt.Errorf("%w: $%d at depth %d", ErrUnboundVar, n.DBI, env.Len())
		}
		return tp.Apply(ctx), nil
	case expr.KindIVar:
		return typesystem.Type{}, fmt.Errorf("%w: #%d", ErrIVar, n.DBI)
	default:
		scheme, ok := sig.TypeOfPrim(n.Sym)
		if !ok {
			return typesystem.Type{}, fmt.Errorf("%w: %s", ErrUnknownPrim, n.Sym)
		}
		return scheme.Instantiate(ctx), nil
	}
}

// InferParsed parses a program into a fresh arena and infers its type
// under an empty environment.
func InferParsed(program string, sig dsl.Signature) (typesystem.Type, error) {
	set, root, err := expr.Parse(program)
	if err != nil {
		return typesystem.Type{}, err
	}
	return Infer(set, root, typesystem.NewContext(), NewEnv(), sig)
}
