// Package typesystem implements Hindley-Milner style type terms and
// unification for the program arena.
//
// Two interchangeable engines are provided behind the same error contract:
// the classical tree-based Context operating on owned Type trees, and the
// arena-based TypeSet whose index+shift TypeRefs make polymorphic
// instantiation O(1).
package typesystem

import (
	"fmt"
	"strings"
)

// ArrowSym is the head symbol of function types.
const ArrowSym = "->"

// TypeKind discriminates the variants of Type and TNode.
type TypeKind int

const (
	TypeVar  TypeKind = iota // type variable like t0, t1
	TypeTerm                 // named constructor like "int", "list", "->"
)

// Type is an owned type tree: a variable or a named constructor with
// argument types. Values are immutable data and may be copied freely.
type Type struct {
	Kind TypeKind
	V    int    // variable id (TypeVar)
	Sym  string // constructor name (TypeTerm)
	Args []Type // constructor arguments (TypeTerm)
}

// NewVar returns the type variable t<i>.
func NewVar(i int) Type { return Type{Kind: TypeVar, V: i} }

// Base returns a nullary constructor like "int".
func Base(sym string) Type { return Type{Kind: TypeTerm, Sym: sym} }

// NewTerm returns a constructor applied to arguments.
func NewTerm(sym string, args ...Type) Type {
	return Type{Kind: TypeTerm, Sym: sym, Args: args}
}

// Arrow returns the function type left -> right.
func Arrow(left, right Type) Type {
	return Type{Kind: TypeTerm, Sym: ArrowSym, Args: []Type{left, right}}
}

// Equal reports structural equality.
func (t Type) Equal(u Type) bool {
	if t.Kind != u.Kind {
		return false
	}
	if t.Kind == TypeVar {
		return t.V == u.V
	}
	if t.Sym != u.Sym || len(t.Args) != len(u.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(u.Args[i]) {
			return false
		}
	}
	return true
}

// IsArrow reports whether the type is a function type.
func (t Type) IsArrow() bool {
	return t.Kind == TypeTerm && t.Sym == ArrowSym
}

// AsArrow splits a function type into its left and right sides.
func (t Type) AsArrow() (Type, Type, bool) {
	if !t.IsArrow() {
		return Type{}, Type{}, false
	}
	return t.Args[0], t.Args[1], true
}

// ArgTypes returns the uncurried argument types of the arrow chain starting
// here. Empty for a non-arrow type.
func (t Type) ArgTypes() []Type {
	var args []Type
	cur := t
	for {
		left, right, ok := cur.AsArrow()
		if !ok {
			return args
		}
		args = append(args, left)
		cur = right
	}
}

// Arity is the number of uncurried arguments, zero for a non-arrow type.
func (t Type) Arity() int { return len(t.ArgTypes()) }

// ReturnType is the rightmost type of the arrow chain, or the type itself
// when it is not an arrow.
func (t Type) ReturnType() Type {
	cur := t
	for {
		_, right, ok := cur.AsArrow()
		if !ok {
			return cur
		}
		cur = right
	}
}

// IsConcrete reports whether the type contains no type variables.
func (t Type) IsConcrete() bool {
	if t.Kind == TypeVar {
		return false
	}
	for _, arg := range t.Args {
		if !arg.IsConcrete() {
			return false
		}
	}
	return true
}

// Occurs reports whether type variable i occurs in the type.
func (t Type) Occurs(i int) bool {
	if t.Kind == TypeVar {
		return t.V == i
	}
	for _, arg := range t.Args {
		if arg.Occurs(i) {
			return true
		}
	}
	return false
}

// Apply resolves every variable bound by the context, recursively chasing
// bindings, and returns the resulting type. The context is not mutated.
func (t Type) Apply(ctx *Context) Type {
	if t.IsConcrete() {
		return t
	}
	if t.Kind == TypeVar {
		if bound, ok := ctx.get(t.V); ok {
			// the binding may itself contain bound variables
			return bound.Apply(ctx)
		}
		return t
	}
	args := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.Apply(ctx)
	}
	return Type{Kind: TypeTerm, Sym: t.Sym, Args: args}
}

// ApplyCached is Apply with the amortizing union-find step: a variable's
// fully resolved binding is written back into the context so later lookups
// resolve in one hop. Observable results match Apply exactly.
func (t Type) ApplyCached(ctx *Context) Type {
	if t.IsConcrete() {
		return t
	}
	if t.Kind == TypeVar {
		if bound, ok := ctx.get(t.V); ok {
			resolved := bound.Apply(ctx)
			if !bound.Equal(resolved) {
				// bindings never change, so overwriting with the resolved
				// form is safe
				ctx.overwrite(t.V, resolved)
			}
			return resolved
		}
		return t
	}
	args := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.ApplyCached(ctx)
	}
	return Type{Kind: TypeTerm, Sym: t.Sym, Args: args}
}

// Instantiate shifts every variable in the type so they are fresh in the
// context, returning the renamed type. A concrete type is returned as-is.
func (t Type) Instantiate(ctx *Context) Type {
	if t.IsConcrete() {
		return t
	}
	// shift by the next unused var so there is no conflict
	return t.instantiate(ctx, ctx.nextVar)
}

func (t Type) instantiate(ctx *Context, shift int) Type {
	if t.Kind == TypeVar {
		v := t.V + shift
		ctx.freshVarsThrough(v)
		return NewVar(v)
	}
	args := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.instantiate(ctx, shift)
	}
	return Type{Kind: TypeTerm, Sym: t.Sym, Args: args}
}

// String renders the type with infix arrows ("int -> int"), parenthesized
// n-ary constructors ("(list t0)") and t<id> variables. Arrows in argument
// position are parenthesized.
func (t Type) String() string {
	var b strings.Builder
	writeType(&b, t, true)
	return b.String()
}

func writeType(b *strings.Builder, t Type, arrowParens bool) {
	switch {
	case t.Kind == TypeVar:
		fmt.Fprintf(b, "t%d", t.V)
	case len(t.Args) == 0:
		b.WriteString(t.Sym)
	case t.IsArrow():
		if arrowParens {
			b.WriteByte('(')
		}
		writeType(b, t.Args[0], true)
		b.WriteString(" " + ArrowSym + " ")
		writeType(b, t.Args[1], false)
		if arrowParens {
			b.WriteByte(')')
		}
	default:
		b.WriteByte('(')
		b.WriteString(t.Sym)
		for _, arg := range t.Args {
			b.WriteByte(' ')
			writeType(b, arg, true)
		}
		b.WriteByte(')')
	}
}
