package expr

import (
	"fmt"
	"strings"
)

// String prints the operator of a single node: "$i", "#i", the primitive
// symbol, "app" or "lam".
func (n Node) String() string {
	switch n.Kind {
	case KindVar:
		return fmt.Sprintf("$%d", n.DBI)
	case KindIVar:
		return fmt.Sprintf("#%d", n.DBI)
	case KindPrim:
		return n.Sym
	case KindApp:
		return "app"
	case KindLam:
		return "lam"
	default:
		return fmt.Sprintf("node(%d)", int(n.Kind))
	}
}

// String renders the subtree as an uncurried s-expression like "(+ 2 3)".
// Parentheses are omitted around the left (function) position of an
// application, so "((foo bar) baz)" renders as "(foo bar baz)". A Hole
// renders as "??".
func (e Expr) String() string {
	var b strings.Builder
	writeExpr(&b, e, false)
	return b.String()
}

// CurriedString renders the subtree in explicit binary-application form,
// "(+ 2 3)" as "(app (app + 2) 3)".
func (e Expr) CurriedString() string {
	var b strings.Builder
	writeCurried(&b, e)
	return b.String()
}

func writeCurried(b *strings.Builder, e Expr) {
	if e.Idx == Hole {
		b.WriteString("??")
		return
	}
	n := e.Node()
	switch n.Kind {
	case KindVar, KindIVar, KindPrim:
		b.WriteString(n.String())
	case KindApp:
		b.WriteString("(app ")
		writeCurried(b, e.Get(n.F))
		b.WriteByte(' ')
		writeCurried(b, e.Get(n.X))
		b.WriteByte(')')
	case KindLam:
		b.WriteString("(lam ")
		writeCurried(b, e.Get(n.F))
		b.WriteByte(')')
	}
}

func writeExpr(b *strings.Builder, e Expr, leftOfApp bool) {
	if e.Idx == Hole {
		b.WriteString("??")
		return
	}
	n := e.Node()
	switch n.Kind {
	case KindVar, KindIVar, KindPrim:
		b.WriteString(n.String())
	case KindApp:
		// the left side of an application needs no parens of its own
		if !leftOfApp {
			b.WriteByte('(')
		}
		writeExpr(b, e.Get(n.F), true)
		b.WriteByte(' ')
		writeExpr(b, e.Get(n.X), false)
		if !leftOfApp {
			b.WriteByte(')')
		}
	case KindLam:
		b.WriteString("(lam ")
		writeExpr(b, e.Get(n.F), false)
		b.WriteByte(')')
	}
}
