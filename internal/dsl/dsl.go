// Package dsl defines the boundary to the domain-specific primitive
// signature: the mapping from primitive symbol to type scheme and cost.
// The concrete value representation and evaluator of a domain live
// elsewhere and never leak into the symbolic core.
package dsl

import (
	"github.com/funvibe/lamb/internal/expr"
	"github.com/funvibe/lamb/internal/typesystem"
)

// Signature is everything the symbolic core consumes from a domain: a type
// scheme per primitive for inference, and an integer cost per primitive
// for the cost model.
type Signature interface {
	// TypeOfPrim returns the (ground or polymorphic) type scheme of a
	// primitive symbol. The second result is false for unknown symbols.
	TypeOfPrim(sym string) (typesystem.Type, bool)
	// CostOfPrim returns the cost of a primitive symbol, falling back to a
	// configured default for unknown symbols.
	CostOfPrim(sym string) int
}

// Entry is one primitive's signature.
type Entry struct {
	Tp   typesystem.Type
	Cost int
}

// Table is a map-backed Signature with a default cost and an optional
// fallback for symbols not in the table (e.g. numeric literals).
type Table struct {
	entries     map[string]Entry
	defaultCost int
	fallback    func(sym string) (typesystem.Type, bool)
}

// NewTable returns an empty table with the given default primitive cost.
func NewTable(defaultCost int) *Table {
	return &Table{entries: map[string]Entry{}, defaultCost: defaultCost}
}

// Define adds or replaces a primitive's signature.
func (t *Table) Define(sym string, tp typesystem.Type, cost int) {
	t.entries[sym] = Entry{Tp: tp, Cost: cost}
}

// DefineFallback installs a typing fallback consulted for symbols not in
// the table, allowing domains with infinite symbol families like literals.
func (t *Table) DefineFallback(fn func(sym string) (typesystem.Type, bool)) {
	t.fallback = fn
}

// TypeOfPrim implements Signature.
func (t *Table) TypeOfPrim(sym string) (typesystem.Type, bool) {
	if e, ok := t.entries[sym]; ok {
		return e.Tp, true
	}
	if t.fallback != nil {
		return t.fallback(sym)
	}
	return typesystem.Type{}, false
}

// CostOfPrim implements Signature.
func (t *Table) CostOfPrim(sym string) int {
	if e, ok := t.entries[sym]; ok {
		return e.Cost
	}
	return t.defaultCost
}

// DefaultCost returns the table's fallback cost.
func (t *Table) DefaultCost() int { return t.defaultCost }

// Prims returns the symbols defined in the table.
func (t *Table) Prims() []string {
	syms := make([]string, 0, len(t.entries))
	for sym := range t.entries {
		syms = append(syms, sym)
	}
	return syms
}

// ProgramCost builds the expression cost model from the table: every
// defined primitive keeps its table cost, everything else falls back to
// the table default.
func (t *Table) ProgramCost() expr.ProgramCost {
	c := expr.DefaultCost()
	c.PrimDefault = t.defaultCost
	for sym, e := range t.entries {
		c.Prim[sym] = e.Cost
	}
	return c
}
