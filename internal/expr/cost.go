package expr

import "fmt"

// ProgramCost assigns an integer cost to every node kind and primitive
// symbol. Primitives missing from Prim fall back to PrimDefault.
type ProgramCost struct {
	Lam         int
	App         int
	Var         int
	IVar        int
	Prim        map[string]int
	PrimDefault int
}

// DefaultCost returns the standard cost model: structure is cheap, leaves
// are expensive.
func DefaultCost() ProgramCost {
	return ProgramCost{
		Lam:         1,
		App:         1,
		Var:         100,
		IVar:        100,
		Prim:        map[string]int{},
		PrimDefault: 100,
	}
}

// Of returns the flat per-node cost of a single node.
func (c *ProgramCost) Of(n Node) int {
	switch n.Kind {
	case KindLam:
		return c.Lam
	case KindApp:
		return c.App
	case KindVar:
		return c.Var
	case KindIVar:
		return c.IVar
	default:
		if cost, ok := c.Prim[n.Sym]; ok {
			return cost
		}
		return c.PrimDefault
	}
}

// CostRec computes the total cost of the subtree rooted at idx by direct
// recursion.
func (s *ExprSet) CostRec(idx Idx, c *ProgramCost) int {
	n := s.Nodes[idx]
	switch n.Kind {
	case KindApp:
		return c.Of(n) + s.CostRec(n.F, c) + s.CostRec(n.X, c)
	case KindLam:
		return c.Of(n) + s.CostRec(n.F, c)
	default:
		return c.Of(n)
	}
}

// CostSpan computes the same total as CostRec by summing the per-node cost
// over the subtree's precomputed span, with no recursion. Requires span
// tracking.
func (s *ExprSet) CostSpan(idx Idx, c *ProgramCost) (int, error) {
	span, ok := s.Span(idx)
	if !ok {
		return 0, fmt.Errorf("expr: CostSpan requires span tracking")
	}
	total := 0
	for _, n := range s.Slice(span) {
		total += c.Of(n)
	}
	return total, nil
}
