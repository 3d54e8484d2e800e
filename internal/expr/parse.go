package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse error taxonomy. Every failure returned by ParseExtend wraps one of
// these (ErrBadIndex additionally wraps the strconv failure).
var (
	ErrEmptyInput   = errors.New("input is empty string")
	ErrUnbalanced   = errors.New("mismatched parens")
	ErrLamArity     = errors.New("`lam` must be applied to exactly one argument, like `(lam (foo bar))`")
	ErrLamPlacement = errors.New("`lam` must have an immediately preceding parenthesis like so `(lam` unless it is at the start of the parsed string")
	ErrBadIndex     = errors.New("malformed index literal")
)

func errParse(input string, err error) error {
	return fmt.Errorf("expr parse error: %w in: %s", err, input)
}

// Parse parses uncurried s-expression text into a fresh
// child-first arena without span tracking and returns the arena and the
// root position.
func Parse(input string) (*ExprSet, Idx, error) {
	set := NewExprSet(ChildFirst, false)
	root, err := set.ParseExtend(input)
	if err != nil {
		return nil, 0, err
	}
	return set, root, nil
}

// ParseExtend parses uncurried s-expression text, appending
// nodes to the arena, and returns the root position. It is incremental:
// calling it again extends the arena and returns a new root, leaving prior
// roots valid. On failure the arena is left exactly as it was.
//
// The text is scanned right to left, tracking a count of items parsed so
// far at each open-paren depth. Closing a parenthesis with n pending items
// folds them left-to-right into n-1 nested binary applications; zero items
// is a no-op closing. Atoms: "$<int>" is a Var, "#<int>" an IVar, anything
// else a Prim with that literal as its symbol.
func (s *ExprSet) ParseExtend(input string) (Idx, error) {
	initLen := s.Len()
	root, err := s.parseExtend(input)
	if err != nil {
		s.Truncate(initLen)
		return 0, err
	}
	return root, nil
}

func (s *ExprSet) parseExtend(input string) (Idx, error) {
	initLen := s.Len()
	rem := strings.TrimSpace(input)

	var items []Idx
	// itemsOfDepth[i] is the number of items parsed so far at paren depth i
	itemsOfDepth := []int{0}

	popDepth := func() (int, bool) {
		if len(itemsOfDepth) == 0 {
			return 0, false
		}
		n := itemsOfDepth[len(itemsOfDepth)-1]
		itemsOfDepth = itemsOfDepth[:len(itemsOfDepth)-1]
		return n, true
	}
	popItem := func() Idx {
		it := items[len(items)-1]
		items = items[:len(items)-1]
		return it
	}
	// fold the n pending items left-to-right into n-1 applications
	foldApps := func(n int) error {
		for k := 0; k < n-1; k++ {
			f := popItem()
			x := popItem()
			idx, err := s.Add(AppNode(f, x))
			if err != nil {
				return err
			}
			items = append(items, idx)
		}
		return nil
	}

	for rem != "" {
		rem = strings.TrimSpace(rem)
		if rem == "" {
			break
		}
		last := rem[len(rem)-1]
		if last == '(' {
			rem = rem[:len(rem)-1]
			n, ok := popDepth()
			if !ok {
				return 0, errParse(input, ErrUnbalanced)
			}
			if n == 0 {
				continue
			}
			if err := foldApps(n); err != nil {
				return 0, err
			}
			if len(itemsOfDepth) == 0 {
				return 0, errParse(input, ErrUnbalanced)
			}
			itemsOfDepth[len(itemsOfDepth)-1]++
			continue
		}
		if last == ')' {
			rem = rem[:len(rem)-1]
			itemsOfDepth = append(itemsOfDepth, 0)
			continue
		}

		// scan a space- or paren-delimited word backwards
		start := len(rem) - 1
		for start > 0 {
			c := rem[start-1]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' {
				break
			}
			start--
		}
		item := rem[start:]
		rem = rem[:start]

		if item == "lam" {
			eof := false
			if rem != "" {
				if rem[len(rem)-1] != '(' {
					return 0, errParse(input, ErrLamPlacement)
				}
				rem = rem[:len(rem)-1]
			} else {
				eof = true
			}
			n, ok := popDepth()
			if !ok {
				return 0, errParse(input, ErrUnbalanced)
			}
			if n != 1 {
				return 0, errParse(input, ErrLamArity)
			}
			body := popItem()
			idx, err := s.Add(LamNode(body))
			if err != nil {
				return 0, err
			}
			items = append(items, idx)
			if eof {
				if len(items) != 1 {
					return 0, errParse(input, ErrUnbalanced)
				}
				return s.finishParse(initLen, popItem()), nil
			}
			if len(itemsOfDepth) == 0 {
				return 0, errParse(input, ErrUnbalanced)
			}
			itemsOfDepth[len(itemsOfDepth)-1]++
			continue
		}

		node, err := atomNode(item)
		if err != nil {
			return 0, errParse(input, err)
		}
		idx, err := s.Add(node)
		if err != nil {
			return 0, err
		}
		items = append(items, idx)
		if len(itemsOfDepth) == 0 {
			return 0, errParse(input, ErrUnbalanced)
		}
		itemsOfDepth[len(itemsOfDepth)-1]++
	}

	if len(items) == 0 {
		return 0, errParse(input, ErrEmptyInput)
	}
	if len(itemsOfDepth) != 1 {
		return 0, errParse(input, ErrUnbalanced)
	}
	n, _ := popDepth()
	if err := foldApps(n); err != nil {
		return 0, err
	}
	if len(items) != 1 {
		return 0, errParse(input, ErrUnbalanced)
	}
	return s.finishParse(initLen, popItem()), nil
}

func atomNode(item string) (Node, error) {
	if rest, ok := strings.CutPrefix(item, "$"); ok {
		i, err := strconv.Atoi(rest)
		if err != nil {
			return Node{}, fmt.Errorf("%w %q: %w", ErrBadIndex, item, err)
		}
		return VarNode(i), nil
	}
	if rest, ok := strings.CutPrefix(item, "#"); ok {
		i, err := strconv.Atoi(rest)
		if err != nil {
			return Node{}, fmt.Errorf("%w %q: %w", ErrBadIndex, item, err)
		}
		return IVarNode(i), nil
	}
	return PrimNode(item), nil
}

// finishParse reverses the freshly appended slice when the arena is
// parent-first, since the scan naturally builds children before parents,
// and returns the root's final position.
func (s *ExprSet) finishParse(initLen int, root Idx) Idx {
	if s.Order != ParentFirst {
		return root
	}
	lo, hi := initLen, s.Len()
	remap := func(i Idx) Idx { return lo + hi - 1 - i }
	for i := lo; i < hi; i++ {
		n := &s.Nodes[i]
		switch n.Kind {
		case KindApp:
			n.F = remap(n.F)
			n.X = remap(n.X)
		case KindLam:
			n.F = remap(n.F)
		}
	}
	reverseNodes(s.Nodes[lo:hi])
	if s.trackSpans {
		for i := lo; i < hi; i++ {
			sp := &s.Spans[i]
			sp.Start, sp.End = lo+hi-sp.End, lo+hi-sp.Start
		}
		reverseSpans(s.Spans[lo:hi])
	}
	return remap(root)
}
