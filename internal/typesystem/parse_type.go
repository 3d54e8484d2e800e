package typesystem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type surface syntax errors.
var (
	ErrEmptyType      = errors.New("empty type")
	ErrTypeUnbalanced = errors.New("mismatched parens in type")
)

func errParseType(input string, err error) error {
	return fmt.Errorf("type parse error: %w in: %s", err, input)
}

// ParseType parses the textual type syntax: "t<uint>" for a variable, a
// bare symbol for a nullary constructor, "left -> right" for arrows
// (right-associative), "(ctor arg1 arg2 ...)" for n-ary constructors.
// Constructor application binds tighter than the arrow, so "list int ->
// int" reads as "(list int) -> int". The "->" token must stand alone,
// separated by whitespace or parens.
func ParseType(input string) (Type, error) {
	toks := lexType(input)
	p := &typeParser{toks: toks}
	tp, err := p.parseArrow()
	if err != nil {
		return Type{}, errParseType(input, err)
	}
	if !p.eof() {
		return Type{}, errParseType(input, fmt.Errorf("unexpected %q after type", p.peek()))
	}
	return tp, nil
}

func lexType(input string) []string {
	var toks []string
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()", rune(input[i])) {
				i++
			}
			toks = append(toks, input[start:i])
		}
	}
	return toks
}

type typeParser struct {
	toks []string
	pos  int
}

func (p *typeParser) eof() bool { return p.pos >= len(p.toks) }

func (p *typeParser) peek() string {
	if p.eof() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *typeParser) next() string {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// parseArrow parses an application followed by an optional right-recursive
// arrow tail.
func (p *typeParser) parseArrow() (Type, error) {
	left, err := p.parseApp()
	if err != nil {
		return Type{}, err
	}
	if p.peek() == ArrowSym {
		p.next()
		right, err := p.parseArrow()
		if err != nil {
			return Type{}, err
		}
		return Arrow(left, right), nil
	}
	return left, nil
}

// parseApp parses one or more atoms; several atoms fold into a
// constructor application, e.g. "list int" becomes (list int).
func (p *typeParser) parseApp() (Type, error) {
	var atoms []Type
	for !p.eof() && p.peek() != ")" && p.peek() != ArrowSym {
		atom, err := p.parseAtom()
		if err != nil {
			return Type{}, err
		}
		atoms = append(atoms, atom)
	}
	switch len(atoms) {
	case 0:
		if p.eof() {
			return Type{}, ErrEmptyType
		}
		return Type{}, fmt.Errorf("unexpected %q", p.peek())
	case 1:
		return atoms[0], nil
	}
	head := atoms[0]
	if head.Kind != TypeTerm || len(head.Args) != 0 {
		return Type{}, fmt.Errorf("cannot apply %s to arguments", head)
	}
	return NewTerm(head.Sym, atoms[1:]...), nil
}

func (p *typeParser) parseAtom() (Type, error) {
	switch tok := p.next(); tok {
	case "(":
		tp, err := p.parseArrow()
		if err != nil {
			return Type{}, err
		}
		if p.eof() || p.next() != ")" {
			return Type{}, ErrTypeUnbalanced
		}
		return tp, nil
	case ")":
		return Type{}, ErrTypeUnbalanced
	default:
		return atomType(tok), nil
	}
}

// atomType interprets "t<uint>" as a variable and anything else as a
// nullary constructor.
func atomType(tok string) Type {
	if rest, ok := strings.CutPrefix(tok, "t"); ok && rest != "" {
		if id, err := strconv.Atoi(rest); err == nil && id >= 0 {
			return NewVar(id)
		}
	}
	return Base(tok)
}
