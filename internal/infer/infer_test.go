package infer

import (
	"errors"
	"testing"

	"github.com/funvibe/lamb/internal/dsl"
	"github.com/funvibe/lamb/internal/expr"
	"github.com/funvibe/lamb/internal/typesystem"
)

func TestInfer(t *testing.T) {
	sig := dsl.Simple()
	tests := []struct {
		program string
		want    string
	}{
		{"3", "int"},
		{"12345", "int"},
		{"[1,2,3]", "(list int)"},
		{"[]", "(list t0)"},
		{"+", "(int -> int -> int)"},
		{"map", "((t0 -> t1) -> (list t0) -> (list t1))"},
		{"(+ 2 3)", "int"},
		{"(* (+ 1 2) 3)", "int"},
		{"(sum [1,2,3])", "int"},
		{"(lam $0)", "(t0 -> t0)"},
		{"(lam (lam $1))", "(t0 -> t1 -> t0)"},
		{"(lam (+ $0 1))", "(int -> int)"},
		{"(lam (+ $0 $0))", "(int -> int)"},
		{"(map (lam (+ $0 1)))", "((list int) -> (list int))"},
		{"(map (lam (+ $0 1)) [1,2,3])", "(list int)"},
		{"(sum (map (lam (* $0 $0)) [1,2,3]))", "int"},
		{"((lam $0) 3)", "int"},
	}
	for _, tt := range tests {
		tp, err := InferParsed(tt.program, sig)
		if err != nil {
			t.Errorf("InferParsed(%q): %v", tt.program, err)
			continue
		}
		if got := tp.String(); got != tt.want {
			t.Errorf("InferParsed(%q) = %s, want %s", tt.program, got, tt.want)
		}
	}
}

func TestInferErrors(t *testing.T) {
	sig := dsl.Simple()
	tests := []struct {
		program string
		want    error
	}{
		{"$0", ErrUnboundVar},
		{"(lam $1)", ErrUnboundVar},
		{"(lam (lam $2))", ErrUnboundVar},
		{"#0", ErrIVar},
		{"(lam (+ $0 #0))", ErrIVar},
		{"frobnicate", ErrUnknownPrim},
		{"(+ 1 flase)", ErrUnknownPrim},
	}
	for _, tt := range tests {
		_, err := InferParsed(tt.program, sig)
		if !errors.Is(err, tt.want) {
			t.Errorf("InferParsed(%q) = %v, want %v", tt.program, err, tt.want)
		}
	}
}

func TestInferTypeErrors(t *testing.T) {
	sig := dsl.Simple()
	tests := []struct {
		program string
		kind    typesystem.UnifyErrKind
	}{
		// ill-typed argument with a free variable in play
		{"(+ [] 2)", typesystem.Production},
		// fully ground mismatch hits the concrete fast path
		{"(+ [1,2] 3)", typesystem.ConcreteSubtree},
		{"(sum 3)", typesystem.ConcreteSubtree},
		// self-application needs an infinite type
		{"(lam ($0 $0))", typesystem.Occurs},
	}
	for _, tt := range tests {
		_, err := InferParsed(tt.program, sig)
		if err == nil {
			t.Errorf("InferParsed(%q) succeeded", tt.program)
			continue
		}
		kind, ok := typesystem.UnifyErrKindOf(err)
		if !ok {
			t.Errorf("InferParsed(%q) = %v, not a unification failure", tt.program, err)
			continue
		}
		if kind != tt.kind {
			t.Errorf("InferParsed(%q) failed with %s, want %s", tt.program, kind, tt.kind)
		}
	}
}

func TestInferEnv(t *testing.T) {
	// inference under a preloaded environment, as when checking an open
	// term against known binder types
	set, root, err := expr.Parse("(+ $0 $1)")
	if err != nil {
		t.Fatal(err)
	}
	env := NewEnv(typesystem.Base("int"), typesystem.Base("int"))
	tp, err := Infer(set, root, typesystem.NewContext(), env, dsl.Simple())
	if err != nil {
		t.Fatal(err)
	}
	if got := tp.String(); got != "int" {
		t.Errorf("open term typed %s", got)
	}
	if env.Len() != 2 {
		t.Errorf("inference disturbed the environment: len %d", env.Len())
	}
}

func TestEnvPushPop(t *testing.T) {
	env := NewEnv(typesystem.Base("bool"))
	env.Push(typesystem.Base("int"))
	if tp, ok := env.At(0); !ok || tp.Sym != "int" {
		t.Error("Push did not bind at the front")
	}
	if tp, ok := env.At(1); !ok || tp.Sym != "bool" {
		t.Error("Push displaced the outer binding")
	}
	env.Pop()
	if tp, ok := env.At(0); !ok || tp.Sym != "bool" {
		t.Error("Pop did not restore the outer binding")
	}
	if _, ok := env.At(1); ok {
		t.Error("At(1) succeeded past the end")
	}
	if _, ok := env.At(-1); ok {
		t.Error("At(-1) succeeded")
	}
}
