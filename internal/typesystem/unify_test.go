package typesystem

import (
	"errors"
	"testing"
)

// unifyCase describes one pair of types and the expected outcome on each
// engine. The tree engine reports unequal ground types as ConcreteSubtree
// via its fast path; the arena engine reaches the same pairs through its
// production rule.
type unifyCase struct {
	t1, t2   string
	ok       bool
	treeKind UnifyErrKind
	setKind  UnifyErrKind
}

var unifyCases = []unifyCase{
	{t1: "int", t2: "int", ok: true},
	{t1: "int", t2: "bool", treeKind: ConcreteSubtree, setKind: Production},
	{t1: "t0", t2: "int", ok: true},
	{t1: "int", t2: "t0", ok: true},
	{t1: "t0", t2: "t0", ok: true},
	{t1: "t0", t2: "t1", ok: true},
	{t1: "t0", t2: "t0 -> int", treeKind: Occurs, setKind: Occurs},
	{t1: "t0 -> int", t2: "t0", treeKind: Occurs, setKind: Occurs},
	{t1: "list t0", t2: "list (list t0)", treeKind: Occurs, setKind: Occurs},
	{t1: "int -> int", t2: "int -> int", ok: true},
	{t1: "int -> int", t2: "int -> bool", treeKind: ConcreteSubtree, setKind: Production},
	{t1: "t0 -> t1", t2: "int -> bool", ok: true},
	{t1: "int -> t0", t2: "t1 -> bool", ok: true},
	{t1: "list int", t2: "list t0", ok: true},
	{t1: "list int", t2: "int", treeKind: ConcreteSubtree, setKind: Production},
	{t1: "int -> int", t2: "int", treeKind: ConcreteSubtree, setKind: Production},
	{t1: "t0 -> int", t2: "int", treeKind: Production, setKind: Production},
	{t1: "list t0", t2: "t1 -> t2", treeKind: Production, setKind: Production},
	{t1: "(t0 -> t1) -> list t0 -> list t1", t2: "(int -> int) -> list int -> list int", ok: true},
	{t1: "t0 -> t0", t2: "int -> bool", treeKind: ConcreteSubtree, setKind: Production},
}

func checkOutcome(t *testing.T, label string, tc unifyCase, err error, kind UnifyErrKind) {
	t.Helper()
	if tc.ok {
		if err != nil {
			t.Errorf("%s: unify(%s, %s) = %v, want ok", label, tc.t1, tc.t2, err)
		}
		return
	}
	if err == nil {
		t.Errorf("%s: unify(%s, %s) succeeded, want %s", label, tc.t1, tc.t2, kind)
		return
	}
	got, isUnify := UnifyErrKindOf(err)
	if !isUnify {
		t.Errorf("%s: unify(%s, %s) = %v, not a unification failure", label, tc.t1, tc.t2, err)
		return
	}
	if got != kind {
		t.Errorf("%s: unify(%s, %s) failed with %s, want %s", label, tc.t1, tc.t2, got, kind)
	}
}

func TestUnify(t *testing.T) {
	for _, tc := range unifyCases {
		t1, t2 := mustType(t, tc.t1), mustType(t, tc.t2)

		err := NewContext().Unify(t1, t2)
		checkOutcome(t, "append-only", tc, err, tc.treeKind)

		err = NewUnionFindContext().Unify(t1, t2)
		checkOutcome(t, "union-find", tc, err, tc.treeKind)

		err = NewContext().UnifyCached(t1, t2)
		checkOutcome(t, "cached", tc, err, tc.treeKind)

		// arena engine, shift 0 on both sides so variable ids are shared
		// exactly as in the tree contexts
		ts := NewTypeSet()
		r1 := ts.AddTp(t1).Shifted(0)
		r2 := ts.AddTp(t2).Shifted(0)
		err = ts.Unify(r1, r2)
		checkOutcome(t, "arena", tc, err, tc.setKind)
	}
}

func TestMightUnifyIsConservative(t *testing.T) {
	for _, tc := range unifyCases {
		t1, t2 := mustType(t, tc.t1), mustType(t, tc.t2)
		if !MightUnify(t1, t2) {
			if err := NewContext().Unify(t1, t2); err == nil {
				t.Errorf("MightUnify(%s, %s) = false but Unify succeeded", tc.t1, tc.t2)
			}
		}
		ts := NewTypeSet()
		r1 := ts.AddTp(t1)
		r2 := ts.AddTp(t2).Shifted(0)
		if !ts.MightUnify(r1, r2) {
			if err := ts.Unify(r1.Shifted(0), r2); err == nil {
				t.Errorf("arena MightUnify(%s, %s) = false but Unify succeeded", tc.t1, tc.t2)
			}
		}
	}
}

func TestUnifyBindingsCompose(t *testing.T) {
	ctx := NewContext()
	t0 := ctx.FreshVar()
	if err := ctx.Unify(t0, Base("int")); err != nil {
		t.Fatal(err)
	}
	// t0 is now int, so unifying it with bool is a ground mismatch
	err := ctx.Unify(t0, Base("bool"))
	if kind, ok := UnifyErrKindOf(err); !ok || kind != ConcreteSubtree {
		t.Errorf("Unify(t0, bool) after t0=int gave %v", err)
	}
	if err := ctx.Unify(t0, Base("int")); err != nil {
		t.Errorf("Unify(t0, int) a second time failed: %v", err)
	}
}

func TestSaveLoadState(t *testing.T) {
	ctx := NewContext()
	t0 := ctx.FreshVar()

	st, err := ctx.SaveState()
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Unify(t0, Arrow(ctx.FreshVar(), Base("int"))); err != nil {
		t.Fatal(err)
	}
	if t0.Apply(ctx).Equal(t0) {
		t.Fatal("binding did not take")
	}
	if err := ctx.LoadState(st); err != nil {
		t.Fatal(err)
	}
	if !t0.Apply(ctx).Equal(t0) {
		t.Error("rollback did not unbind t0")
	}
	if ctx.NextVar() != 1 {
		t.Errorf("rollback left NextVar = %d, want 1", ctx.NextVar())
	}
	// the slot is reusable after rollback
	if err := ctx.Unify(t0, Base("bool")); err != nil {
		t.Errorf("rebinding after rollback failed: %v", err)
	}
}

func TestUnionFindNoRollback(t *testing.T) {
	ctx := NewUnionFindContext()
	if _, err := ctx.SaveState(); !errors.Is(err, ErrNoRollback) {
		t.Errorf("SaveState = %v, want ErrNoRollback", err)
	}
	if err := ctx.LoadState(State{}); !errors.Is(err, ErrNoRollback) {
		t.Errorf("LoadState = %v, want ErrNoRollback", err)
	}
}

func TestBackendsAgree(t *testing.T) {
	// the same unification script resolves identically on both backends
	script := func(ctx *Context) (string, error) {
		f := ctx.FreshVar()
		x := ctx.FreshVar()
		ret := ctx.FreshVar()
		if err := ctx.Unify(x, Base("int")); err != nil {
			return "", err
		}
		if err := ctx.Unify(f, Arrow(x, ret)); err != nil {
			return "", err
		}
		if err := ctx.Unify(ret, Base("bool")); err != nil {
			return "", err
		}
		return f.Apply(ctx).String(), nil
	}
	a, err := script(NewContext())
	if err != nil {
		t.Fatal(err)
	}
	b, err := script(NewUnionFindContext())
	if err != nil {
		t.Fatal(err)
	}
	if a != b || a != "(int -> bool)" {
		t.Errorf("backends disagree: %q vs %q", a, b)
	}
}
