package typesystem

// Context is the classical substitution context for tree-based
// unification. Two interchangeable backends satisfy the same contract:
//
//   - append-only (NewContext): bindings go into a log searched from the
//     end; SaveState/LoadState roll back by truncation.
//   - union-find (NewUnionFindContext): bindings live in a flat table
//     indexed by variable id; lookups are O(1) but rollback is unsupported.
//
// A variable is bound at most once; re-binding is an ErrRebind invariant
// violation. The context has no internal locking.
type Context struct {
	unionFind  []*Type   // flat table indexed by var id, nil = unbound
	log        []binding // append-only log, later bindings shadow earlier
	nextVar    int
	appendOnly bool
}

type binding struct {
	v  int
	tp Type
}

// State captures an append-only context for rollback. Loading a state
// captured before a nested save invalidates the nested save; last-in
// first-out discipline is the caller's responsibility.
type State struct {
	logLen  int
	nextVar int
}

// NewContext returns an empty append-only context.
func NewContext() *Context {
	return &Context{appendOnly: true}
}

// NewUnionFindContext returns an empty context backed by a union-find
// style table. Likely not noticeably faster than the append-only context,
// and rollback is unsupported.
func NewUnionFindContext() *Context {
	return &Context{appendOnly: false}
}

// SaveState captures the current binding log and variable counter.
func (c *Context) SaveState() (State, error) {
	if !c.appendOnly {
		return State{}, ErrNoRollback
	}
	return State{logLen: len(c.log), nextVar: c.nextVar}, nil
}

// LoadState rolls the context back to a previously captured state.
func (c *Context) LoadState(st State) error {
	if !c.appendOnly {
		return ErrNoRollback
	}
	c.log = c.log[:st.logLen]
	c.nextVar = st.nextVar
	return nil
}

// FreshVar allocates and returns the next unused type variable.
func (c *Context) FreshVar() Type {
	if !c.appendOnly {
		c.unionFind = append(c.unionFind, nil)
	}
	c.nextVar++
	return NewVar(c.nextVar - 1)
}

// NextVar returns the next unused variable id.
func (c *Context) NextVar() int { return c.nextVar }

// freshVarsThrough allocates fresh vars until variable v exists.
func (c *Context) freshVarsThrough(v int) {
	for v >= c.nextVar {
		c.FreshVar()
	}
}

// get returns what a variable is bound to, if anything.
func (c *Context) get(v int) (Type, bool) {
	if c.appendOnly {
		for i := len(c.log) - 1; i >= 0; i-- {
			if c.log[i].v == v {
				return c.log[i].tp, true
			}
		}
		return Type{}, false
	}
	if v < len(c.unionFind) && c.unionFind[v] != nil {
		return *c.unionFind[v], true
	}
	return Type{}, false
}

// set binds a variable. Binding an already-bound variable is an invariant
// violation.
func (c *Context) set(v int, tp Type) error {
	if _, bound := c.get(v); bound {
		return ErrRebind
	}
	c.overwrite(v, tp)
	return nil
}

// overwrite records a binding without the rebind check. ApplyCached uses
// it to replace a binding with its fully resolved form.
func (c *Context) overwrite(v int, tp Type) {
	if c.appendOnly {
		c.log = append(c.log, binding{v: v, tp: tp})
		return
	}
	for v >= len(c.unionFind) {
		c.unionFind = append(c.unionFind, nil)
	}
	c.unionFind[v] = &tp
}

// MightUnify is a fast, non-mutating, conservative pre-check: false means
// Unify is certain to fail; true means it might succeed. Variables are
// compatible with anything; two terms must agree on head symbol and arity
// and have pairwise-compatible arguments.
func MightUnify(t1, t2 Type) bool {
	if t1.Kind == TypeVar || t2.Kind == TypeVar {
		return true
	}
	if t1.Sym != t2.Sym || len(t1.Args) != len(t2.Args) {
		return false
	}
	for i := range t1.Args {
		if !MightUnify(t1.Args[i], t2.Args[i]) {
			return false
		}
	}
	return true
}

// Unify makes t1 and t2 equal under the substitution, binding variables as
// needed. Recoverable failures are *UnifyError (Occurs, ConcreteSubtree,
// Production); ErrRebind is an invariant violation.
func (c *Context) Unify(t1, t2 Type) error {
	return c.unify(t1.Apply(c), t2.Apply(c))
}

// UnifyCached is Unify with ApplyCached's amortizing lookups. Observable
// results match Unify exactly; no asymptotic win is expected.
func (c *Context) UnifyCached(t1, t2 Type) error {
	return c.unify(t1.ApplyCached(c), t2.ApplyCached(c))
}

// unify expects both sides already substitution-applied.
func (c *Context) unify(t1, t2 Type) error {
	if t1.IsConcrete() && t2.IsConcrete() {
		// no variable binding can help two ground types
		if t1.Equal(t2) {
			return nil
		}
		return errConcrete(t1, t2)
	}
	if t1.Kind == TypeVar || t2.Kind == TypeVar {
		v, other := t1, t2
		if v.Kind != TypeVar {
			v, other = t2, t1
		}
		if other.Kind == TypeVar && other.V == v.V {
			return nil // unify(t0, t0) is a no-op
		}
		// occurs check: binding here would build a recursive type
		if other.Occurs(v.V) {
			return errOccurs(t1, t2)
		}
		return c.set(v.V, other)
	}
	if t1.Sym != t2.Sym || len(t1.Args) != len(t2.Args) {
		return errProduction(t1, t2)
	}
	for i := range t1.Args {
		if err := c.Unify(t1.Args[i], t2.Args[i]); err != nil {
			return err
		}
	}
	return nil
}
