// env.go: lexically scoped environments and lazy top-level bindings.
//
// Env is a chain of frames linked through parent. Top-level bindings are
// lazy: a binding holds its unevaluated initializer until first use and
// moves through an explicit state machine
//
//	bindLazy -> bindEvaluating -> bindDone
//
// Forcing a binding already in bindEvaluating is a circular reference and
// raises an EvalError instead of recursing forever. The evaluator owns the
// forcing logic (evaluator.go); this file only holds the bookkeeping.
package jcl

type bindState int

const (
	bindDone bindState = iota // value is set
	bindLazy                  // thunk not yet forced
	bindEvaluating            // force in progress; a re-entrant read is a cycle
)

// binding is one name slot in an Env.
type binding struct {
	state   bindState
	value   Value
	thunk   Expr // initializer, valid while state != bindDone
	typ     *Type
	typSpan Span // span of the initializer, for annotation errors
	mutable bool
}

// Env is one scope frame.
type Env struct {
	parent *Env
	table  map[string]*binding
}

// NewEnv creates a frame chained to parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]*binding)}
}

// Define binds name to an evaluated value in this frame, shadowing any outer
// binding of the same name.
func (e *Env) Define(name string, v Value) {
	e.table[name] = &binding{state: bindDone, value: v}
}

// DefineMut is Define for `mut` bindings.
func (e *Env) DefineMut(name string, v Value) {
	e.table[name] = &binding{state: bindDone, value: v, mutable: true}
}

// DefineLazy binds name to an unevaluated initializer in this frame.
func (e *Env) DefineLazy(name string, thunk Expr, typ *Type, mutable bool) {
	e.table[name] = &binding{
		state: bindLazy, thunk: thunk, typ: typ,
		typSpan: thunk.Pos(), mutable: mutable,
	}
}

// lookup finds the binding for name, walking outward.
func (e *Env) lookup(name string) (*binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.table[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Has reports whether name is bound anywhere in the chain.
func (e *Env) Has(name string) bool {
	_, ok := e.lookup(name)
	return ok
}

// Names returns the names bound directly in this frame, in no particular
// order. Callers that need order track it themselves (see Result.Bindings).
func (e *Env) Names() []string {
	out := make([]string, 0, len(e.table))
	for name := range e.table {
		out = append(out, name)
	}
	return out
}
