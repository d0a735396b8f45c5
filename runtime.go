// runtime.go: builtin registry and runtime construction.
//
// A Runtime bundles the builtin function registry with the host's capability
// table. The same registry serves both sides of the pipeline: the type
// checker reads signatures from it and the evaluator dispatches through it,
// so a builtin misuse is reported statically with exactly the signature the
// runtime would enforce.
//
// Builtins are registered per concern (builtin_strings.go and friends) via
// RegisterNative, mirroring how the registry is split across files. Hosts
// may register additional natives before running modules.
package jcl

import "sort"

// ParamSpec declares one builtin parameter.
type ParamSpec struct {
	Name string
	Type *Type
}

// CallCtx is what a native implementation receives: evaluated arguments,
// the call site span for error reporting, and Apply for calling function
// arguments (map/filter/reduce style builtins).
type CallCtx struct {
	Args  []Value
	Span  Span
	Apply func(fn Value, args []Value) (Value, error)
}

// Arg returns the i-th argument, or null when absent (optional trailing
// parameters of variadic builtins).
func (c CallCtx) Arg(i int) Value {
	if i >= len(c.Args) {
		return NullV
	}
	return c.Args[i]
}

// Errf builds an EvalError at the call site.
func (c CallCtx) Errf(format string, args ...interface{}) error {
	return evalErrf(c.Span, format, args...)
}

// Builtin is one native function: signature plus implementation.
type Builtin struct {
	Name     string
	Params   []ParamSpec
	Variadic bool // the last parameter repeats (and may be absent)
	Ret      *Type
	Impl     func(CallCtx) (Value, error)
	Doc      string
}

// fnType renders the signature as a function type for the checker.
func (b *Builtin) fnType() *Type {
	params := make([]*Type, len(b.Params))
	for i, p := range b.Params {
		params[i] = p.Type
	}
	return FuncOf(params, b.Ret)
}

// Runtime is the immutable-after-setup context shared by checker and
// evaluator runs.
type Runtime struct {
	builtins map[string]*Builtin
	caps     Capabilities
}

// NewRuntime builds a runtime with the standard builtin catalog and the
// given capability table. Zero-value Capabilities yields a fully sandboxed
// runtime where file and time builtins fail with a capability error.
func NewRuntime(caps Capabilities) *Runtime {
	rt := &Runtime{builtins: make(map[string]*Builtin), caps: caps}
	registerStringBuiltins(rt)
	registerCollectionBuiltins(rt)
	registerMathBuiltins(rt)
	registerEncodingBuiltins(rt)
	registerHashBuiltins(rt)
	registerTimeBuiltins(rt)
	registerFileBuiltins(rt)
	return rt
}

// RegisterNative adds (or replaces) a builtin.
func (rt *Runtime) RegisterNative(name string, params []ParamSpec, ret *Type, impl func(CallCtx) (Value, error)) {
	rt.builtins[name] = &Builtin{Name: name, Params: params, Ret: ret, Impl: impl}
}

// RegisterVariadic is RegisterNative with a repeating last parameter.
func (rt *Runtime) RegisterVariadic(name string, params []ParamSpec, ret *Type, impl func(CallCtx) (Value, error)) {
	rt.builtins[name] = &Builtin{Name: name, Params: params, Variadic: true, Ret: ret, Impl: impl}
}

// Builtin looks a native up by name.
func (rt *Runtime) Builtin(name string) (*Builtin, bool) {
	b, ok := rt.builtins[name]
	return b, ok
}

// BuiltinNames returns all registered names, sorted.
func (rt *Runtime) BuiltinNames() []string {
	names := make([]string, 0, len(rt.builtins))
	for name := range rt.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// setBuiltinDoc attaches a docstring shown by the REPL's help.
func setBuiltinDoc(rt *Runtime, name, doc string) {
	if b, ok := rt.builtins[name]; ok {
		b.Doc = doc
	}
}
