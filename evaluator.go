// evaluator.go: module evaluation driver.
//
// What this file does
// -------------------
// Runs a type-checked module. Top-level bindings are lazy: the statement
// loop records unevaluated initializers and only forces them on first
// reference or, for the ones nobody referenced, in declaration order after
// the last statement. Function definitions become eager closures over the
// module scope, which is how mutual recursion and use-before-definition of
// helpers work. A binding referenced while its own initializer is running
// is a circular-reference EvalError; the state tag in env.go makes that a
// constant-time check, not a stack overflow.
//
// Imports are resolved through the host's Resolver and memoized in the
// explicit ModuleCache; the evaluator itself only merges the resolved
// name -> value maps into scope.
//
// In best-effort mode a statement-level EvalError becomes a diagnostic and
// the run continues; the default mode stops at the first one. Expression
// evaluation itself lives in eval_expr.go.
package jcl

// EvalOptions configures one evaluation run.
type EvalOptions struct {
	// Resolver supplies imported modules; nil makes every import fail.
	Resolver Resolver
	// Cache memoizes resolved modules across runs. Nil gets a fresh cache.
	Cache *ModuleCache
	// Imports pre-binds resolved values into the module scope, keyed by
	// name. Hosts use it to inject values without the import machinery.
	Imports map[string]Value
	// BestEffort records statement-level EvalErrors as diagnostics and
	// keeps going instead of stopping at the first one.
	BestEffort bool
}

// Result is the outcome of evaluating a module.
type Result struct {
	// Bindings holds the module's top-level bindings in declaration order.
	Bindings *MapObject
	// Value is the value of the last expression statement, or null.
	Value Value
	// Diagnostics carries EvalErrors skipped in best-effort mode.
	Diagnostics []Diagnostic
}

// Evaluate runs mod. The caller is expected to have run Check first; Run
// wires the two together. The returned error is an *EvalError.
func Evaluate(mod *Module, rt *Runtime, opts EvalOptions) (*Result, error) {
	cache := opts.Cache
	if cache == nil {
		cache = NewModuleCache()
	}
	ip := &interp{
		rt:         rt,
		globals:    NewEnv(nil),
		resolver:   opts.Resolver,
		cache:      cache,
		bestEffort: opts.BestEffort,
	}
	for name, v := range opts.Imports {
		ip.globals.Define(name, v)
	}

	result := &Result{Bindings: NewMapObject(), Value: NullV}
	for _, stmt := range mod.Stmts {
		if err := ip.stmt(stmt, result); err != nil {
			ee, ok := err.(*EvalError)
			if !ok || !ip.bestEffort {
				return nil, err
			}
			ip.diags = append(ip.diags, ToDiagnostic(ee))
		}
	}

	// Force what nobody referenced, in declaration order.
	for _, name := range ip.order {
		b, ok := ip.globals.table[name]
		if !ok {
			continue
		}
		v, err := ip.force(name, b, b.typSpan)
		if err != nil {
			ee, ok := err.(*EvalError)
			if !ok || !ip.bestEffort {
				return nil, err
			}
			ip.diags = append(ip.diags, ToDiagnostic(ee))
			continue
		}
		result.Bindings.Set(name, v)
	}
	result.Diagnostics = ip.diags
	return result, nil
}

/* ===========================
   PRIVATE: interpreter state
   =========================== */

type interp struct {
	rt         *Runtime
	globals    *Env
	resolver   Resolver
	cache      *ModuleCache
	bestEffort bool
	diags      []Diagnostic
	order      []string // declaration order of top-level bindings
}

func (ip *interp) stmt(s Stmt, result *Result) error {
	switch s := s.(type) {
	case *AssignStmt:
		return ip.assign(s)
	case *FnStmt:
		fun := &Fun{Name: s.Name, Params: s.Params, Body: s.Body, Env: ip.globals}
		ip.globals.Define(s.Name, FunV(fun))
		ip.noteOrder(s.Name)
		return nil
	case *ImportStmt:
		return ip.importStmt(s)
	case *ExprStmt:
		v, err := ip.eval(s.X, ip.globals)
		if err != nil {
			return err
		}
		result.Value = v
		return nil
	}
	return nil
}

func (ip *interp) assign(s *AssignStmt) error {
	var typ *Type
	if s.Type != nil {
		// Annotation errors were already reported by the checker; a failed
		// resolution here just drops the runtime re-check.
		typ, _ = TypeFromLit(s.Type)
	}
	if b, ok := ip.globals.table[s.Name]; ok && !s.Mutable {
		// Reassignment of an existing top-level binding.
		if !b.mutable {
			return evalErrf(s.NameSpan, "cannot reassign immutable binding %q (declare it with 'mut')", s.Name)
		}
		v, err := ip.eval(s.Value, ip.globals)
		if err != nil {
			return err
		}
		if typ != nil && !MatchesType(v, typ) {
			return ip.annotationErr(s, v, typ)
		}
		b.state = bindDone
		b.value = v
		return nil
	}
	ip.globals.DefineLazy(s.Name, s.Value, typ, s.Mutable)
	ip.noteOrder(s.Name)
	return nil
}

func (ip *interp) annotationErr(s *AssignStmt, v Value, typ *Type) error {
	return evalErrf(s.Value.Pos(), "value of type %s does not satisfy annotation %s on %q",
		v.TypeName(), typ, s.Name)
}

func (ip *interp) noteOrder(name string) {
	for _, n := range ip.order {
		if n == name {
			return
		}
	}
	ip.order = append(ip.order, name)
}

// force drives the lazy binding state machine. span locates the reference
// that triggered the force, for cycle error messages.
func (ip *interp) force(name string, b *binding, span Span) (Value, error) {
	switch b.state {
	case bindDone:
		return b.value, nil
	case bindEvaluating:
		return NullV, evalErrf(span, "circular reference detected while evaluating %q", name)
	}
	b.state = bindEvaluating
	v, err := ip.eval(b.thunk, ip.globals)
	if err != nil {
		b.state = bindLazy
		return NullV, err
	}
	if b.typ != nil && !MatchesType(v, b.typ) {
		b.state = bindLazy
		return NullV, evalErrf(b.typSpan, "value of type %s does not satisfy annotation %s on %q",
			v.TypeName(), b.typ, name)
	}
	b.state = bindDone
	b.value = v
	return v, nil
}

func (ip *interp) importStmt(s *ImportStmt) error {
	if ip.resolver == nil {
		return evalErrf(s.PathSpan, "no import resolver configured for %q", s.Path)
	}
	bindings, err := ip.cache.load(s.Path, ip.resolver, s.PathSpan)
	if err != nil {
		return err
	}
	switch {
	case s.Wildcard:
		for _, k := range bindings.Keys {
			ip.globals.Define(k, bindings.Entries[k])
		}
	case len(s.Items) > 0:
		for _, item := range s.Items {
			v, ok := bindings.Get(item.Name)
			if !ok {
				return evalErrf(item.Span, "module %q has no binding %q", s.Path, item.Name)
			}
			name := item.Alias
			if name == "" {
				name = item.Name
			}
			ip.globals.Define(name, v)
		}
	default:
		alias := s.Alias
		if alias == "" {
			alias = defaultAlias(s.Path)
		}
		ip.globals.Define(alias, MapV(bindings))
	}
	return nil
}
