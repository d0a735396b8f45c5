// checker.go: the static type checker.
//
// What this file does
// -------------------
// One pre-evaluation pass over the module, in statement order, threading a
// scope chain so forward references to not-yet-declared names fail. A
// binding's own name is pre-bound to Unknown before its initializer is
// checked, so self-reference is not a static error (it surfaces as a
// circular-reference EvalError instead).
//
// Inference is bottom-up with bidirectional checks at annotation sites; no
// unification variables. Unknown (the inference placeholder) is compatible
// with everything; `any` is the explicit dynamic escape hatch. The checker
// collects every TypeError it finds rather than stopping at the first, and
// annotation mismatches point at the offending value expression, not the
// annotation.
//
// The pass produces a TypeTable (span -> type) for tooling and shares the
// builtin signature registry with the evaluator, so a builtin misuse is
// reported with the same signature the runtime enforces.
package jcl

import "fmt"

// TypeTable maps expression spans to their inferred types.
type TypeTable map[Span]*Type

// Check type-checks mod against rt's builtin signatures. It returns the
// inferred type table and all diagnostics found. Evaluation must not start
// when diagnostics are non-empty (Run enforces this).
func Check(mod *Module, rt *Runtime) (TypeTable, []Diagnostic) {
	c := &checker{
		rt:    rt,
		table: make(TypeTable),
		env:   newTypeScope(nil),
	}
	for _, stmt := range mod.Stmts {
		c.stmt(stmt)
	}
	return c.table, c.diags
}

/* ===========================
   PRIVATE: scope & checker
   =========================== */

type typeScope struct {
	parent   *typeScope
	table    map[string]*Type
	wildcard bool // a wildcard import opened this scope; unknown names pass
}

func newTypeScope(parent *typeScope) *typeScope {
	return &typeScope{parent: parent, table: make(map[string]*Type)}
}

func (s *typeScope) define(name string, t *Type) { s.table[name] = t }

func (s *typeScope) lookup(name string) (*Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.table[name]; ok {
			return t, true
		}
		if sc.wildcard {
			return TypAny, true
		}
	}
	return nil, false
}

type checker struct {
	rt    *Runtime
	table TypeTable
	diags []Diagnostic
	env   *typeScope
}

func (c *checker) errf(span Span, format string, args ...interface{}) {
	c.diags = append(c.diags, ToDiagnostic(&TypeError{Span: span, Msg: fmt.Sprintf(format, args...)}))
}

func (c *checker) errHint(span Span, msg, hint string) {
	c.diags = append(c.diags, ToDiagnostic(&TypeError{Span: span, Msg: msg, Suggestion: hint}))
}

// record notes an expression's inferred type and returns it.
func (c *checker) record(e Expr, t *Type) *Type {
	c.table[e.Pos()] = t
	return t
}

/* ---------- statements ---------- */

func (c *checker) stmt(s Stmt) {
	switch s := s.(type) {
	case *AssignStmt:
		c.assign(s)
	case *FnStmt:
		c.fn(s)
	case *ImportStmt:
		c.importStmt(s)
	case *ExprStmt:
		c.expr(s.X)
	}
}

func (c *checker) assign(s *AssignStmt) {
	var declared *Type
	if s.Type != nil {
		t, err := TypeFromLit(s.Type)
		if err != nil {
			c.diags = append(c.diags, ToDiagnostic(err))
		} else {
			declared = t
		}
	}
	// Self-reference resolves to Unknown; the cycle is caught at evaluation.
	c.env.define(s.Name, TypUnknown)
	got := c.expr(s.Value)
	if declared != nil {
		if !got.AssignableTo(declared) {
			c.errHint(s.Value.Pos(),
				fmt.Sprintf("cannot assign %s to %q declared as %s", got, s.Name, declared),
				fmt.Sprintf("change the annotation to %s or the value to match", got))
		}
		c.env.define(s.Name, declared)
		return
	}
	c.env.define(s.Name, got)
}

func (c *checker) fn(s *FnStmt) {
	params := make([]*Type, len(s.Params))
	for i, p := range s.Params {
		params[i] = TypUnknown
		if p.Type != nil {
			t, err := TypeFromLit(p.Type)
			if err != nil {
				c.diags = append(c.diags, ToDiagnostic(err))
				continue
			}
			params[i] = t
		}
	}
	var declaredRet *Type
	if s.Return != nil {
		t, err := TypeFromLit(s.Return)
		if err != nil {
			c.diags = append(c.diags, ToDiagnostic(err))
		} else {
			declaredRet = t
		}
	}
	// Pre-bind so the body can recurse.
	ret := declaredRet
	if ret == nil {
		ret = TypUnknown
	}
	c.env.define(s.Name, FuncOf(params, ret))

	inner := newTypeScope(c.env)
	for i, p := range s.Params {
		inner.define(p.Name, params[i])
	}
	prev := c.env
	c.env = inner
	got := c.expr(s.Body)
	c.env = prev

	if declaredRet != nil && !got.AssignableTo(declaredRet) {
		c.errf(s.Body.Pos(), "function %q declared to return %s but body has type %s",
			s.Name, declaredRet, got)
		return
	}
	if declaredRet == nil {
		c.env.define(s.Name, FuncOf(params, got))
	}
}

func (c *checker) importStmt(s *ImportStmt) {
	switch {
	case s.Wildcard:
		// Names arrive at evaluation time; stop flagging unknown names.
		c.env.wildcard = true
	case len(s.Items) > 0:
		for _, item := range s.Items {
			name := item.Alias
			if name == "" {
				name = item.Name
			}
			c.env.define(name, TypAny)
		}
	default:
		alias := s.Alias
		if alias == "" {
			alias = defaultAlias(s.Path)
		}
		c.env.define(alias, MapOf(TypString, TypAny))
	}
}

/* ---------- expressions ---------- */

func (c *checker) expr(e Expr) *Type {
	switch e := e.(type) {
	case *IntLit:
		return c.record(e, TypInt)
	case *FloatLit:
		return c.record(e, TypFloat)
	case *StringLit:
		return c.record(e, TypString)
	case *BoolLit:
		return c.record(e, TypBool)
	case *NullLit:
		return c.record(e, TypNull)
	case *Ident:
		return c.record(e, c.ident(e))
	case *ListLit:
		elem := TypUnknown
		for i, el := range e.Elems {
			t := c.expr(el)
			if i == 0 {
				elem = t
			} else {
				elem = Unify(elem, t)
			}
		}
		return c.record(e, ListOf(elem))
	case *MapLit:
		elem := TypUnknown
		for i, entry := range e.Entries {
			t := c.expr(entry.Value)
			if i == 0 {
				elem = t
			} else {
				elem = Unify(elem, t)
			}
		}
		return c.record(e, MapOf(TypString, elem))
	case *Interp:
		for _, part := range e.Parts {
			if part.X != nil {
				c.expr(part.X)
			}
		}
		return c.record(e, TypString)
	case *Unary:
		return c.record(e, c.unary(e))
	case *Binary:
		return c.record(e, c.binary(e))
	case *Ternary:
		c.condition(e.Cond)
		return c.record(e, Unify(c.expr(e.Then), c.expr(e.Else)))
	case *If:
		c.condition(e.Cond)
		return c.record(e, Unify(c.expr(e.Then), c.expr(e.Else)))
	case *Member:
		return c.record(e, c.member(e))
	case *Index:
		return c.record(e, c.index(e))
	case *Slice:
		return c.record(e, c.slice(e))
	case *Splat:
		return c.record(e, c.splat(e))
	case *Call:
		return c.record(e, c.call(e))
	case *Lambda:
		return c.record(e, c.lambda(e))
	case *Comprehension:
		return c.record(e, c.comprehension(e))
	case *Range:
		return c.record(e, c.rangeExpr(e))
	case *Pipeline:
		return c.record(e, c.pipeline(e))
	case *Try:
		t := c.expr(e.X)
		if e.Default != nil {
			return c.record(e, Unify(t, c.expr(e.Default)))
		}
		return c.record(e, Unify(t, TypNull))
	case *When:
		return c.record(e, c.when(e))
	}
	return TypUnknown
}

func (c *checker) ident(e *Ident) *Type {
	if t, ok := c.env.lookup(e.Name); ok {
		return t
	}
	if b, ok := c.rt.Builtin(e.Name); ok {
		return b.fnType()
	}
	hint := ""
	if near := nearestName(e.Name, c.knownNames()); near != "" {
		hint = fmt.Sprintf("did you mean %q?", near)
	}
	c.errHint(e.Span_, fmt.Sprintf("undefined name %q", e.Name), hint)
	return TypUnknown
}

// condition enforces that an if/ternary condition is bool unless the value
// is dynamic, in which case runtime truthiness applies.
func (c *checker) condition(e Expr) {
	t := c.expr(e)
	if !t.IsDynamic() && t.Kind != KBool {
		c.errf(e.Pos(), "condition must be bool, got %s", t)
	}
}

func (c *checker) unary(e *Unary) *Type {
	t := c.expr(e.X)
	switch e.Op {
	case NOT:
		if !t.IsDynamic() && t.Kind != KBool {
			c.errf(e.X.Pos(), "operator 'not' needs bool, got %s", t)
		}
		return TypBool
	case MINUS:
		if t.IsDynamic() {
			return TypUnknown
		}
		if !t.IsNumeric() {
			c.errf(e.X.Pos(), "unary '-' needs int or float, got %s", t)
			return TypUnknown
		}
		return t
	}
	return TypUnknown
}

func (c *checker) binary(e *Binary) *Type {
	l := c.expr(e.L)
	r := c.expr(e.R)
	dyn := l.IsDynamic() || r.IsDynamic()
	switch e.Op {
	case PLUS:
		if dyn {
			return TypUnknown
		}
		if l.IsNumeric() && r.IsNumeric() {
			return Unify(l, r)
		}
		if l.Kind == KString && r.Kind == KString {
			return TypString
		}
		c.errf(e.OpSpan, "operator '+' cannot combine %s and %s", l, r)
		return TypUnknown
	case MINUS, STAR, SLASH:
		if dyn {
			return TypUnknown
		}
		if l.IsNumeric() && r.IsNumeric() {
			return Unify(l, r)
		}
		c.errf(e.OpSpan, "operator %s needs numbers, got %s and %s", e.Op, l, r)
		return TypUnknown
	case PERCENT:
		if dyn {
			return TypUnknown
		}
		if l.Kind == KInt && r.Kind == KInt {
			return TypInt
		}
		c.errf(e.OpSpan, "operator '%%' needs int operands, got %s and %s", l, r)
		return TypInt
	case EQ, NEQ:
		return TypBool
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		if dyn || (l.IsNumeric() && r.IsNumeric()) || (l.Kind == KString && r.Kind == KString) {
			return TypBool
		}
		c.errf(e.OpSpan, "operator %s cannot compare %s and %s", e.Op, l, r)
		return TypBool
	case AND, OR:
		if !l.IsDynamic() && l.Kind != KBool {
			c.errf(e.L.Pos(), "operator %s needs bool, got %s", e.Op, l)
		}
		if !r.IsDynamic() && r.Kind != KBool {
			c.errf(e.R.Pos(), "operator %s needs bool, got %s", e.Op, r)
		}
		if l.Kind == KBool && r.Kind == KBool {
			return TypBool
		}
		return TypUnknown
	case COALESCE:
		if l.Kind == KNull {
			return r
		}
		return Unify(l, r)
	}
	return TypUnknown
}

func (c *checker) member(e *Member) *Type {
	// Splat base: the access maps over the list.
	if splat, ok := e.X.(*Splat); ok {
		elem := c.splatElem(splat)
		c.record(e.X, ListOf(elem))
		return ListOf(c.fieldType(elem, e))
	}
	t := c.expr(e.X)
	return c.fieldType(t, e)
}

func (c *checker) fieldType(t *Type, e *Member) *Type {
	switch {
	case t.IsDynamic():
		return TypUnknown
	case t.Kind == KMap:
		return t.Elem
	case t.Kind == KNull && e.Optional:
		return TypNull
	default:
		c.errf(e.NameSpan, "cannot access field %q on %s", e.Name, t)
		return TypUnknown
	}
}

func (c *checker) index(e *Index) *Type {
	t := c.expr(e.X)
	it := c.expr(e.Idx)
	switch {
	case t.IsDynamic():
		c.wantIndex(it, e.Idx, "int or string")
		return TypUnknown
	case t.Kind == KList:
		if !it.IsDynamic() && it.Kind != KInt {
			c.errf(e.Idx.Pos(), "list index must be int, got %s", it)
		}
		return t.Elem
	case t.Kind == KMap:
		if !it.IsDynamic() && it.Kind != KString {
			c.errf(e.Idx.Pos(), "map key must be string, got %s", it)
		}
		return t.Elem
	case t.Kind == KString:
		if !it.IsDynamic() && it.Kind != KInt {
			c.errf(e.Idx.Pos(), "string index must be int, got %s", it)
		}
		return TypString
	default:
		c.errf(e.X.Pos(), "cannot index %s", t)
		return TypUnknown
	}
}

func (c *checker) wantIndex(it *Type, at Expr, what string) {
	if !it.IsDynamic() && it.Kind != KInt && it.Kind != KString {
		c.errf(at.Pos(), "index must be %s, got %s", what, it)
	}
}

func (c *checker) slice(e *Slice) *Type {
	t := c.expr(e.X)
	for _, bound := range []Expr{e.Start, e.End, e.Step} {
		if bound == nil {
			continue
		}
		bt := c.expr(bound)
		if !bt.IsDynamic() && bt.Kind != KInt {
			c.errf(bound.Pos(), "slice bound must be int, got %s", bt)
		}
	}
	switch {
	case t.IsDynamic():
		return TypUnknown
	case t.Kind == KList:
		return t
	case t.Kind == KString:
		return TypString
	default:
		c.errf(e.X.Pos(), "cannot slice %s", t)
		return TypUnknown
	}
}

func (c *checker) splat(e *Splat) *Type {
	return ListOf(c.splatElem(e))
}

func (c *checker) splatElem(e *Splat) *Type {
	t := c.expr(e.X)
	switch {
	case t.IsDynamic():
		return TypUnknown
	case t.Kind == KList:
		return t.Elem
	default:
		c.errf(e.X.Pos(), "splat requires a list, got %s", t)
		return TypUnknown
	}
}

func (c *checker) call(e *Call) *Type {
	ft := c.expr(e.Fn)
	args := make([]*Type, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.expr(a)
	}
	if ft.IsDynamic() {
		return TypUnknown
	}
	if ft.Kind != KFunc {
		c.errf(e.Fn.Pos(), "cannot call %s", ft)
		return TypUnknown
	}
	// Variadic builtins report min arity through their signature helper;
	// plain function types are exact.
	variadic := false
	if id, ok := e.Fn.(*Ident); ok {
		if b, found := c.rt.Builtin(id.Name); found {
			if _, bound := c.env.lookup(id.Name); !bound {
				variadic = b.Variadic
			}
		}
	}
	if !variadic && len(args) != len(ft.Params) {
		c.errf(e.Span_, "wrong number of arguments: want %d, got %d", len(ft.Params), len(args))
		return ft.Ret
	}
	if variadic && len(args) < len(ft.Params)-1 {
		c.errf(e.Span_, "wrong number of arguments: want at least %d, got %d", len(ft.Params)-1, len(args))
		return ft.Ret
	}
	for i, at := range args {
		pi := i
		if pi >= len(ft.Params) {
			pi = len(ft.Params) - 1
		}
		want := ft.Params[pi]
		if !at.AssignableTo(want) {
			c.errf(e.Args[i].Pos(), "argument %d must be %s, got %s", i+1, want, at)
		}
	}
	return ft.Ret
}

func (c *checker) lambda(e *Lambda) *Type {
	params := make([]*Type, len(e.Params))
	inner := newTypeScope(c.env)
	for i, p := range e.Params {
		params[i] = TypUnknown
		if p.Type != nil {
			t, err := TypeFromLit(p.Type)
			if err != nil {
				c.diags = append(c.diags, ToDiagnostic(err))
			} else {
				params[i] = t
			}
		}
		inner.define(p.Name, params[i])
	}
	prev := c.env
	c.env = inner
	ret := c.expr(e.Body)
	c.env = prev
	return FuncOf(params, ret)
}

func (c *checker) comprehension(e *Comprehension) *Type {
	inner := newTypeScope(c.env)
	prev := c.env
	c.env = inner
	for _, clause := range e.Clauses {
		it := c.expr(clause.Iter)
		elem := TypUnknown
		switch {
		case it.IsDynamic():
		case it.Kind == KList:
			elem = it.Elem
		default:
			c.errf(clause.Iter.Pos(), "comprehension iterates a list, got %s", it)
		}
		inner.define(clause.Var, elem)
	}
	if e.Cond != nil {
		c.condition(e.Cond)
	}
	body := c.expr(e.Body)
	c.env = prev
	return ListOf(body)
}

func (c *checker) rangeExpr(e *Range) *Type {
	start := c.expr(e.Start)
	end := c.expr(e.End)
	t := Unify(start, end)
	for _, bound := range []Expr{e.Start, e.End} {
		bt := c.table[bound.Pos()]
		if bt != nil && !bt.IsDynamic() && !bt.IsNumeric() {
			c.errf(bound.Pos(), "range bound must be a number, got %s", bt)
		}
	}
	if e.Step != nil {
		st := c.expr(e.Step)
		if !st.IsDynamic() && !st.IsNumeric() {
			c.errf(e.Step.Pos(), "range step must be a number, got %s", st)
		}
		t = Unify(t, st)
	}
	if t.IsDynamic() {
		return ListOf(TypUnknown)
	}
	return ListOf(t)
}

func (c *checker) pipeline(e *Pipeline) *Type {
	t := c.expr(e.Head)
	for _, stage := range e.Stages {
		t = c.stage(stage, t)
	}
	return t
}

// stage types one pipeline stage given the piped-in type. A call stage
// gains the piped value as an implicit first argument; a bare function
// stage is applied to it.
func (c *checker) stage(stage Expr, in *Type) *Type {
	switch s := stage.(type) {
	case *Call:
		ft := c.expr(s.Fn)
		for _, a := range s.Args {
			c.expr(a)
		}
		if ft.IsDynamic() {
			return TypUnknown
		}
		if ft.Kind != KFunc {
			c.errf(s.Fn.Pos(), "pipeline stage must be a function, got %s", ft)
			return TypUnknown
		}
		if len(ft.Params) > 0 && !in.AssignableTo(ft.Params[0]) {
			c.errf(s.Fn.Pos(), "piped value has type %s but stage wants %s", in, ft.Params[0])
		}
		return ft.Ret
	default:
		ft := c.expr(stage)
		if ft.IsDynamic() {
			return TypUnknown
		}
		if ft.Kind != KFunc {
			c.errf(stage.Pos(), "pipeline stage must be a function, got %s", ft)
			return TypUnknown
		}
		if len(ft.Params) > 0 && !in.AssignableTo(ft.Params[0]) {
			c.errf(stage.Pos(), "piped value has type %s but stage wants %s", in, ft.Params[0])
		}
		return ft.Ret
	}
}

func (c *checker) when(e *When) *Type {
	subject := c.expr(e.Subject)
	var out *Type
	for i, arm := range e.Arms {
		inner := newTypeScope(c.env)
		c.bindPattern(arm.Pat, subject, inner)
		prev := c.env
		c.env = inner
		if arm.Guard != nil {
			c.condition(arm.Guard)
		}
		t := c.expr(arm.Body)
		c.env = prev
		if i == 0 {
			out = t
		} else {
			out = Unify(out, t)
		}
	}
	return out
}

func (c *checker) bindPattern(p Pattern, subject *Type, scope *typeScope) {
	switch p := p.(type) {
	case *BindPat:
		scope.define(p.Name, subject)
	case *LiteralPat:
		c.expr(p.X)
	case *TuplePat:
		elem := TypUnknown
		if subject.Kind == KList {
			elem = subject.Elem
		}
		for _, sub := range p.Elems {
			c.bindPattern(sub, elem, scope)
		}
	}
}

/* ---------- name suggestions ---------- */

func (c *checker) knownNames() []string {
	var names []string
	for sc := c.env; sc != nil; sc = sc.parent {
		for name := range sc.table {
			names = append(names, name)
		}
	}
	names = append(names, c.rt.BuiltinNames()...)
	return names
}

// nearestName returns the closest candidate within edit distance 2, or "".
func nearestName(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, cand := range candidates {
		d := editDistance(name, cand)
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = minInt(prev[j]+1, minInt(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
