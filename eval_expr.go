// eval_expr.go: expression evaluation.
//
// Companion to evaluator.go. Covers operators (int/float promotion,
// short-circuit and/or over truthiness, null coalescing), member and
// null-safe access, Python-style slices, splat projection, ranges,
// comprehensions (cartesian flattening over multiple generators, with early
// termination when the comprehension is immediately indexed or sliced),
// pipelines, pattern matching and try(). Every failure is an *EvalError
// carrying the span of the failing subexpression.
package jcl

import (
	"errors"
	"math"
	"strings"
)

func (ip *interp) eval(e Expr, env *Env) (Value, error) {
	switch e := e.(type) {
	case *IntLit:
		return IntV(e.Value), nil
	case *FloatLit:
		return FloatV(e.Value), nil
	case *StringLit:
		return StrV(e.Value), nil
	case *BoolLit:
		return BoolV(e.Value), nil
	case *NullLit:
		return NullV, nil
	case *Ident:
		return ip.evalIdent(e, env)
	case *ListLit:
		elems := make([]Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, err := ip.eval(el, env)
			if err != nil {
				return NullV, err
			}
			elems = append(elems, v)
		}
		return ListV(elems), nil
	case *MapLit:
		m := NewMapObject()
		for _, entry := range e.Entries {
			v, err := ip.eval(entry.Value, env)
			if err != nil {
				return NullV, err
			}
			m.Set(entry.Key, v)
		}
		return MapV(m), nil
	case *Interp:
		var b strings.Builder
		for _, part := range e.Parts {
			if part.X == nil {
				b.WriteString(part.Text)
				continue
			}
			v, err := ip.eval(part.X, env)
			if err != nil {
				return NullV, err
			}
			b.WriteString(FormatBare(v))
		}
		return StrV(b.String()), nil
	case *Unary:
		return ip.evalUnary(e, env)
	case *Binary:
		return ip.evalBinary(e, env)
	case *Ternary:
		return ip.evalCond(e.Cond, e.Then, e.Else, env)
	case *If:
		return ip.evalCond(e.Cond, e.Then, e.Else, env)
	case *Member:
		return ip.evalMember(e, env)
	case *Index:
		return ip.evalIndex(e, env)
	case *Slice:
		return ip.evalSlice(e, env)
	case *Splat:
		v, err := ip.eval(e.X, env)
		if err != nil {
			return NullV, err
		}
		if v.Tag != VList {
			return NullV, evalErrf(e.X.Pos(), "splat requires a list, got %s", v.TypeName())
		}
		return v, nil
	case *Call:
		return ip.evalCall(e, env)
	case *Lambda:
		return FunV(&Fun{Params: e.Params, Body: e.Body, Env: env}), nil
	case *Comprehension:
		return ip.evalComp(e, env, -1)
	case *Range:
		return ip.evalRange(e, env)
	case *Pipeline:
		return ip.evalPipeline(e, env)
	case *Try:
		v, err := ip.eval(e.X, env)
		if err == nil {
			return v, nil
		}
		var ee *EvalError
		if !errors.As(err, &ee) {
			return NullV, err
		}
		if e.Default != nil {
			return ip.eval(e.Default, env)
		}
		return NullV, nil
	case *When:
		return ip.evalWhen(e, env)
	}
	return NullV, evalErrf(e.Pos(), "cannot evaluate this expression")
}

func (ip *interp) evalIdent(e *Ident, env *Env) (Value, error) {
	if b, ok := env.lookup(e.Name); ok {
		if b.state != bindDone {
			return ip.force(e.Name, b, e.Span_)
		}
		return b.value, nil
	}
	if b, ok := ip.rt.Builtin(e.Name); ok {
		return FunV(&Fun{Name: e.Name, Native: b}), nil
	}
	return NullV, evalErrf(e.Span_, "undefined name %q", e.Name)
}

func (ip *interp) evalCond(cond, then, els Expr, env *Env) (Value, error) {
	c, err := ip.eval(cond, env)
	if err != nil {
		return NullV, err
	}
	if c.Truthy() {
		return ip.eval(then, env)
	}
	return ip.eval(els, env)
}

func (ip *interp) evalUnary(e *Unary, env *Env) (Value, error) {
	v, err := ip.eval(e.X, env)
	if err != nil {
		return NullV, err
	}
	switch e.Op {
	case NOT:
		return BoolV(!v.Truthy()), nil
	case MINUS:
		switch v.Tag {
		case VInt:
			return IntV(-v.Data.(int64)), nil
		case VFloat:
			return FloatV(-v.Data.(float64)), nil
		}
		return NullV, evalErrf(e.X.Pos(), "unary '-' needs int or float, got %s", v.TypeName())
	}
	return NullV, evalErrf(e.Span_, "unknown unary operator")
}

func (ip *interp) evalBinary(e *Binary, env *Env) (Value, error) {
	// Short-circuit forms evaluate the right side conditionally.
	switch e.Op {
	case AND:
		l, err := ip.eval(e.L, env)
		if err != nil {
			return NullV, err
		}
		if !l.Truthy() {
			return l, nil
		}
		return ip.eval(e.R, env)
	case OR:
		l, err := ip.eval(e.L, env)
		if err != nil {
			return NullV, err
		}
		if l.Truthy() {
			return l, nil
		}
		return ip.eval(e.R, env)
	case COALESCE:
		l, err := ip.eval(e.L, env)
		if err != nil {
			return NullV, err
		}
		if !l.IsNull() {
			return l, nil
		}
		return ip.eval(e.R, env)
	}
	l, err := ip.eval(e.L, env)
	if err != nil {
		return NullV, err
	}
	r, err := ip.eval(e.R, env)
	if err != nil {
		return NullV, err
	}
	switch e.Op {
	case EQ:
		return BoolV(DeepEqual(l, r)), nil
	case NEQ:
		return BoolV(!DeepEqual(l, r)), nil
	case PLUS:
		if l.Tag == VStr && r.Tag == VStr {
			return StrV(l.Data.(string) + r.Data.(string)), nil
		}
		return ip.arith(e, l, r)
	case MINUS, STAR, SLASH, PERCENT:
		return ip.arith(e, l, r)
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return ip.compare(e, l, r)
	}
	return NullV, evalErrf(e.OpSpan, "unknown operator")
}

// arith implements + - * / % with int/float promotion. Two ints stay int
// (integral division); a float on either side promotes both.
func (ip *interp) arith(e *Binary, l, r Value) (Value, error) {
	if l.Tag == VInt && r.Tag == VInt {
		a, b := l.Data.(int64), r.Data.(int64)
		switch e.Op {
		case PLUS:
			return IntV(a + b), nil
		case MINUS:
			return IntV(a - b), nil
		case STAR:
			return IntV(a * b), nil
		case SLASH:
			if b == 0 {
				return NullV, evalErrf(e.OpSpan, "division by zero")
			}
			return IntV(a / b), nil
		case PERCENT:
			if b == 0 {
				return NullV, evalErrf(e.OpSpan, "modulo by zero")
			}
			return IntV(a % b), nil
		}
	}
	a, aok := numericOf(l)
	b, bok := numericOf(r)
	if !aok || !bok {
		return NullV, evalErrf(e.OpSpan, "operator %s cannot combine %s and %s",
			e.Op, l.TypeName(), r.TypeName())
	}
	switch e.Op {
	case PLUS:
		return FloatV(a + b), nil
	case MINUS:
		return FloatV(a - b), nil
	case STAR:
		return FloatV(a * b), nil
	case SLASH:
		if b == 0 {
			return NullV, evalErrf(e.OpSpan, "division by zero")
		}
		return FloatV(a / b), nil
	case PERCENT:
		return NullV, evalErrf(e.OpSpan, "operator '%%' needs int operands")
	}
	return NullV, evalErrf(e.OpSpan, "unknown operator")
}

func (ip *interp) compare(e *Binary, l, r Value) (Value, error) {
	var cmp int
	switch {
	case l.Tag == VStr && r.Tag == VStr:
		cmp = strings.Compare(l.Data.(string), r.Data.(string))
	default:
		a, aok := numericOf(l)
		b, bok := numericOf(r)
		if !aok || !bok {
			return NullV, evalErrf(e.OpSpan, "operator %s cannot compare %s and %s",
				e.Op, l.TypeName(), r.TypeName())
		}
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	}
	switch e.Op {
	case LESS:
		return BoolV(cmp < 0), nil
	case LESS_EQ:
		return BoolV(cmp <= 0), nil
	case GREATER:
		return BoolV(cmp > 0), nil
	default:
		return BoolV(cmp >= 0), nil
	}
}

/* ---------- member, index, slice, splat ---------- */

func (ip *interp) evalMember(e *Member, env *Env) (Value, error) {
	// `xs[*].field` projects the access over the list.
	if splat, ok := e.X.(*Splat); ok {
		base, err := ip.eval(splat.X, env)
		if err != nil {
			return NullV, err
		}
		if base.Tag != VList {
			return NullV, evalErrf(splat.X.Pos(), "splat requires a list, got %s", base.TypeName())
		}
		elems := base.Data.([]Value)
		out := make([]Value, 0, len(elems))
		for _, elem := range elems {
			v, err := ip.field(elem, e)
			if err != nil {
				return NullV, err
			}
			out = append(out, v)
		}
		return ListV(out), nil
	}
	v, err := ip.eval(e.X, env)
	if err != nil {
		return NullV, err
	}
	return ip.field(v, e)
}

func (ip *interp) field(v Value, e *Member) (Value, error) {
	switch v.Tag {
	case VMap:
		m := v.Data.(*MapObject)
		if out, ok := m.Get(e.Name); ok {
			return out, nil
		}
		if e.Optional {
			return NullV, nil
		}
		return NullV, evalErrf(e.NameSpan, "map has no field %q", e.Name)
	case VNull:
		if e.Optional {
			return NullV, nil
		}
		return NullV, evalErrf(e.NameSpan, "cannot access field %q on null (use '?.')", e.Name)
	default:
		return NullV, evalErrf(e.NameSpan, "cannot access field %q on %s", e.Name, v.TypeName())
	}
}

func (ip *interp) evalIndex(e *Index, env *Env) (Value, error) {
	idx, err := ip.eval(e.Idx, env)
	if err != nil {
		return NullV, err
	}
	// Indexing a single-generator comprehension only needs idx+1 elements.
	if comp, ok := e.X.(*Comprehension); ok && len(comp.Clauses) == 1 && idx.Tag == VInt && idx.Data.(int64) >= 0 {
		v, err := ip.evalComp(comp, env, int(idx.Data.(int64))+1)
		if err != nil {
			return NullV, err
		}
		return ip.indexValue(v, idx, e)
	}
	v, err := ip.eval(e.X, env)
	if err != nil {
		return NullV, err
	}
	return ip.indexValue(v, idx, e)
}

func (ip *interp) indexValue(v, idx Value, e *Index) (Value, error) {
	switch v.Tag {
	case VList:
		elems := v.Data.([]Value)
		i, err := wantInt(idx, e.Idx.Pos(), "list index")
		if err != nil {
			return NullV, err
		}
		if i < 0 {
			i += int64(len(elems))
		}
		if i < 0 || i >= int64(len(elems)) {
			return NullV, evalErrf(e.Idx.Pos(), "index %d out of range for list of length %d",
				idx.Data.(int64), len(elems))
		}
		return elems[i], nil
	case VStr:
		runes := []rune(v.Data.(string))
		i, err := wantInt(idx, e.Idx.Pos(), "string index")
		if err != nil {
			return NullV, err
		}
		if i < 0 {
			i += int64(len(runes))
		}
		if i < 0 || i >= int64(len(runes)) {
			return NullV, evalErrf(e.Idx.Pos(), "index %d out of range for string of length %d",
				idx.Data.(int64), len(runes))
		}
		return StrV(string(runes[i])), nil
	case VMap:
		if idx.Tag != VStr {
			return NullV, evalErrf(e.Idx.Pos(), "map key must be string, got %s", idx.TypeName())
		}
		m := v.Data.(*MapObject)
		if out, ok := m.Get(idx.Data.(string)); ok {
			return out, nil
		}
		return NullV, evalErrf(e.Idx.Pos(), "map has no key %q", idx.Data.(string))
	default:
		return NullV, evalErrf(e.X.Pos(), "cannot index %s", v.TypeName())
	}
}

func wantInt(v Value, span Span, what string) (int64, error) {
	if v.Tag != VInt {
		return 0, evalErrf(span, "%s must be int, got %s", what, v.TypeName())
	}
	return v.Data.(int64), nil
}

func (ip *interp) evalSlice(e *Slice, env *Env) (Value, error) {
	bound := func(x Expr) (int64, bool, error) {
		if x == nil {
			return 0, false, nil
		}
		v, err := ip.eval(x, env)
		if err != nil {
			return 0, false, err
		}
		n, err := wantInt(v, x.Pos(), "slice bound")
		return n, true, err
	}
	start, hasStart, err := bound(e.Start)
	if err != nil {
		return NullV, err
	}
	end, hasEnd, err := bound(e.End)
	if err != nil {
		return NullV, err
	}
	step, hasStep, err := bound(e.Step)
	if err != nil {
		return NullV, err
	}
	if hasStep && step == 0 {
		return NullV, evalErrf(e.Step.Pos(), "slice step cannot be zero")
	}

	// Slicing a single-generator comprehension with simple forward bounds
	// stops generating at the upper bound.
	if comp, ok := e.X.(*Comprehension); ok && len(comp.Clauses) == 1 &&
		(!hasStep || step > 0) && hasEnd && end >= 0 && (!hasStart || start >= 0) {
		v, err := ip.evalComp(comp, env, int(end))
		if err != nil {
			return NullV, err
		}
		return sliceValue(v, start, hasStart, end, hasEnd, step, hasStep, e)
	}
	v, err := ip.eval(e.X, env)
	if err != nil {
		return NullV, err
	}
	return sliceValue(v, start, hasStart, end, hasEnd, step, hasStep, e)
}

func sliceValue(v Value, start int64, hasStart bool, end int64, hasEnd bool, step int64, hasStep bool, e *Slice) (Value, error) {
	switch v.Tag {
	case VList:
		elems := v.Data.([]Value)
		idxs := sliceIndices(int64(len(elems)), start, hasStart, end, hasEnd, step, hasStep)
		out := make([]Value, 0, len(idxs))
		for _, i := range idxs {
			out = append(out, elems[i])
		}
		return ListV(out), nil
	case VStr:
		runes := []rune(v.Data.(string))
		idxs := sliceIndices(int64(len(runes)), start, hasStart, end, hasEnd, step, hasStep)
		var b strings.Builder
		for _, i := range idxs {
			b.WriteRune(runes[i])
		}
		return StrV(b.String()), nil
	default:
		return NullV, evalErrf(e.X.Pos(), "cannot slice %s", v.TypeName())
	}
}

// sliceIndices computes the selected indices with Python semantics:
// negative bounds count from the end, defaults depend on the step's
// direction, and out-of-order bounds select nothing.
func sliceIndices(n, start int64, hasStart bool, end int64, hasEnd bool, step int64, hasStep bool) []int64 {
	if !hasStep {
		step = 1
	}
	var lo, hi int64
	if step > 0 {
		lo, hi = int64(0), n
		if hasStart {
			lo = clampIndex(start, n, 0, n)
		}
		if hasEnd {
			hi = clampIndex(end, n, 0, n)
		}
		var out []int64
		for i := lo; i < hi; i += step {
			out = append(out, i)
		}
		return out
	}
	lo, hi = n-1, -1
	if hasStart {
		lo = clampIndex(start, n, -1, n-1)
	}
	if hasEnd {
		hi = clampIndex(end, n, -1, n-1)
	}
	var out []int64
	for i := lo; i > hi; i += step {
		out = append(out, i)
	}
	return out
}

func clampIndex(i, n, min, max int64) int64 {
	if i < 0 {
		i += n
	}
	if i < min {
		return min
	}
	if i > max {
		return max
	}
	return i
}

/* ---------- calls & pipelines ---------- */

func (ip *interp) evalCall(e *Call, env *Env) (Value, error) {
	fn, err := ip.eval(e.Fn, env)
	if err != nil {
		return NullV, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ip.eval(a, env)
		if err != nil {
			return NullV, err
		}
		args = append(args, v)
	}
	return ip.apply(fn, args, e.Span_)
}

// apply calls a function value with already-evaluated arguments.
func (ip *interp) apply(fn Value, args []Value, span Span) (Value, error) {
	if fn.Tag != VFun {
		return NullV, evalErrf(span, "cannot call %s", fn.TypeName())
	}
	f := fn.Data.(*Fun)
	if f.Native != nil {
		return ip.applyNative(f.Native, args, span)
	}
	if len(args) != len(f.Params) {
		return NullV, evalErrf(span, "function %s takes %d argument(s), got %d",
			funLabel(f), len(f.Params), len(args))
	}
	frame := NewEnv(f.Env)
	for i, p := range f.Params {
		if p.Type != nil {
			if t, terr := TypeFromLit(p.Type); terr == nil && !MatchesType(args[i], t) {
				return NullV, evalErrf(span, "parameter %q of %s must be %s, got %s",
					p.Name, funLabel(f), t, args[i].TypeName())
			}
		}
		frame.Define(p.Name, args[i])
	}
	return ip.eval(f.Body, frame)
}

func (ip *interp) applyNative(b *Builtin, args []Value, span Span) (Value, error) {
	min := len(b.Params)
	if b.Variadic {
		min--
	}
	if len(args) < min || (!b.Variadic && len(args) > len(b.Params)) {
		return NullV, evalErrf(span, "%s takes %d argument(s), got %d", b.Name, len(b.Params), len(args))
	}
	for i, arg := range args {
		pi := i
		if pi >= len(b.Params) {
			pi = len(b.Params) - 1
		}
		want := b.Params[pi].Type
		if !MatchesType(arg, want) {
			return NullV, evalErrf(span, "argument %q of %s must be %s, got %s",
				b.Params[pi].Name, b.Name, want, arg.TypeName())
		}
	}
	return b.Impl(CallCtx{
		Args: args,
		Span: span,
		Apply: func(fn Value, callArgs []Value) (Value, error) {
			return ip.apply(fn, callArgs, span)
		},
	})
}

func funLabel(f *Fun) string {
	if f.Name != "" {
		return "'" + f.Name + "'"
	}
	return "lambda"
}

func (ip *interp) evalPipeline(e *Pipeline, env *Env) (Value, error) {
	v, err := ip.eval(e.Head, env)
	if err != nil {
		return NullV, err
	}
	for _, stage := range e.Stages {
		switch s := stage.(type) {
		case *Call:
			// The piped value becomes the first argument.
			fn, err := ip.eval(s.Fn, env)
			if err != nil {
				return NullV, err
			}
			args := make([]Value, 0, len(s.Args)+1)
			args = append(args, v)
			for _, a := range s.Args {
				av, err := ip.eval(a, env)
				if err != nil {
					return NullV, err
				}
				args = append(args, av)
			}
			if v, err = ip.apply(fn, args, s.Span_); err != nil {
				return NullV, err
			}
		default:
			fn, err := ip.eval(stage, env)
			if err != nil {
				return NullV, err
			}
			if v, err = ip.apply(fn, []Value{v}, stage.Pos()); err != nil {
				return NullV, err
			}
		}
	}
	return v, nil
}

/* ---------- comprehensions & ranges ---------- */

// errCompLimit signals that a limited comprehension collected enough
// elements; it never escapes evalComp.
var errCompLimit = errors.New("comprehension limit reached")

// evalComp evaluates a comprehension. limit < 0 means unbounded; otherwise
// generation stops as soon as limit elements exist.
func (ip *interp) evalComp(e *Comprehension, env *Env, limit int) (Value, error) {
	out := []Value{}
	scope := NewEnv(env)
	var rec func(clause int) error
	rec = func(clause int) error {
		if clause == len(e.Clauses) {
			if e.Cond != nil {
				c, err := ip.eval(e.Cond, scope)
				if err != nil {
					return err
				}
				if !c.Truthy() {
					return nil
				}
			}
			v, err := ip.eval(e.Body, scope)
			if err != nil {
				return err
			}
			out = append(out, v)
			if limit >= 0 && len(out) >= limit {
				return errCompLimit
			}
			return nil
		}
		cl := e.Clauses[clause]
		iter, err := ip.eval(cl.Iter, scope)
		if err != nil {
			return err
		}
		if iter.Tag != VList {
			return evalErrf(cl.Iter.Pos(), "comprehension iterates a list, got %s", iter.TypeName())
		}
		for _, elem := range iter.Data.([]Value) {
			scope.Define(cl.Var, elem)
			if err := rec(clause + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rec(0); err != nil && err != errCompLimit {
		return NullV, err
	}
	return ListV(out), nil
}

func (ip *interp) evalRange(e *Range, env *Env) (Value, error) {
	start, err := ip.eval(e.Start, env)
	if err != nil {
		return NullV, err
	}
	end, err := ip.eval(e.End, env)
	if err != nil {
		return NullV, err
	}
	var step Value
	hasStep := false
	if e.Step != nil {
		if step, err = ip.eval(e.Step, env); err != nil {
			return NullV, err
		}
		hasStep = true
	}

	allInt := start.Tag == VInt && end.Tag == VInt && (!hasStep || step.Tag == VInt)
	if allInt {
		a, b := start.Data.(int64), end.Data.(int64)
		var st int64 = 1
		if b < a {
			st = -1
		}
		if hasStep {
			st = step.Data.(int64)
		}
		if st == 0 {
			return NullV, evalErrf(e.Step.Pos(), "range step cannot be zero")
		}
		if (b > a && st < 0) || (b < a && st > 0) {
			return NullV, evalErrf(e.Span_, "range step moves away from the end")
		}
		var out []Value
		if st > 0 {
			for i := a; i < b || (e.Inclusive && i == b); i += st {
				out = append(out, IntV(i))
			}
		} else {
			for i := a; i > b || (e.Inclusive && i == b); i += st {
				out = append(out, IntV(i))
			}
		}
		return ListV(out), nil
	}

	a, aok := numericOf(start)
	b, bok := numericOf(end)
	if !aok || !bok {
		return NullV, evalErrf(e.Span_, "range bounds must be numbers")
	}
	st := 1.0
	if b < a {
		st = -1.0
	}
	if hasStep {
		sv, sok := numericOf(step)
		if !sok {
			return NullV, evalErrf(e.Step.Pos(), "range step must be a number")
		}
		st = sv
	}
	if st == 0 {
		return NullV, evalErrf(e.Step.Pos(), "range step cannot be zero")
	}
	if (b > a && st < 0) || (b < a && st > 0) {
		return NullV, evalErrf(e.Span_, "range step moves away from the end")
	}
	var out []Value
	// A touch of tolerance keeps 0.1-style steps from dropping the end.
	eps := math.Abs(st) * 1e-9
	if st > 0 {
		for f := a; f < b || (e.Inclusive && f <= b+eps); f += st {
			out = append(out, FloatV(f))
		}
	} else {
		for f := a; f > b || (e.Inclusive && f >= b-eps); f += st {
			out = append(out, FloatV(f))
		}
	}
	return ListV(out), nil
}

/* ---------- pattern matching ---------- */

func (ip *interp) evalWhen(e *When, env *Env) (Value, error) {
	subject, err := ip.eval(e.Subject, env)
	if err != nil {
		return NullV, err
	}
	for _, arm := range e.Arms {
		scope := NewEnv(env)
		ok, err := ip.matchPattern(arm.Pat, subject, scope)
		if err != nil {
			return NullV, err
		}
		if !ok {
			continue
		}
		if arm.Guard != nil {
			g, err := ip.eval(arm.Guard, scope)
			if err != nil {
				return NullV, err
			}
			if !g.Truthy() {
				continue
			}
		}
		return ip.eval(arm.Body, scope)
	}
	return NullV, evalErrf(e.Span_, "no pattern matched %s", Format(subject))
}

func (ip *interp) matchPattern(p Pattern, v Value, scope *Env) (bool, error) {
	switch p := p.(type) {
	case *WildcardPat:
		return true, nil
	case *BindPat:
		scope.Define(p.Name, v)
		return true, nil
	case *LiteralPat:
		want, err := ip.eval(p.X, scope)
		if err != nil {
			return false, err
		}
		return DeepEqual(want, v), nil
	case *TuplePat:
		if v.Tag != VList {
			return false, nil
		}
		elems := v.Data.([]Value)
		if len(elems) != len(p.Elems) {
			return false, nil
		}
		for i, sub := range p.Elems {
			ok, err := ip.matchPattern(sub, elems[i], scope)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}
