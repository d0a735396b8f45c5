// builtin_collections.go: list and map builtins, plus the higher-order
// trio map/filter/reduce which call back into the evaluator through
// CallCtx.Apply.
package jcl

import (
	"sort"
	"strings"
)

func registerCollectionBuiltins(rt *Runtime) {
	rt.RegisterNative("length",
		[]ParamSpec{{"value", TypAny}}, TypInt,
		func(c CallCtx) (Value, error) {
			switch v := c.Arg(0); v.Tag {
			case VList:
				return IntV(int64(len(v.Data.([]Value)))), nil
			case VMap:
				return IntV(int64(v.Data.(*MapObject).Len())), nil
			case VStr:
				return IntV(int64(len([]rune(v.Data.(string))))), nil
			default:
				return NullV, c.Errf("length expects a list, map or string, got %s", v.TypeName())
			}
		},
	)
	setBuiltinDoc(rt, "length", `Number of elements in a list or map, or runes in a string.`)

	rt.RegisterNative("contains",
		[]ParamSpec{{"collection", TypAny}, {"needle", TypAny}}, TypBool,
		func(c CallCtx) (Value, error) {
			switch v := c.Arg(0); v.Tag {
			case VList:
				for _, e := range v.Data.([]Value) {
					if DeepEqual(e, c.Arg(1)) {
						return BoolV(true), nil
					}
				}
				return BoolV(false), nil
			case VMap:
				if c.Arg(1).Tag != VStr {
					return BoolV(false), nil
				}
				_, ok := v.Data.(*MapObject).Get(c.Arg(1).Data.(string))
				return BoolV(ok), nil
			case VStr:
				if c.Arg(1).Tag != VStr {
					return BoolV(false), nil
				}
				return BoolV(strings.Contains(v.Data.(string), c.Arg(1).Data.(string))), nil
			default:
				return NullV, c.Errf("contains expects a list, map or string, got %s", v.TypeName())
			}
		},
	)

	rt.RegisterNative("keys",
		[]ParamSpec{{"m", MapOf(TypString, TypAny)}}, ListOf(TypString),
		func(c CallCtx) (Value, error) {
			m := c.Arg(0).Data.(*MapObject)
			out := make([]Value, len(m.Keys))
			for i, k := range m.Keys {
				out[i] = StrV(k)
			}
			return ListV(out), nil
		},
	)
	setBuiltinDoc(rt, "keys", `Map keys in insertion order.`)

	rt.RegisterNative("values",
		[]ParamSpec{{"m", MapOf(TypString, TypAny)}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			m := c.Arg(0).Data.(*MapObject)
			out := make([]Value, len(m.Keys))
			for i, k := range m.Keys {
				out[i] = m.Entries[k]
			}
			return ListV(out), nil
		},
	)

	rt.RegisterVariadic("merge",
		[]ParamSpec{{"maps", MapOf(TypString, TypAny)}}, MapOf(TypString, TypAny),
		func(c CallCtx) (Value, error) {
			out := NewMapObject()
			for _, arg := range c.Args {
				m := arg.Data.(*MapObject)
				for _, k := range m.Keys {
					out.Set(k, m.Entries[k])
				}
			}
			return MapV(out), nil
		},
	)
	setBuiltinDoc(rt, "merge", `Merge maps left to right; later keys win, first
insertion keeps its position.`)

	rt.RegisterVariadic("lookup",
		[]ParamSpec{{"m", MapOf(TypString, TypAny)}, {"key", TypString}, {"default", TypAny}}, TypAny,
		func(c CallCtx) (Value, error) {
			m := c.Arg(0).Data.(*MapObject)
			if v, ok := m.Get(c.Arg(1).Data.(string)); ok {
				return v, nil
			}
			if len(c.Args) > 2 {
				return c.Arg(2), nil
			}
			return NullV, nil
		},
	)
	setBuiltinDoc(rt, "lookup", `Map lookup with an optional default (null otherwise).`)

	rt.RegisterNative("reverse",
		[]ParamSpec{{"list", ListOf(TypAny)}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			in := c.Arg(0).Data.([]Value)
			out := make([]Value, len(in))
			for i, v := range in {
				out[len(in)-1-i] = v
			}
			return ListV(out), nil
		},
	)

	rt.RegisterNative("sort",
		[]ParamSpec{{"list", ListOf(TypAny)}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			in := c.Arg(0).Data.([]Value)
			out := make([]Value, len(in))
			copy(out, in)
			var sortErr error
			sort.SliceStable(out, func(i, j int) bool {
				less, err := lessValues(out[i], out[j])
				if err != nil && sortErr == nil {
					sortErr = c.Errf("sort needs a list of all numbers or all strings")
				}
				return less
			})
			if sortErr != nil {
				return NullV, sortErr
			}
			return ListV(out), nil
		},
	)
	setBuiltinDoc(rt, "sort", `Stable ascending sort of numbers or strings.`)

	rt.RegisterNative("flatten",
		[]ParamSpec{{"list", ListOf(TypAny)}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			var out []Value
			var walk func([]Value)
			walk = func(elems []Value) {
				for _, e := range elems {
					if e.Tag == VList {
						walk(e.Data.([]Value))
					} else {
						out = append(out, e)
					}
				}
			}
			walk(c.Arg(0).Data.([]Value))
			return ListV(out), nil
		},
	)
	setBuiltinDoc(rt, "flatten", `Recursively flatten nested lists into one list.`)

	rt.RegisterNative("distinct",
		[]ParamSpec{{"list", ListOf(TypAny)}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			var out []Value
			for _, e := range c.Arg(0).Data.([]Value) {
				seen := false
				for _, have := range out {
					if DeepEqual(e, have) {
						seen = true
						break
					}
				}
				if !seen {
					out = append(out, e)
				}
			}
			return ListV(out), nil
		},
	)

	rt.RegisterNative("compact",
		[]ParamSpec{{"list", ListOf(TypAny)}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			var out []Value
			for _, e := range c.Arg(0).Data.([]Value) {
				if e.IsNull() {
					continue
				}
				if e.Tag == VStr && e.Data.(string) == "" {
					continue
				}
				out = append(out, e)
			}
			return ListV(out), nil
		},
	)
	setBuiltinDoc(rt, "compact", `Drop nulls and empty strings from a list.`)

	rt.RegisterNative("zipmap",
		[]ParamSpec{{"keys", ListOf(TypString)}, {"values", ListOf(TypAny)}}, MapOf(TypString, TypAny),
		func(c CallCtx) (Value, error) {
			ks := c.Arg(0).Data.([]Value)
			vs := c.Arg(1).Data.([]Value)
			if len(ks) != len(vs) {
				return NullV, c.Errf("zipmap needs lists of equal length, got %d and %d", len(ks), len(vs))
			}
			out := NewMapObject()
			for i, k := range ks {
				out.Set(k.Data.(string), vs[i])
			}
			return MapV(out), nil
		},
	)

	rt.RegisterVariadic("coalesce",
		[]ParamSpec{{"values", TypAny}}, TypAny,
		func(c CallCtx) (Value, error) {
			for _, v := range c.Args {
				if !v.IsNull() {
					return v, nil
				}
			}
			return NullV, nil
		},
	)
	setBuiltinDoc(rt, "coalesce", `First non-null argument, or null.`)

	rt.RegisterVariadic("range",
		[]ParamSpec{{"start", TypInt}, {"rest", TypInt}}, ListOf(TypInt),
		func(c CallCtx) (Value, error) {
			var start, end, step int64 = 0, 0, 1
			switch len(c.Args) {
			case 1:
				end = c.Arg(0).Data.(int64)
			case 2:
				start, end = c.Arg(0).Data.(int64), c.Arg(1).Data.(int64)
			case 3:
				start, end, step = c.Arg(0).Data.(int64), c.Arg(1).Data.(int64), c.Arg(2).Data.(int64)
			default:
				return NullV, c.Errf("range takes 1 to 3 arguments, got %d", len(c.Args))
			}
			if step == 0 {
				return NullV, c.Errf("range step cannot be zero")
			}
			var out []Value
			if step > 0 {
				for i := start; i < end; i += step {
					out = append(out, IntV(i))
				}
			} else {
				for i := start; i > end; i += step {
					out = append(out, IntV(i))
				}
			}
			return ListV(out), nil
		},
	)
	setBuiltinDoc(rt, "range", `Half-open integer range: range(n), range(a, b) or
range(a, b, step).`)

	rt.RegisterNative("map",
		[]ParamSpec{{"list", ListOf(TypAny)}, {"f", TypAny}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			in := c.Arg(0).Data.([]Value)
			out := make([]Value, len(in))
			for i, e := range in {
				v, err := c.Apply(c.Arg(1), []Value{e})
				if err != nil {
					return NullV, err
				}
				out[i] = v
			}
			return ListV(out), nil
		},
	)
	setBuiltinDoc(rt, "map", `Apply a function to every element.`)

	rt.RegisterNative("filter",
		[]ParamSpec{{"list", ListOf(TypAny)}, {"pred", TypAny}}, ListOf(TypAny),
		func(c CallCtx) (Value, error) {
			var out []Value
			for _, e := range c.Arg(0).Data.([]Value) {
				keep, err := c.Apply(c.Arg(1), []Value{e})
				if err != nil {
					return NullV, err
				}
				if keep.Truthy() {
					out = append(out, e)
				}
			}
			return ListV(out), nil
		},
	)
	setBuiltinDoc(rt, "filter", `Keep the elements the predicate is truthy for.`)

	rt.RegisterVariadic("reduce",
		[]ParamSpec{{"list", ListOf(TypAny)}, {"f", TypAny}, {"initial", TypAny}}, TypAny,
		func(c CallCtx) (Value, error) {
			elems := c.Arg(0).Data.([]Value)
			acc := NullV
			start := 0
			if len(c.Args) > 2 {
				acc = c.Arg(2)
			} else {
				if len(elems) == 0 {
					return NullV, c.Errf("reduce of an empty list needs an initial value")
				}
				acc = elems[0]
				start = 1
			}
			for _, e := range elems[start:] {
				v, err := c.Apply(c.Arg(1), []Value{acc, e})
				if err != nil {
					return NullV, err
				}
				acc = v
			}
			return acc, nil
		},
	)
	setBuiltinDoc(rt, "reduce", `Fold a list with f(acc, elem); the initial value is
optional when the list is non-empty.`)
}

func lessValues(a, b Value) (bool, error) {
	if a.Tag == VStr && b.Tag == VStr {
		return a.Data.(string) < b.Data.(string), nil
	}
	an, aok := numericOf(a)
	bn, bok := numericOf(b)
	if aok && bok {
		return an < bn, nil
	}
	return false, evalErrf(Span{}, "values are not comparable")
}
