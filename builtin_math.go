// builtin_math.go: numeric builtins and type conversions.
package jcl

import (
	"math"
	"strconv"
	"strings"
)

func registerMathBuiltins(rt *Runtime) {
	rt.RegisterVariadic("min",
		[]ParamSpec{{"values", TypAny}}, TypAny,
		func(c CallCtx) (Value, error) { return extremum(c, true) },
	)
	setBuiltinDoc(rt, "min", `Smallest of the arguments; a single list argument is
taken element-wise.`)

	rt.RegisterVariadic("max",
		[]ParamSpec{{"values", TypAny}}, TypAny,
		func(c CallCtx) (Value, error) { return extremum(c, false) },
	)

	rt.RegisterNative("sum",
		[]ParamSpec{{"list", ListOf(TypAny)}}, TypAny,
		func(c CallCtx) (Value, error) {
			elems := c.Arg(0).Data.([]Value)
			allInt := true
			var total float64
			var itotal int64
			for _, e := range elems {
				n, ok := numericOf(e)
				if !ok {
					return NullV, c.Errf("sum needs numbers, got %s", e.TypeName())
				}
				total += n
				if e.Tag == VInt {
					itotal += e.Data.(int64)
				} else {
					allInt = false
				}
			}
			if allInt {
				return IntV(itotal), nil
			}
			return FloatV(total), nil
		},
	)

	rt.RegisterNative("avg",
		[]ParamSpec{{"list", ListOf(TypAny)}}, TypFloat,
		func(c CallCtx) (Value, error) {
			elems := c.Arg(0).Data.([]Value)
			if len(elems) == 0 {
				return NullV, c.Errf("avg of an empty list")
			}
			var total float64
			for _, e := range elems {
				n, ok := numericOf(e)
				if !ok {
					return NullV, c.Errf("avg needs numbers, got %s", e.TypeName())
				}
				total += n
			}
			return FloatV(total / float64(len(elems))), nil
		},
	)

	rt.RegisterNative("abs",
		[]ParamSpec{{"n", TypAny}}, TypAny,
		func(c CallCtx) (Value, error) {
			switch v := c.Arg(0); v.Tag {
			case VInt:
				n := v.Data.(int64)
				if n < 0 {
					n = -n
				}
				return IntV(n), nil
			case VFloat:
				return FloatV(math.Abs(v.Data.(float64))), nil
			default:
				return NullV, c.Errf("abs needs int or float, got %s", v.TypeName())
			}
		},
	)

	rt.RegisterNative("ceil",
		[]ParamSpec{{"n", TypFloat}}, TypInt,
		func(c CallCtx) (Value, error) {
			n, _ := numericOf(c.Arg(0))
			return IntV(int64(math.Ceil(n))), nil
		},
	)

	rt.RegisterNative("floor",
		[]ParamSpec{{"n", TypFloat}}, TypInt,
		func(c CallCtx) (Value, error) {
			n, _ := numericOf(c.Arg(0))
			return IntV(int64(math.Floor(n))), nil
		},
	)

	rt.RegisterNative("round",
		[]ParamSpec{{"n", TypFloat}}, TypInt,
		func(c CallCtx) (Value, error) {
			n, _ := numericOf(c.Arg(0))
			return IntV(int64(math.Round(n))), nil
		},
	)

	rt.RegisterNative("tostring",
		[]ParamSpec{{"value", TypAny}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(FormatBare(c.Arg(0))), nil
		},
	)
	setBuiltinDoc(rt, "tostring", `Stringify a value; strings pass through unquoted,
composites render as literals.`)

	rt.RegisterNative("tonumber",
		[]ParamSpec{{"value", TypAny}}, TypAny,
		func(c CallCtx) (Value, error) {
			switch v := c.Arg(0); v.Tag {
			case VInt, VFloat:
				return v, nil
			case VStr:
				s := strings.TrimSpace(v.Data.(string))
				if n, err := strconv.ParseInt(s, 10, 64); err == nil {
					return IntV(n), nil
				}
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					return FloatV(f), nil
				}
				return NullV, c.Errf("cannot parse %q as a number", s)
			default:
				return NullV, c.Errf("tonumber needs a string or number, got %s", v.TypeName())
			}
		},
	)
	setBuiltinDoc(rt, "tonumber", `Parse a string as int (preferred) or float.`)

	rt.RegisterNative("tobool",
		[]ParamSpec{{"value", TypAny}}, TypBool,
		func(c CallCtx) (Value, error) {
			switch v := c.Arg(0); v.Tag {
			case VBool:
				return v, nil
			case VStr:
				switch v.Data.(string) {
				case "true":
					return BoolV(true), nil
				case "false":
					return BoolV(false), nil
				}
				return NullV, c.Errf("cannot parse %q as bool", v.Data.(string))
			default:
				return BoolV(v.Truthy()), nil
			}
		},
	)
}

func extremum(c CallCtx, wantMin bool) (Value, error) {
	args := c.Args
	if len(args) == 1 && args[0].Tag == VList {
		args = args[0].Data.([]Value)
	}
	if len(args) == 0 {
		return NullV, c.Errf("need at least one value")
	}
	best := args[0]
	bestN, ok := numericOf(best)
	if !ok {
		return NullV, c.Errf("min/max needs numbers, got %s", best.TypeName())
	}
	for _, v := range args[1:] {
		n, ok := numericOf(v)
		if !ok {
			return NullV, c.Errf("min/max needs numbers, got %s", v.TypeName())
		}
		if (wantMin && n < bestN) || (!wantMin && n > bestN) {
			best, bestN = v, n
		}
	}
	return best, nil
}
