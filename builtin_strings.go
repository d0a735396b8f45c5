// builtin_strings.go: string builtins.
package jcl

import (
	"fmt"
	"strings"
)

func registerStringBuiltins(rt *Runtime) {
	rt.RegisterNative("upper",
		[]ParamSpec{{"s", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(strings.ToUpper(c.Arg(0).Data.(string))), nil
		},
	)
	setBuiltinDoc(rt, "upper", `Uppercase conversion (Unicode aware).`)

	rt.RegisterNative("lower",
		[]ParamSpec{{"s", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(strings.ToLower(c.Arg(0).Data.(string))), nil
		},
	)
	setBuiltinDoc(rt, "lower", `Lowercase conversion (Unicode aware).`)

	rt.RegisterNative("trim",
		[]ParamSpec{{"s", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(strings.TrimSpace(c.Arg(0).Data.(string))), nil
		},
	)
	setBuiltinDoc(rt, "trim", `Remove leading and trailing whitespace.`)

	rt.RegisterNative("trimprefix",
		[]ParamSpec{{"s", TypString}, {"prefix", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(strings.TrimPrefix(c.Arg(0).Data.(string), c.Arg(1).Data.(string))), nil
		},
	)

	rt.RegisterNative("trimsuffix",
		[]ParamSpec{{"s", TypString}, {"suffix", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(strings.TrimSuffix(c.Arg(0).Data.(string), c.Arg(1).Data.(string))), nil
		},
	)

	rt.RegisterNative("replace",
		[]ParamSpec{{"s", TypString}, {"old", TypString}, {"new", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(strings.ReplaceAll(
				c.Arg(0).Data.(string), c.Arg(1).Data.(string), c.Arg(2).Data.(string))), nil
		},
	)
	setBuiltinDoc(rt, "replace", `Replace every occurrence of old with new.`)

	rt.RegisterNative("split",
		[]ParamSpec{{"s", TypString}, {"sep", TypString}}, ListOf(TypString),
		func(c CallCtx) (Value, error) {
			parts := strings.Split(c.Arg(0).Data.(string), c.Arg(1).Data.(string))
			out := make([]Value, len(parts))
			for i, p := range parts {
				out[i] = StrV(p)
			}
			return ListV(out), nil
		},
	)

	rt.RegisterNative("join",
		[]ParamSpec{{"parts", ListOf(TypString)}, {"sep", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			elems := c.Arg(0).Data.([]Value)
			parts := make([]string, len(elems))
			for i, e := range elems {
				parts[i] = e.Data.(string)
			}
			return StrV(strings.Join(parts, c.Arg(1).Data.(string))), nil
		},
	)
	setBuiltinDoc(rt, "join", `Concatenate a list of strings with a separator.`)

	rt.RegisterVariadic("format",
		[]ParamSpec{{"spec", TypString}, {"args", TypAny}}, TypString,
		func(c CallCtx) (Value, error) {
			spec := c.Arg(0).Data.(string)
			raw := make([]interface{}, len(c.Args)-1)
			for i, v := range c.Args[1:] {
				raw[i] = formatArg(v)
			}
			out := fmt.Sprintf(spec, raw...)
			if strings.Contains(out, "%!") {
				return NullV, c.Errf("format %q does not match its arguments", spec)
			}
			return StrV(out), nil
		},
	)
	setBuiltinDoc(rt, "format", `Sprintf-style formatting.

Verbs: %s (any value, strings unquoted), %d (int), %f (float), %v (literal
rendering), plus %% for a literal percent sign.`)

	rt.RegisterNative("substr",
		[]ParamSpec{{"s", TypString}, {"offset", TypInt}, {"length", TypInt}}, TypString,
		func(c CallCtx) (Value, error) {
			r := []rune(c.Arg(0).Data.(string))
			i := int(c.Arg(1).Data.(int64))
			n := int(c.Arg(2).Data.(int64))
			if i < 0 {
				i += len(r)
			}
			if i < 0 || i > len(r) {
				return NullV, c.Errf("substr offset %d out of range", i)
			}
			j := len(r)
			if n >= 0 && i+n < j {
				j = i + n
			}
			return StrV(string(r[i:j])), nil
		},
	)
	setBuiltinDoc(rt, "substr", `Unicode-safe substring by rune offset and length.

A negative offset counts from the end; a negative length takes the rest of
the string.`)

	rt.RegisterNative("strlen",
		[]ParamSpec{{"s", TypString}}, TypInt,
		func(c CallCtx) (Value, error) {
			return IntV(int64(len([]rune(c.Arg(0).Data.(string))))), nil
		},
	)
	setBuiltinDoc(rt, "strlen", `String length in runes, not bytes.`)
}

// formatArg adapts a Value for fmt verbs: scalars unwrap to their Go
// representation, composites render as JCL literals.
func formatArg(v Value) interface{} {
	switch v.Tag {
	case VBool, VInt, VFloat:
		return v.Data
	case VStr:
		return v.Data.(string)
	default:
		return Format(v)
	}
}
