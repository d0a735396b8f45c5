// builtin_time.go: time builtins. The current time comes from the host's
// Now capability so evaluation stays deterministic under test.
package jcl

import "time"

func registerTimeBuiltins(rt *Runtime) {
	rt.RegisterNative("timestamp",
		nil, TypString,
		func(c CallCtx) (Value, error) {
			if rt.caps.Now == nil {
				return NullV, capError(c.Span, "time")
			}
			return StrV(rt.caps.Now().UTC().Format(time.RFC3339)), nil
		},
	)
	setBuiltinDoc(rt, "timestamp", `Current UTC time as RFC 3339.`)

	rt.RegisterNative("formatdate",
		[]ParamSpec{{"layout", TypString}, {"timestamp", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			t, err := time.Parse(time.RFC3339, c.Arg(1).Data.(string))
			if err != nil {
				return NullV, c.Errf("formatdate: %v", err)
			}
			return StrV(t.Format(c.Arg(0).Data.(string))), nil
		},
	)
	setBuiltinDoc(rt, "formatdate", `Reformat an RFC 3339 timestamp with a Go
reference layout (e.g. "2006-01-02").`)

	rt.RegisterNative("timeadd",
		[]ParamSpec{{"timestamp", TypString}, {"duration", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			t, err := time.Parse(time.RFC3339, c.Arg(0).Data.(string))
			if err != nil {
				return NullV, c.Errf("timeadd: %v", err)
			}
			d, err := time.ParseDuration(c.Arg(1).Data.(string))
			if err != nil {
				return NullV, c.Errf("timeadd: %v", err)
			}
			return StrV(t.Add(d).Format(time.RFC3339)), nil
		},
	)
	setBuiltinDoc(rt, "timeadd", `Add a duration ("90m", "-2h") to an RFC 3339
timestamp.`)
}
