// builtin_file.go: file builtins. Reads go through the host capability
// table; path manipulation is pure.
package jcl

import "path"

func registerFileBuiltins(rt *Runtime) {
	rt.RegisterNative("file",
		[]ParamSpec{{"path", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			if rt.caps.ReadFile == nil {
				return NullV, capError(c.Span, "file")
			}
			raw, err := rt.caps.ReadFile(c.Arg(0).Data.(string))
			if err != nil {
				return NullV, c.Errf("file: %v", err)
			}
			return StrV(string(raw)), nil
		},
	)
	setBuiltinDoc(rt, "file", `Contents of a file as a string.`)

	rt.RegisterNative("fileexists",
		[]ParamSpec{{"path", TypString}}, TypBool,
		func(c CallCtx) (Value, error) {
			if rt.caps.FileExists == nil {
				return NullV, capError(c.Span, "file")
			}
			ok, err := rt.caps.FileExists(c.Arg(0).Data.(string))
			if err != nil {
				return NullV, c.Errf("fileexists: %v", err)
			}
			return BoolV(ok), nil
		},
	)

	rt.RegisterNative("dirname",
		[]ParamSpec{{"path", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(path.Dir(c.Arg(0).Data.(string))), nil
		},
	)

	rt.RegisterNative("basename",
		[]ParamSpec{{"path", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(path.Base(c.Arg(0).Data.(string))), nil
		},
	)
}
