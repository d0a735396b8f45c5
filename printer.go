// printer.go: value rendering.
//
// Format renders a value as a JCL literal that parses back to an equal
// value: strings are quoted and escaped, floats always carry a decimal
// point or exponent so they stay floats, maps print as `(k = v, ...)` in
// insertion order. FormatBare is the interpolation/stringification variant
// that leaves strings unquoted.
package jcl

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders v as a re-parseable JCL literal.
func Format(v Value) string {
	var b strings.Builder
	writeValue(&b, v, true)
	return b.String()
}

// FormatBare is Format except top-level strings print without quotes.
// Used by string interpolation and tostring.
func FormatBare(v Value) string {
	if v.Tag == VStr {
		return v.Data.(string)
	}
	return Format(v)
}

func writeValue(b *strings.Builder, v Value, quote bool) {
	switch v.Tag {
	case VNull:
		b.WriteString("null")
	case VBool:
		if v.Data.(bool) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case VInt:
		b.WriteString(strconv.FormatInt(v.Data.(int64), 10))
	case VFloat:
		b.WriteString(formatFloat(v.Data.(float64)))
	case VStr:
		b.WriteString(strconv.Quote(v.Data.(string)))
	case VList:
		b.WriteByte('[')
		for i, e := range v.Data.([]Value) {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e, true)
		}
		b.WriteByte(']')
	case VMap:
		m := v.Data.(*MapObject)
		b.WriteByte('(')
		for i, k := range m.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(" = ")
			writeValue(b, m.Entries[k], true)
		}
		b.WriteByte(')')
	case VFun:
		f := v.Data.(*Fun)
		if f.Native != nil {
			fmt.Fprintf(b, "<builtin %s>", f.Native.Name)
		} else if f.Name != "" {
			fmt.Fprintf(b, "<fn %s>", f.Name)
		} else {
			b.WriteString("<lambda>")
		}
	}
}

// formatFloat keeps a marker of floatness: 2.0 prints as "2.0", not "2".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
