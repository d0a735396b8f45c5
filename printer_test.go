package jcl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Printer_scalars(t *testing.T) {
	require.Equal(t, "null", Format(NullV))
	require.Equal(t, "true", Format(BoolV(true)))
	require.Equal(t, "42", Format(IntV(42)))
	require.Equal(t, "-7", Format(IntV(-7)))
	require.Equal(t, "2.5", Format(FloatV(2.5)))
	// Integral floats keep a decimal marker so they stay floats when
	// parsed back.
	require.Equal(t, "2.0", Format(FloatV(2)))
	require.Equal(t, `"a\nb"`, Format(StrV("a\nb")))
}

func Test_Printer_composites(t *testing.T) {
	wantValue(t, `[1, [2, "x"], null]`, `[1, [2, "x"], null]`)
	wantValue(t, `(b = 1, a = (c = true))`, "(b = 1, a = (c = true))")
	wantValue(t, `[]`, "[]")
	wantValue(t, `()`, "()")
}

func Test_Printer_functions(t *testing.T) {
	wantValue(t, `upper`, "<builtin upper>")
	wantValue(t, "fn f(x) = x\nf", "<fn f>")
	wantValue(t, `x => x`, "<lambda>")
}

func Test_Printer_bare(t *testing.T) {
	require.Equal(t, "hi", FormatBare(StrV("hi")))
	require.Equal(t, "42", FormatBare(IntV(42)))
	require.Equal(t, `[1, "x"]`, FormatBare(ListV([]Value{IntV(1), StrV("x")})))
}

func Test_Printer_output_reparses(t *testing.T) {
	cases := []string{
		`(name = "a\"b", port = 8080)`,
		`[1, 2.0, "three", null, true]`,
		`(nested = [(k = "v")], empty = ())`,
	}
	for _, src := range cases {
		first := evalValue(t, src)
		second := evalValue(t, Format(first))
		require.True(t, DeepEqual(first, second), "round trip changed %s", Format(first))
	}
}
