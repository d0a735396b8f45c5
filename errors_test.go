package jcl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Errors_to_diagnostic(t *testing.T) {
	sp := Span{Line: 2, Column: 5}
	cases := []struct {
		err  error
		kind string
	}{
		{&LexError{Span: sp, Msg: "m"}, "lex"},
		{&ParseError{Span: sp, Msg: "m"}, "parse"},
		{&TypeError{Span: sp, Msg: "m", Suggestion: "s"}, "type"},
		{&EvalError{Span: sp, Msg: "m"}, "eval"},
	}
	for _, tc := range cases {
		d := ToDiagnostic(tc.err)
		require.Equal(t, tc.kind, d.Kind)
		require.Equal(t, "m", d.Message)
		require.Equal(t, sp, d.Span)
		require.Equal(t, SevError, d.Severity)
	}
	require.Equal(t, "s", ToDiagnostic(&TypeError{Suggestion: "s"}).Suggestion)

	// Foreign errors still render, just without a span.
	d := ToDiagnostic(errors.New("boom"))
	require.Equal(t, "eval", d.Kind)
	require.Equal(t, "boom", d.Message)
	require.True(t, d.Span.IsZero())
}

func Test_Errors_render_snippet(t *testing.T) {
	src := "aaa\nbbb\nccc"
	d := Diagnostic{
		Kind:       "type",
		Severity:   SevError,
		Message:    "boom",
		Span:       Span{Line: 2, Column: 3},
		Suggestion: "try x",
	}
	want := "TYPE ERROR in test at 2:3: boom\n" +
		"\n" +
		"   1 | aaa\n" +
		"   2 | bbb\n" +
		"     |   ^\n" +
		"   3 | ccc\n" +
		"Hint: try x\n"
	require.Equal(t, want, RenderDiagnostic(d, "test", src))
}

func Test_Errors_render_without_name(t *testing.T) {
	d := Diagnostic{Kind: "eval", Severity: SevError, Message: "m", Span: Span{Line: 1, Column: 1}}
	out := RenderDiagnostic(d, "", "x = 1")
	require.Contains(t, out, "EVAL ERROR at 1:1: m")
	require.NotContains(t, out, " in ")
}

func Test_Errors_render_end_to_end(t *testing.T) {
	src := "servers = (\n  host = \"a\" 3\n)"
	_, err := Parse(src, "config.jcl")
	require.Error(t, err)
	out := RenderDiagnostic(ToDiagnostic(err), "config.jcl", src)
	require.Contains(t, out, "PARSE ERROR in config.jcl at ")
	require.Contains(t, out, "   2 |   host = \"a\" 3\n")
	require.Contains(t, out, "^")
}

func Test_Errors_wrap_with_source(t *testing.T) {
	src := `x = `
	_, err := Parse(src, "m.jcl")
	require.Error(t, err)

	wrapped := WrapErrorWithSource(err, "m.jcl", src)
	require.Contains(t, wrapped.Error(), "PARSE ERROR in m.jcl")

	plain := errors.New("untouched")
	require.Same(t, plain, WrapErrorWithSource(plain, "m.jcl", src))
}

func Test_Errors_messages_carry_position(t *testing.T) {
	e := &ParseError{Span: Span{Line: 3, Column: 7}, Msg: "expected ')'"}
	require.Equal(t, "parse error at 3:7: expected ')'", e.Error())
	ee := &EvalError{Span: Span{Line: 1, Column: 2}, Msg: "division by zero"}
	require.Equal(t, "eval error at 1:2: division by zero", ee.Error())
}
