package jcl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Checker_clean_module(t *testing.T) {
	diags := checkDiags(t, `
port: int = 8080
host = "localhost"
fn url(h: string, p: int): string = "http://${h}:${p}"
endpoint = url(host, port)
`)
	require.Empty(t, diags)
}

func Test_Checker_annotation_mismatch_points_at_value(t *testing.T) {
	diags := checkDiags(t, `x: int = "42"`)
	require.Len(t, diags, 1)
	d := diags[0]
	require.Equal(t, "type", d.Kind)
	require.Contains(t, d.Message, `cannot assign string to "x" declared as int`)
	// The caret lands on the value, not the annotation.
	require.Equal(t, 1, d.Span.Line)
	require.Equal(t, 10, d.Span.Column)
	require.NotEmpty(t, d.Suggestion)
}

func Test_Checker_collects_all_errors(t *testing.T) {
	diags := checkDiags(t, `
a: int = "one"
b: bool = 2
c = 1 + "three"
`)
	require.Len(t, diags, 3)
}

func Test_Checker_undefined_name_with_suggestion(t *testing.T) {
	diags := checkDiags(t, `x = uper("hi")`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, `undefined name "uper"`)
	require.Contains(t, diags[0].Suggestion, `"upper"`)
}

func Test_Checker_forward_reference_fails(t *testing.T) {
	diags := checkDiags(t, "a = b + 1\nb = 2")
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, `undefined name "b"`)
}

func Test_Checker_self_reference_passes_static_check(t *testing.T) {
	// The binding's own name resolves to the inference placeholder; the
	// cycle surfaces at evaluation instead.
	require.Empty(t, checkDiags(t, `a = a + 1`))
}

func Test_Checker_function_recursion_and_return_annotation(t *testing.T) {
	require.Empty(t, checkDiags(t, `
fn fact(n: int): int = n <= 1 ? 1 : n * fact(n - 1)
`))

	diags := checkDiags(t, `fn f(x: int): string = x + 1`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, `declared to return string`)
}

func Test_Checker_operator_errors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`x = 1 + "a"`, "operator '+' cannot combine int and string"},
		{`x = true - 1`, "needs numbers"},
		{`x = 1.5 % 2`, "needs int operands"},
		{`x = [1] < [2]`, "cannot compare"},
		{`x = 1 and true`, "needs bool"},
		{`x = not 3`, "needs bool"},
		{`x = -"s"`, "needs int or float"},
	}
	for _, tc := range cases {
		diags := checkDiags(t, tc.src)
		require.NotEmpty(t, diags, "source: %s", tc.src)
		require.Contains(t, diags[0].Message, tc.want, "source: %s", tc.src)
	}
}

func Test_Checker_string_concat_is_fine(t *testing.T) {
	require.Empty(t, checkDiags(t, `x = "a" + "b"`))
}

func Test_Checker_int_widens_to_float(t *testing.T) {
	require.Empty(t, checkDiags(t, `x: float = 3`))
	require.NotEmpty(t, checkDiags(t, `x: int = 3.5`))
}

func Test_Checker_condition_must_be_bool(t *testing.T) {
	diags := checkDiags(t, `x = if 1 then "a" else "b"`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "condition must be bool")

	// Dynamic conditions defer to runtime truthiness.
	require.Empty(t, checkDiags(t, `
fn pick(v) = if v then 1 else 0
`))
}

func Test_Checker_collections(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`x = (a = 1).missing + 1`, ""}, // map field access is elem-typed
		{`x = [1, 2]["k"]`, "list index must be int"},
		{`x = (a = 1)[0]`, "map key must be string"},
		{`x = 3[0]`, "cannot index int"},
		{`x = [1][1:true]`, "slice bound must be int"},
		{`x = 3[*]`, "splat requires a list"},
		{`x = [v for v in 42]`, "comprehension iterates a list"},
	}
	for _, tc := range cases {
		diags := checkDiags(t, tc.src)
		if tc.want == "" {
			continue
		}
		require.NotEmpty(t, diags, "source: %s", tc.src)
		require.Contains(t, diags[0].Message, tc.want, "source: %s", tc.src)
	}
}

func Test_Checker_call_arity_and_arguments(t *testing.T) {
	diags := checkDiags(t, `
fn add(a: int, b: int): int = a + b
x = add(1)
`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "wrong number of arguments: want 2, got 1")

	diags = checkDiags(t, `
fn add(a: int, b: int): int = a + b
x = add(1, "two")
`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "argument 2 must be int, got string")

	diags = checkDiags(t, `x = upper("a", "b")`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "wrong number of arguments")

	// Variadic builtins accept any count at or above the minimum.
	require.Empty(t, checkDiags(t, `x = format("%s-%s-%s", "a", "b", "c")`))
}

func Test_Checker_pipeline_stage_types(t *testing.T) {
	require.Empty(t, checkDiags(t, `x = "hi" | upper | strlen`))

	diags := checkDiags(t, `x = "hi" | 3`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "pipeline stage must be a function")

	diags = checkDiags(t, `x = [1] | upper`)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "piped value has type")
}

func Test_Checker_imports(t *testing.T) {
	// Whole-module and selective imports introduce typed names.
	require.Empty(t, checkDiags(t, `
import "lib/net.jcl" as net
import (timeout) from "lib/defaults.jcl"
x = net.host
y = timeout
`))

	// A wildcard import turns off undefined-name reporting in the module.
	require.Empty(t, checkDiags(t, `
import * from "lib/all.jcl"
x = something-from-elsewhere + 1
`))
}

func Test_Checker_try_does_not_mask_static_errors(t *testing.T) {
	// try catches runtime failures only; an undefined name inside it is
	// still a type error and evaluation never starts.
	diags := checkDiags(t, `x = try(undefined_name, "d")`)
	require.Len(t, diags, 1)
	require.Equal(t, "type", diags[0].Kind)
	require.Contains(t, diags[0].Message, `undefined name "undefined_name"`)

	res, err := Run(`x = try(undefined_name, "d")`, "test", testRuntime(), EvalOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)
	require.Nil(t, res.Eval)
}

func Test_Checker_unknown_type_annotation(t *testing.T) {
	diags := checkDiags(t, `x: integer = 1`)
	require.NotEmpty(t, diags)
	require.Contains(t, diags[0].Message, "unknown type")
}

func Test_Checker_type_table_records_inferences(t *testing.T) {
	mod, err := Parse(`x = 1 + 2`, "test")
	require.NoError(t, err)
	table, diags := Check(mod, testRuntime())
	require.Empty(t, diags)

	assign := mod.Stmts[0].(*AssignStmt)
	typ, ok := table[assign.Value.Pos()]
	require.True(t, ok)
	require.Equal(t, KInt, typ.Kind)
}
