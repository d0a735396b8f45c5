package jcl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_Eval_arithmetic(t *testing.T) {
	cases := []struct{ src, want string }{
		{`1 + 2 * 3`, "7"},
		{`10 / 4`, "2"},       // int division stays integral
		{`10.0 / 4`, "2.5"},   // a float on either side promotes
		{`7 % 3`, "1"},
		{`2 + 0.5`, "2.5"},
		{`-3 * -2`, "6"},
		{`"foo" + "bar"`, `"foobar"`},
		{`1 == 1.0`, "true"},  // numeric equality crosses int/float
		{`1 != 2`, "true"},
		{`"a" < "b"`, "true"},
		{`2 >= 2`, "true"},
	}
	for _, tc := range cases {
		wantValue(t, tc.src, tc.want)
	}
}

func Test_Eval_division_by_zero(t *testing.T) {
	ee := evalFail(t, `x = 1 / 0`)
	require.Contains(t, ee.Msg, "division by zero")

	ee = evalFail(t, `x = 1 % 0`)
	require.Contains(t, ee.Msg, "modulo by zero")

	// Float division by zero errors too; no Inf values exist.
	ee = evalFail(t, `x = 1.0 / 0.0`)
	require.Contains(t, ee.Msg, "division by zero")
}

func Test_Eval_truthiness_and_operand_values(t *testing.T) {
	// and/or return operand values, not booleans; observable through
	// dynamically typed parameters.
	wantValue(t, "fn f(a, b) = a and b\nf(0, 7)", "0")
	wantValue(t, "fn f(a, b) = a and b\nf(1, 7)", "7")
	wantValue(t, "fn f(a, b) = a or b\nf(\"\", \"x\")", `"x"`)
	wantValue(t, "fn f(a, b) = a or b\nf([1], [2])", "[1]")
	wantValue(t, "fn f(v) = if v then 1 else 0\nf([])", "0")
	wantValue(t, "fn f(v) = if v then 1 else 0\nf(null)", "0")
	wantValue(t, "fn f(v) = if v then 1 else 0\nf(0.0)", "0")
	wantValue(t, "fn f(v) = if v then 1 else 0\nf(\"x\")", "1")
}

func Test_Eval_coalesce_and_optional_access(t *testing.T) {
	wantValue(t, `null ?? 5`, "5")
	wantValue(t, `0 ?? 5`, "0") // only null triggers the fallback
	wantValue(t, `(a = 1)?.missing`, "null")
	wantValue(t, `fn f(m) = m?.x` + "\nf(null)", "null")
	wantValue(t, `(a = 1)?.missing ?? "fallback"`, `"fallback"`)
}

func Test_Eval_member_errors(t *testing.T) {
	ee := evalFail(t, `x = (a = 1).missing`)
	require.Contains(t, ee.Msg, `map has no field "missing"`)

	ee = evalFail(t, "fn f(m) = m.x\nv = f(null)")
	require.Contains(t, ee.Msg, "use '?.'")
}

func Test_Eval_string_interpolation(t *testing.T) {
	wantValue(t, `"n=${1 + 2}"`, `"n=3"`)
	wantValue(t, `"v=${[1, 2]}"`, `"v=[1, 2]"`)
	wantValue(t, "name = \"world\"\n\"hello ${upper(name)}!\"", `"hello WORLD!"`)
	wantValue(t, `"a${"${1}"}b"`, `"a1b"`)
}

func Test_Eval_heredoc(t *testing.T) {
	src := "host = \"db1\"\nconf = <<-EOF\n  server ${host}\n  port 5432\n  EOF\nconf"
	wantValue(t, src, `"server db1\nport 5432"`)
}

func Test_Eval_lazy_bindings_and_cycle(t *testing.T) {
	_, err := Run(`a = a + 1`, "test", testRuntime(), EvalOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `circular reference detected while evaluating "a"`)
}

func Test_Eval_mut_reassignment(t *testing.T) {
	wantValue(t, "mut count = 1\ncount = count + 1\ncount = count * 10\ncount", "20")
}

func Test_Eval_immutable_reassignment_fails(t *testing.T) {
	ee := evalFail(t, "x = 1\nx = 2")
	require.Contains(t, ee.Msg, `cannot reassign immutable binding "x"`)
	require.Contains(t, ee.Msg, "'mut'")
}

func Test_Eval_runtime_annotation_recheck(t *testing.T) {
	// jsondecode returns any, so the checker passes; the runtime re-check
	// against the annotation still fires.
	ee := evalFail(t, `x: int = jsondecode("\"s\"")`)
	require.Contains(t, ee.Msg, "does not satisfy annotation int")
}

func Test_Eval_functions_and_closures(t *testing.T) {
	wantValue(t, "fn fact(n: int): int = n <= 1 ? 1 : n * fact(n - 1)\nfact(5)", "120")
	wantValue(t, "fn make-adder(n) = x => x + n\nmake-adder(3)(4)", "7")
	wantValue(t, "fn twice(f, v) = f(f(v))\ntwice(x => x * 2, 5)", "20")
}

func Test_Eval_lambda_param_type_enforced_at_call(t *testing.T) {
	ee := evalFail(t, `x = ((n: int) => n)(jsondecode("\"s\""))`)
	require.Contains(t, ee.Msg, `parameter "n" of lambda must be int`)
}

func Test_Eval_comprehensions(t *testing.T) {
	wantValue(t, `[x * 2 for x in [1, 2, 3]]`, "[2, 4, 6]")
	wantValue(t, `[x for x in [1, 2, 3, 4] if x % 2 == 0]`, "[2, 4]")
	// Multiple generators flatten cartesian, left to right.
	wantValue(t, `[x + y for x in [1, 2] for y in [10, 20]]`, "[11, 21, 12, 22]")
	// A comprehension in body position stays nested.
	wantValue(t, `[[x * y for y in [1, 2]] for x in [10, 20]]`, "[[10, 20], [20, 40]]")
	// Later clauses see earlier variables.
	wantValue(t, `[[x, y] for x in [1, 2] for y in [x]]`, "[[1, 1], [2, 2]]")
	wantValue(t, `[x for x in []]`, "[]")
}

func Test_Eval_comprehension_early_termination(t *testing.T) {
	// Indexing stops generation at the needed element: the division by
	// zero further down the list never runs.
	wantValue(t, `[10 / x for x in [2, 1, 0]][0]`, "5")
	wantValue(t, `[10 / x for x in [2, 1, 0]][0:2]`, "[5, 10]")

	// Without the bound the error fires.
	ee := evalFail(t, `v = [10 / x for x in [2, 1, 0]]`)
	require.Contains(t, ee.Msg, "division by zero")
}

func Test_Eval_splat(t *testing.T) {
	src := `
servers = [(host = "a", port = 1), (host = "b", port = 2)]
hosts = servers[*].host
`
	b := evalBindings(t, src)
	require.Equal(t, `["a", "b"]`, bindingStr(t, b, "hosts"))
}

func Test_Eval_indexing(t *testing.T) {
	wantValue(t, `[10, 20, 30][1]`, "20")
	wantValue(t, `[10, 20, 30][-1]`, "30")
	wantValue(t, `"hello"[1]`, `"e"`)
	wantValue(t, `"héllo"[1]`, `"é"`) // rune indexing, not bytes
	wantValue(t, `(a = 1, b = 2)["b"]`, "2")

	ee := evalFail(t, `x = [1, 2][5]`)
	require.Contains(t, ee.Msg, "out of range")
	ee = evalFail(t, `x = (a = 1)["b"]`)
	require.Contains(t, ee.Msg, `map has no key "b"`)
}

func Test_Eval_slices(t *testing.T) {
	cases := []struct{ src, want string }{
		{`[1, 2, 3, 4, 5][1:3]`, "[2, 3]"},
		{`[1, 2, 3, 4, 5][:2]`, "[1, 2]"},
		{`[1, 2, 3, 4, 5][3:]`, "[4, 5]"},
		{`[1, 2, 3, 4, 5][::2]`, "[1, 3, 5]"},
		{`[1, 2, 3, 4, 5][::-1]`, "[5, 4, 3, 2, 1]"},
		{`[1, 2, 3, 4, 5][-2:]`, "[4, 5]"},
		{`[1, 2, 3, 4, 5][5:2]`, "[]"},   // out-of-order bounds select nothing
		{`[1, 2, 3][0:100]`, "[1, 2, 3]"}, // bounds clamp
		{`"abcdef"[1:4]`, `"bcd"`},
		{`"abc"[::-1]`, `"cba"`},
	}
	for _, tc := range cases {
		wantValue(t, tc.src, tc.want)
	}

	ee := evalFail(t, `x = [1, 2][::0]`)
	require.Contains(t, ee.Msg, "step cannot be zero")
}

func Test_Eval_ranges(t *testing.T) {
	cases := []struct{ src, want string }{
		{`[1..5]`, "[1, 2, 3, 4, 5]"},
		{`[1..<5]`, "[1, 2, 3, 4]"},
		{`[0..10:2]`, "[0, 2, 4, 6, 8, 10]"},
		{`[5..1]`, "[5, 4, 3, 2, 1]"}, // descending default step
		{`[1..1]`, "[1]"},
		{`[1..<1]`, "[]"},
		{`[0.0..1.0:0.5]`, "[0.0, 0.5, 1.0]"},
	}
	for _, tc := range cases {
		wantValue(t, tc.src, tc.want)
	}

	ee := evalFail(t, `x = [1..10:-1]`)
	require.Contains(t, ee.Msg, "moves away from the end")
}

func Test_Eval_pipelines(t *testing.T) {
	wantValue(t, `[1, 2, 3] | map(x => x * 2) | sum`, "12")
	wantValue(t, `"  hi  " | trim | upper`, `"HI"`)
	wantValue(t, `[3, 1, 2] | sort | reverse`, "[3, 2, 1]")
	// A call stage keeps its own arguments after the piped value.
	wantValue(t, `[1, 2, 3, 4] | filter(x => x > 2) | length`, "2")
	// A lambda stage applies directly.
	wantValue(t, `5 | (x => x + 1) | (x => x * 2)`, "12")
}

func Test_Eval_when(t *testing.T) {
	src := `fn label(code) = when code (
  200 => "ok",
  404 => "missing",
  n if n >= 500 => "server error ${n}",
  * => "other",
)`
	wantValue(t, src+"\nlabel(200)", `"ok"`)
	wantValue(t, src+"\nlabel(503)", `"server error 503"`)
	wantValue(t, src+"\nlabel(302)", `"other"`)

	// Tuple patterns destructure fixed-length lists.
	wantValue(t, `when [1, 2] ((a, b) => a + b, * => 0)`, "3")
	wantValue(t, `when [1, 2, 3] ((a, b) => a + b, * => 0)`, "0")

	ee := evalFail(t, `x = when 3 (1 => "a", 2 => "b")`)
	require.Contains(t, ee.Msg, "no pattern matched 3")
}

func Test_Eval_try(t *testing.T) {
	wantValue(t, `try(1 / 0, 0)`, "0")
	wantValue(t, `try(1 / 0)`, "null")
	wantValue(t, `try((a = 1).missing, "gone")`, `"gone"`)
	wantValue(t, `try(2 + 3, 0)`, "5")
}

func Test_Eval_bindings_in_declaration_order(t *testing.T) {
	b := evalBindings(t, "z = 1\na = 2\nm = 3")
	require.Equal(t, []string{"z", "a", "m"}, b.Keys)
}

func Test_Eval_best_effort_keeps_going(t *testing.T) {
	mod, err := Parse("a = 1 / 0\nb = 2", "test")
	require.NoError(t, err)
	rt := testRuntime()
	_, diags := Check(mod, rt)
	require.Empty(t, diags)

	res, err := Evaluate(mod, rt, EvalOptions{BestEffort: true})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	require.Contains(t, res.Diagnostics[0].Message, "division by zero")

	v, ok := res.Bindings.Get("b")
	require.True(t, ok)
	require.Equal(t, "2", Format(v))
	_, ok = res.Bindings.Get("a")
	require.False(t, ok)
}

func Test_Eval_type_errors_block_evaluation(t *testing.T) {
	res, err := Run("x: int = \"no\"\ny = 1 / 0", "test", testRuntime(), EvalOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)
	require.Nil(t, res.Eval) // the division by zero never ran
}

func Test_Eval_capabilities(t *testing.T) {
	wantValue(t, `timestamp()`, `"2024-05-01T12:30:00Z"`)
	wantValue(t, `file("motd.txt")`, `"hello from disk\n"`)
	wantValue(t, `fileexists("motd.txt")`, "true")
	wantValue(t, `fileexists("nope.txt")`, "false")

	// A sandboxed runtime rejects effectful builtins.
	sandboxed := NewRuntime(Capabilities{})
	mod, err := Parse(`x = timestamp()`, "test")
	require.NoError(t, err)
	_, diags := Check(mod, sandboxed)
	require.Empty(t, diags)
	_, err = Evaluate(mod, sandboxed, EvalOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `capability "time" not provided by the host`)
}

func Test_Eval_is_deterministic(t *testing.T) {
	src := `
base = (retries = 3, timeout = 30)
envs = [merge(base, (name = n)) for n in ["dev", "prod"]]
summary = jsonencode(envs)
`
	first := evalBindings(t, src)
	second := evalBindings(t, src)
	if diff := cmp.Diff(Format(MapV(first)), Format(MapV(second))); diff != "" {
		t.Fatalf("evaluation not deterministic (-first +second):\n%s", diff)
	}
}
