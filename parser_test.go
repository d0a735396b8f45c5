package jcl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// parseExpr parses src as a module holding a single expression statement.
func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	mod, err := Parse(src, "test")
	require.NoError(t, err)
	require.Len(t, mod.Stmts, 1)
	stmt, ok := mod.Stmts[0].(*ExprStmt)
	require.True(t, ok, "want *ExprStmt, got %T", mod.Stmts[0])
	return stmt.X
}

func Test_Parser_precedence_multiplication_binds_tighter(t *testing.T) {
	x := parseExpr(t, `1 + 2 * 3`)
	add, ok := x.(*Binary)
	require.True(t, ok)
	require.Equal(t, PLUS, add.Op)
	mul, ok := add.R.(*Binary)
	require.True(t, ok)
	require.Equal(t, STAR, mul.Op)
}

func Test_Parser_precedence_comparison_over_coalesce(t *testing.T) {
	// `a ?? b < c` reads as `a ?? (b < c)` is wrong: ?? binds tighter than
	// comparisons, so it is `(a ?? b) < c`.
	x := parseExpr(t, `a ?? b < c`)
	lt, ok := x.(*Binary)
	require.True(t, ok)
	require.Equal(t, LESS, lt.Op)
	co, ok := lt.L.(*Binary)
	require.True(t, ok)
	require.Equal(t, COALESCE, co.Op)
}

func Test_Parser_pipeline_binds_loosest(t *testing.T) {
	x := parseExpr(t, `xs | filter(f) | length`)
	pipe, ok := x.(*Pipeline)
	require.True(t, ok)
	require.Len(t, pipe.Stages, 2)
	_, ok = pipe.Stages[0].(*Call)
	require.True(t, ok)
	_, ok = pipe.Stages[1].(*Ident)
	require.True(t, ok)

	// A ternary stays inside a single pipeline stage.
	x = parseExpr(t, `flag ? a : b | f`)
	tern, ok := x.(*Ternary)
	require.True(t, ok)
	_, ok = tern.Else.(*Pipeline)
	require.True(t, ok)
}

func Test_Parser_unary_and_not(t *testing.T) {
	x := parseExpr(t, `-a * b`)
	mul, ok := x.(*Binary)
	require.True(t, ok)
	neg, ok := mul.L.(*Unary)
	require.True(t, ok)
	require.Equal(t, MINUS, neg.Op)

	x = parseExpr(t, `not a and b`)
	and, ok := x.(*Binary)
	require.True(t, ok)
	require.Equal(t, AND, and.Op)
	_, ok = and.L.(*Unary)
	require.True(t, ok)
}

func Test_Parser_lambdas(t *testing.T) {
	x := parseExpr(t, `x => x + 1`)
	lam, ok := x.(*Lambda)
	require.True(t, ok)
	require.Len(t, lam.Params, 1)
	require.Equal(t, "x", lam.Params[0].Name)

	x = parseExpr(t, `(a, b) => a`)
	lam, ok = x.(*Lambda)
	require.True(t, ok)
	require.Len(t, lam.Params, 2)

	x = parseExpr(t, `(a: int, b: list<string>) => a`)
	lam, ok = x.(*Lambda)
	require.True(t, ok)
	require.Equal(t, "int", lam.Params[0].Type.Name)
	require.Equal(t, "list", lam.Params[1].Type.Name)
	require.Equal(t, "string", lam.Params[1].Type.Args[0].Name)

	x = parseExpr(t, `() => 1`)
	lam, ok = x.(*Lambda)
	require.True(t, ok)
	require.Empty(t, lam.Params)
}

func Test_Parser_map_literal_vs_grouping(t *testing.T) {
	x := parseExpr(t, `(a = 1, b = "two",)`)
	m, ok := x.(*MapLit)
	require.True(t, ok)
	require.Len(t, m.Entries, 2)
	require.Equal(t, "a", m.Entries[0].Key)
	require.Equal(t, "b", m.Entries[1].Key)

	x = parseExpr(t, `()`)
	m, ok = x.(*MapLit)
	require.True(t, ok)
	require.Empty(t, m.Entries)

	x = parseExpr(t, `(a)`)
	_, ok = x.(*Ident)
	require.True(t, ok, "grouping should unwrap, got %T", x)
}

func Test_Parser_postfix_chain(t *testing.T) {
	x := parseExpr(t, `cfg.servers[0]?.host`)
	mem, ok := x.(*Member)
	require.True(t, ok)
	require.True(t, mem.Optional)
	require.Equal(t, "host", mem.Name)
	idx, ok := mem.X.(*Index)
	require.True(t, ok)
	inner, ok := idx.X.(*Member)
	require.True(t, ok)
	require.Equal(t, "servers", inner.Name)
	require.False(t, inner.Optional)
}

func Test_Parser_slices(t *testing.T) {
	x := parseExpr(t, `xs[1:3]`)
	sl, ok := x.(*Slice)
	require.True(t, ok)
	require.NotNil(t, sl.Start)
	require.NotNil(t, sl.End)
	require.Nil(t, sl.Step)

	x = parseExpr(t, `xs[::-1]`)
	sl, ok = x.(*Slice)
	require.True(t, ok)
	require.Nil(t, sl.Start)
	require.Nil(t, sl.End)
	neg, ok := sl.Step.(*Unary)
	require.True(t, ok)
	require.Equal(t, MINUS, neg.Op)

	x = parseExpr(t, `xs[2:]`)
	sl, ok = x.(*Slice)
	require.True(t, ok)
	require.NotNil(t, sl.Start)
	require.Nil(t, sl.End)
}

func Test_Parser_splat_member(t *testing.T) {
	x := parseExpr(t, `servers[*].host`)
	mem, ok := x.(*Member)
	require.True(t, ok)
	_, ok = mem.X.(*Splat)
	require.True(t, ok)
}

func Test_Parser_ranges(t *testing.T) {
	x := parseExpr(t, `[1..5]`)
	rng, ok := x.(*Range)
	require.True(t, ok)
	require.True(t, rng.Inclusive)
	require.Nil(t, rng.Step)

	x = parseExpr(t, `[0..<10:2]`)
	rng, ok = x.(*Range)
	require.True(t, ok)
	require.False(t, rng.Inclusive)
	require.NotNil(t, rng.Step)
}

func Test_Parser_comprehension(t *testing.T) {
	x := parseExpr(t, `[x * y for x in xs for y in ys if x > y]`)
	comp, ok := x.(*Comprehension)
	require.True(t, ok)
	require.Len(t, comp.Clauses, 2)
	require.Equal(t, "x", comp.Clauses[0].Var)
	require.Equal(t, "y", comp.Clauses[1].Var)
	require.NotNil(t, comp.Cond)
}

func Test_Parser_when_and_patterns(t *testing.T) {
	x := parseExpr(t, `when code (200 => "ok", n if n >= 500 => "server", (a, b) => a, * => "other")`)
	w, ok := x.(*When)
	require.True(t, ok)
	require.Len(t, w.Arms, 4)
	_, ok = w.Arms[0].Pat.(*LiteralPat)
	require.True(t, ok)
	bind, ok := w.Arms[1].Pat.(*BindPat)
	require.True(t, ok)
	require.Equal(t, "n", bind.Name)
	require.NotNil(t, w.Arms[1].Guard)
	tup, ok := w.Arms[2].Pat.(*TuplePat)
	require.True(t, ok)
	require.Len(t, tup.Elems, 2)
	_, ok = w.Arms[3].Pat.(*WildcardPat)
	require.True(t, ok)
}

func Test_Parser_match_is_when(t *testing.T) {
	x := parseExpr(t, `match n (1 => "one", else => "many")`)
	w, ok := x.(*When)
	require.True(t, ok)
	require.Len(t, w.Arms, 2)
	_, ok = w.Arms[1].Pat.(*WildcardPat)
	require.True(t, ok)
}

func Test_Parser_when_subject_call_ambiguity(t *testing.T) {
	// The arm list '(' must not be consumed as a call on the subject.
	x := parseExpr(t, `when status (1 => "a", * => "b")`)
	w, ok := x.(*When)
	require.True(t, ok)
	_, ok = w.Subject.(*Ident)
	require.True(t, ok)

	// A grouped subject may still contain calls.
	x = parseExpr(t, `when (length(xs)) (0 => "empty", * => "full")`)
	w, ok = x.(*When)
	require.True(t, ok)
	_, ok = w.Subject.(*Call)
	require.True(t, ok)
}

func Test_Parser_if_and_try(t *testing.T) {
	x := parseExpr(t, `if ready then 1 else 0`)
	_, ok := x.(*If)
	require.True(t, ok)

	x = parseExpr(t, `try(risky(), 0)`)
	tr, ok := x.(*Try)
	require.True(t, ok)
	require.NotNil(t, tr.Default)

	x = parseExpr(t, `try(risky())`)
	tr, ok = x.(*Try)
	require.True(t, ok)
	require.Nil(t, tr.Default)
}

func Test_Parser_interpolated_string(t *testing.T) {
	x := parseExpr(t, `"host: ${server.host} port: ${port}"`)
	in, ok := x.(*Interp)
	require.True(t, ok)
	require.Len(t, in.Parts, 5)
	require.Equal(t, "host: ", in.Parts[0].Text)
	_, ok = in.Parts[1].X.(*Member)
	require.True(t, ok)
	require.Equal(t, " port: ", in.Parts[2].Text)
}

func Test_Parser_statements(t *testing.T) {
	mod, err := Parse(`
/// The port we listen on.
port: int = 8080

mut retries = 3

fn greet(name: string): string = "hi " + name

import "lib/util.jcl" as util
import (a, b as c) from "lib/names.jcl"
import * from "lib/all.jcl"
`, "test")
	require.NoError(t, err)
	require.Len(t, mod.Stmts, 6)

	assign := mod.Stmts[0].(*AssignStmt)
	require.Equal(t, "port", assign.Name)
	require.Equal(t, "int", assign.Type.Name)
	require.Equal(t, []string{"The port we listen on."}, assign.Doc)
	require.False(t, assign.Mutable)

	mut := mod.Stmts[1].(*AssignStmt)
	require.True(t, mut.Mutable)

	fn := mod.Stmts[2].(*FnStmt)
	require.Equal(t, "greet", fn.Name)
	require.Equal(t, "string", fn.Return.Name)
	require.Len(t, fn.Params, 1)

	imp := mod.Stmts[3].(*ImportStmt)
	require.Equal(t, "lib/util.jcl", imp.Path)
	require.Equal(t, "util", imp.Alias)

	sel := mod.Stmts[4].(*ImportStmt)
	require.Len(t, sel.Items, 2)
	require.Equal(t, "c", sel.Items[1].Alias)

	wild := mod.Stmts[5].(*ImportStmt)
	require.True(t, wild.Wildcard)
}

func Test_Parser_map_literal_after_ident_statement(t *testing.T) {
	// `name` followed by `(key =` starts the next statement's map literal,
	// not a call.
	mod, err := Parse("x = y\n(a = 1)", "test")
	require.NoError(t, err)
	require.Len(t, mod.Stmts, 2)
	_, ok := mod.Stmts[0].(*AssignStmt)
	require.True(t, ok)
	es, ok := mod.Stmts[1].(*ExprStmt)
	require.True(t, ok)
	_, ok = es.X.(*MapLit)
	require.True(t, ok)
}

func Test_Parser_errors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`x =`, "expected an expression"},
		{`(a = 1`, "expected ')'"},
		{`xs[]`, "empty index"},
		{`if x then 1`, "expected 'else'"},
		{`when x ()`, "expected a pattern"},
		{`fn f = 1`, "expected '('"},
		{`import`, "after 'import'"},
		{`1 ? 2`, "expected ':'"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.src, "test")
		require.Error(t, err, "source: %s", tc.src)
		pe, ok := err.(*ParseError)
		require.True(t, ok, "want *ParseError for %q, got %T: %v", tc.src, err, err)
		require.Contains(t, pe.Msg, tc.want, "source: %s", tc.src)
	}
}
