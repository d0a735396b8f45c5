package jcl

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testFiles backs the ReadFile/FileExists capabilities in tests.
var testFiles = map[string]string{
	"motd.txt": "hello from disk\n",
}

// testRuntime builds a runtime with a fixed clock and an in-memory
// filesystem so capability builtins behave deterministically.
func testRuntime() *Runtime {
	return NewRuntime(Capabilities{
		ReadFile: func(path string) ([]byte, error) {
			if s, ok := testFiles[path]; ok {
				return []byte(s), nil
			}
			return nil, fmt.Errorf("no such file %q", path)
		},
		FileExists: func(path string) (bool, error) {
			_, ok := testFiles[path]
			return ok, nil
		},
		Now: func() time.Time {
			return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
		},
	})
}

// mustRun drives the full pipeline and fails the test on any error or
// diagnostic.
func mustRun(t *testing.T, src string) *RunResult {
	t.Helper()
	res, err := Run(src, "test", testRuntime(), EvalOptions{})
	require.NoError(t, err)
	for _, d := range res.Diagnostics {
		t.Errorf("unexpected diagnostic: %s: %s", d.Kind, d.Message)
	}
	require.NotNil(t, res.Eval)
	return res
}

// evalValue returns the value of the last expression statement in src.
func evalValue(t *testing.T, src string) Value {
	t.Helper()
	return mustRun(t, src).Eval.Value
}

// evalBindings returns the module's top-level bindings.
func evalBindings(t *testing.T, src string) *MapObject {
	t.Helper()
	return mustRun(t, src).Eval.Bindings
}

// checkDiags type-checks src (which must parse) and returns the collected
// diagnostics.
func checkDiags(t *testing.T, src string) []Diagnostic {
	t.Helper()
	mod, err := Parse(src, "test")
	require.NoError(t, err)
	_, diags := Check(mod, testRuntime())
	return diags
}

// evalFail expects src to pass the checker and fail at evaluation; it
// returns the EvalError.
func evalFail(t *testing.T, src string) *EvalError {
	t.Helper()
	rt := testRuntime()
	mod, err := Parse(src, "test")
	require.NoError(t, err)
	_, diags := Check(mod, rt)
	require.Empty(t, diags, "expected a clean check")
	_, err = Evaluate(mod, rt, EvalOptions{})
	require.Error(t, err)
	ee, ok := err.(*EvalError)
	require.True(t, ok, "want *EvalError, got %T: %v", err, err)
	return ee
}

// bindingStr fetches one top-level binding rendered through Format, the
// easiest shape to assert against.
func bindingStr(t *testing.T, bindings *MapObject, name string) string {
	t.Helper()
	v, ok := bindings.Get(name)
	require.True(t, ok, "missing binding %q", name)
	return Format(v)
}

// wantValue asserts the final expression of src formats to want.
func wantValue(t *testing.T, src, want string) {
	t.Helper()
	got := Format(evalValue(t, src))
	require.Equal(t, want, got, "source:\n%s", src)
}
