package jcl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sourceResolver(rt *Runtime, sources map[string]string) *SourceResolver {
	return &SourceResolver{Sources: sources, Runtime: rt, Cache: NewModuleCache()}
}

func Test_Modules_import_forms(t *testing.T) {
	rt := testRuntime()
	r := sourceResolver(rt, map[string]string{
		"lib/net.jcl":      "host = \"db\"\nport = 5432",
		"lib/defaults.jcl": "timeout = 30\nretries = 3",
	})

	src := `
import "lib/net.jcl"
import (timeout as t) from "lib/defaults.jcl"
import * from "lib/defaults.jcl"
addr = "${net.host}:${net.port}"
budget = t + retries
`
	res, err := Run(src, "main", rt, EvalOptions{Resolver: r, Cache: r.Cache})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	// `import "lib/net.jcl"` without `as` binds the basename.
	require.Equal(t, `"db:5432"`, bindingStr(t, res.Eval.Bindings, "addr"))
	require.Equal(t, "33", bindingStr(t, res.Eval.Bindings, "budget"))
}

func Test_Modules_diamond_resolves_once(t *testing.T) {
	rt := testRuntime()
	r := sourceResolver(rt, map[string]string{
		"shared.jcl": `base = 10`,
		"a.jcl":      "import \"shared.jcl\"\nval = shared.base + 1",
		"b.jcl":      "import \"shared.jcl\"\nval = shared.base + 2",
	})

	src := `
import "a.jcl"
import "b.jcl"
total = a.val + b.val
`
	res, err := Run(src, "main", rt, EvalOptions{Resolver: r, Cache: r.Cache})
	require.NoError(t, err)
	require.Equal(t, "23", bindingStr(t, res.Eval.Bindings, "total"))
	// shared, a and b each resolved exactly once.
	require.Len(t, r.Cache.entries, 3)
}

func Test_Modules_cycle_detected(t *testing.T) {
	rt := testRuntime()
	r := sourceResolver(rt, map[string]string{
		"a.jcl": "import \"b.jcl\"\nx = 1",
		"b.jcl": "import \"a.jcl\"\ny = 2",
	})

	_, err := Run(`import "a.jcl"`, "main", rt, EvalOptions{Resolver: r, Cache: r.Cache})
	require.Error(t, err)
	require.Contains(t, err.Error(), `import cycle detected at "a.jcl"`)
}

func Test_Modules_cycle_detected_without_explicit_cache(t *testing.T) {
	// A resolver built without a cache still terminates on cycles.
	rt := testRuntime()
	r := &SourceResolver{
		Sources: map[string]string{
			"a.jcl": "import \"b.jcl\"\nx = 1",
			"b.jcl": "import \"a.jcl\"\ny = 2",
		},
		Runtime: rt,
	}

	_, err := Run(`import "a.jcl"`, "main", rt, EvalOptions{Resolver: r})
	require.Error(t, err)
	require.Contains(t, err.Error(), "import cycle detected")
}

func Test_Modules_missing_binding(t *testing.T) {
	rt := testRuntime()
	r := sourceResolver(rt, map[string]string{"lib.jcl": `x = 1`})

	_, err := Run(`import (nope) from "lib.jcl"`, "main", rt, EvalOptions{Resolver: r, Cache: r.Cache})
	require.Error(t, err)
	require.Contains(t, err.Error(), `module "lib.jcl" has no binding "nope"`)
}

func Test_Modules_not_found(t *testing.T) {
	rt := testRuntime()
	r := sourceResolver(rt, map[string]string{})

	_, err := Run(`import "ghost.jcl" as g`, "main", rt, EvalOptions{Resolver: r, Cache: r.Cache})
	require.Error(t, err)
	require.Contains(t, err.Error(), `cannot import "ghost.jcl"`)
}

func Test_Modules_no_resolver_configured(t *testing.T) {
	rt := testRuntime()
	mod, err := Parse(`import "x.jcl" as x`, "main")
	require.NoError(t, err)
	_, diags := Check(mod, rt)
	require.Empty(t, diags)

	_, err = Evaluate(mod, rt, EvalOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `no import resolver configured for "x.jcl"`)
}

func Test_Modules_host_injected_values(t *testing.T) {
	rt := testRuntime()
	mod, err := Parse(`y = shared + 1`, "main")
	require.NoError(t, err)

	res, err := Evaluate(mod, rt, EvalOptions{Imports: map[string]Value{"shared": IntV(41)}})
	require.NoError(t, err)
	require.Equal(t, "42", bindingStr(t, res.Bindings, "y"))
}
