// modules.go: host-driven import resolution with an explicit cache.
//
// The core does not know how to find modules. Hosts supply a Resolver; the
// evaluator asks it for a path's bindings, merges them into scope per the
// import form, and guards against import cycles by tracking which origins
// are mid-resolution inside the ModuleCache. The cache is a plain object the
// host passes around (shared between runs when it wants sharing, fresh when
// it wants isolation); there is no package-level singleton.
package jcl

import (
	"fmt"
	"path"
	"strings"
)

// Resolver turns an import path into the module's exported bindings.
type Resolver interface {
	Resolve(path string) (*MapObject, error)
}

type moduleState int

const (
	moduleLoading moduleState = iota
	moduleLoaded
)

type moduleEntry struct {
	state    moduleState
	bindings *MapObject
}

// ModuleCache memoizes resolved modules and detects re-entrant resolution.
type ModuleCache struct {
	entries map[string]*moduleEntry
}

// NewModuleCache returns an empty cache.
func NewModuleCache() *ModuleCache {
	return &ModuleCache{entries: make(map[string]*moduleEntry)}
}

// load resolves origin through r, memoizing the result. A re-entrant load of
// an origin still being resolved reports a cycle.
func (c *ModuleCache) load(origin string, r Resolver, span Span) (*MapObject, error) {
	if e, ok := c.entries[origin]; ok {
		if e.state == moduleLoading {
			return nil, evalErrf(span, "import cycle detected at %q", origin)
		}
		return e.bindings, nil
	}
	c.entries[origin] = &moduleEntry{state: moduleLoading}
	bindings, err := r.Resolve(origin)
	if err != nil {
		delete(c.entries, origin)
		if ee, ok := err.(*EvalError); ok {
			return nil, ee
		}
		return nil, evalErrf(span, "cannot import %q: %v", origin, err)
	}
	c.entries[origin] = &moduleEntry{state: moduleLoaded, bindings: bindings}
	return bindings, nil
}

// defaultAlias derives the binding name for `import "path"` without `as`:
// the basename with its extension stripped.
func defaultAlias(p string) string {
	base := path.Base(p)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// SourceResolver resolves imports from an in-memory map of path -> source.
// Each module evaluates with the supplied Runtime against the shared cache,
// so diamond imports evaluate once and cycles surface as EvalErrors. Meant
// for tests and embedding; the CLI wires a filesystem-backed equivalent.
type SourceResolver struct {
	Sources map[string]string
	Runtime *Runtime
	Cache   *ModuleCache
}

// Resolve parses, checks and evaluates the module at p. A nil Cache is
// replaced with a shared one on first use; without that, nested imports
// would each get a fresh cache and a cycle would recurse instead of
// hitting the loading guard.
func (r *SourceResolver) Resolve(p string) (*MapObject, error) {
	if r.Cache == nil {
		r.Cache = NewModuleCache()
	}
	src, ok := r.Sources[p]
	if !ok {
		return nil, fmt.Errorf("module not found")
	}
	mod, err := Parse(src, p)
	if err != nil {
		return nil, err
	}
	if _, diags := Check(mod, r.Runtime); len(diags) > 0 {
		return nil, fmt.Errorf("module has type errors: %s", diags[0].Message)
	}
	res, err := Evaluate(mod, r.Runtime, EvalOptions{Resolver: r, Cache: r.Cache})
	if err != nil {
		return nil, err
	}
	return res.Bindings, nil
}
