package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jcl "github.com/hemmer-io/jcl-sub000"
)

// FileResolver resolves import paths against a root directory on disk.
// Imported modules run through the full pipeline with the shared Runtime
// and cache, so diamond imports evaluate once and cycles surface as
// EvalErrors in the importing module.
type FileResolver struct {
	Root    string
	Runtime *jcl.Runtime
	Cache   *jcl.ModuleCache
}

// NewFileResolver builds a resolver rooted at dir.
func NewFileResolver(dir string, rt *jcl.Runtime) *FileResolver {
	return &FileResolver{Root: dir, Runtime: rt, Cache: jcl.NewModuleCache()}
}

// Resolve reads, parses, checks and evaluates the module at p.
func (r *FileResolver) Resolve(p string) (*jcl.MapObject, error) {
	full := filepath.Join(r.Root, filepath.FromSlash(p))
	rel, err := filepath.Rel(r.Root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("import path escapes the module directory")
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("module not found: %w", err)
	}
	src := string(raw)
	mod, err := jcl.Parse(src, p)
	if err != nil {
		return nil, jcl.WrapErrorWithSource(err, p, src)
	}
	if _, diags := jcl.Check(mod, r.Runtime); len(diags) > 0 {
		return nil, fmt.Errorf("%s", jcl.RenderDiagnostic(diags[0], p, src))
	}
	res, err := jcl.Evaluate(mod, r.Runtime, jcl.EvalOptions{Resolver: r, Cache: r.Cache})
	if err != nil {
		return nil, jcl.WrapErrorWithSource(err, p, src)
	}
	return res.Bindings, nil
}
