// jcl.go — public entry points for the JCL pipeline.
//
// OVERVIEW
// ========
// JCL evaluation is four independent passes, each consuming the previous
// pass's output:
//
//	source --Lex--> tokens --Parse--> AST --Check--> type table
//	                                   \--Evaluate--> values
//
// Hosts can drive the passes individually (Lex, Parse, Check, Evaluate) or
// use Run, which wires them together and enforces the contract that
// evaluation never starts while the checker holds errors.
//
// The four error kinds are never conflated: Lex/Parse return their error
// directly, Check collects []Diagnostic, Evaluate returns *EvalError (or
// collects diagnostics in best-effort mode). ToDiagnostic/RenderDiagnostic
// in errors.go convert any of them for display.
//
// A Runtime (runtime.go) carries the builtin catalog and the host's
// capability table; it is safe to reuse across modules. Import resolution
// and its cache are explicit options on Evaluate (modules.go).
package jcl

// Version of the language implementation.
const Version = "0.1.0"

// RunResult is the outcome of the full pipeline.
type RunResult struct {
	Module *Module
	Types  TypeTable
	// Diagnostics holds checker errors (evaluation was skipped) or
	// best-effort evaluation errors.
	Diagnostics []Diagnostic
	// Eval is nil when type checking failed.
	Eval *Result
}

// Run lexes, parses, checks and evaluates src. A lex or parse failure is
// returned as the error; type errors come back in RunResult.Diagnostics
// with Eval left nil, honoring the rule that evaluation never starts on a
// module with type errors.
func Run(src, name string, rt *Runtime, opts EvalOptions) (*RunResult, error) {
	mod, err := Parse(src, name)
	if err != nil {
		return nil, err
	}
	types, diags := Check(mod, rt)
	out := &RunResult{Module: mod, Types: types, Diagnostics: diags}
	if len(diags) > 0 {
		return out, nil
	}
	res, err := Evaluate(mod, rt, opts)
	if err != nil {
		return nil, err
	}
	out.Eval = res
	out.Diagnostics = res.Diagnostics
	return out, nil
}
