// capability.go: host-injected effect capabilities.
//
// The evaluator core never touches the OS. Builtins that need the outside
// world (file reads, the current time) go through this table, which the host
// fills in when constructing the Runtime. A nil table or nil entry turns the
// corresponding builtin into an EvalError naming the missing capability, so
// sandboxed evaluation is the default and tests can inject fakes.
package jcl

import "time"

// Capabilities is the effect table handed to NewRuntime.
type Capabilities struct {
	// ReadFile returns the contents of the named file.
	ReadFile func(path string) ([]byte, error)
	// FileExists reports whether the named file exists.
	FileExists func(path string) (bool, error)
	// Now returns the current time.
	Now func() time.Time
}

// capError builds the EvalError for a builtin whose capability is missing.
func capError(span Span, name string) *EvalError {
	return evalErrf(span, "capability %q not provided by the host", name)
}
