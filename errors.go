// errors.go: error kinds, structured diagnostics and caret-snippet rendering.
//
// What this file does
// -------------------
// JCL keeps four error kinds strictly apart:
//
//   - *LexError   — malformed source text; aborts the scan.
//   - *ParseError — "expected X, found Y"; aborts the parse.
//   - *TypeError  — collected by the checker; any of them blocks evaluation.
//   - *EvalError  — runtime failure; short-circuits the statement (and is the
//     only kind try() catches).
//
// Each kind carries a Span and converts to a Diagnostic, the neutral record
// hosts consume. RenderDiagnostic produces the human-facing snippet:
//
//	PARSE ERROR in config.jcl at 3:12: expected ')', found ','
//
//	   2 | servers = (
//	   3 |   host = "a",,
//	       |            ^
//	   4 | )
//
// One context line either side, numbered lines, caret under the 1-based
// column. Plain text; the CLI adds color on top.
package jcl

import (
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC: error kinds
   =========================== */

// LexError is a malformed lexical construct.
type LexError struct {
	Span Span
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Span.Line, e.Span.Column, e.Msg)
}

// ParseError is a syntax error with an "expected X, found Y" message.
type ParseError struct {
	Span Span
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Span.Line, e.Span.Column, e.Msg)
}

// TypeError is one static type violation. The checker collects all of them
// instead of stopping at the first.
type TypeError struct {
	Span       Span
	Msg        string
	Suggestion string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %d:%d: %s", e.Span.Line, e.Span.Column, e.Msg)
}

// EvalError is a runtime failure during evaluation.
type EvalError struct {
	Span Span
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error at %d:%d: %s", e.Span.Line, e.Span.Column, e.Msg)
}

func evalErrf(span Span, format string, args ...interface{}) *EvalError {
	return &EvalError{Span: span, Msg: fmt.Sprintf(format, args...)}
}

/* ===========================
   PUBLIC: diagnostics
   =========================== */

// Severity of a Diagnostic.
type Severity int

const (
	SevError Severity = iota
	SevWarning
)

func (s Severity) String() string {
	if s == SevWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is the neutral record surfaced to hosts and tooling.
type Diagnostic struct {
	Severity   Severity
	Kind       string // "lex", "parse", "type", "eval"
	Message    string
	Span       Span
	Suggestion string // optional "did you mean ..." style hint
}

// ToDiagnostic converts any of the four error kinds. Other errors map to a
// spanless eval diagnostic so callers can always render something.
func ToDiagnostic(err error) Diagnostic {
	switch e := err.(type) {
	case *LexError:
		return Diagnostic{Severity: SevError, Kind: "lex", Message: e.Msg, Span: e.Span}
	case *ParseError:
		return Diagnostic{Severity: SevError, Kind: "parse", Message: e.Msg, Span: e.Span}
	case *TypeError:
		return Diagnostic{Severity: SevError, Kind: "type", Message: e.Msg, Span: e.Span, Suggestion: e.Suggestion}
	case *EvalError:
		return Diagnostic{Severity: SevError, Kind: "eval", Message: e.Msg, Span: e.Span}
	default:
		return Diagnostic{Severity: SevError, Kind: "eval", Message: err.Error()}
	}
}

// RenderDiagnostic formats d as a caret snippet over src. name is the origin
// shown in the header ("config.jcl"); empty omits the "in <name>" part.
func RenderDiagnostic(d Diagnostic, name, src string) string {
	header := strings.ToUpper(d.Kind) + " " + strings.ToUpper(d.Severity.String())
	out := prettySnippet(src, header, name, d.Span, d.Message)
	if d.Suggestion != "" {
		out += fmt.Sprintf("Hint: %s\n", d.Suggestion)
	}
	return out
}

// WrapErrorWithSource returns err with its message replaced by a rendered
// caret snippet when err is one of the four JCL error kinds; other errors
// pass through unchanged.
func WrapErrorWithSource(err error, name, src string) error {
	switch err.(type) {
	case *LexError, *ParseError, *TypeError, *EvalError:
		return fmt.Errorf("%s", RenderDiagnostic(ToDiagnostic(err), name, src))
	default:
		return err
	}
}

/* ===========================
   PRIVATE: snippet rendering
   =========================== */

// prettySnippet builds a Python-like snippet with a header and a caret.
// It shows at most one previous and one next line when available.
// Coordinates are 1-based and clamped to the source bounds.
func prettySnippet(src, header, name string, span Span, msg string) string {
	lines := strings.Split(src, "\n")
	line, col := span.Line, span.Column
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
