// spans.go: source positions carried by tokens, AST nodes and diagnostics.
//
// A Span is a half-open byte range [Offset, Offset+Length) plus the 1-based
// line/column of its first byte. Every token records its span, the parser
// copies token spans onto AST nodes, the checker keys its TypeTable by span,
// and diagnostics point carets with it. Span is a small comparable value and
// is passed around by value everywhere.
package jcl

// Span locates a region of source text. Line and Column are 1-based and
// refer to the first byte; Offset/Length are byte coordinates.
type Span struct {
	Line   int
	Column int
	Offset int
	Length int
}

// End returns the byte offset one past the last byte of the span.
func (s Span) End() int { return s.Offset + s.Length }

// Extend returns a span covering both s and t. The earlier start wins the
// line/column; the later end wins the length.
func (s Span) Extend(t Span) Span {
	out := s
	if t.Offset < s.Offset {
		out = t
	}
	end := s.End()
	if t.End() > end {
		end = t.End()
	}
	out.Length = end - out.Offset
	return out
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s.Line == 0 && s.Column == 0 && s.Offset == 0 && s.Length == 0
}
