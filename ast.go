// ast.go: typed syntax tree produced by the parser.
//
// Two node families: Stmt (module-level statements) and Expr (everything
// else; the language is expression-oriented). Every node carries the span of
// the source text it covers; the checker keys its type table by these spans
// and diagnostics point carets with them.
package jcl

// Node is implemented by every syntax node.
type Node interface {
	Pos() Span
}

// Stmt is a module-level statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Module is a parsed source file.
type Module struct {
	Name  string // origin name used in diagnostics ("config.jcl", "<repl>")
	Stmts []Stmt
	Src   string // retained for caret snippets
}

/* ===========================
   Statements
   =========================== */

// AssignStmt is `[mut] name [: type] = expr`.
type AssignStmt struct {
	Name     string
	NameSpan Span
	Type     *TypeLit // nil when unannotated
	Value    Expr
	Mutable  bool
	Doc      []string
	Span_    Span
}

// FnStmt is `fn name(params) [: type] = expr`.
type FnStmt struct {
	Name     string
	NameSpan Span
	Params   []Param
	Return   *TypeLit // nil when unannotated
	Body     Expr
	Doc      []string
	Span_    Span
}

// Param is one declared function or lambda parameter.
type Param struct {
	Name string
	Type *TypeLit // nil when unannotated
	Span Span
}

// ImportStmt covers the three import forms:
//
//	import "path" [as alias]          (Items nil, Wildcard false)
//	import (a, b as c) from "path"    (Items set)
//	import * from "path"              (Wildcard true)
type ImportStmt struct {
	Path     string
	PathSpan Span
	Alias    string // whole-module binding name; "" means derive from path
	Items    []ImportItem
	Wildcard bool
	Span_    Span
}

// ImportItem is one selectively imported name, optionally renamed.
type ImportItem struct {
	Name  string
	Alias string // "" means keep Name
	Span  Span
}

// ExprStmt is a bare expression statement.
type ExprStmt struct {
	X Expr
}

func (s *AssignStmt) Pos() Span { return s.Span_ }
func (s *FnStmt) Pos() Span     { return s.Span_ }
func (s *ImportStmt) Pos() Span { return s.Span_ }
func (s *ExprStmt) Pos() Span   { return s.X.Pos() }

func (*AssignStmt) stmtNode() {}
func (*FnStmt) stmtNode()     {}
func (*ImportStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}

/* ===========================
   Expressions
   =========================== */

// IntLit, FloatLit, StringLit, BoolLit and NullLit are literal values.
type IntLit struct {
	Value int64
	Span_ Span
}

type FloatLit struct {
	Value float64
	Span_ Span
}

type StringLit struct {
	Value string
	Span_ Span
}

type BoolLit struct {
	Value bool
	Span_ Span
}

type NullLit struct {
	Span_ Span
}

// Ident is a variable reference.
type Ident struct {
	Name  string
	Span_ Span
}

// ListLit is `[e1, e2, ...]`.
type ListLit struct {
	Elems []Expr
	Span_ Span
}

// MapEntry is one `key = value` pair of a map literal.
type MapEntry struct {
	Key     string
	KeySpan Span
	Value   Expr
}

// MapLit is `(k1 = v1, k2 = v2, ...)`. Insertion order is preserved.
type MapLit struct {
	Entries []MapEntry
	Span_   Span
}

// Interp is a string with `${...}` interpolations. Parts alternate between
// literal text and expressions in source order.
type Interp struct {
	Parts []InterpPart
	Span_ Span
}

// InterpPart is either literal Text or an embedded expression X.
type InterpPart struct {
	Text string
	X    Expr // nil for literal parts
}

// Unary is `not x` or `-x`.
type Unary struct {
	Op    TokenType // NOT or MINUS
	X     Expr
	Span_ Span
}

// Binary is an infix operation. Op is the operator token type.
type Binary struct {
	Op     TokenType
	OpSpan Span
	L, R   Expr
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond, Then, Else Expr
}

// If is `if cond then a else b`.
type If struct {
	Cond, Then, Else Expr
	Span_            Span
}

// Member is `.name` access, null-safe when Optional is set.
type Member struct {
	X        Expr
	Name     string
	NameSpan Span
	Optional bool
}

// Index is `x[i]`.
type Index struct {
	X, Idx Expr
	Span_  Span
}

// Slice is `x[start:end:step]`; any bound may be nil.
type Slice struct {
	X                Expr
	Start, End, Step Expr
	Span_            Span
}

// Splat is `x[*]`; a following Member maps the access over the list.
type Splat struct {
	X     Expr
	Span_ Span
}

// Call is `fn(args...)`.
type Call struct {
	Fn    Expr
	Args  []Expr
	Span_ Span
}

// Lambda is `x => e` or `(a, b) => e`.
type Lambda struct {
	Params []Param
	Body   Expr
	Span_  Span
}

// CompClause is one `for name in iter` generator of a comprehension.
type CompClause struct {
	Var     string
	VarSpan Span
	Iter    Expr
}

// Comprehension is `[body for x in xs (for y in ys)* (if cond)?]`.
// Multiple clauses flatten into one list (cartesian, left-to-right).
type Comprehension struct {
	Body    Expr
	Clauses []CompClause
	Cond    Expr // nil when no filter
	Span_   Span
}

// Range is `[a..b]`, `[a..<b]` or `[a..b:step]`.
type Range struct {
	Start, End Expr
	Step       Expr // nil for default step
	Inclusive  bool
	Span_      Span
}

// Pipeline is `head | stage | stage ...`.
type Pipeline struct {
	Head   Expr
	Stages []Expr
}

// Try is `try(expr[, default])`.
type Try struct {
	X       Expr
	Default Expr // nil means null
	Span_   Span
}

// When is `when subject (pattern [if guard] => body, ...)`.
type When struct {
	Subject Expr
	Arms    []WhenArm
	Span_   Span
}

// WhenArm is one match arm.
type WhenArm struct {
	Pat   Pattern
	Guard Expr // nil when unguarded
	Body  Expr
}

// Pattern is a match pattern in a when arm.
type Pattern interface {
	Node
	patNode()
}

// WildcardPat matches anything without binding (`*`, `_`, `else`).
type WildcardPat struct {
	Span_ Span
}

// LiteralPat matches a literal value by equality.
type LiteralPat struct {
	X Expr
}

// BindPat binds the subject to a name for the arm's guard and body.
type BindPat struct {
	Name  string
	Span_ Span
}

// TuplePat destructures a fixed-length list.
type TuplePat struct {
	Elems []Pattern
	Span_ Span
}

func (*WildcardPat) patNode() {}
func (*LiteralPat) patNode()  {}
func (*BindPat) patNode()     {}
func (*TuplePat) patNode()    {}

func (p *WildcardPat) Pos() Span { return p.Span_ }
func (p *LiteralPat) Pos() Span  { return p.X.Pos() }
func (p *BindPat) Pos() Span     { return p.Span_ }
func (p *TuplePat) Pos() Span    { return p.Span_ }

// TypeLit is a written type annotation: a name, `list<T>` or `map<K,V>`.
type TypeLit struct {
	Name  string
	Args  []*TypeLit
	Span_ Span
}

func (t *TypeLit) Pos() Span { return t.Span_ }

func (e *IntLit) Pos() Span        { return e.Span_ }
func (e *FloatLit) Pos() Span      { return e.Span_ }
func (e *StringLit) Pos() Span     { return e.Span_ }
func (e *BoolLit) Pos() Span       { return e.Span_ }
func (e *NullLit) Pos() Span       { return e.Span_ }
func (e *Ident) Pos() Span         { return e.Span_ }
func (e *ListLit) Pos() Span       { return e.Span_ }
func (e *MapLit) Pos() Span        { return e.Span_ }
func (e *Interp) Pos() Span        { return e.Span_ }
func (e *Unary) Pos() Span         { return e.Span_ }
func (e *Binary) Pos() Span        { return e.L.Pos().Extend(e.R.Pos()) }
func (e *Ternary) Pos() Span       { return e.Cond.Pos().Extend(e.Else.Pos()) }
func (e *If) Pos() Span            { return e.Span_ }
func (e *Member) Pos() Span        { return e.X.Pos().Extend(e.NameSpan) }
func (e *Index) Pos() Span         { return e.Span_ }
func (e *Slice) Pos() Span         { return e.Span_ }
func (e *Splat) Pos() Span         { return e.Span_ }
func (e *Call) Pos() Span          { return e.Span_ }
func (e *Lambda) Pos() Span        { return e.Span_ }
func (e *Comprehension) Pos() Span { return e.Span_ }
func (e *Range) Pos() Span         { return e.Span_ }
func (e *Pipeline) Pos() Span {
	last := e.Stages[len(e.Stages)-1]
	return e.Head.Pos().Extend(last.Pos())
}
func (e *Try) Pos() Span  { return e.Span_ }
func (e *When) Pos() Span { return e.Span_ }

func (*IntLit) exprNode()        {}
func (*FloatLit) exprNode()      {}
func (*StringLit) exprNode()     {}
func (*BoolLit) exprNode()       {}
func (*NullLit) exprNode()       {}
func (*Ident) exprNode()         {}
func (*ListLit) exprNode()       {}
func (*MapLit) exprNode()        {}
func (*Interp) exprNode()        {}
func (*Unary) exprNode()         {}
func (*Binary) exprNode()        {}
func (*Ternary) exprNode()       {}
func (*If) exprNode()            {}
func (*Member) exprNode()        {}
func (*Index) exprNode()         {}
func (*Slice) exprNode()         {}
func (*Splat) exprNode()         {}
func (*Call) exprNode()          {}
func (*Lambda) exprNode()        {}
func (*Comprehension) exprNode() {}
func (*Range) exprNode()         {}
func (*Pipeline) exprNode()      {}
func (*Try) exprNode()           {}
func (*When) exprNode()          {}
