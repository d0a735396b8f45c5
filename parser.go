// parser.go: token stream -> typed AST.
//
// What this file does
// -------------------
// Recursive descent with a precedence ladder (lowest to highest):
//
//	pipeline |  ->  ternary ?:  ->  or  ->  and  ->  == !=  ->  < <= > >=
//	->  ??  ->  + -  ->  * / %  ->  unary not/-  ->  postfix chain
//	(call, .field, ?.field, [index], [a:b:c], [*])  ->  primary
//
// The only lookahead beyond one token is bounded: deciding whether `(` opens
// a lambda parameter list (scan to the matching `)` and peek for `=>`), a
// map literal (`ident =` right after the paren) or plain grouping. Nothing
// backtracks over emitted nodes.
//
// Interpolated strings arrive from the lexer as structural tokens
// (STR_BEGIN, expression tokens, STR_MID ... STR_END); the parser folds them
// into an Interp node without ever touching raw text.
//
// The first syntax error aborts the parse with a *ParseError phrased as
// "expected X, found Y".
//
// Public:  Parse, ParseTokens.
// Private: the parser machinery.
package jcl

import "fmt"

// Parse lexes and parses src. name is the origin used in diagnostics.
// The returned error is a *LexError or *ParseError.
func Parse(src, name string) (*Module, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks, src, name)
}

// ParseTokens parses an already-lexed token stream.
func ParseTokens(toks []Token, src, name string) (*Module, error) {
	p := &parser{toks: toks}
	mod := &Module{Name: name, Src: src}
	for !p.at(EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		mod.Stmts = append(mod.Stmts, stmt)
	}
	return mod, nil
}

/* ===========================
   PRIVATE: parser
   =========================== */

type parser struct {
	toks []Token
	pos  int

	// noCall suppresses call postfixes on the top-level chain of a `when`
	// subject, so the arm list's '(' is not read as an argument list.
	// Any nested expression() clears it.
	noCall bool
}

func (p *parser) cur() Token          { return p.toks[p.pos] }
func (p *parser) at(t TokenType) bool { return p.cur().Type == t }

func (p *parser) peekType(n int) TokenType {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return EOF
	}
	return p.toks[idx].Type
}

func (p *parser) next() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) accept(t TokenType) bool {
	if p.at(t) {
		p.next()
		return true
	}
	return false
}

// need consumes a token of type t or fails with "expected X, found Y".
func (p *parser) need(t TokenType, ctx string) (Token, error) {
	if p.at(t) {
		return p.next(), nil
	}
	return Token{}, p.errExpected(t.String(), ctx)
}

func (p *parser) errExpected(what, ctx string) error {
	found := p.cur().Type.String()
	if p.cur().Type == IDENT || p.cur().Type == STRING {
		found = fmt.Sprintf("%q", p.cur().Lexeme)
	}
	msg := fmt.Sprintf("expected %s, found %s", what, found)
	if ctx != "" {
		msg += " " + ctx
	}
	return &ParseError{Span: p.cur().Span, Msg: msg}
}

func (p *parser) errAt(span Span, format string, args ...interface{}) error {
	return &ParseError{Span: span, Msg: fmt.Sprintf(format, args...)}
}

/* ---------- statements ---------- */

func (p *parser) statement() (Stmt, error) {
	var doc []string
	for p.at(DOC) {
		doc = append(doc, p.next().Literal.(string))
	}
	switch {
	case p.at(IMPORT):
		return p.importStmt()
	case p.at(FN):
		return p.fnStmt(doc)
	case p.at(MUT):
		return p.assignStmt(doc, true)
	case p.at(IDENT) && (p.peekType(1) == ASSIGN || p.peekType(1) == COLON):
		return p.assignStmt(doc, false)
	default:
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ExprStmt{X: x}, nil
	}
}

func (p *parser) importStmt() (Stmt, error) {
	start := p.next().Span // IMPORT
	switch {
	case p.at(STRING):
		tok := p.next()
		stmt := &ImportStmt{Path: tok.Literal.(string), PathSpan: tok.Span, Span_: start.Extend(tok.Span)}
		if p.accept(AS) {
			alias, err := p.need(IDENT, "after 'as'")
			if err != nil {
				return nil, err
			}
			stmt.Alias = alias.Literal.(string)
			stmt.Span_ = start.Extend(alias.Span)
		}
		return stmt, nil
	case p.at(STAR):
		p.next()
		if _, err := p.need(FROM, "after 'import *'"); err != nil {
			return nil, err
		}
		tok, err := p.need(STRING, "after 'from'")
		if err != nil {
			return nil, err
		}
		return &ImportStmt{
			Path: tok.Literal.(string), PathSpan: tok.Span,
			Wildcard: true, Span_: start.Extend(tok.Span),
		}, nil
	case p.at(LPAREN):
		p.next()
		var items []ImportItem
		for {
			name, err := p.need(IDENT, "in import list")
			if err != nil {
				return nil, err
			}
			item := ImportItem{Name: name.Literal.(string), Span: name.Span}
			if p.accept(AS) {
				alias, err := p.need(IDENT, "after 'as'")
				if err != nil {
					return nil, err
				}
				item.Alias = alias.Literal.(string)
			}
			items = append(items, item)
			if !p.accept(COMMA) {
				break
			}
		}
		if _, err := p.need(RPAREN, "after import list"); err != nil {
			return nil, err
		}
		if _, err := p.need(FROM, "after import list"); err != nil {
			return nil, err
		}
		tok, err := p.need(STRING, "after 'from'")
		if err != nil {
			return nil, err
		}
		return &ImportStmt{
			Path: tok.Literal.(string), PathSpan: tok.Span,
			Items: items, Span_: start.Extend(tok.Span),
		}, nil
	default:
		return nil, p.errExpected("module path, '*' or import list", "after 'import'")
	}
}

func (p *parser) fnStmt(doc []string) (Stmt, error) {
	start := p.next().Span // FN
	name, err := p.need(IDENT, "after 'fn'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "after function name"); err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	var ret *TypeLit
	if p.accept(COLON) {
		if ret, err = p.typeLit(); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(ASSIGN, "before function body"); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &FnStmt{
		Name: name.Literal.(string), NameSpan: name.Span,
		Params: params, Return: ret, Body: body,
		Doc: doc, Span_: start.Extend(body.Pos()),
	}, nil
}

// paramList parses params up to and including the closing ')'.
func (p *parser) paramList() ([]Param, error) {
	var params []Param
	if p.accept(RPAREN) {
		return params, nil
	}
	for {
		name, err := p.need(IDENT, "in parameter list")
		if err != nil {
			return nil, err
		}
		param := Param{Name: name.Literal.(string), Span: name.Span}
		if p.accept(COLON) {
			if param.Type, err = p.typeLit(); err != nil {
				return nil, err
			}
		}
		params = append(params, param)
		if !p.accept(COMMA) {
			break
		}
	}
	if _, err := p.need(RPAREN, "after parameter list"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) assignStmt(doc []string, mutable bool) (Stmt, error) {
	var start Span
	if mutable {
		start = p.next().Span // MUT
	}
	name, err := p.need(IDENT, "in assignment")
	if err != nil {
		return nil, err
	}
	if !mutable {
		start = name.Span
	}
	stmt := &AssignStmt{Name: name.Literal.(string), NameSpan: name.Span, Mutable: mutable, Doc: doc}
	if p.accept(COLON) {
		if stmt.Type, err = p.typeLit(); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(ASSIGN, "in assignment"); err != nil {
		return nil, err
	}
	if stmt.Value, err = p.expression(); err != nil {
		return nil, err
	}
	stmt.Span_ = start.Extend(stmt.Value.Pos())
	return stmt, nil
}

func (p *parser) typeLit() (*TypeLit, error) {
	name, err := p.need(IDENT, "in type annotation")
	if err != nil {
		return nil, err
	}
	lit := &TypeLit{Name: name.Literal.(string), Span_: name.Span}
	if p.accept(LESS) {
		for {
			arg, err := p.typeLit()
			if err != nil {
				return nil, err
			}
			lit.Args = append(lit.Args, arg)
			if !p.accept(COMMA) {
				break
			}
		}
		end, err := p.need(GREATER, "to close type arguments")
		if err != nil {
			return nil, err
		}
		lit.Span_ = name.Span.Extend(end.Span)
	}
	return lit, nil
}

/* ---------- expressions ---------- */

func (p *parser) expression() (Expr, error) {
	prev := p.noCall
	p.noCall = false
	x, err := p.pipeline()
	p.noCall = prev
	return x, err
}

func (p *parser) pipeline() (Expr, error) {
	head, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if !p.at(PIPE) {
		return head, nil
	}
	var stages []Expr
	for p.accept(PIPE) {
		stage, err := p.ternary()
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return &Pipeline{Head: head, Stages: stages}, nil
}

func (p *parser) ternary() (Expr, error) {
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.accept(QUESTION) {
		return cond, nil
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(COLON, "in conditional expression"); err != nil {
		return nil, err
	}
	els, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Ternary{Cond: cond, Then: then, Else: els}, nil
}

// binaryLadder builds one left-associative precedence level.
func (p *parser) binaryLadder(ops []TokenType, higher func() (Expr, error)) (Expr, error) {
	left, err := higher()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range ops {
			if p.at(op) {
				tok := p.next()
				right, err := higher()
				if err != nil {
					return nil, err
				}
				left = &Binary{Op: op, OpSpan: tok.Span, L: left, R: right}
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
	}
}

func (p *parser) logicalOr() (Expr, error) {
	return p.binaryLadder([]TokenType{OR}, p.logicalAnd)
}

func (p *parser) logicalAnd() (Expr, error) {
	return p.binaryLadder([]TokenType{AND}, p.equality)
}

func (p *parser) equality() (Expr, error) {
	return p.binaryLadder([]TokenType{EQ, NEQ}, p.relational)
}

func (p *parser) relational() (Expr, error) {
	return p.binaryLadder([]TokenType{LESS, LESS_EQ, GREATER, GREATER_EQ}, p.coalesce)
}

func (p *parser) coalesce() (Expr, error) {
	return p.binaryLadder([]TokenType{COALESCE}, p.additive)
}

func (p *parser) additive() (Expr, error) {
	return p.binaryLadder([]TokenType{PLUS, MINUS}, p.multiplicative)
}

func (p *parser) multiplicative() (Expr, error) {
	return p.binaryLadder([]TokenType{STAR, SLASH, PERCENT}, p.unary)
}

func (p *parser) unary() (Expr, error) {
	if p.at(NOT) || p.at(MINUS) {
		tok := p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok.Type, X: x, Span_: tok.Span.Extend(x.Pos())}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(DOT):
			p.next()
			name, err := p.need(IDENT, "after '.'")
			if err != nil {
				return nil, err
			}
			x = &Member{X: x, Name: name.Literal.(string), NameSpan: name.Span}
		case p.at(QDOT):
			p.next()
			name, err := p.need(IDENT, "after '?.'")
			if err != nil {
				return nil, err
			}
			x = &Member{X: x, Name: name.Literal.(string), NameSpan: name.Span, Optional: true}
		case p.at(LBRACKET):
			if x, err = p.indexOrSlice(x); err != nil {
				return nil, err
			}
		case p.at(LPAREN):
			if p.noCall {
				return x, nil
			}
			// `(ident =` right after the paren is the next statement's map
			// literal, not an argument list.
			if p.peekType(1) == IDENT && p.peekType(2) == ASSIGN {
				return x, nil
			}
			if x, err = p.call(x); err != nil {
				return nil, err
			}
		default:
			return x, nil
		}
	}
}

func (p *parser) call(fn Expr) (Expr, error) {
	p.next() // LPAREN
	var args []Expr
	if !p.at(RPAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.accept(COMMA) {
				break
			}
		}
	}
	end, err := p.need(RPAREN, "after arguments")
	if err != nil {
		return nil, err
	}
	return &Call{Fn: fn, Args: args, Span_: fn.Pos().Extend(end.Span)}, nil
}

// indexOrSlice parses `[*]`, `[i]` or `[a:b:c]` after an expression.
func (p *parser) indexOrSlice(x Expr) (Expr, error) {
	open := p.next() // LBRACKET
	if p.at(STAR) {
		p.next()
		end, err := p.need(RBRACKET, "after '[*'")
		if err != nil {
			return nil, err
		}
		return &Splat{X: x, Span_: x.Pos().Extend(end.Span)}, nil
	}
	if p.at(RBRACKET) {
		return nil, p.errAt(open.Span, "empty index")
	}
	var start, stop, step Expr
	var err error
	isSlice := false
	if !p.at(COLON) {
		if start, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if p.accept(COLON) {
		isSlice = true
		if !p.at(COLON) && !p.at(RBRACKET) {
			if stop, err = p.expression(); err != nil {
				return nil, err
			}
		}
		if p.accept(COLON) && !p.at(RBRACKET) {
			if step, err = p.expression(); err != nil {
				return nil, err
			}
		}
	}
	end, err := p.need(RBRACKET, "after index")
	if err != nil {
		return nil, err
	}
	span := x.Pos().Extend(end.Span)
	if isSlice {
		return &Slice{X: x, Start: start, End: stop, Step: step, Span_: span}, nil
	}
	return &Index{X: x, Idx: start, Span_: span}, nil
}

func (p *parser) primary() (Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case INT:
		p.next()
		return &IntLit{Value: tok.Literal.(int64), Span_: tok.Span}, nil
	case FLOAT:
		p.next()
		return &FloatLit{Value: tok.Literal.(float64), Span_: tok.Span}, nil
	case STRING:
		p.next()
		return &StringLit{Value: tok.Literal.(string), Span_: tok.Span}, nil
	case TRUE, FALSE:
		p.next()
		return &BoolLit{Value: tok.Literal.(bool), Span_: tok.Span}, nil
	case NULL:
		p.next()
		return &NullLit{Span_: tok.Span}, nil
	case STR_BEGIN:
		return p.interpString()
	case IDENT:
		if p.peekType(1) == ARROW {
			return p.singleParamLambda()
		}
		p.next()
		return &Ident{Name: tok.Literal.(string), Span_: tok.Span}, nil
	case LPAREN:
		return p.parenExpr()
	case LBRACKET:
		return p.bracketExpr()
	case IF:
		return p.ifExpr()
	case WHEN, MATCH:
		return p.whenExpr()
	case TRY:
		return p.tryExpr()
	default:
		return nil, p.errExpected("an expression", "")
	}
}

func (p *parser) interpString() (Expr, error) {
	begin := p.next() // STR_BEGIN
	parts := []InterpPart{{Text: begin.Literal.(string)}}
	span := begin.Span
	for {
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		parts = append(parts, InterpPart{X: x})
		switch {
		case p.at(STR_MID):
			mid := p.next()
			parts = append(parts, InterpPart{Text: mid.Literal.(string)})
		case p.at(STR_END):
			end := p.next()
			parts = append(parts, InterpPart{Text: end.Literal.(string)})
			return &Interp{Parts: parts, Span_: span.Extend(end.Span)}, nil
		default:
			return nil, p.errExpected("'}' to close interpolation", "")
		}
	}
}

func (p *parser) singleParamLambda() (Expr, error) {
	name := p.next() // IDENT
	p.next()         // ARROW
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Lambda{
		Params: []Param{{Name: name.Literal.(string), Span: name.Span}},
		Body:   body,
		Span_:  name.Span.Extend(body.Pos()),
	}, nil
}

// parenExpr disambiguates `(params) => body`, `(k = v, ...)` and `(expr)`.
func (p *parser) parenExpr() (Expr, error) {
	open := p.cur().Span
	if p.isLambdaParams() {
		p.next() // LPAREN
		params, err := p.paramList()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(ARROW, "after lambda parameters"); err != nil {
			return nil, err
		}
		body, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &Lambda{Params: params, Body: body, Span_: open.Extend(body.Pos())}, nil
	}
	if p.peekType(1) == RPAREN || (p.peekType(1) == IDENT && p.peekType(2) == ASSIGN) {
		return p.mapLit()
	}
	p.next() // LPAREN
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, "to close grouping"); err != nil {
		return nil, err
	}
	return x, nil
}

// isLambdaParams scans from the current '(' to its matching ')' and reports
// whether '=>' follows. Bounded lookahead, no tokens are consumed.
func (p *parser) isLambdaParams() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case LPAREN, LBRACKET:
			depth++
		case RPAREN, RBRACKET:
			depth--
			if depth == 0 {
				return p.peekType(i-p.pos+1) == ARROW
			}
		case EOF:
			return false
		}
	}
	return false
}

func (p *parser) mapLit() (Expr, error) {
	open := p.next() // LPAREN
	lit := &MapLit{Span_: open.Span}
	if end, ok := p.acceptTok(RPAREN); ok {
		lit.Span_ = open.Span.Extend(end.Span)
		return lit, nil
	}
	for {
		key, err := p.need(IDENT, "as map key")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(ASSIGN, "after map key"); err != nil {
			return nil, err
		}
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		lit.Entries = append(lit.Entries, MapEntry{
			Key: key.Literal.(string), KeySpan: key.Span, Value: val,
		})
		if !p.accept(COMMA) {
			break
		}
		// Trailing comma.
		if p.at(RPAREN) {
			break
		}
	}
	end, err := p.need(RPAREN, "to close map literal")
	if err != nil {
		return nil, err
	}
	lit.Span_ = open.Span.Extend(end.Span)
	return lit, nil
}

// bracketExpr parses list literals, comprehensions and ranges.
func (p *parser) bracketExpr() (Expr, error) {
	open := p.next() // LBRACKET
	if end, ok := p.acceptTok(RBRACKET); ok {
		return &ListLit{Span_: open.Span.Extend(end.Span)}, nil
	}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	switch {
	case p.at(DOTDOT), p.at(DOTDOTLT):
		inclusive := p.next().Type == DOTDOT
		stop, err := p.expression()
		if err != nil {
			return nil, err
		}
		rng := &Range{Start: first, End: stop, Inclusive: inclusive}
		if p.accept(COLON) {
			if rng.Step, err = p.expression(); err != nil {
				return nil, err
			}
		}
		end, err := p.need(RBRACKET, "to close range")
		if err != nil {
			return nil, err
		}
		rng.Span_ = open.Span.Extend(end.Span)
		return rng, nil
	case p.at(FOR):
		comp := &Comprehension{Body: first}
		for p.accept(FOR) {
			name, err := p.need(IDENT, "after 'for'")
			if err != nil {
				return nil, err
			}
			if _, err := p.need(IN, "in comprehension"); err != nil {
				return nil, err
			}
			iter, err := p.expression()
			if err != nil {
				return nil, err
			}
			comp.Clauses = append(comp.Clauses, CompClause{
				Var: name.Literal.(string), VarSpan: name.Span, Iter: iter,
			})
		}
		if p.accept(IF) {
			if comp.Cond, err = p.expression(); err != nil {
				return nil, err
			}
		}
		end, err := p.need(RBRACKET, "to close comprehension")
		if err != nil {
			return nil, err
		}
		comp.Span_ = open.Span.Extend(end.Span)
		return comp, nil
	default:
		lit := &ListLit{Elems: []Expr{first}}
		for p.accept(COMMA) {
			if p.at(RBRACKET) {
				break
			}
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			lit.Elems = append(lit.Elems, elem)
		}
		end, err := p.need(RBRACKET, "to close list")
		if err != nil {
			return nil, err
		}
		lit.Span_ = open.Span.Extend(end.Span)
		return lit, nil
	}
}

func (p *parser) acceptTok(t TokenType) (Token, bool) {
	if p.at(t) {
		return p.next(), true
	}
	return Token{}, false
}

func (p *parser) ifExpr() (Expr, error) {
	start := p.next().Span // IF
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(THEN, "in if expression"); err != nil {
		return nil, err
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ELSE, "in if expression"); err != nil {
		return nil, err
	}
	els, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &If{Cond: cond, Then: then, Else: els, Span_: start.Extend(els.Pos())}, nil
}

func (p *parser) whenExpr() (Expr, error) {
	start := p.next().Span // WHEN or MATCH
	prev := p.noCall
	p.noCall = true
	subject, err := p.ternary()
	p.noCall = prev
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "before match arms"); err != nil {
		return nil, err
	}
	var arms []WhenArm
	for {
		pat, err := p.pattern()
		if err != nil {
			return nil, err
		}
		arm := WhenArm{Pat: pat}
		if p.accept(IF) {
			if arm.Guard, err = p.expression(); err != nil {
				return nil, err
			}
		}
		if _, err := p.need(ARROW, "after pattern"); err != nil {
			return nil, err
		}
		if arm.Body, err = p.expression(); err != nil {
			return nil, err
		}
		arms = append(arms, arm)
		if !p.accept(COMMA) {
			break
		}
		if p.at(RPAREN) {
			break
		}
	}
	end, err := p.need(RPAREN, "after match arms")
	if err != nil {
		return nil, err
	}
	if len(arms) == 0 {
		return nil, p.errAt(end.Span, "match expression needs at least one arm")
	}
	return &When{Subject: subject, Arms: arms, Span_: start.Extend(end.Span)}, nil
}

func (p *parser) pattern() (Pattern, error) {
	tok := p.cur()
	switch tok.Type {
	case STAR, ELSE:
		p.next()
		return &WildcardPat{Span_: tok.Span}, nil
	case IDENT:
		p.next()
		if tok.Literal.(string) == "_" {
			return &WildcardPat{Span_: tok.Span}, nil
		}
		return &BindPat{Name: tok.Literal.(string), Span_: tok.Span}, nil
	case INT, FLOAT, STRING, TRUE, FALSE, NULL:
		x, err := p.primary()
		if err != nil {
			return nil, err
		}
		return &LiteralPat{X: x}, nil
	case MINUS:
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &LiteralPat{X: x}, nil
	case LPAREN:
		open := p.next()
		var elems []Pattern
		for {
			elem, err := p.pattern()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if !p.accept(COMMA) {
				break
			}
		}
		end, err := p.need(RPAREN, "to close tuple pattern")
		if err != nil {
			return nil, err
		}
		return &TuplePat{Elems: elems, Span_: open.Span.Extend(end.Span)}, nil
	default:
		return nil, p.errExpected("a pattern", "")
	}
}

func (p *parser) tryExpr() (Expr, error) {
	start := p.next().Span // TRY
	if _, err := p.need(LPAREN, "after 'try'"); err != nil {
		return nil, err
	}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	t := &Try{X: x}
	if p.accept(COMMA) {
		if t.Default, err = p.expression(); err != nil {
			return nil, err
		}
	}
	end, err := p.need(RPAREN, "to close try")
	if err != nil {
		return nil, err
	}
	t.Span_ = start.Extend(end.Span)
	return t, nil
}
