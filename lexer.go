// lexer.go: source text -> token stream.
//
// What this file does
// -------------------
// Byte-based scanner for JCL source. Produces a flat []Token with precise
// spans (1-based line/column plus byte offset/length). The first malformed
// construct aborts the scan with a *LexError.
//
// String interpolation is structural: a string containing `${...}` is emitted
// as STR_BEGIN <expr tokens> (STR_MID <expr tokens>)* STR_END, where the
// string-part tokens carry the literal text between interpolations in their
// Literal field. The parser consumes these boundaries directly and never
// re-lexes raw text. A mode stack makes this work for strings nested inside
// interpolated expressions.
//
// Heredocs (`<<ID` and dedenting `<<-ID`) are pre-scanned once to find the
// terminator line and the minimum indent, then lexed in place so that spans
// of interpolated expressions point into the real source.
//
// Public:  TokenType, Token, Lex.
// Private: the Lexer machinery.
package jcl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	COMMA    // ","
	DOT      // "."
	COLON    // ":"
	QUESTION // "?"
	QDOT     // "?."
	COALESCE // "??"
	ARROW    // "=>"
	PIPE     // "|"
	DOTDOT   // ".."
	DOTDOTLT // "..<"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	IDENT
	INT
	FLOAT
	STRING    // string with no interpolation
	STR_BEGIN // literal text up to the first "${"
	STR_MID   // literal text between "}" and the next "${"
	STR_END   // literal text after the last "}"
	DOC       // "///" doc comment line

	// Keywords
	IMPORT
	FROM
	AS
	FN
	MUT
	IF
	THEN
	ELSE
	WHEN
	MATCH
	FOR
	IN
	TRY
	AND
	OR
	NOT
	TRUE
	FALSE
	NULL
)

var tokenNames = map[TokenType]string{
	EOF: "end of input", ILLEGAL: "illegal token",
	LPAREN: "'('", RPAREN: "')'", LBRACKET: "'['", RBRACKET: "']'",
	COMMA: "','", DOT: "'.'", COLON: "':'", QUESTION: "'?'",
	QDOT: "'?.'", COALESCE: "'??'", ARROW: "'=>'", PIPE: "'|'",
	DOTDOT: "'..'", DOTDOTLT: "'..<'",
	PLUS: "'+'", MINUS: "'-'", STAR: "'*'", SLASH: "'/'", PERCENT: "'%'",
	ASSIGN: "'='", EQ: "'=='", NEQ: "'!='",
	LESS: "'<'", LESS_EQ: "'<='", GREATER: "'>'", GREATER_EQ: "'>='",
	IDENT: "identifier", INT: "integer", FLOAT: "float", STRING: "string",
	STR_BEGIN: "string", STR_MID: "string continuation", STR_END: "string end",
	DOC:    "doc comment",
	IMPORT: "'import'", FROM: "'from'", AS: "'as'", FN: "'fn'", MUT: "'mut'",
	IF: "'if'", THEN: "'then'", ELSE: "'else'", WHEN: "'when'", MATCH: "'match'",
	FOR: "'for'", IN: "'in'", TRY: "'try'", AND: "'and'", OR: "'or'", NOT: "'not'",
	TRUE: "'true'", FALSE: "'false'", NULL: "'null'",
}

// String returns a human-readable name for error messages.
func (t TokenType) String() string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals; string text for STR_* and DOC
	Span    Span
}

// keywords map; matched only against complete identifier lexemes, so
// identifiers like "fortune" or "intern" never split into keywords.
var keywords = map[string]TokenType{
	"import": IMPORT,
	"from":   FROM,
	"as":     AS,
	"fn":     FN,
	"mut":    MUT,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"when":   WHEN,
	"match":  MATCH,
	"for":    FOR,
	"in":     IN,
	"try":    TRY,
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"true":   TRUE,
	"false":  FALSE,
	"null":   NULL,
}

// Lex scans src into tokens. The returned error, if any, is a *LexError.
func Lex(src string) ([]Token, error) {
	l := &Lexer{src: src, line: 1, col: 0}
	return l.Scan()
}

/* ===========================
   PRIVATE: scanner
   =========================== */

type strKind int

const (
	strQuote  strKind = iota // "..."
	strTriple                // """..."""
	strHeredoc
)

// strFrame tracks one interpolated string suspended while its embedded
// expression is being lexed.
type strFrame struct {
	kind   strKind
	delim  string // heredoc terminator
	dedent int    // heredoc leading whitespace to strip per line
	begun  bool   // a STR_BEGIN has been emitted for this string
	resume bool   // continuing mid-line after an interpolation
}

// Lexer scans a JCL source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token
	frames []strFrame // interpolation mode stack

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) match(ch byte) bool {
	if c, ok := l.peek(); ok && c == ch {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) markStart() {
	l.start = l.cur
	l.tokStartLine = l.line
	l.tokStartCol = l.col
}

func (l *Lexer) span() Span {
	return Span{
		Line:   l.tokStartLine,
		Column: l.tokStartCol + 1,
		Offset: l.start,
		Length: l.cur - l.start,
	}
}

func (l *Lexer) add(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Span:    l.span(),
	})
}

func (l *Lexer) errf(format string, args ...interface{}) error {
	return &LexError{Span: l.span(), Msg: fmt.Sprintf(format, args...)}
}

// Scan tokenizes the whole source. Stops at the first error.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.isAtEnd() {
		l.markStart()
		ch, _ := l.advance()
		if err := l.scanToken(ch); err != nil {
			return nil, err
		}
	}
	l.markStart()
	l.add(EOF, nil)
	return l.tokens, nil
}

func (l *Lexer) scanToken(ch byte) error {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return nil
	case '(':
		l.add(LPAREN, nil)
	case ')':
		l.add(RPAREN, nil)
	case '[':
		l.add(LBRACKET, nil)
	case ']':
		l.add(RBRACKET, nil)
	case ',':
		l.add(COMMA, nil)
	case ':':
		l.add(COLON, nil)
	case '+':
		l.add(PLUS, nil)
	case '-':
		l.add(MINUS, nil)
	case '*':
		l.add(STAR, nil)
	case '%':
		l.add(PERCENT, nil)
	case '|':
		l.add(PIPE, nil)
	case '.':
		if l.match('.') {
			if l.match('<') {
				l.add(DOTDOTLT, nil)
			} else {
				l.add(DOTDOT, nil)
			}
		} else {
			l.add(DOT, nil)
		}
	case '?':
		if l.match('?') {
			l.add(COALESCE, nil)
		} else if l.match('.') {
			l.add(QDOT, nil)
		} else {
			l.add(QUESTION, nil)
		}
	case '=':
		if l.match('=') {
			l.add(EQ, nil)
		} else if l.match('>') {
			l.add(ARROW, nil)
		} else {
			l.add(ASSIGN, nil)
		}
	case '!':
		if l.match('=') {
			l.add(NEQ, nil)
			return nil
		}
		return l.errf("unexpected character '!' (did you mean '!=' ?)")
	case '<':
		if c, ok := l.peek(); ok && c == '<' {
			return l.scanHeredoc()
		}
		if l.match('=') {
			l.add(LESS_EQ, nil)
		} else {
			l.add(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.add(GREATER_EQ, nil)
		} else {
			l.add(GREATER, nil)
		}
	case '/':
		if c, ok := l.peek(); ok && c == '/' {
			return l.scanLineComment()
		}
		if l.match('*') {
			return l.scanBlockComment()
		}
		l.add(SLASH, nil)
	case '"':
		return l.scanString()
	case '}':
		// Resuming an interpolated string after its embedded expression.
		if len(l.frames) > 0 {
			frame := l.frames[len(l.frames)-1]
			l.frames = l.frames[:len(l.frames)-1]
			return l.scanStringBody(frame)
		}
		return l.errf("unexpected character '}'")
	default:
		if isDigit(ch) {
			return l.scanNumber()
		}
		if isIdentStart(ch) {
			l.scanIdent()
			return nil
		}
		return l.errf("unexpected character %q", string(ch))
	}
	return nil
}

func (l *Lexer) scanLineComment() error {
	// Second '/' already peeked. "///" is a doc comment; "//" is skipped.
	l.advance()
	doc := false
	if c, ok := l.peek(); ok && c == '/' {
		l.advance()
		doc = true
	}
	textStart := l.cur
	for {
		c, ok := l.peek()
		if !ok || c == '\n' {
			break
		}
		l.advance()
	}
	if doc {
		l.add(DOC, strings.TrimSpace(l.src[textStart:l.cur]))
	}
	return nil
}

func (l *Lexer) scanBlockComment() error {
	for {
		c, ok := l.peek()
		if !ok {
			return l.errf("unterminated block comment")
		}
		if c == '*' {
			if c2, ok := l.peekN(1); ok && c2 == '/' {
				l.advance()
				l.advance()
				return nil
			}
		}
		l.advance()
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

// scanIdent consumes an identifier or keyword. Kebab-case is supported: a
// '-' joins the identifier when the character after it could start an
// identifier (so `max-retries` is one name but `a - 1` and `a -1` are
// subtraction).
func (l *Lexer) scanIdent() {
	for {
		c, ok := l.peek()
		if !ok {
			break
		}
		if isIdentPart(c) {
			l.advance()
			continue
		}
		if c == '-' {
			if c2, ok := l.peekN(1); ok && isIdentStart(c2) {
				l.advance()
				l.advance()
				continue
			}
		}
		break
	}
	lex := l.src[l.start:l.cur]
	if kw, ok := keywords[lex]; ok {
		switch kw {
		case TRUE:
			l.add(TRUE, true)
		case FALSE:
			l.add(FALSE, false)
		default:
			l.add(kw, nil)
		}
		return
	}
	l.add(IDENT, lex)
}

func (l *Lexer) scanNumber() error {
	for {
		c, ok := l.peek()
		if !ok || !isDigit(c) {
			break
		}
		l.advance()
	}
	isFloat := false
	// A fraction needs a digit after the dot; `1..5` stays INT DOTDOT INT.
	if c, ok := l.peek(); ok && c == '.' {
		if c2, ok := l.peekN(1); ok && isDigit(c2) {
			isFloat = true
			l.advance()
			for {
				c, ok := l.peek()
				if !ok || !isDigit(c) {
					break
				}
				l.advance()
			}
		}
	}
	if c, ok := l.peek(); ok && (c == 'e' || c == 'E') {
		i := 1
		if c2, ok := l.peekN(1); ok && (c2 == '+' || c2 == '-') {
			i = 2
		}
		if c2, ok := l.peekN(i); ok && isDigit(c2) {
			isFloat = true
			for j := 0; j < i; j++ {
				l.advance()
			}
			for {
				c, ok := l.peek()
				if !ok || !isDigit(c) {
					break
				}
				l.advance()
			}
		}
	}
	lex := l.src[l.start:l.cur]
	if isFloat {
		f, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return l.errf("invalid float literal %q", lex)
		}
		l.add(FLOAT, f)
		return nil
	}
	n, err := strconv.ParseInt(lex, 10, 64)
	if err != nil {
		return l.errf("integer literal %q out of range", lex)
	}
	l.add(INT, n)
	return nil
}

// scanString handles both "..." and """...""" openings. The opening quote
// has been consumed.
func (l *Lexer) scanString() error {
	kind := strQuote
	if c, ok := l.peek(); ok && c == '"' {
		if c2, ok := l.peekN(1); ok && c2 == '"' {
			l.advance()
			l.advance()
			kind = strTriple
		} else {
			// Empty string "".
			l.advance()
			l.add(STRING, "")
			return nil
		}
	}
	return l.scanStringBody(strFrame{kind: kind})
}

// scanStringBody consumes literal text until the string terminates or an
// interpolation starts. Emits STRING (whole string, no interpolation),
// STR_BEGIN (first segment before "${"), STR_MID (later segment before
// another "${") or STR_END (final segment).
func (l *Lexer) scanStringBody(frame strFrame) error {
	var b strings.Builder
	atLineStart := frame.kind == strHeredoc && !frame.resume
	frame.resume = false
	for {
		if frame.kind == strHeredoc && atLineStart {
			term, err := l.heredocLineStart(&frame, &b)
			if err != nil {
				return err
			}
			if term {
				l.emitStringPart(frame, b.String(), true)
				return nil
			}
			atLineStart = false
			continue
		}
		c, ok := l.peek()
		if !ok {
			return l.errf("unterminated string")
		}
		switch {
		case c == '$':
			if c2, ok := l.peekN(1); ok && c2 == '{' {
				l.advance()
				l.advance()
				l.emitStringPart(frame, b.String(), false)
				frame.begun = true
				frame.resume = true
				l.frames = append(l.frames, frame)
				return nil
			}
			l.advance()
			b.WriteByte('$')
		case frame.kind == strQuote && c == '"':
			l.advance()
			l.emitStringPart(frame, b.String(), true)
			return nil
		case frame.kind == strTriple && c == '"':
			if l.lookingAt(`"""`) {
				l.advance()
				l.advance()
				l.advance()
				l.emitStringPart(frame, b.String(), true)
				return nil
			}
			l.advance()
			b.WriteByte('"')
		case frame.kind == strQuote && c == '\n':
			return l.errf("unterminated string (newline in single-line string)")
		case frame.kind != strHeredoc && c == '\\':
			l.advance()
			if err := l.scanEscape(&b); err != nil {
				return err
			}
		default:
			l.advance()
			b.WriteByte(c)
			if frame.kind == strHeredoc && c == '\n' {
				atLineStart = true
			}
		}
	}
}

// heredocLineStart runs at the beginning of each heredoc body line: checks
// for the terminator and strips the dedent. Returns true when the heredoc
// ended. The trailing newline of the last content line is dropped.
func (l *Lexer) heredocLineStart(frame *strFrame, b *strings.Builder) (bool, error) {
	lineEnd := strings.IndexByte(l.src[l.cur:], '\n')
	var lineTxt string
	if lineEnd < 0 {
		lineTxt = l.src[l.cur:]
	} else {
		lineTxt = l.src[l.cur : l.cur+lineEnd]
	}
	if strings.TrimSpace(lineTxt) == frame.delim {
		for range lineTxt {
			l.advance()
		}
		// Drop the newline that preceded the terminator.
		out := b.String()
		b.Reset()
		b.WriteString(strings.TrimSuffix(out, "\n"))
		return true, nil
	}
	if lineEnd < 0 {
		return false, l.errf("unterminated heredoc (missing %q)", frame.delim)
	}
	for i := 0; i < frame.dedent; i++ {
		c, ok := l.peek()
		if !ok || (c != ' ' && c != '\t') {
			break
		}
		l.advance()
	}
	return false, nil
}

func (l *Lexer) emitStringPart(frame strFrame, text string, closing bool) {
	switch {
	case !frame.begun && closing:
		l.add(STRING, text)
	case !frame.begun:
		l.add(STR_BEGIN, text)
	case closing:
		l.add(STR_END, text)
	default:
		l.add(STR_MID, text)
	}
}

func (l *Lexer) lookingAt(s string) bool {
	return strings.HasPrefix(l.src[l.cur:], s)
}

func (l *Lexer) scanEscape(b *strings.Builder) error {
	c, ok := l.advance()
	if !ok {
		return l.errf("unterminated escape sequence")
	}
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\\':
		b.WriteByte('\\')
	case '"':
		b.WriteByte('"')
	case '$':
		b.WriteByte('$')
	case 'u':
		r, err := l.scanUnicodeEscape()
		if err != nil {
			return err
		}
		b.WriteRune(r)
	default:
		return l.errf("invalid escape sequence '\\%s'", string(c))
	}
	return nil
}

// scanUnicodeEscape reads \uXXXX, pairing surrogates like JSON does.
func (l *Lexer) scanUnicodeEscape() (rune, error) {
	u1, err := l.scanHex4()
	if err != nil {
		return 0, err
	}
	if utf16.IsSurrogate(rune(u1)) {
		if l.lookingAt(`\u`) {
			l.advance()
			l.advance()
			u2, err := l.scanHex4()
			if err != nil {
				return 0, err
			}
			r := utf16.DecodeRune(rune(u1), rune(u2))
			if r != utf8.RuneError {
				return r, nil
			}
		}
		return utf8.RuneError, nil
	}
	return rune(u1), nil
}

func (l *Lexer) scanHex4() (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		c, ok := l.advance()
		if !ok {
			return 0, l.errf("unterminated \\u escape")
		}
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, l.errf("invalid \\u escape digit %q", string(c))
		}
		v = v<<4 | d
	}
	return v, nil
}

// scanHeredoc handles `<<ID` and `<<-ID`. The first '<' has been consumed.
func (l *Lexer) scanHeredoc() error {
	l.advance() // second '<'
	strip := l.match('-')
	dstart := l.cur
	for {
		c, ok := l.peek()
		if !ok || !isIdentPart(c) {
			break
		}
		l.advance()
	}
	delim := l.src[dstart:l.cur]
	if delim == "" {
		return l.errf("heredoc delimiter expected after '<<'")
	}
	// Skip to the end of the opening line.
	for {
		c, ok := l.peek()
		if !ok {
			return l.errf("unterminated heredoc (missing %q)", delim)
		}
		l.advance()
		if c == '\n' {
			break
		}
	}
	dedent := 0
	if strip {
		dedent = heredocMinIndent(l.src[l.cur:], delim)
	}
	return l.scanStringBody(strFrame{kind: strHeredoc, delim: delim, dedent: dedent})
}

// heredocMinIndent pre-scans the body for the smallest leading whitespace
// run among non-blank lines before the terminator.
func heredocMinIndent(body, delim string) int {
	min := -1
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == delim {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := 0
		for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		if min < 0 || n < min {
			min = n
		}
	}
	if min < 0 {
		return 0
	}
	return min
}
