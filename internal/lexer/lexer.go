// Package lexer implements the Phoenix lexical analyzer. The surface
// language is indentation-structured, so the lexer synthesizes Indent
// and Dedent tokens from leading whitespace the way Python's tokenizer
// does, and suppresses newlines inside brackets so list literals and
// call arguments can span lines.
package lexer

import (
	"fmt"

	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/position"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenNewline
	TokenIndent
	TokenDedent

	// Literals
	TokenIdent
	TokenInt
	TokenFloat
	TokenString

	// Keywords
	TokenDef
	TokenReturn
	TokenFor
	TokenIn
	TokenWhile
	TokenIf
	TokenElif
	TokenElse
	TokenImport
	TokenPass
	TokenTrue
	TokenFalse

	// Operators and delimiters
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenColon
	TokenComma
	TokenDot
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "EOF",
	TokenNewline:  "NEWLINE",
	TokenIndent:   "INDENT",
	TokenDedent:   "DEDENT",
	TokenIdent:    "IDENT",
	TokenInt:      "INT",
	TokenFloat:    "FLOAT",
	TokenString:   "STRING",
	TokenDef:      "def",
	TokenReturn:   "return",
	TokenFor:      "for",
	TokenIn:       "in",
	TokenWhile:    "while",
	TokenIf:       "if",
	TokenElif:     "elif",
	TokenElse:     "else",
	TokenImport:   "import",
	TokenPass:     "pass",
	TokenTrue:     "True",
	TokenFalse:    "False",
	TokenPlus:     "+",
	TokenMinus:    "-",
	TokenStar:     "*",
	TokenSlash:    "/",
	TokenAssign:   "=",
	TokenEq:       "==",
	TokenNe:       "!=",
	TokenLt:       "<",
	TokenLe:       "<=",
	TokenGt:       ">",
	TokenGe:       ">=",
	TokenColon:    ":",
	TokenComma:    ",",
	TokenDot:      ".",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenLBracket: "[",
	TokenRBracket: "]",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

var keywords = map[string]TokenType{
	"def":    TokenDef,
	"return": TokenReturn,
	"for":    TokenFor,
	"in":     TokenIn,
	"while":  TokenWhile,
	"if":     TokenIf,
	"elif":   TokenElif,
	"else":   TokenElse,
	"import": TokenImport,
	"pass":   TokenPass,
	"True":   TokenTrue,
	"False":  TokenFalse,
}

// Token is one lexical token with its source position. Literal holds
// the token's text: the identifier spelling, the raw numeric literal,
// or the unescaped string contents.
type Token struct {
	Type    TokenType
	Literal string
	Pos     position.Position
}

// Span returns the source span the token covers.
func (t Token) Span() position.Span {
	n := len(t.Literal)
	if n == 0 {
		n = 1
	}
	return position.NewSpan(t.Pos, n)
}

// Lexer tokenizes one Phoenix source file.
type Lexer struct {
	filename string
	src      string
	offset   int
	line     int
	column   int

	indents        []int
	pendingDedents int
	bracketDepth   int
	atLineStart    bool
	onContentLine  bool
	diags          diagnostic.List
}

// New creates a lexer over source text.
func New(filename, source string) *Lexer {
	return &Lexer{
		filename:    filename,
		src:         source,
		line:        1,
		column:      1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// Tokenize scans the whole input and returns the token stream plus any
// lexical diagnostics. The stream ends with a synthesized Newline (if
// the final line lacks one), balancing Dedent tokens, and one EOF.
func Tokenize(filename, source string) ([]Token, diagnostic.List) {
	l := New(filename, source)
	var tokens []Token
	for {
		tok := l.next()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens, l.diags
}

func (l *Lexer) pos() position.Position {
	return position.Position{Filename: l.filename, Line: l.line, Column: l.column, Offset: l.offset}
}

func (l *Lexer) errorf(pos position.Position, format string, args ...interface{}) {
	l.diags.Add(diagnostic.SyntaxError, position.NewSpan(pos, 1), format, args...)
}

func (l *Lexer) peek() byte {
	if l.offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset]
}

func (l *Lexer) peekAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.offset]
	l.offset++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) next() Token {
	if l.pendingDedents > 0 {
		l.pendingDedents--
		return Token{Type: TokenDedent, Pos: l.pos()}
	}

	if l.atLineStart && l.bracketDepth == 0 {
		if tok, ok := l.handleLineStart(); ok {
			return tok
		}
	}

	l.skipSpaces()

	if l.offset >= len(l.src) {
		return l.finish()
	}

	start := l.pos()
	ch := l.peek()

	switch {
	case ch == '\n':
		l.advance()
		if l.bracketDepth > 0 {
			return l.next()
		}
		l.atLineStart = true
		l.onContentLine = false
		return Token{Type: TokenNewline, Literal: "\n", Pos: start}
	case ch == '#':
		for l.offset < len(l.src) && l.peek() != '\n' {
			l.advance()
		}
		return l.next()
	case isDigit(ch):
		return l.lexNumber()
	case ch == '"' || ch == '\'':
		return l.lexString()
	case isIdentStart(ch):
		return l.lexIdent()
	}

	return l.lexOperator()
}

// handleLineStart measures indentation and synthesizes Indent/Dedent
// tokens. Blank and comment-only lines produce nothing.
func (l *Lexer) handleLineStart() (Token, bool) {
	for {
		lineStart := l.pos()
		width := 0
		for l.offset < len(l.src) {
			ch := l.peek()
			if ch == ' ' {
				width++
				l.advance()
				continue
			}
			if ch == '\t' {
				l.errorf(l.pos(), "tab indentation is not supported; use spaces")
				l.advance()
				width++
				continue
			}
			break
		}
		if l.offset >= len(l.src) {
			l.atLineStart = false
			return Token{}, false
		}
		// Skip blank and comment-only lines entirely.
		if l.peek() == '\n' {
			l.advance()
			continue
		}
		if l.peek() == '#' {
			for l.offset < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}

		l.atLineStart = false
		l.onContentLine = true
		current := l.indents[len(l.indents)-1]
		switch {
		case width > current:
			l.indents = append(l.indents, width)
			return Token{Type: TokenIndent, Pos: lineStart}, true
		case width < current:
			dedents := 0
			for l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				dedents++
			}
			if l.indents[len(l.indents)-1] != width {
				l.errorf(lineStart, "unindent does not match any outer indentation level")
				l.indents = append(l.indents, width)
			}
			l.pendingDedents = dedents - 1
			return Token{Type: TokenDedent, Pos: lineStart}, true
		}
		return Token{}, false
	}
}

// finish synthesizes the end-of-input sequence: a Newline when the
// last content line lacked one, then a Dedent per open block.
func (l *Lexer) finish() Token {
	if l.onContentLine {
		l.onContentLine = false
		return Token{Type: TokenNewline, Pos: l.pos()}
	}
	if len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		return Token{Type: TokenDedent, Pos: l.pos()}
	}
	return Token{Type: TokenEOF, Pos: l.pos()}
}

func (l *Lexer) skipSpaces() {
	for l.offset < len(l.src) && l.peek() == ' ' {
		l.advance()
	}
}

func (l *Lexer) lexNumber() Token {
	start := l.pos()
	begin := l.offset
	for l.offset < len(l.src) && isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance()
		for l.offset < len(l.src) && isDigit(l.peek()) {
			l.advance()
		}
	}
	lit := l.src[begin:l.offset]
	if isFloat {
		return Token{Type: TokenFloat, Literal: lit, Pos: start}
	}
	return Token{Type: TokenInt, Literal: lit, Pos: start}
}

func (l *Lexer) lexString() Token {
	start := l.pos()
	quote := l.advance()
	var out []byte
	for {
		if l.offset >= len(l.src) || l.peek() == '\n' {
			l.errorf(start, "unterminated string literal")
			break
		}
		ch := l.advance()
		if ch == quote {
			break
		}
		if ch == '\\' && l.offset < len(l.src) {
			esc := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\', '"', '\'':
				out = append(out, esc)
			default:
				l.errorf(start, "unsupported escape sequence '\\%c'", esc)
			}
			continue
		}
		out = append(out, ch)
	}
	return Token{Type: TokenString, Literal: string(out), Pos: start}
}

func (l *Lexer) lexIdent() Token {
	start := l.pos()
	begin := l.offset
	for l.offset < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	lit := l.src[begin:l.offset]
	if kw, ok := keywords[lit]; ok {
		return Token{Type: kw, Literal: lit, Pos: start}
	}
	return Token{Type: TokenIdent, Literal: lit, Pos: start}
}

func (l *Lexer) lexOperator() Token {
	start := l.pos()
	ch := l.advance()
	two := func(t TokenType, lit string) Token {
		l.advance()
		return Token{Type: t, Literal: lit, Pos: start}
	}
	switch ch {
	case '+':
		return Token{Type: TokenPlus, Literal: "+", Pos: start}
	case '-':
		return Token{Type: TokenMinus, Literal: "-", Pos: start}
	case '*':
		return Token{Type: TokenStar, Literal: "*", Pos: start}
	case '/':
		return Token{Type: TokenSlash, Literal: "/", Pos: start}
	case '=':
		if l.peek() == '=' {
			return two(TokenEq, "==")
		}
		return Token{Type: TokenAssign, Literal: "=", Pos: start}
	case '!':
		if l.peek() == '=' {
			return two(TokenNe, "!=")
		}
	case '<':
		if l.peek() == '=' {
			return two(TokenLe, "<=")
		}
		return Token{Type: TokenLt, Literal: "<", Pos: start}
	case '>':
		if l.peek() == '=' {
			return two(TokenGe, ">=")
		}
		return Token{Type: TokenGt, Literal: ">", Pos: start}
	case ':':
		return Token{Type: TokenColon, Literal: ":", Pos: start}
	case ',':
		return Token{Type: TokenComma, Literal: ",", Pos: start}
	case '.':
		return Token{Type: TokenDot, Literal: ".", Pos: start}
	case '(':
		l.bracketDepth++
		return Token{Type: TokenLParen, Literal: "(", Pos: start}
	case ')':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		return Token{Type: TokenRParen, Literal: ")", Pos: start}
	case '[':
		l.bracketDepth++
		return Token{Type: TokenLBracket, Literal: "[", Pos: start}
	case ']':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		return Token{Type: TokenRBracket, Literal: "]", Pos: start}
	}
	l.errorf(start, "unexpected character %q", ch)
	return l.next()
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }
