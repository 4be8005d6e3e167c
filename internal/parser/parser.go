// Package parser implements a recursive-descent parser for the
// Phoenix surface language, turning the lexer's token stream into the
// immutable AST consumed by the verifier.
//
// The parser is deliberately permissive about constructs the verifier
// rejects with a dedicated rule (while loops, elif, arbitrary
// iterables in for): it parses them into nodes so the verifier can
// report the precise zero-ambiguity violation instead of a generic
// syntax error.
package parser

import (
	"errors"
	"strconv"

	"github.com/phoenix-lang/phoenix/internal/ast"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/lexer"
	"github.com/phoenix-lang/phoenix/internal/types"
)

// errSyntax signals an already-reported syntax error; the statement
// loop recovers by skipping to the next line.
var errSyntax = errors.New("syntax error")

// Parser parses one token stream into a Program.
type Parser struct {
	tokens []lexer.Token
	pos    int
	depth  int // function nesting depth
	diags  diagnostic.List
}

// Parse tokenizes and parses source text. A non-empty diagnostic list
// means the returned program is incomplete and must not be verified.
func Parse(filename, source string) (*ast.Program, diagnostic.List) {
	tokens, diags := lexer.Tokenize(filename, source)
	if diags.HasErrors() {
		return nil, diags
	}
	p := &Parser{tokens: tokens}
	prog := p.parseProgram()
	return prog, p.diags
}

func (p *Parser) peek() lexer.Token    { return p.tokens[p.pos] }
func (p *Parser) advance() lexer.Token { t := p.tokens[p.pos]; p.pos++; return t }

func (p *Parser) at(tt lexer.TokenType) bool { return p.peek().Type == tt }

func (p *Parser) accept(tt lexer.TokenType) (lexer.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if tok, ok := p.accept(tt); ok {
		return tok, nil
	}
	return lexer.Token{}, p.errf(p.peek(), "expected %s, found %s", tt, p.describe(p.peek()))
}

func (p *Parser) describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenEOF:
		return "end of file"
	case lexer.TokenNewline:
		return "end of line"
	case lexer.TokenIndent:
		return "indent"
	case lexer.TokenDedent:
		return "dedent"
	case lexer.TokenIdent, lexer.TokenInt, lexer.TokenFloat:
		return "'" + tok.Literal + "'"
	case lexer.TokenString:
		return "string literal"
	default:
		return "'" + tok.Type.String() + "'"
	}
}

func (p *Parser) errf(tok lexer.Token, format string, args ...interface{}) error {
	p.diags.Add(diagnostic.SyntaxError, tok.Span(), format, args...)
	return errSyntax
}

// syncLine skips tokens up to and including the next newline (or a
// dedent/EOF) so one malformed statement produces one diagnostic.
func (p *Parser) syncLine() {
	for {
		switch p.peek().Type {
		case lexer.TokenEOF, lexer.TokenDedent:
			return
		case lexer.TokenNewline:
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(lexer.TokenEOF) {
		if _, ok := p.accept(lexer.TokenNewline); ok {
			continue
		}
		// A suite header that failed before its body was parsed leaves
		// the body's INDENT/DEDENT pair at the top level. Consume them
		// here so recovery always makes progress; the header already
		// carries the diagnostic, a genuinely indented line gets its own.
		if tok, ok := p.accept(lexer.TokenIndent); ok {
			p.errf(tok, "unexpected indent")
			continue
		}
		if _, ok := p.accept(lexer.TokenDedent); ok {
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			p.syncLine()
			continue
		}
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
	}
	if len(prog.Body) > 0 {
		prog.SpanV = prog.Body[0].Span().Union(prog.Body[len(prog.Body)-1].Span())
	}
	return prog
}

// parseStatement parses one statement. A nil statement with nil error
// is a consumed no-op (`pass`).
func (p *Parser) parseStatement() (ast.Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenDef:
		return p.parseFunctionDef()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenIf:
		return p.parseIf(false)
	case lexer.TokenElif:
		return nil, p.errf(tok, "'elif' without a leading 'if'")
	case lexer.TokenElse:
		return nil, p.errf(tok, "'else' without a leading 'if'")
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenImport:
		return p.parseImport()
	case lexer.TokenPass:
		p.advance()
		if _, err := p.expect(lexer.TokenNewline); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return p.parseSimpleStatement()
}

func (p *Parser) parseFunctionDef() (ast.Stmt, error) {
	def := p.advance()
	if p.depth > 0 {
		return nil, p.errf(def, "nested function definitions are not supported")
	}
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for !p.at(lexer.TokenRParen) {
		if len(params) > 0 {
			if _, err := p.expect(lexer.TokenComma); err != nil {
				return nil, err
			}
		}
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	p.advance() // ')'

	p.depth++
	body, err := p.parseSuite()
	p.depth--
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{
		SpanV:  name.Span(),
		Name:   name.Literal,
		Params: params,
		Body:   body,
	}, nil
}

// parseParam parses `name: type`. Parameters carry declared types;
// nothing is inferred from call sites.
func (p *Parser) parseParam() (*ast.Param, error) {
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, p.errf(name, "parameter '%s' needs a declared type, e.g. '%s: int'", name.Literal, name.Literal)
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.Param{SpanV: name.Span(), Name: name.Literal, Type: t}, nil
}

// parseType parses the closed type grammar:
// int | float | bool | str | list[<type>, <length>].
func (p *Parser) parseType() (types.Type, error) {
	tok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return types.Type{}, err
	}
	switch tok.Literal {
	case "int":
		return types.Int, nil
	case "float":
		return types.Float, nil
	case "bool":
		return types.Bool, nil
	case "str":
		return types.String, nil
	case "list":
		if _, err := p.expect(lexer.TokenLBracket); err != nil {
			return types.Type{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return types.Type{}, err
		}
		if _, err := p.expect(lexer.TokenComma); err != nil {
			return types.Type{}, p.errf(tok, "list types are fixed-length: list[%s, <length>]", elem)
		}
		lenTok, err := p.expect(lexer.TokenInt)
		if err != nil {
			return types.Type{}, err
		}
		length, _ := strconv.Atoi(lenTok.Literal)
		if _, err := p.expect(lexer.TokenRBracket); err != nil {
			return types.Type{}, err
		}
		return types.ListOf(elem, length), nil
	}
	return types.Type{}, p.errf(tok, "unknown type '%s'", tok.Literal)
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	forTok := p.advance()
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIn); err != nil {
		return nil, err
	}
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &ast.ForRange{SpanV: forTok.Span(), Var: name.Literal, Iter: iter, Body: body}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	whileTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &ast.While{SpanV: whileTok.Span(), Cond: cond, Body: body}, nil
}

func (p *Parser) parseIf(isElif bool) (ast.Stmt, error) {
	ifTok := p.advance() // 'if' or 'elif'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	node := &ast.IfElse{SpanV: ifTok.Span(), Cond: cond, Then: then, Elif: isElif}

	switch p.peek().Type {
	case lexer.TokenElif:
		nested, err := p.parseIf(true)
		if err != nil {
			return nil, err
		}
		node.Else = []ast.Stmt{nested}
		node.HasElse = true
	case lexer.TokenElse:
		p.advance()
		elseBody, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		node.Else = elseBody
		node.HasElse = true
	}
	return node, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	retTok := p.advance()
	if p.depth == 0 {
		return nil, p.errf(retTok, "'return' outside of a function")
	}
	ret := &ast.Return{SpanV: retTok.Span()}
	if !p.at(lexer.TokenNewline) {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}
	if _, err := p.expect(lexer.TokenNewline); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	impTok := p.advance()
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenNewline); err != nil {
		return nil, err
	}
	return &ast.Import{SpanV: impTok.Span(), Module: name.Literal}, nil
}

// parseSimpleStatement parses an assignment, index assignment, or
// expression statement terminated by a newline.
func (p *Parser) parseSimpleStatement() (ast.Stmt, error) {
	start := p.peek()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var stmt ast.Stmt
	if _, ok := p.accept(lexer.TokenAssign); ok {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.Name:
			stmt = &ast.Assign{SpanV: start.Span(), Name: target.Ident, Value: value}
		case *ast.Index:
			stmt = &ast.IndexAssign{SpanV: start.Span(), Target: target, Value: value}
		default:
			return nil, p.errf(start, "cannot assign to this expression")
		}
	} else {
		stmt = &ast.ExprStmt{SpanV: expr.Span(), X: expr}
	}

	if _, err := p.expect(lexer.TokenNewline); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseSuite parses `: NEWLINE INDENT stmt+ DEDENT`. `pass` lines are
// consumed and contribute no statements, so `else: pass` yields an
// empty body.
func (p *Parser) parseSuite() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenNewline); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIndent); err != nil {
		return nil, err
	}
	var body []ast.Stmt
	for !p.at(lexer.TokenDedent) && !p.at(lexer.TokenEOF) {
		if _, ok := p.accept(lexer.TokenNewline); ok {
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			p.syncLine()
			continue
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	p.accept(lexer.TokenDedent)
	return body, nil
}
