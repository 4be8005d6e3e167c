package parser

import (
	"strconv"

	"github.com/phoenix-lang/phoenix/internal/ast"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/lexer"
)

var comparisonOps = map[lexer.TokenType]ast.Op{
	lexer.TokenEq: ast.OpEq,
	lexer.TokenNe: ast.OpNe,
	lexer.TokenLt: ast.OpLt,
	lexer.TokenLe: ast.OpLe,
	lexer.TokenGt: ast.OpGt,
	lexer.TokenGe: ast.OpGe,
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseComparison()
}

// parseComparison parses at most one comparison; chains like a < b < c
// have no unambiguous single-pass lowering and are rejected outright.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.peek().Type]
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	if _, chained := comparisonOps[p.peek().Type]; chained {
		p.diags.Add(diagnostic.UnsupportedConstructError, p.peek().Span(),
			"chained comparisons are not supported")
		return nil, errSyntax
	}
	return &ast.Compare{
		SpanV: left.Span().Union(right.Span()),
		Op:    op,
		Left:  left,
		Right: right,
	}, nil
}

func (p *Parser) parseArith() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.peek().Type {
		case lexer.TokenPlus:
			op = ast.OpAdd
		case lexer.TokenMinus:
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{SpanV: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.peek().Type {
		case lexer.TokenStar:
			op = ast.OpMul
		case lexer.TokenSlash:
			op = ast.OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{SpanV: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
}

// parseUnary folds a leading minus into the numeric literal it
// precedes. Unary minus on anything else has no node in the closed
// AST set and is a syntax error.
func (p *Parser) parseUnary() (ast.Expr, error) {
	minus, ok := p.accept(lexer.TokenMinus)
	if !ok {
		return p.parsePostfix()
	}
	switch tok := p.peek(); tok.Type {
	case lexer.TokenInt:
		p.advance()
		value, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, p.errf(tok, "integer literal out of range")
		}
		return &ast.IntLit{SpanV: minus.Span().Union(tok.Span()), Value: -value}, nil
	case lexer.TokenFloat:
		p.advance()
		return &ast.FloatLit{SpanV: minus.Span().Union(tok.Span()), Raw: "-" + tok.Literal}, nil
	}
	return nil, p.errf(minus, "unary minus is only supported on numeric literals")
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(lexer.TokenLBracket); !ok {
			return expr, nil
		}
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(lexer.TokenRBracket)
		if err != nil {
			return nil, err
		}
		expr = &ast.Index{SpanV: expr.Span().Union(closeTok.Span()), X: expr, Idx: idx}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenInt:
		p.advance()
		value, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, p.errf(tok, "integer literal out of range")
		}
		return &ast.IntLit{SpanV: tok.Span(), Value: value}, nil

	case lexer.TokenFloat:
		p.advance()
		return &ast.FloatLit{SpanV: tok.Span(), Raw: tok.Literal}, nil

	case lexer.TokenString:
		p.advance()
		return &ast.StringLit{SpanV: tok.Span(), Value: tok.Literal}, nil

	case lexer.TokenTrue:
		p.advance()
		return &ast.BoolLit{SpanV: tok.Span(), Value: true}, nil

	case lexer.TokenFalse:
		p.advance()
		return &ast.BoolLit{SpanV: tok.Span(), Value: false}, nil

	case lexer.TokenIdent:
		return p.parseNameOrCall()

	case lexer.TokenLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.TokenLBracket:
		return p.parseListLit()
	}
	return nil, p.errf(tok, "expected an expression, found %s", p.describe(tok))
}

// parseNameOrCall parses a variable reference, a call, or a qualified
// call like math.sqrt(x). Attribute access exists only as a call
// target; the language has no attribute values.
func (p *Parser) parseNameOrCall() (ast.Expr, error) {
	name := p.advance()
	module := ""
	funcName := name.Literal

	if _, ok := p.accept(lexer.TokenDot); ok {
		attr, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		if !p.at(lexer.TokenLParen) {
			return nil, p.errf(name, "attribute access is only supported as a call, e.g. math.sqrt(x)")
		}
		module = name.Literal
		funcName = attr.Literal
	}

	if !p.at(lexer.TokenLParen) {
		return &ast.Name{SpanV: name.Span(), Ident: name.Literal}, nil
	}

	p.advance() // '('
	var args []ast.Expr
	for !p.at(lexer.TokenRParen) {
		if len(args) > 0 {
			if _, err := p.expect(lexer.TokenComma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	closeTok := p.advance() // ')'

	return &ast.Call{
		SpanV:  name.Span().Union(closeTok.Span()),
		Module: module,
		Func:   funcName,
		Args:   args,
	}, nil
}

// parseListLit parses a fixed-length list literal. The empty literal
// has no element type and therefore no place in the type system.
func (p *Parser) parseListLit() (ast.Expr, error) {
	open := p.advance()
	var elems []ast.Expr
	for !p.at(lexer.TokenRBracket) {
		if len(elems) > 0 {
			if _, err := p.expect(lexer.TokenComma); err != nil {
				return nil, err
			}
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	closeTok := p.advance() // ']'
	if len(elems) == 0 {
		return nil, p.errf(open, "empty list literals are not supported; lists have a fixed element type and length")
	}
	return &ast.ListLit{SpanV: open.Span().Union(closeTok.Span()), Elems: elems}, nil
}
