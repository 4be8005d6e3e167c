// Package ast defines the Abstract Syntax Tree nodes for the Phoenix
// surface language. The node set is a closed tagged variant: every
// consumer (verifier, code generator) switches exhaustively over it,
// so adding a construct forces every consumer to be updated rather
// than silently skipped.
//
// Trees are produced once by the parser, owned by their parent node,
// and never mutated afterwards. All position information comes from
// the position package.
package ast

import (
	"fmt"
	"strings"

	"github.com/phoenix-lang/phoenix/internal/position"
	"github.com/phoenix-lang/phoenix/internal/types"
)

// Node is the base interface for all AST nodes. Every node carries the
// source span it was parsed from, for error reporting.
type Node interface {
	Span() position.Span
	String() string
}

// Stmt represents all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// ===== Program structure =====

// Program is the root of the AST: one complete Phoenix source file.
// Body holds the top-level statements, including function definitions,
// in declaration order.
type Program struct {
	SpanV position.Span
	Body  []Stmt
}

func (p *Program) Span() position.Span { return p.SpanV }
func (p *Program) String() string {
	parts := make([]string, 0, len(p.Body))
	for _, s := range p.Body {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

// ===== Statements =====

// Param is a function parameter with its declared type. Parameters
// carry types directly; nothing is inferred from call sites.
type Param struct {
	SpanV position.Span
	Name  string
	Type  types.Type
}

func (p *Param) Span() position.Span { return p.SpanV }
func (p *Param) String() string      { return fmt.Sprintf("%s: %s", p.Name, p.Type) }

// FunctionDef is a function definition. The return type is not
// declared; it is the unifier's join over the body's return
// statements.
type FunctionDef struct {
	SpanV  position.Span
	Name   string
	Params []*Param
	Body   []Stmt
}

func (f *FunctionDef) Span() position.Span { return f.SpanV }
func (f *FunctionDef) stmtNode()           {}
func (f *FunctionDef) String() string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	return fmt.Sprintf("def %s(%s)", f.Name, strings.Join(params, ", "))
}

// Assign is a plain assignment to a name: `x = expr`.
type Assign struct {
	SpanV position.Span
	Name  string
	Value Expr
}

func (a *Assign) Span() position.Span { return a.SpanV }
func (a *Assign) stmtNode()           {}
func (a *Assign) String() string      { return fmt.Sprintf("%s = %s", a.Name, a.Value) }

// IndexAssign is an assignment through a list index: `a[i] = expr`.
type IndexAssign struct {
	SpanV  position.Span
	Target *Index
	Value  Expr
}

func (a *IndexAssign) Span() position.Span { return a.SpanV }
func (a *IndexAssign) stmtNode()           {}
func (a *IndexAssign) String() string      { return fmt.Sprintf("%s = %s", a.Target, a.Value) }

// ForRange is a `for <name> in <iterable>:` loop. The parser accepts
// any iterable expression; the verifier accepts only
// `range(<non-negative integer literal>)` and reports everything else
// as a non-static loop bound.
type ForRange struct {
	SpanV position.Span
	Var   string
	Iter  Expr
	Body  []Stmt
}

func (f *ForRange) Span() position.Span { return f.SpanV }
func (f *ForRange) stmtNode()           {}
func (f *ForRange) String() string      { return fmt.Sprintf("for %s in %s", f.Var, f.Iter) }

// While is parsed so the verifier can reject it with a precise
// location; it is never accepted.
type While struct {
	SpanV position.Span
	Cond  Expr
	Body  []Stmt
}

func (w *While) Span() position.Span { return w.SpanV }
func (w *While) stmtNode()           {}
func (w *While) String() string      { return fmt.Sprintf("while %s", w.Cond) }

// IfElse is a binary conditional. Elif marks a node that was written
// with the `elif` keyword, which v0 rejects. HasElse distinguishes a
// missing else from `else: pass`, which parses to an empty body.
type IfElse struct {
	SpanV   position.Span
	Cond    Expr
	Then    []Stmt
	Else    []Stmt
	HasElse bool
	Elif    bool
}

func (i *IfElse) Span() position.Span { return i.SpanV }
func (i *IfElse) stmtNode()           {}
func (i *IfElse) String() string      { return fmt.Sprintf("if %s", i.Cond) }

// Return is a return statement; Value is nil for a bare `return`.
type Return struct {
	SpanV position.Span
	Value Expr
}

func (r *Return) Span() position.Span { return r.SpanV }
func (r *Return) stmtNode()           {}
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value)
}

// ExprStmt is an expression evaluated for effect, e.g. `print(x)`.
type ExprStmt struct {
	SpanV position.Span
	X     Expr
}

func (e *ExprStmt) Span() position.Span { return e.SpanV }
func (e *ExprStmt) stmtNode()           {}
func (e *ExprStmt) String() string      { return e.X.String() }

// Import is a module import. Only `import math` is accepted; the
// verifier's forbidden-construct scan rejects everything else.
type Import struct {
	SpanV  position.Span
	Module string
}

func (i *Import) Span() position.Span { return i.SpanV }
func (i *Import) stmtNode()           {}
func (i *Import) String() string      { return "import " + i.Module }

// ===== Expressions =====

// IntLit is an integer literal.
type IntLit struct {
	SpanV position.Span
	Value int
}

func (l *IntLit) Span() position.Span { return l.SpanV }
func (l *IntLit) exprNode()           {}
func (l *IntLit) String() string      { return fmt.Sprintf("%d", l.Value) }

// FloatLit is a float literal. Raw preserves the source spelling so
// code generation is byte-stable regardless of float formatting.
type FloatLit struct {
	SpanV position.Span
	Raw   string
}

func (l *FloatLit) Span() position.Span { return l.SpanV }
func (l *FloatLit) exprNode()           {}
func (l *FloatLit) String() string      { return l.Raw }

// BoolLit is `True` or `False`.
type BoolLit struct {
	SpanV position.Span
	Value bool
}

func (l *BoolLit) Span() position.Span { return l.SpanV }
func (l *BoolLit) exprNode()           {}
func (l *BoolLit) String() string {
	if l.Value {
		return "True"
	}
	return "False"
}

// StringLit is a string literal; Value is the unquoted text.
type StringLit struct {
	SpanV position.Span
	Value string
}

func (l *StringLit) Span() position.Span { return l.SpanV }
func (l *StringLit) exprNode()           {}
func (l *StringLit) String() string      { return fmt.Sprintf("%q", l.Value) }

// Name is a variable reference.
type Name struct {
	SpanV position.Span
	Ident string
}

func (n *Name) Span() position.Span { return n.SpanV }
func (n *Name) exprNode()           {}
func (n *Name) String() string      { return n.Ident }

// Op enumerates binary and comparison operators.
type Op int

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// String returns the surface spelling of the operator, which is also
// its C spelling.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// IsComparison reports whether op yields a bool.
func (op Op) IsComparison() bool { return op >= OpEq }

// BinaryOp is an arithmetic expression over two operands.
type BinaryOp struct {
	SpanV position.Span
	Op    Op
	Left  Expr
	Right Expr
}

func (b *BinaryOp) Span() position.Span { return b.SpanV }
func (b *BinaryOp) exprNode()           {}
func (b *BinaryOp) String() string      { return fmt.Sprintf("%s %s %s", b.Left, b.Op, b.Right) }

// Compare is a single (unchained) comparison.
type Compare struct {
	SpanV position.Span
	Op    Op
	Left  Expr
	Right Expr
}

func (c *Compare) Span() position.Span { return c.SpanV }
func (c *Compare) exprNode()           {}
func (c *Compare) String() string      { return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right) }

// ListLit is a fixed-length list literal.
type ListLit struct {
	SpanV position.Span
	Elems []Expr
}

func (l *ListLit) Span() position.Span { return l.SpanV }
func (l *ListLit) exprNode()           {}
func (l *ListLit) String() string {
	parts := make([]string, 0, len(l.Elems))
	for _, e := range l.Elems {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Index is a list element access `a[i]`.
type Index struct {
	SpanV position.Span
	X     Expr
	Idx   Expr
}

func (i *Index) Span() position.Span { return i.SpanV }
func (i *Index) exprNode()           {}
func (i *Index) String() string      { return fmt.Sprintf("%s[%s]", i.X, i.Idx) }

// Call is a function or builtin call. Module is the optional
// qualifier, e.g. "math" in `math.sqrt(x)`; empty for plain calls.
type Call struct {
	SpanV  position.Span
	Module string
	Func   string
	Args   []Expr
}

func (c *Call) Span() position.Span { return c.SpanV }
func (c *Call) exprNode()           {}
func (c *Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s(%s)", c.Target(), strings.Join(args, ", "))
}

// Target returns the dotted callee name.
func (c *Call) Target() string {
	if c.Module != "" {
		return c.Module + "." + c.Func
	}
	return c.Func
}
