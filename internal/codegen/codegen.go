// Package codegen lowers a verified program to C11 source text.
//
// It consumes the verifier's output exclusively: by the time a program
// reaches this package every rule has been proven, so emission is a
// mechanical, total mapping with no failure path. The same verified
// program always produces byte-identical output; headers are sorted,
// statements follow declaration order, and float literals keep their
// source spelling.
package codegen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/phoenix-lang/phoenix/internal/types"
	"github.com/phoenix-lang/phoenix/internal/verifier"
)

// Output is the generated translation unit.
type Output struct {
	Source  string   // complete C source, includes first
	Headers []string // sorted includes, e.g. "<stdio.h>"
}

// NeedsMath reports whether the program links against libm.
func (o Output) NeedsMath() bool {
	for _, h := range o.Headers {
		if h == "<math.h>" {
			return true
		}
	}
	return false
}

// Generate lowers prog to C. prog must come from a successful
// verification; Generate trusts every invariant the verifier enforces.
func Generate(prog *verifier.VerifiedProgram) Output {
	e := &emitter{headers: map[string]bool{}}
	e.collectProgram(prog)

	headers := make([]string, 0, len(e.headers))
	for h := range e.headers {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	for _, h := range headers {
		e.line("#include " + h)
	}
	if len(headers) > 0 {
		e.line("")
	}

	for _, fn := range prog.Functions {
		e.function(fn)
		e.line("")
	}

	e.declared = map[string]bool{}
	e.line("int main(void) {")
	e.indent++
	for _, s := range prog.Body {
		e.stmt(s)
	}
	e.line("return 0;")
	e.indent--
	e.line("}")

	return Output{Source: e.buf.String(), Headers: headers}
}

type emitter struct {
	buf      strings.Builder
	indent   int
	declared map[string]bool // names declared in the current function
	headers  map[string]bool
}

func (e *emitter) line(s string) {
	if s != "" {
		for i := 0; i < e.indent; i++ {
			e.buf.WriteString("    ")
		}
		e.buf.WriteString(s)
	}
	e.buf.WriteByte('\n')
}

// ===== header collection =====

func (e *emitter) collectProgram(prog *verifier.VerifiedProgram) {
	for _, fn := range prog.Functions {
		for _, p := range fn.Params {
			e.collectType(p.Type)
		}
		e.collectType(fn.Result)
		e.collectStmts(fn.Body)
	}
	e.collectStmts(prog.Body)
}

func (e *emitter) collectStmts(body []verifier.VerifiedStmt) {
	for _, s := range body {
		switch node := s.(type) {
		case *verifier.VAssign:
			e.collectType(node.Type)
			e.collectExpr(node.Value)
		case *verifier.VIndexAssign:
			e.collectExpr(node.Target)
			e.collectExpr(node.Value)
		case *verifier.VFor:
			e.collectStmts(node.Body)
		case *verifier.VIf:
			e.collectExpr(node.Cond)
			e.collectStmts(node.Then)
			e.collectStmts(node.Else)
		case *verifier.VReturn:
			if node.Value != nil {
				e.collectExpr(node.Value)
			}
		case *verifier.VExprStmt:
			e.collectExpr(node.X)
		}
	}
}

func (e *emitter) collectExpr(x verifier.VerifiedExpr) {
	e.collectType(x.Type())
	switch node := x.(type) {
	case *verifier.VBinary:
		e.collectExpr(node.Left)
		e.collectExpr(node.Right)
	case *verifier.VCompare:
		e.collectExpr(node.Left)
		e.collectExpr(node.Right)
	case *verifier.VList:
		for _, el := range node.Elems {
			e.collectExpr(el)
		}
	case *verifier.VIndex:
		e.collectExpr(node.X)
		e.collectExpr(node.Idx)
	case *verifier.VCall:
		if node.Builtin != nil && node.Builtin.Header != "" {
			e.headers[node.Builtin.Header] = true
		}
		for _, a := range node.Args {
			e.collectExpr(a)
		}
	}
}

func (e *emitter) collectType(t types.Type) {
	if t.Kind == types.KindBool {
		e.headers["<stdbool.h>"] = true
	}
	if t.Kind == types.KindList {
		e.collectType(*t.Elem)
	}
}

// ===== functions =====

func (e *emitter) function(fn *verifier.VerifiedFunction) {
	e.declared = map[string]bool{}
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, cDecl(p.Name, p.Type))
		e.declared[p.Name] = true
	}
	sig := "void"
	if len(params) > 0 {
		sig = strings.Join(params, ", ")
	}
	e.line(cType(fn.Result) + " " + fn.Name + "(" + sig + ") {")
	e.indent++
	for _, s := range fn.Body {
		e.stmt(s)
	}
	e.indent--
	e.line("}")
}

// ===== statements =====

func (e *emitter) stmt(s verifier.VerifiedStmt) {
	switch node := s.(type) {
	case *verifier.VAssign:
		e.assign(node)
	case *verifier.VIndexAssign:
		e.line(e.expr(node.Target) + " = " + e.expr(node.Value) + ";")
	case *verifier.VFor:
		e.forLoop(node)
	case *verifier.VIf:
		e.ifStmt(node)
	case *verifier.VReturn:
		if node.Value == nil {
			e.line("return;")
		} else {
			e.line("return " + e.expr(node.Value) + ";")
		}
	case *verifier.VExprStmt:
		e.exprStmt(node)
	}
}

func (e *emitter) assign(node *verifier.VAssign) {
	if node.Type.Kind == types.KindList {
		// Lists are always freshly constructed from a literal.
		lit := node.Value.(*verifier.VList)
		elems := make([]string, 0, len(lit.Elems))
		for _, el := range lit.Elems {
			elems = append(elems, e.expr(el))
		}
		e.line(cDecl(node.Name, node.Type) + " = {" + strings.Join(elems, ", ") + "};")
		e.declared[node.Name] = true
		return
	}
	rhs := e.expr(node.Value)
	if e.declared[node.Name] {
		e.line(node.Name + " = " + rhs + ";")
		return
	}
	e.line(cDecl(node.Name, node.Type) + " = " + rhs + ";")
	e.declared[node.Name] = true
}

// hoist declares, ahead of a compound statement, every name whose
// first assignment happens inside it. The verifier binds such names in
// the enclosing scope, so their C declarations must sit outside the
// block for later uses to stay in scope. Only scalars can appear here;
// list construction inside branches and loop bodies is refused upstream.
func (e *emitter) hoist(body []verifier.VerifiedStmt) {
	for _, s := range body {
		switch node := s.(type) {
		case *verifier.VAssign:
			if !e.declared[node.Name] {
				e.line(cDecl(node.Name, node.Type) + ";")
				e.declared[node.Name] = true
			}
		case *verifier.VFor:
			e.hoist(node.Body)
		case *verifier.VIf:
			e.hoist(node.Then)
			e.hoist(node.Else)
		}
	}
}

func (e *emitter) forLoop(node *verifier.VFor) {
	e.hoist(node.Body)
	v, bound := node.Var, strconv.Itoa(node.Bound)
	if e.declared[v] {
		e.line("for (" + v + " = 0; " + v + " < " + bound + "; " + v + "++) {")
	} else {
		e.line("for (int " + v + " = 0; " + v + " < " + bound + "; " + v + "++) {")
	}
	e.indent++
	for _, s := range node.Body {
		e.stmt(s)
	}
	e.indent--
	e.line("}")
}

func (e *emitter) ifStmt(node *verifier.VIf) {
	e.hoist(node.Then)
	e.hoist(node.Else)
	e.line("if (" + e.expr(node.Cond) + ") {")
	e.indent++
	for _, s := range node.Then {
		e.stmt(s)
	}
	e.indent--
	if !node.HasElse {
		e.line("}")
		return
	}
	e.line("} else {")
	e.indent++
	for _, s := range node.Else {
		e.stmt(s)
	}
	e.indent--
	e.line("}")
}

func (e *emitter) exprStmt(node *verifier.VExprStmt) {
	if call, ok := node.X.(*verifier.VCall); ok && call.Builtin != nil && call.Builtin.Name == "print" {
		arg := call.Args[0]
		format := printfFormat(arg.Type())
		e.line(`printf("` + format + `\n", ` + e.expr(arg) + ");")
		return
	}
	e.line(e.expr(node.X) + ";")
}

// ===== expressions =====

func (e *emitter) expr(x verifier.VerifiedExpr) string {
	switch node := x.(type) {
	case *verifier.VIntLit:
		return strconv.Itoa(node.Value)
	case *verifier.VFloatLit:
		return node.Raw
	case *verifier.VBoolLit:
		if node.Value {
			return "true"
		}
		return "false"
	case *verifier.VStringLit:
		return cQuote(node.Value)
	case *verifier.VName:
		return node.Name
	case *verifier.VBinary:
		return e.operand(node.Left) + " " + node.Op.String() + " " + e.operand(node.Right)
	case *verifier.VCompare:
		return e.operand(node.Left) + " " + node.Op.String() + " " + e.operand(node.Right)
	case *verifier.VList:
		return e.compoundLiteral(node)
	case *verifier.VIndex:
		return e.expr(node.X) + "[" + e.expr(node.Idx) + "]"
	case *verifier.VCall:
		return e.call(node)
	}
	return "0"
}

// operand renders a sub-expression of a binary operator, adding
// parentheses around nested operators so the source grouping survives
// C precedence.
func (e *emitter) operand(x verifier.VerifiedExpr) string {
	switch x.(type) {
	case *verifier.VBinary, *verifier.VCompare:
		return "(" + e.expr(x) + ")"
	}
	return e.expr(x)
}

// compoundLiteral renders a list literal used as a value, e.g. a list
// argument: (int[3]){1, 2, 3}.
func (e *emitter) compoundLiteral(node *verifier.VList) string {
	elems := make([]string, 0, len(node.Elems))
	for _, el := range node.Elems {
		elems = append(elems, e.expr(el))
	}
	t := node.Typ
	return "(" + cType(*t.Elem) + "[" + strconv.Itoa(t.Length) + "]){" + strings.Join(elems, ", ") + "}"
}

func (e *emitter) call(node *verifier.VCall) string {
	args := make([]string, 0, len(node.Args))
	for _, a := range node.Args {
		args = append(args, e.expr(a))
	}
	joined := strings.Join(args, ", ")
	if node.Builtin == nil {
		return node.Func + "(" + joined + ")"
	}
	switch node.Builtin.Name {
	case "int":
		return "(int)(" + joined + ")"
	case "math.sqrt":
		return "sqrt(" + joined + ")"
	}
	return node.Func + "(" + joined + ")"
}
