package verifier

import (
	"github.com/phoenix-lang/phoenix/internal/ast"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/types"
)

// typeExpr infers an expression's type and builds its verified form.
// A false result means a diagnostic was already emitted for this
// subtree; callers skip dependent checks so one root cause yields one
// report instead of a cascade.
func (v *Verifier) typeExpr(expr ast.Expr, scope *Scope) (VerifiedExpr, bool) {
	switch node := expr.(type) {
	case *ast.IntLit:
		return &VIntLit{Value: node.Value}, true
	case *ast.FloatLit:
		return &VFloatLit{Raw: node.Raw}, true
	case *ast.BoolLit:
		return &VBoolLit{Value: node.Value}, true
	case *ast.StringLit:
		return &VStringLit{Value: node.Value}, true
	case *ast.Name:
		return v.typeName(node, scope)
	case *ast.BinaryOp:
		return v.typeBinary(node, scope)
	case *ast.Compare:
		return v.typeCompare(node, scope)
	case *ast.ListLit:
		return v.typeList(node, scope)
	case *ast.Index:
		return v.typeIndex(node, scope)
	case *ast.Call:
		return v.typeCall(node, scope)
	}
	return nil, false
}

func (v *Verifier) typeName(node *ast.Name, scope *Scope) (VerifiedExpr, bool) {
	t, ok := scope.Lookup(node.Ident)
	if !ok {
		if _, isFunc := v.funcs[node.Ident]; isFunc {
			v.diags.Add(diagnostic.UndefinedVariableError, node.Span(),
				"'%s' is a function and can only be called", node.Ident)
			return nil, false
		}
		v.diags.Add(diagnostic.UndefinedVariableError, node.Span(),
			"Variable '%s' is not defined", node.Ident)
		return nil, false
	}
	return &VName{Name: node.Ident, Typ: t}, true
}

// typeBinary types an arithmetic expression. Operand types must match
// exactly: there is no implicit int/float promotion anywhere, so a
// mixed expression is a type mismatch rather than a silent widening.
func (v *Verifier) typeBinary(node *ast.BinaryOp, scope *Scope) (VerifiedExpr, bool) {
	left, okL := v.typeExpr(node.Left, scope)
	right, okR := v.typeExpr(node.Right, scope)
	if !okL || !okR {
		return nil, false
	}
	lt, rt := left.Type(), right.Type()
	if !lt.Equal(rt) {
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"operator '%s' requires matching operand types, found %s and %s (int and float are never mixed implicitly)",
			node.Op, lt, rt)
		return nil, false
	}
	if !lt.IsNumeric() {
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"operator '%s' is not defined for %s", node.Op, lt)
		return nil, false
	}
	return &VBinary{Op: node.Op, Left: left, Right: right, Typ: lt}, true
}

func (v *Verifier) typeCompare(node *ast.Compare, scope *Scope) (VerifiedExpr, bool) {
	left, okL := v.typeExpr(node.Left, scope)
	right, okR := v.typeExpr(node.Right, scope)
	if !okL || !okR {
		return nil, false
	}
	lt, rt := left.Type(), right.Type()
	if !lt.IsNumeric() || !rt.IsNumeric() {
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"comparisons are only supported for numeric types, found %s and %s", lt, rt)
		return nil, false
	}
	if !lt.Equal(rt) {
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"cannot compare %s with %s", lt, rt)
		return nil, false
	}
	return &VCompare{Op: node.Op, Left: left, Right: right}, true
}

// typeList types a list literal. Every element must share one static
// type; the first differing element produces exactly one diagnostic at
// the literal's location.
func (v *Verifier) typeList(node *ast.ListLit, scope *Scope) (VerifiedExpr, bool) {
	// The parser refuses `[]` outright, but a tree built by hand can
	// still carry one; there is no element type to infer from it.
	if len(node.Elems) == 0 {
		v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
			"empty list literals have no element type")
		return nil, false
	}
	elems := make([]VerifiedExpr, 0, len(node.Elems))
	for _, e := range node.Elems {
		ve, ok := v.typeExpr(e, scope)
		if !ok {
			return nil, false
		}
		elems = append(elems, ve)
	}
	elemType := elems[0].Type()
	for _, e := range elems[1:] {
		if !e.Type().Equal(elemType) {
			v.diags.Add(diagnostic.HeterogeneousListError, node.Span(),
				"list elements must share a single static type, found %s and %s", elemType, e.Type())
			return nil, false
		}
	}
	return &VList{Elems: elems, Typ: types.ListOf(elemType, len(elems))}, true
}

func (v *Verifier) typeIndex(node *ast.Index, scope *Scope) (*VIndex, bool) {
	x, okX := v.typeExpr(node.X, scope)
	idx, okI := v.typeExpr(node.Idx, scope)
	if !okX || !okI {
		return nil, false
	}
	xt := x.Type()
	if xt.Kind != types.KindList {
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"cannot index into %s: only lists support indexing", xt)
		return nil, false
	}
	if !idx.Type().Equal(types.Int) {
		v.diags.Add(diagnostic.TypeMismatchError, node.Idx.Span(),
			"list index must be an int, found %s", idx.Type())
		return nil, false
	}
	// Static proof of index < length is out of scope for v0.
	return &VIndex{X: x, Idx: idx, Typ: *xt.Elem}, true
}

func (v *Verifier) typeCall(node *ast.Call, scope *Scope) (VerifiedExpr, bool) {
	if node.Module == "" {
		if _, isUser := v.funcs[node.Func]; isUser {
			return v.typeUserCall(node, scope)
		}
	}
	if b, ok := LookupBuiltin(node.Target()); ok {
		return v.typeBuiltinCall(node, b, scope)
	}
	// Banned entry points were already reported by the forbidden scan.
	if _, banned := bannedCalls[node.Func]; banned && node.Module == "" {
		return nil, false
	}
	if _, banned := bannedQualifiedCalls[node.Target()]; banned {
		return nil, false
	}
	v.diags.Add(diagnostic.UnknownBuiltinError, node.Span(),
		"call to unknown function '%s'", node.Target())
	return nil, false
}

func (v *Verifier) typeUserCall(node *ast.Call, scope *Scope) (VerifiedExpr, bool) {
	fi := v.resolveFunction(node.Func)

	args, ok := v.typeArgs(node.Args, scope)
	if !ok {
		return nil, false
	}
	if len(args) != len(fi.params) {
		v.diags.Add(diagnostic.ArgumentTypeError, node.Span(),
			"function '%s' expects %d argument(s), got %d", node.Func, len(fi.params), len(args))
		return nil, false
	}
	valid := true
	for i, arg := range args {
		if !arg.Type().Equal(fi.params[i]) {
			v.diags.Add(diagnostic.ArgumentTypeError, node.Args[i].Span(),
				"argument %d of '%s' must be %s, found %s", i+1, node.Func, fi.params[i], arg.Type())
			valid = false
		}
	}
	if !valid {
		return nil, false
	}
	return &VCall{Func: node.Func, Args: args, Typ: fi.result}, true
}

func (v *Verifier) typeBuiltinCall(node *ast.Call, b *Builtin, scope *Scope) (VerifiedExpr, bool) {
	args, ok := v.typeArgs(node.Args, scope)
	if !ok {
		return nil, false
	}

	if b.AnyScalar {
		if len(args) != 1 {
			v.diags.Add(diagnostic.ArgumentTypeError, node.Span(),
				"%s expects exactly one argument, got %d", b.Name, len(args))
			return nil, false
		}
		if !args[0].Type().IsScalar() {
			v.diags.Add(diagnostic.ArgumentTypeError, node.Args[0].Span(),
				"%s expects a scalar argument, found %s", b.Name, args[0].Type())
			return nil, false
		}
		return &VCall{Func: b.Name, Builtin: b, Args: args, Typ: b.Result}, true
	}

	if len(args) != len(b.Params) {
		v.diags.Add(diagnostic.ArgumentTypeError, node.Span(),
			"%s expects %d argument(s), got %d", b.Name, len(b.Params), len(args))
		return nil, false
	}
	for i, arg := range args {
		if !arg.Type().Equal(b.Params[i]) {
			v.diags.Add(diagnostic.ArgumentTypeError, node.Args[i].Span(),
				"%s expects a %s argument, found %s", b.Name, b.Params[i], arg.Type())
			return nil, false
		}
	}
	return &VCall{Func: b.Name, Builtin: b, Args: args, Typ: b.Result}, true
}

// typeArgs types every argument, reporting each failure, and succeeds
// only if all of them typed.
func (v *Verifier) typeArgs(args []ast.Expr, scope *Scope) ([]VerifiedExpr, bool) {
	out := make([]VerifiedExpr, 0, len(args))
	ok := true
	for _, a := range args {
		va, argOK := v.typeExpr(a, scope)
		if !argOK {
			ok = false
			continue
		}
		out = append(out, va)
	}
	return out, ok
}
