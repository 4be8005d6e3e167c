package verifier

import (
	"github.com/phoenix-lang/phoenix/internal/ast"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/position"
	"github.com/phoenix-lang/phoenix/internal/types"
)

// Verifier holds the mutable state of one verification: the diagnostic
// accumulation and the user function table. All state is local to one
// call of Verify, so independent compilations can run concurrently
// with no shared state.
type Verifier struct {
	diags diagnostic.List
	funcs map[string]*funcInfo
	order []string // function declaration order
}

type funcInfo struct {
	def      *ast.FunctionDef
	params   []types.Type
	result   types.Type
	resolved bool
	visiting bool
	out      *VerifiedFunction

	returnTypes []types.Type
	returnSpans []position.Span
}

// context threads per-walk flags through statement verification.
type context struct {
	fn     *funcInfo // enclosing function, nil at top level
	inIf   bool      // inside an if/else branch
	inLoop bool      // inside a for body
}

// Verify runs both verifier passes over a parsed program. It returns
// the verified program and an empty list, or nil and every diagnostic
// the two passes could detect. It never stops at the first error: the
// user gets one complete report per compile attempt.
func Verify(prog *ast.Program) (*VerifiedProgram, diagnostic.List) {
	v := &Verifier{funcs: make(map[string]*funcInfo)}

	// Pass 1: structural scan for forbidden constructs. Runs first and
	// unconditionally so these are never masked by type errors.
	scanForbidden(prog, &v.diags)

	// Pass 2: the type/rule pass. Function signatures are registered
	// up front (parameters carry declared types), then every function
	// body and finally the top-level body is walked once.
	v.registerFunctions(prog)
	for _, name := range v.order {
		v.resolveFunction(name)
	}

	global := NewScope(nil)
	body := v.verifyBlock(topLevel(prog), global, context{})

	if v.diags.HasErrors() {
		return nil, v.diags
	}

	out := &VerifiedProgram{Body: body}
	for _, name := range v.order {
		out.Functions = append(out.Functions, v.funcs[name].out)
	}
	return out, nil
}

// topLevel filters the statements verified in the program scope;
// function definitions are handled separately and imports carry no
// runtime behavior.
func topLevel(prog *ast.Program) []ast.Stmt {
	var out []ast.Stmt
	for _, stmt := range prog.Body {
		switch stmt.(type) {
		case *ast.FunctionDef, *ast.Import:
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func (v *Verifier) registerFunctions(prog *ast.Program) {
	for _, stmt := range prog.Body {
		def, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if _, isBuiltin := LookupBuiltin(def.Name); isBuiltin {
			v.diags.Add(diagnostic.UnsupportedConstructError, def.Span(),
				"cannot redefine builtin '%s'", def.Name)
			continue
		}
		if _, exists := v.funcs[def.Name]; exists {
			v.diags.Add(diagnostic.UnsupportedConstructError, def.Span(),
				"function '%s' is defined more than once", def.Name)
			continue
		}
		params := make([]types.Type, len(def.Params))
		for i, p := range def.Params {
			params[i] = p.Type
		}
		v.funcs[def.Name] = &funcInfo{def: def, params: params}
		v.order = append(v.order, def.Name)
	}
}

// resolveFunction verifies a function body and computes its return
// type as the unifier's join across every return expression. Bodies
// are resolved on demand so a call to a later-declared function sees
// its resolved result; a cycle means the result type cannot be
// determined statically, which v0 rejects.
func (v *Verifier) resolveFunction(name string) *funcInfo {
	fi := v.funcs[name]
	if fi.resolved {
		return fi
	}
	if fi.visiting {
		v.diags.Add(diagnostic.UnsupportedConstructError, fi.def.Span(),
			"recursive functions are not supported: the return type of '%s' cannot be resolved statically", name)
		fi.result = types.Unit
		fi.resolved = true
		return fi
	}
	fi.visiting = true

	scope := NewScope(nil)
	verifiedParams := make([]VerifiedParam, 0, len(fi.def.Params))
	for _, p := range fi.def.Params {
		if prev, conflict := scope.Bind(p.Name, p.Type); conflict {
			v.diags.Add(diagnostic.TypeMutationError, p.Span(),
				"Variable '%s' changed type (%s → %s)", p.Name, prev, p.Type)
			continue
		}
		verifiedParams = append(verifiedParams, VerifiedParam{Name: p.Name, Type: p.Type})
	}

	body := v.verifyBlock(fi.def.Body, scope, context{fn: fi})

	result := types.Unit
	if len(fi.returnTypes) > 0 {
		result = fi.returnTypes[0]
		for i := 1; i < len(fi.returnTypes); i++ {
			joined, ok := types.Unify(result, fi.returnTypes[i])
			if !ok {
				v.diags.Add(diagnostic.ReturnTypeMismatchError, fi.returnSpans[i],
					"function '%s' must be type-stable: one return yields %s, another yields %s",
					name, result, fi.returnTypes[i])
				continue
			}
			result = joined
		}
	}

	fi.result = result
	fi.resolved = true
	fi.visiting = false
	fi.out = &VerifiedFunction{
		Name:   name,
		Params: verifiedParams,
		Result: result,
		Body:   body,
	}
	return fi
}

func (v *Verifier) verifyBlock(stmts []ast.Stmt, scope *Scope, ctx context) []VerifiedStmt {
	var out []VerifiedStmt
	for _, stmt := range stmts {
		if vs := v.verifyStmt(stmt, scope, ctx); vs != nil {
			out = append(out, vs)
		}
	}
	return out
}

func (v *Verifier) verifyStmt(stmt ast.Stmt, scope *Scope, ctx context) VerifiedStmt {
	switch node := stmt.(type) {
	case *ast.FunctionDef, *ast.Import:
		// Handled at registration / scan time.
		return nil
	case *ast.Assign:
		return v.verifyAssign(node, scope, ctx)
	case *ast.IndexAssign:
		return v.verifyIndexAssign(node, scope)
	case *ast.ForRange:
		return v.verifyFor(node, scope, ctx)
	case *ast.While:
		v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
			"while loops are not supported: loop bounds must be statically provable")
		return nil
	case *ast.IfElse:
		return v.verifyIf(node, scope, ctx)
	case *ast.Return:
		return v.verifyReturn(node, scope, ctx)
	case *ast.ExprStmt:
		x, ok := v.typeExpr(node.X, scope)
		if !ok {
			return nil
		}
		return &VExprStmt{X: x}
	}
	return nil
}

func (v *Verifier) verifyAssign(node *ast.Assign, scope *Scope, ctx context) VerifiedStmt {
	value, ok := v.typeExpr(node.Value, scope)
	if !ok {
		return nil
	}
	t := value.Type()
	if t.Kind == types.KindUnit {
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"cannot assign a call that returns no value to '%s'", node.Name)
		return nil
	}
	if t.Kind == types.KindList {
		if _, isLiteral := value.(*VList); !isLiteral {
			v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
				"lists cannot be aliased: assign a list literal directly")
			return nil
		}
		// A list initializes its fixed storage exactly once; inside a
		// branch or loop body there is no single construction point.
		if ctx.inIf || ctx.inLoop {
			v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
				"lists must be constructed outside of conditionals and loops")
			return nil
		}
	}
	prev, conflict := scope.Bind(node.Name, t)
	if conflict {
		v.diags.Add(diagnostic.TypeMutationError, node.Span(),
			"Variable '%s' changed type (%s → %s)", node.Name, prev, t)
		return nil
	}
	if prev.IsValid() && t.Kind == types.KindList {
		v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
			"list variable '%s' is fixed at construction and cannot be reassigned", node.Name)
		return nil
	}
	return &VAssign{Name: node.Name, Type: t, Value: value}
}

func (v *Verifier) verifyIndexAssign(node *ast.IndexAssign, scope *Scope) VerifiedStmt {
	target, ok := v.typeIndex(node.Target, scope)
	if !ok {
		return nil
	}
	value, ok := v.typeExpr(node.Value, scope)
	if !ok {
		return nil
	}
	if !value.Type().Equal(target.Type()) {
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"cannot store %s in a list of %s", value.Type(), target.Type())
		return nil
	}
	return &VIndexAssign{Target: target, Value: value}
}

func (v *Verifier) verifyFor(node *ast.ForRange, scope *Scope, ctx context) VerifiedStmt {
	bound, ok := v.staticBound(node)
	if !ok {
		return nil
	}
	_, wasBound := scope.Lookup(node.Var)
	if prev, conflict := scope.Bind(node.Var, types.Int); conflict {
		v.diags.Add(diagnostic.TypeMutationError, node.Span(),
			"Variable '%s' changed type (%s → %s)", node.Var, prev, types.Int)
		return nil
	}
	body := v.verifyBlock(node.Body, scope, context{fn: ctx.fn, inIf: ctx.inIf, inLoop: true})
	if !wasBound {
		scope.unbind(node.Var)
	}
	return &VFor{Var: node.Var, Bound: bound, Body: body}
}

// staticBound enforces the only accepted loop form:
// `for <name> in range(<non-negative integer literal>)`.
func (v *Verifier) staticBound(node *ast.ForRange) (int, bool) {
	call, isCall := node.Iter.(*ast.Call)
	if !isCall || call.Module != "" || call.Func != "range" {
		v.diags.Add(diagnostic.NonStaticLoopBoundError, node.Iter.Span(),
			"for loops must iterate over range(<integer literal>)")
		return 0, false
	}
	if len(call.Args) != 1 {
		v.diags.Add(diagnostic.NonStaticLoopBoundError, call.Span(),
			"range takes exactly one integer literal bound")
		return 0, false
	}
	lit, isLit := call.Args[0].(*ast.IntLit)
	if !isLit {
		v.diags.Add(diagnostic.NonStaticLoopBoundError, call.Args[0].Span(),
			"loop bound must be an integer literal known at compile time, found '%s'", call.Args[0])
		return 0, false
	}
	if lit.Value < 0 {
		v.diags.Add(diagnostic.NonStaticLoopBoundError, lit.Span(),
			"loop bound must be non-negative, found %d", lit.Value)
		return 0, false
	}
	return lit.Value, true
}

func (v *Verifier) verifyIf(node *ast.IfElse, scope *Scope, ctx context) VerifiedStmt {
	if node.Elif {
		v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
			"'elif' is not supported: conditionals must be binary")
		return nil
	}
	if ctx.inIf {
		v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
			"nested if statements are not supported")
		return nil
	}

	var cond VerifiedExpr
	if c, ok := v.typeExpr(node.Cond, scope); ok {
		if !c.Type().Equal(types.Bool) {
			v.diags.Add(diagnostic.ConditionTypeError, node.Cond.Span(),
				"if condition must be a bool, found %s", c.Type())
		} else {
			cond = c
		}
	}

	// Rule 6: any variable assigned in one branch must be assigned in
	// the other too, so the join after the conditional is total.
	thenNames, thenSpans := collectAssigned(node.Then)
	elseNames, elseSpans := collectAssigned(node.Else)
	elseSet := toSet(elseNames)
	thenSet := toSet(thenNames)
	for _, name := range thenNames {
		if !elseSet[name] {
			v.diags.Add(diagnostic.AsymmetricAssignmentError, thenSpans[name],
				"Variable '%s' is assigned in the then branch but not in the else branch", name)
		}
	}
	for _, name := range elseNames {
		if !thenSet[name] {
			v.diags.Add(diagnostic.AsymmetricAssignmentError, elseSpans[name],
				"Variable '%s' is assigned in the else branch but not in the then branch", name)
		}
	}

	branchCtx := context{fn: ctx.fn, inIf: true, inLoop: ctx.inLoop}

	// Each branch is verified against the pre-if environment, then
	// rolled back; the join below re-binds what both branches agree on.
	saved := scope.snapshot()
	thenBody := v.verifyBlock(node.Then, scope, branchCtx)
	thenNew := scope.diff(saved)
	scope.restore(saved)

	elseBody := v.verifyBlock(node.Else, scope, branchCtx)
	elseNew := scope.diff(saved)
	scope.restore(saved)

	for _, name := range thenNames {
		tThen, inThen := thenNew[name]
		tElse, inElse := elseNew[name]
		switch {
		case inThen && inElse:
			joined, ok := types.Unify(tThen, tElse)
			if !ok {
				v.diags.Add(diagnostic.BranchTypeMismatchError, thenSpans[name],
					"Variable '%s' has type %s in the then branch but %s in the else branch",
					name, tThen, tElse)
				continue
			}
			scope.Bind(name, joined)
		case inThen:
			// Asymmetric (already reported); keep the binding so later
			// uses do not cascade into undefined-variable errors.
			scope.Bind(name, tThen)
		}
	}
	for _, name := range elseNames {
		if _, done := thenNew[name]; done {
			continue
		}
		if t, ok := elseNew[name]; ok {
			scope.Bind(name, t)
		}
	}

	if cond == nil {
		return nil
	}
	return &VIf{Cond: cond, Then: thenBody, Else: elseBody, HasElse: node.HasElse}
}

func (v *Verifier) verifyReturn(node *ast.Return, scope *Scope, ctx context) VerifiedStmt {
	if ctx.fn == nil {
		return nil
	}
	if node.Value == nil {
		ctx.fn.returnTypes = append(ctx.fn.returnTypes, types.Unit)
		ctx.fn.returnSpans = append(ctx.fn.returnSpans, node.Span())
		return &VReturn{}
	}
	value, ok := v.typeExpr(node.Value, scope)
	if !ok {
		return nil
	}
	switch value.Type().Kind {
	case types.KindList:
		v.diags.Add(diagnostic.UnsupportedConstructError, node.Span(),
			"returning lists is not supported")
		return nil
	case types.KindUnit:
		v.diags.Add(diagnostic.TypeMismatchError, node.Span(),
			"cannot return a call that produces no value")
		return nil
	}
	ctx.fn.returnTypes = append(ctx.fn.returnTypes, value.Type())
	ctx.fn.returnSpans = append(ctx.fn.returnSpans, node.Span())
	return &VReturn{Value: value}
}

// collectAssigned returns the names assigned anywhere inside stmts
// (including nested loops) in first-assignment order, with the span of
// each name's first assignment.
func collectAssigned(stmts []ast.Stmt) ([]string, map[string]position.Span) {
	var names []string
	spans := make(map[string]position.Span)
	for _, stmt := range stmts {
		ast.Walk(stmt, func(n ast.Node) {
			assign, ok := n.(*ast.Assign)
			if !ok {
				return
			}
			if _, seen := spans[assign.Name]; !seen {
				names = append(names, assign.Name)
				spans[assign.Name] = assign.Span()
			}
		})
	}
	return names, spans
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
