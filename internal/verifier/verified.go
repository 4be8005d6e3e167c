package verifier

import (
	"github.com/phoenix-lang/phoenix/internal/ast"
	"github.com/phoenix-lang/phoenix/internal/types"
)

// VerifiedProgram is the fully-typed, rule-checked intermediate form.
// It is produced exactly once by the verifier from a fully-scanned
// AST, is immutable, and is the only input the code generator accepts:
// every invariant the verifier enforces may be assumed to hold here.
type VerifiedProgram struct {
	Functions []*VerifiedFunction // declaration order
	Body      []VerifiedStmt      // top-level statements, declaration order
}

// VerifiedFunction is one function with its resolved signature.
type VerifiedFunction struct {
	Name   string
	Params []VerifiedParam
	Result types.Type
	Body   []VerifiedStmt
}

// VerifiedParam is a parameter with its declared type.
type VerifiedParam struct {
	Name string
	Type types.Type
}

// VerifiedStmt is the closed statement variant of the verified form.
type VerifiedStmt interface {
	verifiedStmt()
}

// VAssign is `name = value`; Type is the variable's (only) type.
type VAssign struct {
	Name  string
	Type  types.Type
	Value VerifiedExpr
}

// VIndexAssign is `list[index] = value`.
type VIndexAssign struct {
	Target *VIndex
	Value  VerifiedExpr
}

// VFor is a bounded counting loop; Bound is the verified non-negative
// literal.
type VFor struct {
	Var   string
	Bound int
	Body  []VerifiedStmt
}

// VIf is a binary conditional. Both written branches are always
// emitted verbatim; HasElse records whether the source had an else at
// all (an `else: pass` emits an empty block).
type VIf struct {
	Cond    VerifiedExpr
	Then    []VerifiedStmt
	Else    []VerifiedStmt
	HasElse bool
}

// VReturn is a return; Value is nil for a bare return.
type VReturn struct {
	Value VerifiedExpr
}

// VExprStmt is an expression evaluated for effect.
type VExprStmt struct {
	X VerifiedExpr
}

func (*VAssign) verifiedStmt()      {}
func (*VIndexAssign) verifiedStmt() {}
func (*VFor) verifiedStmt()         {}
func (*VIf) verifiedStmt()          {}
func (*VReturn) verifiedStmt()      {}
func (*VExprStmt) verifiedStmt()    {}

// VerifiedExpr is the closed expression variant; every node carries
// its resolved type.
type VerifiedExpr interface {
	Type() types.Type
}

// VIntLit is an integer literal.
type VIntLit struct {
	Value int
}

// VFloatLit preserves the source spelling for byte-stable emission.
type VFloatLit struct {
	Raw string
}

// VBoolLit is a boolean literal.
type VBoolLit struct {
	Value bool
}

// VStringLit is a string literal (unescaped contents).
type VStringLit struct {
	Value string
}

// VName is a variable reference.
type VName struct {
	Name string
	Typ  types.Type
}

// VBinary is an arithmetic expression; both operands share Typ.
type VBinary struct {
	Op    ast.Op
	Left  VerifiedExpr
	Right VerifiedExpr
	Typ   types.Type
}

// VCompare is a single comparison; its type is always bool.
type VCompare struct {
	Op    ast.Op
	Left  VerifiedExpr
	Right VerifiedExpr
}

// VList is a homogeneous fixed-length list literal.
type VList struct {
	Elems []VerifiedExpr
	Typ   types.Type
}

// VIndex is a list element access.
type VIndex struct {
	X   VerifiedExpr
	Idx VerifiedExpr
	Typ types.Type
}

// VCall is a call; Builtin is non-nil for registry builtins and nil
// for user functions.
type VCall struct {
	Func    string
	Builtin *Builtin
	Args    []VerifiedExpr
	Typ     types.Type
}

func (e *VIntLit) Type() types.Type    { return types.Int }
func (e *VFloatLit) Type() types.Type  { return types.Float }
func (e *VBoolLit) Type() types.Type   { return types.Bool }
func (e *VStringLit) Type() types.Type { return types.String }
func (e *VName) Type() types.Type      { return e.Typ }
func (e *VBinary) Type() types.Type    { return e.Typ }
func (e *VCompare) Type() types.Type   { return types.Bool }
func (e *VList) Type() types.Type      { return e.Typ }
func (e *VIndex) Type() types.Type     { return e.Typ }
func (e *VCall) Type() types.Type      { return e.Typ }
