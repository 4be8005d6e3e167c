// Package diagnostic defines the compile-time diagnostic value and
// the ordered list a compilation accumulates. Diagnostics are values,
// not Go errors: a compilation either yields a verified program or a
// non-empty list of these, never both.
package diagnostic

import (
	"fmt"

	"github.com/phoenix-lang/phoenix/internal/position"
)

// Rule identifies which zero-ambiguity rule a diagnostic reports.
// The set is closed; nothing in the compiler is downgraded to a
// warning or retried.
type Rule string

const (
	SyntaxError               Rule = "SyntaxError"
	TypeMutationError         Rule = "TypeMutationError"
	HeterogeneousListError    Rule = "HeterogeneousListError"
	ForbiddenConstructError   Rule = "ForbiddenConstructError"
	NonStaticLoopBoundError   Rule = "NonStaticLoopBoundError"
	UnsupportedConstructError Rule = "UnsupportedConstructError"
	AsymmetricAssignmentError Rule = "AsymmetricAssignmentError"
	BranchTypeMismatchError   Rule = "BranchTypeMismatchError"
	ConditionTypeError        Rule = "ConditionTypeError"
	ReturnTypeMismatchError   Rule = "ReturnTypeMismatchError"
	ArgumentTypeError         Rule = "ArgumentTypeError"
	UndefinedVariableError    Rule = "UndefinedVariableError"
	UnknownBuiltinError       Rule = "UnknownBuiltinError"
	TypeMismatchError         Rule = "TypeMismatchError"
)

// Diagnostic is one rule violation: the rule, a human message, and the
// source location it was detected at. Immutable once created.
type Diagnostic struct {
	Rule    Rule
	Message string
	Span    position.Span
}

// New builds a diagnostic with a formatted message.
func New(rule Rule, span position.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Rule: rule, Message: fmt.Sprintf(format, args...), Span: span}
}

// String returns the single-line human rendering.
func (d Diagnostic) String() string {
	return "PhoenixError: " + d.Message
}

// Code returns the machine-readable (rule, location) pair for tooling.
func (d Diagnostic) Code() string {
	return fmt.Sprintf("(%s, %s)", d.Rule, d.Span.Start)
}

// List is an ordered accumulation of diagnostics for one compilation
// attempt. Order is emission order: the forbidden-construct scan runs
// first, so its findings always precede type errors.
type List []Diagnostic

// Add appends a diagnostic built from the arguments.
func (l *List) Add(rule Rule, span position.Span, format string, args ...interface{}) {
	*l = append(*l, New(rule, span, format, args...))
}

// HasErrors reports whether any diagnostic was accumulated.
func (l List) HasErrors() bool { return len(l) > 0 }
