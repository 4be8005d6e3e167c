package verifier_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/phoenix-lang/phoenix/internal/ast"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/parser"
	"github.com/phoenix-lang/phoenix/internal/types"
	"github.com/phoenix-lang/phoenix/internal/verifier"
)

func verify(t *testing.T, src string) (*verifier.VerifiedProgram, diagnostic.List) {
	t.Helper()
	prog, diags := parser.Parse("test.px", src)
	if diags.HasErrors() {
		t.Fatalf("parse failed: %v", diags[0])
	}
	return verifier.Verify(prog)
}

func wantDiag(t *testing.T, diags diagnostic.List, rule diagnostic.Rule, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Rule == rule && strings.Contains(d.Message, substr) {
			return
		}
	}
	t.Fatalf("want %s diagnostic containing %q, got %v", rule, substr, diags)
}

func TestRefusedPrograms(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		rule   diagnostic.Rule
		substr string
	}{
		{
			name:   "type mutation",
			src:    "x = 5\nx = \"hello\"\n",
			rule:   diagnostic.TypeMutationError,
			substr: "Variable 'x' changed type (int → str)",
		},
		{
			name:   "heterogeneous list",
			src:    "bad = [1, 2.0]\n",
			rule:   diagnostic.HeterogeneousListError,
			substr: "found int and float",
		},
		{
			name: "dynamic loop bound",
			src: "def f(n: int):\n" +
				"    total = 0\n" +
				"    for i in range(n):\n" +
				"        total = total + 1\n" +
				"    return total\n",
			rule:   diagnostic.NonStaticLoopBoundError,
			substr: "integer literal",
		},
		{
			name:   "negative loop bound",
			src:    "for i in range(-1):\n    print(i)\n",
			rule:   diagnostic.NonStaticLoopBoundError,
			substr: "non-negative",
		},
		{
			name:   "eval",
			src:    "x = 1\neval(\"x + 1\")\n",
			rule:   diagnostic.ForbiddenConstructError,
			substr: "'eval'",
		},
		{
			name:   "dynamic import",
			src:    "importlib.import_module(\"os\")\n",
			rule:   diagnostic.ForbiddenConstructError,
			substr: "importlib.import_module",
		},
		{
			name:   "import other than math",
			src:    "import os\n",
			rule:   diagnostic.ForbiddenConstructError,
			substr: "only 'import math'",
		},
		{
			name:   "while loop",
			src:    "x = 0\nwhile x < 10:\n    x = x + 1\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "while loops",
		},
		{
			name:   "elif",
			src:    "x = 1\nif x == 1:\n    y = 1\nelif x == 2:\n    y = 2\nelse:\n    y = 3\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "'elif'",
		},
		{
			name:   "nested if",
			src:    "a = True\nb = True\nif a:\n    if b:\n        pass\n    else:\n        pass\nelse:\n    pass\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "nested if",
		},
		{
			name:   "asymmetric assignment",
			src:    "cond = True\nif cond:\n    y = 1\nelse:\n    pass\n",
			rule:   diagnostic.AsymmetricAssignmentError,
			substr: "Variable 'y' is assigned in the then branch but not in the else branch",
		},
		{
			name:   "branch type mismatch",
			src:    "cond = True\nif cond:\n    y = 1\nelse:\n    y = 1.0\n",
			rule:   diagnostic.BranchTypeMismatchError,
			substr: "Variable 'y' has type int in the then branch but float in the else branch",
		},
		{
			name:   "non-bool condition",
			src:    "if 1:\n    y = 1\nelse:\n    y = 2\n",
			rule:   diagnostic.ConditionTypeError,
			substr: "must be a bool, found int",
		},
		{
			name: "return type instability",
			src: "def weird(flag: bool):\n" +
				"    if flag:\n" +
				"        return 1\n" +
				"    else:\n" +
				"        return 1.0\n",
			rule:   diagnostic.ReturnTypeMismatchError,
			substr: "one return yields int, another yields float",
		},
		{
			name: "argument type mismatch",
			src: "def identity(a: int):\n" +
				"    return a\n" +
				"y = identity(\"string\")\n",
			rule:   diagnostic.ArgumentTypeError,
			substr: "argument 1 of 'identity' must be int, found str",
		},
		{
			name:   "mixed int float arithmetic",
			src:    "x = 10\ny = 2.5\nz = x + y\n",
			rule:   diagnostic.TypeMismatchError,
			substr: "int and float are never mixed implicitly",
		},
		{
			name:   "undefined variable",
			src:    "print(missing)\n",
			rule:   diagnostic.UndefinedVariableError,
			substr: "Variable 'missing' is not defined",
		},
		{
			name:   "unknown builtin",
			src:    "frobnicate(1)\n",
			rule:   diagnostic.UnknownBuiltinError,
			substr: "unknown function 'frobnicate'",
		},
		{
			name:   "sqrt on string",
			src:    "import math\nz = math.sqrt(\"hi\")\n",
			rule:   diagnostic.ArgumentTypeError,
			substr: "math.sqrt expects a float argument, found str",
		},
		{
			name:   "list element type mismatch",
			src:    "nums = [1, 2, 3]\nnums[0] = 1.5\n",
			rule:   diagnostic.TypeMismatchError,
			substr: "cannot store float in a list of int",
		},
		{
			name:   "list aliasing",
			src:    "a = [1, 2]\nb = a\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "lists cannot be aliased",
		},
		{
			name:   "list reassignment",
			src:    "a = [1, 2]\na = [3, 4]\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "cannot be reassigned",
		},
		{
			name:   "list construction in branch",
			src:    "cond = True\nif cond:\n    a = [1]\nelse:\n    a = [2]\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "lists must be constructed outside",
		},
		{
			name: "list return",
			src: "def make(n: int):\n" +
				"    return [1, 2]\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "returning lists",
		},
		{
			name: "assigning a unit call",
			src: "def noop(a: int):\n" +
				"    a = a + 1\n" +
				"x = noop(1)\n",
			rule:   diagnostic.TypeMismatchError,
			substr: "returns no value",
		},
		{
			name: "recursion",
			src: "def loop(n: int):\n" +
				"    return loop(n)\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "recursive functions",
		},
		{
			name: "duplicate definition",
			src: "def f(a: int):\n" +
				"    return a\n" +
				"def f(a: int):\n" +
				"    return a\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "defined more than once",
		},
		{
			name: "redefining a builtin",
			src: "def print(a: int):\n" +
				"    return a\n",
			rule:   diagnostic.UnsupportedConstructError,
			substr: "cannot redefine builtin 'print'",
		},
		{
			name:   "comparing mismatched numerics",
			src:    "x = 1 < 2.0\n",
			rule:   diagnostic.TypeMismatchError,
			substr: "cannot compare int with float",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, diags := verify(t, tt.src)
			if prog != nil {
				t.Fatalf("refused program produced a verified program")
			}
			if !diags.HasErrors() {
				t.Fatalf("expected diagnostics, got none")
			}
			wantDiag(t, diags, tt.rule, tt.substr)
		})
	}
}

func TestAcceptedProgram(t *testing.T) {
	src := "import math\n" +
		"\n" +
		"def sum_values(values: list[int, 4]):\n" +
		"    total = 0\n" +
		"    for i in range(4):\n" +
		"        total = total + values[i]\n" +
		"    return total\n" +
		"\n" +
		"def mean(values: list[float, 4]):\n" +
		"    total = 0.0\n" +
		"    for i in range(4):\n" +
		"        total = total + values[i]\n" +
		"    return total / 4.0\n" +
		"\n" +
		"nums = [1, 2, 3, 4]\n" +
		"readings = [1.5, 2.5, 3.5, 4.5]\n" +
		"total = sum_values(nums)\n" +
		"m = mean(readings)\n" +
		"root = math.sqrt(m)\n" +
		"print(total)\n" +
		"print(root)\n"

	prog, diags := verify(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if prog == nil {
		t.Fatal("no verified program")
	}
	if len(prog.Functions) != 2 {
		t.Fatalf("got %d functions, want 2", len(prog.Functions))
	}
	if prog.Functions[0].Name != "sum_values" || prog.Functions[1].Name != "mean" {
		t.Fatalf("functions out of declaration order: %s, %s",
			prog.Functions[0].Name, prog.Functions[1].Name)
	}
	if !prog.Functions[0].Result.Equal(types.Int) {
		t.Errorf("sum_values result = %s, want int", prog.Functions[0].Result)
	}
	if !prog.Functions[1].Result.Equal(types.Float) {
		t.Errorf("mean result = %s, want float", prog.Functions[1].Result)
	}
}

func TestBranchJoinBindsVariable(t *testing.T) {
	src := "cond = True\n" +
		"if cond:\n" +
		"    y = 1\n" +
		"else:\n" +
		"    y = 2\n" +
		"print(y)\n"
	prog, diags := verify(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if prog == nil {
		t.Fatal("no verified program")
	}
}

func TestLoopCounterIsLoopScoped(t *testing.T) {
	src := "for i in range(3):\n" +
		"    print(i)\n" +
		"print(i)\n"
	_, diags := verify(t, src)
	wantDiag(t, diags, diagnostic.UndefinedVariableError, "Variable 'i' is not defined")
}

func TestFunctionsDoNotSeeTopLevelVariables(t *testing.T) {
	src := "g = 10\n" +
		"def f(a: int):\n" +
		"    return a + g\n"
	_, diags := verify(t, src)
	wantDiag(t, diags, diagnostic.UndefinedVariableError, "Variable 'g' is not defined")
}

func TestForwardCallResolves(t *testing.T) {
	src := "def outer(a: int):\n" +
		"    return inner(a) + 1\n" +
		"def inner(a: int):\n" +
		"    return a * 2\n" +
		"print(outer(3))\n"
	prog, diags := verify(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !prog.Functions[0].Result.Equal(types.Int) {
		t.Errorf("outer result = %s, want int", prog.Functions[0].Result)
	}
}

func TestForbiddenScanIsNotMaskedByTypeErrors(t *testing.T) {
	src := "x = 5\n" +
		"x = \"hello\"\n" +
		"eval(\"x\")\n"
	_, diags := verify(t, src)
	if len(diags) < 2 {
		t.Fatalf("want both scan and type diagnostics, got %v", diags)
	}
	if diags[0].Rule != diagnostic.ForbiddenConstructError {
		t.Errorf("scan finding should come first, got %s", diags[0].Rule)
	}
	wantDiag(t, diags, diagnostic.TypeMutationError, "Variable 'x'")
}

func TestVerifyIsIdempotent(t *testing.T) {
	src := "x = 5\nx = \"hello\"\nbad = [1, 2.0]\n"
	prog, parseDiags := parser.Parse("test.px", src)
	if parseDiags.HasErrors() {
		t.Fatalf("parse failed: %v", parseDiags[0])
	}
	_, first := verifier.Verify(prog)
	_, second := verifier.Verify(prog)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("verification is not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestAccumulatesAllDiagnostics(t *testing.T) {
	src := "x = 5\n" +
		"x = \"hello\"\n" +
		"bad = [1, 2.0]\n" +
		"n = 10\n" +
		"for i in range(n):\n" +
		"    print(i)\n"
	_, diags := verify(t, src)
	rules := map[diagnostic.Rule]bool{}
	for _, d := range diags {
		rules[d.Rule] = true
	}
	for _, want := range []diagnostic.Rule{
		diagnostic.TypeMutationError,
		diagnostic.HeterogeneousListError,
		diagnostic.NonStaticLoopBoundError,
	} {
		if !rules[want] {
			t.Errorf("missing %s in accumulated diagnostics %v", want, diags)
		}
	}
}

func TestEmptyListLiteralInHandBuiltTree(t *testing.T) {
	// The parser never produces an empty ListLit, but Verify takes any
	// tree; it must refuse, not panic.
	prog := &ast.Program{Body: []ast.Stmt{
		&ast.Assign{Name: "xs", Value: &ast.ListLit{}},
	}}
	_, diags := verifier.Verify(prog)
	wantDiag(t, diags, diagnostic.UnsupportedConstructError, "empty list literals")
}
