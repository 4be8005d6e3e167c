package verifier

import (
	"github.com/phoenix-lang/phoenix/internal/ast"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
)

// bannedCalls is the closed set of reflective and dynamic-execution
// entry points. Any call to one of these breaks the performance
// guarantees the compiler exists to prove, so the scan rejects them
// structurally, whether or not the surrounding code is reachable or
// well-typed.
var bannedCalls = map[string]string{
	"eval":       "dynamic execution breaks performance guarantees",
	"exec":       "dynamic execution breaks performance guarantees",
	"__import__": "dynamic imports are forbidden; performance cannot be proven",
	"getattr":    "reflection breaks static type guarantees",
	"setattr":    "reflection breaks static type guarantees",
	"globals":    "reflection breaks static type guarantees",
	"locals":     "reflection breaks static type guarantees",
}

// bannedQualifiedCalls covers module-qualified dynamic entry points.
var bannedQualifiedCalls = map[string]string{
	"importlib.import_module": "dynamic imports are forbidden; performance cannot be proven",
}

// allowedImports is the closed set of importable modules.
var allowedImports = map[string]bool{
	"math": true,
}

// scanForbidden is the first verifier pass: a structural walk checking
// every node, reachable or not, against the disallowed construct set.
// It runs before and independently of the type pass so a forbidden
// construct is always reported even when unrelated type errors exist.
func scanForbidden(prog *ast.Program, diags *diagnostic.List) {
	ast.Walk(prog, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.Call:
			if node.Module == "" {
				if reason, banned := bannedCalls[node.Func]; banned {
					diags.Add(diagnostic.ForbiddenConstructError, node.Span(),
						"use of '%s' is forbidden: %s", node.Func, reason)
				}
				return
			}
			if reason, banned := bannedQualifiedCalls[node.Target()]; banned {
				diags.Add(diagnostic.ForbiddenConstructError, node.Span(),
					"use of '%s' is forbidden: %s", node.Target(), reason)
			}
		case *ast.Import:
			if !allowedImports[node.Module] {
				diags.Add(diagnostic.ForbiddenConstructError, node.Span(),
					"import of '%s' is forbidden: only 'import math' is supported", node.Module)
			}
		}
	})
}
