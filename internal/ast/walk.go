package ast

// Walk calls fn for n and then every node beneath it, depth-first in
// source order. The switch is exhaustive over the closed node set so
// a new construct cannot be skipped silently; the forbidden-construct
// scan relies on this visiting every node, reachable or not.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch node := n.(type) {
	case *Program:
		walkStmts(node.Body, fn)
	case *FunctionDef:
		for _, p := range node.Params {
			Walk(p, fn)
		}
		walkStmts(node.Body, fn)
	case *Param:
		// leaf
	case *Assign:
		Walk(node.Value, fn)
	case *IndexAssign:
		Walk(node.Target, fn)
		Walk(node.Value, fn)
	case *ForRange:
		Walk(node.Iter, fn)
		walkStmts(node.Body, fn)
	case *While:
		Walk(node.Cond, fn)
		walkStmts(node.Body, fn)
	case *IfElse:
		Walk(node.Cond, fn)
		walkStmts(node.Then, fn)
		walkStmts(node.Else, fn)
	case *Return:
		if node.Value != nil {
			Walk(node.Value, fn)
		}
	case *ExprStmt:
		Walk(node.X, fn)
	case *Import:
		// leaf
	case *IntLit, *FloatLit, *BoolLit, *StringLit, *Name:
		// leaves
	case *BinaryOp:
		Walk(node.Left, fn)
		Walk(node.Right, fn)
	case *Compare:
		Walk(node.Left, fn)
		Walk(node.Right, fn)
	case *ListLit:
		for _, e := range node.Elems {
			Walk(e, fn)
		}
	case *Index:
		Walk(node.X, fn)
		Walk(node.Idx, fn)
	case *Call:
		for _, a := range node.Args {
			Walk(a, fn)
		}
	}
}

func walkStmts(stmts []Stmt, fn func(Node)) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}
