package ast

// Inspect traverses the tree rooted at n in source order, calling f for each node.
// If f returns false, the children of that node are skipped.
// Type references are visited too, so passes can find every type position.
func Inspect(n Node, f func(Node) bool) {
	if isNilNode(n) || !f(n) {
		return
	}
	switch n := n.(type) {
	case *CompilationUnit:
		for _, imp := range n.Imports {
			Inspect(imp, f)
		}
		for _, td := range n.Types {
			Inspect(td, f)
		}
	case *TypeDecl:
		for _, tp := range n.TypeParams {
			Inspect(tp, f)
		}
		walkTypes(n.Extends, f)
		walkTypes(n.Implements, f)
		for _, c := range n.Components {
			Inspect(c, f)
		}
		for _, c := range n.Constants {
			Inspect(c, f)
		}
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *TypeParam:
		walkTypes(n.Bounds, f)
	case *EnumConstant:
		walkExprs(n.Args, f)
	case *MethodDecl:
		for _, tp := range n.TypeParams {
			Inspect(tp, f)
		}
		inspectType(n.Result, f)
		for _, p := range n.Params {
			Inspect(p, f)
		}
		walkTypes(n.Throws, f)
		inspectBlock(n.Body, f)
	case *Param:
		inspectType(n.Type, f)
	case *FieldDecl:
		inspectType(n.Type, f)
		walkVars(n.Vars, f)
	case *VarDeclarator:
		inspectExpr(n.Init, f)
	case *Initializer:
		inspectBlock(n.Body, f)
	case *TypeRef:
		walkTypes(n.Args, f)
		inspectType(n.Of, f)

	case *Block:
		walkStmts(n.Stmts, f)
	case *LocalVarStmt:
		inspectType(n.Type, f)
		walkVars(n.Vars, f)
	case *ExprStmt:
		inspectExpr(n.X, f)
	case *ReturnStmt:
		inspectExpr(n.Result, f)
	case *IfStmt:
		inspectExpr(n.Cond, f)
		inspectStmt(n.Then, f)
		inspectStmt(n.Else, f)
	case *WhileStmt:
		inspectExpr(n.Cond, f)
		inspectStmt(n.Body, f)
	case *DoStmt:
		inspectStmt(n.Body, f)
		inspectExpr(n.Cond, f)
	case *ForStmt:
		walkStmts(n.Init, f)
		inspectExpr(n.Cond, f)
		walkExprs(n.Update, f)
		inspectStmt(n.Body, f)
	case *ForEachStmt:
		inspectType(n.Type, f)
		inspectExpr(n.Iter, f)
		inspectStmt(n.Body, f)
	case *ThrowStmt:
		inspectExpr(n.X, f)
	case *LabeledStmt:
		inspectStmt(n.Stmt, f)
	case *TryStmt:
		walkStmts(n.Resources, f)
		inspectBlock(n.Body, f)
		for _, c := range n.Catches {
			Inspect(c, f)
		}
		inspectBlock(n.Finally, f)
	case *CatchClause:
		walkTypes(n.Types, f)
		inspectBlock(n.Body, f)
	case *SyncStmt:
		inspectExpr(n.Lock, f)
		inspectBlock(n.Body, f)

	case *CallExpr:
		inspectExpr(n.Recv, f)
		walkTypes(n.TypeArgs, f)
		walkExprs(n.Args, f)
	case *NewExpr:
		inspectType(n.Type, f)
		walkExprs(n.Args, f)
	case *NewArrayExpr:
		inspectType(n.Elem, f)
		walkExprs(n.Dims, f)
		if n.Init != nil {
			Inspect(n.Init, f)
		}
	case *ArrayInit:
		walkExprs(n.Elems, f)
	case *CastExpr:
		inspectType(n.Type, f)
		inspectExpr(n.X, f)
	case *FieldExpr:
		inspectExpr(n.X, f)
	case *IndexExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Index, f)
	case *BinaryExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Y, f)
	case *UnaryExpr:
		inspectExpr(n.X, f)
	case *AssignExpr:
		inspectExpr(n.Lhs, f)
		inspectExpr(n.Rhs, f)
	case *CondExpr:
		inspectExpr(n.Cond, f)
		inspectExpr(n.Then, f)
		inspectExpr(n.Else, f)
	case *InstanceOfExpr:
		inspectExpr(n.X, f)
		inspectType(n.Type, f)
	case *ParenExpr:
		inspectExpr(n.X, f)
	case *ClassLit:
		inspectType(n.Type, f)
	}
}

// isNilNode catches typed nil pointers stored in interfaces.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *TypeRef:
		return n == nil
	case *Block:
		return n == nil
	case *ArrayInit:
		return n == nil
	}
	return false
}

func inspectType(t *TypeRef, f func(Node) bool) {
	if t != nil {
		Inspect(t, f)
	}
}

func inspectBlock(b *Block, f func(Node) bool) {
	if b != nil {
		Inspect(b, f)
	}
}

func inspectStmt(s Stmt, f func(Node) bool) {
	if s != nil {
		Inspect(s, f)
	}
}

func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func walkTypes(ts []*TypeRef, f func(Node) bool) {
	for _, t := range ts {
		inspectType(t, f)
	}
}

func walkVars(vs []*VarDeclarator, f func(Node) bool) {
	for _, v := range vs {
		Inspect(v, f)
	}
}

func walkStmts(ss []Stmt, f func(Node) bool) {
	for _, s := range ss {
		inspectStmt(s, f)
	}
}

func walkExprs(es []Expr, f func(Node) bool) {
	for _, e := range es {
		inspectExpr(e, f)
	}
}
