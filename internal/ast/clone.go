package ast

import "slices"

// CloneMethod deep-copies a method declaration. The copy shares no nodes with m.
func CloneMethod(m *MethodDecl) *MethodDecl {
	if m == nil {
		return nil
	}
	out := *m
	out.Modifiers = slices.Clone(m.Modifiers)
	out.TypeParams = cloneTypeParams(m.TypeParams)
	out.Result = CloneType(m.Result)
	out.Params = make([]*Param, len(m.Params))
	for i, p := range m.Params {
		out.Params[i] = CloneParam(p)
	}
	out.Throws = cloneTypes(m.Throws)
	out.Body = CloneBlock(m.Body)
	return &out
}

// CloneParam deep-copies a parameter.
func CloneParam(p *Param) *Param {
	if p == nil {
		return nil
	}
	out := *p
	out.Modifiers = slices.Clone(p.Modifiers)
	out.Type = CloneType(p.Type)
	return &out
}

// CloneType deep-copies a type reference.
func CloneType(t *TypeRef) *TypeRef {
	if t == nil {
		return nil
	}
	out := *t
	out.Args = cloneTypes(t.Args)
	out.Of = CloneType(t.Of)
	return &out
}

func cloneTypes(ts []*TypeRef) []*TypeRef {
	if ts == nil {
		return nil
	}
	out := make([]*TypeRef, len(ts))
	for i, t := range ts {
		out[i] = CloneType(t)
	}
	return out
}

func cloneTypeParams(tps []*TypeParam) []*TypeParam {
	if tps == nil {
		return nil
	}
	out := make([]*TypeParam, len(tps))
	for i, tp := range tps {
		c := *tp
		c.Bounds = cloneTypes(tp.Bounds)
		out[i] = &c
	}
	return out
}

func cloneVars(vs []*VarDeclarator) []*VarDeclarator {
	if vs == nil {
		return nil
	}
	out := make([]*VarDeclarator, len(vs))
	for i, v := range vs {
		c := *v
		c.Init = CloneExpr(v.Init)
		out[i] = &c
	}
	return out
}

// CloneBlock deep-copies a block.
func CloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	out := &Block{Span: b.Span}
	if b.Stmts != nil {
		out.Stmts = make([]Stmt, len(b.Stmts))
		for i, s := range b.Stmts {
			out.Stmts[i] = CloneStmt(s)
		}
	}
	return out
}

func cloneStmts(ss []Stmt) []Stmt {
	if ss == nil {
		return nil
	}
	out := make([]Stmt, len(ss))
	for i, s := range ss {
		out[i] = CloneStmt(s)
	}
	return out
}

// CloneStmt deep-copies a statement.
func CloneStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case nil:
		return nil
	case *Block:
		return CloneBlock(s)
	case *LocalVarStmt:
		out := *s
		out.Modifiers = slices.Clone(s.Modifiers)
		out.Type = CloneType(s.Type)
		out.Vars = cloneVars(s.Vars)
		return &out
	case *ExprStmt:
		return &ExprStmt{Span: s.Span, X: CloneExpr(s.X)}
	case *ReturnStmt:
		return &ReturnStmt{Span: s.Span, Result: CloneExpr(s.Result)}
	case *IfStmt:
		return &IfStmt{Span: s.Span, Cond: CloneExpr(s.Cond), Then: CloneStmt(s.Then), Else: CloneStmt(s.Else)}
	case *WhileStmt:
		return &WhileStmt{Span: s.Span, Cond: CloneExpr(s.Cond), Body: CloneStmt(s.Body)}
	case *DoStmt:
		return &DoStmt{Span: s.Span, Body: CloneStmt(s.Body), Cond: CloneExpr(s.Cond)}
	case *ForStmt:
		return &ForStmt{
			Span:   s.Span,
			Init:   cloneStmts(s.Init),
			Cond:   CloneExpr(s.Cond),
			Update: cloneExprs(s.Update),
			Body:   CloneStmt(s.Body),
		}
	case *ForEachStmt:
		out := *s
		out.Modifiers = slices.Clone(s.Modifiers)
		out.Type = CloneType(s.Type)
		out.Iter = CloneExpr(s.Iter)
		out.Body = CloneStmt(s.Body)
		return &out
	case *ThrowStmt:
		return &ThrowStmt{Span: s.Span, X: CloneExpr(s.X)}
	case *BranchStmt:
		out := *s
		return &out
	case *LabeledStmt:
		return &LabeledStmt{Span: s.Span, Label: s.Label, Stmt: CloneStmt(s.Stmt)}
	case *TryStmt:
		out := &TryStmt{
			Span:      s.Span,
			Resources: cloneStmts(s.Resources),
			Body:      CloneBlock(s.Body),
			Finally:   CloneBlock(s.Finally),
		}
		for _, c := range s.Catches {
			cc := *c
			cc.Modifiers = slices.Clone(c.Modifiers)
			cc.Types = cloneTypes(c.Types)
			cc.Body = CloneBlock(c.Body)
			out.Catches = append(out.Catches, &cc)
		}
		return out
	case *SyncStmt:
		return &SyncStmt{Span: s.Span, Lock: CloneExpr(s.Lock), Body: CloneBlock(s.Body)}
	case *EmptyStmt:
		return &EmptyStmt{Span: s.Span}
	case *RawStmt:
		out := *s
		return &out
	default:
		panic("ast: CloneStmt: unexpected statement type")
	}
}

func cloneExprs(es []Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = CloneExpr(e)
	}
	return out
}

// CloneExpr deep-copies an expression.
func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *Ident:
		out := *e
		return &out
	case *Literal:
		out := *e
		return &out
	case *ThisExpr:
		out := *e
		return &out
	case *CallExpr:
		return &CallExpr{
			Span:     e.Span,
			Recv:     CloneExpr(e.Recv),
			TypeArgs: cloneTypes(e.TypeArgs),
			Name:     e.Name,
			Args:     cloneExprs(e.Args),
		}
	case *NewExpr:
		return &NewExpr{Span: e.Span, Type: CloneType(e.Type), Args: cloneExprs(e.Args), Body: e.Body}
	case *NewArrayExpr:
		out := &NewArrayExpr{Span: e.Span, Elem: CloneType(e.Elem), Dims: cloneExprs(e.Dims), ExtraDims: e.ExtraDims}
		if e.Init != nil {
			out.Init = &ArrayInit{Span: e.Init.Span, Elems: cloneExprs(e.Init.Elems)}
		}
		return out
	case *ArrayInit:
		return &ArrayInit{Span: e.Span, Elems: cloneExprs(e.Elems)}
	case *CastExpr:
		return &CastExpr{Span: e.Span, Type: CloneType(e.Type), X: CloneExpr(e.X)}
	case *FieldExpr:
		return &FieldExpr{Span: e.Span, X: CloneExpr(e.X), Name: e.Name}
	case *IndexExpr:
		return &IndexExpr{Span: e.Span, X: CloneExpr(e.X), Index: CloneExpr(e.Index)}
	case *BinaryExpr:
		return &BinaryExpr{Span: e.Span, Op: e.Op, X: CloneExpr(e.X), Y: CloneExpr(e.Y)}
	case *UnaryExpr:
		return &UnaryExpr{Span: e.Span, Op: e.Op, X: CloneExpr(e.X), Postfix: e.Postfix}
	case *AssignExpr:
		return &AssignExpr{Span: e.Span, Op: e.Op, Lhs: CloneExpr(e.Lhs), Rhs: CloneExpr(e.Rhs)}
	case *CondExpr:
		return &CondExpr{Span: e.Span, Cond: CloneExpr(e.Cond), Then: CloneExpr(e.Then), Else: CloneExpr(e.Else)}
	case *InstanceOfExpr:
		return &InstanceOfExpr{Span: e.Span, X: CloneExpr(e.X), Type: CloneType(e.Type), Binding: e.Binding}
	case *ParenExpr:
		return &ParenExpr{Span: e.Span, X: CloneExpr(e.X)}
	case *ClassLit:
		return &ClassLit{Span: e.Span, Type: CloneType(e.Type)}
	case *RawExpr:
		out := *e
		return &out
	default:
		panic("ast: CloneExpr: unexpected expression type")
	}
}
