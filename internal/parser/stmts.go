package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"javamaybe/internal/ast"
)

// block handles both `block` and `constructor_body`.
func (b *builder) block(n *sitter.Node) (*ast.Block, error) {
	if n == nil {
		return nil, nil
	}
	blk := &ast.Block{Span: b.span(n), Stmts: []ast.Stmt{}}
	for _, c := range namedWithComments(n) {
		if isComment(c) {
			blk.Stmts = append(blk.Stmts, &ast.RawStmt{Span: b.span(c), Text: b.text(c)})
			continue
		}
		s, err := b.stmt(c)
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, s)
	}
	return blk, nil
}

func (b *builder) stmt(n *sitter.Node) (ast.Stmt, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind() {
	case "block":
		return b.block(n)
	case "local_variable_declaration":
		return b.localVar(n)
	case "expression_statement":
		inner := named(n)
		if len(inner) != 1 {
			return b.rawStmt(n, "expression statement"), nil
		}
		x, err := b.expr(inner[0])
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Span: b.span(n), X: x}, nil
	case "explicit_constructor_invocation":
		return b.ctorInvocation(n)
	case "return_statement":
		rs := &ast.ReturnStmt{Span: b.span(n)}
		if inner := named(n); len(inner) > 0 {
			x, err := b.expr(inner[0])
			if err != nil {
				return nil, err
			}
			rs.Result = x
		}
		return rs, nil
	case "if_statement":
		cond, err := b.expr(n.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		then, err := b.stmt(n.ChildByFieldName("consequence"))
		if err != nil {
			return nil, err
		}
		is := &ast.IfStmt{Span: b.span(n), Cond: ast.Unparen(cond), Then: then}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if is.Else, err = b.stmt(alt); err != nil {
				return nil, err
			}
		}
		return is, nil
	case "while_statement":
		cond, err := b.expr(n.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		body, err := b.stmt(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Span: b.span(n), Cond: ast.Unparen(cond), Body: body}, nil
	case "do_statement":
		body, err := b.stmt(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		cond, err := b.expr(n.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		return &ast.DoStmt{Span: b.span(n), Body: body, Cond: ast.Unparen(cond)}, nil
	case "for_statement":
		return b.forStmt(n)
	case "enhanced_for_statement":
		iter, err := b.expr(n.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		body, err := b.stmt(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return &ast.ForEachStmt{
			Span:      b.span(n),
			Modifiers: b.modifiers(n),
			Type:      b.typeRef(n.ChildByFieldName("type")),
			Name:      b.text(n.ChildByFieldName("name")),
			Iter:      iter,
			Body:      body,
		}, nil
	case "throw_statement":
		inner := named(n)
		if len(inner) == 0 {
			return b.rawStmt(n, "throw"), nil
		}
		x, err := b.expr(inner[0])
		if err != nil {
			return nil, err
		}
		return &ast.ThrowStmt{Span: b.span(n), X: x}, nil
	case "break_statement", "continue_statement":
		bs := &ast.BranchStmt{Span: b.span(n), Tok: "break"}
		if n.Kind() == "continue_statement" {
			bs.Tok = "continue"
		}
		if id := childOfKind(n, "identifier"); id != nil {
			bs.Label = b.text(id)
		}
		return bs, nil
	case "labeled_statement":
		inner := named(n)
		if len(inner) < 2 {
			return b.rawStmt(n, "labeled statement"), nil
		}
		s, err := b.stmt(inner[len(inner)-1])
		if err != nil {
			return nil, err
		}
		return &ast.LabeledStmt{Span: b.span(n), Label: b.text(inner[0]), Stmt: s}, nil
	case "try_statement", "try_with_resources_statement":
		return b.tryStmt(n)
	case "synchronized_statement":
		lock := childOfKind(n, "parenthesized_expression")
		x, err := b.expr(lock)
		if err != nil {
			return nil, err
		}
		body, err := b.block(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return &ast.SyncStmt{Span: b.span(n), Lock: ast.Unparen(x), Body: body}, nil
	case ";":
		return &ast.EmptyStmt{Span: b.span(n)}, nil
	case "ERROR":
		if b.strict {
			return nil, b.syntaxError(n)
		}
		return &ast.RawStmt{Span: b.span(n), Text: b.text(n)}, nil
	default:
		return b.rawStmt(n, "statement"), nil
	}
}

func (b *builder) rawStmt(n *sitter.Node, what string) ast.Stmt {
	b.unsupported(n, what)
	return &ast.RawStmt{Span: b.span(n), Text: b.text(n)}
}

func (b *builder) localVar(n *sitter.Node) (*ast.LocalVarStmt, error) {
	vars, err := b.declarators(n)
	if err != nil {
		return nil, err
	}
	return &ast.LocalVarStmt{
		Span:      b.span(n),
		Modifiers: b.modifiers(n),
		Type:      b.typeRef(n.ChildByFieldName("type")),
		Vars:      vars,
	}, nil
}

// ctorInvocation lowers this(...) / super(...) into a call statement.
func (b *builder) ctorInvocation(n *sitter.Node) (ast.Stmt, error) {
	ctor := n.ChildByFieldName("constructor")
	if ctor == nil || n.ChildByFieldName("object") != nil {
		return b.rawStmt(n, "qualified constructor invocation"), nil
	}
	args, err := b.args(n.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	call := &ast.CallExpr{Span: b.span(n), Name: b.text(ctor), Args: args}
	return &ast.ExprStmt{Span: b.span(n), X: call}, nil
}

func (b *builder) forStmt(n *sitter.Node) (ast.Stmt, error) {
	fs := &ast.ForStmt{Span: b.span(n)}
	for _, in := range fieldAll(n, "init") {
		if in.Kind() == "local_variable_declaration" {
			lv, err := b.localVar(in)
			if err != nil {
				return nil, err
			}
			fs.Init = append(fs.Init, lv)
			continue
		}
		x, err := b.expr(in)
		if err != nil {
			return nil, err
		}
		fs.Init = append(fs.Init, &ast.ExprStmt{Span: b.span(in), X: x})
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		x, err := b.expr(cond)
		if err != nil {
			return nil, err
		}
		fs.Cond = x
	}
	for _, up := range fieldAll(n, "update") {
		x, err := b.expr(up)
		if err != nil {
			return nil, err
		}
		fs.Update = append(fs.Update, x)
	}
	body, err := b.stmt(n.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	fs.Body = body
	return fs, nil
}

func (b *builder) tryStmt(n *sitter.Node) (ast.Stmt, error) {
	ts := &ast.TryStmt{Span: b.span(n)}
	if res := n.ChildByFieldName("resources"); res != nil {
		for _, r := range named(res) {
			if r.Kind() != "resource" {
				continue
			}
			if typ := r.ChildByFieldName("type"); typ != nil {
				init, err := b.expr(r.ChildByFieldName("value"))
				if err != nil {
					return nil, err
				}
				ts.Resources = append(ts.Resources, &ast.LocalVarStmt{
					Span:      b.span(r),
					Modifiers: b.modifiers(r),
					Type:      b.typeRef(typ),
					Vars: []*ast.VarDeclarator{{
						Span: b.span(r),
						Name: b.text(r.ChildByFieldName("name")),
						Init: init,
					}},
				})
				continue
			}
			inner := named(r)
			if len(inner) == 0 {
				continue
			}
			x, err := b.expr(inner[0])
			if err != nil {
				return nil, err
			}
			ts.Resources = append(ts.Resources, &ast.ExprStmt{Span: b.span(r), X: x})
		}
	}
	body, err := b.block(n.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	ts.Body = body
	for _, c := range named(n) {
		switch c.Kind() {
		case "catch_clause":
			cc, err := b.catchClause(c)
			if err != nil {
				return nil, err
			}
			ts.Catches = append(ts.Catches, cc)
		case "finally_clause":
			fin, err := b.block(childOfKind(c, "block"))
			if err != nil {
				return nil, err
			}
			ts.Finally = fin
		}
	}
	return ts, nil
}

func (b *builder) catchClause(n *sitter.Node) (*ast.CatchClause, error) {
	cc := &ast.CatchClause{Span: b.span(n)}
	if p := childOfKind(n, "catch_formal_parameter"); p != nil {
		cc.Modifiers = b.modifiers(p)
		cc.Name = b.text(p.ChildByFieldName("name"))
		if ct := childOfKind(p, "catch_type"); ct != nil {
			for _, t := range named(ct) {
				cc.Types = append(cc.Types, b.typeRef(t))
			}
		}
	}
	body, err := b.block(n.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	cc.Body = body
	return cc, nil
}
