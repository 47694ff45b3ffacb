package format

import "javamaybe/internal/ast"

func (p *printer) printBlock(b *ast.Block) {
	w := p.writer
	if b == nil {
		w.WriteString("{}")
		return
	}
	w.WriteString("{")
	w.Newline()
	w.IndentPush()
	for _, s := range b.Stmts {
		p.printStmt(s)
		w.Newline()
	}
	w.IndentPop()
	w.WriteString("}")
}

// printBody prints a statement used as a loop or branch body.
func (p *printer) printBody(s ast.Stmt) {
	w := p.writer
	if b, ok := s.(*ast.Block); ok {
		w.WriteString(" ")
		p.printBlock(b)
		return
	}
	w.Newline()
	w.IndentPush()
	p.printStmt(s)
	w.IndentPop()
}

func (p *printer) printLocalVar(s *ast.LocalVarStmt) {
	p.printModifiers(s.Modifiers)
	p.writer.WriteString(s.Type.String() + " ")
	p.printVars(s.Vars)
}

func (p *printer) printStmt(s ast.Stmt) {
	w := p.writer
	switch s := s.(type) {
	case *ast.Block:
		p.printBlock(s)
	case *ast.LocalVarStmt:
		p.printLocalVar(s)
		w.WriteString(";")
	case *ast.ExprStmt:
		p.printExpr(s.X)
		w.WriteString(";")
	case *ast.ReturnStmt:
		w.WriteString("return")
		if s.Result != nil {
			w.WriteString(" ")
			p.printExpr(s.Result)
		}
		w.WriteString(";")
	case *ast.IfStmt:
		w.WriteString("if (")
		p.printExpr(s.Cond)
		w.WriteString(")")
		p.printBody(s.Then)
		if s.Else != nil {
			if _, ok := s.Then.(*ast.Block); ok {
				w.WriteString(" else")
			} else {
				w.Newline()
				w.WriteString("else")
			}
			if elif, ok := s.Else.(*ast.IfStmt); ok {
				w.WriteString(" ")
				p.printStmt(elif)
			} else {
				p.printBody(s.Else)
			}
		}
	case *ast.WhileStmt:
		w.WriteString("while (")
		p.printExpr(s.Cond)
		w.WriteString(")")
		p.printBody(s.Body)
	case *ast.DoStmt:
		w.WriteString("do")
		p.printBody(s.Body)
		if _, ok := s.Body.(*ast.Block); ok {
			w.WriteString(" ")
		} else {
			w.Newline()
		}
		w.WriteString("while (")
		p.printExpr(s.Cond)
		w.WriteString(");")
	case *ast.ForStmt:
		w.WriteString("for (")
		for i, in := range s.Init {
			if i > 0 {
				w.WriteString(", ")
			}
			switch in := in.(type) {
			case *ast.LocalVarStmt:
				p.printLocalVar(in)
			case *ast.ExprStmt:
				p.printExpr(in.X)
			}
		}
		w.WriteString(";")
		if s.Cond != nil {
			w.WriteString(" ")
			p.printExpr(s.Cond)
		}
		w.WriteString(";")
		for i, up := range s.Update {
			if i > 0 {
				w.WriteString(",")
			}
			w.WriteString(" ")
			p.printExpr(up)
		}
		w.WriteString(")")
		p.printBody(s.Body)
	case *ast.ForEachStmt:
		w.WriteString("for (")
		p.printModifiers(s.Modifiers)
		w.WriteString(s.Type.String() + " " + s.Name + " : ")
		p.printExpr(s.Iter)
		w.WriteString(")")
		p.printBody(s.Body)
	case *ast.ThrowStmt:
		w.WriteString("throw ")
		p.printExpr(s.X)
		w.WriteString(";")
	case *ast.BranchStmt:
		w.WriteString(s.Tok)
		if s.Label != "" {
			w.WriteString(" " + s.Label)
		}
		w.WriteString(";")
	case *ast.LabeledStmt:
		w.WriteString(s.Label + ":")
		p.printBody(s.Stmt)
	case *ast.TryStmt:
		p.printTry(s)
	case *ast.SyncStmt:
		w.WriteString("synchronized (")
		p.printExpr(s.Lock)
		w.WriteString(") ")
		p.printBlock(s.Body)
	case *ast.EmptyStmt:
		w.WriteString(";")
	case *ast.RawStmt:
		w.WriteRaw(s.Text)
	}
}

func (p *printer) printTry(s *ast.TryStmt) {
	w := p.writer
	w.WriteString("try ")
	if len(s.Resources) > 0 {
		w.WriteString("(")
		for i, r := range s.Resources {
			if i > 0 {
				w.WriteString("; ")
			}
			switch r := r.(type) {
			case *ast.LocalVarStmt:
				p.printLocalVar(r)
			case *ast.ExprStmt:
				p.printExpr(r.X)
			}
		}
		w.WriteString(") ")
	}
	p.printBlock(s.Body)
	for _, c := range s.Catches {
		w.WriteString(" catch (")
		p.printModifiers(c.Modifiers)
		for i, t := range c.Types {
			if i > 0 {
				w.WriteString(" | ")
			}
			w.WriteString(t.String())
		}
		w.WriteString(" " + c.Name + ") ")
		p.printBlock(c.Body)
	}
	if s.Finally != nil {
		w.WriteString(" finally ")
		p.printBlock(s.Finally)
	}
}
