package format

import "javamaybe/internal/ast"

func (p *printer) printArgs(args []ast.Expr) {
	w := p.writer
	w.WriteString("(")
	for i, a := range args {
		if i > 0 {
			w.WriteString(", ")
		}
		p.printExpr(a)
	}
	w.WriteString(")")
}

func (p *printer) printTypeArgs(ts []*ast.TypeRef) {
	w := p.writer
	w.WriteString("<")
	for i, t := range ts {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(t.String())
	}
	w.WriteString(">")
}

// Parentheses come from the tree: the parser keeps ParenExpr and rewrites
// only swap types, so no precedence handling is needed here.
func (p *printer) printExpr(e ast.Expr) {
	w := p.writer
	switch e := e.(type) {
	case nil:
	case *ast.Ident:
		w.WriteString(e.Name)
	case *ast.Literal:
		w.WriteString(e.Value)
	case *ast.ThisExpr:
		if e.Qualifier != "" {
			w.WriteString(e.Qualifier + ".")
		}
		w.WriteString("this")
	case *ast.CallExpr:
		if e.Recv != nil {
			p.printExpr(e.Recv)
			w.WriteString(".")
		}
		if e.TypeArgs != nil {
			p.printTypeArgs(e.TypeArgs)
		}
		w.WriteString(e.Name)
		p.printArgs(e.Args)
	case *ast.NewExpr:
		w.WriteString("new " + e.Type.String())
		p.printArgs(e.Args)
		if e.Body != "" {
			w.WriteString(" ")
			w.WriteRaw(e.Body)
		}
	case *ast.NewArrayExpr:
		w.WriteString("new " + e.Elem.String())
		for _, d := range e.Dims {
			w.WriteString("[")
			p.printExpr(d)
			w.WriteString("]")
		}
		for range e.ExtraDims {
			w.WriteString("[]")
		}
		if e.Init != nil {
			w.WriteString(" ")
			p.printExpr(e.Init)
		}
	case *ast.ArrayInit:
		w.WriteString("{")
		for i, x := range e.Elems {
			if i > 0 {
				w.WriteString(", ")
			}
			p.printExpr(x)
		}
		w.WriteString("}")
	case *ast.CastExpr:
		w.WriteString("(" + e.Type.String() + ") ")
		p.printExpr(e.X)
	case *ast.FieldExpr:
		p.printExpr(e.X)
		w.WriteString("." + e.Name)
	case *ast.IndexExpr:
		p.printExpr(e.X)
		w.WriteString("[")
		p.printExpr(e.Index)
		w.WriteString("]")
	case *ast.BinaryExpr:
		p.printExpr(e.X)
		w.WriteString(" " + e.Op + " ")
		p.printExpr(e.Y)
	case *ast.UnaryExpr:
		if e.Postfix {
			p.printExpr(e.X)
			w.WriteString(e.Op)
			return
		}
		w.WriteString(e.Op)
		p.printExpr(e.X)
	case *ast.AssignExpr:
		p.printExpr(e.Lhs)
		w.WriteString(" " + e.Op + " ")
		p.printExpr(e.Rhs)
	case *ast.CondExpr:
		p.printExpr(e.Cond)
		w.WriteString(" ? ")
		p.printExpr(e.Then)
		w.WriteString(" : ")
		p.printExpr(e.Else)
	case *ast.InstanceOfExpr:
		p.printExpr(e.X)
		w.WriteString(" instanceof " + e.Type.String())
		if e.Binding != "" {
			w.WriteString(" " + e.Binding)
		}
	case *ast.ParenExpr:
		w.WriteString("(")
		p.printExpr(e.X)
		w.WriteString(")")
	case *ast.ClassLit:
		w.WriteString(e.Type.String() + ".class")
	case *ast.RawExpr:
		w.WriteRaw(e.Text)
	}
}
