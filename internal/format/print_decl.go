package format

import (
	"strings"

	"javamaybe/internal/ast"
)

func (p *printer) printModifiers(mods []string) {
	for _, m := range mods {
		p.writer.WriteString(m)
		p.writer.WriteByte(' ') //nolint:errcheck
	}
}

func (p *printer) printTypeParams(tps []*ast.TypeParam) {
	if len(tps) == 0 {
		return
	}
	w := p.writer
	w.WriteString("<")
	for i, tp := range tps {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(tp.Name)
		for j, b := range tp.Bounds {
			if j == 0 {
				w.WriteString(" extends ")
			} else {
				w.WriteString(" & ")
			}
			w.WriteString(b.String())
		}
	}
	w.WriteString(">")
}

func (p *printer) printTypeList(keyword string, ts []*ast.TypeRef) {
	if len(ts) == 0 {
		return
	}
	w := p.writer
	w.WriteString(" " + keyword + " ")
	for i, t := range ts {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(t.String())
	}
}

func (p *printer) printTypeDecl(td *ast.TypeDecl) {
	w := p.writer
	p.printModifiers(td.Modifiers)
	w.WriteString(td.Kind.String() + " " + td.Name)
	p.printTypeParams(td.TypeParams)
	if td.Kind == ast.KindRecord {
		p.printParams(td.Components)
	}
	p.printTypeList("extends", td.Extends)
	p.printTypeList("implements", td.Implements)
	w.WriteString(" {")
	w.Newline()
	w.IndentPush()

	if td.Kind == ast.KindEnum {
		for i, c := range td.Constants {
			w.WriteString(c.Name)
			if c.Args != nil {
				p.printArgs(c.Args)
			}
			if c.Body != "" {
				w.WriteString(" ")
				w.WriteRaw(c.Body)
			}
			if i < len(td.Constants)-1 {
				w.WriteString(",")
			} else if len(td.Members) > 0 {
				w.WriteString(";")
			}
			w.Newline()
		}
		if len(td.Constants) == 0 && len(td.Members) > 0 {
			w.WriteString(";")
			w.Newline()
		}
	}

	for i, m := range td.Members {
		// комментарий остаётся приклеенным к следующему члену
		if i > 0 && !isCommentMember(td.Members[i-1]) || i == 0 && len(td.Constants) > 0 {
			w.BlankLine()
		}
		p.printMember(m)
	}

	w.IndentPop()
	w.Newline()
	w.WriteString("}")
}

func isCommentMember(m ast.Member) bool {
	raw, ok := m.(*ast.RawMember)
	if !ok {
		return false
	}
	t := strings.TrimSpace(raw.Text)
	return strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*")
}

func (p *printer) printMember(m ast.Member) {
	w := p.writer
	switch m := m.(type) {
	case *ast.MethodDecl:
		p.printMethod(m)
	case *ast.FieldDecl:
		p.printModifiers(m.Modifiers)
		w.WriteString(m.Type.String() + " ")
		p.printVars(m.Vars)
		w.WriteString(";")
	case *ast.TypeDecl:
		p.printTypeDecl(m)
	case *ast.Initializer:
		if m.Static {
			w.WriteString("static ")
		}
		p.printBlock(m.Body)
	case *ast.RawMember:
		w.WriteRaw(m.Text)
	}
	w.Newline()
}

func (p *printer) printMethod(m *ast.MethodDecl) {
	w := p.writer
	p.printModifiers(m.Modifiers)
	if len(m.TypeParams) > 0 {
		p.printTypeParams(m.TypeParams)
		w.WriteString(" ")
	}
	if !m.Constructor && m.Result != nil {
		w.WriteString(m.Result.String() + " ")
	}
	w.WriteString(m.Name)
	p.printParams(m.Params)
	p.printTypeList("throws", m.Throws)
	if m.Body == nil {
		w.WriteString(";")
		return
	}
	w.WriteString(" ")
	p.printBlock(m.Body)
}

func (p *printer) printParams(params []*ast.Param) {
	w := p.writer
	w.WriteString("(")
	for i, prm := range params {
		if i > 0 {
			w.WriteString(", ")
		}
		p.printModifiers(prm.Modifiers)
		w.WriteString(prm.Type.String())
		if prm.Varargs {
			w.WriteString("...")
		}
		w.WriteString(" " + prm.Name)
	}
	w.WriteString(")")
}

func (p *printer) printVars(vars []*ast.VarDeclarator) {
	w := p.writer
	for i, v := range vars {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(v.Name)
		for range v.Dims {
			w.WriteString("[]")
		}
		if v.Init != nil {
			w.WriteString(" = ")
			p.printExpr(v.Init)
		}
	}
}
