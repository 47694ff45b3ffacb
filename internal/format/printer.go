package format

import (
	"errors"
	"slices"
	"strings"

	"javamaybe/internal/ast"
	"javamaybe/internal/parser"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	writer *Writer
	opt    Options
}

// FormatUnit prints the whole compilation unit.
func FormatUnit(u *ast.CompilationUnit, opt Options) ([]byte, error) {
	if u == nil {
		return nil, errors.New("format: nil compilation unit")
	}
	opt = opt.withDefaults()
	pr := printer{writer: NewWriter(opt), opt: opt}
	pr.printUnit(u)
	return pr.writer.Bytes(), nil
}

// Method prints a single method declaration; used in diagnostics and tests.
func Method(m *ast.MethodDecl, opt Options) string {
	opt = opt.withDefaults()
	pr := printer{writer: NewWriter(opt), opt: opt}
	pr.printMethod(m)
	return strings.TrimRight(string(pr.writer.Bytes()), "\n")
}

// Expr prints a single expression.
func Expr(e ast.Expr) string {
	pr := printer{writer: NewWriter(Options{}), opt: Options{}.withDefaults()}
	pr.printExpr(e)
	return string(pr.writer.Bytes())
}

func (p *printer) printUnit(u *ast.CompilationUnit) {
	w := p.writer
	if u.Header != "" {
		w.WriteRaw(u.Header)
		w.Newline()
	}
	if u.Package != "" {
		w.WriteString("package " + u.Package + ";")
		w.Newline()
	}
	if len(u.Imports) > 0 {
		if u.Package != "" || u.Header != "" {
			w.BlankLine()
		}
		for _, imp := range u.Imports {
			p.printImport(imp)
		}
	}
	for _, td := range u.Types {
		if len(w.Bytes()) > 0 {
			w.BlankLine()
		}
		p.printTypeDecl(td)
	}
	w.Newline()
}

func (p *printer) printImport(imp *ast.Import) {
	w := p.writer
	w.WriteString("import ")
	if imp.Static {
		w.WriteString("static ")
	}
	w.WriteString(imp.Path)
	if imp.Wildcard {
		w.WriteString(".*")
	}
	w.WriteString(";")
	w.Newline()
}

// CheckRoundTrip formats the unit, re-parses the output and checks that the
// type and method shape survived printing.
func CheckRoundTrip(u *ast.CompilationUnit, opt Options) (ok bool, msg string) {
	out, err := FormatUnit(u, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}
	again, err := parser.ParseString(string(out))
	if err != nil {
		return false, "fmt-check: reparse failed: " + err.Error()
	}
	if !slices.Equal(shape(u), shape(again)) {
		return false, "fmt-check: declarations differ after round-trip"
	}
	return true, "fmt-check: OK"
}

func shape(u *ast.CompilationUnit) []string {
	var out []string
	var visit func(td *ast.TypeDecl)
	visit = func(td *ast.TypeDecl) {
		out = append(out, td.Kind.String()+" "+td.Name)
		for _, m := range td.Members {
			switch m := m.(type) {
			case *ast.MethodDecl:
				out = append(out, m.Signature())
			case *ast.TypeDecl:
				visit(m)
			}
		}
	}
	for _, td := range u.Types {
		visit(td)
	}
	return out
}
