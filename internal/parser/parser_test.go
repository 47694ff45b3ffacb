package parser

import (
	"errors"
	"slices"
	"testing"

	"javamaybe/internal/ast"
	"javamaybe/internal/diag"
)

const sample = `// header
package demo.app;

import java.util.List;
import static java.lang.Math.*;
import javamaybe.Any;

public class Calc<T extends Comparable<T>> {
	private int count = 0, other;

	public static void m(Any a, int b) {
		Any copy = a;
		System.out.println(copy + b);
	}

	void run() {
		m("x", 1);
		this.m(2.0, 3);
		for (int i = 0; i < 3; i++) {
			count += i;
		}
		Runnable r = () -> {};
	}

	Calc() {
		this(1);
	}
}
`

func TestParseUnitShape(t *testing.T) {
	u, err := ParseString(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Package != "demo.app" {
		t.Fatalf("package = %q", u.Package)
	}
	if u.Header != "// header" {
		t.Fatalf("header = %q", u.Header)
	}
	if len(u.Imports) != 3 {
		t.Fatalf("imports = %d", len(u.Imports))
	}
	if imp := u.Imports[1]; !imp.Static || !imp.Wildcard || imp.Path != "java.lang.Math" {
		t.Fatalf("static import = %+v", imp)
	}
	if u.Imports[2].Path != "javamaybe.Any" {
		t.Fatalf("marker import = %+v", u.Imports[2])
	}
	if len(u.Types) != 1 {
		t.Fatalf("types = %d", len(u.Types))
	}
	td := u.Types[0]
	if td.Name != "Calc" || td.Kind != ast.KindClass {
		t.Fatalf("type = %s %s", td.Kind, td.Name)
	}
	if len(td.TypeParams) != 1 || td.TypeParams[0].Name != "T" || len(td.TypeParams[0].Bounds) != 1 {
		t.Fatalf("type params = %+v", td.TypeParams)
	}

	methods := td.Methods()
	if len(methods) != 2 {
		t.Fatalf("methods = %d", len(methods))
	}
	m := methods[0]
	if m.Signature() != "m(Any, int)" {
		t.Fatalf("signature = %q", m.Signature())
	}
	if !slices.Equal(m.Modifiers, []string{"public", "static"}) {
		t.Fatalf("modifiers = %v", m.Modifiers)
	}
	if len(m.Body.Stmts) != 2 {
		t.Fatalf("body stmts = %d", len(m.Body.Stmts))
	}
	lv, ok := m.Body.Stmts[0].(*ast.LocalVarStmt)
	if !ok || lv.Type.String() != "Any" || lv.Vars[0].Name != "copy" {
		t.Fatalf("local = %#v", m.Body.Stmts[0])
	}
	if id, ok := lv.Vars[0].Init.(*ast.Ident); !ok || id.Name != "a" {
		t.Fatalf("init = %#v", lv.Vars[0].Init)
	}

	fd, ok := td.Members[0].(*ast.FieldDecl)
	if !ok || len(fd.Vars) != 2 || fd.Vars[0].Init == nil || fd.Vars[1].Init != nil {
		t.Fatalf("field = %#v", td.Members[0])
	}
}

func TestParseCallsAndRawLambda(t *testing.T) {
	u, err := ParseString(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	run := u.Types[0].Methods()[1]
	var calls []*ast.CallExpr
	raws := 0
	ast.Inspect(run.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpr:
			calls = append(calls, n)
		case *ast.RawExpr:
			raws++
		}
		return true
	})
	if len(calls) != 2 {
		t.Fatalf("calls = %d", len(calls))
	}
	if calls[0].Recv != nil || len(calls[0].Args) != 2 {
		t.Fatalf("first call = %#v", calls[0])
	}
	if lit, ok := calls[0].Args[0].(*ast.Literal); !ok || lit.Kind != ast.LitString {
		t.Fatalf("first arg = %#v", calls[0].Args[0])
	}
	if _, ok := calls[1].Recv.(*ast.ThisExpr); !ok {
		t.Fatalf("second recv = %#v", calls[1].Recv)
	}
	if lit, ok := calls[1].Args[0].(*ast.Literal); !ok || lit.Kind != ast.LitDouble {
		t.Fatalf("second arg = %#v", calls[1].Args[0])
	}
	if raws != 1 {
		t.Fatalf("raw exprs = %d", raws)
	}
}

func TestParseConstructor(t *testing.T) {
	u, err := ParseString(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var ctor *ast.MethodDecl
	for _, mem := range u.Types[0].Members {
		if m, ok := mem.(*ast.MethodDecl); ok && m.Constructor {
			ctor = m
		}
	}
	if ctor == nil || ctor.Result != nil {
		t.Fatalf("constructor = %#v", ctor)
	}
	es, ok := ctor.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("ctor stmt = %#v", ctor.Body.Stmts[0])
	}
	if call, ok := es.X.(*ast.CallExpr); !ok || call.Name != "this" || len(call.Args) != 1 {
		t.Fatalf("ctor call = %#v", es.X)
	}
}

func TestParseEnumAndRecord(t *testing.T) {
	src := `enum Color { RED, GREEN("g"); private String code; Color() {} Color(String c) { code = c; } }
record Point(int x, int y) { int sum() { return x + y; } }`
	u, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(u.Types) != 2 {
		t.Fatalf("types = %d", len(u.Types))
	}
	en := u.Types[0]
	if en.Kind != ast.KindEnum || len(en.Constants) != 2 {
		t.Fatalf("enum = %+v", en)
	}
	if en.Constants[0].Args != nil || len(en.Constants[1].Args) != 1 {
		t.Fatalf("constants = %+v %+v", en.Constants[0], en.Constants[1])
	}
	if len(en.Members) != 3 {
		t.Fatalf("enum members = %d", len(en.Members))
	}
	rec := u.Types[1]
	if rec.Kind != ast.KindRecord || len(rec.Components) != 2 || rec.Components[1].Name != "y" {
		t.Fatalf("record = %+v", rec)
	}
	if len(rec.Methods()) != 1 {
		t.Fatalf("record methods = %d", len(rec.Methods()))
	}
}

func TestParseTryAndVarargs(t *testing.T) {
	src := `class R {
	void f(String... xs) throws java.io.IOException {
		try (java.io.Reader r = open()) {
			r.read();
		} catch (IllegalStateException | IllegalArgumentException e) {
			throw e;
		} finally {
			close();
		}
	}
}`
	u, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := u.Types[0].Methods()[0]
	if len(m.Params) != 1 || !m.Params[0].Varargs || m.Params[0].Type.String() != "String" {
		t.Fatalf("params = %+v", m.Params)
	}
	if len(m.Throws) != 1 || m.Throws[0].String() != "java.io.IOException" {
		t.Fatalf("throws = %+v", m.Throws)
	}
	ts, ok := m.Body.Stmts[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("stmt = %#v", m.Body.Stmts[0])
	}
	if len(ts.Resources) != 1 || len(ts.Catches) != 1 || ts.Finally == nil {
		t.Fatalf("try = %+v", ts)
	}
	if len(ts.Catches[0].Types) != 2 || ts.Catches[0].Name != "e" {
		t.Fatalf("catch = %+v", ts.Catches[0])
	}
}

func TestParseStrictSyntaxError(t *testing.T) {
	_, err := ParseString("class Broken { void f( { }")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T", err)
	}
	if pe.Line != 1 {
		t.Fatalf("line = %d", pe.Line)
	}
}

func TestParseReportsUnsupported(t *testing.T) {
	bag := diag.NewBag(10)
	src := "class S { int f(int x) { switch (x) { default: return 1; } } }"
	u, err := Parse([]byte(src), 0, Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body := u.Types[0].Methods()[0].Body
	if _, ok := body.Stmts[0].(*ast.RawStmt); !ok {
		t.Fatalf("switch lowered to %T", body.Stmts[0])
	}
	if len(bag.Filter(diag.SynUnsupportedInput)) != 1 {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
}
