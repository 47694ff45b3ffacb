package format

import (
	"strings"
	"testing"

	"javamaybe/internal/ast"
	"javamaybe/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.CompilationUnit {
	t.Helper()
	u, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return u
}

func TestFormatUnitLayout(t *testing.T) {
	src := `package p;
import java.util.*;
class A { int x = 1; // keep me
void f(int a) { if (a > 0) { x += a; } else x--; } }`
	out, err := FormatUnit(mustParse(t, src), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := `package p;

import java.util.*;

class A {
    int x = 1;

    // keep me
    void f(int a) {
        if (a > 0) {
            x += a;
        } else
            x--;
    }
}
`
	if string(out) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestFormatUseTabs(t *testing.T) {
	out, err := FormatUnit(mustParse(t, "class A { void f() { return; } }"), Options{UseTabs: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "\n\tvoid f() {\n\t\treturn;\n\t}\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestFormatMethodAndExpr(t *testing.T) {
	u := mustParse(t, `class A { <T> java.util.List<T> g(T t, String... rest) throws Exception { return new java.util.ArrayList<>(); } }`)
	m := u.Types[0].Methods()[0]
	got := Method(m, Options{})
	if !strings.HasPrefix(got, "<T> java.util.List<T> g(T t, String... rest) throws Exception {") {
		t.Fatalf("method = %q", got)
	}
	ret := m.Body.Stmts[0].(*ast.ReturnStmt)
	if e := Expr(ret.Result); e != "new java.util.ArrayList<>()" {
		t.Fatalf("expr = %q", e)
	}
}

func TestCheckRoundTrip(t *testing.T) {
	src := `package p;
enum E { A, B; int v() { return 1; } }
record R(int a) {}
class C {
	static { System.out.println("x"); }
	Object o = new Object() { public String toString() { return "o"; } };
	void f(int[] xs) {
		for (int x : xs) { continue; }
		for (int i = 0, j = 1; i < j; i++, j--) {}
		try { f(null); } catch (RuntimeException e) { throw e; } finally {}
		Runnable r = () -> System.out.println(xs.length);
		int[][] m = new int[2][];
		String s = (String) (Object) "s";
		boolean b = s instanceof String t && t.isEmpty();
		do { i(); } while (false);
		label: while (true) break label;
	}
	void i() {}
}`
	u := mustParse(t, src)
	if ok, msg := CheckRoundTrip(u, Options{}); !ok {
		out, _ := FormatUnit(u, Options{})
		t.Fatalf("%s\n%s", msg, out)
	}
}
