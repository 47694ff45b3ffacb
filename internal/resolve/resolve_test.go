package resolve

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"javamaybe/internal/ast"
	"javamaybe/internal/indexcache"
	"javamaybe/internal/parser"
)

func TestReflectionTableLoads(t *testing.T) {
	r := NewReflection()
	if err := r.Err(); err != nil {
		t.Fatalf("jdk table: %v", err)
	}
	for _, name := range []string{"java.lang.String", "java.util.List", "java.util.Map.Entry"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("missing %s", name)
		}
	}
}

func TestParseMethodSig(t *testing.T) {
	tests := []struct {
		sig     string
		name    string
		params  []string
		result  string
		static  bool
		varargs bool
		tparams []string
	}{
		{sig: "int length()", name: "length", result: "int"},
		{sig: "static int max(int, int)", name: "max", params: []string{"int", "int"}, result: "int", static: true},
		{sig: "static <E> java.util.List<E> of(E...)", name: "of", params: []string{"E[]"}, result: "java.util.List<E>", static: true, varargs: true, tparams: []string{"E"}},
		{sig: "<K, V extends Comparable<V>> V put(K, java.util.Map<K, V>)", name: "put", params: []string{"K", "java.util.Map<K, V>"}, result: "V", tparams: []string{"K", "V"}},
	}
	for _, tt := range tests {
		name, mi, err := ParseMethodSig(tt.sig)
		if err != nil {
			t.Fatalf("%s: %v", tt.sig, err)
		}
		if name != tt.name || mi.Result != tt.result || mi.Static != tt.static || mi.Varargs != tt.varargs {
			t.Errorf("%s: got %s %+v", tt.sig, name, mi)
		}
		if !slices.Equal(mi.Params, tt.params) || !slices.Equal(mi.TypeParams, tt.tparams) {
			t.Errorf("%s: params %v tparams %v", tt.sig, mi.Params, mi.TypeParams)
		}
	}
	if _, _, err := ParseMethodSig("broken"); err == nil {
		t.Fatalf("expected error for malformed signature")
	}
}

func TestMethodDescriptor(t *testing.T) {
	mi, err := parseMethodDescriptor("(I[Ljava/lang/String;Ljava/util/Map$Entry;)[[J")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"int", "java.lang.String[]", "java.util.Map.Entry"}
	if !slices.Equal(mi.Params, want) || mi.Result != "long[][]" {
		t.Fatalf("got %v -> %s", mi.Params, mi.Result)
	}
	if _, err := parseMethodDescriptor("(Q)V"); err == nil {
		t.Fatalf("expected error for bad descriptor")
	}
}

const typingSample = `package demo;

import java.util.List;
import java.util.ArrayList;
import static java.lang.Math.max;

class Demo<T> {
	int count;
	String name;
	T item;

	void run(int a, String... rest) {
		long big = 1L;
		var list = new ArrayList<String>();
		for (String s : list) {
			show(s);
		}
		show(a + big);
		show(rest);
		show(list.get(0));
		show(List.of(1, 2));
		show(max(1, 2));
		show(name.length());
		show(count);
		show(item);
		show(this);
		show(rest.length);
		show(a > 0 ? a : 2.0);
		show(Integer.MAX_VALUE);
		show(String.class);
		show(java.util.Collections.emptyList());
		show(new ArrayList<>());
		show("a" + a);
		show(!true);
		if (item instanceof Number n) {
			show(n);
		}
	}
}
`

func shownArgs(m *ast.MethodDecl) []ast.Expr {
	var out []ast.Expr
	ast.Inspect(m, func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpr); ok && c.Name == "show" {
			out = append(out, c.Args[0])
		}
		return true
	})
	return out
}

func TestTypeOf(t *testing.T) {
	u, err := parser.ParseString(typingSample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	td := u.Types[0]
	m := td.Methods()[0]
	site := NewUnitIndex(u).Site([]*ast.TypeDecl{td}, m)
	env := NewEnv(NewReflection())

	want := []string{
		"java.lang.String",
		"long",
		"java.lang.String[]",
		"java.lang.String",
		"java.util.List<java.lang.Integer>",
		"int",
		"int",
		"int",
		"T",
		"demo.Demo<T>",
		"int",
		"double",
		"int",
		"java.lang.Class<java.lang.String>",
		"java.util.List<T>",
		"java.util.ArrayList",
		"java.lang.String",
		"boolean",
		"java.lang.Number",
	}
	args := shownArgs(m)
	if len(args) != len(want) {
		t.Fatalf("shown args = %d, want %d", len(args), len(want))
	}
	for i, arg := range args {
		if got := env.TypeOf(site, arg).Describe(); got != want[i] {
			t.Errorf("arg %d: got %s, want %s", i, got, want[i])
		}
	}
}

func TestTypeOfUnresolved(t *testing.T) {
	u, err := parser.ParseString(`class A { void f() { g(unknown.call(), x -> x, null); } }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	td := u.Types[0]
	m := td.Methods()[0]
	site := NewSite(u, []*ast.TypeDecl{td}, m)
	env := NewEnv(NewReflection())
	call := m.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)

	if got := env.TypeOf(site, call.Args[0]); !got.IsUnresolved() {
		t.Errorf("unknown receiver typed as %s", got)
	}
	if got := env.TypeOf(site, call.Args[1]); !got.IsUnresolved() {
		t.Errorf("lambda typed as %s", got)
	}
	if got := env.TypeOf(site, call.Args[2]); !got.IsNull() {
		t.Errorf("null typed as %s", got)
	}
	if got := env.TypeOf(site, call); !got.IsUnresolved() {
		t.Errorf("undeclared method typed as %s", got)
	}
}

func TestTypeOfWithoutSite(t *testing.T) {
	env := NewEnv(NewReflection())
	x := &ast.NewExpr{Type: &ast.TypeRef{Name: "Object"}}
	if got := env.TypeOf(nil, x).Describe(); got != "java.lang.Object" {
		t.Fatalf("got %s", got)
	}
}

func TestResolveRefNames(t *testing.T) {
	u, err := parser.ParseString(`package p;
import java.util.*;
import java.util.Map;
class Outer<K> {
	static class Inner {}
	void f(Map.Entry<K, Inner> e, List<String> l, Mystery m, int[] xs) {}
}
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	td := u.Types[0]
	m := td.Methods()[0]
	site := NewSite(u, []*ast.TypeDecl{td}, m)
	env := NewEnv(NewReflection())
	want := []string{
		"java.util.Map.Entry<K, p.Outer.Inner>",
		"java.util.List<java.lang.String>",
		"Mystery",
		"int[]",
	}
	for i, p := range m.Params {
		if got := env.ResolveRef(site, p.Type).Describe(); got != want[i] {
			t.Errorf("param %s: got %s, want %s", p.Name, got, want[i])
		}
	}
}

func TestSourcePathProvider(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	if err := os.MkdirAll(lib, 0o755); err != nil {
		t.Fatal(err)
	}
	src := "package lib;\npublic class Util {\n\tpublic static String name(int id) { return null; }\n}\n"
	if err := os.WriteFile(filepath.Join(lib, "Util.java"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cache, err := indexcache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	env, err := New(Config{SourcePath: []string{dir}, Cache: cache})
	if err != nil {
		t.Fatalf("env: %v", err)
	}
	if len(env.Providers()) != 2 {
		t.Fatalf("providers = %s", env.Describe())
	}

	u, err := parser.ParseString("import lib.Util;\nclass A { void f() { g(Util.name(1)); } }")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	td := u.Types[0]
	m := td.Methods()[0]
	call := m.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	got := env.TypeOf(NewSite(u, []*ast.TypeDecl{td}, m), call.Args[0])
	if got.Describe() != "java.lang.String" {
		t.Fatalf("Util.name(1) typed as %s", got)
	}

	// second environment reads the cached index
	again, err := New(Config{SourcePath: []string{dir}, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := again.Lookup("lib.Util"); !ok {
		t.Fatalf("cached lookup failed")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.jar")
	if err := os.WriteFile(bogus, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		cfg  Config
		kind string
	}{
		{"missing sourcepath", Config{SourcePath: []string{filepath.Join(dir, "nope")}}, "sourcepath"},
		{"sourcepath is file", Config{SourcePath: []string{bogus}}, "sourcepath"},
		{"bad archive", Config{ClassPath: []string{bogus}}, "classpath"},
		{"missing archive", Config{ClassPath: []string{filepath.Join(dir, "x.jar")}}, "classpath"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("want LoadError, got %v", err)
			}
			if le.Kind != tt.kind {
				t.Fatalf("kind = %s", le.Kind)
			}
		})
	}
}

func TestEmptyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jar")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("META-INF/MANIFEST.MF")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("Manifest-Version: 1.0\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	ar, err := NewArchive(path, nil)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if ar.Len() != 0 {
		t.Fatalf("len = %d", ar.Len())
	}
}

const calleeSample = `package p;

class Outer {
	void m(Any a) {}
	void m(int[] a) {}

	void run() {
		m("x");
		m(new int[0]);
		Outer o = new Outer();
		o.m(1);
		new Outer().m(2);
		Inner.m(3);
		missing.m(4);
	}

	static class Inner {
		static void m(Any a) {}

		void go() {
			m(5);
		}
	}
}
`

func TestCalleeOf(t *testing.T) {
	u, err := parser.ParseString(calleeSample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ix := NewUnitIndex(u)
	outer := u.Types[0]
	inner := outer.NestedTypes()[0]
	env := NewEnv(NewReflection())

	calls := func(m *ast.MethodDecl) []*ast.CallExpr {
		var out []*ast.CallExpr
		ast.Inspect(m, func(n ast.Node) bool {
			if c, ok := n.(*ast.CallExpr); ok && c.Name == "m" {
				out = append(out, c)
			}
			return true
		})
		return out
	}

	tests := []struct {
		owner  string
		params []string
		ok     bool
	}{
		{"p.Outer", []string{"Any"}, true},
		{"p.Outer", []string{"int[]"}, true},
		{"p.Outer", []string{"Any"}, true},
		{"p.Outer", []string{"Any"}, true},
		{"p.Outer.Inner", []string{"Any"}, true},
		{ok: false},
	}
	run := outer.Methods()[2]
	site := ix.Site([]*ast.TypeDecl{outer}, run)
	got := calls(run)
	if len(got) != len(tests) {
		t.Fatalf("calls = %d, want %d", len(got), len(tests))
	}
	for i, tt := range tests {
		c, ok := env.CalleeOf(site, got[i])
		if ok != tt.ok {
			t.Errorf("call %d: ok = %v, want %v", i, ok, tt.ok)
			continue
		}
		if ok && (c.Owner != tt.owner || !slices.Equal(c.Method.Params, tt.params)) {
			t.Errorf("call %d: got %s%v, want %s%v", i, c.Owner, c.Method.Params, tt.owner, tt.params)
		}
	}

	// an unqualified call binds to the innermost type declaring the name
	goM := inner.Methods()[1]
	c, ok := env.CalleeOf(ix.Site([]*ast.TypeDecl{outer, inner}, goM), calls(goM)[0])
	if !ok || !c.Declares("p.Outer.Inner", inner.Methods()[0]) {
		t.Fatalf("inner call bound to %+v (ok=%v)", c, ok)
	}
	if c.Declares("p.Outer", outer.Methods()[0]) {
		t.Fatalf("inner call must not match the outer method")
	}
}
