package cleanup

import (
	"slices"
	"testing"

	"javamaybe/internal/parser"
)

func TestRunRemovesMarkerScaffolding(t *testing.T) {
	u, err := parser.ParseString(`package demo;

import java.util.List;
import com.techshroom.javamaybe.Any;
import com.techshroom.javamaybe.CompileOnly;
import java.util.List;

class A {
	@CompileOnly
	static void helper(Any a) {}

	int keep;

	@com.techshroom.javamaybe.CompileOnly
	int gone;

	static class Inner {
		@CompileOnly void f() {}
		void g() {}
	}
}

@CompileOnly
class Scratch {}
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st := NewState()
	out := Run(u, st)
	if out != u {
		t.Fatalf("Run must return the same unit")
	}
	if len(u.Imports) != 1 || u.Imports[0].Path != "java.util.List" {
		t.Fatalf("imports = %+v", u.Imports)
	}
	wantImports := []string{"com.techshroom.javamaybe.Any", "com.techshroom.javamaybe.CompileOnly", "java.util.List"}
	if !slices.Equal(st.RemovedImports, wantImports) {
		t.Fatalf("removed imports = %v", st.RemovedImports)
	}
	if len(u.Types) != 1 {
		t.Fatalf("types = %d", len(u.Types))
	}
	a := u.Types[0]
	if len(a.Members) != 2 {
		t.Fatalf("A members = %d", len(a.Members))
	}
	inner := a.NestedTypes()[0]
	if ms := inner.Methods(); len(ms) != 1 || ms[0].Name != "g" {
		t.Fatalf("Inner methods = %v", ms)
	}
	wantMembers := []string{"A.helper(Any)", "A.gone", "Inner.f()", "Scratch"}
	if !slices.Equal(st.RemovedMembers, wantMembers) {
		t.Fatalf("removed members = %v", st.RemovedMembers)
	}
}

func TestRunKeepsUnrelatedImports(t *testing.T) {
	u, err := parser.ParseString("import static java.lang.Math.max;\nimport java.util.*;\nclass A {}\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Run(u, nil)
	if len(u.Imports) != 2 {
		t.Fatalf("imports = %+v", u.Imports)
	}
}
