package ast

import (
	"reflect"
	"testing"
)

func TestParseTypeRefRoundTrip(t *testing.T) {
	tests := []string{
		"int",
		"String",
		"java.lang.String",
		"int[]",
		"String[][]",
		"java.util.List<String>",
		"java.util.Map<String, java.util.List<Integer>>",
		"List<? extends Number>",
		"List<?>",
		"Comparable<? super T>",
		"ArrayList<>",
		"Map.Entry<K, V>",
	}
	for _, src := range tests {
		tr, err := ParseTypeRef(src)
		if err != nil {
			t.Errorf("ParseTypeRef(%q): %v", src, err)
			continue
		}
		if got := tr.String(); got != src {
			t.Errorf("round trip %q -> %q", src, got)
		}
	}
}

func TestParseTypeRefErrors(t *testing.T) {
	for _, src := range []string{"", "List<String", "int[", "Map<,>", "a b"} {
		if _, err := ParseTypeRef(src); err == nil {
			t.Errorf("ParseTypeRef(%q): expected error", src)
		}
	}
}

func TestTypeRefHelpers(t *testing.T) {
	tr := MustParseTypeRef("java.util.List<com.x.Any>")
	if tr.Simple() != "List" {
		t.Errorf("Simple = %q", tr.Simple())
	}
	if tr.IsPrimitive() {
		t.Errorf("List is not primitive")
	}
	if !MustParseTypeRef("double").IsPrimitive() || MustParseTypeRef("double[]").IsPrimitive() {
		t.Errorf("IsPrimitive mismatch")
	}
	found := tr.Mentions(func(r *TypeRef) bool { return r.Simple() == "Any" })
	if !found {
		t.Errorf("Mentions should find nested Any")
	}
}

func sampleMethod() *MethodDecl {
	return &MethodDecl{
		Modifiers: []string{"public", "static"},
		Result:    MustParseTypeRef("void"),
		Name:      "m",
		Params: []*Param{
			{Type: MustParseTypeRef("Any"), Name: "a"},
			{Type: MustParseTypeRef("int"), Name: "b"},
		},
		Body: &Block{Stmts: []Stmt{
			&LocalVarStmt{
				Type: MustParseTypeRef("Any"),
				Vars: []*VarDeclarator{{Name: "c", Init: &CastExpr{Type: MustParseTypeRef("Any"), X: &Ident{Name: "a"}}}},
			},
			&IfStmt{
				Cond: &BinaryExpr{Op: ">", X: &Ident{Name: "b"}, Y: &Literal{Kind: LitInt, Value: "0"}},
				Then: &ExprStmt{X: &CallExpr{Recv: &FieldExpr{X: &Ident{Name: "System"}, Name: "out"}, Name: "println", Args: []Expr{&Ident{Name: "c"}}}},
			},
			&ReturnStmt{},
		}},
	}
}

func TestCloneMethodIsDeep(t *testing.T) {
	orig := sampleMethod()
	c := CloneMethod(orig)
	if !reflect.DeepEqual(orig, c) {
		t.Fatalf("clone differs structurally")
	}

	c.Params[0].Type.Name = "String"
	c.Body.Stmts[0].(*LocalVarStmt).Type.Name = "String"
	c.Body.Stmts[0].(*LocalVarStmt).Vars[0].Init.(*CastExpr).Type.Name = "String"
	c.Modifiers[0] = "private"

	if orig.Params[0].Type.Name != "Any" {
		t.Errorf("param type shared with clone")
	}
	if orig.Body.Stmts[0].(*LocalVarStmt).Type.Name != "Any" {
		t.Errorf("local type shared with clone")
	}
	if orig.Body.Stmts[0].(*LocalVarStmt).Vars[0].Init.(*CastExpr).Type.Name != "Any" {
		t.Errorf("cast type shared with clone")
	}
	if orig.Modifiers[0] != "public" {
		t.Errorf("modifiers shared with clone")
	}
}

func TestInspectVisitsTypesAndCalls(t *testing.T) {
	var calls, anyRefs int
	Inspect(sampleMethod(), func(n Node) bool {
		switch n := n.(type) {
		case *CallExpr:
			calls++
		case *TypeRef:
			if n.Name == "Any" {
				anyRefs++
			}
		}
		return true
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if anyRefs != 3 {
		t.Errorf("Any refs = %d, want 3", anyRefs)
	}
}

func TestMemberInsertRemove(t *testing.T) {
	a := &MethodDecl{Name: "a"}
	b := &MethodDecl{Name: "b"}
	ctor := &MethodDecl{Name: "T", Constructor: true}
	d := &TypeDecl{Name: "T", Members: []Member{ctor, a, b}}

	snapshot := d.Methods()
	if len(snapshot) != 2 {
		t.Fatalf("Methods() = %d entries, want 2", len(snapshot))
	}

	a1 := &MethodDecl{Name: "a"}
	d.InsertMember(d.IndexOf(a), a1)
	if !d.RemoveMember(a) {
		t.Fatalf("RemoveMember(a) = false")
	}
	if d.RemoveMember(a) {
		t.Fatalf("second RemoveMember(a) = true")
	}
	if got := d.Members[1]; got != a1 {
		t.Errorf("member[1] = %v, want inserted overload", got)
	}
	if len(snapshot) != 2 || snapshot[0] != a {
		t.Errorf("snapshot changed after mutation")
	}
}

func TestHasAnnotation(t *testing.T) {
	mods := []string{"public", "@CompileOnly", "@com.x.Marker(\"v\")"}
	if !HasAnnotation(mods, "CompileOnly") || !HasAnnotation(mods, "Marker") {
		t.Errorf("expected annotations to be found")
	}
	if HasAnnotation(mods, "Override") {
		t.Errorf("unexpected Override")
	}
}
