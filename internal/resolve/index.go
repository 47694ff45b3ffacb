package resolve

import (
	"strings"

	"javamaybe/internal/ast"
)

// Provider supplies member indexes for qualified type names.
type Provider interface {
	Name() string
	Lookup(qualified string) (*TypeInfo, bool)
}

// TypeInfo is the member index of one class-like type. Nested types use '.'
// as separator, like source spelling.
type TypeInfo struct {
	Name       string                  `msgpack:"n"`
	Interface  bool                    `msgpack:"i,omitempty"`
	TypeParams []string                `msgpack:"tp,omitempty"`
	Super      []string                `msgpack:"s,omitempty"` // superclass first, then interfaces
	Fields     map[string]FieldInfo    `msgpack:"f,omitempty"`
	Methods    map[string][]MethodInfo `msgpack:"m,omitempty"`
	// Scope is the lexical context member spellings are written in; nil when
	// every spelling is already fully qualified.
	Scope *Scope `msgpack:"sc,omitempty"`
}

type FieldInfo struct {
	Type   string `msgpack:"t"`
	Static bool   `msgpack:"st,omitempty"`
}

type MethodInfo struct {
	TypeParams []string `msgpack:"tp,omitempty"`
	Params     []string `msgpack:"p,omitempty"`
	Result     string   `msgpack:"r"`
	Static     bool     `msgpack:"st,omitempty"`
	Varargs    bool     `msgpack:"va,omitempty"`
}

// Scope is the import context of a source file.
type Scope struct {
	Package string   `msgpack:"p,omitempty"`
	Imports []string `msgpack:"im,omitempty"` // "java.util.List", "java.util.*"
	// Outer lists enclosing type names, innermost first, for nested lookups.
	Outer []string `msgpack:"o,omitempty"`
}

// Accepts reports whether m can take argc arguments.
func (m *MethodInfo) Accepts(argc int) bool {
	if m.Varargs {
		return argc >= len(m.Params)-1
	}
	return argc == len(m.Params)
}

func (ti *TypeInfo) addMethod(name string, m MethodInfo) {
	if ti.Methods == nil {
		ti.Methods = make(map[string][]MethodInfo)
	}
	ti.Methods[name] = append(ti.Methods[name], m)
}

func (ti *TypeInfo) addField(name string, f FieldInfo) {
	if ti.Fields == nil {
		ti.Fields = make(map[string]FieldInfo)
	}
	ti.Fields[name] = f
}

// UnitScope builds the Scope of a parsed compilation unit.
func UnitScope(u *ast.CompilationUnit) *Scope {
	sc := &Scope{Package: u.Package}
	for _, imp := range u.Imports {
		if imp.Static {
			continue
		}
		spec := imp.Path
		if imp.Wildcard {
			spec += ".*"
		}
		sc.Imports = append(sc.Imports, spec)
	}
	return sc
}

// IndexUnit builds TypeInfos for every type declared in u, nested ones included.
func IndexUnit(u *ast.CompilationUnit) []*TypeInfo {
	base := UnitScope(u)
	var out []*TypeInfo
	var visit func(td *ast.TypeDecl, qualified string, outer []string)
	visit = func(td *ast.TypeDecl, qualified string, outer []string) {
		sc := &Scope{Package: base.Package, Imports: base.Imports, Outer: outer}
		ti := indexTypeDecl(td, qualified, sc)
		out = append(out, ti)
		inner := append([]string{qualified}, outer...)
		for _, nt := range td.NestedTypes() {
			visit(nt, qualified+"."+nt.Name, inner)
		}
	}
	for _, td := range u.Types {
		visit(td, qualify(u.Package, td.Name), nil)
	}
	return out
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func indexTypeDecl(td *ast.TypeDecl, qualified string, sc *Scope) *TypeInfo {
	ti := &TypeInfo{Name: qualified, Interface: td.Kind == ast.KindInterface, Scope: sc}
	for _, tp := range td.TypeParams {
		ti.TypeParams = append(ti.TypeParams, tp.Name)
	}
	switch td.Kind {
	case ast.KindEnum:
		ti.Super = append(ti.Super, "java.lang.Enum<"+td.Name+">")
		for _, c := range td.Constants {
			ti.addField(c.Name, FieldInfo{Type: td.Name, Static: true})
		}
		ti.addMethod("values", MethodInfo{Result: td.Name + "[]", Static: true})
		ti.addMethod("valueOf", MethodInfo{Params: []string{"String"}, Result: td.Name, Static: true})
	case ast.KindRecord:
		ti.Super = append(ti.Super, "java.lang.Record")
		for _, c := range td.Components {
			ti.addField(c.Name, FieldInfo{Type: c.Type.String()})
			ti.addMethod(c.Name, MethodInfo{Result: c.Type.String()})
		}
	}
	for _, t := range td.Extends {
		ti.Super = append(ti.Super, t.String())
	}
	for _, t := range td.Implements {
		ti.Super = append(ti.Super, t.String())
	}
	for _, m := range td.Members {
		switch m := m.(type) {
		case *ast.FieldDecl:
			static := hasModifier(m.Modifiers, "static") || td.Kind == ast.KindInterface
			for _, v := range m.Vars {
				spelling := m.Type.String() + strings.Repeat("[]", v.Dims)
				ti.addField(v.Name, FieldInfo{Type: spelling, Static: static})
			}
		case *ast.MethodDecl:
			if m.Constructor {
				continue
			}
			ti.addMethod(m.Name, methodInfo(m))
		}
	}
	return ti
}

func methodInfo(m *ast.MethodDecl) MethodInfo {
	mi := MethodInfo{Result: m.Result.String(), Static: hasModifier(m.Modifiers, "static")}
	for _, tp := range m.TypeParams {
		mi.TypeParams = append(mi.TypeParams, tp.Name)
	}
	for _, p := range m.Params {
		spelling := p.Type.String()
		if p.Varargs {
			spelling += "[]"
			mi.Varargs = true
		}
		mi.Params = append(mi.Params, spelling)
	}
	return mi
}

func hasModifier(mods []string, want string) bool {
	for _, m := range mods {
		if m == want {
			return true
		}
	}
	return false
}
