// Package cleanup strips compile-time scaffolding from a specialized unit:
// imports of the Any marker and members annotated @CompileOnly.
package cleanup

import (
	"strings"

	"javamaybe/internal/ast"
	"javamaybe/internal/types"
)

const (
	markerPackage = types.MarkerPackage
	markerType    = types.MarkerName
	compileOnly   = "CompileOnly"
)

// State carries the dedup bookkeeping of one run. Use a fresh State per unit.
type State struct {
	visited map[*ast.TypeDecl]struct{}
	seen    map[string]struct{}

	RemovedImports []string
	RemovedMembers []string
}

func NewState() *State {
	return &State{visited: make(map[*ast.TypeDecl]struct{}), seen: make(map[string]struct{})}
}

// Run mutates u in place and returns it.
func Run(u *ast.CompilationUnit, st *State) *ast.CompilationUnit {
	if u == nil {
		return nil
	}
	if st == nil {
		st = NewState()
	}
	kept := u.Imports[:0]
	for _, imp := range u.Imports {
		key := importKey(imp)
		if isMarkerImport(imp) {
			st.RemovedImports = append(st.RemovedImports, key)
			continue
		}
		// duplicate imports collapse to the first occurrence
		if _, dup := st.seen[key]; dup {
			st.RemovedImports = append(st.RemovedImports, key)
			continue
		}
		st.seen[key] = struct{}{}
		kept = append(kept, imp)
	}
	u.Imports = kept

	kepttypes := u.Types[:0]
	for _, td := range u.Types {
		if ast.HasAnnotation(td.Modifiers, compileOnly) {
			st.RemovedMembers = append(st.RemovedMembers, td.Name)
			continue
		}
		st.typeDecl(td)
		kepttypes = append(kepttypes, td)
	}
	u.Types = kepttypes
	return u
}

func (st *State) typeDecl(td *ast.TypeDecl) {
	if _, ok := st.visited[td]; ok {
		return
	}
	st.visited[td] = struct{}{}
	kept := td.Members[:0]
	for _, m := range td.Members {
		if mods, name := memberInfo(m); ast.HasAnnotation(mods, compileOnly) {
			st.RemovedMembers = append(st.RemovedMembers, td.Name+"."+name)
			continue
		}
		if nested, ok := m.(*ast.TypeDecl); ok {
			st.typeDecl(nested)
		}
		kept = append(kept, m)
	}
	td.Members = kept
}

func memberInfo(m ast.Member) ([]string, string) {
	switch m := m.(type) {
	case *ast.MethodDecl:
		return m.Modifiers, m.Signature()
	case *ast.FieldDecl:
		var names []string
		for _, v := range m.Vars {
			names = append(names, v.Name)
		}
		return m.Modifiers, strings.Join(names, ",")
	case *ast.TypeDecl:
		return m.Modifiers, m.Name
	}
	return nil, ""
}

func importKey(imp *ast.Import) string {
	key := imp.Path
	if imp.Wildcard {
		key += ".*"
	}
	if imp.Static {
		key = "static " + key
	}
	return key
}

// isMarkerImport matches the marker type, the CompileOnly annotation and a
// wildcard import of their package.
func isMarkerImport(imp *ast.Import) bool {
	if imp.Static {
		return false
	}
	if imp.Wildcard {
		return imp.Path == markerPackage
	}
	return imp.Path == markerPackage+"."+markerType ||
		imp.Path == markerPackage+"."+compileOnly ||
		strings.HasSuffix(imp.Path, "."+markerType)
}
