package resolve

import (
	"javamaybe/internal/ast"
)

// UnitIndex holds the member indexes of the types declared in one unit.
// Rebuild it after the unit's declarations change.
type UnitIndex struct {
	unit  *ast.CompilationUnit
	types map[string]*TypeInfo
	names map[*ast.TypeDecl]string
}

// NewUnitIndex indexes u.
func NewUnitIndex(u *ast.CompilationUnit) *UnitIndex {
	ix := &UnitIndex{unit: u, types: make(map[string]*TypeInfo), names: make(map[*ast.TypeDecl]string)}
	if u == nil {
		return ix
	}
	for _, ti := range IndexUnit(u) {
		ix.types[ti.Name] = ti
	}
	var visit func(td *ast.TypeDecl, q string)
	visit = func(td *ast.TypeDecl, q string) {
		ix.names[td] = q
		for _, nt := range td.NestedTypes() {
			visit(nt, q+"."+nt.Name)
		}
	}
	for _, td := range u.Types {
		visit(td, qualify(u.Package, td.Name))
	}
	return ix
}

// Unit returns the indexed unit.
func (ix *UnitIndex) Unit() *ast.CompilationUnit {
	return ix.unit
}

// QualifiedName returns the qualified name of a type declared in the unit.
func (ix *UnitIndex) QualifiedName(td *ast.TypeDecl) string {
	return ix.names[td]
}

// Site is a position in a unit: the enclosing type chain and the member whose
// body (or initializer) contains the expressions being typed.
type Site struct {
	Index  *UnitIndex
	Outer  []*ast.TypeDecl // outermost first
	Member ast.Member      // *ast.MethodDecl, *ast.FieldDecl, *ast.Initializer or nil
}

// Site builds a site for member declared in the innermost of outer.
func (ix *UnitIndex) Site(outer []*ast.TypeDecl, member ast.Member) *Site {
	return &Site{Index: ix, Outer: outer, Member: member}
}

// NewSite is a convenience for one-off queries.
func NewSite(u *ast.CompilationUnit, outer []*ast.TypeDecl, member ast.Member) *Site {
	return NewUnitIndex(u).Site(outer, member)
}

func (s *Site) unit() *ast.CompilationUnit {
	if s == nil || s.Index == nil {
		return nil
	}
	return s.Index.unit
}

func (s *Site) nameCtx() nameCtx {
	if s == nil || s.Index == nil || s.Index.unit == nil {
		return nameCtx{}
	}
	sc := UnitScope(s.Index.unit)
	for i := len(s.Outer) - 1; i >= 0; i-- {
		sc.Outer = append(sc.Outer, s.Index.names[s.Outer[i]])
	}
	return nameCtx{scope: sc, local: s.Index.types}
}

// typeVars lists type parameters visible at the site: those of every
// enclosing type and of the member method.
func (s *Site) typeVars() typeEnv {
	var names []string
	if s != nil {
		for _, td := range s.Outer {
			for _, tp := range td.TypeParams {
				names = append(names, tp.Name)
			}
		}
		if m, ok := s.Member.(*ast.MethodDecl); ok {
			for _, tp := range m.TypeParams {
				names = append(names, tp.Name)
			}
		}
	}
	return typeEnv{}.with(names)
}

// innermost returns the qualified name of the innermost enclosing type.
func (s *Site) innermost() (*ast.TypeDecl, string) {
	if s == nil || len(s.Outer) == 0 || s.Index == nil {
		return nil, ""
	}
	td := s.Outer[len(s.Outer)-1]
	return td, s.Index.names[td]
}
