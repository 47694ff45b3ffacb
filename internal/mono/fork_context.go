package mono

import (
	"fmt"
	"iter"

	"javamaybe/internal/ast"
	"javamaybe/internal/diag"
	"javamaybe/internal/resolve"
	"javamaybe/internal/types"
)

// TypeSet is an insertion-ordered set of types keyed by Describe.
type TypeSet struct {
	items []*types.Type
	seen  map[string]struct{}
}

// Add inserts t unless an equal type is already present.
func (s *TypeSet) Add(t *types.Type) bool {
	key := t.Describe()
	if _, dup := s.seen[key]; dup {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, t)
	return true
}

func (s *TypeSet) Items() []*types.Type {
	if s == nil {
		return nil
	}
	return s.items
}

func (s *TypeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// ForkContext records the marker parameters of one method and the concrete
// types observed for each of them at call sites.
type ForkContext struct {
	Method     *ast.MethodDecl
	AnyParams  []string // declaration order
	Candidates map[string]*TypeSet
	CallSites  int
}

func (fc *ForkContext) Empty() bool {
	return fc == nil || len(fc.AnyParams) == 0
}

// IsAny reports whether name is a marker parameter.
func (fc *ForkContext) IsAny(name string) bool {
	_, ok := fc.Candidates[name]
	return ok
}

// BuildForkContext scans the whole unit for calls that resolve to method and
// collects the argument types flowing into its marker parameters. Calls bound
// to another overload or to a same-named method of another type are ignored.
func (s *Specializer) BuildForkContext(ix *resolve.UnitIndex, outer []*ast.TypeDecl, method *ast.MethodDecl) *ForkContext {
	fc := &ForkContext{Method: method, Candidates: make(map[string]*TypeSet)}
	var positions []int
	for i, p := range method.Params {
		if IsMarker(p.Type) {
			fc.AnyParams = append(fc.AnyParams, p.Name)
			fc.Candidates[p.Name] = &TypeSet{}
			positions = append(positions, i)
		}
	}
	if fc.Empty() || len(outer) == 0 {
		return fc
	}
	ownerName := ix.QualifiedName(outer[len(outer)-1])

	for site, call := range callSites(ix, method.Name, len(method.Params)) {
		callee, ok := s.Env.CalleeOf(site, call)
		if !ok || !callee.Declares(ownerName, method) {
			continue
		}
		fc.CallSites++
		for _, pos := range positions {
			s.admit(fc, site, call.Args[pos], method.Params[pos].Name)
		}
	}
	return fc
}

func (s *Specializer) admit(fc *ForkContext, site *resolve.Site, arg ast.Expr, param string) {
	t := s.Env.TypeOf(site, arg)
	switch {
	case t.IsUnresolved():
		diag.ReportInfo(s.reporter(), diag.MonoSkippedArgument, arg.Pos(),
			fmt.Sprintf("cannot resolve argument type for parameter '%s' of %s; call site skipped", param, fc.Method.Signature())).
			WithNote(fc.Method.Span, "method declared here").
			Emit()
	case t.IsNull(), t.IsVoid(), t.IsMarker():
		// not a concrete type
	default:
		if t.IsTypeVar() {
			t = s.Normalizer.Concrete(s.Env, t)
		}
		fc.Candidates[param].Add(t)
	}
}

// callSites yields every call named name with argc arguments in the unit,
// paired with the site of the member that contains it.
func callSites(ix *resolve.UnitIndex, name string, argc int) iter.Seq2[*resolve.Site, *ast.CallExpr] {
	return func(yield func(*resolve.Site, *ast.CallExpr) bool) {
		stop := false
		visit := func(site *resolve.Site, n ast.Node) {
			ast.Inspect(n, func(n ast.Node) bool {
				if stop {
					return false
				}
				if _, nested := n.(*ast.TypeDecl); nested {
					return false
				}
				if c, ok := n.(*ast.CallExpr); ok && c.Name == name && len(c.Args) == argc {
					if !yield(site, c) {
						stop = true
						return false
					}
				}
				return true
			})
		}
		var walk func(outer []*ast.TypeDecl)
		walk = func(outer []*ast.TypeDecl) {
			td := outer[len(outer)-1]
			for _, c := range td.Constants {
				visit(ix.Site(outer, nil), c)
			}
			for _, m := range td.Members {
				if stop {
					return
				}
				switch m := m.(type) {
				case *ast.TypeDecl:
					walk(append(outer[:len(outer):len(outer)], m))
				case *ast.MethodDecl, *ast.FieldDecl, *ast.Initializer:
					visit(ix.Site(outer, m), m)
				}
			}
		}
		for _, td := range ix.Unit().Types {
			if stop {
				return
			}
			walk([]*ast.TypeDecl{td})
		}
	}
}
