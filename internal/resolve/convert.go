package resolve

import (
	"javamaybe/internal/ast"
	"javamaybe/internal/types"
)

// typeEnv carries the type variables in scope and the substitution applied
// to them when reading inherited or generic member spellings.
type typeEnv struct {
	vars  map[string]bool
	subst map[string]*types.Type
}

func (te typeEnv) with(names []string) typeEnv {
	if len(names) == 0 {
		return te
	}
	vars := make(map[string]bool, len(te.vars)+len(names))
	for k := range te.vars {
		vars[k] = true
	}
	for _, n := range names {
		vars[n] = true
	}
	return typeEnv{vars: vars, subst: te.subst}
}

func (e *Env) typeFromSpelling(nc nameCtx, spelling string, te typeEnv) *types.Type {
	ref, err := ast.ParseTypeRef(spelling)
	if err != nil {
		return types.MakeUnresolved(spelling)
	}
	return e.typeFromRef(nc, ref, te)
}

func (e *Env) typeFromRef(nc nameCtx, ref *ast.TypeRef, te typeEnv) *types.Type {
	if ref == nil {
		return types.MakeUnresolved("")
	}
	var base *types.Type
	switch {
	case ref.Name == "?":
		if ref.Of != nil {
			base = e.typeFromRef(nc, ref.Of, te)
		} else {
			base = types.Object()
		}
	case ref.Name == "void" && ref.Dims == 0:
		return types.Void()
	case types.IsPrimitiveName(ref.Name):
		base = types.MakePrimitive(ref.Name)
	case te.subst[ref.Name] != nil && len(ref.Args) == 0:
		base = te.subst[ref.Name]
	case te.vars[ref.Name] && len(ref.Args) == 0:
		base = types.MakeTypeVar(ref.Name)
	default:
		q, ok := e.resolveName(nc, ref.Name)
		if !ok {
			q = ref.Name
		}
		var args []*types.Type
		for _, a := range ref.Args {
			args = append(args, e.typeFromRef(nc, a, te))
		}
		base = types.MakeReference(q, args...)
	}
	return types.MakeArrayN(base, ref.Dims)
}
