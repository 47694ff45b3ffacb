package resolve

import (
	"iter"

	"javamaybe/internal/ast"
	"javamaybe/internal/types"
)

// level is one type of a hierarchy walk, with the substitution that maps its
// type parameters to the arguments seen from the starting type.
type level struct {
	ti *TypeInfo
	nc nameCtx
	te typeEnv
}

func (e *Env) infoCtx(local map[string]*TypeInfo, ti *TypeInfo) nameCtx {
	return nameCtx{scope: ti.Scope, local: local}
}

func bindArgs(params []string, args []*types.Type) typeEnv {
	te := typeEnv{}.with(params)
	if len(args) == len(params) && len(args) > 0 {
		te.subst = make(map[string]*types.Type, len(args))
		for i, p := range params {
			te.subst[p] = args[i]
		}
	}
	return te
}

// supertypes walks owner and its supertypes breadth first, ending with
// java.lang.Object. Type variables and arrays start at Object.
func (e *Env) supertypes(local map[string]*TypeInfo, owner *types.Type) iter.Seq[level] {
	return func(yield func(level) bool) {
		start := owner
		switch {
		case owner.IsTypeVar(), owner.IsArray():
			start = types.Object()
		case !owner.IsReference():
			return
		}
		seen := make(map[string]bool)
		queue := []*types.Type{start}
		for len(queue) > 0 {
			t := queue[0]
			queue = queue[1:]
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			if ti, ok := e.lookup(local, t.Name); ok {
				lv := level{ti: ti, nc: e.infoCtx(local, ti), te: bindArgs(ti.TypeParams, t.Args)}
				if !yield(lv) {
					return
				}
				for _, s := range ti.Super {
					if st := e.typeFromSpelling(lv.nc, s, lv.te); st.IsReference() {
						queue = append(queue, st)
					}
				}
			}
			if len(queue) == 0 && !seen[types.ObjectName] {
				queue = append(queue, types.Object())
			}
		}
	}
}

func (e *Env) fieldOf(local map[string]*TypeInfo, owner *types.Type, name string) (*types.Type, bool) {
	for lv := range e.supertypes(local, owner) {
		if f, ok := lv.ti.Fields[name]; ok {
			return e.typeFromSpelling(lv.nc, f.Type, lv.te), true
		}
	}
	return nil, false
}

func (e *Env) isSubtype(local map[string]*TypeInfo, a, b *types.Type) bool {
	if !a.IsReference() || !b.IsReference() {
		return false
	}
	if a.Name == b.Name {
		return true
	}
	for lv := range e.supertypes(local, a) {
		if lv.ti.Name == b.Name {
			return true
		}
	}
	return false
}

// iterableElem finds T for a type implementing java.lang.Iterable<T>.
func (e *Env) iterableElem(local map[string]*TypeInfo, t *types.Type) (*types.Type, bool) {
	for lv := range e.supertypes(local, t) {
		if lv.ti.Name == "java.lang.Iterable" && len(lv.ti.TypeParams) == 1 {
			return e.typeFromSpelling(lv.nc, lv.ti.TypeParams[0], lv.te), true
		}
	}
	return nil, false
}

type candidate struct {
	mi MethodInfo
	lv level
}

func (c candidate) env() typeEnv { return c.lv.te.with(c.mi.TypeParams) }

// paramRef is the written type the i-th argument is matched against.
func (c candidate) paramRef(i int, args []*types.Type) *ast.TypeRef {
	last := len(c.mi.Params) - 1
	if !c.mi.Varargs || i < last {
		return parseSpelling(c.mi.Params[i])
	}
	ref := parseSpelling(c.mi.Params[last])
	if len(args) == len(c.mi.Params) && args[i].IsArray() {
		return ref
	}
	elem := *ref
	if elem.Dims > 0 {
		elem.Dims--
	}
	return &elem
}

func parseSpelling(s string) *ast.TypeRef {
	ref, err := ast.ParseTypeRef(s)
	if err != nil {
		return &ast.TypeRef{Name: s}
	}
	return ref
}

// pick chooses among the overloads of name visible from owner; ties go to
// the declaration seen first, the most derived type first.
func (e *Env) pick(local map[string]*TypeInfo, owner *types.Type, name string, args []*types.Type) (candidate, bool) {
	var cands []candidate
	for lv := range e.supertypes(local, owner) {
		for _, mi := range lv.ti.Methods[name] {
			if mi.Accepts(len(args)) {
				cands = append(cands, candidate{mi: mi, lv: lv})
			}
		}
	}
	if len(cands) == 0 {
		return candidate{}, false
	}
	best, bestScore := 0, -1<<31
	for i, c := range cands {
		if s := e.score(local, c, args); s > bestScore {
			best, bestScore = i, s
		}
	}
	return cands[best], true
}

// hasMethod reports whether owner or a supertype declares a method named name,
// whatever its arity.
func (e *Env) hasMethod(local map[string]*TypeInfo, owner *types.Type, name string) bool {
	for lv := range e.supertypes(local, owner) {
		if len(lv.ti.Methods[name]) > 0 {
			return true
		}
	}
	return false
}

func (e *Env) score(local map[string]*TypeInfo, c candidate, args []*types.Type) int {
	te := c.env()
	score := 0
	if !c.mi.Varargs {
		score++
	}
	for i, a := range args {
		p := e.typeFromRef(c.lv.nc, c.paramRef(i, args), te)
		switch {
		case a.IsUnresolved():
		case types.Equal(a, p):
			score += 3
		case e.assignable(local, a, p):
			score++
		default:
			score -= 3
		}
	}
	return score
}

// assignable is a loose method invocation conversion check.
func (e *Env) assignable(local map[string]*TypeInfo, a, p *types.Type) bool {
	switch {
	case p.IsTypeVar() || p.IsUnresolved():
		return true
	case a.IsNull():
		return !p.IsPrimitive()
	case p.IsMarker():
		// Any takes every argument, primitives included
		return !a.IsVoid()
	case p.Is(types.ObjectName):
		return !a.IsVoid()
	case a.IsPrimitive() && p.IsPrimitive():
		if a.Name == p.Name {
			return true
		}
		r, ok := types.BinaryNumeric(a, p)
		return ok && types.Equal(r, p)
	case a.IsPrimitive():
		return e.isSubtype(local, types.Box(a), p)
	case p.IsPrimitive():
		u, ok := types.Unbox(a)
		return ok && e.assignable(local, u, p)
	case a.IsArray() && p.IsArray():
		return e.assignable(local, a.Elem, p.Elem)
	}
	return e.isSubtype(local, a, p)
}

func (e *Env) result(c candidate, args []*types.Type) *types.Type {
	te := c.env()
	if len(c.mi.TypeParams) > 0 {
		vars := make(map[string]bool, len(c.mi.TypeParams))
		for _, v := range c.mi.TypeParams {
			vars[v] = true
		}
		bound := make(map[string]*types.Type)
		for i, a := range args {
			unify(c.paramRef(i, args), a, vars, bound)
		}
		subst := make(map[string]*types.Type, len(te.subst)+len(bound))
		for k, v := range te.subst {
			if !vars[k] {
				subst[k] = v
			}
		}
		for k, v := range bound {
			subst[k] = v
		}
		te = typeEnv{vars: te.vars, subst: subst}
	}
	return e.typeFromSpelling(c.lv.nc, c.mi.Result, te)
}

// unify binds method type variables mentioned in ref from the argument type;
// the first binding of a variable wins.
func unify(ref *ast.TypeRef, arg *types.Type, vars map[string]bool, out map[string]*types.Type) {
	if ref == nil || arg.IsUnresolved() || arg.IsNull() {
		return
	}
	if ref.Dims > 0 {
		if arg.IsArray() {
			elem := *ref
			elem.Dims--
			unify(&elem, arg.Elem, vars, out)
		}
		return
	}
	switch {
	case vars[ref.Name] && len(ref.Args) == 0:
		if _, ok := out[ref.Name]; !ok {
			out[ref.Name] = types.Box(arg)
		}
	case ref.Name == "?" && ref.Of != nil && ref.Bound == "extends":
		unify(ref.Of, arg, vars, out)
	case len(ref.Args) > 0 && arg.IsReference() && len(arg.Args) == len(ref.Args):
		for i, ra := range ref.Args {
			unify(ra, arg.Args[i], vars, out)
		}
	}
}
