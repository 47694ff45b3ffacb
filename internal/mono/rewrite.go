package mono

import (
	"javamaybe/internal/ast"
	"javamaybe/internal/types"
)

// Bindings maps a forked parameter name to the spelling of its concrete type.
type Bindings map[string]string

// RewriteBody returns a clone of m with marker types that only ever hold a
// bound value retargeted to that value's type. m is not modified.
func RewriteBody(m *ast.MethodDecl, bindings Bindings) *ast.MethodDecl {
	out := ast.CloneMethod(m)
	rewriteBody(out, bindings)
	return out
}

// rewriteBody mutates m, which must be a private copy.
func rewriteBody(m *ast.MethodDecl, bindings Bindings) {
	if m.Body == nil || len(bindings) == 0 {
		return
	}
	rw := &rewriter{body: m.Body, flowed: make(map[ast.Expr]string)}
	env := make(flowEnv, len(bindings))
	for name, spelling := range bindings {
		env[name] = spelling
	}
	rw.block(m.Body, env)

	if MentionsMarker(m.Result) && len(rw.returns) > 0 {
		first := rw.returns[0]
		for _, r := range rw.returns {
			if r == "" || r != first {
				return
			}
		}
		m.Result = retarget(m.Result, first)
	}
}

// flowEnv maps names in scope to the bound spelling of the value they hold.
type flowEnv map[string]string

func (e flowEnv) clone() flowEnv {
	out := make(flowEnv, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

type rewriter struct {
	body    *ast.Block
	returns []string // flow of each return value, "" when none
	flowed  map[ast.Expr]string
}

// flow returns the single bound spelling x evaluates to.
func (rw *rewriter) flow(x ast.Expr, env flowEnv) (string, bool) {
	switch x := x.(type) {
	case *ast.Ident:
		s, ok := env[x.Name]
		return s, ok
	case *ast.ParenExpr:
		return rw.flow(x.X, env)
	case *ast.CastExpr:
		return rw.flow(x.X, env)
	case *ast.AssignExpr:
		if x.Op != "=" {
			return "", false
		}
		return rw.flow(x.Rhs, env)
	case *ast.NewExpr:
		if s, ok := rw.flowed[x]; ok {
			return s, true
		}
		if MentionsMarker(x.Type) {
			return rw.common(x.Args, env)
		}
	}
	return "", false
}

// common is the spelling every flowing expression in xs agrees on.
func (rw *rewriter) common(xs []ast.Expr, env flowEnv) (string, bool) {
	var out string
	for _, x := range xs {
		s, ok := rw.flow(x, env)
		if !ok {
			continue
		}
		if out != "" && s != out {
			return "", false
		}
		out = s
	}
	return out, out != ""
}

func (rw *rewriter) block(b *ast.Block, env flowEnv) {
	if b == nil {
		return
	}
	env = env.clone()
	for _, s := range b.Stmts {
		rw.stmt(s, env)
	}
}

// stmt rewrites s; declarations update env for the statements that follow.
func (rw *rewriter) stmt(s ast.Stmt, env flowEnv) {
	switch s := s.(type) {
	case *ast.Block:
		rw.block(s, env)
	case *ast.LocalVarStmt:
		rw.local(s, env)
	case *ast.ExprStmt:
		rw.exprs(s.X, env)
	case *ast.ReturnStmt:
		rw.exprs(s.Result, env)
		spelling, _ := rw.flow(s.Result, env)
		rw.returns = append(rw.returns, spelling)
	case *ast.ThrowStmt:
		rw.exprs(s.X, env)
	case *ast.IfStmt:
		rw.exprs(s.Cond, env)
		rw.stmt(s.Then, env.clone())
		rw.stmt(s.Else, env.clone())
	case *ast.WhileStmt:
		rw.exprs(s.Cond, env)
		rw.stmt(s.Body, env.clone())
	case *ast.DoStmt:
		rw.stmt(s.Body, env.clone())
		rw.exprs(s.Cond, env)
	case *ast.ForStmt:
		inner := env.clone()
		for _, in := range s.Init {
			rw.stmt(in, inner)
		}
		rw.exprs(s.Cond, inner)
		for _, up := range s.Update {
			rw.exprs(up, inner)
		}
		rw.stmt(s.Body, inner.clone())
	case *ast.ForEachStmt:
		rw.exprs(s.Iter, env)
		inner := env.clone()
		delete(inner, s.Name)
		rw.stmt(s.Body, inner)
	case *ast.LabeledStmt:
		rw.stmt(s.Stmt, env)
	case *ast.TryStmt:
		inner := env.clone()
		for _, r := range s.Resources {
			rw.stmt(r, inner)
		}
		rw.block(s.Body, inner)
		for _, c := range s.Catches {
			cenv := env.clone()
			delete(cenv, c.Name)
			rw.block(c.Body, cenv)
		}
		rw.block(s.Finally, env)
	case *ast.SyncStmt:
		rw.exprs(s.Lock, env)
		rw.block(s.Body, env)
	}
}

func (rw *rewriter) local(s *ast.LocalVarStmt, env flowEnv) {
	for _, v := range s.Vars {
		rw.exprs(v.Init, env)
	}
	if !MentionsMarker(s.Type) {
		for _, v := range s.Vars {
			delete(env, v.Name)
		}
		return
	}
	var inits []ast.Expr
	for _, v := range s.Vars {
		if v.Init == nil || v.Dims > 0 {
			inits = nil
			break
		}
		inits = append(inits, v.Init)
	}
	spelling, ok := rw.unanimous(inits, env)
	if !ok || rw.reassignedElsewhere(s, spelling, env) {
		for _, v := range s.Vars {
			delete(env, v.Name)
		}
		return
	}
	holdsValue := IsMarker(s.Type)
	s.Type = retarget(s.Type, spelling)
	for _, v := range s.Vars {
		if holdsValue {
			env[v.Name] = spelling
		} else {
			delete(env, v.Name)
		}
	}
}

// unanimous requires every expression to flow from the same spelling.
func (rw *rewriter) unanimous(xs []ast.Expr, env flowEnv) (string, bool) {
	if len(xs) == 0 {
		return "", false
	}
	first, ok := rw.flow(xs[0], env)
	if !ok {
		return "", false
	}
	for _, x := range xs[1:] {
		if s, ok := rw.flow(x, env); !ok || s != first {
			return "", false
		}
	}
	return first, true
}

// reassignedElsewhere looks for `v = expr` anywhere in the body whose value
// does not flow from spelling.
func (rw *rewriter) reassignedElsewhere(s *ast.LocalVarStmt, spelling string, env flowEnv) bool {
	names := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		names[v.Name] = true
	}
	conflict := false
	ast.Inspect(rw.body, func(n ast.Node) bool {
		if conflict {
			return false
		}
		a, ok := n.(*ast.AssignExpr)
		if !ok {
			return true
		}
		id, ok := a.Lhs.(*ast.Ident)
		if !ok || !names[id.Name] {
			return true
		}
		if got, ok := rw.flow(a.Rhs, env); a.Op != "=" || !ok || got != spelling {
			conflict = true
		}
		return true
	})
	return conflict
}

// exprs retargets marker casts and instance creations inside x.
func (rw *rewriter) exprs(x ast.Expr, env flowEnv) {
	if x == nil {
		return
	}
	ast.Inspect(x, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CastExpr:
			if MentionsMarker(n.Type) {
				if s, ok := rw.flow(n.X, env); ok {
					n.Type = retarget(n.Type, s)
				}
			}
		case *ast.NewExpr:
			if MentionsMarker(n.Type) {
				if s, ok := rw.common(n.Args, env); ok {
					n.Type = retarget(n.Type, s)
					rw.flowed[n] = s
				}
			}
		}
		return true
	})
}

// retarget replaces the marker in ref with spelling. Inside type arguments
// primitives are boxed.
func retarget(ref *ast.TypeRef, spelling string) *ast.TypeRef {
	concrete, err := ast.ParseTypeRef(spelling)
	if err != nil {
		return ref
	}
	if IsMarker(ref) {
		concrete.Span = ref.Span
		return concrete
	}
	boxed := boxRef(concrete)
	return replaceMarker(ast.CloneType(ref), boxed)
}

func replaceMarker(ref, with *ast.TypeRef) *ast.TypeRef {
	if ref == nil {
		return nil
	}
	if IsMarkerName(ref.Name) && len(ref.Args) == 0 {
		out := ast.CloneType(with)
		out.Dims += ref.Dims
		out.Span = ref.Span
		return out
	}
	for i, a := range ref.Args {
		ref.Args[i] = replaceMarker(a, with)
	}
	ref.Of = replaceMarker(ref.Of, with)
	return ref
}

func boxRef(ref *ast.TypeRef) *ast.TypeRef {
	if !ref.IsPrimitive() {
		return ref
	}
	boxed := types.Box(types.MakePrimitive(ref.Name)).Short()
	return &ast.TypeRef{Name: boxed}
}
