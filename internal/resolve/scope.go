package resolve

import "javamaybe/internal/ast"

// binding is a local name visible at some point of a body.
type binding struct {
	name string
	ref  *ast.TypeRef // "var" for inferred locals
	init ast.Expr     // initializer, used for "var"
	elem bool         // foreach over Iter: type is the element type of init
}

// bindingsAt collects the locals and parameters in scope at target, in
// declaration order. found is false when target is not inside member.
func bindingsAt(member ast.Member, target ast.Node) ([]binding, bool) {
	w := &scopeWalker{target: target}
	switch m := member.(type) {
	case *ast.MethodDecl:
		for _, p := range m.Params {
			ref := p.Type
			if p.Varargs {
				ref = withDims(ref, 1)
			}
			w.push(binding{name: p.Name, ref: ref})
		}
		if m.Body != nil && w.block(m.Body) {
			return w.result, true
		}
	case *ast.Initializer:
		if w.block(m.Body) {
			return w.result, true
		}
	case *ast.FieldDecl:
		for _, v := range m.Vars {
			if w.expr(v.Init) {
				return w.result, true
			}
		}
	}
	return nil, false
}

func withDims(ref *ast.TypeRef, extra int) *ast.TypeRef {
	out := ast.CloneType(ref)
	out.Dims += extra
	return out
}

type scopeWalker struct {
	target ast.Node
	stack  []binding
	result []binding
}

func (w *scopeWalker) push(b binding) { w.stack = append(w.stack, b) }

func (w *scopeWalker) mark() int { return len(w.stack) }

func (w *scopeWalker) reset(m int) { w.stack = w.stack[:m] }

// expr reports whether target is inside e, capturing the scope if so.
func (w *scopeWalker) expr(e ast.Expr) bool {
	if e == nil {
		return false
	}
	found := false
	ast.Inspect(e, func(n ast.Node) bool {
		if found {
			return false
		}
		if n == w.target {
			found = true
			return false
		}
		return true
	})
	if found {
		w.result = append([]binding(nil), w.stack...)
		// pattern variables introduced earlier in the same expression
		w.result = append(w.result, patternBindings(e)...)
	}
	return found
}

// patternBindings returns `x instanceof T name` bindings inside e.
func patternBindings(e ast.Expr) []binding {
	var out []binding
	if e == nil {
		return nil
	}
	ast.Inspect(e, func(n ast.Node) bool {
		if io, ok := n.(*ast.InstanceOfExpr); ok && io.Binding != "" {
			out = append(out, binding{name: io.Binding, ref: io.Type})
		}
		return true
	})
	return out
}

func (w *scopeWalker) block(b *ast.Block) bool {
	if b == nil {
		return false
	}
	m := w.mark()
	defer w.reset(m)
	for _, s := range b.Stmts {
		if w.stmt(s) {
			return true
		}
	}
	return false
}

// stmt walks s; declarations it makes stay on the stack for later siblings.
func (w *scopeWalker) stmt(s ast.Stmt) bool {
	switch s := s.(type) {
	case nil:
		return false
	case *ast.Block:
		return w.block(s)
	case *ast.LocalVarStmt:
		for _, v := range s.Vars {
			ref := s.Type
			if v.Dims > 0 {
				ref = withDims(ref, v.Dims)
			}
			w.push(binding{name: v.Name, ref: ref, init: v.Init})
			if w.expr(v.Init) {
				return true
			}
		}
	case *ast.ExprStmt:
		if w.expr(s.X) {
			return true
		}
		w.stack = append(w.stack, patternBindings(s.X)...)
	case *ast.ReturnStmt:
		return w.expr(s.Result)
	case *ast.ThrowStmt:
		return w.expr(s.X)
	case *ast.IfStmt:
		if w.expr(s.Cond) {
			return true
		}
		m := w.mark()
		w.stack = append(w.stack, patternBindings(s.Cond)...)
		if w.stmt(s.Then) {
			return true
		}
		w.reset(m)
		if w.stmt(s.Else) {
			return true
		}
		// `if (!(o instanceof T t)) return;` leaves t in scope afterwards
		w.stack = append(w.stack, patternBindings(s.Cond)...)
	case *ast.WhileStmt:
		if w.expr(s.Cond) {
			return true
		}
		m := w.mark()
		w.stack = append(w.stack, patternBindings(s.Cond)...)
		found := w.stmt(s.Body)
		w.reset(m)
		return found
	case *ast.DoStmt:
		if w.stmt(s.Body) {
			return true
		}
		return w.expr(s.Cond)
	case *ast.ForStmt:
		m := w.mark()
		defer w.reset(m)
		for _, in := range s.Init {
			if w.stmt(in) {
				return true
			}
		}
		if w.expr(s.Cond) {
			return true
		}
		w.stack = append(w.stack, patternBindings(s.Cond)...)
		for _, up := range s.Update {
			if w.expr(up) {
				return true
			}
		}
		return w.stmt(s.Body)
	case *ast.ForEachStmt:
		if w.expr(s.Iter) {
			return true
		}
		m := w.mark()
		defer w.reset(m)
		w.push(binding{name: s.Name, ref: s.Type, init: s.Iter, elem: true})
		return w.stmt(s.Body)
	case *ast.LabeledStmt:
		return w.stmt(s.Stmt)
	case *ast.TryStmt:
		m := w.mark()
		for _, r := range s.Resources {
			if w.stmt(r) {
				return true
			}
		}
		if w.block(s.Body) {
			return true
		}
		w.reset(m)
		for _, c := range s.Catches {
			cm := w.mark()
			var ref *ast.TypeRef
			if len(c.Types) == 1 {
				ref = c.Types[0]
			} else {
				ref = &ast.TypeRef{Name: "java.lang.Throwable"}
			}
			w.push(binding{name: c.Name, ref: ref})
			found := w.block(c.Body)
			w.reset(cm)
			if found {
				return true
			}
		}
		return w.block(s.Finally)
	case *ast.SyncStmt:
		if w.expr(s.Lock) {
			return true
		}
		return w.block(s.Body)
	}
	return false
}
