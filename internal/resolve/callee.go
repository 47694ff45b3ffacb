package resolve

import (
	"slices"

	"javamaybe/internal/ast"
)

// Callee is the method declaration a call expression binds to.
type Callee struct {
	Owner  string // qualified name of the declaring type
	Name   string
	Method MethodInfo
}

// CalleeOf resolves the method call invokes when evaluated at site. ok is
// false when the receiver cannot be typed or no overload takes the arguments.
func (e *Env) CalleeOf(site *Site, call *ast.CallExpr) (Callee, bool) {
	if call == nil || (call.Recv == nil && (call.Name == "this" || call.Name == "super")) {
		return Callee{}, false
	}
	tp := e.typer(site)
	if site != nil && site.Member != nil {
		tp.locals, _ = bindingsAt(site.Member, call)
	}
	c, _, _, ok := tp.callee(call)
	if !ok {
		return Callee{}, false
	}
	return Callee{Owner: c.lv.ti.Name, Name: call.Name, Method: c.mi}, true
}

// Declares reports whether c is m as declared in the type named owner.
// Parameters are compared by their written spelling.
func (c Callee) Declares(owner string, m *ast.MethodDecl) bool {
	return m != nil && c.Owner == owner && c.Name == m.Name &&
		slices.Equal(c.Method.Params, methodInfo(m).Params)
}
