package resolve

import (
	"iter"
	"strings"

	"javamaybe/internal/ast"
	"javamaybe/internal/types"
)

// ResolveRef resolves a written type at site. Names nothing provides keep
// their spelling as an opaque reference type.
func (e *Env) ResolveRef(site *Site, ref *ast.TypeRef) *types.Type {
	return e.typeFromRef(site.nameCtx(), ref, site.typeVars())
}

// TypeOf computes the static type of expr evaluated at site. A nil site types
// expr with no locals and no enclosing declarations. Failure yields a
// KindUnresolved type, never nil.
func (e *Env) TypeOf(site *Site, expr ast.Expr) *types.Type {
	tp := e.typer(site)
	if site != nil && site.Member != nil {
		tp.locals, _ = bindingsAt(site.Member, expr)
	}
	op := tp.eval(expr)
	if op.typeName || op.t == nil {
		return types.MakeUnresolved(exprSpelling(expr))
	}
	return op.t
}

func (e *Env) typer(site *Site) *typer {
	return &typer{env: e, site: site, nc: site.nameCtx(), te: site.typeVars()}
}

// operand is an evaluated expression; typeName marks a type used as a
// qualifier (`Math` in `Math.max`).
type operand struct {
	t        *types.Type
	typeName bool
}

func value(t *types.Type) operand { return operand{t: t} }

func unresolved(spelling string) operand { return value(types.MakeUnresolved(spelling)) }

type typer struct {
	env    *Env
	site   *Site
	nc     nameCtx
	te     typeEnv
	locals []binding
}

func (tp *typer) eval(x ast.Expr) operand {
	switch x := x.(type) {
	case nil:
		return unresolved("")
	case *ast.Literal:
		return value(literalType(x))
	case *ast.Ident:
		return tp.ident(x.Name)
	case *ast.ThisExpr:
		if t := tp.this(x.Qualifier); t != nil {
			return value(t)
		}
		return unresolved("this")
	case *ast.ParenExpr:
		return tp.eval(x.X)
	case *ast.CastExpr:
		return value(tp.env.typeFromRef(tp.nc, x.Type, tp.te))
	case *ast.NewExpr:
		t := tp.env.typeFromRef(tp.nc, x.Type, tp.te)
		if x.Type != nil && x.Type.Diamond {
			t = t.Erasure()
		}
		return value(t)
	case *ast.NewArrayExpr:
		elem := tp.env.typeFromRef(tp.nc, x.Elem, tp.te)
		return value(types.MakeArrayN(elem, len(x.Dims)+x.ExtraDims))
	case *ast.FieldExpr:
		return tp.field(x)
	case *ast.IndexExpr:
		arr := tp.eval(x.X)
		if arr.t.IsArray() {
			return value(arr.t.Elem)
		}
		return unresolved(exprSpelling(x))
	case *ast.CallExpr:
		return tp.call(x)
	case *ast.BinaryExpr:
		a, b := tp.eval(x.X), tp.eval(x.Y)
		if r, ok := types.BinaryResult(x.Op, a.t, b.t); ok {
			return value(r)
		}
		return unresolved(exprSpelling(x))
	case *ast.UnaryExpr:
		return tp.unary(x)
	case *ast.AssignExpr:
		return tp.eval(x.Lhs)
	case *ast.CondExpr:
		return value(conditional(tp.eval(x.Then).t, tp.eval(x.Else).t))
	case *ast.InstanceOfExpr:
		return value(types.MakePrimitive("boolean"))
	case *ast.ClassLit:
		t := tp.env.typeFromRef(tp.nc, x.Type, tp.te)
		if t.IsVoid() {
			t = types.MakeReference("java.lang.Void")
		}
		return value(types.MakeReference(types.ClassName, types.Box(t)))
	}
	// ArrayInit needs a target type; raw text is opaque.
	return unresolved(exprSpelling(x))
}

func literalType(l *ast.Literal) *types.Type {
	switch l.Kind {
	case ast.LitInt:
		return types.MakePrimitive("int")
	case ast.LitLong:
		return types.MakePrimitive("long")
	case ast.LitFloat:
		return types.MakePrimitive("float")
	case ast.LitDouble:
		return types.MakePrimitive("double")
	case ast.LitChar:
		return types.MakePrimitive("char")
	case ast.LitString:
		return types.String()
	case ast.LitBool:
		return types.MakePrimitive("boolean")
	case ast.LitNull:
		return types.Null()
	}
	return types.MakeUnresolved(l.Value)
}

func (tp *typer) unary(x *ast.UnaryExpr) operand {
	t := tp.eval(x.X).t
	switch x.Op {
	case "!":
		return value(types.MakePrimitive("boolean"))
	case "++", "--":
		return value(t)
	default:
		if r, ok := types.UnaryNumeric(t); ok {
			return value(r)
		}
		return unresolved(exprSpelling(x))
	}
}

// conditional types `c ? a : b` the way javac does for the common shapes.
func conditional(a, b *types.Type) *types.Type {
	switch {
	case a.IsUnresolved() || b.IsUnresolved():
		return types.MakeUnresolved("?:")
	case types.Equal(a, b):
		return a
	case a.IsNull():
		return types.Box(b)
	case b.IsNull():
		return types.Box(a)
	case types.IsBoolean(a) && types.IsBoolean(b):
		return types.MakePrimitive("boolean")
	}
	if r, ok := types.BinaryNumeric(a, b); ok {
		return r
	}
	return types.Object()
}

func (tp *typer) ident(name string) operand {
	if name == "super" {
		if t := tp.superOf(); t != nil {
			return value(t)
		}
		return unresolved(name)
	}
	if i := tp.local(name); i >= 0 {
		return value(tp.localType(i))
	}
	for owner := range tp.enclosing() {
		if t, ok := tp.env.fieldOf(tp.nc.local, owner, name); ok {
			return value(t)
		}
	}
	if t, ok := tp.staticImport(name, func(owner *types.Type) (*types.Type, bool) {
		return tp.env.fieldOf(tp.nc.local, owner, name)
	}); ok {
		return value(t)
	}
	if q, ok := tp.env.resolveName(tp.nc, name); ok {
		return operand{t: types.MakeReference(q), typeName: true}
	}
	return unresolved(name)
}

// local finds the innermost binding named name.
func (tp *typer) local(name string) int {
	for i := len(tp.locals) - 1; i >= 0; i-- {
		if tp.locals[i].name == name {
			return i
		}
	}
	return -1
}

func (tp *typer) localType(i int) *types.Type {
	b := tp.locals[i]
	if b.ref == nil || b.ref.Name != "var" || len(b.ref.Args) > 0 {
		return tp.env.typeFromRef(tp.nc, b.ref, tp.te)
	}
	// var: type the initializer with only the bindings declared before it
	inner := *tp
	inner.locals = tp.locals[:i]
	init := inner.eval(b.init).t
	if !b.elem {
		return init
	}
	if init.IsArray() {
		return init.Elem
	}
	if elem, ok := tp.env.iterableElem(tp.nc.local, init); ok {
		return elem
	}
	return types.MakeUnresolved(b.name)
}

func (tp *typer) field(x *ast.FieldExpr) operand {
	recv := tp.eval(x.X)
	switch {
	case recv.t.IsArray() && x.Name == "length" && !recv.typeName:
		return value(types.MakePrimitive("int"))
	case recv.typeName:
		if t, ok := tp.env.fieldOf(tp.nc.local, recv.t, x.Name); ok {
			return value(t)
		}
		nested := recv.t.Name + "." + x.Name
		if tp.env.known(tp.nc, nested) {
			return operand{t: types.MakeReference(nested), typeName: true}
		}
	case !recv.t.IsUnresolved():
		if t, ok := tp.env.fieldOf(tp.nc.local, recv.t, x.Name); ok {
			return value(t)
		}
	}
	// a package-qualified type name such as java.util.Collections
	if name, ok := dottedName(x); ok {
		if q, ok := tp.env.resolveName(tp.nc, name); ok {
			return operand{t: types.MakeReference(q), typeName: true}
		}
	}
	return unresolved(exprSpelling(x))
}

func (tp *typer) call(x *ast.CallExpr) operand {
	if x.Recv == nil && (x.Name == "this" || x.Name == "super") {
		return value(types.Void())
	}
	c, owner, args, ok := tp.callee(x)
	if !ok {
		return unresolved(exprSpelling(x))
	}
	if owner.IsArray() && x.Name == "clone" {
		return value(owner)
	}
	return value(tp.env.result(c, args))
}

// callee picks the overload x invokes. An unqualified call binds to the
// innermost enclosing type that has any method of that name, as javac does;
// a call with a receiver binds to the receiver's static type.
func (tp *typer) callee(x *ast.CallExpr) (candidate, *types.Type, []*types.Type, bool) {
	args := make([]*types.Type, len(x.Args))
	for i, a := range x.Args {
		args[i] = tp.eval(a).t
	}
	if x.Recv == nil {
		for owner := range tp.enclosing() {
			if !tp.env.hasMethod(tp.nc.local, owner, x.Name) {
				continue
			}
			c, ok := tp.env.pick(tp.nc.local, owner, x.Name, args)
			return c, owner, args, ok
		}
		var picked candidate
		owner, ok := tp.staticImport(x.Name, func(owner *types.Type) (*types.Type, bool) {
			c, ok := tp.env.pick(tp.nc.local, owner, x.Name, args)
			picked = c
			return owner, ok
		})
		return picked, owner, args, ok
	}
	recv := tp.eval(x.Recv)
	if recv.t.IsUnresolved() || recv.t.IsPrimitive() {
		return candidate{}, nil, args, false
	}
	c, ok := tp.env.pick(tp.nc.local, recv.t, x.Name, args)
	return c, recv.t, args, ok
}

// enclosing yields the enclosing types innermost first, each parameterized
// by its own type variables.
func (tp *typer) enclosing() iter.Seq[*types.Type] {
	return func(yield func(*types.Type) bool) {
		if tp.site == nil || tp.site.Index == nil {
			return
		}
		for i := len(tp.site.Outer) - 1; i >= 0; i-- {
			if !yield(tp.declType(tp.site.Outer[i])) {
				return
			}
		}
	}
}

func (tp *typer) declType(td *ast.TypeDecl) *types.Type {
	var args []*types.Type
	for _, p := range td.TypeParams {
		args = append(args, types.MakeTypeVar(p.Name))
	}
	return types.MakeReference(tp.site.Index.names[td], args...)
}

func (tp *typer) this(qualifier string) *types.Type {
	if tp.site == nil || tp.site.Index == nil {
		return nil
	}
	for i := len(tp.site.Outer) - 1; i >= 0; i-- {
		td := tp.site.Outer[i]
		if qualifier == "" || td.Name == qualifier || tp.site.Index.names[td] == qualifier {
			return tp.declType(td)
		}
	}
	return nil
}

func (tp *typer) superOf() *types.Type {
	td, q := tp.site.innermost()
	if td == nil {
		return nil
	}
	ti, ok := tp.nc.local[q]
	if !ok || len(ti.Super) == 0 || td.Kind == ast.KindInterface {
		return types.Object()
	}
	return tp.env.typeFromSpelling(tp.env.infoCtx(tp.nc.local, ti), ti.Super[0], typeEnv{}.with(ti.TypeParams))
}

// staticImport tries `import static Owner.name` and `import static Owner.*`.
func (tp *typer) staticImport(name string, find func(owner *types.Type) (*types.Type, bool)) (*types.Type, bool) {
	u := tp.site.unit()
	if u == nil {
		return nil, false
	}
	for _, imp := range u.Imports {
		if !imp.Static {
			continue
		}
		owner := imp.Path
		if !imp.Wildcard {
			var member string
			owner, member = splitLast(imp.Path)
			if member != name {
				continue
			}
		}
		q, ok := tp.env.resolveName(tp.nc, owner)
		if !ok {
			continue
		}
		if t, ok := find(types.MakeReference(q)); ok {
			return t, true
		}
	}
	return nil, false
}

func splitLast(path string) (string, string) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// dottedName flattens a.b.c chains of identifiers.
func dottedName(x ast.Expr) (string, bool) {
	switch x := x.(type) {
	case *ast.Ident:
		return x.Name, true
	case *ast.FieldExpr:
		head, ok := dottedName(x.X)
		if !ok {
			return "", false
		}
		return head + "." + x.Name, true
	}
	return "", false
}

// exprSpelling is a short label for unresolved results.
func exprSpelling(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.FieldExpr:
		return exprSpelling(x.X) + "." + x.Name
	case *ast.CallExpr:
		if x.Recv != nil {
			return exprSpelling(x.Recv) + "." + x.Name + "(...)"
		}
		return x.Name + "(...)"
	case *ast.RawExpr:
		return x.Text
	case *ast.ThisExpr:
		return "this"
	case nil:
		return ""
	}
	return "expr"
}
