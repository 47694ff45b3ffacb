package mono

import (
	"runtime"
	"sync"
	"weak"

	"javamaybe/internal/ast"
	"javamaybe/internal/resolve"
	"javamaybe/internal/trace"
	"javamaybe/internal/types"
)

// Normalizer replaces type variables and unresolved types with the fallback
// type of an environment. The fallback is computed once per environment and
// dropped when the environment is collected.
type Normalizer struct {
	tracer trace.Tracer

	mu        sync.Mutex
	fallbacks map[weak.Pointer[resolve.Env]]*types.Type
}

func NewNormalizer(tracer trace.Tracer) *Normalizer {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Normalizer{tracer: tracer, fallbacks: make(map[weak.Pointer[resolve.Env]]*types.Type)}
}

// Concrete returns t, or the fallback when t cannot be spelled as a concrete type.
func (n *Normalizer) Concrete(env *resolve.Env, t *types.Type) *types.Type {
	if !t.IsTypeVar() && !t.IsUnresolved() {
		return t
	}
	fb := n.Fallback(env)
	from := "<nil>"
	if t != nil {
		from = t.Describe()
	}
	trace.Point(n.tracer, trace.ScopeMethod, "normalize", from+" -> "+fb.Describe())
	return fb
}

// Fallback is the type of `new Object()` in env. Every call for one
// environment returns the same pointer.
func (n *Normalizer) Fallback(env *resolve.Env) *types.Type {
	if env == nil {
		return types.Object()
	}
	key := weak.Make(env)
	n.mu.Lock()
	fb, ok := n.fallbacks[key]
	n.mu.Unlock()
	if ok {
		return fb
	}

	fb = env.TypeOf(nil, &ast.NewExpr{Type: &ast.TypeRef{Name: "Object"}})
	if fb.IsUnresolved() {
		fb = types.Object()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if cur, ok := n.fallbacks[key]; ok {
		return cur
	}
	n.fallbacks[key] = fb
	runtime.AddCleanup(env, n.forget, key)
	return fb
}

func (n *Normalizer) forget(key weak.Pointer[resolve.Env]) {
	n.mu.Lock()
	delete(n.fallbacks, key)
	n.mu.Unlock()
}

// cached reports how many environments currently have a fallback.
func (n *Normalizer) cached() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.fallbacks)
}
