package resolve

import (
	"fmt"
	"strings"

	"javamaybe/internal/indexcache"
	"javamaybe/internal/types"
)

// Config lists the resolution inputs given on the command line or in the manifest.
type Config struct {
	SourcePath []string
	ClassPath  []string
	Cache      *indexcache.Cache // optional
}

// Env is the type resolution environment shared by all units of a run.
type Env struct {
	providers []Provider
}

// NewEnv composes providers in lookup order.
func NewEnv(providers ...Provider) *Env {
	return &Env{providers: providers}
}

// New builds the combined environment: built-in JDK table, then source
// paths, then archives. Any unreadable entry fails the whole construction.
func New(cfg Config) (*Env, error) {
	providers := []Provider{NewReflection()}
	for _, dir := range cfg.SourcePath {
		if dir == "" {
			continue
		}
		sp, err := NewSourcePath(dir, cfg.Cache)
		if err != nil {
			return nil, err
		}
		providers = append(providers, sp)
	}
	for _, jar := range cfg.ClassPath {
		if jar == "" {
			continue
		}
		ar, err := NewArchive(jar, cfg.Cache)
		if err != nil {
			return nil, err
		}
		providers = append(providers, ar)
	}
	return NewEnv(providers...), nil
}

// Providers returns the providers in lookup order.
func (e *Env) Providers() []Provider {
	return e.providers
}

// Lookup finds the member index of a qualified type; first provider wins.
func (e *Env) Lookup(qualified string) (*TypeInfo, bool) {
	if e == nil {
		return nil, false
	}
	for _, p := range e.providers {
		if ti, ok := p.Lookup(qualified); ok {
			return ti, true
		}
	}
	return nil, false
}

// lookup consults the unit's own types before the providers.
func (e *Env) lookup(local map[string]*TypeInfo, qualified string) (*TypeInfo, bool) {
	if ti, ok := local[qualified]; ok {
		return ti, true
	}
	return e.Lookup(qualified)
}

// nameCtx is everything needed to turn a spelled type name into a qualified one.
type nameCtx struct {
	scope *Scope
	local map[string]*TypeInfo
}

func (e *Env) known(nc nameCtx, qualified string) bool {
	_, ok := e.lookup(nc.local, qualified)
	return ok
}

// resolveName qualifies a spelled (possibly dotted) type name. ok is false
// when nothing matched; the caller then keeps the spelling as an opaque name.
func (e *Env) resolveName(nc nameCtx, name string) (string, bool) {
	first, rest, dotted := strings.Cut(name, ".")
	if q, ok := e.resolveSimple(nc, first); ok {
		if !dotted {
			return q, true
		}
		return q + "." + rest, true
	}
	if dotted && e.known(nc, name) {
		return name, true
	}
	return "", false
}

func (e *Env) resolveSimple(nc nameCtx, name string) (string, bool) {
	sc := nc.scope
	if sc == nil {
		sc = &Scope{}
	}
	for _, outer := range sc.Outer {
		if simpleName(outer) == name {
			return outer, true
		}
		if q := outer + "." + name; e.known(nc, q) {
			return q, true
		}
	}
	for _, imp := range sc.Imports {
		if !strings.HasSuffix(imp, ".*") && simpleName(imp) == name {
			return imp, true
		}
	}
	if q := qualify(sc.Package, name); e.known(nc, q) {
		return q, true
	}
	if q := types.LangPackage + "." + name; e.known(nc, q) {
		return q, true
	}
	for _, imp := range sc.Imports {
		if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
			if q := pkg + "." + name; e.known(nc, q) {
				return q, true
			}
		}
	}
	return "", false
}

func simpleName(q string) string {
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		return q[i+1:]
	}
	return q
}

// Describe lists the providers, for diagnostics.
func (e *Env) Describe() string {
	names := make([]string, 0, len(e.providers))
	for _, p := range e.providers {
		names = append(names, p.Name())
	}
	return fmt.Sprintf("env[%s]", strings.Join(names, ", "))
}
