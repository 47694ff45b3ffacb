package mono

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"javamaybe/internal/ast"
	"javamaybe/internal/diag"
	"javamaybe/internal/resolve"
	"javamaybe/internal/trace"
	"javamaybe/internal/types"
)

// MethodReport describes one analyzed method that carried marker parameters.
type MethodReport struct {
	Type      string        `yaml:"type"`
	Method    string        `yaml:"method"`
	CallSites int           `yaml:"call_sites"`
	AnyParams []ParamReport `yaml:"any_params"`
	Overloads []string      `yaml:"overloads"`
}

type ParamReport struct {
	Name       string   `yaml:"name"`
	Candidates []string `yaml:"candidates"`
	Fallback   bool     `yaml:"fallback,omitempty"`
}

// Specializer replaces one method with its concrete overloads.
type Specializer struct {
	Env              *resolve.Env
	Normalizer       *Normalizer
	MethodNormalizer MethodNormalizer
	Reporter         diag.Reporter
	// Verbose lists the overloads of every specialized method.
	Verbose bool
	// Record receives a report per specialized method; may be nil.
	Record func(MethodReport)
}

func (s *Specializer) reporter() diag.Reporter {
	if s.Reporter == nil {
		return diag.NopReporter{}
	}
	return s.Reporter
}

// choice is one candidate type for a parameter position and its spelling.
type choice struct {
	t        *types.Type
	spelling string
	ref      *ast.TypeRef
}

func (s *Specializer) spell(t *types.Type) (choice, error) {
	ref, err := t.Ref()
	if err != nil {
		return choice{}, err
	}
	return choice{t: t, spelling: t.Short(), ref: ref}, nil
}

// SpecializeMethod forks method, declared in the innermost of outer, into
// one overload per combination of call-site types. The overloads take the
// method's place in member order and the method itself is removed. It
// returns the number of overloads inserted; 0 leaves the tree untouched.
func (s *Specializer) SpecializeMethod(ctx context.Context, unit *ast.CompilationUnit, outer []*ast.TypeDecl, method *ast.MethodDecl) (int, error) {
	if method == nil || method.Constructor || len(outer) == 0 {
		return 0, nil
	}
	decl := outer[len(outer)-1]
	span, _ := trace.Start(ctx, trace.ScopeMethod, "specialize")
	span.WithExtra("method", method.Signature())
	produced := 0
	defer func() { span.WithInt("overloads", produced).End("") }()

	forkable := slices.ContainsFunc(method.Params, func(p *ast.Param) bool { return IsMarker(p.Type) })
	if forkable && s.MethodNormalizer != nil {
		s.MethodNormalizer.Normalize(method)
	}
	ix := resolve.NewUnitIndex(unit)
	typeName := ix.QualifiedName(decl)
	if !forkable {
		diag.ReportInfo(s.reporter(), diag.MonoAnalyzeMethod, method.Span,
			fmt.Sprintf("%s.%s: no Any parameters", typeName, method.Signature())).Emit()
		return 0, nil
	}
	fc := s.BuildForkContext(ix, outer, method)
	diag.ReportInfo(s.reporter(), diag.MonoAnalyzeMethod, method.Span,
		fmt.Sprintf("%s.%s: Any parameters %s, %d call sites", typeName, method.Signature(), strings.Join(fc.AnyParams, ", "), fc.CallSites)).Emit()
	span.WithList("any_params", fc.AnyParams).WithInt("call_sites", fc.CallSites)

	report := MethodReport{Type: typeName, Method: method.Signature(), CallSites: fc.CallSites}
	site := ix.Site(outer, method)
	b := NewSlotBuilder[choice](len(method.Params))
	for i, p := range method.Params {
		if !fc.IsAny(p.Name) {
			t, normalized := s.declared(site, p)
			if !normalized {
				// keep the author's spelling
				b.AddItem(i, choice{t: t, spelling: p.Type.String(), ref: ast.CloneType(p.Type)})
				continue
			}
			c, err := s.spell(t)
			if err != nil {
				s.badSpelling(method, p, t, err)
				return 0, nil
			}
			b.AddItem(i, c)
			continue
		}
		pr := ParamReport{Name: p.Name}
		ts := fc.Candidates[p.Name].Items()
		if len(ts) == 0 {
			ts = []*types.Type{s.Normalizer.Fallback(s.Env)}
			pr.Fallback = true
			diag.ReportWarning(s.reporter(), diag.MonoNoCallSiteTypes, p.Span,
				fmt.Sprintf("no call site passes a concrete type for '%s' of %s; using %s", p.Name, method.Signature(), ts[0].Short())).
				Emit()
		}
		for _, t := range ts {
			c, err := s.spell(t)
			if err != nil {
				s.badSpelling(method, p, t, err)
				return 0, nil
			}
			pr.Candidates = append(pr.Candidates, t.Describe())
			b.AddItem(i, c)
		}
		report.AnyParams = append(report.AnyParams, pr)
		span.WithList("candidates."+p.Name, pr.Candidates)
	}
	combos, err := b.Build()
	if err != nil {
		return 0, fmt.Errorf("specialize %s: %w", method.Signature(), err)
	}

	for combo := range combos.All() {
		clone := ast.CloneMethod(method)
		bindings := make(Bindings, len(fc.AnyParams))
		for i, c := range combo {
			p := clone.Params[i]
			p.Type = ast.CloneType(c.ref)
			if fc.IsAny(p.Name) {
				bindings[p.Name] = c.spelling
			}
		}
		rewriteBody(clone, bindings)
		decl.InsertMember(decl.IndexOf(method), clone)
		report.Overloads = append(report.Overloads, clone.Signature())
		produced++
	}
	decl.RemoveMember(method)

	span.WithExtra("forked", strings.Join(report.Overloads, "; "))
	if s.Verbose {
		diag.ReportInfo(s.reporter(), diag.MonoSpecialized, method.Span,
			fmt.Sprintf("%s.%s -> %s", typeName, report.Method, strings.Join(report.Overloads, ", "))).Emit()
	}
	if s.Record != nil {
		s.Record(report)
	}
	return produced, nil
}

// declared resolves a non-marker parameter type, normalizing what cannot be
// spelled concretely.
func (s *Specializer) declared(site *resolve.Site, p *ast.Param) (*types.Type, bool) {
	t := s.Env.ResolveRef(site, p.Type)
	c := s.Normalizer.Concrete(s.Env, t)
	if c == t {
		return t, false
	}
	diag.ReportInfo(s.reporter(), diag.ResFallbackToObject, p.Span,
		fmt.Sprintf("parameter '%s' of type %s is specialized as %s", p.Name, p.Type, c.Short())).Emit()
	return c, true
}

func (s *Specializer) badSpelling(method *ast.MethodDecl, p *ast.Param, t *types.Type, err error) {
	diag.ReportError(s.reporter(), diag.MonoBadTypeSpelling, p.Span,
		fmt.Sprintf("cannot spell %s for '%s' of %s: %v", t.Describe(), p.Name, method.Signature(), err)).Emit()
}
