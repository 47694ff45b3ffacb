package mono

import (
	"context"
	"errors"
	"fmt"

	"javamaybe/internal/ast"
	"javamaybe/internal/cleanup"
	"javamaybe/internal/diag"
	"javamaybe/internal/resolve"
	"javamaybe/internal/trace"
)

type Options struct {
	// MethodNormalizer defaults to DefaultMethodNormalizer.
	MethodNormalizer MethodNormalizer
	Verbose          bool
}

// Task is one compilation unit to specialize.
type Task struct {
	Unit     *ast.CompilationUnit
	Reporter diag.Reporter // optional
}

// Result is the outcome of one task.
type Result struct {
	Unit      *ast.CompilationUnit
	Methods   []MethodReport
	Overloads int
	Cleanup   *cleanup.State
	Err       error
}

// Monomorphizer specializes every marker method of a unit. One instance may
// serve many units concurrently; it holds no per-unit state.
type Monomorphizer struct {
	env  *resolve.Env
	norm *Normalizer
	opt  Options
}

func New(env *resolve.Env, norm *Normalizer, opt Options) *Monomorphizer {
	if norm == nil {
		norm = NewNormalizer(nil)
	}
	if opt.MethodNormalizer == nil {
		opt.MethodNormalizer = DefaultMethodNormalizer{}
	}
	return &Monomorphizer{env: env, norm: norm, opt: opt}
}

// Process specializes task.Unit in place and runs the cleanup pass.
func (m *Monomorphizer) Process(ctx context.Context, task Task) (*ast.CompilationUnit, error) {
	res := m.Run(ctx, task)
	return res.Unit, res.Err
}

// ProcessAsync runs Process on its own goroutine. The channel receives
// exactly one Result and is then closed.
func (m *Monomorphizer) ProcessAsync(ctx context.Context, task Task) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- m.Run(ctx, task)
	}()
	return out
}

// Run is Process with the full per-unit report.
func (m *Monomorphizer) Run(ctx context.Context, task Task) Result {
	res := Result{Unit: task.Unit}
	if task.Unit == nil {
		res.Err = errors.New("mono: nil unit")
		return res
	}
	span, ctx := trace.Start(ctx, trace.ScopeUnit, "monomorphize")
	defer func() {
		span.WithInt("methods", len(res.Methods)).WithInt("overloads", res.Overloads).End("")
	}()

	sp := &Specializer{
		Env:              m.env,
		Normalizer:       m.norm,
		MethodNormalizer: m.opt.MethodNormalizer,
		Reporter:         task.Reporter,
		Verbose:          m.opt.Verbose,
		Record:           func(r MethodReport) { res.Methods = append(res.Methods, r) },
	}
	for _, td := range task.Unit.Types {
		n, err := m.processDecl(ctx, sp, task.Unit, []*ast.TypeDecl{td})
		res.Overloads += n
		if err != nil {
			res.Err = err
			return res
		}
	}
	res.Cleanup = cleanup.NewState()
	res.Unit = cleanup.Run(task.Unit, res.Cleanup)
	return res
}

// processDecl handles nested declarations first, then the methods of the
// innermost declaration of outer against a snapshot of its method list.
func (m *Monomorphizer) processDecl(ctx context.Context, sp *Specializer, unit *ast.CompilationUnit, outer []*ast.TypeDecl) (int, error) {
	td := outer[len(outer)-1]
	total := 0
	for _, nested := range td.NestedTypes() {
		n, err := m.processDecl(ctx, sp, unit, append(outer[:len(outer):len(outer)], nested))
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, method := range td.Methods() {
		n, err := sp.SpecializeMethod(ctx, unit, outer, method)
		total += n
		if err != nil {
			return total, fmt.Errorf("%s: %w", td.Name, err)
		}
	}
	return total, nil
}
