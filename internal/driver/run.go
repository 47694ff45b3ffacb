package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"javamaybe/internal/diag"
	"javamaybe/internal/format"
	"javamaybe/internal/indexcache"
	"javamaybe/internal/mono"
	"javamaybe/internal/observ"
	"javamaybe/internal/parser"
	"javamaybe/internal/project"
	"javamaybe/internal/resolve"
	"javamaybe/internal/source"
	"javamaybe/internal/trace"
)

// ErrConfig marks configuration problems detected before any unit is processed.
var ErrConfig = errors.New("invalid configuration")

// Options configures one run over an input tree.
type Options struct {
	Input      string // file or directory
	OutputDir  string // must exist unless DryRun
	SourcePath []string
	ClassPath  []string
	Jobs       int // <= 0 means GOMAXPROCS
	// MaxDiagnostics caps each unit's bag.
	MaxDiagnostics int
	Verbose        bool
	// DryRun formats the results without touching the output directory.
	DryRun bool
	Format format.Options

	Cache            *indexcache.Cache // optional, speeds up class path indexing
	MethodNormalizer mono.MethodNormalizer
	Progress         ProgressSink
	Timer            *observ.Timer
	// Previous holds fingerprints from an earlier run; units with the same
	// fingerprint and an existing output are skipped.
	Previous map[string]project.Digest
}

// UnitResult is the outcome for one input file.
type UnitResult struct {
	Path        string // absolute input path
	Rel         string // path relative to the input root, slash separated
	Out         string // output path
	FileID      source.FileID
	Bag         *diag.Bag
	Methods     []mono.MethodReport
	Overloads   int
	Output      []byte // nil when skipped or failed
	Skipped     bool
	Fingerprint project.Digest
	Err         error
}

// Result aggregates a run.
type Result struct {
	Root     string
	FileSet  *source.FileSet
	Units    []UnitResult
	Timings  observ.Report
	Duration time.Duration
}

// HasErrors reports whether any unit failed or produced error diagnostics.
func (r *Result) HasErrors() bool {
	for i := range r.Units {
		u := &r.Units[i]
		if u.Err != nil || (u.Bag != nil && u.Bag.HasErrors()) {
			return true
		}
	}
	return false
}

// Fingerprints returns the per-unit fingerprints of successful units, for Options.Previous.
func (r *Result) Fingerprints() map[string]project.Digest {
	out := make(map[string]project.Digest, len(r.Units))
	for i := range r.Units {
		if u := &r.Units[i]; u.Err == nil {
			out[u.Rel] = u.Fingerprint
		}
	}
	return out
}

// Bag merges the diagnostics of every unit in input order.
func (r *Result) Bag() *diag.Bag {
	total := 0
	for i := range r.Units {
		if b := r.Units[i].Bag; b != nil {
			total += b.Len()
		}
	}
	bag := diag.NewBag(total)
	for i := range r.Units {
		if b := r.Units[i].Bag; b != nil {
			bag.Merge(b)
		}
	}
	return bag
}

// Run specializes every *.java file under opts.Input and writes the results
// under opts.OutputDir mirroring the relative layout. Per-unit failures are
// recorded in the result; configuration problems and cancellation are returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	tracer := trace.FromContext(ctx)
	progress := trace.ProgressFrom(ctx)
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "run")
	span.WithExtra("input", opts.Input)
	defer func() { span.End(progress.String()) }()

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	outDir, err := checkOutputDir(opts)
	if err != nil {
		return nil, err
	}

	var (
		root  string
		files []string
	)
	err = timer.Measure("discover", func() (string, error) {
		var derr error
		root, files, derr = listJavaFiles(opts.Input)
		if derr != nil {
			return "", fmt.Errorf("%w: input %s: %w", ErrConfig, opts.Input, derr)
		}
		kept := files[:0]
		for _, f := range files {
			if outDir != "" && within(outDir, f) {
				continue
			}
			kept = append(kept, f)
		}
		files = kept
		return fmt.Sprintf("%d files", len(files)), nil
	})
	if err != nil {
		return nil, err
	}
	progress.Expect(len(files))
	span.WithInt("files", len(files))

	var env *resolve.Env
	err = timer.Measure("environment", func() (string, error) {
		var eerr error
		env, eerr = resolve.New(resolve.Config{
			SourcePath: opts.SourcePath,
			ClassPath:  opts.ClassPath,
			Cache:      opts.Cache,
		})
		if eerr != nil {
			return "", fmt.Errorf("%w: %w", ErrConfig, eerr)
		}
		return env.Describe(), nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Root:    root,
		FileSet: source.NewFileSetWithBase(root),
		Units:   make([]UnitResult, len(files)),
	}
	configKey := configDigest(opts)
	for i, path := range files {
		rel, out, perr := outputPath(root, outDir, path)
		if perr != nil {
			return nil, perr
		}
		res.Units[i] = UnitResult{Path: path, Rel: rel, Out: out, Bag: diag.NewBag(maxDiagnostics(opts))}
		emit(opts.Progress, Event{File: rel, Stage: StageLoad, Status: StatusQueued})
	}

	loadIdx := timer.Begin("load")
	for i := range res.Units {
		u := &res.Units[i]
		id, lerr := res.FileSet.Load(u.Path)
		if lerr != nil {
			u.Err = lerr
			// placeholder keeps the diagnostic pointing at the right path
			u.FileID = res.FileSet.AddVirtual(u.Path, nil)
			diag.ReportError(diag.BagReporter{Bag: u.Bag}, diag.IOLoadError, source.Span{File: u.FileID}, "cannot read "+u.Rel+": "+lerr.Error()).Emit()
			emit(opts.Progress, Event{File: u.Rel, Stage: StageLoad, Status: StatusError, Err: lerr})
			progress.UnitDone(0, 0)
			continue
		}
		u.FileID = id
		u.Fingerprint = project.Combine(project.Digest(res.FileSet.Get(id).Hash), configKey)
	}
	timer.End(loadIdx, "")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	m := mono.New(env, mono.NewNormalizer(tracer), mono.Options{
		MethodNormalizer: opts.MethodNormalizer,
		Verbose:          opts.Verbose,
	})

	specIdx := timer.Begin("specialize")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(res.Units))))
	for i := range res.Units {
		u := &res.Units[i]
		if u.Err != nil {
			continue
		}
		if prev, ok := opts.Previous[u.Rel]; ok && prev == u.Fingerprint && exists(u.Out) && !opts.DryRun {
			u.Skipped = true
			emit(opts.Progress, Event{File: u.Rel, Stage: StageWrite, Status: StatusSkipped})
			progress.UnitDone(0, 0)
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			processUnit(trace.WithUnit(gctx, u.Rel), m, res.FileSet, u, opts)
			return nil
		})
	}
	werr := g.Wait()
	timer.End(specIdx, fmt.Sprintf("%d units", len(res.Units)))
	if werr != nil {
		return nil, werr
	}

	for i := range res.Units {
		res.Units[i].Bag.Sort()
	}
	res.Timings = timer.Report()
	res.Duration = time.Since(started)
	emit(opts.Progress, Event{Stage: StageWrite, Status: StatusDone, Elapsed: res.Duration})
	return res, nil
}

func processUnit(ctx context.Context, m *mono.Monomorphizer, fs *source.FileSet, u *UnitResult, opts Options) {
	begin := time.Now()
	reporter := diag.BagReporter{Bag: u.Bag}
	defer func() { trace.ProgressFrom(ctx).UnitDone(len(u.Methods), u.Overloads) }()
	fail := func(stage Stage, err error) {
		u.Err = err
		trace.Note(ctx, trace.ScopeUnit, "failed", err.Error(), "stage", string(stage))
		emit(opts.Progress, Event{File: u.Rel, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(begin)})
	}

	emit(opts.Progress, Event{File: u.Rel, Stage: StageParse, Status: StatusWorking})
	unit, err := parser.ParseFile(ctx, fs, u.FileID, parser.Options{Reporter: reporter, Strict: true})
	if err != nil {
		fail(StageParse, err)
		return
	}

	emit(opts.Progress, Event{File: u.Rel, Stage: StageSpecialize, Status: StatusWorking})
	mres := m.Run(ctx, mono.Task{Unit: unit, Reporter: reporter})
	u.Methods = mres.Methods
	u.Overloads = mres.Overloads
	if mres.Err != nil {
		fail(StageSpecialize, mres.Err)
		return
	}

	emit(opts.Progress, Event{File: u.Rel, Stage: StageWrite, Status: StatusWorking})
	out, err := format.FormatUnit(mres.Unit, opts.Format)
	if err != nil {
		fail(StageWrite, err)
		return
	}
	u.Output = out
	if !opts.DryRun {
		if err := writeOutput(u.Out, out); err != nil {
			diag.ReportError(reporter, diag.IOWriteError, source.Span{File: u.FileID}, err.Error()).Emit()
			fail(StageWrite, err)
			return
		}
	}
	emit(opts.Progress, Event{File: u.Rel, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(begin)})
}

func checkOutputDir(opts Options) (string, error) {
	if opts.DryRun && opts.OutputDir == "" {
		return "", nil
	}
	if opts.OutputDir == "" {
		return "", fmt.Errorf("%w: output directory is not set", ErrConfig)
	}
	abs, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return "", fmt.Errorf("%w: output directory: %w", ErrConfig, err)
	}
	if opts.DryRun {
		return abs, nil
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: output directory %s does not exist", ErrConfig, opts.OutputDir)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("%w: output path %s is not a directory", ErrConfig, opts.OutputDir)
	}
	return abs, nil
}

func writeOutput(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // generated sources are world-readable
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func configDigest(opts Options) project.Digest {
	parts := []string{fmt.Sprintf("indent=%d tabs=%t verbose=%t", opts.Format.IndentWidth, opts.Format.UseTabs, opts.Verbose)}
	parts = append(parts, opts.SourcePath...)
	parts = append(parts, "--")
	parts = append(parts, opts.ClassPath...)
	return project.HashStrings(parts...)
}

func maxDiagnostics(opts Options) int {
	if opts.MaxDiagnostics > 0 {
		return opts.MaxDiagnostics
	}
	return 500
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
