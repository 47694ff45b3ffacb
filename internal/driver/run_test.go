package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"javamaybe/internal/diag"
	"javamaybe/internal/resolve"
	"javamaybe/internal/trace"
)

const markerSource = `package p;

import com.techshroom.javamaybe.Any;

class C {
	static void m(Any a, int b) {
		System.out.println(a);
	}

	void run() {
		m("x", 1);
		m(2.0, 3);
	}
}
`

const plainSource = `package p;

class Plain {
	int f(int x) {
		return x + 1;
	}
}
`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func setup(t *testing.T, files map[string]string) (in, out string) {
	t.Helper()
	base := t.TempDir()
	in = filepath.Join(base, "src")
	out = filepath.Join(base, "out")
	writeTree(t, in, files)
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	return in, out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunWritesMirroredOutputs(t *testing.T) {
	in, out := setup(t, map[string]string{"p/C.java": markerSource, "p/Plain.java": plainSource})

	var (
		mu     sync.Mutex
		events []Event
	)
	res, err := Run(context.Background(), Options{
		Input:     in,
		OutputDir: out,
		Jobs:      2,
		Progress: SinkFunc(func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, ev)
		}),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.HasErrors() {
		var buf bytes.Buffer
		for _, d := range res.Bag().Items() {
			buf.WriteString(d.Message + "\n")
		}
		t.Fatalf("unexpected errors:\n%s", buf.String())
	}
	if len(res.Units) != 2 || res.Units[0].Rel != "p/C.java" || res.Units[1].Rel != "p/Plain.java" {
		t.Fatalf("units = %+v", res.Units)
	}

	got := readFile(t, filepath.Join(out, "p", "C.java"))
	for _, want := range []string{"static void m(String a, int b) {", "static void m(double a, int b) {"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "javamaybe") || strings.Contains(got, "Any a") {
		t.Errorf("marker survived:\n%s", got)
	}
	if plain := readFile(t, filepath.Join(out, "p", "Plain.java")); !strings.Contains(plain, "int f(int x) {") {
		t.Errorf("plain output:\n%s", plain)
	}
	if res.Units[0].Overloads != 2 || len(res.Units[0].Methods) != 1 {
		t.Errorf("C.java overloads=%d methods=%d", res.Units[0].Overloads, len(res.Units[0].Methods))
	}

	done := map[string]bool{}
	for _, ev := range events {
		if ev.File != "" && ev.Status == StatusDone {
			done[ev.File] = true
		}
	}
	if !done["p/C.java"] || !done["p/Plain.java"] {
		t.Errorf("missing done events: %v", done)
	}
	for _, name := range []string{"discover", "environment", "load", "specialize"} {
		found := false
		for _, p := range res.Timings.Phases {
			found = found || p.Name == name
		}
		if !found {
			t.Errorf("timings missing phase %q", name)
		}
	}
}

func TestRunSingleFileInput(t *testing.T) {
	in, out := setup(t, map[string]string{"C.java": markerSource})
	res, err := Run(context.Background(), Options{Input: filepath.Join(in, "C.java"), OutputDir: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Units) != 1 || res.Units[0].Out != filepath.Join(out, "C.java") {
		t.Fatalf("units = %+v", res.Units)
	}
}

func TestRunConfigErrors(t *testing.T) {
	in, out := setup(t, map[string]string{"C.java": markerSource})
	tests := []struct {
		name string
		opts Options
		load bool
	}{
		{"missing output", Options{Input: in, OutputDir: filepath.Join(out, "nope")}, false},
		{"output is file", Options{Input: in, OutputDir: filepath.Join(in, "C.java")}, false},
		{"missing input", Options{Input: filepath.Join(in, "nope"), OutputDir: out}, false},
		{"bad classpath", Options{Input: in, OutputDir: out, ClassPath: []string{filepath.Join(in, "missing.jar")}}, true},
		{"bad sourcepath", Options{Input: in, OutputDir: out, SourcePath: []string{filepath.Join(in, "missing")}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.opts)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("err = %v, want ErrConfig", err)
			}
			var le *resolve.LoadError
			if got := errors.As(err, &le); got != tt.load {
				t.Fatalf("errors.As(LoadError) = %v, want %v (%v)", got, tt.load, err)
			}
		})
	}
}

func TestRunSyntaxErrorIsPerUnit(t *testing.T) {
	in, out := setup(t, map[string]string{"Bad.java": "class Bad {\n\tvoid m( {\n}\n", "p/Plain.java": plainSource})
	res, err := Run(context.Background(), Options{Input: in, OutputDir: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.HasErrors() {
		t.Fatal("expected errors")
	}
	bad := res.Units[0]
	if bad.Rel != "Bad.java" || bad.Err == nil {
		t.Fatalf("bad unit = %+v", bad)
	}
	if len(bad.Bag.Filter(diag.SynSyntaxError)) == 0 {
		t.Fatalf("no syntax diagnostic: %+v", bad.Bag.Items())
	}
	if _, err := os.Stat(filepath.Join(out, "Bad.java")); !os.IsNotExist(err) {
		t.Fatalf("broken unit was written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "p", "Plain.java")); err != nil {
		t.Fatalf("healthy unit not written: %v", err)
	}
}

func TestRunSkipsUnchanged(t *testing.T) {
	in, out := setup(t, map[string]string{"C.java": markerSource, "Plain.java": plainSource})
	first, err := Run(context.Background(), Options{Input: in, OutputDir: out})
	if err != nil {
		t.Fatal(err)
	}
	writeTree(t, in, map[string]string{"Plain.java": strings.Replace(plainSource, "x + 1", "x + 2", 1)})

	second, err := Run(context.Background(), Options{Input: in, OutputDir: out, Previous: first.Fingerprints()})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Units[0].Skipped || second.Units[1].Skipped {
		t.Fatalf("skipped = %v/%v, want true/false", second.Units[0].Skipped, second.Units[1].Skipped)
	}
	if got := readFile(t, filepath.Join(out, "Plain.java")); !strings.Contains(got, "x + 2") {
		t.Fatalf("changed unit not rewritten:\n%s", got)
	}

	third, err := Run(context.Background(), Options{Input: in, OutputDir: out, Previous: second.Fingerprints(), Verbose: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.Units[0].Skipped {
		t.Fatal("configuration change must invalidate fingerprints")
	}
}

func TestRunIgnoresOutputInsideInput(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"C.java": markerSource, "out/Old.java": plainSource})
	res, err := Run(context.Background(), Options{Input: root, OutputDir: filepath.Join(root, "out")})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Units) != 1 || res.Units[0].Rel != "C.java" {
		t.Fatalf("units = %+v", res.Units)
	}
}

func TestRunDryRun(t *testing.T) {
	in, _ := setup(t, map[string]string{"C.java": markerSource})
	res, err := Run(context.Background(), Options{Input: in, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Units[0].Output), "m(double a, int b)") {
		t.Fatalf("output:\n%s", res.Units[0].Output)
	}
}

func TestRunCancelled(t *testing.T) {
	in, out := setup(t, map[string]string{"C.java": markerSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{Input: in, OutputDir: out}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestReportRoundTrip(t *testing.T) {
	in, out := setup(t, map[string]string{"C.java": markerSource, "Bad.java": "class Bad {"})
	res, err := Run(context.Background(), Options{Input: in, OutputDir: out})
	if err != nil {
		t.Fatal(err)
	}
	rep := BuildReport(res, true)
	if rep.Totals.Units != 2 || rep.Totals.Failed != 1 || rep.Totals.Overloads != 2 || rep.Totals.Methods != 1 {
		t.Fatalf("totals = %+v", rep.Totals)
	}

	var buf bytes.Buffer
	if err := rep.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, want := range []string{"status: specialized", "status: error", "method: m(Any, int)", "- m(String, int)", "timings:"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
	back, err := ReadReport(&buf)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if back.Totals != rep.Totals || back.Units[1].Methods[0].AnyParams[0].Name != "a" {
		t.Fatalf("decoded report differs: %+v", back.Totals)
	}
}

func TestWatchRerunsOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("file system watcher")
	}
	in, out := setup(t, map[string]string{"C.java": markerSource})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	runs := make(chan *Result, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, WatchOptions{
			Options:  Options{Input: in, OutputDir: out},
			Debounce: 50 * time.Millisecond,
			OnRun: func(r *Result, err error) {
				if err == nil {
					runs <- r
				}
			},
		})
	}()

	select {
	case <-runs:
	case <-ctx.Done():
		t.Fatal("no initial run")
	}
	writeTree(t, in, map[string]string{"D.java": plainSource})

	select {
	case r := <-runs:
		if len(r.Units) != 2 || !r.Units[0].Skipped || r.Units[1].Skipped {
			t.Fatalf("rerun units = %+v", r.Units)
		}
	case <-ctx.Done():
		t.Fatal("no rerun after change")
	}
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestRunReportsProgressAndUnitTrace(t *testing.T) {
	in, out := setup(t, map[string]string{
		"Bad.java":     "class Bad {\n\tvoid m( {\n}\n",
		"p/C.java":     markerSource,
		"p/Plain.java": plainSource,
	})
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	progress := &trace.Progress{}
	ctx := trace.WithProgress(trace.WithTracer(context.Background(), ring), progress)
	if _, err := Run(ctx, Options{Input: in, OutputDir: out}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := progress.String(), "units 3/3, methods 1, overloads 2"; got != want {
		t.Fatalf("progress = %q, want %q", got, want)
	}

	var failed, specialized bool
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Name == "failed":
			failed = ev.Unit == "Bad.java" && ev.Extra["stage"] == string(StageParse)
		case ev.Name == "specialize" && ev.Kind == trace.KindSpanEnd && ev.Extra["any_params"] != "":
			specialized = ev.Unit == "p/C.java" && ev.Extra["any_params"] == "a" &&
				ev.Extra["candidates.a"] == "java.lang.String,double" && ev.Extra["overloads"] == "2"
		}
	}
	if !failed || !specialized {
		t.Fatalf("trace misses unit events (failed=%v specialized=%v): %+v", failed, specialized, ring.Snapshot())
	}
}
