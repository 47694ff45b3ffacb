package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"javamaybe/internal/diag"
	"javamaybe/internal/source"
)

func sampleBag(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("class A {\n\tvoid m(Any a) {}\n}\n")
	id := fs.AddVirtual("/home/user/project/src/A.java", content)
	bag := diag.NewBag(10)
	diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.MonoNoCallSiteTypes,
		source.Span{File: id, Start: 18, End: 23}, "no call-site types for parameter a").
		WithNote(source.Span{File: id, Start: 11, End: 28}, "method declared here").
		Emit()
	return fs, bag
}

func TestPrettyPlain(t *testing.T) {
	fs, bag := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})

	want := "A.java:2:9: WARNING MONO4001: no call-site types for parameter a\n" +
		" 2 |     void m(Any a) {}\n" +
		"   | " + strings.Repeat(" ", 11) + "^~~~~\n" +
		"  note: A.java:2:2: method declared here\n"
	if got := buf.String(); got != want {
		t.Fatalf("pretty output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyHidesNotesAndFilters(t *testing.T) {
	fs, bag := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{MinSeverity: diag.SevError})
	if buf.Len() != 0 {
		t.Fatalf("warning printed with MinSeverity=error:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs, bag := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true, PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in colored output: %q", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	id := fs.Add("/home/user/project/src/A.java", []byte("class A {}\n"), 0)
	f := fs.Get(id)

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/A.java"},
		{"relative", PathModeRelative, "src/A.java"},
		{"auto", PathModeAuto, "src/A.java"},
		{"basename", PathModeBasename, "A.java"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(f, fs, tt.mode); got != tt.want {
				t.Fatalf("formatPath = %q, want %q", got, tt.want)
			}
		})
	}
}
