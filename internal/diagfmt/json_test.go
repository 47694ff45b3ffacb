package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"javamaybe/internal/diag"
	"javamaybe/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("class A {\n    void m(Any a) {}\n}\n")
	fileID := fs.AddVirtual("A.java", content)

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.MonoNoCallSiteTypes,
		Message:  "no call-site types for parameter a of m(Any)",
		Primary:  source.Span{File: fileID, Start: 21, End: 26},
		Notes: []diag.Note{{
			Span: source.Span{File: fileID, Start: 14, End: 30},
			Msg:  "method declared here",
		}},
	})

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", output.Count, len(output.Diagnostics))
	}
	d := output.Diagnostics[0]
	if d.Severity != "WARNING" || d.Code != "MONO4001" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Location.File != "A.java" {
		t.Errorf("file = %s", d.Location.File)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 12 {
		t.Errorf("position = %d:%d, want 2:12", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "method declared here" {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("B.java", []byte("class B {}\n"))
	bag := diag.NewBag(10)
	for range 3 {
		bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.MonoAnalyzeMethod, Primary: source.Span{File: id}})
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Dropped != 1 {
		t.Fatalf("count = %d dropped = %d, want 2 and 1", out.Count, out.Dropped)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("positions must be omitted without IncludePositions")
	}
}
