package diag

import (
	"testing"

	"javamaybe/internal/source"
)

func TestBagLimitAndSeverity(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}

	ReportInfo(r, MonoAnalyzeMethod, source.Span{Start: 5}, "m").Emit()
	ReportWarning(r, MonoNoCallSiteTypes, source.Span{Start: 1}, "a").Emit()
	ReportError(r, SynSyntaxError, source.Span{Start: 0}, "boom").Emit()

	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d, want 2/1", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Errorf("the error must displace the info entry of a full bag")
	}
	if len(bag.Filter(MonoAnalyzeMethod)) != 0 || len(bag.Filter(MonoNoCallSiteTypes)) != 1 {
		t.Errorf("items = %+v", bag.Items())
	}

	// nothing less severe left to give up
	ReportWarning(r, MonoNoCallSiteTypes, source.Span{Start: 9}, "b").Emit()
	if bag.Dropped() != 2 || bag.Len() != 2 {
		t.Fatalf("len=%d dropped=%d, want 2/2", bag.Len(), bag.Dropped())
	}

	bag.Sort()
	if bag.Items()[0].Code != SynSyntaxError || bag.Items()[1].Code != MonoNoCallSiteTypes {
		t.Errorf("sort by start offset failed: %v", bag.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 4}
	for range 3 {
		r.Report(MonoSkippedArgument, SevInfo, sp, "same", nil)
	}
	r.Report(MonoSkippedArgument, SevInfo, sp, "other", nil)
	if got := len(bag.Filter(MonoSkippedArgument)); got != 2 {
		t.Errorf("got %d diagnostics, want 2", got)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		SynSyntaxError:      "SYN2001",
		ResUnresolvedType:   "RES3001",
		MonoNoCallSiteTypes: "MONO4001",
		IOLoadError:         "IO5001",
		CfgArchiveLoad:      "CFG6002",
		UnknownCode:         "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code title")
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"", SevInfo, false},
		{"Info", SevInfo, false},
		{"warn", SevWarning, false},
		{" warning ", SevWarning, false},
		{"ERROR", SevError, false},
		{"fatal", SevInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSeverity(%q) = %s, %v", tt.in, got, err)
		}
	}
	if Severity(7).String() != "UNKNOWN" || SevWarning.String() != "WARNING" {
		t.Errorf("names = %s %s", Severity(7), SevWarning)
	}
}
