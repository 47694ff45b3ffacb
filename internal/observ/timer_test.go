package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "3 files")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(rep.Phases))
	}
	if rep.Phases[0].Name != "parse" || rep.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected phase %+v", rep.Phases[0])
	}
	sum := tm.Summary()
	for _, want := range []string{"timings:", "parse", "// 3 files", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Measure("write", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure error = %v", err)
	}
	if got := tm.Report().Phases[0].Note; got != "failed" {
		t.Fatalf("note = %q, want failed", got)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			tm.End(tm.Begin("unit"), "")
		})
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("phases = %d, want 16", n)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if rep := tm.Report(); len(rep.Phases) != 0 {
		t.Fatalf("nil timer reported phases")
	}
}
