package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeMethod, false},
		{LevelDebug, ScopeMethod, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestRingTracerSpans(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	span, _ := Start(ctx, ScopeUnit, "unit")
	span.WithExtra("file", "A.java")
	Point(FromContext(ctx), ScopeMethod, "fallback", "T -> Object", "method", "m")
	span.End("done")

	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("events = %d", len(events))
	}
	if events[0].Kind != KindSpanBegin || events[1].Kind != KindPoint || events[2].Kind != KindSpanEnd {
		t.Fatalf("kinds = %s %s %s", events[0].Kind, events[1].Kind, events[2].Kind)
	}
	if events[1].Extra["method"] != "m" || events[2].Extra["file"] != "A.java" {
		t.Fatalf("extra = %v / %v", events[1].Extra, events[2].Extra)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeDriver, name, "")
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("snapshot = %+v", events)
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	Point(tr, ScopePass, "parse", "")
	Point(tr, ScopeMethod, "hidden", "")
	if buf.Len() != 0 {
		t.Fatalf("stream wrote before flush: %q", buf.String())
	}
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "parse") || strings.Contains(out, "hidden") {
		t.Fatalf("output = %q", out)
	}
}

func TestNDJSONFormat(t *testing.T) {
	ev := &Event{Kind: KindPoint, Scope: ScopeUnit, Name: "x", Extra: map[string]string{"k": "v"}}
	line := string(FormatEvent(ev, FormatNDJSON))
	if !strings.HasSuffix(line, "\n") || !strings.Contains(line, `"scope":"unit"`) || !strings.Contains(line, `"k":"v"`) {
		t.Fatalf("line = %q", line)
	}
}

func TestNopTracerFromEmptyContext(t *testing.T) {
	tr := FromContext(context.Background())
	if tr.Enabled() {
		t.Fatal("default tracer must be disabled")
	}
	if span, _ := Start(context.Background(), ScopeDriver, "x"); span.ID() != 0 {
		t.Fatalf("nop span id = %d", span.ID())
	}
}

func TestStartCarriesUnitAndParent(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithUnit(WithTracer(context.Background(), ring), "p/A.java")

	unit, ctx := Start(ctx, ScopeUnit, "monomorphize")
	method, ctx := Start(ctx, ScopeMethod, "specialize")
	method.WithList("any_params", []string{"x", "y"}).WithInt("overloads", 4)
	Note(ctx, ScopeMethod, "normalize", "T -> Object")
	method.End("")
	unit.End("")

	events := ring.Snapshot()
	if len(events) != 5 {
		t.Fatalf("events = %d", len(events))
	}
	for _, ev := range events {
		if ev.Unit != "p/A.java" {
			t.Errorf("%s %s: unit = %q", ev.Kind, ev.Name, ev.Unit)
		}
	}
	if events[1].ParentID != unit.ID() || events[2].ParentID != method.ID() {
		t.Fatalf("parents = %d, %d", events[1].ParentID, events[2].ParentID)
	}
	end := events[3]
	if end.Extra["any_params"] != "x,y" || end.Extra["overloads"] != "4" {
		t.Fatalf("extra = %v", end.Extra)
	}
}

func TestStartFilteredKeepsParent(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	outer, ctx := Start(ctx, ScopePass, "run")
	inner, ctx2 := Start(ctx, ScopeMethod, "specialize")
	if inner.ID() != 0 || ctx2 != ctx {
		t.Fatalf("filtered span id = %d", inner.ID())
	}
	inner.WithInt("overloads", 1).End("")
	outer.End("")
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("events = %d", n)
	}
}

func TestProgress(t *testing.T) {
	var nilProgress *Progress
	nilProgress.Expect(2)
	nilProgress.UnitDone(1, 1)

	p := &Progress{}
	p.Expect(3)
	p.UnitDone(2, 5)
	p.UnitDone(0, 0)
	if got, want := p.String(), "units 2/3, methods 2, overloads 5"; got != want {
		t.Fatalf("progress = %q, want %q", got, want)
	}
	if ProgressFrom(WithProgress(context.Background(), p)) != p {
		t.Fatal("progress not carried by context")
	}
}

func TestHeartbeatReportsProgress(t *testing.T) {
	ring := NewRingTracer(64, LevelPhase)
	p := &Progress{}
	p.Expect(4)
	p.UnitDone(1, 3)

	h := StartHeartbeat(ring, time.Millisecond, p)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	events := ring.Snapshot()
	if len(events) == 0 {
		t.Fatal("no heartbeat")
	}
	ev := events[0]
	if ev.Kind != KindHeartbeat || ev.Extra["done"] != "1" || ev.Extra["units"] != "4" || ev.Extra["overloads"] != "3" {
		t.Fatalf("heartbeat = %+v", ev)
	}
	if !strings.Contains(ev.Detail, "units 1/4") {
		t.Fatalf("detail = %q", ev.Detail)
	}
	if StartHeartbeat(Nop, time.Millisecond, p) != nil {
		t.Fatal("heartbeat started on a disabled tracer")
	}
}

func TestErrorLevelRecordsForDump(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Level: LevelError, Mode: ModeStream, Output: &out, Format: FormatNDJSON}
	tr, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithUnit(WithTracer(context.Background(), tr), "p/Bad.java")
	span, ctx := Start(ctx, ScopeUnit, "parse")
	Note(ctx, ScopeUnit, "failed", "syntax error", "stage", "parse")
	Note(ctx, ScopeMethod, "normalize", "T -> Object")
	span.End("")
	if out.Len() != 0 {
		t.Fatalf("error level wrote live events: %q", out.String())
	}

	if err := DumpRecent(tr, cfg); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("dump = %q", out.String())
	}
	if !strings.Contains(lines[1], `"name":"failed"`) || !strings.Contains(lines[1], `"unit":"p/Bad.java"`) {
		t.Fatalf("failure event = %s", lines[1])
	}
}

func TestStreamTracerIsNotDumped(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Level: LevelPhase, Mode: ModeStream, Output: &out}
	tr, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeDriver, "run", "")
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}
	written := out.Len()
	if written == 0 {
		t.Fatal("nothing streamed")
	}
	if err := DumpRecent(tr, cfg); err != nil || out.Len() != written {
		t.Fatalf("stream tracer dumped again: %v, %q", err, out.String())
	}
}

func TestMulti(t *testing.T) {
	a := NewRingTracer(4, LevelPhase)
	b := NewRingTracer(4, LevelDebug)
	if Multi(nil, Nop) != Nop || Multi(a, Nop) != Tracer(a) {
		t.Fatal("multi did not collapse")
	}
	m := Multi(a, b)
	if m.Level() != LevelDebug {
		t.Fatalf("level = %s", m.Level())
	}
	Point(m, ScopeMethod, "x", "")
	if len(a.Snapshot()) != 0 || len(b.Snapshot()) != 1 {
		t.Fatal("members did not filter by their own level")
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("Detail"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %s, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
	if m, err := ParseMode("BOTH"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %s, %v", m, err)
	}
}
