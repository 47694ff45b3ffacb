package ui

import (
	"strings"
	"testing"

	"javamaybe/internal/driver"
)

func TestProgressModelTracksUnits(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("javamaybe", events).(*progressModel)

	steps := []driver.Event{
		{File: "p/A.java", Stage: driver.StageLoad, Status: driver.StatusQueued},
		{File: "p/B.java", Stage: driver.StageLoad, Status: driver.StatusQueued},
		{File: "p/A.java", Stage: driver.StageSpecialize, Status: driver.StatusWorking},
		{File: "p/B.java", Stage: driver.StageParse, Status: driver.StatusError},
		{File: "p/A.java", Stage: driver.StageWrite, Status: driver.StatusDone},
		{Stage: driver.StageWrite, Status: driver.StatusDone},
	}
	for _, ev := range steps {
		m.Update(eventMsg(ev))
	}

	if len(m.items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.items))
	}
	if m.items[0].status != "done" || m.items[1].status != "error" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if m.failed != 1 || m.finished() != 2 {
		t.Fatalf("failed=%d finished=%d", m.failed, m.finished())
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: javamaybe (2/2)", "p/A.java", "p/B.java"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"com/example/VeryLong.java", 10, "com/exa..."},
		{"日本語ファイル.java", 8, "日本..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
