package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3-rc.1"
	GitCommit = "abc123"
	BuildDate = ""

	got := Info(false)
	if !strings.HasPrefix(got, "javamaybe 1.2.3-rc.1\ncommit: abc123\n") {
		t.Fatalf("Info = %q", got)
	}
	if strings.Contains(got, "built:") {
		t.Fatalf("empty build date printed: %q", got)
	}
}

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = origVersion, origNoColor })
	color.NoColor = true

	tests := []string{"0.1.0-dev", "1.2.3", "nightly"}
	for _, v := range tests {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() without color = %q, want %q", got, v)
		}
	}

	color.NoColor = false
	Version = "1.2.3"
	if got := Colored(); !strings.Contains(got, "\x1b[") {
		t.Errorf("Colored() = %q, want ANSI escapes", got)
	}
}
