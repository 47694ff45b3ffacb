package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "[paths]\ninput = \"src\"\n")
	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindManifest(deep)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("FindManifest = %q, want %q", got, want)
	}
}

func TestLoadResolvesPaths(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"

[paths]
input = "src/main/java"
output = "build/gen"
sourcepath = ["lib/src", ""]
classpath = ["lib/a.jar", "/opt/b.jar"]

[run]
jobs = 4
report = "forks.yaml"
`)
	m, ok, err := Load(root)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "demo" || m.Config.Run.Jobs != 4 {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	if got, want := m.Abs(m.Config.Paths.Input), filepath.Join(root, "src", "main", "java"); got != want {
		t.Errorf("input = %q, want %q", got, want)
	}
	sp := m.AbsList(m.Config.Paths.Sourcepath)
	if len(sp) != 1 || sp[0] != filepath.Join(root, "lib", "src") {
		t.Errorf("sourcepath = %v", sp)
	}
	cp := m.AbsList(m.Config.Paths.Classpath)
	if len(cp) != 2 || cp[1] != "/opt/b.jar" {
		t.Errorf("classpath = %v", cp)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[paths\n", "failed to parse TOML"},
		{"unknown key", "[paths]\nimput = \"src\"\n", "unknown keys: paths.imput"},
		{"negative jobs", "[run]\njobs = -1\n", "jobs must not be negative"},
		{"empty input", "[paths]\ninput = \"  \"\n", "[paths].input is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("LoadFile error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	path, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("generated manifest does not load: %v", err)
	}
	if m.Config.Package.Name != "proj" || m.Config.Paths.Output != "out" {
		t.Fatalf("unexpected defaults %+v", m.Config)
	}
	for _, sub := range []string{"src", "out"} {
		if st, err := os.Stat(filepath.Join(dir, sub)); err != nil || !st.IsDir() {
			t.Errorf("%s not created: %v", sub, err)
		}
	}
	if _, err := Init(dir); !errors.Is(err, ErrManifestExists) {
		t.Fatalf("second Init error = %v, want ErrManifestExists", err)
	}
}

func TestHashStrings(t *testing.T) {
	if HashStrings("ab", "c") == HashStrings("a", "bc") {
		t.Fatal("HashStrings must separate parts")
	}
	a := HashStrings("x")
	if Combine(a) == Combine(a, a) {
		t.Fatal("Combine must depend on deps")
	}
}
