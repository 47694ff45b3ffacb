package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up by FindManifest.
const ManifestName = "javamaybe.toml"

// ErrManifestExists is returned by Init when the directory already has a manifest.
var ErrManifestExists = errors.New("manifest already exists")

// Manifest is a loaded javamaybe.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML layout.
type Config struct {
	Package PackageConfig `toml:"package"`
	Paths   PathsConfig   `toml:"paths"`
	Run     RunConfig     `toml:"run"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// PathsConfig holds paths relative to the manifest directory.
type PathsConfig struct {
	Input      string   `toml:"input"`
	Output     string   `toml:"output"`
	Sourcepath []string `toml:"sourcepath"`
	Classpath  []string `toml:"classpath"`
}

type RunConfig struct {
	Jobs    int    `toml:"jobs"`
	Report  string `toml:"report"`
	Verbose bool   `toml:"verbose"`
}

// FindManifest walks up from startDir to locate javamaybe.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the nearest manifest. ok is false when there is none.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile parses and validates one manifest file.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Run.Jobs < 0 {
		return nil, fmt.Errorf("%s: [run].jobs must not be negative", path)
	}
	if meta.IsDefined("paths", "input") && strings.TrimSpace(cfg.Paths.Input) == "" {
		return nil, fmt.Errorf("%s: [paths].input is empty", path)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// Abs resolves a manifest-relative path. Empty stays empty.
func (m *Manifest) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) || m == nil {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// AbsList resolves every entry with Abs.
func (m *Manifest) AbsList(ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, m.Abs(p))
		}
	}
	return out
}

// DefaultManifest returns the manifest written by Init.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# javamaybe project manifest
[package]
name = %q

[paths]
input = "src"
output = "out"
sourcepath = []
classpath = []

[run]
jobs = 0
`, name)
}

// Init writes a default manifest into dir and creates the input and output directories.
func Init(dir string) (string, error) {
	st, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	case err != nil:
		return "", err
	case !st.IsDir():
		return "", fmt.Errorf("%q is not a directory", dir)
	}

	manifestPath := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return "", fmt.Errorf("%w: %s", ErrManifestExists, manifestPath)
	}
	name := strings.TrimSpace(filepath.Base(dir))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "javamaybe-project"
	}
	if err := os.WriteFile(manifestPath, []byte(DefaultManifest(name)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	for _, sub := range []string{"src", "out"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", sub, err)
		}
	}
	return manifestPath, nil
}
