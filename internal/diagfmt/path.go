package diagfmt

import (
	"path/filepath"
	"strings"

	"javamaybe/internal/source"
)

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	if f.Flags&source.FileVirtual != 0 && mode != PathModeBasename {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.FromSlash(f.Path)); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(filepath.FromSlash(f.Path))
	case PathModeRelative, PathModeAuto:
		rel, ok := relativeTo(fs.BaseDir(), f.Path)
		if ok || mode == PathModeRelative {
			return rel
		}
		return f.Path
	}
	return f.Path
}

func relativeTo(base, path string) (string, bool) {
	if base == "" {
		return path, false
	}
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return path, false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path, false
	}
	return filepath.ToSlash(rel), true
}
