package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// listJavaFiles returns the input root and the sorted *.java files under it.
// A single file input yields its directory as root.
func listJavaFiles(input string) (root string, files []string, err error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", nil, err
	}
	if !st.IsDir() {
		if !isJavaFile(abs) {
			return "", nil, fmt.Errorf("%s is not a .java file", input)
		}
		return filepath.Dir(abs), []string{abs}, nil
	}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != abs && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isJavaFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return abs, files, nil
}

func isJavaFile(path string) bool {
	return strings.HasSuffix(path, ".java")
}

// outputPath mirrors path (under root) into outDir.
func outputPath(root, outDir, path string) (rel, out string, err error) {
	rel, err = filepath.Rel(root, path)
	if err != nil {
		return "", "", err
	}
	return filepath.ToSlash(rel), filepath.Join(outDir, rel), nil
}

// within reports whether path lives inside dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
