package resolve

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"javamaybe/internal/indexcache"
)

const archiveCacheKind = "archive"

// Archive serves the classes of a jar or zip read at construction time.
type Archive struct {
	path  string
	types map[string]*TypeInfo
}

// NewArchive reads every class file of the archive at path. An unreadable
// archive yields *LoadError.
func NewArchive(path string, cache *indexcache.Cache) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Kind: "classpath", Path: path, Err: err}
	}
	key := indexcache.Key(archiveCacheKind, path,
		strconv.FormatInt(info.Size(), 10), strconv.FormatInt(info.ModTime().UnixNano(), 10))
	var cached []*TypeInfo
	if ok, err := cache.Get(archiveCacheKind, key, &cached); ok && err == nil {
		return newArchiveFrom(path, cached), nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &LoadError{Kind: "classpath", Path: path, Err: err}
	}
	defer zr.Close() //nolint:errcheck

	var infos []*TypeInfo
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".class") || strings.HasSuffix(f.Name, "module-info.class") {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, &LoadError{Kind: "classpath", Path: path, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
		ti, err := readClass(data)
		if err != nil || isAnonymousClass(ti.Name) {
			continue
		}
		infos = append(infos, ti)
	}
	_ = cache.Put(archiveCacheKind, key, infos) //nolint:errcheck // cache is best-effort
	return newArchiveFrom(path, infos), nil
}

func newArchiveFrom(path string, infos []*TypeInfo) *Archive {
	a := &Archive{path: path, types: make(map[string]*TypeInfo, len(infos))}
	for _, ti := range infos {
		a.types[ti.Name] = ti
	}
	return a
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck
	return io.ReadAll(rc)
}

// isAnonymousClass matches Outer.1 style names produced for anonymous and local classes.
func isAnonymousClass(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i+1 >= len(name) {
		return false
	}
	c := name[i+1]
	return c >= '0' && c <= '9'
}

func (a *Archive) Name() string { return "classpath:" + a.path }

func (a *Archive) Lookup(qualified string) (*TypeInfo, bool) {
	ti, ok := a.types[qualified]
	return ti, ok
}

// Len reports how many classes were indexed.
func (a *Archive) Len() int { return len(a.types) }
