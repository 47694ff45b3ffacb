package resolve

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"javamaybe/internal/indexcache"
	"javamaybe/internal/parser"
)

const sourceCacheKind = "source"

// SourcePath indexes a directory tree of .java files on first lookup.
type SourcePath struct {
	root  string
	cache *indexcache.Cache

	once    sync.Once
	types   map[string]*TypeInfo
	skipped []string // files that failed to read or parse
}

// NewSourcePath checks that root is a readable directory. Indexing is deferred.
func NewSourcePath(root string, cache *indexcache.Cache) (*SourcePath, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &LoadError{Kind: "sourcepath", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Kind: "sourcepath", Path: root, Err: errors.New("not a directory")}
	}
	return &SourcePath{root: root, cache: cache}, nil
}

func (s *SourcePath) Name() string { return "sourcepath:" + s.root }

func (s *SourcePath) Lookup(qualified string) (*TypeInfo, bool) {
	s.once.Do(s.index)
	ti, ok := s.types[qualified]
	return ti, ok
}

// Skipped lists files left out of the index.
func (s *SourcePath) Skipped() []string {
	s.once.Do(s.index)
	return s.skipped
}

func (s *SourcePath) index() {
	s.types = make(map[string]*TypeInfo)
	//nolint:errcheck // per-file errors are recorded in skipped
	filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.skipped = append(s.skipped, path)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, ".java") {
			return nil
		}
		infos, ok := s.indexFile(path)
		if !ok {
			s.skipped = append(s.skipped, path)
			return nil
		}
		for _, ti := range infos {
			if _, dup := s.types[ti.Name]; !dup {
				s.types[ti.Name] = ti
			}
		}
		return nil
	})
}

func (s *SourcePath) indexFile(path string) ([]*TypeInfo, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	key := indexcache.ContentKey(sourceCacheKind, content)
	var cached []*TypeInfo
	if ok, err := s.cache.Get(sourceCacheKind, key, &cached); ok && err == nil {
		return cached, true
	}
	unit, err := parser.Parse(content, 0, parser.Options{})
	if err != nil {
		return nil, false
	}
	infos := IndexUnit(unit)
	_ = s.cache.Put(sourceCacheKind, key, infos) //nolint:errcheck // cache is best-effort
	return infos, true
}
