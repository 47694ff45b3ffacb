// Package indexcache keeps resolver indexes (parsed source files, scanned
// archives) on disk so repeated runs skip the expensive part.
package indexcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the payload layout or any cached
// value type changes.
const schemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// Key hashes the given parts into a Digest. Parts are length-prefixed so
// ("ab","c") and ("a","bc") differ.
func Key(parts ...string) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ContentKey hashes raw bytes under a namespace.
func ContentKey(namespace string, content []byte) Digest {
	sum := sha256.Sum256(content)
	return Key(namespace, string(sum[:]))
}

// Cache хранит индексы по Digest на диске.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type payload struct {
	Schema uint16
	Kind   string
	Data   msgpack.RawMessage
}

// Open initializes a cache at the standard per-user location.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir initializes a cache rooted at dir.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("indexcache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(kind string, key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по виду индекса, чтобы чистить выборочно
	return filepath.Join(c.dir, kind, hexKey[:2], hexKey+".mp")
}

// Put serializes v under (kind, key). A nil cache ignores the call.
func (c *Cache) Put(kind string, key Digest, v any) error {
	if c == nil {
		return nil
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("indexcache: encode %s: %w", kind, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(kind, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // gone after a successful rename

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&payload{Schema: schemaVersion, Kind: kind, Data: data}); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get decodes the value stored under (kind, key) into out. Entries written
// by another schema version count as misses.
func (c *Cache) Get(kind string, key Digest, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(kind, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close() //nolint:errcheck

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return false, fmt.Errorf("indexcache: decode %s: %w", kind, err)
	}
	if p.Schema != schemaVersion || p.Kind != kind {
		return false, nil
	}
	if err := msgpack.Unmarshal(p.Data, out); err != nil {
		return false, fmt.Errorf("indexcache: decode %s: %w", kind, err)
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
