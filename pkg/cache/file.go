package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// headerSize is the length of the expiry stamp in front of every entry:
// the expiry as big-endian Unix nanoseconds, 0 for entries that never
// expire.
const headerSize = 8

// tempPrefix marks entries still being written by Set.
const tempPrefix = ".tmp-"

// FileCache stores entries as files below a directory, for the CLI.
// Artifacts are written as raw bytes behind the expiry stamp, so a cached
// PNG is the image plus eight bytes.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a cache in dir, creating the directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, ok := c.unwrap(raw)
	if !ok {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry to a temporary file and renames it into place, so
// concurrent readers never see a partial image.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var stamp [headerSize]byte
	if ttl > 0 {
		binary.BigEndian.PutUint64(stamp[:], uint64(c.now().Add(ttl).UnixNano()))
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPrefix+"*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(stamp[:]); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Prune removes expired and unreadable entries and returns how many were
// removed. Temporary files of in-flight writes are left alone.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if _, ok := c.unwrap(raw); !ok {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}

func (c *FileCache) Close() error { return nil }

// unwrap strips the expiry stamp. ok is false for short or expired entries.
func (c *FileCache) unwrap(raw []byte) (data []byte, ok bool) {
	if len(raw) < headerSize {
		return nil, false
	}
	if exp := int64(binary.BigEndian.Uint64(raw[:headerSize])); exp != 0 && c.now().UnixNano() > exp {
		return nil, false
	}
	return raw[headerSize:], true
}

// path maps a key to <dir>/<first two hex chars>/<rest>, keeping
// directories small.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:])
}

var _ Cache = (*FileCache)(nil)
