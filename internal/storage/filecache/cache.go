// Package filecache is a file-per-key TTL cache. Every entry is a small JSON
// document on disk, so cached upstream responses survive restarts and can be
// inspected or deleted by hand.
package filecache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/agriaid/pkg/log"
)

const lockStripes = 32

type entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
}

// Cache stores JSON-serializable values under string keys with a fixed TTL.
// Keys are sanitized into file names; the logical key is embedded in the
// entry so sanitization collisions are detectable.
type Cache struct {
	dir   string
	ttl   time.Duration
	locks [lockStripes]sync.Mutex
}

// New creates the cache directory if needed.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %q: %w", dir, err)
	}

	return &Cache{dir: dir, ttl: ttl}, nil
}

// Get unmarshals the cached value for key into dest. The second return is
// false on a miss, an expired entry, or an unreadable file. Expired entries
// are removed on read.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	lock := c.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache entry: %w", err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// Corrupt entry, drop it and treat as a miss.
		_ = os.Remove(path)
		return false, nil
	}

	if e.Key != key {
		log.FromCtx(ctx).Warn().
			Str("want", key).
			Str("got", e.Key).
			Msg("cache key collision, treating as miss")
		return false, nil
	}

	if time.Since(e.CreatedAt) > c.ttl {
		_ = os.Remove(path)
		return false, nil
	}

	if err := json.Unmarshal(e.Value, dest); err != nil {
		return false, fmt.Errorf("decoding cached value: %w", err)
	}

	return true, nil
}

// Set writes value under key, replacing any previous entry.
func (c *Cache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding value for cache: %w", err)
	}

	e := entry{Key: key, Value: raw, CreatedAt: time.Now()}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	lock := c.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for key. Missing entries are not an error.
func (c *Cache) Delete(_ context.Context, key string) error {
	lock := c.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache entry: %w", err)
	}

	return nil
}

// Clear removes every cache entry in the directory.
func (c *Cache) Clear(_ context.Context) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}

	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cache entry %q: %w", path, err)
		}
	}

	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, sanitize(key)+".json")
}

func (c *Cache) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return &c.locks[h.Sum32()%lockStripes]
}

// sanitize maps a logical key to a safe file name: any rune outside
// [a-z0-9] becomes an underscore.
func sanitize(key string) string {
	var b strings.Builder
	b.Grow(len(key))

	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}
