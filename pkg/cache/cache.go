// Package cache stores rendered diagrams so that replaying an unchanged
// scenario does not pay for another Graphviz run.
//
// Entries are keyed by a hash of everything that determines the output:
// the DOT source, the target format and any render options. A changed tree
// produces different DOT and therefore a different key, so entries never go
// stale and only expire to bound disk usage.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.Key("svg", dot)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long rendered diagrams are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a cache key from a namespace and the parts that determine the
// cached value. Parts must be JSON-encodable.
func Key(namespace string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", namespace, Hash(data))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultDir returns the render cache directory under the user cache dir,
// e.g. ~/.cache/tiletree/render.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(base, "tiletree", "render"), nil
}
