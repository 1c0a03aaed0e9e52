// Package cache stores rendered artifacts keyed by the content they were
// rendered from.
//
// A render is a pure function of the canonical document export and the
// render options, so the key is a SHA-256 over both. [FileCache] keeps
// entries on disk for the CLI; [NullCache] disables caching.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(canonical), cache.ArtifactKeyOpts{Format: "png"})
//	data, hit, err := cache.GetOrBuild(ctx, c, key, cache.ArtifactTTL, "artifact", render)
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/geomcloze/pkg/observability"
)

// ArtifactTTL is the default lifetime of a cached render.
const ArtifactTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. A missing or expired entry is
	// a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is a cache that can drop every entry at once.
type Clearer interface {
	Clear() (int, error)
}

// GetOrBuild returns the entry under key, building and storing it on a
// miss. The second result reports a hit. Storage failures after a
// successful build are ignored; the built data is still returned.
func GetOrBuild(ctx context.Context, c Cache, key string, ttl time.Duration, keyType string, build func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	data, err := Lookup(ctx, c, key)
	if err == nil {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	// Read errors are treated as misses.
	hooks.OnCacheMiss(ctx, keyType)

	data, err = build()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
