package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}

	n, err := c.(Clearer).Clear()
	if n != 0 || err != nil {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "a", []byte("png bytes"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "png bytes" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	now = now.Add(2 * time.Hour)
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Set(ctx, "b", []byte("forever"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(1000 * time.Hour)
	if _, hit, _ := c.Get(ctx, "b"); !hit {
		t.Error("entry without ttl should not expire")
	}

	if err := c.Delete(ctx, "b"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, err := Lookup(ctx, c, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Lookup after Clear = %v, want ErrCacheMiss", err)
	}
}

func TestGetOrBuild(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	builds := 0
	build := func() ([]byte, error) {
		builds++
		return []byte("<svg/>"), nil
	}
	for i, wantHit := range []bool{false, true} {
		data, hit, err := GetOrBuild(ctx, c, "k", ArtifactTTL, "artifact", build)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if hit != wantHit || string(data) != "<svg/>" {
			t.Errorf("call %d = %q, hit %v", i, data, hit)
		}
	}
	if builds != 1 {
		t.Errorf("build ran %d times, want 1", builds)
	}

	boom := errors.New("boom")
	_, _, err = GetOrBuild(ctx, NewNullCache(), "k", 0, "artifact", func() ([]byte, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("build error = %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Width: 1000, Height: 700})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Width: 1000, Height: 700})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if ak1 != k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Width: 1000, Height: 700}) {
		t.Error("ArtifactKey should be deterministic")
	}
	if !strings.HasPrefix(ak1, "artifact:svg:") {
		t.Errorf("ArtifactKey prefix: %s", ak1)
	}
	if !strings.HasPrefix(k.TopologyKey("hash123", "dot"), "topology:dot:") {
		t.Errorf("TopologyKey prefix: %s", k.TopologyKey("hash123", "dot"))
	}

	if k.TopologyKey("hash123", "dot") == k.TopologyKey("hash123", "svg") {
		t.Error("TopologyKey should depend on the format")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "api:")

	key := scoped.TopologyKey("hash", "dot")
	if key != "api:"+NewDefaultKeyer().TopologyKey("hash", "dot") {
		t.Errorf("ScopedKeyer TopologyKey unexpected: %s", key)
	}
	ak := scoped.ArtifactKey("hash", ArtifactKeyOpts{})
	if len(ak) < 14 || ak[:13] != "api:artifact:" {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.TopologyKey("h", "svg")
	if key != "prefix:"+NewDefaultKeyer().TopologyKey("h", "svg") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
