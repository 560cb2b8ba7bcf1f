package cache

import (
	"context"
	"os"
	"path/filepath"
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

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key")
	if err != nil || hit {
		t.Errorf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	// Set then Get
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get returned %q, want value", data)
	}

	// Delete then miss
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	// Negative TTL means no expiry metadata; zero TTL likewise.
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("non-positive TTL should store without expiry")
	}

	if err := c.Set(ctx, "expiring", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "expiring"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Corrupt the entry file on disk.
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("key"), []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupt write: %v", err)
	}

	// Corrupt entries read as a miss, not an error, and are removed.
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want clean miss", hit, err)
	}
	if _, err := os.Stat(fc.path("key")); !os.IsNotExist(err) {
		t.Error("corrupt entry file should be removed")
	}
}

func TestFileCachePathDistribution(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	fc := c.(*FileCache)

	p := fc.path("some-key")
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		t.Fatalf("Rel error: %v", err)
	}
	// Two-char subdirectory, remainder as filename.
	if len(filepath.Dir(rel)) != 2 {
		t.Errorf("expected 2-char subdir, got %q", filepath.Dir(rel))
	}
	if filepath.Ext(rel) != ".json" {
		t.Errorf("expected .json entry file, got %q", rel)
	}
}

func TestHash(t *testing.T) {
	// Determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Different inputs produce different hashes
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// SeedKey should include the filter in the hash
	sk1 := k.SeedKey("hash123", SeedKeyOpts{NodeKindFilter: []string{"primitive"}})
	sk2 := k.SeedKey("hash123", SeedKeyOpts{})
	if sk1 == sk2 {
		t.Error("different SeedKeyOpts should produce different keys")
	}

	// LayoutKey varies with every layout option
	base := LayoutKeyOpts{Orientation: "horizontal", GroupingMode: "none", BundleEdges: true}
	lk1 := k.LayoutKey("hash123", base)
	for _, opts := range []LayoutKeyOpts{
		{Orientation: "vertical", GroupingMode: "none", BundleEdges: true},
		{Orientation: "horizontal", GroupingMode: "file", BundleEdges: true},
		{Orientation: "horizontal", GroupingMode: "none", BundleEdges: false},
	} {
		if k.LayoutKey("hash123", opts) == lk1 {
			t.Errorf("LayoutKeyOpts %+v should change the key", opts)
		}
	}

	// ArtifactKey varies with format
	if k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"}) == k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"}) {
		t.Error("different formats should produce different keys")
	}

	// Stage prefixes keep key spaces disjoint
	if sk1[:5] != "seed:" {
		t.Errorf("SeedKey prefix: %s", sk1)
	}
	if lk1[:7] != "layout:" {
		t.Errorf("LayoutKey prefix: %s", lk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "ws:abc:")

	key := scoped.SeedKey("hash", SeedKeyOpts{})
	if key[:7] != "ws:abc:" {
		t.Errorf("ScopedKeyer should prefix keys: %s", key)
	}

	// Nil inner falls back to the default keyer.
	fallback := NewScopedKeyer(nil, "p:")
	if fallback.LayoutKey("h", LayoutKeyOpts{})[:2] != "p:" {
		t.Error("nil inner should still produce prefixed keys")
	}
}
