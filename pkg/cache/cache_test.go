package cache

import (
	"context"
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
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss for unknown key
	_, hit, err := c.Get(ctx, "missing")
	if err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	// Roundtrip
	if err := c.Set(ctx, "key", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || string(data) != "payload" {
		t.Errorf("Get = %q, hit %v", data, hit)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "transient", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	_, hit, _ = c.Get(ctx, "transient")
	if hit {
		t.Error("expired entry should be a miss")
	}

	// Delete removes; deleting again is fine
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("deleted entry should be a miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("double Delete: %v", err)
	}
}

func TestFileCacheClearAndStats(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte("data-"+key), 0); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	entries, size, err := fc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if entries != 3 {
		t.Errorf("entries = %d, want 3", entries)
	}
	if size == 0 {
		t.Error("size should be non-zero")
	}

	if err := fc.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _, err = fc.Stats()
	if err != nil {
		t.Fatalf("Stats after clear: %v", err)
	}
	if entries != 0 {
		t.Errorf("entries = %d after clear, want 0", entries)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestKey(t *testing.T) {
	k1 := Key("render", "payload", 300)
	k2 := Key("render", "payload", 300)
	if k1 != k2 {
		t.Error("Key should be deterministic")
	}
	if Key("render", "payload", 600) == k1 {
		t.Error("different parts should produce different keys")
	}
	if Key("preview", "payload", 300) == k1 {
		t.Error("different prefixes should produce different keys")
	}
	if k1[:7] != "render:" {
		t.Errorf("key should carry its prefix: %s", k1)
	}
}
