package cache

import (
	"context"
	"testing"
	"time"

	"mrcfield/internal/infrastructure/persistence/relational/testdb"
)

func setupKVCache(t *testing.T) *KVCache {
	t.Helper()
	return NewKVCache(testdb.Open(t))
}

func TestKVCacheSetGetDelete(t *testing.T) {
	cache := setupKVCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "sync:insp-1:m-1", `{"version":3}`, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found, err := cache.Get(ctx, "sync:insp-1:m-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatalf("Get() expected found=true")
	}
	if value != `{"version":3}` {
		t.Fatalf("Get() value = %q", value)
	}

	if err := cache.Set(ctx, "sync:insp-1:m-1", `{"version":4}`, 0); err != nil {
		t.Fatalf("Set(update) error = %v", err)
	}

	value, found, err = cache.Get(ctx, "sync:insp-1:m-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != `{"version":4}` {
		t.Fatalf("Get() after update = %q, found=%v", value, found)
	}

	if err := cache.Delete(ctx, "sync:insp-1:m-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, found, err = cache.Get(ctx, "sync:insp-1:m-1")
	if err != nil {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if found {
		t.Fatalf("Get() expected found=false after delete")
	}
}

func TestKVCacheExpires(t *testing.T) {
	cache := setupKVCache(t)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	if err := cache.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found, _ := cache.Get(ctx, "k"); !found {
		t.Fatalf("Get() expected live value")
	}

	cache.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, found, err := cache.Get(ctx, "k"); err != nil || found {
		t.Fatalf("Get() after expiry found=%v err=%v", found, err)
	}
}

func TestKVCacheRejectsEmptyKey(t *testing.T) {
	cache := setupKVCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "", "v", 0); err == nil {
		t.Fatalf("Set() expected error for empty key")
	}
	if _, _, err := cache.Get(ctx, ""); err == nil {
		t.Fatalf("Get() expected error for empty key")
	}
	if err := cache.Delete(ctx, " "); err == nil {
		t.Fatalf("Delete() expected error for empty key")
	}
}
