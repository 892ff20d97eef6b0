package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("resources", "docker")
		k2 := CacheKey("resources", "docker")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("resources", "docker")
		k2 := CacheKey("resources", "kubernetes")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "gp:" {
			t.Errorf("expected gp: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	// Init minimal cache (no Redis)
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	// Miss
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	// Set then hit
	CacheSet(ctx, key, []byte("hello"))
	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCacheLoadStoreJSON(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	ctx := context.Background()
	key := CacheKey("test", "json")

	type payload struct {
		Skill string `json:"skill"`
		Count int    `json:"count"`
	}
	CacheStoreJSON(ctx, key, payload{Skill: "docker", Count: 3})

	got, ok := CacheLoadJSON[payload](ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Skill != "docker" || got.Count != 3 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", 1*time.Minute, 10, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		CacheSet(ctx, CacheKey("evict", fmt.Sprintf("%d", i)), []byte("x"))
	}

	count := 0
	pathCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 10 {
		t.Errorf("expected at most 10 entries after eviction, got %d", count)
	}
}
