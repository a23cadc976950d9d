package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if _, err := mc.Get(ctx, "missing"); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	if err := mc.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := mc.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get=%q, %v", got, err)
	}

	if err := mc.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := mc.Get(ctx, "k"); err != ErrCacheMiss {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "k", []byte("v"), -time.Second)
	if _, err := mc.Get(ctx, "k"); err != ErrCacheMiss {
		t.Fatal("expired entry should read as a miss")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "profile:a", []byte("1"), time.Minute)
	mc.Set(ctx, "profile:b", []byte("2"), time.Minute)
	mc.Set(ctx, "other", []byte("3"), time.Minute)

	if err := mc.Clear(ctx, "profile:*"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := mc.Exists(ctx, "profile:a"); ok {
		t.Fatal("profile:a should be cleared")
	}
	if ok, _ := mc.Exists(ctx, "other"); !ok {
		t.Fatal("other should survive a prefix clear")
	}
}
