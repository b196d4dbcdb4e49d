package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	return NewRedisCache(rdb), mr
}

func TestRedisCacheSetGetDelete(t *testing.T) {
	cache, mr := setupRedisCache(t)
	ctx := context.Background()

	value, found, err := cache.Get(ctx, "restaurant_import:latest")
	if err != nil {
		t.Fatalf("Get(missing) error = %v", err)
	}
	if found || value != "" {
		t.Fatalf("Get(missing) = %q, found=%v", value, found)
	}

	if err := cache.Set(ctx, " restaurant_import:latest ", "7", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, err := mr.Get("menuhub:restaurant_import:latest"); err != nil || got != "7" {
		t.Fatalf("stored value = %q, err=%v", got, err)
	}

	value, found, err = cache.Get(ctx, "restaurant_import:latest")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "7" {
		t.Fatalf("Get() = %q, found=%v", value, found)
	}

	if err := cache.Delete(ctx, "restaurant_import:latest"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, err := cache.Get(ctx, "restaurant_import:latest"); err != nil || found {
		t.Fatalf("Get(after delete) found=%v, err=%v", found, err)
	}
}

func TestRedisCacheExpiresWithTTL(t *testing.T) {
	cache, mr := setupRedisCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "restaurant_import:latest", "3", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ttl := mr.TTL("menuhub:restaurant_import:latest"); ttl != time.Minute {
		t.Fatalf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, found, err := cache.Get(ctx, "restaurant_import:latest"); err != nil || found {
		t.Fatalf("Get(expired) found=%v, err=%v", found, err)
	}

	if err := cache.Set(ctx, "restaurant_import:latest", "4", -time.Second); err != nil {
		t.Fatalf("Set(negative ttl) error = %v", err)
	}
	if ttl := mr.TTL("menuhub:restaurant_import:latest"); ttl != 0 {
		t.Fatalf("TTL(negative) = %v, want no expiry", ttl)
	}
}

func TestRedisCacheRejectsBlankKey(t *testing.T) {
	cache, _ := setupRedisCache(t)

	if err := cache.Set(context.Background(), "  ", "1", 0); err == nil {
		t.Fatal("Set(blank) error = nil")
	}
	if _, _, err := cache.Get(context.Background(), ""); err == nil {
		t.Fatal("Get(blank) error = nil")
	}
}

func TestRedisCacheReportsServerErrors(t *testing.T) {
	cache, mr := setupRedisCache(t)
	mr.SetError("LOADING")

	if _, _, err := cache.Get(context.Background(), "restaurant_import:latest"); err == nil {
		t.Fatal("Get() error = nil while server fails")
	}
}
