package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

func TestDisabledCacheMisses(t *testing.T) {
	ctx := context.Background()
	c := NewUserCache(nil, time.Minute)
	if err := c.Set(ctx, &entity.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, "u1"); ok {
		t.Fatal("disabled cache returned a hit")
	}
	var nilCache *UserCache
	if _, ok := nilCache.Get(ctx, "u1"); ok {
		t.Fatal("nil cache returned a hit")
	}
}

func TestUserCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	c := NewUserCache(rdb, time.Minute)
	u := &entity.User{ID: "cache-test-u1", Email: "a@example.com", Name: "A", Password: "hash"}
	if err := c.Set(ctx, u); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get(ctx, u.ID)
	if !ok || got.Email != u.Email {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	if got.Password != "" {
		t.Fatal("password hash must not be cached")
	}
	if err := c.Invalidate(ctx, u.ID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := c.Get(ctx, u.ID); ok {
		t.Fatal("hit after invalidate")
	}
}
