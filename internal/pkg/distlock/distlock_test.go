package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisLock_AcquireRelease(t *testing.T) {
	client := testRedis(t)
	ctx := context.Background()

	l1 := NewRedisLock(client, "tick", time.Minute)
	ok, err := l1.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if !ok {
		t.Fatal("first Acquire() should succeed")
	}

	// A second instance must stay idle while the lock is held.
	l2 := NewRedisLock(client, "tick", time.Minute)
	ok, err = l2.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if ok {
		t.Error("contending Acquire() should fail while lock is held")
	}

	if err := l1.Release(ctx); err != nil {
		t.Fatalf("Release() error: %v", err)
	}

	ok, err = l2.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() after release error: %v", err)
	}
	if !ok {
		t.Error("Acquire() should succeed after release")
	}
}

func TestRedisLock_ReleaseOnlyIfOwned(t *testing.T) {
	client := testRedis(t)
	ctx := context.Background()

	l1 := NewRedisLock(client, "tick", time.Minute)
	if ok, _ := l1.Acquire(ctx); !ok {
		t.Fatal("setup: acquire failed")
	}

	// A non-owner release must not free the lock.
	l2 := NewRedisLock(client, "tick", time.Minute)
	if err := l2.Release(ctx); err != nil {
		t.Fatalf("Release() error: %v", err)
	}

	l3 := NewRedisLock(client, "tick", time.Minute)
	if ok, _ := l3.Acquire(ctx); ok {
		t.Error("lock was freed by a non-owner")
	}
}

func TestRedisLock_ExpiresByTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	l1 := NewRedisLock(client, "tick", time.Second)
	if ok, _ := l1.Acquire(ctx); !ok {
		t.Fatal("setup: acquire failed")
	}

	mr.FastForward(2 * time.Second)

	l2 := NewRedisLock(client, "tick", time.Second)
	if ok, _ := l2.Acquire(ctx); !ok {
		t.Error("lock should be acquirable after TTL expiry")
	}
}
