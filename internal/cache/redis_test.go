package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	return NewRedisCache(client, "answers", time.Minute, &logger), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Expected a miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "k1", []byte(`{"answer":"dust"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := cache.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Expected a hit, got ok=%v err=%v", ok, err)
	}
	if string(value) != `{"answer":"dust"}` {
		t.Errorf("Unexpected value %s", value)
	}

	if ttl := mr.TTL("answers:k1"); ttl != time.Minute {
		t.Errorf("Expected TTL of one minute, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k1"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestRedisCache_ClearOnlyOwnPrefix(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatalf("Failed to seed foreign key: %v", err)
	}

	deleted, err := cache.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if deleted != 250 {
		t.Errorf("Expected 250 deleted keys, got %d", deleted)
	}
	if !mr.Exists("other:key") {
		t.Error("Expected foreign key to survive")
	}
}

func TestKey(t *testing.T) {
	if Key("What about  DUST?", 5) != Key("  what about dust? ", 5) {
		t.Error("Expected keys to ignore case and whitespace")
	}
	if Key("dust", 5) == Key("dust", 6) {
		t.Error("Expected top_k to be part of the key")
	}
}

func TestRedisCache_KeyHasSingleSeparator(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	ctx := context.Background()

	for _, prefix := range []string{"answer_cache", "answer_cache:"} {
		t.Run(prefix, func(t *testing.T) {
			mr.FlushAll()
			cache := NewRedisCache(client, prefix, time.Minute, &logger)

			if err := cache.Set(ctx, "abc", []byte("v")); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if !mr.Exists("answer_cache:abc") {
				t.Errorf("Expected key answer_cache:abc, got %v", mr.Keys())
			}
			if mr.Exists("answer_cache::abc") {
				t.Error("Expected no double separator in key")
			}

			deleted, err := cache.Clear(ctx)
			if err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			if deleted != 1 {
				t.Errorf("Expected 1 deleted key, got %d", deleted)
			}
		})
	}
}
