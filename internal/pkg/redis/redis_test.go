package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

// setupTestClient connects to the Redis instance named by REDIS_TEST_ADDR.
// Tests are skipped when the variable is unset.
func setupTestClient(t *testing.T) *Client {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping redis integration test")
	}

	client, err := New(&Config{Addr: addr, DB: 15}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for empty addr")
	}

	cfg.Addr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{Addr: "localhost:6379"}
	cfg.SetDefaults()

	if cfg.PoolSize != 10 {
		t.Errorf("PoolSize = %d, want 10", cfg.PoolSize)
	}
	if cfg.DialTimeout != 5*time.Second {
		t.Errorf("DialTimeout = %v, want 5s", cfg.DialTimeout)
	}
}

func TestSetGetDel(t *testing.T) {
	client := setupTestClient(t)
	defer client.Close()

	ctx := context.Background()
	key := "filecdn:test:setget"

	if err := client.Set(ctx, key, "value", time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}

	if _, err := client.Del(ctx, key); err != nil {
		t.Fatalf("Del() error: %v", err)
	}

	if _, err := client.Get(ctx, key); !IsNil(err) {
		t.Errorf("Get() after Del = %v, want redis.Nil", err)
	}
}

func TestIncrExpire(t *testing.T) {
	client := setupTestClient(t)
	defer client.Close()

	ctx := context.Background()
	key := "filecdn:test:incr"
	defer client.Del(ctx, key)

	n, err := client.Incr(ctx, key)
	if err != nil {
		t.Fatalf("Incr() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Incr() = %d, want 1", n)
	}

	ok, err := client.Expire(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("Expire() = %v, %v", ok, err)
	}

	ttl, err := client.TTL(ctx, key)
	if err != nil {
		t.Fatalf("TTL() error: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL() = %v, want (0, 1m]", ttl)
	}
}
