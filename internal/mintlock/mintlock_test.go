package mintlock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNoopAlwaysGrants(t *testing.T) {
	var g Guard = Noop{}
	for i := 0; i < 2; i++ {
		release, ok, err := g.Acquire(context.Background(), "42")
		if err != nil || !ok {
			t.Fatalf("Acquire() = %v, %v", ok, err)
		}
		release(context.Background())
	}
}

func TestNewValkeyRequiresAddress(t *testing.T) {
	if _, err := NewValkey(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without address")
	}
}

// Runs against a live server when VALKEY_TEST_ADDRESS is set.
func TestValkeyExclusiveAcquire(t *testing.T) {
	addr := os.Getenv("VALKEY_TEST_ADDRESS")
	if addr == "" {
		t.Skip("VALKEY_TEST_ADDRESS not set")
	}
	ctx := context.Background()
	guard, err := NewValkey(ctx, Options{Address: addr, TTL: 10 * time.Second, Prefix: "notemint:test:"})
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	defer guard.Close()

	key := uuid.NewString()
	release, ok, err := guard.Acquire(ctx, key)
	if err != nil || !ok {
		t.Fatalf("first Acquire() = %v, %v", ok, err)
	}
	_, ok, err = guard.Acquire(ctx, key)
	if err != nil || ok {
		t.Fatalf("second Acquire() = %v, %v; want not acquired", ok, err)
	}
	release(ctx)
	release2, ok, err := guard.Acquire(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Acquire() after release = %v, %v", ok, err)
	}
	release2(ctx)
}
