package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/wickhaven/storefront-backend/pkg/config"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Get(ctx, CartKey("s1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, CartKey("s1"), `{"version":1}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val, err := store.Get(ctx, CartKey("s1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != `{"version":1}` {
		t.Fatalf("unexpected value: %s", val)
	}

	if err := store.Del(ctx, CartKey("s1"), WishlistKey("s1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, CartKey("s1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestKeyBuildersAreNamespacedPerSession(t *testing.T) {
	t.Parallel()

	if got := CartKey("abc"); got != "wh:cart:abc" {
		t.Fatalf("unexpected cart key: %s", got)
	}
	if got := WishlistKey("abc"); got != "wh:wishlist:abc" {
		t.Fatalf("unexpected wishlist key: %s", got)
	}
	if got := RecentKey("abc"); got != "wh:recent:abc" {
		t.Fatalf("unexpected recent key: %s", got)
	}
	if got := PromoKey("abc"); got != "wh:promo:abc" {
		t.Fatalf("unexpected promo key: %s", got)
	}
	if CartKey("a") == CartKey("b") {
		t.Fatal("keys must differ per session")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db from url, got %d", opts.DB)
	}
	if opts.PoolSize != 4 {
		t.Fatalf("expected pool size from config, got %d", opts.PoolSize)
	}
}
