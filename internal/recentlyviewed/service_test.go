package recentlyviewed

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/wickhaven/storefront-backend/internal/catalog"
	"github.com/wickhaven/storefront-backend/pkg/kvstore"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

type stubProducts struct{}

func (stubProducts) GetByID(_ context.Context, id int64) (*catalog.Product, error) {
	return &catalog.Product{
		ID:         id,
		Slug:       fmt.Sprintf("candle-%d", id),
		Name:       fmt.Sprintf("Candle %d", id),
		PriceCents: 1000 + id,
	}, nil
}

func newTestService(t *testing.T) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "recent-test", Level: zerolog.Disabled})
	svc, err := NewService(kvstore.NewMemory(), stubProducts{}, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRecordEvictsBeyondCapacity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for id := int64(1); id <= 9; id++ {
		if _, err := svc.Record(ctx, "s1", id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items, err := svc.List(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != Capacity {
		t.Fatalf("expected %d items, got %d", Capacity, len(items))
	}
	// Most recent first: 9 down to 2; 1 was evicted.
	for i, item := range items {
		if want := int64(9 - i); item.ProductID != want {
			t.Fatalf("position %d: expected product %d, got %d", i, want, item.ProductID)
		}
	}
}

func TestRecordMovesReviewedItemToFront(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		if _, err := svc.Record(ctx, "s1", id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	items, err := svc.Record(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 5 {
		t.Fatalf("re-view must not grow the list, got %d items", len(items))
	}
	if items[0].ProductID != 2 {
		t.Fatalf("expected re-viewed product first, got %d", items[0].ProductID)
	}
	seen := map[int64]bool{}
	for _, item := range items {
		if seen[item.ProductID] {
			t.Fatalf("duplicate product %d", item.ProductID)
		}
		seen[item.ProductID] = true
	}
}

func TestClearEmptiesHistory(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "s1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := svc.List(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty history, got %d items", len(items))
	}
}

func TestCorruptHistoryStartsEmpty(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemory()
	logg := logger.New(logger.Options{ServiceName: "recent-test", Level: zerolog.Disabled})
	svc, err := NewService(store, stubProducts{}, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, kvstore.RecentKey("s1"), "[[["); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, err := svc.List(ctx, "s1")
	if err != nil {
		t.Fatalf("corrupt state must not error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty history, got %d items", len(items))
	}
}
