package cart

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/wickhaven/storefront-backend/internal/catalog"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/kvstore"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

type stubProducts struct {
	products map[int64]*catalog.Product
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (*catalog.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func testCatalog() *stubProducts {
	return &stubProducts{products: map[int64]*catalog.Product{
		3: {
			ID:         3,
			Slug:       "amber-glow",
			Name:       "Amber Glow",
			PriceCents: 1199,
			Images:     []string{"/images/amber-glow-1.jpg"},
		},
		1: {
			ID:         1,
			Slug:       "ember-noir",
			Name:       "Ember Noir",
			PriceCents: 1499,
			Variations: []catalog.Variation{
				{ID: 101, Label: "8 oz", PriceCents: 1499},
				{ID: 102, Label: "12 oz", PriceCents: 2099},
			},
		},
	}}
}

func newTestCart(t *testing.T) (Service, kvstore.Store) {
	t.Helper()

	store := kvstore.NewMemory()
	logg := logger.New(logger.Options{ServiceName: "cart-test", Level: zerolog.Disabled})
	svc, err := NewService(store, testCatalog(), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestAddItemMergesOnProductAndVariation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Lines[0].Quantity)
	}
	if cart.SubtotalCents != 3597 {
		t.Fatalf("expected subtotal 3597, got %d", cart.SubtotalCents)
	}
	if !cart.IsOpen {
		t.Fatal("adding an item should open the cart")
	}
}

func TestAddItemKeepsVariationsAsSeparateLines(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 1, VariationID: 101, Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 1, VariationID: 102, Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(cart.Lines))
	}
	if cart.SubtotalCents != 1499+2099 {
		t.Fatalf("expected variation prices to apply, got subtotal %d", cart.SubtotalCents)
	}
	if cart.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", cart.ItemCount)
	}
}

func TestAddItemRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 0}); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: -2}); err == nil {
		t.Fatal("expected error for negative quantity")
	}
	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 999, Quantity: 1}); err == nil {
		t.Fatal("expected error for unknown product")
	}
	_, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 1, VariationID: 555, Quantity: 1})
	if err == nil {
		t.Fatal("expected error for unknown variation")
	}
	if got := pkgerrors.As(err).Code(); got != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", got)
	}
}

func TestUpdateQuantityZeroOrNegativeRemovesLine(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	for _, quantity := range []int{0, -5} {
		if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 2}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cart, err := svc.UpdateQuantity(ctx, "s1", 3, 0, quantity)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cart.Lines) != 0 {
			t.Fatalf("expected quantity %d to remove the line, got %d lines", quantity, len(cart.Lines))
		}
	}
}

func TestUpdateQuantityReplacesExactly(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.UpdateQuantity(ctx, "s1", 3, 0, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Lines[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", cart.Lines[0].Quantity)
	}

	_, err = svc.UpdateQuantity(ctx, "s1", 99, 0, 2)
	if err == nil {
		t.Fatal("expected error for unknown line")
	}
	if got := pkgerrors.As(err).Code(); got != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %s", got)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := svc.RemoveItem(ctx, "s1", 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.RemoveItem(ctx, "s1", 3, 0)
	if err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if len(first.Lines) != 0 || len(second.Lines) != 0 {
		t.Fatalf("expected empty cart after removes, got %d and %d lines", len(first.Lines), len(second.Lines))
	}
}

func TestClearKeepsOpenFlag(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.Clear(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
	if !cart.IsOpen {
		t.Fatal("clear must not change the open flag")
	}
}

func TestToggleOpenClose(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	cart, err := svc.Toggle(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cart.IsOpen {
		t.Fatal("toggle from closed should open")
	}
	cart, _ = svc.Toggle(ctx, "s1")
	if cart.IsOpen {
		t.Fatal("toggle from open should close")
	}
	cart, _ = svc.Open(ctx, "s1")
	if !cart.IsOpen {
		t.Fatal("open should raise the flag")
	}
	cart, _ = svc.Close(ctx, "s1")
	if cart.IsOpen {
		t.Fatal("close should lower the flag")
	}
}

func TestCartRoundTripsThroughStore(t *testing.T) {
	t.Parallel()

	store := kvstore.NewMemory()
	logg := logger.New(logger.Options{ServiceName: "cart-test", Level: zerolog.Disabled})
	svc, err := NewService(store, testCatalog(), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 1, VariationID: 102, Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second service over the same store sees the persisted lines.
	rehydrated, err := NewService(store, testCatalog(), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	cart, err := rehydrated.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 || cart.Lines[0].UnitPriceCents != 2099 {
		t.Fatalf("rehydrated cart mismatch: %+v", cart.Lines)
	}
	if cart.IsOpen {
		t.Fatal("open flag must not survive rehydration")
	}
}

func TestCorruptStateStartsEmpty(t *testing.T) {
	t.Parallel()

	svc, store := newTestCart(t)
	ctx := context.Background()

	if err := store.Set(ctx, kvstore.CartKey("s1"), "{not json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("corrupt state must not error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}

	if err := store.Set(ctx, kvstore.CartKey("s2"), `{"version":99,"lines":[{"product_id":3,"quantity":1}]}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err = svc.Get(ctx, "s2")
	if err != nil {
		t.Fatalf("version mismatch must not error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart on version mismatch, got %d lines", len(cart.Lines))
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCart(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "s1", AddItemInput{ProductID: 3, Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, err := svc.Get(ctx, "s2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other.Lines) != 0 {
		t.Fatalf("expected empty cart for other session, got %d lines", len(other.Lines))
	}
}
