package orders

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/wickhaven/storefront-backend/internal/cart"
	"github.com/wickhaven/storefront-backend/internal/promo"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/woocommerce"
)

type stubCart struct {
	lines   []cart.Line
	cleared bool
}

func (s *stubCart) Get(_ context.Context, _ string) (*cart.Cart, error) {
	return &cart.Cart{Lines: s.lines}, nil
}

func (s *stubCart) Clear(_ context.Context, _ string) (*cart.Cart, error) {
	s.cleared = true
	s.lines = nil
	return &cart.Cart{Lines: []cart.Line{}}, nil
}

type stubPromo struct {
	applied *promo.Application
	removed bool
}

func (s *stubPromo) Applied(_ context.Context, _ string) (*promo.Application, error) {
	return s.applied, nil
}

func (s *stubPromo) Remove(_ context.Context, _ string) error {
	s.removed = true
	s.applied = nil
	return nil
}

type stubPlacer struct {
	created *woocommerce.OrderCreateRequest
	order   *woocommerce.Order
	err     error
}

func (s *stubPlacer) CreateOrder(_ context.Context, req woocommerce.OrderCreateRequest) (*woocommerce.Order, error) {
	s.created = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubPlacer) GetOrder(_ context.Context, id int64) (*woocommerce.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &woocommerce.Order{ID: id, Status: "processing", Currency: "USD", Total: "35.97"}, nil
}

func testInput() CheckoutInput {
	return CheckoutInput{Billing: Address{
		FirstName: "June",
		LastName:  "Park",
		Address1:  "12 Harbor Ln",
		City:      "Portland",
		Postcode:  "04101",
		Country:   "US",
		Email:     "june@example.com",
	}}
}

func newTestService(t *testing.T, remote OrderPlacer, carts CartReader, promos PromoReader) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "orders-test", Level: zerolog.Disabled})
	svc, err := NewService(remote, carts, promos, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCheckoutRequiresRemote(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil, &stubCart{}, &stubPromo{})

	_, err := svc.Checkout(context.Background(), "s1", testInput())
	if err == nil {
		t.Fatal("expected error without remote")
	}
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %s", typed.Code())
	}
	if typed.Message() != "order service not configured" {
		t.Fatalf("unexpected message: %q", typed.Message())
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{order: &woocommerce.Order{ID: 88}}
	svc := newTestService(t, placer, &stubCart{}, &stubPromo{})

	_, err := svc.Checkout(context.Background(), "s1", testInput())
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
	if got := pkgerrors.As(err).Code(); got != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", got)
	}
}

func TestCheckoutBuildsOrderAndClearsState(t *testing.T) {
	t.Parallel()

	carts := &stubCart{lines: []cart.Line{
		{ProductID: 3, Quantity: 2, UnitPriceCents: 1199},
		{ProductID: 1, VariationID: 102, Quantity: 1, UnitPriceCents: 2099},
	}}
	promos := &stubPromo{applied: &promo.Application{Code: "FLAT100", Type: promo.TypeFixed, Value: decimal.NewFromInt(100)}}
	placer := &stubPlacer{order: &woocommerce.Order{ID: 88, Status: "pending", Currency: "USD", Total: "44.97"}}
	svc := newTestService(t, placer, carts, promos)

	receipt, err := svc.Checkout(context.Background(), "s1", testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.OrderID != 88 || receipt.Total != "44.97" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	if placer.created == nil {
		t.Fatal("expected order creation call")
	}
	if len(placer.created.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(placer.created.LineItems))
	}
	if placer.created.LineItems[1].VariationID != 102 {
		t.Fatalf("variation id must carry through, got %d", placer.created.LineItems[1].VariationID)
	}
	if len(placer.created.CouponLines) != 1 || placer.created.CouponLines[0].Code != "FLAT100" {
		t.Fatalf("expected applied promo as coupon line, got %+v", placer.created.CouponLines)
	}
	if placer.created.Shipping.City != "Portland" {
		t.Fatal("shipping should fall back to billing")
	}

	if !carts.cleared {
		t.Fatal("cart must clear after checkout")
	}
	if !promos.removed {
		t.Fatal("promo must clear after checkout")
	}
}

func TestCheckoutKeepsStateOnRemoteFailure(t *testing.T) {
	t.Parallel()

	carts := &stubCart{lines: []cart.Line{{ProductID: 3, Quantity: 1, UnitPriceCents: 1199}}}
	promos := &stubPromo{}
	placer := &stubPlacer{err: pkgerrors.New(pkgerrors.CodeDependency, "commerce create order failed with status 503")}
	svc := newTestService(t, placer, carts, promos)

	_, err := svc.Checkout(context.Background(), "s1", testInput())
	if err == nil {
		t.Fatal("expected remote failure to surface")
	}
	if carts.cleared {
		t.Fatal("cart must survive a failed checkout")
	}
	if promos.removed {
		t.Fatal("promo must survive a failed checkout")
	}
}

func TestGetOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubPlacer{}, &stubCart{}, &stubPromo{})

	receipt, err := svc.GetOrder(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.OrderID != 42 || receipt.Status != "processing" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	if _, err := svc.GetOrder(context.Background(), 0); err == nil {
		t.Fatal("expected error for missing order id")
	}

	none := newTestService(t, nil, &stubCart{}, &stubPromo{})
	if _, err := none.GetOrder(context.Background(), 42); err == nil {
		t.Fatal("expected error without remote")
	}
}
