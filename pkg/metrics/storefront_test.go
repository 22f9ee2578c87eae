package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStorefrontMetricsCount(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)

	m.IncPromoValidation("success")
	m.IncPromoValidation("success")
	m.IncPromoValidation("expired")
	m.IncWishlistEvent("add")
	m.IncRemoteRequest("coupons", "ok")

	if got := testutil.ToFloat64(m.promoValidations.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successful validations, got %v", got)
	}
	if got := testutil.ToFloat64(m.promoValidations.WithLabelValues("expired")); got != 1 {
		t.Fatalf("expected 1 expired validation, got %v", got)
	}
	if got := testutil.ToFloat64(m.wishlistEvents.WithLabelValues("add")); got != 1 {
		t.Fatalf("expected 1 wishlist add, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var m *StorefrontMetrics
	m.IncPromoValidation("success")
	m.IncRemoteRequest("orders", "error")
	m.IncWishlistEvent("remove")

	empty := NewStorefrontMetrics(nil)
	empty.IncPromoValidation("")
}
