package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records counters for storefront state transitions and
// remote commerce calls.
type StorefrontMetrics struct {
	promoValidations *prometheus.CounterVec
	remoteRequests   *prometheus.CounterVec
	wishlistEvents   *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	promoValidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_validations_total",
		Help: "Promo code validations by result.",
	}, []string{"result"})
	remoteRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commerce_requests_total",
		Help: "Remote commerce API calls by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	wishlistEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_events_total",
		Help: "Wishlist mutations by action.",
	}, []string{"action"})
	reg.MustRegister(promoValidations, remoteRequests, wishlistEvents)
	return &StorefrontMetrics{
		promoValidations: promoValidations,
		remoteRequests:   remoteRequests,
		wishlistEvents:   wishlistEvents,
	}
}

// IncPromoValidation increments the promo validation counter for a result.
func (m *StorefrontMetrics) IncPromoValidation(result string) {
	if m == nil || m.promoValidations == nil {
		return
	}
	m.promoValidations.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncRemoteRequest increments the remote call counter for an endpoint/outcome pair.
func (m *StorefrontMetrics) IncRemoteRequest(endpoint, outcome string) {
	if m == nil || m.remoteRequests == nil {
		return
	}
	m.remoteRequests.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(outcome)).Inc()
}

// IncWishlistEvent increments the wishlist counter for the named action.
func (m *StorefrontMetrics) IncWishlistEvent(action string) {
	if m == nil || m.wishlistEvents == nil {
		return
	}
	m.wishlistEvents.WithLabelValues(normalizeLabel(action)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
