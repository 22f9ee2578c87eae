package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wickhaven/storefront-backend/api/controllers"
	"github.com/wickhaven/storefront-backend/api/middleware"
	"github.com/wickhaven/storefront-backend/internal/cart"
	"github.com/wickhaven/storefront-backend/internal/catalog"
	"github.com/wickhaven/storefront-backend/internal/orders"
	"github.com/wickhaven/storefront-backend/internal/promo"
	"github.com/wickhaven/storefront-backend/internal/recentlyviewed"
	"github.com/wickhaven/storefront-backend/internal/wishlist"
	"github.com/wickhaven/storefront-backend/pkg/config"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.Pinger,
	store controllers.Pinger,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	cartService cart.Service,
	wishlistService wishlist.Service,
	recentService recentlyviewed.Service,
	promoService promo.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, db, store))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/collections", controllers.ProductCollections(catalogService, logg))
			r.Get("/{idOrSlug}", controllers.ProductDetail(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productID}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(cartService, logg))
			r.Post("/toggle", controllers.CartToggle(cartService, logg))
			r.Post("/open", controllers.CartOpen(cartService, logg))
			r.Post("/close", controllers.CartClose(cartService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(wishlistService, logg))
			r.Post("/items", controllers.WishlistAddItem(wishlistService, logg))
			r.Delete("/items/{productID}", controllers.WishlistRemoveItem(wishlistService, logg))
			r.Post("/toggle", controllers.WishlistToggle(wishlistService, logg))
		})

		r.Route("/recently-viewed", func(r chi.Router) {
			r.Get("/", controllers.RecentlyViewedList(recentService, logg))
			r.Post("/", controllers.RecentlyViewedRecord(recentService, logg))
			r.Delete("/", controllers.RecentlyViewedClear(recentService, logg))
		})

		r.Route("/promo", func(r chi.Router) {
			r.Get("/", controllers.PromoFetch(promoService, cartService, logg))
			r.Post("/apply", controllers.PromoApply(promoService, cartService, logg))
			r.Delete("/", controllers.PromoRemove(promoService, cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(orderService, logg))
		r.Get("/orders/{orderID}", controllers.OrderDetail(orderService, logg))
	})

	return r
}
