package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/wickhaven/storefront-backend/api/routes"
	"github.com/wickhaven/storefront-backend/internal/cart"
	"github.com/wickhaven/storefront-backend/internal/catalog"
	"github.com/wickhaven/storefront-backend/internal/orders"
	"github.com/wickhaven/storefront-backend/internal/promo"
	"github.com/wickhaven/storefront-backend/internal/recentlyviewed"
	"github.com/wickhaven/storefront-backend/internal/wishlist"
	"github.com/wickhaven/storefront-backend/pkg/config"
	"github.com/wickhaven/storefront-backend/pkg/db"
	"github.com/wickhaven/storefront-backend/pkg/kvstore"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/metrics"
	"github.com/wickhaven/storefront-backend/pkg/woocommerce"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	met := metrics.NewStorefrontMetrics(registry)

	dbClient, err := db.New(context.Background(), cfg.Catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open catalog database", err)
		os.Exit(1)
	}

	var store kvstore.Store
	if cfg.Redis.Configured() {
		redisStore, err := kvstore.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to connect to redis", err)
			os.Exit(1)
		}
		store = redisStore
		logg.Info(context.Background(), "session state backed by redis")
	} else {
		store = kvstore.NewMemory()
		logg.Warn(context.Background(), "no redis configured, session state is in-memory")
	}

	defer func() {
		if err := multierr.Combine(store.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing backends", err)
		}
	}()

	var wooClient *woocommerce.Client
	if cfg.Woo.Enabled() {
		wooClient, err = woocommerce.NewClient(cfg.Woo, logg, met)
		if err != nil {
			logg.Error(context.Background(), "failed to build commerce client", err)
			os.Exit(1)
		}
		logg.Info(context.Background(), "commerce backend configured")
	} else {
		logg.Warn(context.Background(), "commerce backend not configured, running on local data only")
	}

	var catalogRemote catalog.RemoteCatalog
	if wooClient != nil && cfg.Catalog.RemoteSync {
		catalogRemote = wooClient
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), catalogRemote, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	if err := catalogService.Bootstrap(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to bootstrap catalog", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(store, catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(store, catalogService, nil, logg, met)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	recentService, err := recentlyviewed.NewService(store, catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create recently-viewed service", err)
		os.Exit(1)
	}

	var couponSource promo.CouponSource
	if wooClient != nil {
		remoteSource, err := promo.NewRemoteSource(wooClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create coupon source", err)
			os.Exit(1)
		}
		couponSource = remoteSource
	} else {
		couponSource = promo.NewLocalSource()
	}
	promoService, err := promo.NewService(couponSource, store, logg, met, cfg.Promo.LookupTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create promo service", err)
		os.Exit(1)
	}

	var orderRemote orders.OrderPlacer
	if wooClient != nil {
		orderRemote = wooClient
	}
	orderService, err := orders.NewService(orderRemote, cartService, promoService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, store, registry,
			catalogService, cartService, wishlistService, recentService, promoService, orderService),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "shutdown did not complete cleanly", err)
		}
	}
}
