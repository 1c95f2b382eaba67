package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wear404_storefront/internal/cart"
	"wear404_storefront/internal/catalog"
	"wear404_storefront/internal/config"
	"wear404_storefront/internal/handlers"
	"wear404_storefront/internal/metrics"
	"wear404_storefront/internal/middleware"
	"wear404_storefront/internal/models"
	"wear404_storefront/internal/notify"
	"wear404_storefront/internal/routes"
	"wear404_storefront/internal/session"
	"wear404_storefront/internal/storage"
)

func main() {
	boot, _ := zap.NewProduction()
	cfg := config.Load(boot)
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Options{
		Driver:        storage.Driver(cfg.Storage.Driver),
		Key:           cfg.Storage.CartKey,
		TTL:           cfg.Storage.CartTTL,
		RedisAddr:     cfg.Storage.RedisHost,
		RedisPassword: cfg.Storage.RedisPassword,
		SQLitePath:    cfg.Storage.SQLitePath,
	})
	if err != nil {
		logger.Fatal("cart storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()
	logger.Info("cart storage ready", zap.String("driver", cfg.Storage.Driver))

	m := metrics.New()
	ledger := cart.NewLedger(store, cart.WithLogger(logger), cart.WithFailureHook(m.StorageFailure))
	hub := notify.NewHub(logger, notify.Hooks{})
	defer hub.Close()

	s := session.New(session.Settings{
		Brand:       cfg.BrandName,
		Currency:    cfg.Currency,
		PageSize:    cfg.ProductsPerPage,
		DefaultSort: models.SortMode(cfg.DefaultSort),
		PriceRange: models.PriceRange{
			Min: decimal.NewFromInt(cfg.PriceMin),
			Max: decimal.NewFromInt(cfg.PriceMax),
		},
		Debounce: cfg.DebounceInterval,
	}, ledger,
		session.WithLogger(logger),
		session.WithMetrics(m),
		session.WithNotifier(notify.Multi{notify.LogNotifier{Logger: logger}, hub}),
		session.WithRenderer(handlers.HubRenderer{Hub: hub}),
	)
	defer s.Close()

	loader := &catalog.Loader{
		Source: catalogSource(ctx, cfg.Catalog, logger),
		Seed:   cfg.Catalog.Seed,
		Logger: logger,
	}
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout)
	view := s.Install(loader.Load(loadCtx))
	cancel()
	cartView := s.LoadCart(ctx)
	logger.Info("storefront ready",
		zap.Int("products", view.Total),
		zap.Int("cart_items", cartView.ItemCount))

	h := handlers.New(s, loader, hub, logger).WithReloadTimeout(cfg.Catalog.Timeout)
	hub.SetHooks(h.HubHooks(m))

	var counter middleware.Counter = middleware.NewMemoryCounter(nil)
	if rs, ok := store.(*storage.Redis); ok {
		counter = middleware.RedisCounter{Client: rs.Client()}
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	routes.RegisterRoutes(r, routes.Deps{
		Handler: h,
		Metrics: m,
		Counter: counter,
		Limits:  cfg.RateLimit,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
