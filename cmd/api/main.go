package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmarquezf/bazaar-backend/api/routes"
	"github.com/dmarquezf/bazaar-backend/internal/auth"
	cartsvc "github.com/dmarquezf/bazaar-backend/internal/cart"
	checkoutsvc "github.com/dmarquezf/bazaar-backend/internal/checkout"
	ordersvc "github.com/dmarquezf/bazaar-backend/internal/orders"
	productsvc "github.com/dmarquezf/bazaar-backend/internal/products"
	usersvc "github.com/dmarquezf/bazaar-backend/internal/users"
	vendorsvc "github.com/dmarquezf/bazaar-backend/internal/vendors"
	"github.com/dmarquezf/bazaar-backend/pkg/config"
	"github.com/dmarquezf/bazaar-backend/pkg/db"
	"github.com/dmarquezf/bazaar-backend/pkg/env"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
	"github.com/dmarquezf/bazaar-backend/pkg/metrics"
	"github.com/dmarquezf/bazaar-backend/pkg/migrate"
	"github.com/dmarquezf/bazaar-backend/pkg/redis"
	"github.com/dmarquezf/bazaar-backend/pkg/token"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	tokenStore, err := token.NewStore(redisClient, cfg.Auth.TokenTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create token store", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:   usersvc.NewRepository(dbClient.DB()),
		VendorRepo: vendorsvc.NewRepository(dbClient.DB()),
		TokenStore: tokenStore,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := usersvc.NewService(usersvc.ServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	vendorService, err := vendorsvc.NewService(vendorsvc.ServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		DB:      dbClient,
		Cache:   redisClient,
		Logger:  logg,
		Catalog: cfg.Catalog,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		DB:       dbClient,
		Products: productsvc.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		TX:     dbClient,
		Cache:  redisClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.RouterParams{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Tokens:      tokenStore,
		HTTPMetrics: httpMetrics,
		Registry:    registry,
		Auth:        authService,
		Users:       userService,
		Vendors:     vendorService,
		Products:    productService,
		Cart:        cartService,
		Orders:      orderService,
		Checkout:    checkoutService,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}
