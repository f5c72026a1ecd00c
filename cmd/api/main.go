package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/ferremas-backend/api/routes"
	"github.com/angelmondragon/ferremas-backend/internal/auth"
	"github.com/angelmondragon/ferremas-backend/internal/cart"
	"github.com/angelmondragon/ferremas-backend/internal/checkout"
	"github.com/angelmondragon/ferremas-backend/internal/dispatch"
	"github.com/angelmondragon/ferremas-backend/internal/inventory"
	"github.com/angelmondragon/ferremas-backend/internal/payments"
	"github.com/angelmondragon/ferremas-backend/internal/receipts"
	"github.com/angelmondragon/ferremas-backend/internal/sales"
	"github.com/angelmondragon/ferremas-backend/internal/sucursales"
	"github.com/angelmondragon/ferremas-backend/internal/users"
	"github.com/angelmondragon/ferremas-backend/pkg/auth/session"
	"github.com/angelmondragon/ferremas-backend/pkg/config"
	"github.com/angelmondragon/ferremas-backend/pkg/db"
	"github.com/angelmondragon/ferremas-backend/pkg/instance"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
	"github.com/angelmondragon/ferremas-backend/pkg/metrics"
	"github.com/angelmondragon/ferremas-backend/pkg/migrate"
	"github.com/angelmondragon/ferremas-backend/pkg/redis"
	"github.com/angelmondragon/ferremas-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "ferremas-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "ferremas-api",
		Env:         cfg.App.Env,
		InstanceID:  instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	domainMetrics := metrics.NewDomainMetrics(registry)

	deps, err := buildDependencies(cfg, logg, dbClient, sessionManager, domainMetrics)
	if err != nil {
		return err
	}
	deps.DB = dbClient
	deps.Redis = redisClient
	deps.RateLimits = redisClient
	deps.Idempotency = redisClient
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	deps.Gatherer = registry

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":   addr,
		"driver": cfg.DB.Driver,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildDependencies(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager, domainMetrics *metrics.DomainMetrics) (routes.Dependencies, error) {
	conn := dbClient.DB()
	hasher := security.NewHasher(cfg.Password)
	userRepo := users.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	paymentsRepo := payments.NewRepository(conn)
	receiptsRepo := receipts.NewRepository(conn)

	var (
		deps routes.Dependencies
		err  error
	)

	if deps.Auth, err = auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		Passwords:      hasher,
		JWTConfig:      cfg.JWT,
		Metrics:        domainMetrics,
		Logger:         logg,
	}); err != nil {
		return deps, err
	}
	if deps.Users, err = users.NewService(users.ServiceParams{
		Repo:    userRepo,
		Hasher:  hasher,
		Metrics: domainMetrics,
		Logger:  logg,
	}); err != nil {
		return deps, err
	}
	if deps.Inventory, err = inventory.NewService(inventory.ServiceParams{
		Repo:    inventoryRepo,
		Tx:      dbClient,
		Metrics: domainMetrics,
		Logger:  logg,
	}); err != nil {
		return deps, err
	}
	if deps.Sales, err = sales.NewService(sales.NewRepository(conn), logg); err != nil {
		return deps, err
	}
	if deps.Cart, err = cart.NewService(cartRepo, logg); err != nil {
		return deps, err
	}
	if deps.Checkout, err = checkout.NewService(checkout.ServiceParams{
		Tx:        dbClient,
		Cart:      cartRepo,
		Inventory: inventoryRepo,
		Payments:  paymentsRepo,
		Receipts:  receiptsRepo,
		Config:    cfg.Checkout,
		Metrics:   domainMetrics,
		Logger:    logg,
	}); err != nil {
		return deps, err
	}
	if deps.Dispatch, err = dispatch.NewService(dispatch.NewRepository(conn), cfg.Dispatch.FeeAmount(), logg); err != nil {
		return deps, err
	}
	if deps.Payments, err = payments.NewService(paymentsRepo, logg); err != nil {
		return deps, err
	}
	if deps.Sucursales, err = sucursales.NewService(sucursales.NewRepository(conn), logg); err != nil {
		return deps, err
	}
	if deps.Receipts, err = receipts.NewService(receiptsRepo); err != nil {
		return deps, err
	}
	return deps, nil
}
