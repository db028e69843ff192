package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("checkout service stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer sqlDB.Close()

	var catalog menu.Catalog
	switch cfg.CatalogSource {
	case config.CatalogPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("catalog pool: %w", err)
		}
		defer pool.Close()
		catalog = menu.NewPostgresCatalog(pool)
	default:
		catalog = menu.NewMemoryCatalog(menu.SeedItems()...)
	}
	logger.Info("menu catalog ready", zap.String("source", cfg.CatalogSource))

	orders := order.NewRepository(sqlDB)

	// --- AMQP ---
	var publisher order.EventsPublisher
	if cfg.PublishEvents {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, events.NewSequenceRepository(sqlDB), events.PublisherOptions{
			Timeout: cfg.PublishTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("events publisher: %w", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Warn("event publishing disabled")
	}

	placer := order.NewPlacer(orders, publisher, logger)
	sessions := session.NewService(catalog, placer, cfg.Fees(), logger)

	// --- HTTP ---
	h := httpapi.NewHandler(sessions, catalog, orders, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h, httpapi.RouterOptions{Logger: logger, CORSAllowOrigins: cfg.CORSAllowOrigins}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		logger.Error("http server failed", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return runErr
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build(zap.Fields(zap.String("service", "checkout-service")))
}
