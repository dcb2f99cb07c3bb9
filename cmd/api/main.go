package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"stationery-catalog/internal/config"
	"stationery-catalog/internal/database"
	"stationery-catalog/internal/logger"
	"stationery-catalog/internal/server"
	"stationery-catalog/internal/service"

	"go.uber.org/zap"
)

// shutdownOnSignal drains srv after SIGINT or SIGTERM and closes its resources.
// The returned channel is closed once shutdown has finished.
func shutdownOnSignal(srv *server.Server, logger *zap.Logger, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		<-ctx.Done()
		stop() // a second signal kills the process

		logger.Info("Shutdown signal received, draining requests", zap.Duration("timeout", timeout))

		drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(drainCtx); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
		if err := srv.Close(); err != nil {
			logger.Error("Error closing server resources", zap.Error(err))
		}
	}()

	return done
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting stationery catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	ctx := context.Background()

	// Open the configured store
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	log.Info("Store health check", zap.Any("health", store.Health(ctx)))

	// Run migrations
	if err := store.Migrate(log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed the admin account and default categories
	catalog := service.NewCatalog(store.Store, log, service.Options{})
	seeded, err := catalog.Seed(ctx, service.DefaultSeed(
		cfg.Seed.AdminUsername,
		cfg.Seed.AdminPassword,
		cfg.Seed.AdminEmail,
	))
	if err != nil {
		log.Fatal("Failed to seed store", zap.Error(err))
	}
	log.Info("Seed completed",
		zap.Bool("admin_created", seeded.AdminCreated),
		zap.Int("categories_created", seeded.CategoriesCreated),
	)

	// Create server
	srv := server.NewServer(cfg, log, store)

	done := shutdownOnSignal(srv, log, 30*time.Second)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Server stopped")
}
