// Package main is the entry point for the costbook admin API server.
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

	"costbook/internal/app"
	"costbook/internal/config"
	v1 "costbook/internal/infrastructure/http/v1"
	"costbook/internal/infrastructure/storage/postgres"
	"costbook/pkg/logger"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
		Service:     "costbook-server",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting costbook server", "version", version)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}

	services, err := app.New(ctx, cfg, pool)
	if err != nil {
		log.Fatalw("failed to assemble services", "error", err)
	}
	defer services.Close()

	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		Pool:           pool,
		Version:        version,
		Idempotency:    services.Idempotency,
		Audit:          services.Audit,
		Organizations:  services.Organizations,
		Transactions:   services.Transactions,
		Costing:        services.Costing,
		Accounting:     services.Accounting,
		Reconciliation: services.Reconciliation,
		Ledger:         services.Repos.GL,
		Periods:        services.Periods,
		Scenarios:      services.Scenarios,
		Approvals:      services.Approvals,
		LandedCost:     services.LandedCost,
		WIP:            services.WIP,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
