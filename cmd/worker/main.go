// Package main is the entry point for the costbook background worker.
// On every tick it runs the cost processor and then the accounting batch for
// each inventory organization.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"costbook/internal/app"
	"costbook/internal/config"
	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
	"costbook/internal/infrastructure/storage/postgres"
	"costbook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
		Service:     "costbook-worker",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting costbook worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	services, err := app.New(ctx, cfg, pool)
	if err != nil {
		log.Fatalw("failed to assemble services", "error", err)
	}
	defer services.Close()

	worker := NewWorker(services, cfg, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Worker drives periodic cost processing and accounting.
type Worker struct {
	app      *app.App
	orgs     []id.ID
	interval time.Duration
	log      *logger.Logger
}

func NewWorker(a *app.App, cfg *config.Config, log *logger.Logger) *Worker {
	return &Worker{
		app:      a,
		orgs:     cfg.WorkerOrganizations,
		interval: cfg.WorkerInterval,
		log:      log.WithComponent("worker"),
	}
}

// Run processes all organizations once, then on every tick until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(1 * time.Hour)
	defer cleanupTicker.Stop()

	w.runAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runAll(ctx)
		case <-cleanupTicker.C:
			w.cleanupIdempotency(ctx)
		}
	}
}

func (w *Worker) organizations(ctx context.Context) ([]id.ID, error) {
	if len(w.orgs) > 0 {
		return w.orgs, nil
	}
	orgs, err := w.app.Organizations.ListInventoryOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]id.ID, 0, len(orgs))
	for _, o := range orgs {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

func (w *Worker) runAll(ctx context.Context) {
	orgs, err := w.organizations(ctx)
	if err != nil {
		w.log.Errorw("failed to list organizations", "error", err)
		return
	}

	var wg sync.WaitGroup
	for _, orgID := range orgs {
		wg.Add(1)
		go func(orgID id.ID) {
			defer wg.Done()
			w.runOrganization(ctx, orgID)
		}(orgID)
	}
	wg.Wait()
}

func (w *Worker) runOrganization(ctx context.Context, orgID id.ID) {
	ctx = appctx.WithActor(ctx, appctx.SystemActor("worker"))
	ctx = appctx.WithTrace(ctx, appctx.NewJobTrace("cost-run", orgID))
	log := w.log.WithContext(ctx)

	summary, err := w.app.Costing.ProcessTransactions(ctx, orgID)
	if err != nil {
		log.Errorw("cost processing failed", "error", err)
		return
	}
	if summary.Transactions > 0 {
		log.Infow("costed transactions",
			"transactions", summary.Transactions,
			"items_updated", summary.ItemsUpdated,
			"pages", summary.Pages)
	}

	batch, err := w.app.Accounting.CreateAccountingBatch(ctx, orgID)
	if err != nil {
		log.Errorw("accounting batch failed", "error", err)
		return
	}
	if batch.Posted > 0 || batch.Failed > 0 {
		log.Infow("accounting batch finished",
			"batch_id", batch.BatchID,
			"posted", batch.Posted,
			"skipped", batch.Skipped,
			"failed", batch.Failed,
			"entries", batch.Entries)
	}
}

func (w *Worker) cleanupIdempotency(ctx context.Context) {
	n, err := w.app.Idempotency.CleanupExpired(ctx)
	if err != nil {
		w.log.Warnw("idempotency cleanup failed", "error", err)
		return
	}
	if n > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", n)
	}
}
