// Package app assembles repositories and services on one database pool.
// cmd/server, cmd/worker and cmd/seed share this wiring.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"costbook/internal/config"
	corelock "costbook/internal/core/lock"
	"costbook/internal/domain/approval"
	"costbook/internal/domain/catalogs/organization"
	"costbook/internal/domain/costing"
	"costbook/internal/domain/costperiod"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/documents/landedcost"
	"costbook/internal/domain/documents/material"
	"costbook/internal/domain/documents/purchaseorder"
	"costbook/internal/domain/reconciliation"
	"costbook/internal/domain/registers/onhand"
	"costbook/internal/domain/scenario"
	"costbook/internal/domain/sla"
	"costbook/internal/domain/wip"
	"costbook/internal/infrastructure/lock"
	"costbook/internal/infrastructure/numerator"
	"costbook/internal/infrastructure/storage/postgres"
	"costbook/internal/infrastructure/storage/postgres/catalog_repo"
	"costbook/internal/infrastructure/storage/postgres/document_repo"
	"costbook/internal/infrastructure/storage/postgres/ledger_repo"
	"costbook/internal/infrastructure/storage/postgres/register_repo"
	"costbook/internal/infrastructure/storage/postgres/workflow_repo"
	"costbook/pkg/logger"
)

// IdempotencyTTL is how long a posted request may be replayed.
const IdempotencyTTL = 24 * time.Hour

// Repositories are the PostgreSQL repositories.
type Repositories struct {
	Organizations  *catalog_repo.OrganizationRepo
	Items          *catalog_repo.ItemRepo
	Subinventories *catalog_repo.SubinventoryRepo
	PurchaseOrders *document_repo.PurchaseOrderRepo
	Ledger         *document_repo.MaterialRepo
	Charges        *document_repo.LandedCostRepo
	WIP            *document_repo.WipRepo
	Balances       *register_repo.OnhandRepo
	Costs          *register_repo.ItemCostRepo
	Periods        *ledger_repo.CostPeriodRepo
	Distributions  *ledger_repo.DistributionRepo
	GL             *ledger_repo.GLRepo
	Valuation      *ledger_repo.ValuationRepo
	Scenarios      *workflow_repo.ScenarioRepo
	Approvals      *workflow_repo.ApprovalRepo
}

// App holds the assembled services.
type App struct {
	Pool        *postgres.Pool
	TxManager   *postgres.TxManager
	Repos       Repositories
	Audit       *postgres.AuditRecorder
	Idempotency *postgres.IdempotencyStore
	Locker      corelock.Locker

	Organizations  *organization.Service
	Periods        *costperiod.Service
	Transactions   *material.Service
	Costing        *costing.Service
	Accounting     *sla.Engine
	Reconciliation *reconciliation.Service
	Scenarios      *scenario.Service
	Approvals      *approval.Service
	LandedCost     *landedcost.Service
	WIP            *wip.Service

	redis *redis.Client
}

// New wires every service on pool. With cfg.RedisAddr set, batch locks are
// taken in Redis so several processes may share the database; otherwise an
// in-process locker is used.
func New(ctx context.Context, cfg *config.Config, pool *postgres.Pool) (*App, error) {
	txm := postgres.NewTxManager(pool)

	a := &App{
		Pool:        pool,
		TxManager:   txm,
		Idempotency: postgres.NewIdempotencyStore(txm, IdempotencyTTL),
		Repos: Repositories{
			Organizations:  catalog_repo.NewOrganizationRepo(txm),
			Items:          catalog_repo.NewItemRepo(txm),
			Subinventories: catalog_repo.NewSubinventoryRepo(txm),
			PurchaseOrders: document_repo.NewPurchaseOrderRepo(txm),
			Ledger:         document_repo.NewMaterialRepo(txm),
			Charges:        document_repo.NewLandedCostRepo(txm),
			WIP:            document_repo.NewWipRepo(txm),
			Balances:       register_repo.NewOnhandRepo(txm),
			Costs:          register_repo.NewItemCostRepo(txm),
			Periods:        ledger_repo.NewCostPeriodRepo(txm),
			Distributions:  ledger_repo.NewDistributionRepo(txm),
			GL:             ledger_repo.NewGLRepo(txm),
			Valuation:      ledger_repo.NewValuationRepo(txm),
			Scenarios:      workflow_repo.NewScenarioRepo(txm),
			Approvals:      workflow_repo.NewApprovalRepo(txm),
		},
	}

	recorder, err := postgres.NewAuditRecorder(txm)
	if err != nil {
		return nil, err
	}
	a.Audit = recorder

	if cfg.RedisAddr != "" {
		rdb, err := lock.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = rdb
		a.Locker = lock.NewRedis(rdb, cfg.BatchLockTTL)
		logger.Info(ctx, "batch locks in redis", "addr", cfg.RedisAddr)
	} else {
		a.Locker = corelock.NewLocal()
	}

	a.wire(cfg)
	return a, nil
}

func (a *App) wire(cfg *config.Config) {
	r := a.Repos
	txm := a.TxManager

	a.Organizations = organization.NewService(r.Organizations, txm)
	a.Periods = costperiod.NewService(r.Periods, a.Organizations, txm)

	generator := distribution.NewGenerator(r.Distributions, cfg.Accounts.Chart(), cfg.DefaultCurrency)

	a.Costing = costing.NewService(costing.Dependencies{
		Costs:         r.Costs,
		Books:         a.Organizations,
		Ledger:        r.Ledger,
		Items:         r.Items,
		Distributions: generator,
		Locker:        a.Locker,
		TxManager:     txm,
		PageSize:      cfg.CostBatchPageSize,
	})

	a.Transactions = material.NewService(material.Dependencies{
		Repo:           r.Ledger,
		Items:          r.Items,
		Subinventories: r.Subinventories,
		Balances:       onhand.NewService(r.Balances),
		Gate:           a.Periods,
		Coster:         a.Costing,
		Distributions:  generator,
		Prices:         purchaseorder.NewPriceResolver(r.PurchaseOrders),
		TxManager:      txm,
	})

	a.Accounting = sla.NewEngine(sla.Dependencies{
		Distributions: r.Distributions,
		Offsets:       generator,
		Ledger:        r.GL,
		Locker:        a.Locker,
		TxManager:     txm,
	})

	a.Reconciliation = reconciliation.NewService(r.Valuation, r.GL, a.Organizations, cfg.Accounts.InventoryAsset, txm).
		WithTolerance(cfg.ReconciliationTolerance)

	registry := approval.NewRegistry()
	a.Approvals = approval.NewService(r.Approvals, registry, a.Audit, txm)
	a.Scenarios = scenario.NewService(scenario.Dependencies{
		Repo:          r.Scenarios,
		Organizations: a.Organizations,
		Costs:         r.Costs,
		Approvals:     a.Approvals,
		Audit:         a.Audit,
		TxManager:     txm,
	})
	registry.Register(approval.EntityCostScenario, a.Scenarios)

	a.LandedCost = landedcost.NewService(r.Charges, landedcost.NewLedgerReceipts(r.Ledger), txm)

	numbers := numerator.NewWithSource(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	})
	a.WIP = wip.NewService(wip.Dependencies{
		Repo:          r.WIP,
		StandardCosts: a.Scenarios,
		Distributions: generator,
		Gate:          a.Periods,
		Numbers:       numbers,
		TxManager:     txm,
	})
}

// Close releases the redis client. The pool is owned by the caller.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
