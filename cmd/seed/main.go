// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"costbook/internal/app"
	"costbook/internal/config"
	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/catalogs/item"
	"costbook/internal/domain/catalogs/subinventory"
	"costbook/internal/domain/documents/material"
	"costbook/internal/domain/documents/purchaseorder"
	"costbook/internal/infrastructure/storage/postgres"
	"costbook/pkg/logger"
)

const demoOrgCode = "DEMO"

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
		Service:     "costbook-seed",
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	ctx := logger.WithLogger(context.Background(), log)
	ctx = appctx.WithActor(ctx, appctx.SystemActor("seed"))

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}

	services, err := app.New(ctx, cfg, pool)
	if err != nil {
		log.Fatalw("failed to assemble services", "error", err)
	}
	defer services.Close()

	if err := seedDemoData(ctx, services, cfg.DefaultCurrency, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, a *app.App, currency string, log *logger.Logger) error {
	orgs, err := a.Organizations.ListInventoryOrganizations(ctx)
	if err != nil {
		return err
	}
	for _, o := range orgs {
		if o.Code == demoOrgCode {
			log.Infow("demo organization already exists", "organization_id", o.ID)
			return nil
		}
	}

	log.Info("seeding demo data...")

	setup, err := a.Organizations.Onboard(ctx, demoOrgCode, "Demo Plant")
	if err != nil {
		return fmt.Errorf("onboard organization: %w", err)
	}
	orgID := setup.Inventory.ID

	// 1. Subinventories
	stores := &subinventory.Subinventory{ID: id.New(), OrganizationID: orgID, Code: "STORES"}
	finished := &subinventory.Subinventory{ID: id.New(), OrganizationID: orgID, Code: "FG"}
	for _, sub := range []*subinventory.Subinventory{stores, finished} {
		if err := a.Repos.Subinventories.Create(ctx, sub); err != nil {
			return fmt.Errorf("create subinventory %s: %w", sub.Code, err)
		}
	}

	// 2. Items
	products := []struct {
		code  string
		name  string
		price string
	}{
		{"STEEL-PLATE", "Steel plate 4mm", "42.50"},
		{"BOLT-M8", "Hex bolt M8", "0.35"},
		{"PAINT-RAL", "Paint RAL 7035, 1l", "12.00"},
	}

	items := make([]*item.Item, 0, len(products))
	for _, p := range products {
		it := &item.Item{ID: id.New(), OrganizationID: orgID, Code: p.code, Name: p.name}
		if err := a.Repos.Items.Create(ctx, it); err != nil {
			return fmt.Errorf("create item %s: %w", p.code, err)
		}
		items = append(items, it)
	}

	// 3. Current month period, opened
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	period, err := a.Periods.CreatePeriod(ctx, setup.Cost.ID, start.Format("2006-01"), start, end)
	if err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	if _, err := a.Periods.OpenPeriod(ctx, period.ID); err != nil {
		return fmt.Errorf("open period: %w", err)
	}

	// 4. Approved purchase order
	po := &purchaseorder.PurchaseOrder{
		ID:             id.New(),
		OrganizationID: orgID,
		Number:         "PO-0001",
		Status:         purchaseorder.StatusApproved,
		Currency:       currency,
	}
	lines := make([]purchaseorder.Line, 0, len(items))
	for i, it := range items {
		lines = append(lines, purchaseorder.Line{
			ID:              id.New(),
			PurchaseOrderID: po.ID,
			ItemID:          it.ID,
			Quantity:        types.Units(100),
			UnitPrice:       types.MustMoney(products[i].price),
		})
	}
	if err := a.Repos.PurchaseOrders.CreateOrder(ctx, po, lines); err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}

	// 5. Receive the order and issue part of it
	for _, line := range lines {
		_, err := a.Transactions.ExecuteTransaction(ctx, &material.Request{
			OrganizationID:  orgID,
			ItemID:          line.ItemID,
			Type:            material.TypePOReceipt,
			Quantity:        line.Quantity,
			TransactionDate: now,
			SubinventoryID:  stores.ID,
			Source:          material.SourceDocument{DocumentType: "PO", DocumentID: &po.ID, LineID: &line.ID},
		})
		if err != nil {
			return fmt.Errorf("receive line %s: %w", line.ID, err)
		}
	}

	if _, err := a.Transactions.ExecuteTransaction(ctx, &material.Request{
		OrganizationID:  orgID,
		ItemID:          items[0].ID,
		Type:            material.TypeMiscIssue,
		Quantity:        types.Units(-10),
		TransactionDate: now,
		SubinventoryID:  stores.ID,
	}); err != nil {
		return fmt.Errorf("issue demo material: %w", err)
	}

	// 6. Account for everything posted above
	batch, err := a.Accounting.CreateAccountingBatch(ctx, orgID)
	if err != nil {
		return fmt.Errorf("create accounting batch: %w", err)
	}

	log.Infow("demo data seeded",
		"organization_id", orgID,
		"cost_organization_id", setup.Cost.ID,
		"period_id", period.ID,
		"purchase_order_id", po.ID,
		"gl_groups_posted", batch.Posted)
	return nil
}
