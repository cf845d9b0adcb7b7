package material_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/lock"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/catalogs/item"
	"costbook/internal/domain/catalogs/organization"
	"costbook/internal/domain/catalogs/subinventory"
	"costbook/internal/domain/costing"
	"costbook/internal/domain/costperiod"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/documents/material"
	"costbook/internal/domain/registers/itemcost"
	"costbook/internal/domain/registers/onhand"
)

type fakePrices struct {
	price types.Money
	err   error
}

func (f fakePrices) ResolveUnitCost(context.Context, id.ID, id.ID, material.SourceDocument) (types.Money, error) {
	return f.price, f.err
}

type env struct {
	svc      *material.Service
	coster   *costing.Service
	periods  *costperiod.Service
	period   *costperiod.Period
	ledger   *material.MemoryRepository
	balances *onhand.MemoryRepository
	items    *item.MemoryRepository
	costs    *itemcost.MemoryRepository
	dists    *distribution.MemoryRepository
	prices   *fakePrices
	setup    *organization.Setup

	itemID id.ID
	main   id.ID
	spare  id.ID
	lot    id.ID
}

var day = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	e := &env{
		ledger:   material.NewMemoryRepository(),
		balances: onhand.NewMemoryRepository(),
		items:    item.NewMemoryRepository(),
		costs:    itemcost.NewMemoryRepository(),
		dists:    distribution.NewMemoryRepository(),
		prices:   &fakePrices{price: types.MustMoney("9.00")},
		itemID:   id.New(),
		main:     id.New(),
		spare:    id.New(),
		lot:      id.New(),
	}
	e.ledger.HasDistributions = e.dists.HasDistributions

	orgs := organization.NewService(organization.NewMemoryRepository(), tx.Passthrough{})
	setup, err := orgs.Onboard(ctx, "P1", "Plant 1")
	require.NoError(t, err)
	e.setup = setup
	org := setup.Inventory.ID

	subs := subinventory.NewMemoryRepository()
	require.NoError(t, subs.Create(ctx, &subinventory.Subinventory{ID: e.main, OrganizationID: org, Code: "MAIN"}))
	require.NoError(t, subs.Create(ctx, &subinventory.Subinventory{ID: e.spare, OrganizationID: org, Code: "SPARE"}))
	require.NoError(t, e.items.Create(ctx, &item.Item{ID: e.itemID, OrganizationID: org, Code: "BOLT"}))
	require.NoError(t, e.items.CreateLot(ctx, &item.Lot{ID: e.lot, ItemID: e.itemID, Number: "L-1"}))

	e.periods = costperiod.NewService(costperiod.NewMemoryRepository(), orgs, tx.Passthrough{})
	e.period, err = e.periods.CreatePeriod(ctx, setup.Cost.ID, "2026-06", day.AddDate(0, 0, -14), day.AddDate(0, 0, 15))
	require.NoError(t, err)
	_, err = e.periods.OpenPeriod(ctx, e.period.ID)
	require.NoError(t, err)

	generator := distribution.NewGenerator(e.dists, distribution.Chart{
		distribution.LineInventoryValuation:  "1400",
		distribution.LineReceivingAccrual:    "2100",
		distribution.LineInventoryAdjustment: "5300",
		distribution.LineCOGS:                "5000",
	}, "USD")

	e.coster = costing.NewService(costing.Dependencies{
		Costs:         e.costs,
		Books:         orgs,
		Ledger:        e.ledger,
		Items:         e.items,
		Distributions: generator,
		Locker:        lock.NewLocal(),
		TxManager:     tx.Passthrough{},
	})

	e.svc = material.NewService(material.Dependencies{
		Repo:           e.ledger,
		Items:          e.items,
		Subinventories: subs,
		Balances:       onhand.NewService(e.balances),
		Gate:           e.periods,
		Coster:         e.coster,
		Distributions:  generator,
		Prices:         e.prices,
		TxManager:      tx.Passthrough{},
	})
	return e
}

func (e *env) org() id.ID { return e.setup.Inventory.ID }

func (e *env) request(typ material.TransactionType, qty types.Quantity) *material.Request {
	return &material.Request{
		OrganizationID:  e.org(),
		ItemID:          e.itemID,
		Type:            typ,
		Quantity:        qty,
		TransactionDate: day,
		SubinventoryID:  e.main,
	}
}

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func (e *env) itemQty(t *testing.T) types.Quantity {
	it, err := e.items.GetByID(context.Background(), e.org(), e.itemID)
	require.NoError(t, err)
	return it.QuantityOnHand
}

func (e *env) unitCost(t *testing.T) types.Money {
	c, err := e.costs.Get(context.Background(), itemcost.Key{
		OrganizationID: e.org(), ItemID: e.itemID, CostBookID: e.setup.Book.ID,
	})
	require.NoError(t, err)
	return c.UnitCost
}

func TestService_ExecuteTransaction_ReceiptThenIssue(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	req := e.request(material.TypePOReceipt, types.Units(10))
	req.UnitCost = money("5.00")
	res, err := e.svc.ExecuteTransaction(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res.BookedUnitCost)
	assert.True(t, res.BookedUnitCost.Equal(types.MustMoney("5")))

	req = e.request(material.TypePOReceipt, types.Units(10))
	req.UnitCost = money("7.00")
	_, err = e.svc.ExecuteTransaction(ctx, req)
	require.NoError(t, err)
	assert.True(t, e.unitCost(t).Equal(types.MustMoney("6")), e.unitCost(t).String())

	res, err = e.svc.ExecuteTransaction(ctx, e.request(material.TypeSalesOrderIssue, types.Units(-4)))
	require.NoError(t, err)
	assert.True(t, res.BookedUnitCost.Equal(types.MustMoney("6")))
	assert.True(t, e.unitCost(t).Equal(types.MustMoney("6")))

	assert.Equal(t, types.Units(16), e.itemQty(t))
	bal, err := e.balances.GetBalance(ctx, res.Transaction.SourceDimensions())
	require.NoError(t, err)
	assert.Equal(t, types.Units(16), bal.Quantity)

	rows, err := e.dists.ListByTransaction(ctx, distribution.SourceMaterial, res.Transaction.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "5000", rows[0].AccountCode)
	assert.True(t, rows[0].Amount.Equal(types.MustMoney("24.00")))
}

func TestService_ExecuteTransaction_DefaultsDateOnItsOwnCopy(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	now := time.Now().UTC()
	// a conflict means the fixture period already covers today
	if p, err := e.periods.CreatePeriod(ctx, e.setup.Cost.ID, "current", now, now); err == nil {
		_, err = e.periods.OpenPeriod(ctx, p.ID)
		require.NoError(t, err)
	}

	req := e.request(material.TypeMiscReceipt, types.Units(2))
	req.TransactionDate = time.Time{}
	req.UnitCost = money("3.00")

	res, err := e.svc.ExecuteTransaction(ctx, req)
	require.NoError(t, err)
	assert.True(t, req.TransactionDate.IsZero(), "the caller's request is not modified")
	assert.WithinDuration(t, now, res.Transaction.TransactionDate, time.Minute)
}

func TestService_ExecuteTransaction_ResolvesPurchaseOrderPrice(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	line := id.New()
	req := e.request(material.TypePOReceipt, types.Units(2))
	req.Source = material.SourceDocument{DocumentType: "PO", LineID: &line}

	res, err := e.svc.ExecuteTransaction(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res.Transaction.UnitCost)
	assert.True(t, res.Transaction.UnitCost.Equal(types.MustMoney("9.00")))

	e.prices.err = apperror.NewInvalidState("purchase_order", "CLOSED", "not receivable")
	_, err = e.svc.ExecuteTransaction(ctx, req)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Len(t, e.ledger.All(), 1)
}

func TestService_ExecuteTransaction_Transfer(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	req := e.request(material.TypeMiscReceipt, types.Units(8))
	req.LotID = &e.lot
	_, err := e.svc.ExecuteTransaction(ctx, req)
	require.NoError(t, err)

	req = e.request(material.TypeSubinvTransfer, types.Units(-3))
	req.LotID = &e.lot
	req.Transfer = &material.TransferDestination{SubinventoryID: e.spare}
	res, err := e.svc.ExecuteTransaction(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, res.BookedUnitCost)

	src, _ := e.balances.GetBalance(ctx, res.Transaction.SourceDimensions())
	assert.Equal(t, types.Units(5), src.Quantity)

	dest := res.Transaction.SourceDimensions()
	dest.SubinventoryID = e.spare
	dst, _ := e.balances.GetBalance(ctx, dest)
	assert.Equal(t, types.Units(3), dst.Quantity)

	assert.Equal(t, types.Units(8), e.itemQty(t), "transfers do not change the item total")

	rows, _ := e.dists.ListByTransaction(ctx, distribution.SourceMaterial, res.Transaction.ID)
	assert.Empty(t, rows)
}

func TestService_ExecuteTransaction_PeriodGate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.periods.ClosePeriod(ctx, e.period.ID)
	require.NoError(t, err)

	for _, typ := range []material.TransactionType{material.TypeMiscReceipt, material.TypeMiscIssue} {
		qty := types.Units(1)
		if typ == material.TypeMiscIssue {
			qty = qty.Neg()
		}
		_, err = e.svc.ExecuteTransaction(ctx, e.request(typ, qty))
		assert.True(t, apperror.IsPeriodClosed(err), typ)
	}
	assert.Empty(t, e.ledger.All())
	assert.Empty(t, e.balances.All())
	assert.Empty(t, e.dists.All())

	_, err = e.periods.OpenPeriod(ctx, e.period.ID)
	require.NoError(t, err)
	_, err = e.svc.ExecuteTransaction(ctx, e.request(material.TypeMiscReceipt, types.Units(1)))
	assert.NoError(t, err)

	req := e.request(material.TypeMiscReceipt, types.Units(1))
	req.TransactionDate = day.AddDate(1, 0, 0)
	_, err = e.svc.ExecuteTransaction(ctx, req)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ExecuteTransaction_MissingReferences(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	req := e.request(material.TypeMiscReceipt, types.Units(1))
	req.ItemID = id.New()
	_, err := e.svc.ExecuteTransaction(ctx, req)
	assert.True(t, apperror.IsNotFound(err))

	req = e.request(material.TypeMiscReceipt, types.Units(1))
	req.SubinventoryID = id.New()
	_, err = e.svc.ExecuteTransaction(ctx, req)
	assert.True(t, apperror.IsNotFound(err))

	req = e.request(material.TypeMiscReceipt, types.Units(1))
	missing := id.New()
	req.LocatorID = &missing
	_, err = e.svc.ExecuteTransaction(ctx, req)
	assert.True(t, apperror.IsNotFound(err))

	req = e.request(material.TypeMiscReceipt, types.Units(1))
	req.SerialID = &missing
	_, err = e.svc.ExecuteTransaction(ctx, req)
	assert.True(t, apperror.IsNotFound(err))

	req = e.request(material.TypeSubinvTransfer, types.Units(-1))
	req.Transfer = &material.TransferDestination{SubinventoryID: id.New()}
	_, err = e.svc.ExecuteTransaction(ctx, req)
	assert.True(t, apperror.IsNotFound(err))

	assert.Empty(t, e.ledger.All())
}

func TestService_ExecuteTransaction_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	tests := []struct {
		name   string
		mutate func(r *material.Request)
	}{
		{"zero quantity", func(r *material.Request) { r.Quantity = 0 }},
		{"negative receipt", func(r *material.Request) { r.Quantity = types.Units(-1) }},
		{"positive issue", func(r *material.Request) { r.Type = material.TypeMiscIssue }},
		{"unknown type", func(r *material.Request) { r.Type = "SCRAP" }},
		{"transfer without destination", func(r *material.Request) {
			r.Type = material.TypeSubinvTransfer
			r.Quantity = types.Units(-1)
		}},
		{"transfer to itself", func(r *material.Request) {
			r.Type = material.TypeSubinvTransfer
			r.Quantity = types.Units(-1)
			r.Transfer = &material.TransferDestination{SubinventoryID: r.SubinventoryID}
		}},
		{"destination on receipt", func(r *material.Request) {
			r.Transfer = &material.TransferDestination{SubinventoryID: id.New()}
		}},
		{"negative unit cost", func(r *material.Request) { r.UnitCost = money("-1") }},
		{"po receipt without price source", func(r *material.Request) { r.Type = material.TypePOReceipt }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.request(material.TypeMiscReceipt, types.Units(1))
			tt.mutate(req)
			_, err := e.svc.ExecuteTransaction(ctx, req)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestService_BalanceEqualsSignedSumOfLedger(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	moves := []struct {
		typ material.TransactionType
		qty int64
	}{
		{material.TypeMiscReceipt, 12},
		{material.TypeMiscIssue, -5},
		{material.TypeMiscReceipt, 3},
		{material.TypeReturnToVendor, -4},
		{material.TypeSalesOrderIssue, -9},
		{material.TypeMiscReceipt, 1},
	}
	for _, m := range moves {
		_, err := e.svc.ExecuteTransaction(ctx, e.request(m.typ, types.Units(m.qty)))
		require.NoError(t, err)
	}

	var signed types.Quantity
	for _, txn := range e.ledger.All() {
		signed += txn.Quantity
	}

	dims := onhand.Dimensions{OrganizationID: e.org(), ItemID: e.itemID, SubinventoryID: e.main}
	bal, err := e.balances.GetBalance(ctx, dims)
	require.NoError(t, err)
	assert.Equal(t, signed, bal.Quantity)
	assert.Equal(t, types.Units(-2), bal.Quantity, "balances may go negative")
	assert.Equal(t, signed, e.itemQty(t))
}

func TestService_DeferredCostingIsPickedUpByBatch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	req := e.request(material.TypePOReceipt, types.Units(4))
	req.UnitCost = money("2.50")
	req.DeferCosting = true
	res, err := e.svc.ExecuteTransaction(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, res.BookedUnitCost)
	assert.Empty(t, e.dists.All())
	assert.Equal(t, types.Units(4), e.itemQty(t))

	summary, err := e.coster.ProcessTransactions(ctx, e.org())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Transactions)
	assert.Len(t, e.dists.All(), 2)
	assert.True(t, e.unitCost(t).Equal(types.MustMoney("2.5")))
}
