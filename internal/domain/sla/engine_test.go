package sla

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/lock"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/documents/material"
	"costbook/internal/domain/gl"
)

var chart = distribution.Chart{
	distribution.LineInventoryValuation:  "1400",
	distribution.LineReceivingAccrual:    "2100",
	distribution.LineInventoryAdjustment: "5300",
	distribution.LineCOGS:                "5000",
	distribution.LineWipMaterial:         "1450",
	distribution.LineWipResource:         "1450",
	distribution.LineResourceAbsorption:  "5400",
}

type fixture struct {
	orgID     id.ID
	dists     *distribution.MemoryRepository
	generator *distribution.Generator
	ledger    *gl.MemoryRepository
	locker    *lock.Local
	engine    *Engine
}

func newFixture() *fixture {
	f := &fixture{
		orgID:  id.New(),
		dists:  distribution.NewMemoryRepository(),
		ledger: gl.NewMemoryRepository(),
		locker: lock.NewLocal(),
	}
	f.generator = distribution.NewGenerator(f.dists, chart, "USD")
	f.engine = NewEngine(Dependencies{
		Distributions: f.dists,
		Offsets:       f.generator,
		Ledger:        f.ledger,
		Locker:        f.locker,
		TxManager:     tx.Passthrough{},
		Now:           func() time.Time { return time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC) },
	})
	return f
}

func (f *fixture) receipt(t *testing.T, qty int64, cost string) *material.Transaction {
	t.Helper()
	txn := &material.Transaction{
		Base:            entity.NewBase(),
		OrganizationID:  f.orgID,
		ItemID:          id.New(),
		Type:            material.TypePOReceipt,
		Quantity:        types.Units(qty),
		TransactionDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.generator.CreateMaterialDistributions(context.Background(), txn, types.MustMoney(cost)))
	return txn
}

func TestEngine_PostsBalancedGroupsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.receipt(t, 10, "5")
	f.receipt(t, 4, "5")

	res, err := f.engine.CreateAccountingBatch(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Posted)
	assert.Equal(t, 2, res.Entries)
	assert.Zero(t, res.Skipped)
	assert.Zero(t, res.Failed)

	net, err := f.ledger.AccountNet(ctx, f.orgID, "1400")
	require.NoError(t, err)
	assert.True(t, net.Equal(types.MustMoney("70")), net.String())

	for _, d := range f.dists.All() {
		assert.True(t, d.Accounted)
		assert.Equal(t, distribution.StatusAccounted, d.Status)
	}

	again, err := f.engine.CreateAccountingBatch(ctx, f.orgID)
	require.NoError(t, err)
	assert.Zero(t, again.Posted)
	assert.Zero(t, again.Entries)

	entries, err := f.ledger.List(ctx, gl.Filter{OrganizationID: f.orgID})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEngine_SkipsPartialGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.receipt(t, 1, "3")

	lone := distribution.Distribution{
		Base:           entity.NewBase(),
		OrganizationID: f.orgID,
		SourceType:     distribution.SourceMaterial,
		TransactionID:  id.New(),
		LineType:       distribution.LineInventoryValuation,
		LegRole:        distribution.RoleDebit,
		AccountCode:    "1400",
		Amount:         types.MustMoney("12.00"),
		Status:         distribution.StatusDraft,
	}
	require.NoError(t, f.dists.Insert(ctx, []distribution.Distribution{lone}))

	res, err := f.engine.CreateAccountingBatch(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Posted)
	assert.Equal(t, 1, res.Skipped)

	rows, err := f.dists.ListUnaccounted(ctx, f.orgID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, lone.ID, rows[0].ID)
}

func TestEngine_SkipsMismatchedAmounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	txnID := id.New()

	leg := func(role distribution.LegRole, amount string) distribution.Distribution {
		return distribution.Distribution{
			Base:           entity.NewBase(),
			OrganizationID: f.orgID,
			SourceType:     distribution.SourceMaterial,
			TransactionID:  txnID,
			LineType:       distribution.LineInventoryValuation,
			LegRole:        role,
			AccountCode:    "1400",
			Amount:         types.MustMoney(amount),
		}
	}
	require.NoError(t, f.dists.Insert(ctx, []distribution.Distribution{
		leg(distribution.RoleDebit, "10"),
		leg(distribution.RoleCredit, "9.99"),
	}))

	res, err := f.engine.CreateAccountingBatch(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Entries)
}

func TestEngine_GeneratesWipOffset(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, line := range []distribution.LineType{distribution.LineWipMaterial, distribution.LineWipResource} {
		_, err := f.generator.CreateWipDistribution(ctx, distribution.WipCharge{
			OrganizationID: f.orgID,
			TransactionID:  id.New(),
			LineType:       line,
			Amount:         types.MustMoney("40"),
			Date:           time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	res, err := f.engine.CreateAccountingBatch(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Posted)
	assert.Len(t, f.dists.All(), 4)

	entries, err := f.ledger.List(ctx, gl.Filter{OrganizationID: f.orgID})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	credits := map[string]bool{}
	for _, e := range entries {
		assert.Equal(t, "1450", e.DebitAccount)
		assert.True(t, e.DebitAmount.Equal(e.CreditAmount))
		credits[e.CreditAccount] = true
	}
	assert.Equal(t, map[string]bool{"1400": true, "5400": true}, credits)
}

func TestEngine_IsolatesGroupFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	bad := f.receipt(t, 2, "1")
	f.receipt(t, 3, "1")

	f.ledger.FailInsert = func(e gl.Entry) error {
		if e.TransactionID == bad.ID {
			return errors.New("disk full")
		}
		return nil
	}

	res, err := f.engine.CreateAccountingBatch(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Posted)
	assert.Equal(t, 1, res.Failed)

	rows, err := f.dists.ListUnaccounted(ctx, f.orgID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, bad.ID, rows[0].TransactionID)

	f.ledger.FailInsert = nil
	res, err = f.engine.CreateAccountingBatch(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Posted)
}

func TestEngine_RejectsConcurrentRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	release, err := f.locker.Acquire(ctx, lock.Key("sla", f.orgID))
	require.NoError(t, err)

	_, err = f.engine.CreateAccountingBatch(ctx, f.orgID)
	assert.True(t, apperror.IsConflict(err))

	require.NoError(t, release(ctx))
	_, err = f.engine.CreateAccountingBatch(ctx, f.orgID)
	assert.NoError(t, err)
}

func TestGroupByTransaction_KeepsFirstSeenOrder(t *testing.T) {
	a, b := id.New(), id.New()
	rows := []distribution.Distribution{
		{TransactionID: a, SourceType: distribution.SourceMaterial},
		{TransactionID: b, SourceType: distribution.SourceMaterial},
		{TransactionID: a, SourceType: distribution.SourceMaterial},
		{TransactionID: a, SourceType: distribution.SourceWip},
	}
	groups := groupByTransaction(rows)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0], 2)
	assert.Equal(t, b, groups[1][0].TransactionID)
	assert.Equal(t, distribution.SourceWip, groups[2][0].SourceType)
}
