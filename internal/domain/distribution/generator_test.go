package distribution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/documents/material"
)

func testChart() Chart {
	return Chart{
		LineInventoryValuation:  "1400",
		LineReceivingAccrual:    "2100",
		LineInventoryAdjustment: "5300",
		LineCOGS:                "5000",
		LineWipMaterial:         "1410",
		LineWipResource:         "1410",
		LineResourceAbsorption:  "5900",
	}
}

func newTxn(typ material.TransactionType, qty types.Quantity) *material.Transaction {
	return &material.Transaction{
		Base:            entity.NewBase(),
		OrganizationID:  id.New(),
		ItemID:          id.New(),
		Type:            typ,
		Quantity:        qty,
		TransactionDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerator_CreateReceiptDistributions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	g := NewGenerator(repo, testChart(), "USD")

	txn := newTxn(material.TypePOReceipt, types.Units(10))
	require.NoError(t, g.CreateReceiptDistributions(ctx, txn, types.MustMoney("12.345678")))

	rows := repo.All()
	require.Len(t, rows, 2)

	debit, credit := rows[0], rows[1]
	assert.Equal(t, RoleDebit, debit.LegRole)
	assert.Equal(t, "1400", debit.AccountCode)
	assert.Equal(t, RoleCredit, credit.LegRole)
	assert.Equal(t, "2100", credit.AccountCode)

	for _, d := range rows {
		assert.True(t, d.Amount.Equal(types.MustMoney("123.46")), d.Amount.String())
		assert.False(t, d.Accounted)
		assert.Equal(t, StatusDraft, d.Status)
		assert.Equal(t, txn.ID, d.TransactionID)
		assert.Equal(t, "USD", d.Currency)
		assert.Equal(t, txn.TransactionDate, d.AccountingDate)
	}

	err := g.CreateReceiptDistributions(ctx, newTxn(material.TypeMiscReceipt, types.Units(1)), types.MustMoney("1"))
	assert.True(t, apperror.IsValidation(err))
}

func TestGenerator_BuildMaterial_Rules(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(NewMemoryRepository(), testChart(), "USD")

	tests := []struct {
		typ           material.TransactionType
		qty           types.Quantity
		debit, credit string
	}{
		{material.TypeMiscReceipt, types.Units(2), "1400", "5300"},
		{material.TypeMiscIssue, types.Units(-2), "5300", "1400"},
		{material.TypeSalesOrderIssue, types.Units(-2), "5000", "1400"},
		{material.TypeReturnToVendor, types.Units(-2), "2100", "1400"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			rows, err := g.BuildMaterial(ctx, newTxn(tt.typ, tt.qty), types.MustMoney("4.50"))
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, tt.debit, rows[0].AccountCode)
			assert.Equal(t, tt.credit, rows[1].AccountCode)
			assert.True(t, rows[0].Amount.Equal(types.MustMoney("9.00")))
			assert.True(t, rows[0].Amount.Equal(rows[1].Amount))
		})
	}

	rows, err := g.BuildMaterial(ctx, newTxn(material.TypeSubinvTransfer, types.Units(-2)), types.MustMoney("4.50"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGenerator_WipDistributionAndOffset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	g := NewGenerator(repo, testChart(), "USD")

	debit, err := g.CreateWipDistribution(ctx, WipCharge{
		OrganizationID: id.New(),
		TransactionID:  id.New(),
		LineType:       LineWipResource,
		Amount:         types.MustMoney("37.5"),
		Date:           time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, RoleDebit, debit.LegRole)
	assert.True(t, NeedsOffset([]Distribution{*debit}))

	offset, err := g.BuildOffset(ctx, debit)
	require.NoError(t, err)
	assert.Equal(t, RoleCredit, offset.LegRole)
	assert.Equal(t, "5900", offset.AccountCode)
	assert.Equal(t, debit.TransactionID, offset.TransactionID)
	assert.NotEqual(t, debit.ID, offset.ID)
	assert.True(t, offset.Amount.Equal(debit.Amount))

	_, err = g.CreateWipDistribution(ctx, WipCharge{LineType: LineCOGS})
	assert.True(t, apperror.IsValidation(err))
}

func TestChart_MissingAccount(t *testing.T) {
	_, err := Chart{}.AccountFor(context.Background(), id.New(), LineCOGS)
	assert.True(t, apperror.IsInvalidState(err))
}
