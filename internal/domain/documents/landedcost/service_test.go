package landedcost

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/documents/material"
)

type memoryCharges struct {
	charges []Charge
}

func (m *memoryCharges) CreateCharge(_ context.Context, c *Charge) error {
	m.charges = append(m.charges, *c)
	return nil
}

func (m *memoryCharges) ListCharges(_ context.Context, poID id.ID) ([]Charge, error) {
	var out []Charge
	for _, c := range m.charges {
		if c.PurchaseOrderID == poID {
			out = append(out, c)
		}
	}
	return out, nil
}

func receiptTxn(poID id.ID, qty types.Quantity, cost string) *material.Transaction {
	c := types.MustMoney(cost)
	return &material.Transaction{
		Base:            entity.NewBase(),
		OrganizationID:  id.New(),
		ItemID:          id.New(),
		Type:            material.TypePOReceipt,
		Quantity:        qty,
		TransactionDate: time.Now().UTC(),
		SourceDocument:  material.SourceDocument{DocumentType: "PO", DocumentID: &poID},
		UnitCost:        &c,
	}
}

func TestService_AllocateChargesToReceipt(t *testing.T) {
	ctx := context.Background()
	poID := id.New()

	ledger := material.NewMemoryRepository()
	first := receiptTxn(poID, types.Units(10), "4.00")
	second := receiptTxn(poID, types.Units(10), "4.00")
	require.NoError(t, ledger.Create(ctx, first))
	require.NoError(t, ledger.Create(ctx, second))
	require.NoError(t, ledger.Create(ctx, receiptTxn(id.New(), types.Units(99), "1.00")))

	svc := NewService(&memoryCharges{}, NewLedgerReceipts(ledger), tx.Passthrough{})
	require.NoError(t, svc.AddCharge(ctx, &Charge{PurchaseOrderID: poID, ChargeType: ChargeFreight, Amount: types.MustMoney("50"), Basis: BasisQuantity}))
	require.NoError(t, svc.AddCharge(ctx, &Charge{PurchaseOrderID: poID, ChargeType: ChargeDuty, Amount: types.MustMoney("20"), Basis: BasisValue}))

	alloc, err := svc.AllocateChargesToReceipt(ctx, poID)
	require.NoError(t, err)
	require.Len(t, alloc, 2)
	assert.True(t, alloc[first.ID].Equal(types.MustMoney("35")), alloc[first.ID].String())
	assert.True(t, alloc[second.ID].Equal(types.MustMoney("35")), alloc[second.ID].String())
}

func TestAllocate_RemainderGoesToLastLine(t *testing.T) {
	lines := []ReceiptLine{
		{ID: id.New(), Quantity: types.Units(1), UnitPrice: types.MustMoney("1")},
		{ID: id.New(), Quantity: types.Units(1), UnitPrice: types.MustMoney("1")},
		{ID: id.New(), Quantity: types.Units(1), UnitPrice: types.MustMoney("1")},
	}
	charges := []Charge{{ID: id.New(), Amount: types.MustMoney("100"), Basis: BasisQuantity}}

	alloc, err := Allocate(charges, lines)
	require.NoError(t, err)

	assert.True(t, alloc[lines[0].ID].Equal(types.MustMoney("33.33")))
	assert.True(t, alloc[lines[1].ID].Equal(types.MustMoney("33.33")))
	assert.True(t, alloc[lines[2].ID].Equal(types.MustMoney("33.34")))

	total := types.Zero()
	for _, v := range alloc {
		total = total.Add(v)
	}
	assert.True(t, total.Equal(types.MustMoney("100")))
}

func TestAllocate_ZeroBasis(t *testing.T) {
	lines := []ReceiptLine{{ID: id.New(), Quantity: types.Units(5), UnitPrice: types.Zero()}}
	_, err := Allocate([]Charge{{ID: id.New(), Amount: types.MustMoney("10"), Basis: BasisValue}}, lines)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestCharge_Validate(t *testing.T) {
	ctx := context.Background()
	c := Charge{ChargeType: "BRIBE", Basis: BasisQuantity}
	assert.True(t, apperror.IsValidation(c.Validate(ctx)))

	c = Charge{ChargeType: ChargeHandling, Basis: "WEIGHT"}
	assert.True(t, apperror.IsValidation(c.Validate(ctx)))

	c = Charge{ChargeType: ChargeHandling, Basis: BasisValue, Amount: types.MustMoney("-1")}
	assert.True(t, apperror.IsValidation(c.Validate(ctx)))
}
