package reconciliation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/gl"
	"costbook/internal/domain/registers/itemcost"
	"costbook/internal/domain/registers/onhand"
)

type fixedBook id.ID

func (b fixedBook) PrimaryCostBookID(context.Context, id.ID) (id.ID, error) { return id.ID(b), nil }

type fixture struct {
	orgID    id.ID
	bookID   id.ID
	balances *onhand.MemoryRepository
	costs    *itemcost.MemoryRepository
	ledger   *gl.MemoryRepository
	svc      *Service
}

// registerValuation values the in-memory balances row by row at the registered
// item cost, the same sum the SQL valuation computes.
type registerValuation struct {
	balances *onhand.MemoryRepository
	costs    *itemcost.MemoryRepository
}

func (v registerValuation) InventoryValue(ctx context.Context, orgID, costBookID id.ID) (types.Money, error) {
	total := types.Zero()
	for _, b := range v.balances.All() {
		if b.OrganizationID != orgID {
			continue
		}
		c, err := v.costs.Get(ctx, itemcost.Key{OrganizationID: orgID, ItemID: b.ItemID, CostBookID: costBookID})
		if err != nil {
			return types.Zero(), err
		}
		total = total.Add(b.Quantity.Decimal().Mul(c.UnitCost))
	}
	return total, nil
}

func newFixture() *fixture {
	f := &fixture{
		orgID:    id.New(),
		bookID:   id.New(),
		balances: onhand.NewMemoryRepository(),
		costs:    itemcost.NewMemoryRepository(),
		ledger:   gl.NewMemoryRepository(),
	}
	f.svc = NewService(
		registerValuation{balances: f.balances, costs: f.costs},
		f.ledger,
		fixedBook(f.bookID),
		"1400",
		tx.Passthrough{},
	)
	return f
}

func (f *fixture) stock(t *testing.T, qty int64, cost string) {
	t.Helper()
	ctx := context.Background()
	itemID := id.New()
	_, err := f.balances.Apply(ctx, onhand.Dimensions{OrganizationID: f.orgID, ItemID: itemID, SubinventoryID: id.New()}, types.Units(qty))
	require.NoError(t, err)
	require.NoError(t, f.costs.Upsert(ctx, itemcost.Key{OrganizationID: f.orgID, ItemID: itemID, CostBookID: f.bookID}, types.MustMoney(cost)))
}

func (f *fixture) post(debit, credit, amount string) {
	m := types.MustMoney(amount)
	f.ledger.Seed(gl.Entry{
		ID:             id.New(),
		OrganizationID: f.orgID,
		DebitAccount:   debit,
		DebitAmount:    m,
		CreditAccount:  credit,
		CreditAmount:   m,
	})
}

func TestReconcileInventory(t *testing.T) {
	tests := []struct {
		name     string
		gl       []string
		status   Status
		variance string
	}{
		{"match", []string{"1000"}, StatusMatch, "0"},
		{"variance", []string{"950"}, StatusVariance, "50"},
		{"within tolerance", []string{"999.995"}, StatusMatch, "0.005"},
		{"gl ahead", []string{"600", "400", "10"}, StatusVariance, "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.stock(t, 50, "12")
			f.stock(t, 100, "4")
			for _, amount := range tt.gl {
				f.post("1400", "2100", amount)
			}
			f.post("5000", "2100", "77")

			res, err := f.svc.ReconcileInventory(context.Background(), f.orgID)
			require.NoError(t, err)
			assert.True(t, res.SubledgerValue.Equal(types.MustMoney("1000")), res.SubledgerValue.String())
			assert.Equal(t, tt.status, res.Status)
			assert.True(t, res.Variance.Equal(types.MustMoney(tt.variance)), res.Variance.String())
		})
	}
}

func TestReconcileInventory_CreditsReduceGLValue(t *testing.T) {
	f := newFixture()
	f.stock(t, 10, "10")
	f.post("1400", "2100", "150")
	f.post("5000", "1400", "50")

	res, err := f.svc.ReconcileInventory(context.Background(), f.orgID)
	require.NoError(t, err)
	assert.True(t, res.GLValue.Equal(types.MustMoney("100")))
	assert.Equal(t, StatusMatch, res.Status)
}

func TestReconcileInventory_CustomTolerance(t *testing.T) {
	f := newFixture()
	f.svc.WithTolerance(types.MustMoney("5"))
	f.stock(t, 10, "10")
	f.post("1400", "2100", "97")

	res, err := f.svc.ReconcileInventory(context.Background(), f.orgID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatch, res.Status)
	assert.True(t, res.Variance.Equal(types.MustMoney("3")))
}
