package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/domain/documents/landedcost"
	"costbook/internal/infrastructure/storage/postgres"
)

const landedCostChargeTable = "lc_charges"

// LandedCostRepo implements landedcost.Repository.
type LandedCostRepo struct {
	charges postgres.Table[landedcost.Charge]
}

// NewLandedCostRepo creates a new landed cost charge repository.
func NewLandedCostRepo(txManager *postgres.TxManager) *LandedCostRepo {
	return &LandedCostRepo{
		charges: postgres.NewTable[landedcost.Charge](txManager, landedCostChargeTable, "landed_cost_charge"),
	}
}

// CreateCharge implements landedcost.Repository.
func (r *LandedCostRepo) CreateCharge(ctx context.Context, charge *landedcost.Charge) error {
	return r.charges.Insert(ctx, charge)
}

// ListCharges implements landedcost.Repository.
func (r *LandedCostRepo) ListCharges(ctx context.Context, purchaseOrderID id.ID) ([]landedcost.Charge, error) {
	q := r.charges.Select().
		Where(squirrel.Eq{"purchase_order_id": purchaseOrderID}).
		OrderBy("id")
	return r.charges.List(ctx, q)
}
