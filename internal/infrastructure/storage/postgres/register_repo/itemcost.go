package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/apperror"
	"costbook/internal/core/types"
	"costbook/internal/domain/registers/itemcost"
	"costbook/internal/infrastructure/storage/postgres"
)

const itemCostTable = "reg_item_costs"

const itemCostConflict = "ON CONFLICT (organization_id, item_id, cost_book_id) "

// ItemCostRepo implements itemcost.Repository.
type ItemCostRepo struct {
	costs postgres.Table[itemcost.ItemCost]
}

// NewItemCostRepo creates a new item cost register repository.
func NewItemCostRepo(txManager *postgres.TxManager) *ItemCostRepo {
	return &ItemCostRepo{
		costs: postgres.NewTable[itemcost.ItemCost](txManager, itemCostTable, "item_cost"),
	}
}

// GetForUpdate implements itemcost.Repository. A missing row is inserted at zero
// cost first so the lock always has a row to hold.
func (r *ItemCostRepo) GetForUpdate(ctx context.Context, key itemcost.Key) (*itemcost.ItemCost, error) {
	seed := itemcost.ItemCost{Key: key, UnitCost: types.Zero(), UpdatedAt: time.Now().UTC()}
	ins := postgres.Builder().
		Insert(itemCostTable).
		SetMap(postgres.StructToMap(&seed)).
		Suffix(itemCostConflict + "DO NOTHING")
	if _, err := r.costs.Exec(ctx, ins); err != nil {
		return nil, fmt.Errorf("seed item cost: %w", err)
	}

	return r.costs.Get(ctx, r.byKey(key).Suffix("FOR UPDATE"), key)
}

// Get implements itemcost.Repository.
func (r *ItemCostRepo) Get(ctx context.Context, key itemcost.Key) (*itemcost.ItemCost, error) {
	row, err := r.costs.Get(ctx, r.byKey(key), key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return &itemcost.ItemCost{Key: key, UnitCost: types.Zero()}, nil
		}
		return nil, err
	}
	return row, nil
}

// Upsert implements itemcost.Repository.
func (r *ItemCostRepo) Upsert(ctx context.Context, key itemcost.Key, unitCost types.Money) error {
	row := itemcost.ItemCost{Key: key, UnitCost: unitCost, UpdatedAt: time.Now().UTC()}
	q := postgres.Builder().
		Insert(itemCostTable).
		SetMap(postgres.StructToMap(&row)).
		Suffix(itemCostConflict + "DO UPDATE SET unit_cost = EXCLUDED.unit_cost, updated_at = EXCLUDED.updated_at")

	if _, err := r.costs.Exec(ctx, q); err != nil {
		return fmt.Errorf("upsert item cost: %w", err)
	}
	return nil
}

func (r *ItemCostRepo) byKey(key itemcost.Key) squirrel.SelectBuilder {
	return r.costs.Select().Where(squirrel.Eq{
		"organization_id": key.OrganizationID,
		"item_id":         key.ItemID,
		"cost_book_id":    key.CostBookID,
	})
}
