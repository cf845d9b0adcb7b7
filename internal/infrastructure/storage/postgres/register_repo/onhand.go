// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/registers/onhand"
	"costbook/internal/infrastructure/storage/postgres"
)

const onhandTable = "reg_onhand_balances"

// upsertBalance adds the inserted quantity to an existing row. The dimension
// columns carry a UNIQUE NULLS NOT DISTINCT constraint.
const upsertBalance = "ON CONFLICT (organization_id, item_id, subinventory_id, locator_id, lot_id, serial_id) " +
	"DO UPDATE SET quantity = " + onhandTable + ".quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at " +
	"RETURNING quantity"

// OnhandRepo implements onhand.Repository.
type OnhandRepo struct {
	balances postgres.Table[onhand.Balance]
}

// NewOnhandRepo creates a new on-hand register repository.
func NewOnhandRepo(txManager *postgres.TxManager) *OnhandRepo {
	return &OnhandRepo{
		balances: postgres.NewTable[onhand.Balance](txManager, onhandTable, "onhand_balance"),
	}
}

// Apply implements onhand.Repository.
func (r *OnhandRepo) Apply(ctx context.Context, dims onhand.Dimensions, delta types.Quantity) (types.Quantity, error) {
	q := applyQuery(dims, delta, time.Now().UTC())

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert: %w", err)
	}

	var qty int64
	if err := r.balances.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&qty); err != nil {
		return 0, fmt.Errorf("apply balance delta: %w", err)
	}
	return types.NewQuantityFromInt64Scaled(qty), nil
}

func applyQuery(dims onhand.Dimensions, delta types.Quantity, now time.Time) squirrel.InsertBuilder {
	row := onhand.Balance{Dimensions: dims, Quantity: delta, UpdatedAt: now}
	return postgres.Builder().
		Insert(onhandTable).
		SetMap(postgres.StructToMap(&row)).
		Suffix(upsertBalance)
}

// GetBalance implements onhand.Repository.
func (r *OnhandRepo) GetBalance(ctx context.Context, dims onhand.Dimensions) (onhand.Balance, error) {
	b, err := r.balances.Get(ctx, r.balances.Select().Where(dimensionsWhere(dims)), dims.Key())
	if err != nil {
		if apperror.IsNotFound(err) {
			return onhand.Balance{Dimensions: dims}, nil
		}
		return onhand.Balance{}, err
	}
	return *b, nil
}

// dimensionsWhere matches one balance row; absent optional dimensions match NULL.
func dimensionsWhere(d onhand.Dimensions) squirrel.And {
	return squirrel.And{
		squirrel.Eq{
			"organization_id": d.OrganizationID,
			"item_id":         d.ItemID,
			"subinventory_id": d.SubinventoryID,
		},
		optionalEq("locator_id", d.LocatorID),
		optionalEq("lot_id", d.LotID),
		optionalEq("serial_id", d.SerialID),
	}
}

func optionalEq(col string, v *id.ID) squirrel.Eq {
	if v == nil {
		return squirrel.Eq{col: nil}
	}
	return squirrel.Eq{col: *v}
}
