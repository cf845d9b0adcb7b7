package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/infrastructure/storage/postgres"
)

// ValuationRepo computes the subledger inventory value in one query:
// on-hand quantity times the current unit cost of the cost book.
// Implements reconciliation.Valuation.
type ValuationRepo struct {
	txManager *postgres.TxManager
}

// NewValuationRepo creates a new valuation query.
func NewValuationRepo(txManager *postgres.TxManager) *ValuationRepo {
	return &ValuationRepo{txManager: txManager}
}

// InventoryValue returns sum(quantity * unit cost) over the organization's
// balances. Quantities are stored scaled by types.QuantityScale.
func (r *ValuationRepo) InventoryValue(ctx context.Context, orgID, costBookID id.ID) (types.Money, error) {
	sql, args, err := valuationQuery(orgID, costBookID).ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var value types.Money
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&value); err != nil {
		return types.Zero(), fmt.Errorf("inventory value: %w", err)
	}
	return value, nil
}

func valuationQuery(orgID, costBookID id.ID) squirrel.SelectBuilder {
	return postgres.Builder().
		Select().
		Column(squirrel.Expr("COALESCE(SUM(b.quantity::numeric / ? * COALESCE(c.unit_cost, 0)), 0)", types.QuantityScale)).
		From("reg_onhand_balances b").
		LeftJoin("reg_item_costs c ON c.organization_id = b.organization_id AND c.item_id = b.item_id AND c.cost_book_id = ?", costBookID).
		Where(squirrel.Eq{"b.organization_id": orgID})
}
