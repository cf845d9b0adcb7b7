// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/documents/material"
	"costbook/internal/infrastructure/storage/postgres"
)

const (
	materialTable     = "inv_material_transactions"
	distributionTable = "cst_distributions"
)

// MaterialRepo implements material.Repository. The ledger is insert-only.
type MaterialRepo struct {
	txns postgres.Table[material.Transaction]
}

// NewMaterialRepo creates a new material transaction repository.
func NewMaterialRepo(txManager *postgres.TxManager) *MaterialRepo {
	return &MaterialRepo{
		txns: postgres.NewTable[material.Transaction](txManager, materialTable, "material_transaction"),
	}
}

// Create implements material.Repository.
func (r *MaterialRepo) Create(ctx context.Context, txn *material.Transaction) error {
	return r.txns.Insert(ctx, txn)
}

// GetByID implements material.Repository.
func (r *MaterialRepo) GetByID(ctx context.Context, txnID id.ID) (*material.Transaction, error) {
	return r.txns.Get(ctx, r.txns.Select().Where(squirrel.Eq{"id": txnID}), txnID)
}

// List implements material.Repository.
func (r *MaterialRepo) List(ctx context.Context, filter material.ListFilter) (domain.ListResult[material.Transaction], error) {
	filter.Normalize()
	result := domain.ListResult[material.Transaction]{Limit: filter.Limit, Offset: filter.Offset}

	q := r.txns.Select().Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"transaction_type": *filter.Type})
	}

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.txns.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("transaction_date", "id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	result.Items, err = r.txns.List(ctx, q)
	return result, err
}

// uncosted selects financial transactions no distribution references yet.
func (r *MaterialRepo) uncosted(orgID id.ID) squirrel.And {
	return squirrel.And{
		squirrel.Eq{"t.organization_id": orgID, "t.transaction_type": material.FinancialTypes()},
		squirrel.Expr("NOT EXISTS (SELECT 1 FROM "+distributionTable+" d WHERE d.source_type = ? AND d.transaction_id = t.id)",
			distribution.SourceMaterial),
	}
}

func (r *MaterialRepo) uncostedQuery(orgID id.ID, after *material.Cursor, limit int) squirrel.SelectBuilder {
	q := r.txns.Select().
		From(materialTable + " t").
		Where(r.uncosted(orgID))
	if after != nil {
		q = q.Where(squirrel.Expr("(t.transaction_date, t.id) > (?, ?)", after.Date, after.ID))
	}
	return q.OrderBy("t.transaction_date", "t.id").Limit(uint64(limit))
}

// ListUncosted implements material.Repository.
func (r *MaterialRepo) ListUncosted(ctx context.Context, orgID id.ID, after *material.Cursor, limit int) ([]material.Transaction, error) {
	return r.txns.List(ctx, r.uncostedQuery(orgID, after, limit))
}

// PendingQuantity implements material.Repository.
func (r *MaterialRepo) PendingQuantity(ctx context.Context, orgID, itemID id.ID) (types.Quantity, error) {
	q := postgres.Builder().
		Select("COALESCE(SUM(t.quantity), 0)").
		From(materialTable + " t").
		Where(r.uncosted(orgID)).
		Where(squirrel.Eq{"t.item_id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var sum int64
	if err := r.txns.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("pending quantity: %w", err)
	}
	return types.NewQuantityFromInt64Scaled(sum), nil
}

// ListReceiptsBySource implements material.Repository.
func (r *MaterialRepo) ListReceiptsBySource(ctx context.Context, purchaseOrderID id.ID) ([]material.Transaction, error) {
	q := r.txns.Select().
		Where(squirrel.Eq{"transaction_type": material.TypePOReceipt, "source_document_id": purchaseOrderID}).
		OrderBy("transaction_date", "id")
	return r.txns.List(ctx, q)
}
