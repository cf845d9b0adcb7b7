package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/domain/documents/purchaseorder"
	"costbook/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrderTable     = "po_headers"
	purchaseOrderLineTable = "po_lines"
)

// PurchaseOrderRepo implements purchaseorder.Repository over the procurement tables.
type PurchaseOrderRepo struct {
	orders postgres.Table[purchaseorder.PurchaseOrder]
	lines  postgres.Table[purchaseorder.Line]
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		orders: postgres.NewTable[purchaseorder.PurchaseOrder](txManager, purchaseOrderTable, "purchase_order"),
		lines:  postgres.NewTable[purchaseorder.Line](txManager, purchaseOrderLineTable, "purchase_order_line"),
	}
}

// GetOrder implements purchaseorder.Repository.
func (r *PurchaseOrderRepo) GetOrder(ctx context.Context, poID id.ID) (*purchaseorder.PurchaseOrder, error) {
	return r.orders.Get(ctx, r.orders.Select().Where(squirrel.Eq{"id": poID}), poID)
}

// GetLine implements purchaseorder.Repository.
func (r *PurchaseOrderRepo) GetLine(ctx context.Context, lineID id.ID) (*purchaseorder.Line, error) {
	return r.lines.Get(ctx, r.lines.Select().Where(squirrel.Eq{"id": lineID}), lineID)
}

// CreateOrder stores an order with its lines. Used by procurement imports and seeding.
func (r *PurchaseOrderRepo) CreateOrder(ctx context.Context, po *purchaseorder.PurchaseOrder, lines []purchaseorder.Line) error {
	if err := r.orders.Insert(ctx, po); err != nil {
		return err
	}
	for i := range lines {
		if err := r.lines.Insert(ctx, &lines[i]); err != nil {
			return err
		}
	}
	return nil
}
