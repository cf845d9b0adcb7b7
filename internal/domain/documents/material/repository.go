package material

import (
	"context"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain"
)

// Repository defines operations for the transaction ledger. The ledger is append-only.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error

	GetByID(ctx context.Context, txnID id.ID) (*Transaction, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[Transaction], error)

	// ListUncosted returns financial transactions without distributions ordered by
	// (transaction date, id), strictly after the cursor when given.
	ListUncosted(ctx context.Context, orgID id.ID, after *Cursor, limit int) ([]Transaction, error)

	// PendingQuantity sums the quantities of uncosted financial transactions of an item.
	PendingQuantity(ctx context.Context, orgID, itemID id.ID) (types.Quantity, error)

	// ListReceiptsBySource returns PO receipts referencing a purchase order.
	ListReceiptsBySource(ctx context.Context, purchaseOrderID id.ID) ([]Transaction, error)
}

// ListFilter narrows ledger listings.
type ListFilter struct {
	domain.ListFilter

	ItemID *id.ID
	Type   *TransactionType
}
