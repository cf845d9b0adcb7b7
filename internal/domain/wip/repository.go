package wip

import (
	"context"

	"costbook/internal/core/id"
)

// Repository defines operations for work order and WIP transaction storage.
type Repository interface {
	CreateWorkOrder(ctx context.Context, wo *WorkOrder) error
	GetWorkOrder(ctx context.Context, workOrderID id.ID) (*WorkOrder, error)
	InsertTransaction(ctx context.Context, txn *Transaction) error
	ListTransactions(ctx context.Context, workOrderID id.ID) ([]Transaction, error)
}
