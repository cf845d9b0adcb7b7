package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/domain/wip"
	"costbook/internal/infrastructure/storage/postgres"
)

const (
	workOrderTable      = "wip_work_orders"
	wipTransactionTable = "wip_transactions"
)

// WipRepo implements wip.Repository.
type WipRepo struct {
	orders postgres.Table[wip.WorkOrder]
	txns   postgres.Table[wip.Transaction]
}

// NewWipRepo creates a new work order repository.
func NewWipRepo(txManager *postgres.TxManager) *WipRepo {
	return &WipRepo{
		orders: postgres.NewTable[wip.WorkOrder](txManager, workOrderTable, "work_order"),
		txns:   postgres.NewTable[wip.Transaction](txManager, wipTransactionTable, "wip_transaction"),
	}
}

// CreateWorkOrder implements wip.Repository.
func (r *WipRepo) CreateWorkOrder(ctx context.Context, wo *wip.WorkOrder) error {
	return r.orders.Insert(ctx, wo)
}

// GetWorkOrder implements wip.Repository.
func (r *WipRepo) GetWorkOrder(ctx context.Context, workOrderID id.ID) (*wip.WorkOrder, error) {
	return r.orders.Get(ctx, r.orders.Select().Where(squirrel.Eq{"id": workOrderID}), workOrderID)
}

// InsertTransaction implements wip.Repository.
func (r *WipRepo) InsertTransaction(ctx context.Context, txn *wip.Transaction) error {
	return r.txns.Insert(ctx, txn)
}

// ListTransactions implements wip.Repository.
func (r *WipRepo) ListTransactions(ctx context.Context, workOrderID id.ID) ([]wip.Transaction, error) {
	q := r.txns.Select().
		Where(squirrel.Eq{"work_order_id": workOrderID}).
		OrderBy("transaction_date", "id")
	return r.txns.List(ctx, q)
}
