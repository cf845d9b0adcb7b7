package wip

import (
	"context"
	"sync"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// MemoryRepository is an in-process Repository used by service tests.
type MemoryRepository struct {
	mu     sync.Mutex
	orders map[id.ID]WorkOrder
	txns   []Transaction
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[id.ID]WorkOrder)}
}

// CreateWorkOrder implements Repository.
func (r *MemoryRepository) CreateWorkOrder(_ context.Context, wo *WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[wo.ID] = *wo
	return nil
}

// GetWorkOrder implements Repository.
func (r *MemoryRepository) GetWorkOrder(_ context.Context, workOrderID id.ID) (*WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wo, ok := r.orders[workOrderID]
	if !ok {
		return nil, apperror.NewNotFound("work_order", workOrderID)
	}
	return &wo, nil
}

// InsertTransaction implements Repository.
func (r *MemoryRepository) InsertTransaction(_ context.Context, txn *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append(r.txns, *txn)
	return nil
}

// ListTransactions implements Repository.
func (r *MemoryRepository) ListTransactions(_ context.Context, workOrderID id.ID) ([]Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Transaction
	for _, t := range r.txns {
		if t.WorkOrderID == workOrderID {
			out = append(out, t)
		}
	}
	return out, nil
}

// SetStatus changes a work order's status.
func (r *MemoryRepository) SetStatus(workOrderID id.ID, status WorkOrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wo, ok := r.orders[workOrderID]; ok {
		wo.Status = status
		r.orders[workOrderID] = wo
	}
}
