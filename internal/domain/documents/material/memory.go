package material

import (
	"context"
	"sort"
	"sync"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu   sync.Mutex
	txns []Transaction

	// HasDistributions reports whether a transaction is already costed.
	// When nil, deferred transactions count as uncosted.
	HasDistributions func(txnID id.ID) bool
}

// NewMemoryRepository creates an empty in-memory ledger.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create implements Repository.
func (r *MemoryRepository) Create(_ context.Context, txn *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append(r.txns, *txn)
	return nil
}

// GetByID implements Repository.
func (r *MemoryRepository) GetByID(_ context.Context, txnID id.ID) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.txns {
		if t.ID == txnID {
			return &t, nil
		}
	}
	return nil, apperror.NewNotFound("material_transaction", txnID)
}

// List implements Repository.
func (r *MemoryRepository) List(_ context.Context, filter ListFilter) (domain.ListResult[Transaction], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []Transaction
	for _, t := range r.txns {
		if t.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.ItemID != nil && t.ItemID != *filter.ItemID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		matched = append(matched, t)
	}

	res := domain.ListResult[Transaction]{TotalCount: int64(len(matched)), Limit: filter.Limit, Offset: filter.Offset}
	if filter.Offset < len(matched) {
		end := min(filter.Offset+filter.Limit, len(matched))
		res.Items = matched[filter.Offset:end]
	}
	return res, nil
}

func (r *MemoryRepository) uncosted(t Transaction) bool {
	if !t.Type.IsFinancial() {
		return false
	}
	if r.HasDistributions != nil {
		return !r.HasDistributions(t.ID)
	}
	return t.CostingDeferred
}

// ListUncosted implements Repository.
func (r *MemoryRepository) ListUncosted(_ context.Context, orgID id.ID, after *Cursor, limit int) ([]Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Transaction
	for _, t := range r.txns {
		if t.OrganizationID == orgID && r.uncosted(t) && after.After(&t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		return id.Less(out[i].ID, out[j].ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PendingQuantity implements Repository.
func (r *MemoryRepository) PendingQuantity(_ context.Context, orgID, itemID id.ID) (types.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum types.Quantity
	for _, t := range r.txns {
		if t.OrganizationID == orgID && t.ItemID == itemID && r.uncosted(t) {
			sum += t.Quantity
		}
	}
	return sum, nil
}

// ListReceiptsBySource implements Repository.
func (r *MemoryRepository) ListReceiptsBySource(_ context.Context, purchaseOrderID id.ID) ([]Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Transaction
	for _, t := range r.txns {
		if t.Type == TypePOReceipt && t.DocumentID != nil && *t.DocumentID == purchaseOrderID {
			out = append(out, t)
		}
	}
	return out, nil
}

// All returns a snapshot of the ledger in insertion order.
func (r *MemoryRepository) All() []Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Transaction(nil), r.txns...)
}
