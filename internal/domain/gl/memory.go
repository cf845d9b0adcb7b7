package gl

import (
	"context"
	"sync"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// MemoryRepository is an in-process Repository used by service tests.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []Entry

	// FailInsert, when set, is returned by Insert for matching transactions.
	FailInsert func(e Entry) error
}

// NewMemoryRepository creates an empty in-memory ledger.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert implements Repository.
func (r *MemoryRepository) Insert(_ context.Context, entries []Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailInsert != nil {
		for _, e := range entries {
			if err := r.FailInsert(e); err != nil {
				return err
			}
		}
	}
	r.entries = append(r.entries, entries...)
	return nil
}

// AccountNet implements Repository.
func (r *MemoryRepository) AccountNet(_ context.Context, orgID id.ID, account string) (types.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	net := types.Zero()
	for _, e := range r.entries {
		if e.OrganizationID != orgID {
			continue
		}
		if e.DebitAccount == account {
			net = net.Add(e.DebitAmount)
		}
		if e.CreditAccount == account {
			net = net.Sub(e.CreditAmount)
		}
	}
	return net, nil
}

// List implements Repository.
func (r *MemoryRepository) List(_ context.Context, filter Filter) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, e := range r.entries {
		if e.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.TransactionID != nil && e.TransactionID != *filter.TransactionID {
			continue
		}
		if filter.Account != "" && e.DebitAccount != filter.Account && e.CreditAccount != filter.Account {
			continue
		}
		if filter.From != nil && e.AccountingDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.AccountingDate.After(*filter.To) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Seed appends entries directly, bypassing the accounting batch.
func (r *MemoryRepository) Seed(entries ...Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
}
