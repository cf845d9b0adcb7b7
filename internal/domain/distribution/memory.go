package distribution

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"costbook/internal/core/id"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu   sync.Mutex
	rows []Distribution
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert implements Repository.
func (r *MemoryRepository) Insert(_ context.Context, rows []Distribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, rows...)
	return nil
}

// ListUnaccounted implements Repository.
func (r *MemoryRepository) ListUnaccounted(_ context.Context, orgID id.ID) ([]Distribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Distribution
	for _, d := range r.rows {
		if d.OrganizationID == orgID && !d.Accounted {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SourceType != out[j].SourceType {
			return out[i].SourceType < out[j].SourceType
		}
		if c := bytes.Compare(out[i].TransactionID[:], out[j].TransactionID[:]); c != 0 {
			return c < 0
		}
		return id.Less(out[i].ID, out[j].ID)
	})
	return out, nil
}

// MarkAccounted implements Repository.
func (r *MemoryRepository) MarkAccounted(_ context.Context, ids []id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[id.ID]struct{}, len(ids))
	for _, v := range ids {
		want[v] = struct{}{}
	}

	var n int64
	for i := range r.rows {
		if _, ok := want[r.rows[i].ID]; ok && !r.rows[i].Accounted {
			r.rows[i].Accounted = true
			r.rows[i].Status = StatusAccounted
			n++
		}
	}
	return n, nil
}

// ListByTransaction implements Repository.
func (r *MemoryRepository) ListByTransaction(_ context.Context, sourceType SourceType, txnID id.ID) ([]Distribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Distribution
	for _, d := range r.rows {
		if d.SourceType == sourceType && d.TransactionID == txnID {
			out = append(out, d)
		}
	}
	return out, nil
}

// HasDistributions reports whether any material distribution references txnID.
func (r *MemoryRepository) HasDistributions(txnID id.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.rows {
		if d.SourceType == SourceMaterial && d.TransactionID == txnID {
			return true
		}
	}
	return false
}

// All returns a snapshot of every row.
func (r *MemoryRepository) All() []Distribution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Distribution(nil), r.rows...)
}
