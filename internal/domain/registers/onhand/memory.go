package onhand

import (
	"context"
	"sync"
	"time"

	"costbook/internal/core/types"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[DimensionKey]*Balance
}

// NewMemoryRepository creates an empty in-memory register.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[DimensionKey]*Balance)}
}

// Apply implements Repository.
func (r *MemoryRepository) Apply(_ context.Context, dims Dimensions, delta types.Quantity) (types.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[dims.Key()]
	if !ok {
		row = &Balance{Dimensions: dims}
		r.rows[dims.Key()] = row
	}
	row.Quantity += delta
	row.UpdatedAt = time.Now().UTC()
	return row.Quantity, nil
}

// GetBalance implements Repository.
func (r *MemoryRepository) GetBalance(_ context.Context, dims Dimensions) (Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[dims.Key()]; ok {
		return *row, nil
	}
	return Balance{Dimensions: dims}, nil
}

// All returns a snapshot of every row.
func (r *MemoryRepository) All() []Balance {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Balance, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, *row)
	}
	return out
}
