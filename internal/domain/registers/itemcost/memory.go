package itemcost

import (
	"context"
	"sync"
	"time"

	"costbook/internal/core/types"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[Key]ItemCost
}

// NewMemoryRepository creates an empty in-memory register.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[Key]ItemCost)}
}

// GetForUpdate implements Repository.
func (r *MemoryRepository) GetForUpdate(_ context.Context, key Key) (*ItemCost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[key]
	if !ok {
		row = ItemCost{Key: key, UnitCost: types.Zero(), UpdatedAt: time.Now().UTC()}
		r.rows[key] = row
	}
	return &row, nil
}

// Get implements Repository.
func (r *MemoryRepository) Get(_ context.Context, key Key) (*ItemCost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[key]; ok {
		return &row, nil
	}
	return &ItemCost{Key: key, UnitCost: types.Zero()}, nil
}

// Upsert implements Repository.
func (r *MemoryRepository) Upsert(_ context.Context, key Key, unitCost types.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[key] = ItemCost{Key: key, UnitCost: unitCost, UpdatedAt: time.Now().UTC()}
	return nil
}

// Len returns the number of stored rows.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
