package subinventory

import (
	"context"
	"sync"

	"costbook/internal/core/id"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu       sync.Mutex
	subs     map[id.ID]Subinventory
	locators map[id.ID]Locator
}

// NewMemoryRepository creates an empty in-memory catalog.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		subs:     make(map[id.ID]Subinventory),
		locators: make(map[id.ID]Locator),
	}
}

// Create implements Repository.
func (r *MemoryRepository) Create(_ context.Context, sub *Subinventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID] = *sub
	return nil
}

// CreateLocator implements Repository.
func (r *MemoryRepository) CreateLocator(_ context.Context, loc *Locator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locators[loc.ID] = *loc
	return nil
}

// Exists implements Repository.
func (r *MemoryRepository) Exists(_ context.Context, orgID, subinventoryID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[subinventoryID]
	return ok && sub.OrganizationID == orgID, nil
}

// LocatorExists implements Repository.
func (r *MemoryRepository) LocatorExists(_ context.Context, subinventoryID, locatorID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locators[locatorID]
	return ok && loc.SubinventoryID == subinventoryID, nil
}
