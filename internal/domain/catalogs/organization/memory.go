package organization

import (
	"context"
	"sync"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu    sync.Mutex
	inv   map[id.ID]InventoryOrganization
	cost  map[id.ID]CostOrganization
	books map[id.ID]CostBook
}

// NewMemoryRepository creates an empty in-memory catalog.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		inv:   make(map[id.ID]InventoryOrganization),
		cost:  make(map[id.ID]CostOrganization),
		books: make(map[id.ID]CostBook),
	}
}

// Create implements Repository.
func (r *MemoryRepository) Create(_ context.Context, setup *Setup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inv[setup.Inventory.ID] = setup.Inventory
	r.cost[setup.Cost.ID] = setup.Cost
	r.books[setup.Book.ID] = setup.Book
	return nil
}

// GetInventoryOrganization implements Repository.
func (r *MemoryRepository) GetInventoryOrganization(_ context.Context, orgID id.ID) (*InventoryOrganization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, ok := r.inv[orgID]
	if !ok {
		return nil, apperror.NewNotFound("inventory_organization", orgID)
	}
	return &org, nil
}

// GetCostOrganization implements Repository.
func (r *MemoryRepository) GetCostOrganization(_ context.Context, costOrgID id.ID) (*CostOrganization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, ok := r.cost[costOrgID]
	if !ok {
		return nil, apperror.NewNotFound("cost_organization", costOrgID)
	}
	return &org, nil
}

// GetCostOrganizationByInventoryOrg implements Repository.
func (r *MemoryRepository) GetCostOrganizationByInventoryOrg(_ context.Context, orgID id.ID) (*CostOrganization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, org := range r.cost {
		if org.InventoryOrganizationID == orgID {
			return &org, nil
		}
	}
	return nil, apperror.NewNotFound("cost_organization", orgID)
}

// ListInventoryOrganizations implements Repository.
func (r *MemoryRepository) ListInventoryOrganizations(_ context.Context) ([]InventoryOrganization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]InventoryOrganization, 0, len(r.inv))
	for _, org := range r.inv {
		out = append(out, org)
	}
	return out, nil
}
