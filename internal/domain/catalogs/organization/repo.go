package organization

import (
	"context"

	"costbook/internal/core/id"
)

// Repository defines the interface for organization storage.
type Repository interface {
	// Create inserts the inventory organization, its cost organization and cost book
	Create(ctx context.Context, setup *Setup) error

	GetInventoryOrganization(ctx context.Context, orgID id.ID) (*InventoryOrganization, error)

	// GetCostOrganization returns the cost organization by its own id
	GetCostOrganization(ctx context.Context, costOrgID id.ID) (*CostOrganization, error)

	// GetCostOrganizationByInventoryOrg resolves the 1:1 cost organization
	GetCostOrganizationByInventoryOrg(ctx context.Context, orgID id.ID) (*CostOrganization, error)

	ListInventoryOrganizations(ctx context.Context) ([]InventoryOrganization, error)
}
