// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/domain/catalogs/organization"
	"costbook/internal/infrastructure/storage/postgres"
)

const (
	inventoryOrganizationTable = "cat_inventory_organizations"
	costOrganizationTable      = "cat_cost_organizations"
	costBookTable              = "cat_cost_books"
)

// OrganizationRepo implements organization.Repository.
type OrganizationRepo struct {
	inventory postgres.Table[organization.InventoryOrganization]
	cost      postgres.Table[organization.CostOrganization]
	books     postgres.Table[organization.CostBook]
}

// NewOrganizationRepo creates a new organization repository.
func NewOrganizationRepo(txManager *postgres.TxManager) *OrganizationRepo {
	return &OrganizationRepo{
		inventory: postgres.NewTable[organization.InventoryOrganization](txManager, inventoryOrganizationTable, "inventory_organization"),
		cost:      postgres.NewTable[organization.CostOrganization](txManager, costOrganizationTable, "cost_organization"),
		books:     postgres.NewTable[organization.CostBook](txManager, costBookTable, "cost_book"),
	}
}

// Create implements organization.Repository. The caller runs it in a transaction;
// the primary book reference is checked at commit.
func (r *OrganizationRepo) Create(ctx context.Context, setup *organization.Setup) error {
	if err := r.inventory.Insert(ctx, &setup.Inventory); err != nil {
		return err
	}
	if err := r.cost.Insert(ctx, &setup.Cost); err != nil {
		return err
	}
	return r.books.Insert(ctx, &setup.Book)
}

// GetInventoryOrganization implements organization.Repository.
func (r *OrganizationRepo) GetInventoryOrganization(ctx context.Context, orgID id.ID) (*organization.InventoryOrganization, error) {
	return r.inventory.Get(ctx, r.inventory.Select().Where(squirrel.Eq{"id": orgID}), orgID)
}

// GetCostOrganization implements organization.Repository.
func (r *OrganizationRepo) GetCostOrganization(ctx context.Context, costOrgID id.ID) (*organization.CostOrganization, error) {
	return r.cost.Get(ctx, r.cost.Select().Where(squirrel.Eq{"id": costOrgID}), costOrgID)
}

// GetCostOrganizationByInventoryOrg implements organization.Repository.
func (r *OrganizationRepo) GetCostOrganizationByInventoryOrg(ctx context.Context, orgID id.ID) (*organization.CostOrganization, error) {
	q := r.cost.Select().Where(squirrel.Eq{"inventory_organization_id": orgID})
	return r.cost.Get(ctx, q, orgID)
}

// ListInventoryOrganizations implements organization.Repository.
func (r *OrganizationRepo) ListInventoryOrganizations(ctx context.Context) ([]organization.InventoryOrganization, error) {
	return r.inventory.List(ctx, r.inventory.Select().OrderBy("code"))
}
