package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/domain/catalogs/subinventory"
	"costbook/internal/infrastructure/storage/postgres"
)

const (
	subinventoryTable = "cat_subinventories"
	locatorTable      = "cat_locators"
)

// SubinventoryRepo implements subinventory.Repository.
type SubinventoryRepo struct {
	subinventories postgres.Table[subinventory.Subinventory]
	locators       postgres.Table[subinventory.Locator]
}

// NewSubinventoryRepo creates a new subinventory repository.
func NewSubinventoryRepo(txManager *postgres.TxManager) *SubinventoryRepo {
	return &SubinventoryRepo{
		subinventories: postgres.NewTable[subinventory.Subinventory](txManager, subinventoryTable, "subinventory"),
		locators:       postgres.NewTable[subinventory.Locator](txManager, locatorTable, "locator"),
	}
}

// Create implements subinventory.Repository.
func (r *SubinventoryRepo) Create(ctx context.Context, sub *subinventory.Subinventory) error {
	return r.subinventories.Insert(ctx, sub)
}

// CreateLocator implements subinventory.Repository.
func (r *SubinventoryRepo) CreateLocator(ctx context.Context, loc *subinventory.Locator) error {
	return r.locators.Insert(ctx, loc)
}

// Exists implements subinventory.Repository.
func (r *SubinventoryRepo) Exists(ctx context.Context, orgID, subinventoryID id.ID) (bool, error) {
	return r.subinventories.Exists(ctx, squirrel.Eq{"id": subinventoryID, "organization_id": orgID})
}

// LocatorExists implements subinventory.Repository.
func (r *SubinventoryRepo) LocatorExists(ctx context.Context, subinventoryID, locatorID id.ID) (bool, error) {
	return r.locators.Exists(ctx, squirrel.Eq{"id": locatorID, "subinventory_id": subinventoryID})
}
