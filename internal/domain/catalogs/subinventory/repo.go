package subinventory

import (
	"context"

	"costbook/internal/core/id"
)

// Repository defines the interface for subinventory storage.
type Repository interface {
	Create(ctx context.Context, sub *Subinventory) error
	CreateLocator(ctx context.Context, loc *Locator) error

	// Exists reports whether the subinventory belongs to orgID.
	Exists(ctx context.Context, orgID, subinventoryID id.ID) (bool, error)

	// LocatorExists reports whether the locator belongs to the subinventory.
	LocatorExists(ctx context.Context, subinventoryID, locatorID id.ID) (bool, error)
}
