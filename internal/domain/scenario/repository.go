package scenario

import (
	"context"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Repository defines operations for scenario storage.
type Repository interface {
	Create(ctx context.Context, s *Scenario) error
	GetByID(ctx context.Context, scenarioID id.ID) (*Scenario, error)

	// GetForUpdate locks the scenario row.
	GetForUpdate(ctx context.Context, scenarioID id.ID) (*Scenario, error)

	// UpdateType persists the type, effective date and audit fields.
	UpdateType(ctx context.Context, s *Scenario) error

	// ArchiveCurrent moves every Current scenario of the cost organization other
	// than exceptID to Historical and returns how many were archived.
	ArchiveCurrent(ctx context.Context, costOrgID, exceptID id.ID) (int64, error)

	// FindCurrent returns the Current scenario of a cost organization, or NotFound.
	FindCurrent(ctx context.Context, costOrgID id.ID) (*Scenario, error)

	ListByCostOrganization(ctx context.Context, costOrgID id.ID) ([]Scenario, error)

	// UpsertStandardCost sets the cost of one (scenario, item, element).
	UpsertStandardCost(ctx context.Context, cost *StandardCost) error

	// SumStandardCosts returns the standard cost per item, summed over elements.
	SumStandardCosts(ctx context.Context, scenarioID id.ID) (map[id.ID]types.Money, error)

	// ItemStandardCost returns the summed standard cost of one item and whether
	// the scenario defines any element for it.
	ItemStandardCost(ctx context.Context, scenarioID, itemID id.ID) (types.Money, bool, error)
}
