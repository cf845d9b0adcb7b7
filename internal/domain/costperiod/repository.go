package costperiod

import (
	"context"
	"time"

	"costbook/internal/core/id"
)

// Repository defines operations for cost period storage.
type Repository interface {
	Create(ctx context.Context, period *Period) error

	GetByID(ctx context.Context, periodID id.ID) (*Period, error)

	// GetForUpdate locks the period row for a status transition
	GetForUpdate(ctx context.Context, periodID id.ID) (*Period, error)

	// FindCovering returns the period containing date, or NotFound
	FindCovering(ctx context.Context, costOrgID id.ID, date time.Time) (*Period, error)

	// ExistsOverlapping reports whether any period shares a day with [start, end]
	ExistsOverlapping(ctx context.Context, costOrgID id.ID, start, end time.Time) (bool, error)

	UpdateStatus(ctx context.Context, period *Period) error

	ListByCostOrganization(ctx context.Context, costOrgID id.ID) ([]Period, error)
}

// OrganizationResolver resolves the cost organization owning an inventory organization.
type OrganizationResolver interface {
	CostOrganizationID(ctx context.Context, inventoryOrgID id.ID) (id.ID, error)
}
