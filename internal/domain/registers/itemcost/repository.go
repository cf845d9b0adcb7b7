package itemcost

import (
	"context"

	"costbook/internal/core/types"
)

// Repository defines operations for the item cost register.
type Repository interface {
	// GetForUpdate locks the cost row, creating it at zero cost when absent.
	GetForUpdate(ctx context.Context, key Key) (*ItemCost, error)

	// Get returns the cost row without locking; a missing row reads as zero.
	Get(ctx context.Context, key Key) (*ItemCost, error)

	// Upsert overwrites the unit cost, creating the row when absent.
	Upsert(ctx context.Context, key Key, unitCost types.Money) error
}
