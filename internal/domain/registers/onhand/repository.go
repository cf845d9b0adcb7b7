package onhand

import (
	"context"

	"costbook/internal/core/types"
)

// Repository defines operations for the on-hand register.
type Repository interface {
	// Apply finds or creates the balance row and adds delta atomically
	// (quantity = quantity + delta). Returns the new quantity.
	Apply(ctx context.Context, dims Dimensions, delta types.Quantity) (types.Quantity, error)

	// GetBalance returns the balance row, or a zero balance when none exists
	GetBalance(ctx context.Context, dims Dimensions) (Balance, error)
}
