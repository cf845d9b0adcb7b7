package item

import (
	"context"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Repository defines the interface for item storage.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	CreateLot(ctx context.Context, lot *Lot) error
	CreateSerial(ctx context.Context, serial *Serial) error

	// GetByID returns NotFound when the item does not belong to orgID.
	GetByID(ctx context.Context, orgID, itemID id.ID) (*Item, error)

	// GetForUpdate returns the item row locked until the end of the transaction.
	// The locked QuantityOnHand is the pre-movement quantity used by costing.
	GetForUpdate(ctx context.Context, orgID, itemID id.ID) (*Item, error)

	// IncrementOnHand adds delta to the aggregate quantity on hand.
	IncrementOnHand(ctx context.Context, itemID id.ID, delta types.Quantity) error

	LotExists(ctx context.Context, itemID, lotID id.ID) (bool, error)
	SerialExists(ctx context.Context, itemID, serialID id.ID) (bool, error)
}
