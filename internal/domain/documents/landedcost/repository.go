package landedcost

import (
	"context"

	"costbook/internal/core/id"
)

// Repository defines operations for landed cost charges.
type Repository interface {
	CreateCharge(ctx context.Context, charge *Charge) error
	ListCharges(ctx context.Context, purchaseOrderID id.ID) ([]Charge, error)
}

// ReceiptSource lists the receipt lines of a purchase order.
type ReceiptSource interface {
	ReceiptLines(ctx context.Context, purchaseOrderID id.ID) ([]ReceiptLine, error)
}
