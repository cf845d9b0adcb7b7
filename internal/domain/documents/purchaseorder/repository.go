package purchaseorder

import (
	"context"

	"costbook/internal/core/id"
)

// Repository reads purchase orders maintained by procurement.
type Repository interface {
	GetOrder(ctx context.Context, poID id.ID) (*PurchaseOrder, error)
	GetLine(ctx context.Context, lineID id.ID) (*Line, error)
}
