package purchaseorder

import (
	"context"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/documents/material"
)

// PriceResolver resolves PO receipt unit costs from purchase order lines.
type PriceResolver struct {
	repo Repository
}

// NewPriceResolver creates a new price resolver.
func NewPriceResolver(repo Repository) *PriceResolver {
	return &PriceResolver{repo: repo}
}

var _ material.PriceResolver = (*PriceResolver)(nil)

// ResolveUnitCost returns the line's unit price. The line must order the received
// item, and the order must belong to the organization and be receivable.
func (r *PriceResolver) ResolveUnitCost(ctx context.Context, orgID, itemID id.ID, source material.SourceDocument) (types.Money, error) {
	if source.LineID == nil {
		return types.Zero(), apperror.NewValidation("purchase order line is required")
	}

	line, err := r.repo.GetLine(ctx, *source.LineID)
	if err != nil {
		return types.Zero(), err
	}
	if source.DocumentID != nil && *source.DocumentID != line.PurchaseOrderID {
		return types.Zero(), apperror.NewValidation("purchase order line does not belong to the purchase order").
			WithDetail("line_id", line.ID)
	}
	if line.ItemID != itemID {
		return types.Zero(), apperror.NewValidation("purchase order line orders a different item").
			WithDetail("line_id", line.ID)
	}

	po, err := r.repo.GetOrder(ctx, line.PurchaseOrderID)
	if err != nil {
		return types.Zero(), err
	}
	if po.OrganizationID != orgID {
		return types.Zero(), apperror.NewNotFound("purchase_order", line.PurchaseOrderID)
	}
	if !po.Status.IsReceivable() {
		return types.Zero(), apperror.NewInvalidState("purchase_order", po.Status,
			"purchase order is not in a receivable status").
			WithDetail("purchase_order_id", po.ID)
	}

	return line.UnitPrice, nil
}
