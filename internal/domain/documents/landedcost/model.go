// Package landedcost allocates purchase order charges (freight, duty and the like)
// across the order's receipt lines.
package landedcost

import (
	"context"
	"slices"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// ChargeType classifies a landed cost charge.
type ChargeType string

const (
	ChargeFreight   ChargeType = "FREIGHT"
	ChargeInsurance ChargeType = "INSURANCE"
	ChargeDuty      ChargeType = "DUTY"
	ChargeHandling  ChargeType = "HANDLING"
	ChargeOther     ChargeType = "OTHER"
)

// Basis is how a charge is prorated across receipt lines.
type Basis string

const (
	BasisQuantity Basis = "QUANTITY"
	BasisValue    Basis = "VALUE"
)

// Charge is a landed cost charge tied to a purchase order.
type Charge struct {
	ID              id.ID       `db:"id" json:"id"`
	PurchaseOrderID id.ID       `db:"purchase_order_id" json:"purchaseOrderId"`
	ChargeType      ChargeType  `db:"charge_type" json:"chargeType"`
	Amount          types.Money `db:"amount" json:"amount"`
	Basis           Basis       `db:"allocation_basis" json:"basis"`
}

// Validate implements entity.Validatable interface.
func (c *Charge) Validate(_ context.Context) error {
	switch c.ChargeType {
	case ChargeFreight, ChargeInsurance, ChargeDuty, ChargeHandling, ChargeOther:
	default:
		return apperror.NewValidation("unknown charge type").WithDetail("charge_type", c.ChargeType)
	}
	if c.Basis != BasisQuantity && c.Basis != BasisValue {
		return apperror.NewValidation("unknown allocation basis").WithDetail("basis", c.Basis)
	}
	if c.Amount.IsNegative() {
		return apperror.NewValidation("charge amount must not be negative")
	}
	return nil
}

// ReceiptLine is a received quantity of a purchase order at its unit price.
type ReceiptLine struct {
	ID        id.ID          `json:"id"`
	ItemID    id.ID          `json:"itemId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
}

// Value is the extended price of the line.
func (l ReceiptLine) Value() types.Money {
	return l.Quantity.Decimal().Mul(l.UnitPrice)
}

// Allocation maps a receipt line id to its total allocated landed cost.
type Allocation map[id.ID]types.Money

// LineIDs returns the allocated receipt line ids in a stable order.
func (a Allocation) LineIDs() []id.ID {
	ids := make([]id.ID, 0, len(a))
	for lineID := range a {
		ids = append(ids, lineID)
	}
	slices.SortFunc(ids, func(x, y id.ID) int {
		switch {
		case id.Less(x, y):
			return -1
		case id.Less(y, x):
			return 1
		}
		return 0
	})
	return ids
}
