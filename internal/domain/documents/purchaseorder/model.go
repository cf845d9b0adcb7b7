// Package purchaseorder exposes the purchase order data receiving consumes:
// line prices for PO receipts and the order status that gates receiving.
package purchaseorder

import (
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Status of a purchase order.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusApproved  Status = "APPROVED"
	StatusOpen      Status = "OPEN"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
)

// IsReceivable reports whether goods may be received against the order.
func (s Status) IsReceivable() bool {
	return s == StatusApproved || s == StatusOpen
}

// PurchaseOrder is the header of an order placed with a supplier.
type PurchaseOrder struct {
	ID             id.ID  `db:"id" json:"id"`
	OrganizationID id.ID  `db:"organization_id" json:"organizationId"`
	Number         string `db:"number" json:"number"`
	Status         Status `db:"status" json:"status"`
	Currency       string `db:"currency" json:"currency"`
}

// Line is an ordered item with its agreed unit price.
type Line struct {
	ID              id.ID          `db:"id" json:"id"`
	PurchaseOrderID id.ID          `db:"purchase_order_id" json:"purchaseOrderId"`
	ItemID          id.ID          `db:"item_id" json:"itemId"`
	Quantity        types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice       types.Money    `db:"unit_price" json:"unitPrice"`
}
