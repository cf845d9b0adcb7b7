// Package material provides the inventory transaction ledger.
package material

import (
	"context"
	"strings"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/registers/onhand"
)

// TransactionType is the kind of physical movement.
type TransactionType string

const (
	TypePOReceipt       TransactionType = "PO_RECEIPT"
	TypeSubinvTransfer  TransactionType = "SUBINV_TRANSFER"
	TypeMiscIssue       TransactionType = "MISC_ISSUE"
	TypeMiscReceipt     TransactionType = "MISC_RECEIPT"
	TypeSalesOrderIssue TransactionType = "SALES_ORDER_ISSUE"
	TypeReturnToVendor  TransactionType = "RETURN_TO_VENDOR"
)

// IsValid reports whether t is a known movement type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypePOReceipt, TypeSubinvTransfer, TypeMiscIssue, TypeMiscReceipt, TypeSalesOrderIssue, TypeReturnToVendor:
		return true
	}
	return false
}

// IsReceipt reports movements that bring quantity in (positive sign).
func (t TransactionType) IsReceipt() bool {
	return t == TypePOReceipt || t == TypeMiscReceipt
}

// IsIssue reports movements that take quantity out (negative sign).
func (t TransactionType) IsIssue() bool {
	return t == TypeMiscIssue || t == TypeSalesOrderIssue || t == TypeReturnToVendor
}

// IsTransfer reports subinventory transfers.
func (t TransactionType) IsTransfer() bool {
	return t == TypeSubinvTransfer
}

// IsFinancial reports movements with a financial effect (everything but transfers).
func (t TransactionType) IsFinancial() bool {
	return t.IsValid() && !t.IsTransfer()
}

// FinancialTypes lists every type that is costed and distributed.
func FinancialTypes() []TransactionType {
	return []TransactionType{TypePOReceipt, TypeMiscIssue, TypeMiscReceipt, TypeSalesOrderIssue, TypeReturnToVendor}
}

// SourceDocument links a movement to the document that caused it.
type SourceDocument struct {
	DocumentType string `db:"source_document_type" json:"documentType,omitempty"`
	DocumentID   *id.ID `db:"source_document_id" json:"documentId,omitempty"`
	LineID       *id.ID `db:"source_line_id" json:"lineId,omitempty"`
}

// Transaction is an immutable ledger entry. Positive quantity is a receipt,
// negative is an issue. Never updated after creation.
type Transaction struct {
	entity.Base

	OrganizationID  id.ID           `db:"organization_id" json:"organizationId"`
	ItemID          id.ID           `db:"item_id" json:"itemId"`
	Type            TransactionType `db:"transaction_type" json:"type"`
	Quantity        types.Quantity  `db:"quantity" json:"quantity"`
	TransactionDate time.Time       `db:"transaction_date" json:"transactionDate"`

	SubinventoryID id.ID  `db:"subinventory_id" json:"subinventoryId"`
	LocatorID      *id.ID `db:"locator_id" json:"locatorId,omitempty"`
	LotID          *id.ID `db:"lot_id" json:"lotId,omitempty"`
	SerialID       *id.ID `db:"serial_id" json:"serialId,omitempty"`

	TransferSubinventoryID *id.ID `db:"transfer_subinventory_id" json:"transferSubinventoryId,omitempty"`
	TransferLocatorID      *id.ID `db:"transfer_locator_id" json:"transferLocatorId,omitempty"`

	SourceDocument

	// UnitCost is the incoming cost supplied with the movement (receipts only)
	UnitCost *types.Money `db:"unit_cost" json:"unitCost,omitempty"`

	// CostingDeferred leaves costing and distributions to the batch cost processor
	CostingDeferred bool `db:"costing_deferred" json:"costingDeferred"`
}

// SourceDimensions returns the balance tuple the movement is posted against.
func (t *Transaction) SourceDimensions() onhand.Dimensions {
	return onhand.Dimensions{
		OrganizationID: t.OrganizationID,
		ItemID:         t.ItemID,
		SubinventoryID: t.SubinventoryID,
		LocatorID:      t.LocatorID,
		LotID:          t.LotID,
		SerialID:       t.SerialID,
	}
}

// Deltas returns the balance changes of the movement: the signed quantity at the
// source and, for transfers, the absolute quantity at the destination.
func (t *Transaction) Deltas() []onhand.Delta {
	deltas := []onhand.Delta{{Dimensions: t.SourceDimensions(), Quantity: t.Quantity}}
	if t.Type.IsTransfer() && t.TransferSubinventoryID != nil {
		dest := t.SourceDimensions()
		dest.SubinventoryID = *t.TransferSubinventoryID
		dest.LocatorID = t.TransferLocatorID
		deltas = append(deltas, onhand.Delta{Dimensions: dest, Quantity: t.Quantity.Abs()})
	}
	return deltas
}

// TransferDestination is where a subinventory transfer lands.
type TransferDestination struct {
	SubinventoryID id.ID  `json:"subinventoryId"`
	LocatorID      *id.ID `json:"locatorId,omitempty"`
}

// Request is the input of ExecuteTransaction.
type Request struct {
	OrganizationID  id.ID
	ItemID          id.ID
	Type            TransactionType
	Quantity        types.Quantity
	TransactionDate time.Time

	SubinventoryID id.ID
	LocatorID      *id.ID
	LotID          *id.ID
	SerialID       *id.ID

	Transfer *TransferDestination
	Source   SourceDocument

	// UnitCost overrides the purchase-order price of a PO receipt, or prices a misc receipt
	UnitCost *types.Money

	DeferCosting bool
}

// Validate implements entity.Validatable interface.
func (r *Request) Validate(_ context.Context) error {
	if id.IsNil(r.OrganizationID) || id.IsNil(r.ItemID) || id.IsNil(r.SubinventoryID) {
		return apperror.NewValidation("organization, item and subinventory are required")
	}
	if !r.Type.IsValid() {
		return apperror.NewValidation("unknown transaction type").WithDetail("type", r.Type)
	}
	if r.Quantity.IsZero() {
		return apperror.NewValidation("quantity must not be zero")
	}

	switch {
	case r.Type.IsReceipt() && !r.Quantity.IsPositive():
		return apperror.NewValidation("receipt quantity must be positive").WithDetail("type", r.Type)
	case (r.Type.IsIssue() || r.Type.IsTransfer()) && !r.Quantity.IsNegative():
		return apperror.NewValidation("issue quantity must be negative").WithDetail("type", r.Type)
	}

	if r.Type.IsTransfer() {
		if r.Transfer == nil || id.IsNil(r.Transfer.SubinventoryID) {
			return apperror.NewValidation("transfer destination is required")
		}
		if r.Transfer.SubinventoryID == r.SubinventoryID && sameLocator(r.Transfer.LocatorID, r.LocatorID) {
			return apperror.NewValidation("transfer destination equals the source")
		}
	} else if r.Transfer != nil {
		return apperror.NewValidation("transfer destination is only allowed for subinventory transfers")
	}

	if r.UnitCost != nil {
		if r.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost must not be negative")
		}
		if !r.Type.IsReceipt() {
			return apperror.NewValidation("unit cost is only accepted for receipts")
		}
	}

	if r.Type == TypePOReceipt && r.UnitCost == nil && r.Source.LineID == nil {
		return apperror.NewValidation("PO receipt requires a unit cost or a purchase order line")
	}

	if strings.TrimSpace(r.Source.DocumentType) == "" && r.Source.DocumentID != nil {
		return apperror.NewValidation("source document type is required with a source document id")
	}

	return nil
}

func sameLocator(a, b *id.ID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// NewTransaction builds the ledger row of a validated request.
func NewTransaction(r *Request) *Transaction {
	txn := &Transaction{
		Base:            entity.NewBase(),
		OrganizationID:  r.OrganizationID,
		ItemID:          r.ItemID,
		Type:            r.Type,
		Quantity:        r.Quantity,
		TransactionDate: r.TransactionDate.UTC(),
		SubinventoryID:  r.SubinventoryID,
		LocatorID:       r.LocatorID,
		LotID:           r.LotID,
		SerialID:        r.SerialID,
		SourceDocument:  r.Source,
		UnitCost:        r.UnitCost,
		CostingDeferred: r.DeferCosting,
	}
	if r.Transfer != nil {
		sub := r.Transfer.SubinventoryID
		txn.TransferSubinventoryID = &sub
		txn.TransferLocatorID = r.Transfer.LocatorID
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = txn.CreatedAt
	}
	return txn
}

// Cursor positions keyset pagination over (transaction date, id).
type Cursor struct {
	Date time.Time
	ID   id.ID
}

// After reports whether t sorts strictly after the cursor.
func (c *Cursor) After(t *Transaction) bool {
	if c == nil {
		return true
	}
	if !t.TransactionDate.Equal(c.Date) {
		return t.TransactionDate.After(c.Date)
	}
	return id.Less(c.ID, t.ID)
}

// Result reports the outcome of ExecuteTransaction.
type Result struct {
	Transaction *Transaction `json:"transaction"`

	// BookedUnitCost is the unit cost distributions were written at (nil when not costed)
	BookedUnitCost *types.Money `json:"bookedUnitCost,omitempty"`
}
