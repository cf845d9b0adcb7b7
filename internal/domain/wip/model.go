// Package wip costs manufacturing work orders: material issued to and
// resources charged against a work order.
package wip

import (
	"context"
	"strings"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderReleased  WorkOrderStatus = "RELEASED"
	WorkOrderCompleted WorkOrderStatus = "COMPLETED"
	WorkOrderClosed    WorkOrderStatus = "CLOSED"
)

// WorkOrder is a manufacturing order for an assembly.
type WorkOrder struct {
	ID             id.ID           `db:"id" json:"id"`
	OrganizationID id.ID           `db:"organization_id" json:"organizationId"`
	Number         string          `db:"number" json:"number"`
	AssemblyID     id.ID           `db:"assembly_item_id" json:"assemblyId"`
	Quantity       types.Quantity  `db:"quantity" json:"quantity"`
	Status         WorkOrderStatus `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// Validate implements entity.Validatable interface.
func (w *WorkOrder) Validate(_ context.Context) error {
	if id.IsNil(w.OrganizationID) || id.IsNil(w.AssemblyID) {
		return apperror.NewValidation("organization and assembly are required")
	}
	if strings.TrimSpace(w.Number) == "" {
		return apperror.NewValidation("work order number is required")
	}
	if !w.Quantity.IsPositive() {
		return apperror.NewValidation("work order quantity must be positive")
	}
	return nil
}

// TransactionType is the kind of cost-bearing WIP event.
type TransactionType string

const (
	TypeMaterialIssue  TransactionType = "MATERIAL_ISSUE"
	TypeResourceCharge TransactionType = "RESOURCE_CHARGE"
	TypeCompletion     TransactionType = "COMPLETION"
	TypeScrap          TransactionType = "SCRAP"
)

// Transaction is a cost-bearing event against a work order. Quantity holds
// issued units for material and hours for resources.
type Transaction struct {
	entity.Base

	WorkOrderID     id.ID           `db:"work_order_id" json:"workOrderId"`
	OrganizationID  id.ID           `db:"organization_id" json:"organizationId"`
	Type            TransactionType `db:"transaction_type" json:"type"`
	ItemID          *id.ID          `db:"item_id" json:"itemId,omitempty"`
	ResourceID      *id.ID          `db:"resource_id" json:"resourceId,omitempty"`
	Quantity        types.Quantity  `db:"quantity" json:"quantity"`
	UnitCost        types.Money     `db:"unit_cost" json:"unitCost"`
	TotalCost       types.Money     `db:"total_cost" json:"totalCost"`
	TransactionDate time.Time       `db:"transaction_date" json:"transactionDate"`

	// CostAnomaly marks a material issue booked at zero because no current
	// standard cost exists for the item
	CostAnomaly bool `db:"cost_anomaly" json:"costAnomaly"`
}

func newTransaction(wo *WorkOrder, typ TransactionType, qty types.Quantity, unitCost types.Money) *Transaction {
	base := entity.NewBase()
	return &Transaction{
		Base:            base,
		WorkOrderID:     wo.ID,
		OrganizationID:  wo.OrganizationID,
		Type:            typ,
		Quantity:        qty,
		UnitCost:        unitCost,
		TotalCost:       types.Extend(qty, unitCost),
		TransactionDate: base.CreatedAt,
	}
}
