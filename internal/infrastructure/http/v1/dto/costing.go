package dto

import (
	"time"

	"costbook/internal/core/types"
	"costbook/internal/domain/documents/landedcost"
	"costbook/internal/domain/gl"
	"costbook/internal/domain/scenario"
)

// --- Periods ---

// CreatePeriodRequest defines a new period of a cost organization.
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required,max=100"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// --- Scenarios ---

// CreateScenarioRequest starts a pending scenario.
type CreateScenarioRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// DefineStandardCostRequest sets one cost element of an item in a scenario.
type DefineStandardCostRequest struct {
	ItemID      string               `json:"itemId" binding:"required"`
	CostElement scenario.CostElement `json:"costElement" binding:"required"`
	UnitCost    types.Money          `json:"unitCost"`
}

// PublishScenarioRequest submits a scenario for approval.
type PublishScenarioRequest struct {
	RequesterID string `json:"requesterId,omitempty"`
}

// --- Approvals ---

// ApproveRequest approves a pending request.
type ApproveRequest struct {
	ApproverID string `json:"approverId,omitempty"`
}

// RejectRequest rejects a pending request.
type RejectRequest struct {
	ApproverID string `json:"approverId,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// --- Landed cost ---

// AddChargeRequest attaches a landed cost charge to a purchase order.
type AddChargeRequest struct {
	ChargeType landedcost.ChargeType `json:"chargeType" binding:"required"`
	Amount     types.Money           `json:"amount"`
	Basis      landedcost.Basis      `json:"basis" binding:"required"`
}

// AllocationResponse lists the amount allocated to each receipt line.
type AllocationResponse struct {
	PurchaseOrderID string           `json:"purchaseOrderId"`
	Lines           []AllocationLine `json:"lines"`
	Total           types.Money      `json:"total"`
}

// AllocationLine is the share of one receipt line.
type AllocationLine struct {
	ReceiptLineID string      `json:"receiptLineId"`
	Amount        types.Money `json:"amount"`
}

// FromAllocation maps an allocation in receipt line order.
func FromAllocation(purchaseOrderID string, a landedcost.Allocation) AllocationResponse {
	resp := AllocationResponse{PurchaseOrderID: purchaseOrderID, Lines: []AllocationLine{}, Total: types.Zero()}
	for _, lineID := range a.LineIDs() {
		amount := a[lineID]
		resp.Lines = append(resp.Lines, AllocationLine{ReceiptLineID: lineID.String(), Amount: amount})
		resp.Total = resp.Total.Add(amount)
	}
	return resp
}

// --- WIP ---

// CreateWorkOrderRequest releases a work order.
type CreateWorkOrderRequest struct {
	AssemblyID string         `json:"assemblyId" binding:"required"`
	Number     string         `json:"number" binding:"omitempty,max=50"`
	Quantity   types.Quantity `json:"quantity"`
}

// MaterialIssueRequest issues a component to a work order.
type MaterialIssueRequest struct {
	ItemID   string         `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity"`
}

// ResourceChargeRequest charges resource hours to a work order.
type ResourceChargeRequest struct {
	ResourceID string         `json:"resourceId" binding:"required"`
	Hours      types.Quantity `json:"hours"`
	Rate       types.Money    `json:"rate"`
}

// --- General ledger ---

// GLEntryListRequest filters posted journal lines.
type GLEntryListRequest struct {
	TransactionID string     `form:"transactionId"`
	Account       string     `form:"account"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Limit         int        `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToFilter converts query parameters into a ledger filter.
func (r *GLEntryListRequest) ToFilter(orgID string) (gl.Filter, error) {
	org, err := ParseID("organizationId", orgID)
	if err != nil {
		return gl.Filter{}, err
	}
	filter := gl.Filter{
		OrganizationID: org,
		Account:        r.Account,
		From:           r.From,
		To:             r.To,
		Limit:          r.Limit,
	}
	if filter.TransactionID, err = ParseOptionalID("transactionId", &r.TransactionID); err != nil {
		return gl.Filter{}, err
	}
	return filter, nil
}
