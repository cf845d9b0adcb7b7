package dto

import (
	"time"

	"costbook/internal/core/types"
	"costbook/internal/domain/documents/material"
)

// ExecuteTransactionRequest records one material movement.
type ExecuteTransactionRequest struct {
	ItemID          string                   `json:"itemId" binding:"required"`
	Type            material.TransactionType `json:"type" binding:"required"`
	Quantity        types.Quantity           `json:"quantity"`
	TransactionDate *time.Time               `json:"transactionDate,omitempty"`

	SubinventoryID string  `json:"subinventoryId" binding:"required"`
	LocatorID      *string `json:"locatorId,omitempty"`
	LotID          *string `json:"lotId,omitempty"`
	SerialID       *string `json:"serialId,omitempty"`

	Transfer *TransferRequest `json:"transfer,omitempty"`

	SourceDocumentType string  `json:"sourceDocumentType,omitempty"`
	SourceDocumentID   *string `json:"sourceDocumentId,omitempty"`
	SourceLineID       *string `json:"sourceLineId,omitempty"`

	UnitCost     *types.Money `json:"unitCost,omitempty"`
	DeferCosting bool         `json:"deferCosting,omitempty"`
}

// TransferRequest is the destination of a subinventory transfer.
type TransferRequest struct {
	SubinventoryID string  `json:"subinventoryId" binding:"required"`
	LocatorID      *string `json:"locatorId,omitempty"`
}

// ToRequest converts the body into a domain request for the organization.
// Quantity sign and type rules are left to the domain validation.
func (r *ExecuteTransactionRequest) ToRequest(orgID string) (*material.Request, error) {
	org, err := ParseID("organizationId", orgID)
	if err != nil {
		return nil, err
	}
	req := &material.Request{
		OrganizationID: org,
		Type:           r.Type,
		Quantity:       r.Quantity,
		UnitCost:       r.UnitCost,
		DeferCosting:   r.DeferCosting,
	}
	if r.TransactionDate != nil {
		req.TransactionDate = *r.TransactionDate
	}

	if req.ItemID, err = ParseID("itemId", r.ItemID); err != nil {
		return nil, err
	}
	if req.SubinventoryID, err = ParseID("subinventoryId", r.SubinventoryID); err != nil {
		return nil, err
	}
	if req.LocatorID, err = ParseOptionalID("locatorId", r.LocatorID); err != nil {
		return nil, err
	}
	if req.LotID, err = ParseOptionalID("lotId", r.LotID); err != nil {
		return nil, err
	}
	if req.SerialID, err = ParseOptionalID("serialId", r.SerialID); err != nil {
		return nil, err
	}

	if r.Transfer != nil {
		dest := &material.TransferDestination{}
		if dest.SubinventoryID, err = ParseID("transfer.subinventoryId", r.Transfer.SubinventoryID); err != nil {
			return nil, err
		}
		if dest.LocatorID, err = ParseOptionalID("transfer.locatorId", r.Transfer.LocatorID); err != nil {
			return nil, err
		}
		req.Transfer = dest
	}

	req.Source.DocumentType = r.SourceDocumentType
	if req.Source.DocumentID, err = ParseOptionalID("sourceDocumentId", r.SourceDocumentID); err != nil {
		return nil, err
	}
	if req.Source.LineID, err = ParseOptionalID("sourceLineId", r.SourceLineID); err != nil {
		return nil, err
	}
	return req, nil
}

// TransactionListRequest filters the ledger of an organization.
type TransactionListRequest struct {
	PaginationRequest
	ItemID string `form:"itemId"`
	Type   string `form:"type"`
}

// ToFilter converts query parameters into a ledger filter.
func (r *TransactionListRequest) ToFilter(orgID string) (material.ListFilter, error) {
	org, err := ParseID("organizationId", orgID)
	if err != nil {
		return material.ListFilter{}, err
	}
	filter := material.ListFilter{ListFilter: r.ListFilter(org)}
	if r.ItemID != "" {
		itemID, err := ParseID("itemId", r.ItemID)
		if err != nil {
			return material.ListFilter{}, err
		}
		filter.ItemID = &itemID
	}
	if r.Type != "" {
		typ := material.TransactionType(r.Type)
		filter.Type = &typ
	}
	return filter, nil
}
