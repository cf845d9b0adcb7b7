// Package distribution generates the draft accounting distributions of costed
// movements: one row per financial leg, tagged with its leg role.
package distribution

import (
	"time"

	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// SourceType is the ledger a distribution belongs to.
type SourceType string

const (
	SourceMaterial SourceType = "MATERIAL"
	SourceWip      SourceType = "WIP"
)

// LegRole tags a distribution as the debit or credit leg of its transaction.
type LegRole string

const (
	RoleDebit  LegRole = "DEBIT"
	RoleCredit LegRole = "CREDIT"
)

// LineType is the accounting purpose of a leg; accounts are resolved per line type.
type LineType string

const (
	LineInventoryValuation  LineType = "INVENTORY_VALUATION"
	LineReceivingAccrual    LineType = "RECEIVING_ACCRUAL"
	LineInventoryAdjustment LineType = "INVENTORY_ADJUSTMENT"
	LineCOGS                LineType = "COGS"
	LineWipMaterial         LineType = "WIP_MATERIAL"
	LineWipResource         LineType = "WIP_RESOURCE"
	LineResourceAbsorption  LineType = "RESOURCE_ABSORPTION"
)

// Status of a distribution. Only the SLA engine moves it to Accounted.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusAccounted Status = "ACCOUNTED"
)

// Distribution is one financial leg. Amounts are always positive; the side is
// carried by LegRole. Immutable except for the accounted flag and status.
type Distribution struct {
	entity.Base

	OrganizationID id.ID       `db:"organization_id" json:"organizationId"`
	SourceType     SourceType  `db:"source_type" json:"sourceType"`
	TransactionID  id.ID       `db:"transaction_id" json:"transactionId"`
	LineType       LineType    `db:"line_type" json:"lineType"`
	LegRole        LegRole     `db:"leg_role" json:"legRole"`
	AccountCode    string      `db:"account_code" json:"accountCode"`
	Amount         types.Money `db:"amount" json:"amount"`
	Currency       string      `db:"currency" json:"currency"`
	AccountingDate time.Time   `db:"accounting_date" json:"accountingDate"`
	Accounted      bool        `db:"accounted" json:"accounted"`
	Status         Status      `db:"status" json:"status"`
}

// GroupKey identifies the transaction a distribution belongs to.
type GroupKey struct {
	SourceType    SourceType
	TransactionID id.ID
}

// Key returns the group key of d.
func (d *Distribution) Key() GroupKey {
	return GroupKey{SourceType: d.SourceType, TransactionID: d.TransactionID}
}

// WipCharge is a cost-bearing WIP event to be distributed to WIP valuation.
type WipCharge struct {
	OrganizationID id.ID
	TransactionID  id.ID
	LineType       LineType // LineWipMaterial or LineWipResource
	Amount         types.Money
	Date           time.Time
}
