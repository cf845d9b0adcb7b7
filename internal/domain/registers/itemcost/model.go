// Package itemcost provides the current item cost register (one mutable row
// per organization, item and cost book).
package itemcost

import (
	"time"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Key identifies an item cost row.
type Key struct {
	OrganizationID id.ID `db:"organization_id" json:"organizationId"`
	ItemID         id.ID `db:"item_id" json:"itemId"`
	CostBookID     id.ID `db:"cost_book_id" json:"costBookId"`
}

// ItemCost is the current weighted-average (or published standard) unit cost.
type ItemCost struct {
	Key

	UnitCost  types.Money `db:"unit_cost" json:"unitCost"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}
