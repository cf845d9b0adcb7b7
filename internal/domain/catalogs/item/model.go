// Package item provides the stocked item catalog with its lots and serials.
package item

import (
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Item is a costed, stocked good of one inventory organization.
// QuantityOnHand always equals the sum of the item's on-hand balance rows.
type Item struct {
	ID             id.ID          `db:"id" json:"id"`
	OrganizationID id.ID          `db:"organization_id" json:"organizationId"`
	Code           string         `db:"code" json:"code"`
	Name           string         `db:"name" json:"name"`
	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`
}

// Lot is a lot number of an item.
type Lot struct {
	ID     id.ID  `db:"id" json:"id"`
	ItemID id.ID  `db:"item_id" json:"itemId"`
	Number string `db:"lot_number" json:"number"`
}

// Serial is a serial number of an item.
type Serial struct {
	ID     id.ID  `db:"id" json:"id"`
	ItemID id.ID  `db:"item_id" json:"itemId"`
	Number string `db:"serial_number" json:"number"`
}
