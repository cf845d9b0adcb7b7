// Package onhand provides the on-hand balance register.
package onhand

import (
	"time"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Dimensions identify one balance row: (organization, item, subinventory, locator?, lot?, serial?).
type Dimensions struct {
	OrganizationID id.ID  `db:"organization_id" json:"organizationId"`
	ItemID         id.ID  `db:"item_id" json:"itemId"`
	SubinventoryID id.ID  `db:"subinventory_id" json:"subinventoryId"`
	LocatorID      *id.ID `db:"locator_id" json:"locatorId,omitempty"`
	LotID          *id.ID `db:"lot_id" json:"lotId,omitempty"`
	SerialID       *id.ID `db:"serial_id" json:"serialId,omitempty"`
}

// Key returns a comparable representation of the dimensions (nil optional ids map to id.Nil).
func (d Dimensions) Key() DimensionKey {
	return DimensionKey{
		OrganizationID: d.OrganizationID,
		ItemID:         d.ItemID,
		SubinventoryID: d.SubinventoryID,
		LocatorID:      deref(d.LocatorID),
		LotID:          deref(d.LotID),
		SerialID:       deref(d.SerialID),
	}
}

// DimensionKey is usable as a map key.
type DimensionKey struct {
	OrganizationID id.ID
	ItemID         id.ID
	SubinventoryID id.ID
	LocatorID      id.ID
	LotID          id.ID
	SerialID       id.ID
}

func deref(v *id.ID) id.ID {
	if v == nil {
		return id.Nil()
	}
	return *v
}

// Balance is the current quantity of one dimension tuple.
// Quantity may go negative; no reservation check is applied.
type Balance struct {
	Dimensions

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// Delta is a signed change to one balance row.
type Delta struct {
	Dimensions Dimensions
	Quantity   types.Quantity
}

// NetQuantity sums the quantities of deltas.
func NetQuantity(deltas []Delta) types.Quantity {
	var net types.Quantity
	for _, d := range deltas {
		net += d.Quantity
	}
	return net
}
