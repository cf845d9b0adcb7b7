// Package subinventory provides subinventories and their stock locators.
package subinventory

import "costbook/internal/core/id"

// Subinventory is a physical or logical storage area within an inventory organization.
type Subinventory struct {
	ID             id.ID  `db:"id" json:"id"`
	OrganizationID id.ID  `db:"organization_id" json:"organizationId"`
	Code           string `db:"code" json:"code"`
}

// Locator is a bin within a subinventory.
type Locator struct {
	ID             id.ID  `db:"id" json:"id"`
	SubinventoryID id.ID  `db:"subinventory_id" json:"subinventoryId"`
	Code           string `db:"code" json:"code"`
}
