// Package organization provides the inventory and cost organization catalogs.
package organization

import (
	"context"
	"strings"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// Status of an inventory organization.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// InventoryOrganization is a stocking location. Code is immutable.
type InventoryOrganization struct {
	ID     id.ID  `db:"id" json:"id"`
	Code   string `db:"code" json:"code"`
	Name   string `db:"name" json:"name"`
	Status Status `db:"status" json:"status"`
}

// CostOrganization owns the primary cost book and the period calendar
// of exactly one inventory organization.
type CostOrganization struct {
	ID                      id.ID  `db:"id" json:"id"`
	InventoryOrganizationID id.ID  `db:"inventory_organization_id" json:"inventoryOrganizationId"`
	PrimaryCostBookID       id.ID  `db:"primary_cost_book_id" json:"primaryCostBookId"`
	Name                    string `db:"name" json:"name"`
}

// CostBook is a set of item costs kept for a cost organization.
type CostBook struct {
	ID                 id.ID  `db:"id" json:"id"`
	CostOrganizationID id.ID  `db:"cost_organization_id" json:"costOrganizationId"`
	Code               string `db:"code" json:"code"`
}

// Setup bundles the rows created together when an organization is onboarded.
type Setup struct {
	Inventory InventoryOrganization `json:"inventory"`
	Cost      CostOrganization      `json:"cost"`
	Book      CostBook              `json:"book"`
}

// NewSetup builds an inventory organization with its cost organization and primary book.
func NewSetup(code, name string) *Setup {
	inv := InventoryOrganization{ID: id.New(), Code: code, Name: name, Status: StatusActive}
	costOrg := CostOrganization{ID: id.New(), InventoryOrganizationID: inv.ID, Name: name}
	book := CostBook{ID: id.New(), CostOrganizationID: costOrg.ID, Code: "PRIMARY"}
	costOrg.PrimaryCostBookID = book.ID
	return &Setup{Inventory: inv, Cost: costOrg, Book: book}
}

// Validate implements entity.Validatable interface.
func (s *Setup) Validate(_ context.Context) error {
	if strings.TrimSpace(s.Inventory.Code) == "" {
		return apperror.NewValidation("organization code is required")
	}
	if strings.TrimSpace(s.Inventory.Name) == "" {
		return apperror.NewValidation("organization name is required")
	}
	return nil
}
