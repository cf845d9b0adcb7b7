// Package scenario versions standard costs through an approval-gated
// Pending, Current, Historical lifecycle.
package scenario

import (
	"context"
	"strings"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Type is the lifecycle state of a scenario.
type Type string

const (
	TypePending    Type = "PENDING"
	TypeCurrent    Type = "CURRENT"
	TypeHistorical Type = "HISTORICAL"
	TypeFrozen     Type = "FROZEN"
)

// CostElement is a component of an item's standard cost.
type CostElement string

const (
	ElementMaterial          CostElement = "MATERIAL"
	ElementMaterialOverhead  CostElement = "MATERIAL_OVERHEAD"
	ElementResource          CostElement = "RESOURCE"
	ElementOverhead          CostElement = "OVERHEAD"
	ElementOutsideProcessing CostElement = "OUTSIDE_PROCESSING"
)

// IsValid reports whether e is a known cost element.
func (e CostElement) IsValid() bool {
	switch e {
	case ElementMaterial, ElementMaterialOverhead, ElementResource, ElementOverhead, ElementOutsideProcessing:
		return true
	}
	return false
}

// Scenario is a named set of standard costs of a cost organization.
// At most one scenario per cost organization is Current.
type Scenario struct {
	entity.Tracked

	CostOrganizationID id.ID      `db:"cost_organization_id" json:"costOrganizationId"`
	Name               string     `db:"name" json:"name"`
	Type               Type       `db:"scenario_type" json:"type"`
	EffectiveDate      *time.Time `db:"effective_date" json:"effectiveDate,omitempty"`
}

// NewScenario creates a Pending scenario.
func NewScenario(costOrgID id.ID, name, actor string) *Scenario {
	return &Scenario{
		Tracked:            entity.NewTracked(actor),
		CostOrganizationID: costOrgID,
		Name:               strings.TrimSpace(name),
		Type:               TypePending,
	}
}

// Validate implements entity.Validatable interface.
func (s *Scenario) Validate(_ context.Context) error {
	if id.IsNil(s.CostOrganizationID) {
		return apperror.NewValidation("cost organization is required")
	}
	if s.Name == "" {
		return apperror.NewValidation("scenario name is required")
	}
	return nil
}

// StandardCost is the unit cost of one cost element of an item in a scenario.
type StandardCost struct {
	ID          id.ID       `db:"id" json:"id"`
	ScenarioID  id.ID       `db:"scenario_id" json:"scenarioId"`
	ItemID      id.ID       `db:"item_id" json:"itemId"`
	CostElement CostElement `db:"cost_element" json:"costElement"`
	UnitCost    types.Money `db:"unit_cost" json:"unitCost"`
}

// Validate implements entity.Validatable interface.
func (c *StandardCost) Validate(_ context.Context) error {
	if id.IsNil(c.ItemID) {
		return apperror.NewValidation("item is required")
	}
	if !c.CostElement.IsValid() {
		return apperror.NewValidation("unknown cost element").WithDetail("cost_element", c.CostElement)
	}
	if c.UnitCost.IsNegative() {
		return apperror.NewValidation("standard cost must not be negative")
	}
	return nil
}
