package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"costbook/internal/core/id"
	"costbook/internal/domain/scenario"
	"costbook/internal/infrastructure/http/v1/dto"
	"costbook/internal/infrastructure/storage/postgres"
)

// AuditHistory reads the audit trail of an entity.
type AuditHistory interface {
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]postgres.AuditRecord, error)
}

// ScenarioHandler manages cost scenarios and their standard costs.
type ScenarioHandler struct {
	*BaseHandler
	service *scenario.Service
	audit   AuditHistory
}

// NewScenarioHandler creates a new scenario handler. audit may be nil.
func NewScenarioHandler(base *BaseHandler, service *scenario.Service, audit AuditHistory) *ScenarioHandler {
	return &ScenarioHandler{BaseHandler: base, service: service, audit: audit}
}

// Create starts a Pending scenario.
// POST /cost-organizations/:costOrgId/scenarios
func (h *ScenarioHandler) Create(c *gin.Context) {
	costOrgID, ok := h.ParamID(c, "costOrgId")
	if !ok {
		return
	}
	var req dto.CreateScenarioRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sc, err := h.service.CreateScenario(c.Request.Context(), costOrgID, req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sc)
}

// List returns the scenarios of a cost organization.
// GET /cost-organizations/:costOrgId/scenarios
func (h *ScenarioHandler) List(c *gin.Context) {
	costOrgID, ok := h.ParamID(c, "costOrgId")
	if !ok {
		return
	}
	list, err := h.service.ListScenarios(c.Request.Context(), costOrgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(list))
}

// Get returns one scenario.
// GET /scenarios/:id
func (h *ScenarioHandler) Get(c *gin.Context) {
	scenarioID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	sc, err := h.service.GetScenario(c.Request.Context(), scenarioID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sc)
}

// DefineCost sets one cost element of an item.
// POST /scenarios/:id/costs
func (h *ScenarioHandler) DefineCost(c *gin.Context) {
	scenarioID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.DefineStandardCostRequest
	if !h.BindJSON(c, &req) {
		return
	}
	itemID, err := dto.ParseID("itemId", req.ItemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	cost, err := h.service.DefineStandardCost(c.Request.Context(), scenarioID, itemID, req.CostElement, req.UnitCost)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cost)
}

// Publish submits the scenario for approval. The approval request is returned.
// POST /scenarios/:id/publish
func (h *ScenarioHandler) Publish(c *gin.Context) {
	scenarioID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.PublishScenarioRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	request, err := h.service.PublishScenario(c.Request.Context(), scenarioID, req.RequesterID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusAccepted, request)
}

// Freeze locks a Current scenario.
// POST /scenarios/:id/freeze
func (h *ScenarioHandler) Freeze(c *gin.Context) {
	scenarioID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	sc, err := h.service.FreezeScenario(c.Request.Context(), scenarioID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sc)
}

// History returns the audit trail of a scenario, newest first.
// GET /scenarios/:id/history
func (h *ScenarioHandler) History(c *gin.Context) {
	scenarioID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if h.audit == nil {
		h.OK(c, dto.NewItemsResponse[postgres.AuditRecord](nil))
		return
	}
	records, err := h.audit.History(c.Request.Context(), scenario.AuditEntityType, scenarioID, h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(records))
}
