package handlers

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/domain/wip"
	"costbook/internal/infrastructure/http/v1/dto"
)

// WIPHandler records work order cost events.
type WIPHandler struct {
	*BaseHandler
	service *wip.Service
}

// NewWIPHandler creates a new WIP handler.
func NewWIPHandler(base *BaseHandler, service *wip.Service) *WIPHandler {
	return &WIPHandler{BaseHandler: base, service: service}
}

// CreateWorkOrder releases a work order.
// POST /organizations/:orgId/work-orders
func (h *WIPHandler) CreateWorkOrder(c *gin.Context) {
	orgID, ok := h.ParamID(c, "orgId")
	if !ok {
		return
	}
	var req dto.CreateWorkOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	assemblyID, err := dto.ParseID("assemblyId", req.AssemblyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	wo, err := h.service.CreateWorkOrder(c.Request.Context(), orgID, assemblyID, req.Number, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, wo)
}

// GetWorkOrder returns one work order.
// GET /work-orders/:id
func (h *WIPHandler) GetWorkOrder(c *gin.Context) {
	woID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	wo, err := h.service.GetWorkOrder(c.Request.Context(), woID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, wo)
}

// ListTransactions returns the cost events of a work order.
// GET /work-orders/:id/transactions
func (h *WIPHandler) ListTransactions(c *gin.Context) {
	woID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	txns, err := h.service.ListTransactions(c.Request.Context(), woID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(txns))
}

// MaterialIssue issues a component at standard cost.
// POST /work-orders/:id/material-issues
func (h *WIPHandler) MaterialIssue(c *gin.Context) {
	woID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.MaterialIssueRequest
	if !h.BindJSON(c, &req) {
		return
	}
	itemID, err := dto.ParseID("itemId", req.ItemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	txn, err := h.service.ProcessMaterialIssue(c.Request.Context(), woID, itemID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, txn)
}

// ResourceCharge charges resource hours at a rate.
// POST /work-orders/:id/resource-charges
func (h *WIPHandler) ResourceCharge(c *gin.Context) {
	woID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.ResourceChargeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resourceID, err := dto.ParseID("resourceId", req.ResourceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	txn, err := h.service.ProcessResourceCharge(c.Request.Context(), woID, resourceID, req.Hours, req.Rate)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, txn)
}
