package handlers

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/core/id"
	"costbook/internal/domain/documents/landedcost"
	"costbook/internal/infrastructure/http/v1/dto"
)

// LandedCostHandler attaches and allocates purchase order charges.
type LandedCostHandler struct {
	*BaseHandler
	service *landedcost.Service
}

// NewLandedCostHandler creates a new landed cost handler.
func NewLandedCostHandler(base *BaseHandler, service *landedcost.Service) *LandedCostHandler {
	return &LandedCostHandler{BaseHandler: base, service: service}
}

// AddCharge attaches a charge to a purchase order.
// POST /purchase-orders/:id/charges
func (h *LandedCostHandler) AddCharge(c *gin.Context) {
	poID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AddChargeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	charge := &landedcost.Charge{
		ID:              id.New(),
		PurchaseOrderID: poID,
		ChargeType:      req.ChargeType,
		Amount:          req.Amount,
		Basis:           req.Basis,
	}
	if err := h.service.AddCharge(c.Request.Context(), charge); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, charge)
}

// Allocate prorates the order's charges across its receipt lines.
// GET /purchase-orders/:id/allocation
func (h *LandedCostHandler) Allocate(c *gin.Context) {
	poID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	allocation, err := h.service.AllocateChargesToReceipt(c.Request.Context(), poID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAllocation(poID.String(), allocation))
}
