package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"costbook/internal/core/id"
	"costbook/internal/domain/costperiod"
	"costbook/internal/infrastructure/http/v1/dto"
)

// PeriodHandler manages the cost period calendar.
type PeriodHandler struct {
	*BaseHandler
	service *costperiod.Service
}

// NewPeriodHandler creates a new period handler.
func NewPeriodHandler(base *BaseHandler, service *costperiod.Service) *PeriodHandler {
	return &PeriodHandler{BaseHandler: base, service: service}
}

// Create defines a Future period.
// POST /cost-organizations/:costOrgId/periods
func (h *PeriodHandler) Create(c *gin.Context) {
	costOrgID, ok := h.ParamID(c, "costOrgId")
	if !ok {
		return
	}
	var req dto.CreatePeriodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	period, err := h.service.CreatePeriod(c.Request.Context(), costOrgID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, period)
}

// List returns the periods of a cost organization by start date.
// GET /cost-organizations/:costOrgId/periods
func (h *PeriodHandler) List(c *gin.Context) {
	costOrgID, ok := h.ParamID(c, "costOrgId")
	if !ok {
		return
	}
	periods, err := h.service.ListPeriods(c.Request.Context(), costOrgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(periods))
}

// Open moves a period to Open.
// POST /periods/:id/open
func (h *PeriodHandler) Open(c *gin.Context) {
	h.transition(c, h.service.OpenPeriod)
}

// Close moves a period to Closed.
// POST /periods/:id/close
func (h *PeriodHandler) Close(c *gin.Context) {
	h.transition(c, h.service.ClosePeriod)
}

// PermanentlyClose moves a period to PermanentlyClosed.
// POST /periods/:id/permanently-close
func (h *PeriodHandler) PermanentlyClose(c *gin.Context) {
	h.transition(c, h.service.PermanentlyClosePeriod)
}

func (h *PeriodHandler) transition(c *gin.Context, fn func(context.Context, id.ID) (*costperiod.Period, error)) {
	periodID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	period, err := fn(c.Request.Context(), periodID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, period)
}
