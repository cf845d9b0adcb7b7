package handlers

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/domain/catalogs/organization"
	"costbook/internal/infrastructure/http/v1/dto"
)

// OrganizationHandler onboards and lists inventory organizations.
type OrganizationHandler struct {
	*BaseHandler
	service *organization.Service
}

// NewOrganizationHandler creates a new organization handler.
func NewOrganizationHandler(base *BaseHandler, service *organization.Service) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: base, service: service}
}

// Onboard creates an inventory organization with its cost organization and book.
// POST /organizations
func (h *OrganizationHandler) Onboard(c *gin.Context) {
	var req dto.OnboardOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	setup, err := h.service.Onboard(c.Request.Context(), req.Code, req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, setup)
}

// List returns every inventory organization.
// GET /organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.service.ListInventoryOrganizations(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(orgs))
}
