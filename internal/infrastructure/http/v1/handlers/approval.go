package handlers

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/domain/approval"
	"costbook/internal/infrastructure/http/v1/dto"
)

// ApprovalHandler decides approval requests.
type ApprovalHandler struct {
	*BaseHandler
	service *approval.Service
	audit   AuditHistory
}

// NewApprovalHandler creates a new approval handler. audit may be nil.
func NewApprovalHandler(base *BaseHandler, service *approval.Service, audit AuditHistory) *ApprovalHandler {
	return &ApprovalHandler{BaseHandler: base, service: service, audit: audit}
}

// ListPending returns Pending requests, newest first.
// GET /approvals
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	requests, err := h.service.ListPending(c.Request.Context(), h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(requests))
}

// Get returns one request.
// GET /approvals/:id
func (h *ApprovalHandler) Get(c *gin.Context) {
	requestID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	req, err := h.service.GetByID(c.Request.Context(), requestID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, req)
}

// Approve approves a Pending request and runs its entity callback.
// POST /approvals/:id/approve
func (h *ApprovalHandler) Approve(c *gin.Context) {
	requestID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body dto.ApproveRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &body) {
		return
	}

	req, err := h.service.Approve(c.Request.Context(), requestID, body.ApproverID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, req)
}

// Reject rejects a Pending request.
// POST /approvals/:id/reject
func (h *ApprovalHandler) Reject(c *gin.Context) {
	requestID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body dto.RejectRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &body) {
		return
	}

	req, err := h.service.Reject(c.Request.Context(), requestID, body.ApproverID, body.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, req)
}

// History returns the audit trail of a request.
// GET /approvals/:id/history
func (h *ApprovalHandler) History(c *gin.Context) {
	requestID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if h.audit == nil {
		h.OK(c, dto.NewItemsResponse[any](nil))
		return
	}
	records, err := h.audit.History(c.Request.Context(), approval.AuditEntityType, requestID, h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(records))
}
