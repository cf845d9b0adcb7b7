package handlers

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/domain/documents/material"
	"costbook/internal/infrastructure/http/v1/dto"
)

// TransactionHandler records and reads material transactions.
type TransactionHandler struct {
	*BaseHandler
	service *material.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *material.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, service: service}
}

// Execute records a movement with its balance update and, unless deferred, its cost.
// POST /organizations/:orgId/transactions
func (h *TransactionHandler) Execute(c *gin.Context) {
	var body dto.ExecuteTransactionRequest
	if !h.BindJSON(c, &body) {
		return
	}
	req, err := body.ToRequest(c.Param("orgId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.ExecuteTransaction(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns one ledger row.
// GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	txnID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	txn, err := h.service.GetByID(c.Request.Context(), txnID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, txn)
}

// List pages through the ledger of an organization.
// GET /organizations/:orgId/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var query dto.TransactionListRequest
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter(c.Param("orgId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []material.Transaction{}
	}
	h.OK(c, dto.GenericListResponse[material.Transaction]{
		Data:       items,
		Pagination: dto.NewPaginationResponse(query.Page, query.PageSize, result.TotalCount),
	})
}
