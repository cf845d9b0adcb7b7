package handlers

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/domain/costing"
	"costbook/internal/domain/gl"
	"costbook/internal/domain/reconciliation"
	"costbook/internal/domain/sla"
	"costbook/internal/infrastructure/http/v1/dto"
)

// CostingHandler exposes the batch operations of an organization: the cost
// processor, the accounting batch, reconciliation and the posted ledger.
type CostingHandler struct {
	*BaseHandler
	costing        *costing.Service
	accounting     *sla.Engine
	reconciliation *reconciliation.Service
	ledger         gl.Repository
}

// NewCostingHandler creates a new costing handler.
func NewCostingHandler(
	base *BaseHandler,
	costing *costing.Service,
	accounting *sla.Engine,
	reconciliation *reconciliation.Service,
	ledger gl.Repository,
) *CostingHandler {
	return &CostingHandler{
		BaseHandler:    base,
		costing:        costing,
		accounting:     accounting,
		reconciliation: reconciliation,
		ledger:         ledger,
	}
}

// ProcessTransactions costs every uncosted transaction of the organization.
// POST /organizations/:orgId/cost-runs
func (h *CostingHandler) ProcessTransactions(c *gin.Context) {
	orgID, ok := h.ParamID(c, "orgId")
	if !ok {
		return
	}
	summary, err := h.costing.ProcessTransactions(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// CreateAccountingBatch posts unaccounted distributions to the general ledger.
// POST /organizations/:orgId/accounting-batches
func (h *CostingHandler) CreateAccountingBatch(c *gin.Context) {
	orgID, ok := h.ParamID(c, "orgId")
	if !ok {
		return
	}
	result, err := h.accounting.CreateAccountingBatch(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Reconcile compares the subledger valuation with the inventory account.
// GET /organizations/:orgId/reconciliation
func (h *CostingHandler) Reconcile(c *gin.Context) {
	orgID, ok := h.ParamID(c, "orgId")
	if !ok {
		return
	}
	result, err := h.reconciliation.ReconcileInventory(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListGLEntries returns posted journal lines.
// GET /organizations/:orgId/gl-entries
func (h *CostingHandler) ListGLEntries(c *gin.Context) {
	var query dto.GLEntryListRequest
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter(c.Param("orgId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	entries, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(entries))
}
