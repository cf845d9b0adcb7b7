package v1

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/infrastructure/http/v1/handlers"
)

// Organization-scoped routes use :orgId (inventory organization) and
// :costOrgId (cost organization); resource routes use :id.

func registerOrganizationRoutes(rg *gin.RouterGroup, h *handlers.OrganizationHandler) {
	rg.GET("/organizations", h.List)
	rg.POST("/organizations", h.Onboard)
}

func registerTransactionRoutes(rg *gin.RouterGroup, h *handlers.TransactionHandler) {
	rg.POST("/organizations/:orgId/transactions", h.Execute)
	rg.GET("/organizations/:orgId/transactions", h.List)
	rg.GET("/transactions/:id", h.Get)
}

func registerCostingRoutes(rg *gin.RouterGroup, h *handlers.CostingHandler) {
	rg.POST("/organizations/:orgId/cost-runs", h.ProcessTransactions)
	rg.POST("/organizations/:orgId/accounting-batches", h.CreateAccountingBatch)
	rg.GET("/organizations/:orgId/reconciliation", h.Reconcile)
	rg.GET("/organizations/:orgId/gl-entries", h.ListGLEntries)
}

func registerPeriodRoutes(rg *gin.RouterGroup, h *handlers.PeriodHandler) {
	rg.POST("/cost-organizations/:costOrgId/periods", h.Create)
	rg.GET("/cost-organizations/:costOrgId/periods", h.List)

	periods := rg.Group("/periods/:id")
	periods.POST("/open", h.Open)
	periods.POST("/close", h.Close)
	periods.POST("/permanently-close", h.PermanentlyClose)
}

func registerScenarioRoutes(rg *gin.RouterGroup, h *handlers.ScenarioHandler) {
	rg.POST("/cost-organizations/:costOrgId/scenarios", h.Create)
	rg.GET("/cost-organizations/:costOrgId/scenarios", h.List)

	scenarios := rg.Group("/scenarios/:id")
	scenarios.GET("", h.Get)
	scenarios.POST("/costs", h.DefineCost)
	scenarios.POST("/publish", h.Publish)
	scenarios.POST("/freeze", h.Freeze)
	scenarios.GET("/history", h.History)
}

func registerApprovalRoutes(rg *gin.RouterGroup, h *handlers.ApprovalHandler) {
	rg.GET("/approvals", h.ListPending)

	approvals := rg.Group("/approvals/:id")
	approvals.GET("", h.Get)
	approvals.POST("/approve", h.Approve)
	approvals.POST("/reject", h.Reject)
	approvals.GET("/history", h.History)
}

func registerLandedCostRoutes(rg *gin.RouterGroup, h *handlers.LandedCostHandler) {
	orders := rg.Group("/purchase-orders/:id")
	orders.POST("/charges", h.AddCharge)
	orders.GET("/allocation", h.Allocate)
}

func registerWIPRoutes(rg *gin.RouterGroup, h *handlers.WIPHandler) {
	rg.POST("/organizations/:orgId/work-orders", h.CreateWorkOrder)

	orders := rg.Group("/work-orders/:id")
	orders.GET("", h.GetWorkOrder)
	orders.GET("/transactions", h.ListTransactions)
	orders.POST("/material-issues", h.MaterialIssue)
	orders.POST("/resource-charges", h.ResourceCharge)
}
