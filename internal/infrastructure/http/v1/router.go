// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"costbook/internal/domain/approval"
	"costbook/internal/domain/catalogs/organization"
	"costbook/internal/domain/costing"
	"costbook/internal/domain/costperiod"
	"costbook/internal/domain/documents/landedcost"
	"costbook/internal/domain/documents/material"
	"costbook/internal/domain/gl"
	"costbook/internal/domain/reconciliation"
	"costbook/internal/domain/scenario"
	"costbook/internal/domain/sla"
	"costbook/internal/domain/wip"
	"costbook/internal/infrastructure/http/v1/handlers"
	"costbook/internal/infrastructure/http/v1/middleware"
	"costbook/pkg/logger"
)

// RouterConfig holds the services exposed by the admin API.
type RouterConfig struct {
	Logger  *logger.Logger
	Pool    handlers.Pinger
	Version string

	// Idempotency enables replay of POSTs carrying X-Idempotency-Key when set
	Idempotency middleware.IdempotencyStore

	// Audit serves the history endpoints when set
	Audit handlers.AuditHistory

	Organizations  *organization.Service
	Transactions   *material.Service
	Costing        *costing.Service
	Accounting     *sla.Engine
	Reconciliation *reconciliation.Service
	Ledger         gl.Repository
	Periods        *costperiod.Service
	Scenarios      *scenario.Service
	Approvals      *approval.Service
	LandedCost     *landedcost.Service
	WIP            *wip.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Actor())
	if cfg.Idempotency != nil {
		v1.Use(middleware.Idempotency(cfg.Idempotency))
	}

	base := handlers.NewBaseHandler()
	registerOrganizationRoutes(v1, handlers.NewOrganizationHandler(base, cfg.Organizations))
	registerTransactionRoutes(v1, handlers.NewTransactionHandler(base, cfg.Transactions))
	registerCostingRoutes(v1, handlers.NewCostingHandler(base, cfg.Costing, cfg.Accounting, cfg.Reconciliation, cfg.Ledger))
	registerPeriodRoutes(v1, handlers.NewPeriodHandler(base, cfg.Periods))
	registerScenarioRoutes(v1, handlers.NewScenarioHandler(base, cfg.Scenarios, cfg.Audit))
	registerApprovalRoutes(v1, handlers.NewApprovalHandler(base, cfg.Approvals, cfg.Audit))
	registerLandedCostRoutes(v1, handlers.NewLandedCostHandler(base, cfg.LandedCost))
	registerWIPRoutes(v1, handlers.NewWIPHandler(base, cfg.WIP))

	return router
}
