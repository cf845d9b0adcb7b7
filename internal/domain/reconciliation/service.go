// Package reconciliation compares the inventory subledger valuation with the
// general ledger balance of the inventory asset account.
package reconciliation

import (
	"context"
	"fmt"
	"time"

	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/pkg/logger"
)

// Status is the outcome of a reconciliation.
type Status string

const (
	StatusMatch    Status = "MATCH"
	StatusVariance Status = "VARIANCE"
)

// DefaultTolerance bounds (exclusive) the absolute variance still reported as a match.
var DefaultTolerance = types.MustMoney("0.01")

// Valuation values the on-hand quantity of an organization at current item cost.
type Valuation interface {
	InventoryValue(ctx context.Context, orgID, costBookID id.ID) (types.Money, error)
}

// AccountBalances returns the net balance (debits minus credits) of a GL account.
type AccountBalances interface {
	AccountNet(ctx context.Context, orgID id.ID, account string) (types.Money, error)
}

// CostBookResolver resolves the primary cost book of an inventory organization.
type CostBookResolver interface {
	PrimaryCostBookID(ctx context.Context, orgID id.ID) (id.ID, error)
}

// Result is the reconciliation report of one organization.
type Result struct {
	OrganizationID   id.ID       `json:"organizationId"`
	InventoryAccount string      `json:"inventoryAccount"`
	SubledgerValue   types.Money `json:"subledgerValue"`
	GLValue          types.Money `json:"glValue"`
	Variance         types.Money `json:"variance"`
	Status           Status      `json:"status"`
	ReconciledAt     time.Time   `json:"reconciledAt"`
}

// Service is a read-only diagnostic; it never mutates state.
type Service struct {
	valuation        Valuation
	ledger           AccountBalances
	books            CostBookResolver
	inventoryAccount string
	tolerance        types.Money
	txManager        tx.Manager
}

// NewService creates a new reconciliation service for the given inventory asset account.
func NewService(valuation Valuation, ledger AccountBalances, books CostBookResolver, inventoryAccount string, txManager tx.Manager) *Service {
	return &Service{
		valuation:        valuation,
		ledger:           ledger,
		books:            books,
		inventoryAccount: inventoryAccount,
		tolerance:        DefaultTolerance,
		txManager:        txManager,
	}
}

// WithTolerance overrides the match tolerance.
func (s *Service) WithTolerance(tolerance types.Money) *Service {
	if tolerance.IsPositive() {
		s.tolerance = tolerance
	}
	return s
}

// ReconcileInventory reads both sides within one read-only snapshot.
func (s *Service) ReconcileInventory(ctx context.Context, orgID id.ID) (*Result, error) {
	res := &Result{OrganizationID: orgID, InventoryAccount: s.inventoryAccount}

	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		bookID, err := s.books.PrimaryCostBookID(ctx, orgID)
		if err != nil {
			return err
		}

		res.SubledgerValue, err = s.valuation.InventoryValue(ctx, orgID, bookID)
		if err != nil {
			return fmt.Errorf("inventory value: %w", err)
		}
		res.GLValue, err = s.ledger.AccountNet(ctx, orgID, s.inventoryAccount)
		if err != nil {
			return fmt.Errorf("gl account net: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.SubledgerValue = types.RoundAmount(res.SubledgerValue)
	res.Variance = res.SubledgerValue.Sub(res.GLValue)
	res.Status = StatusMatch
	if res.Variance.Abs().GreaterThanOrEqual(s.tolerance) {
		res.Status = StatusVariance
	}
	res.ReconciledAt = time.Now().UTC()

	logger.Info(ctx, "inventory reconciled",
		"organization_id", orgID,
		"subledger_value", res.SubledgerValue,
		"gl_value", res.GLValue,
		"variance", res.Variance,
		"status", res.Status)

	return res, nil
}
