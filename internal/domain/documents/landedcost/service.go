package landedcost

import (
	"context"
	"fmt"

	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/internal/domain/documents/material"
	"costbook/pkg/logger"
)

// Service allocates landed cost charges to receipts.
type Service struct {
	repo      Repository
	receipts  ReceiptSource
	txManager tx.Manager
}

// NewService creates a new landed cost service.
func NewService(repo Repository, receipts ReceiptSource, txManager tx.Manager) *Service {
	return &Service{repo: repo, receipts: receipts, txManager: txManager}
}

// AddCharge records a charge against a purchase order.
func (s *Service) AddCharge(ctx context.Context, charge *Charge) error {
	if err := charge.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(charge.ID) {
		charge.ID = id.New()
	}
	if err := s.repo.CreateCharge(ctx, charge); err != nil {
		return fmt.Errorf("create charge: %w", err)
	}
	logger.Info(ctx, "landed cost charge added",
		"charge_id", charge.ID,
		"purchase_order_id", charge.PurchaseOrderID,
		"amount", charge.Amount)
	return nil
}

// AllocateChargesToReceipt returns the total landed cost allocated to each receipt
// line of the purchase order. Read-only.
func (s *Service) AllocateChargesToReceipt(ctx context.Context, purchaseOrderID id.ID) (Allocation, error) {
	var result Allocation
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		charges, err := s.repo.ListCharges(ctx, purchaseOrderID)
		if err != nil {
			return fmt.Errorf("list charges: %w", err)
		}
		lines, err := s.receipts.ReceiptLines(ctx, purchaseOrderID)
		if err != nil {
			return fmt.Errorf("list receipt lines: %w", err)
		}
		result, err = Allocate(charges, lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LedgerReceipts derives receipt lines from the PO receipts recorded in the
// transaction ledger: each receipt transaction is one line at its unit cost.
type LedgerReceipts struct {
	ledger material.Repository
}

// NewLedgerReceipts creates a ReceiptSource over the transaction ledger.
func NewLedgerReceipts(ledger material.Repository) *LedgerReceipts {
	return &LedgerReceipts{ledger: ledger}
}

// ReceiptLines implements ReceiptSource.
func (r *LedgerReceipts) ReceiptLines(ctx context.Context, purchaseOrderID id.ID) ([]ReceiptLine, error) {
	txns, err := r.ledger.ListReceiptsBySource(ctx, purchaseOrderID)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptLine, 0, len(txns))
	for _, t := range txns {
		line := ReceiptLine{ID: t.ID, ItemID: t.ItemID, Quantity: t.Quantity}
		if t.UnitCost != nil {
			line.UnitPrice = *t.UnitCost
		}
		lines = append(lines, line)
	}
	return lines, nil
}
