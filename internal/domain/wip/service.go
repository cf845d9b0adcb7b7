package wip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/numerator"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/distribution"
	"costbook/pkg/logger"
)

// StandardCostSource returns an item's standard cost in the Current scenario.
type StandardCostSource interface {
	CurrentItemCost(ctx context.Context, orgID, itemID id.ID) (types.Money, bool, error)
}

// DistributionWriter writes the WIP valuation debit of a charge.
type DistributionWriter interface {
	CreateWipDistribution(ctx context.Context, charge distribution.WipCharge) (*distribution.Distribution, error)
}

// PeriodGate rejects postings dated outside an Open cost period.
type PeriodGate interface {
	ValidateTransactionDate(ctx context.Context, orgID id.ID, date time.Time) error
}

// workOrderNumbering numbers work orders WO-YYYY-00001.
var workOrderNumbering = numerator.DefaultConfig("WO")

// Dependencies are the collaborators of the WIP service.
type Dependencies struct {
	Repo          Repository
	StandardCosts StandardCostSource
	Distributions DistributionWriter
	Gate          PeriodGate
	// Numbers assigns numbers to work orders released without one. Optional.
	Numbers   numerator.Generator
	TxManager tx.Manager
}

// Service records WIP cost events.
type Service struct {
	repo          Repository
	standardCosts StandardCostSource
	distributions DistributionWriter
	gate          PeriodGate
	numbers       numerator.Generator
	txManager     tx.Manager
}

// NewService creates a new WIP costing service.
func NewService(deps Dependencies) *Service {
	return &Service{
		repo:          deps.Repo,
		standardCosts: deps.StandardCosts,
		distributions: deps.Distributions,
		gate:          deps.Gate,
		numbers:       deps.Numbers,
		txManager:     deps.TxManager,
	}
}

// CreateWorkOrder releases a new work order. A blank number is assigned from
// the work order sequence when a generator is configured.
func (s *Service) CreateWorkOrder(ctx context.Context, orgID, assemblyID id.ID, number string, qty types.Quantity) (*WorkOrder, error) {
	wo := &WorkOrder{
		ID:             id.New(),
		OrganizationID: orgID,
		Number:         strings.TrimSpace(number),
		AssemblyID:     assemblyID,
		Quantity:       qty,
		Status:         WorkOrderReleased,
		CreatedAt:      time.Now().UTC(),
	}
	if wo.Number == "" && s.numbers != nil {
		next, err := s.numbers.GetNextNumber(ctx, workOrderNumbering,
			&numerator.Options{Strategy: numerator.StrategyCached}, wo.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("number work order: %w", err)
		}
		wo.Number = next
	}
	if err := wo.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.CreateWorkOrder(ctx, wo); err != nil {
		return nil, err
	}

	logger.Info(ctx, "work order released", "work_order_id", wo.ID, "number", wo.Number)
	return wo, nil
}

// GetWorkOrder returns a work order.
func (s *Service) GetWorkOrder(ctx context.Context, workOrderID id.ID) (*WorkOrder, error) {
	return s.repo.GetWorkOrder(ctx, workOrderID)
}

// ListTransactions returns the cost events of a work order.
func (s *Service) ListTransactions(ctx context.Context, workOrderID id.ID) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, workOrderID)
}

// ProcessMaterialIssue books material issued to a work order at the item's
// current standard cost. Without a current standard cost the issue is booked
// at zero and flagged as a cost anomaly.
func (s *Service) ProcessMaterialIssue(ctx context.Context, workOrderID, itemID id.ID, qty types.Quantity) (*Transaction, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("issue quantity must be positive")
	}
	if id.IsNil(itemID) {
		return nil, apperror.NewValidation("item is required")
	}

	var txn *Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		wo, err := s.openWorkOrder(ctx, workOrderID)
		if err != nil {
			return err
		}

		unitCost, found, err := s.standardCosts.CurrentItemCost(ctx, wo.OrganizationID, itemID)
		if err != nil {
			return fmt.Errorf("current standard cost: %w", err)
		}

		txn = newTransaction(wo, TypeMaterialIssue, qty, unitCost)
		txn.ItemID = &itemID
		if !found {
			txn.CostAnomaly = true
			logger.Warn(ctx, "no current standard cost, material issue booked at zero",
				"work_order_id", wo.ID,
				"item_id", itemID)
		}

		return s.record(ctx, txn, distribution.LineWipMaterial)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wip material issued",
		"work_order_id", workOrderID,
		"transaction_id", txn.ID,
		"item_id", itemID,
		"quantity", qty,
		"total_cost", txn.TotalCost)
	return txn, nil
}

// ProcessResourceCharge books hours × rate of a resource against a work order.
func (s *Service) ProcessResourceCharge(ctx context.Context, workOrderID, resourceID id.ID, hours types.Quantity, rate types.Money) (*Transaction, error) {
	if !hours.IsPositive() {
		return nil, apperror.NewValidation("hours must be positive")
	}
	if rate.IsNegative() {
		return nil, apperror.NewValidation("rate must not be negative")
	}
	if id.IsNil(resourceID) {
		return nil, apperror.NewValidation("resource is required")
	}

	var txn *Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		wo, err := s.openWorkOrder(ctx, workOrderID)
		if err != nil {
			return err
		}

		txn = newTransaction(wo, TypeResourceCharge, hours, rate)
		txn.ResourceID = &resourceID
		return s.record(ctx, txn, distribution.LineWipResource)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wip resource charged",
		"work_order_id", workOrderID,
		"transaction_id", txn.ID,
		"resource_id", resourceID,
		"hours", hours,
		"total_cost", txn.TotalCost)
	return txn, nil
}

func (s *Service) openWorkOrder(ctx context.Context, workOrderID id.ID) (*WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo.Status == WorkOrderClosed {
		return nil, apperror.NewInvalidState("work_order", wo.Status, "work order is closed").
			WithDetail("work_order_id", workOrderID)
	}
	return wo, nil
}

// record gates, stores and distributes a WIP event. Zero-cost events carry no distribution.
func (s *Service) record(ctx context.Context, txn *Transaction, line distribution.LineType) error {
	if s.gate != nil {
		if err := s.gate.ValidateTransactionDate(ctx, txn.OrganizationID, txn.TransactionDate); err != nil {
			return err
		}
	}

	if err := s.repo.InsertTransaction(ctx, txn); err != nil {
		return fmt.Errorf("insert wip transaction: %w", err)
	}

	if txn.TotalCost.IsZero() {
		return nil
	}
	_, err := s.distributions.CreateWipDistribution(ctx, distribution.WipCharge{
		OrganizationID: txn.OrganizationID,
		TransactionID:  txn.ID,
		LineType:       line,
		Amount:         txn.TotalCost,
		Date:           txn.TransactionDate,
	})
	return err
}
