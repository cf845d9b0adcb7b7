package material

import (
	"context"
	"fmt"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain"
	"costbook/internal/domain/catalogs/item"
	"costbook/internal/domain/catalogs/subinventory"
	"costbook/internal/domain/registers/onhand"
	"costbook/pkg/logger"
)

// PeriodGate rejects postings dated outside an Open cost period.
type PeriodGate interface {
	ValidateTransactionDate(ctx context.Context, orgID id.ID, date time.Time) error
}

// CostProcessor recomputes the item cost for a movement and returns the unit cost
// the movement is booked at. preQty is the organization quantity before the movement.
type CostProcessor interface {
	ProcessTransactionCost(ctx context.Context, txn *Transaction, preQty types.Quantity) (types.Money, error)
}

// DistributionWriter writes the draft accounting distributions of a costed movement.
type DistributionWriter interface {
	CreateMaterialDistributions(ctx context.Context, txn *Transaction, unitCost types.Money) error
}

// PriceResolver resolves the unit cost of a PO receipt from its purchase order line.
type PriceResolver interface {
	ResolveUnitCost(ctx context.Context, orgID, itemID id.ID, source SourceDocument) (types.Money, error)
}

// Dependencies are the collaborators of the ledger service.
type Dependencies struct {
	Repo           Repository
	Items          item.Repository
	Subinventories subinventory.Repository
	Balances       *onhand.Service
	Gate           PeriodGate
	Coster         CostProcessor
	Distributions  DistributionWriter
	Prices         PriceResolver
	TxManager      tx.Manager
}

// Service records physical movements together with their financial consequence.
type Service struct {
	repo           Repository
	items          item.Repository
	subinventories subinventory.Repository
	balances       *onhand.Service
	gate           PeriodGate
	coster         CostProcessor
	distributions  DistributionWriter
	prices         PriceResolver
	txManager      tx.Manager
}

// NewService creates a new transaction ledger service.
func NewService(deps Dependencies) *Service {
	return &Service{
		repo:           deps.Repo,
		items:          deps.Items,
		subinventories: deps.Subinventories,
		balances:       deps.Balances,
		gate:           deps.Gate,
		coster:         deps.Coster,
		distributions:  deps.Distributions,
		prices:         deps.Prices,
		txManager:      deps.TxManager,
	}
}

// ExecuteTransaction records a movement atomically: the ledger row, the balance
// updates, costing, distributions and the item's aggregate quantity either all
// land or none do. The cost period gate runs before any write.
func (s *Service) ExecuteTransaction(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}
	posted := *req
	if posted.TransactionDate.IsZero() {
		posted.TransactionDate = time.Now().UTC()
	}
	req = &posted

	result := &Result{}
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.gate.ValidateTransactionDate(ctx, req.OrganizationID, req.TransactionDate); err != nil {
			return err
		}

		// The item row lock serializes concurrent postings of one item, so the
		// quantity read here is the pre-movement quantity costing blends against.
		itm, err := s.items.GetForUpdate(ctx, req.OrganizationID, req.ItemID)
		if err != nil {
			return err
		}
		preQty := itm.QuantityOnHand

		if err := s.checkReferences(ctx, req); err != nil {
			return err
		}

		txn := NewTransaction(req)
		if txn.Type == TypePOReceipt && txn.UnitCost == nil {
			if err := s.resolvePrice(ctx, txn); err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		deltas := txn.Deltas()
		if err := s.balances.ApplyDeltas(ctx, deltas); err != nil {
			return err
		}

		if txn.Type.IsFinancial() && !txn.CostingDeferred {
			unitCost, err := s.coster.ProcessTransactionCost(ctx, txn, preQty)
			if err != nil {
				return fmt.Errorf("process transaction cost: %w", err)
			}
			if err := s.distributions.CreateMaterialDistributions(ctx, txn, unitCost); err != nil {
				return fmt.Errorf("create distributions: %w", err)
			}
			result.BookedUnitCost = &unitCost
		}

		if net := onhand.NetQuantity(deltas); !net.IsZero() {
			if err := s.items.IncrementOnHand(ctx, itm.ID, net); err != nil {
				return fmt.Errorf("increment on hand: %w", err)
			}
		}

		result.Transaction = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "material transaction executed",
		"transaction_id", result.Transaction.ID,
		"type", result.Transaction.Type,
		"item_id", result.Transaction.ItemID,
		"quantity", result.Transaction.Quantity,
		"deferred", result.Transaction.CostingDeferred)

	return result, nil
}

func (s *Service) resolvePrice(ctx context.Context, txn *Transaction) error {
	if s.prices == nil {
		return apperror.NewValidation("PO receipt requires a unit cost")
	}
	price, err := s.prices.ResolveUnitCost(ctx, txn.OrganizationID, txn.ItemID, txn.SourceDocument)
	if err != nil {
		return err
	}
	txn.UnitCost = &price
	return nil
}

// checkReferences fails with NotFound on any dangling master data reference.
func (s *Service) checkReferences(ctx context.Context, req *Request) error {
	if err := s.checkLocation(ctx, req.OrganizationID, req.SubinventoryID, req.LocatorID); err != nil {
		return err
	}
	if req.Transfer != nil {
		if err := s.checkLocation(ctx, req.OrganizationID, req.Transfer.SubinventoryID, req.Transfer.LocatorID); err != nil {
			return err
		}
	}

	if req.LotID != nil {
		ok, err := s.items.LotExists(ctx, req.ItemID, *req.LotID)
		if err != nil {
			return fmt.Errorf("check lot: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("lot", *req.LotID)
		}
	}

	if req.SerialID != nil {
		ok, err := s.items.SerialExists(ctx, req.ItemID, *req.SerialID)
		if err != nil {
			return fmt.Errorf("check serial: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("serial", *req.SerialID)
		}
	}

	return nil
}

func (s *Service) checkLocation(ctx context.Context, orgID, subinventoryID id.ID, locatorID *id.ID) error {
	ok, err := s.subinventories.Exists(ctx, orgID, subinventoryID)
	if err != nil {
		return fmt.Errorf("check subinventory: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("subinventory", subinventoryID)
	}

	if locatorID != nil {
		ok, err := s.subinventories.LocatorExists(ctx, subinventoryID, *locatorID)
		if err != nil {
			return fmt.Errorf("check locator: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("locator", *locatorID)
		}
	}
	return nil
}

// GetByID returns a ledger entry.
func (s *Service) GetByID(ctx context.Context, txnID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txnID)
}

// List returns ledger entries of an organization.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[Transaction], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
