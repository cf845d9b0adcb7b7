package costing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"costbook/internal/core/id"
	"costbook/internal/core/lock"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/catalogs/item"
	"costbook/internal/domain/documents/material"
	"costbook/internal/domain/registers/itemcost"
	"costbook/pkg/logger"
)

var tracer = otel.Tracer("costbook/costing")

// DefaultPageSize is the batch page size when none is configured.
const DefaultPageSize = 500

// CostBookResolver resolves the primary cost book of an inventory organization.
type CostBookResolver interface {
	PrimaryCostBookID(ctx context.Context, orgID id.ID) (id.ID, error)
}

// DistributionBuilder writes distributions for a movement booked at unitCost.
type DistributionBuilder interface {
	CreateMaterialDistributions(ctx context.Context, txn *material.Transaction, unitCost types.Money) error
}

// Dependencies are the collaborators of the cost processor.
type Dependencies struct {
	Costs         itemcost.Repository
	Books         CostBookResolver
	Ledger        material.Repository
	Items         item.Repository
	Distributions DistributionBuilder
	Locker        lock.Locker
	TxManager     tx.Manager
	PageSize      int
}

// Service is the weighted-average cost processor.
type Service struct {
	costs         itemcost.Repository
	books         CostBookResolver
	ledger        material.Repository
	items         item.Repository
	distributions DistributionBuilder
	locker        lock.Locker
	txManager     tx.Manager
	pageSize      int
}

// NewService creates a new cost processor.
func NewService(deps Dependencies) *Service {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		costs:         deps.Costs,
		books:         deps.Books,
		ledger:        deps.Ledger,
		items:         deps.Items,
		distributions: deps.Distributions,
		locker:        deps.Locker,
		txManager:     deps.TxManager,
		pageSize:      pageSize,
	}
}

var _ material.CostProcessor = (*Service)(nil)

// ProcessTransactionCost locks the item cost row and returns the unit cost the
// movement is booked at. Receipts blend their incoming cost into the average using
// preQty, the quantity before the movement; issues are booked at the current average
// and leave it unchanged. Must run inside the movement's transaction.
func (s *Service) ProcessTransactionCost(ctx context.Context, txn *material.Transaction, preQty types.Quantity) (types.Money, error) {
	key, err := s.costKey(ctx, txn.OrganizationID, txn.ItemID)
	if err != nil {
		return types.Zero(), err
	}

	current, err := s.costs.GetForUpdate(ctx, key)
	if err != nil {
		return types.Zero(), fmt.Errorf("lock item cost: %w", err)
	}

	booked, newAvg := apply(txn, preQty, current.UnitCost)
	if !newAvg.Equal(current.UnitCost) {
		if err := s.costs.Upsert(ctx, key, newAvg); err != nil {
			return types.Zero(), fmt.Errorf("update item cost: %w", err)
		}
		logger.Debug(ctx, "item cost recomputed",
			"item_id", txn.ItemID,
			"old_cost", current.UnitCost,
			"new_cost", newAvg,
			"pre_qty", preQty)
	}

	return booked, nil
}

// apply returns the booked unit cost of txn and the average after it.
func apply(txn *material.Transaction, preQty types.Quantity, avg types.Money) (booked, newAvg types.Money) {
	if !txn.Type.IsReceipt() {
		return avg, avg
	}
	incoming := avg
	if txn.UnitCost != nil {
		incoming = *txn.UnitCost
	}
	return incoming, WeightedAverage(preQty, avg, txn.Quantity, incoming)
}

func (s *Service) costKey(ctx context.Context, orgID, itemID id.ID) (itemcost.Key, error) {
	bookID, err := s.books.PrimaryCostBookID(ctx, orgID)
	if err != nil {
		return itemcost.Key{}, err
	}
	return itemcost.Key{OrganizationID: orgID, ItemID: itemID, CostBookID: bookID}, nil
}

// BatchSummary reports a ProcessTransactions run.
type BatchSummary struct {
	OrganizationID id.ID `json:"organizationId"`
	Transactions   int   `json:"transactions"`
	ItemsUpdated   int   `json:"itemsUpdated"`
	Pages          int   `json:"pages"`
}

// runningCost is the per-item state carried across pages. onHand and synced
// record the item quantity and stored average last seen under lock; a mismatch
// on the next page means a live posting committed in between.
type runningCost struct {
	key    itemcost.Key
	qty    types.Quantity
	avg    types.Money
	onHand types.Quantity
	synced types.Money
}

// ProcessTransactions costs every financial transaction of the organization that
// has no distributions yet, page by page in (date, id) order. Per-item running
// quantity and average are carried across pages; each page locks the item and
// cost rows it touches and rebases the state when a live posting moved them.
// Runs are serialized per organization through the batch lock.
func (s *Service) ProcessTransactions(ctx context.Context, orgID id.ID) (*BatchSummary, error) {
	ctx, span := tracer.Start(ctx, "costing.process_transactions",
		trace.WithAttributes(attribute.String("organization.id", orgID.String())))
	defer span.End()

	release, err := s.locker.Acquire(ctx, lock.Key("cost-processor", orgID))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "release cost processor lock failed", "error", err)
		}
	}()

	summary := &BatchSummary{OrganizationID: orgID}
	state := make(map[id.ID]*runningCost)
	updated := make(map[id.ID]struct{})
	var cursor *material.Cursor

	for {
		var page []material.Transaction
		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			var err error
			page, err = s.ledger.ListUncosted(ctx, orgID, cursor, s.pageSize)
			if err != nil {
				return fmt.Errorf("list uncosted transactions: %w", err)
			}

			touched := make(map[id.ID]*runningCost)
			for i := range page {
				txn := &page[i]
				rc, ok := touched[txn.ItemID]
				if !ok {
					if rc, err = s.running(ctx, state, txn); err != nil {
						return err
					}
				}

				booked, newAvg := apply(txn, rc.qty, rc.avg)
				rc.avg = newAvg
				rc.qty += txn.Quantity

				if err := s.distributions.CreateMaterialDistributions(ctx, txn, booked); err != nil {
					return fmt.Errorf("create distributions for %s: %w", txn.ID, err)
				}
				touched[txn.ItemID] = rc
			}

			// Rows are locked since running; the page owns them until commit.
			for itemID, rc := range touched {
				if err := s.costs.Upsert(ctx, rc.key, rc.avg); err != nil {
					return fmt.Errorf("update item cost: %w", err)
				}
				rc.synced = rc.avg
				updated[itemID] = struct{}{}
			}
			return nil
		})
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		if len(page) == 0 {
			break
		}
		summary.Pages++
		summary.Transactions += len(page)
		last := page[len(page)-1]
		cursor = &material.Cursor{Date: last.TransactionDate, ID: last.ID}

		if len(page) < s.pageSize {
			break
		}
	}

	summary.ItemsUpdated = len(updated)
	span.SetAttributes(attribute.Int("costing.transactions", summary.Transactions))

	logger.Info(ctx, "cost processor run completed",
		"organization_id", orgID,
		"transactions", summary.Transactions,
		"items_updated", summary.ItemsUpdated,
		"pages", summary.Pages)

	return summary, nil
}

// running locks the item and its cost row for the current page and returns the
// running state. The carried state is kept while the locked rows still match
// what the batch last saw; otherwise it is (re)initialised as (on hand minus
// every pending quantity, locked cost).
func (s *Service) running(ctx context.Context, state map[id.ID]*runningCost, txn *material.Transaction) (*runningCost, error) {
	itm, err := s.items.GetForUpdate(ctx, txn.OrganizationID, txn.ItemID)
	if err != nil {
		return nil, err
	}

	rc, seen := state[txn.ItemID]
	var key itemcost.Key
	if seen {
		key = rc.key
	} else {
		key, err = s.costKey(ctx, txn.OrganizationID, txn.ItemID)
		if err != nil {
			return nil, err
		}
	}

	current, err := s.costs.GetForUpdate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lock item cost: %w", err)
	}
	if seen && itm.QuantityOnHand == rc.onHand && current.UnitCost.Equal(rc.synced) {
		return rc, nil
	}

	pending, err := s.ledger.PendingQuantity(ctx, txn.OrganizationID, txn.ItemID)
	if err != nil {
		return nil, fmt.Errorf("pending quantity: %w", err)
	}
	if seen {
		logger.Warn(ctx, "item moved outside the cost batch, rebasing",
			"item_id", txn.ItemID,
			"carried_cost", rc.avg,
			"locked_cost", current.UnitCost,
			"carried_on_hand", rc.onHand,
			"locked_on_hand", itm.QuantityOnHand)
	}

	rc = &runningCost{
		key:    key,
		qty:    itm.QuantityOnHand - pending,
		avg:    current.UnitCost,
		onHand: itm.QuantityOnHand,
		synced: current.UnitCost,
	}
	state[txn.ItemID] = rc
	return rc, nil
}
