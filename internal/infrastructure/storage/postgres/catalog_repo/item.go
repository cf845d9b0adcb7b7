package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/catalogs/item"
	"costbook/internal/infrastructure/storage/postgres"
)

const (
	itemTable   = "cat_items"
	lotTable    = "cat_item_lots"
	serialTable = "cat_item_serials"
)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	items   postgres.Table[item.Item]
	lots    postgres.Table[item.Lot]
	serials postgres.Table[item.Serial]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		items:   postgres.NewTable[item.Item](txManager, itemTable, "item"),
		lots:    postgres.NewTable[item.Lot](txManager, lotTable, "lot"),
		serials: postgres.NewTable[item.Serial](txManager, serialTable, "serial"),
	}
}

// Create implements item.Repository.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.items.Insert(ctx, it)
}

// CreateLot implements item.Repository.
func (r *ItemRepo) CreateLot(ctx context.Context, lot *item.Lot) error {
	return r.lots.Insert(ctx, lot)
}

// CreateSerial implements item.Repository.
func (r *ItemRepo) CreateSerial(ctx context.Context, serial *item.Serial) error {
	return r.serials.Insert(ctx, serial)
}

// GetByID implements item.Repository.
func (r *ItemRepo) GetByID(ctx context.Context, orgID, itemID id.ID) (*item.Item, error) {
	return r.items.Get(ctx, r.byOrg(orgID, itemID), itemID)
}

// GetForUpdate implements item.Repository.
func (r *ItemRepo) GetForUpdate(ctx context.Context, orgID, itemID id.ID) (*item.Item, error) {
	return r.items.Get(ctx, r.byOrg(orgID, itemID).Suffix("FOR UPDATE"), itemID)
}

func (r *ItemRepo) byOrg(orgID, itemID id.ID) squirrel.SelectBuilder {
	return r.items.Select().Where(squirrel.Eq{"id": itemID, "organization_id": orgID})
}

// IncrementOnHand implements item.Repository.
func (r *ItemRepo) IncrementOnHand(ctx context.Context, itemID id.ID, delta types.Quantity) error {
	q := postgres.Builder().
		Update(itemTable).
		Set("quantity_on_hand", squirrel.Expr("quantity_on_hand + ?", delta)).
		Where(squirrel.Eq{"id": itemID})

	n, err := r.items.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("increment on hand: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound("item", itemID)
	}
	return nil
}

// LotExists implements item.Repository.
func (r *ItemRepo) LotExists(ctx context.Context, itemID, lotID id.ID) (bool, error) {
	return r.lots.Exists(ctx, squirrel.Eq{"id": lotID, "item_id": itemID})
}

// SerialExists implements item.Repository.
func (r *ItemRepo) SerialExists(ctx context.Context, itemID, serialID id.ID) (bool, error) {
	return r.serials.Exists(ctx, squirrel.Eq{"id": serialID, "item_id": itemID})
}
