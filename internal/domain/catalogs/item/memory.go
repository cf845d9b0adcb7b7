package item

import (
	"context"
	"sync"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu      sync.Mutex
	items   map[id.ID]Item
	lots    map[id.ID]Lot
	serials map[id.ID]Serial
}

// NewMemoryRepository creates an empty in-memory catalog.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:   make(map[id.ID]Item),
		lots:    make(map[id.ID]Lot),
		serials: make(map[id.ID]Serial),
	}
}

// Create implements Repository.
func (r *MemoryRepository) Create(_ context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

// CreateLot implements Repository.
func (r *MemoryRepository) CreateLot(_ context.Context, lot *Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = *lot
	return nil
}

// CreateSerial implements Repository.
func (r *MemoryRepository) CreateSerial(_ context.Context, serial *Serial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serials[serial.ID] = *serial
	return nil
}

// GetByID implements Repository.
func (r *MemoryRepository) GetByID(_ context.Context, orgID, itemID id.ID) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[itemID]
	if !ok || it.OrganizationID != orgID {
		return nil, apperror.NewNotFound("item", itemID)
	}
	return &it, nil
}

// GetForUpdate implements Repository.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, orgID, itemID id.ID) (*Item, error) {
	return r.GetByID(ctx, orgID, itemID)
}

// IncrementOnHand implements Repository.
func (r *MemoryRepository) IncrementOnHand(_ context.Context, itemID id.ID, delta types.Quantity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID)
	}
	it.QuantityOnHand += delta
	r.items[itemID] = it
	return nil
}

// LotExists implements Repository.
func (r *MemoryRepository) LotExists(_ context.Context, itemID, lotID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[lotID]
	return ok && lot.ItemID == itemID, nil
}

// SerialExists implements Repository.
func (r *MemoryRepository) SerialExists(_ context.Context, itemID, serialID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.serials[serialID]
	return ok && s.ItemID == itemID, nil
}
