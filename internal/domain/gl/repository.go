package gl

import (
	"context"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

// Repository defines operations for general ledger storage.
type Repository interface {
	// Insert appends entries in one bulk write.
	Insert(ctx context.Context, entries []Entry) error

	// AccountNet returns debits minus credits booked to account.
	AccountNet(ctx context.Context, orgID id.ID, account string) (types.Money, error)

	List(ctx context.Context, filter Filter) ([]Entry, error)
}
