package distribution

import (
	"context"

	"costbook/internal/core/id"
)

// Repository defines operations for distribution storage.
type Repository interface {
	Insert(ctx context.Context, rows []Distribution) error

	// ListUnaccounted returns every unaccounted distribution of an organization,
	// ordered by (source type, transaction id, created at, id).
	ListUnaccounted(ctx context.Context, orgID id.ID) ([]Distribution, error)

	// MarkAccounted flips the given unaccounted rows to accounted and returns the
	// number of rows changed. Rows already accounted are not counted.
	MarkAccounted(ctx context.Context, ids []id.ID) (int64, error)

	ListByTransaction(ctx context.Context, sourceType SourceType, txnID id.ID) ([]Distribution, error)
}
