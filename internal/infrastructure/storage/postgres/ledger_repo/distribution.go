package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/domain/distribution"
	"costbook/internal/infrastructure/storage/postgres"
)

const distributionTable = "cst_distributions"

// DistributionRepo implements distribution.Repository.
type DistributionRepo struct {
	rows     postgres.Table[distribution.Distribution]
	inserter *postgres.BatchInserter
}

// NewDistributionRepo creates a new distribution repository.
func NewDistributionRepo(txManager *postgres.TxManager) *DistributionRepo {
	return &DistributionRepo{
		rows:     postgres.NewTable[distribution.Distribution](txManager, distributionTable, "distribution"),
		inserter: postgres.NewBatchInserter(txManager),
	}
}

// Insert implements distribution.Repository. Rows are copied in the caller's transaction.
func (r *DistributionRepo) Insert(ctx context.Context, rows []distribution.Distribution) error {
	if _, err := postgres.CopyStructs(ctx, r.inserter, distributionTable, rows); err != nil {
		return fmt.Errorf("insert distributions: %w", err)
	}
	return nil
}

// ListUnaccounted implements distribution.Repository.
func (r *DistributionRepo) ListUnaccounted(ctx context.Context, orgID id.ID) ([]distribution.Distribution, error) {
	return r.rows.List(ctx, r.unaccountedQuery(orgID))
}

func (r *DistributionRepo) unaccountedQuery(orgID id.ID) squirrel.SelectBuilder {
	return r.rows.Select().
		Where(squirrel.Eq{"organization_id": orgID, "accounted": false}).
		OrderBy("source_type", "transaction_id", "created_at", "id")
}

// MarkAccounted implements distribution.Repository. Rows flipped by a concurrent
// batch are not counted, which the caller detects as a short count.
func (r *DistributionRepo) MarkAccounted(ctx context.Context, ids []id.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := postgres.Builder().
		Update(distributionTable).
		Set("accounted", true).
		Set("status", distribution.StatusAccounted).
		Where(squirrel.Expr("id = ANY(?)", ids)).
		Where(squirrel.Eq{"accounted": false})

	n, err := r.rows.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("mark distributions accounted: %w", err)
	}
	return n, nil
}

// ListByTransaction implements distribution.Repository.
func (r *DistributionRepo) ListByTransaction(ctx context.Context, sourceType distribution.SourceType, txnID id.ID) ([]distribution.Distribution, error) {
	q := r.rows.Select().
		Where(squirrel.Eq{"source_type": sourceType, "transaction_id": txnID}).
		OrderBy("created_at", "id")
	return r.rows.List(ctx, q)
}
