package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/gl"
	"costbook/internal/infrastructure/storage/postgres"
)

const glEntryTable = "gl_entries"

// GLRepo implements gl.Repository.
type GLRepo struct {
	entries  postgres.Table[gl.Entry]
	inserter *postgres.BatchInserter
}

// NewGLRepo creates a new general ledger repository.
func NewGLRepo(txManager *postgres.TxManager) *GLRepo {
	return &GLRepo{
		entries:  postgres.NewTable[gl.Entry](txManager, glEntryTable, "gl_entry"),
		inserter: postgres.NewBatchInserter(txManager),
	}
}

// Insert implements gl.Repository.
func (r *GLRepo) Insert(ctx context.Context, entries []gl.Entry) error {
	if _, err := postgres.CopyStructs(ctx, r.inserter, glEntryTable, entries); err != nil {
		return fmt.Errorf("insert gl entries: %w", err)
	}
	return nil
}

// AccountNet implements gl.Repository.
func (r *GLRepo) AccountNet(ctx context.Context, orgID id.ID, account string) (types.Money, error) {
	sql, args, err := accountNetQuery(orgID, account).ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var net types.Money
	if err := r.entries.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&net); err != nil {
		return types.Zero(), fmt.Errorf("account net: %w", err)
	}
	return net, nil
}

func accountNetQuery(orgID id.ID, account string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select().
		Column(squirrel.Expr(
			"COALESCE(SUM(CASE WHEN debit_account = ? THEN debit_amount ELSE 0 END), 0) - "+
				"COALESCE(SUM(CASE WHEN credit_account = ? THEN credit_amount ELSE 0 END), 0)",
			account, account)).
		From(glEntryTable).
		Where(squirrel.Eq{"organization_id": orgID}).
		Where(squirrel.Or{
			squirrel.Eq{"debit_account": account},
			squirrel.Eq{"credit_account": account},
		})
}

// List implements gl.Repository.
func (r *GLRepo) List(ctx context.Context, filter gl.Filter) ([]gl.Entry, error) {
	q := r.entries.Select().Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	if filter.TransactionID != nil {
		q = q.Where(squirrel.Eq{"transaction_id": *filter.TransactionID})
	}
	if filter.Account != "" {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"debit_account": filter.Account},
			squirrel.Eq{"credit_account": filter.Account},
		})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"accounting_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"accounting_date": *filter.To})
	}
	q = q.OrderBy("posted_at", "id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return r.entries.List(ctx, q)
}
