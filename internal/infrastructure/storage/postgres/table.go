package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"costbook/internal/core/apperror"
)

const uniqueViolation = "23505"

// Builder returns a statement builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Table is the shared access path of a repository over one table of T rows.
// Column lists are derived once from T's db tags.
type Table[T any] struct {
	txManager  *TxManager
	name       string
	entity     string
	selectCols []string
}

// NewTable creates a table accessor. entity names the row kind in NotFound errors.
func NewTable[T any](txManager *TxManager, name, entity string) Table[T] {
	return Table[T]{
		txManager:  txManager,
		name:       name,
		entity:     entity,
		selectCols: ExtractDBColumns[T](),
	}
}

// Name returns the table name.
func (t Table[T]) Name() string { return t.name }

// Columns returns the selected columns in struct order.
func (t Table[T]) Columns() []string { return t.selectCols }

// TxManager returns the transaction manager the table runs on.
func (t Table[T]) TxManager() *TxManager { return t.txManager }

// Querier returns the current transaction or the pool.
func (t Table[T]) Querier(ctx context.Context) Querier {
	return t.txManager.GetQuerier(ctx)
}

// Select starts a SELECT of every mapped column.
func (t Table[T]) Select() squirrel.SelectBuilder {
	return Builder().Select(t.selectCols...).From(t.name)
}

// Insert writes v using its db-tagged fields.
func (t Table[T]) Insert(ctx context.Context, v *T) error {
	q := Builder().Insert(t.name).SetMap(StructToMap(v))
	if _, err := t.Exec(ctx, q); err != nil {
		if IsUniqueViolation(err) {
			return apperror.NewConflict(fmt.Sprintf("%s already exists", t.entity)).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", t.entity, err)
	}
	return nil
}

// Get scans a single row, mapping no rows to NotFound(key).
func (t Table[T]) Get(ctx context.Context, q squirrel.SelectBuilder, key any) (*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v T
	if err := pgxscan.Get(ctx, t.Querier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(t.entity, key)
		}
		return nil, fmt.Errorf("get %s: %w", t.entity, err)
	}
	return &v, nil
}

// List scans every row of q.
func (t Table[T]) List(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []T
	if err := pgxscan.Select(ctx, t.Querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.entity, err)
	}
	return out, nil
}

// Exists reports whether any row matches where.
func (t Table[T]) Exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	// Subqueries keep '?' placeholders; the outer builder numbers them.
	inner := squirrel.Select("1").From(t.name).Where(where)
	q := Builder().Select().Column(squirrel.Expr("EXISTS (?)", inner))

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var ok bool
	if err := t.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s: %w", t.entity, err)
	}
	return ok, nil
}

// Exec runs a statement and returns the affected row count.
func (t Table[T]) Exec(ctx context.Context, q squirrel.Sqlizer) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}
	tag, err := t.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// IsUniqueViolation reports a unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
