package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/domain/gl"
)

func TestTable_Select(t *testing.T) {
	table := NewTable[gl.Entry](nil, "gl_entries", "gl_entry")

	sql, args, err := table.Select().
		Where(squirrel.Eq{"debit_account": "1400"}).
		OrderBy("posted_at").
		ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, organization_id, source_type, transaction_id, batch_id, debit_account, debit_amount, "+
			"credit_account, credit_amount, currency, accounting_date, posted_at FROM gl_entries "+
			"WHERE debit_account = $1 ORDER BY posted_at",
		sql)
	assert.Equal(t, []any{"1400"}, args)
}

func TestExistsSubqueryPlaceholders(t *testing.T) {
	inner := squirrel.Select("1").From("cat_items").Where(squirrel.Eq{"id": 7, "organization_id": 3})
	sql, args, err := Builder().Select().Column(squirrel.Expr("EXISTS (?)", inner)).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT EXISTS (SELECT 1 FROM cat_items WHERE id = $1 AND organization_id = $2)", sql)
	assert.Equal(t, []any{7, 3}, args)
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
