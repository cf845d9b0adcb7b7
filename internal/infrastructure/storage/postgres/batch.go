package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchInserter bulk-inserts append-only rows (distributions, GL entries) with
// the COPY protocol.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyFromSlice copies rows into table. Must run inside a transaction so the
// copied rows commit or roll back with the rest of the posting.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	t := b.txManager.GetTx(ctx)
	if t == nil {
		return 0, fmt.Errorf("copy into %s requires transaction context", table)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := t.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}

// CopyStructs copies values of a db-tagged struct type into table, in the
// column order of ExtractDBColumns.
func CopyStructs[T any](ctx context.Context, b *BatchInserter, table string, values []T) (int64, error) {
	columns := ExtractDBColumns[T]()
	rows := make([][]any, 0, len(values))
	for i := range values {
		m := StructToMap(&values[i])
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = m[col]
		}
		rows = append(rows, row)
	}
	return b.CopyFromSlice(ctx, table, columns, rows)
}
