package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"

	"costbook/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// migrationLockID serializes schema setup across instances starting together.
const migrationLockID int64 = 0x636f7374626f6f6b

// Migrate applies the idempotent schema. Every statement is IF NOT EXISTS,
// so running it on an up-to-date database is a no-op.
func Migrate(ctx context.Context, pool *Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("lock schema: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", migrationLockID)
	}()

	if _, err := conn.Exec(ctx, schemaSQL, pgx.QueryExecModeSimpleProtocol); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	logger.Info(ctx, "database schema is up to date")
	return nil
}
