package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/domain/distribution"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/costbook")
	t.Setenv("ACCOUNT_INVENTORY_VALUATION", "1410")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.CostBatchPageSize)
	assert.Equal(t, 5*time.Minute, cfg.WorkerInterval)
	assert.Equal(t, "0.01", cfg.ReconciliationTolerance.String())
	assert.Equal(t, "1410", cfg.Accounts.InventoryAsset, "asset account defaults to inventory valuation")
	assert.Equal(t, "1410", cfg.Accounts.Chart()[distribution.LineInventoryValuation])
	assert.Empty(t, cfg.WorkerOrganizations)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/costbook")
	t.Setenv("COST_BATCH_PAGE_SIZE", "50")
	t.Setenv("WORKER_INTERVAL", "30s")
	t.Setenv("WORKER_ORGANIZATIONS", "0190f0a0-0000-7000-8000-000000000001, 0190f0a0-0000-7000-8000-000000000002")
	t.Setenv("ACCOUNT_INVENTORY_ASSET", "1499")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.CostBatchPageSize)
	assert.Equal(t, 30*time.Second, cfg.WorkerInterval)
	assert.Len(t, cfg.WorkerOrganizations, 2)
	assert.Equal(t, "1499", cfg.Accounts.InventoryAsset)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/costbook")
	t.Setenv("WORKER_ORGANIZATIONS", "not-a-uuid")
	_, err = Load()
	assert.Error(t, err)
}
