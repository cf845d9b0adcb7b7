package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/id"
)

func TestItemRepo_LockQuery(t *testing.T) {
	repo := NewItemRepo(nil)
	orgID, itemID := id.New(), id.New()

	sql, args, err := repo.byOrg(orgID, itemID).Suffix("FOR UPDATE").ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, organization_id, code, name, quantity_on_hand FROM cat_items WHERE id = $1 AND organization_id = $2 FOR UPDATE",
		sql)
	// Eq renders uuid values through driver.Valuer.
	assert.Equal(t, []any{itemID.String(), orgID.String()}, args)
}
