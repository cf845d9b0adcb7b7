package register_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/registers/onhand"
)

func TestApplyQuery(t *testing.T) {
	dims := onhand.Dimensions{OrganizationID: id.New(), ItemID: id.New(), SubinventoryID: id.New()}

	sql, args, err := applyQuery(dims, types.Units(-2), time.Unix(0, 0).UTC()).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO reg_onhand_balances (item_id,locator_id,lot_id,organization_id,quantity,serial_id,subinventory_id,updated_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8) "+upsertBalance,
		sql)
	require.Len(t, args, 8)
	assert.Equal(t, dims.ItemID, args[0])
	assert.Equal(t, types.Units(-2), args[4])
}

func TestDimensionsWhere(t *testing.T) {
	lot := id.New()
	dims := onhand.Dimensions{OrganizationID: id.New(), ItemID: id.New(), SubinventoryID: id.New(), LotID: &lot}

	sql, args, err := dimensionsWhere(dims).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"(item_id = ? AND organization_id = ? AND subinventory_id = ? AND locator_id IS NULL AND lot_id = ? AND serial_id IS NULL)",
		sql)
	assert.Equal(t, []any{dims.ItemID.String(), dims.OrganizationID.String(), dims.SubinventoryID.String(), lot.String()}, args)
}
