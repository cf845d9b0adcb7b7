package document_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/id"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/documents/material"
)

func TestMaterialRepo_UncostedQuery(t *testing.T) {
	repo := NewMaterialRepo(nil)
	orgID := id.New()

	t.Run("first page", func(t *testing.T) {
		sql, args, err := repo.uncostedQuery(orgID, nil, 100).ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "FROM inv_material_transactions t WHERE")
		assert.Contains(t, sql, "t.transaction_type IN ($2,$3,$4,$5,$6)")
		assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM cst_distributions d WHERE d.source_type = $7 AND d.transaction_id = t.id)")
		assert.True(t, strings.HasSuffix(sql, "ORDER BY t.transaction_date, t.id LIMIT 100"), sql)
		assert.NotContains(t, sql, "(t.transaction_date, t.id) >")

		require.Len(t, args, 7)
		assert.Equal(t, orgID.String(), args[0])
		assert.Equal(t, distribution.SourceMaterial, args[6])
	})

	t.Run("after cursor", func(t *testing.T) {
		cursor := &material.Cursor{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ID: id.New()}

		sql, args, err := repo.uncostedQuery(orgID, cursor, 10).ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "(t.transaction_date, t.id) > ($8, $9)")
		require.Len(t, args, 9)
		assert.Equal(t, cursor.Date, args[7])
		assert.Equal(t, cursor.ID, args[8])
	})
}
