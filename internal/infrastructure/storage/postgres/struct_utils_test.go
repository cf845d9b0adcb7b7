package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costbook/internal/core/entity"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/documents/material"
)

func TestExtractDBColumns_EmbeddedFirst(t *testing.T) {
	cols := ExtractDBColumns[distribution.Distribution]()

	assert.Equal(t, []string{"id", "created_at", "organization_id"}, cols[:3])
	assert.Contains(t, cols, "leg_role")
	assert.Contains(t, cols, "accounted")
	assert.NotContains(t, cols, "")
}

func TestExtractDBColumns_NestedSourceDocument(t *testing.T) {
	cols := ExtractDBColumns[material.Transaction]()

	for _, c := range []string{"source_document_type", "source_document_id", "source_line_id", "unit_cost", "costing_deferred"} {
		assert.Contains(t, cols, c)
	}
}

func TestStructToMap(t *testing.T) {
	d := distribution.Distribution{
		Base:        entity.NewBase(),
		LegRole:     distribution.RoleCredit,
		AccountCode: "2150",
		Amount:      types.MustMoney("12.34"),
	}
	d.TransactionID = id.New()

	m := StructToMap(&d)

	assert.Equal(t, d.ID, m["id"])
	assert.Equal(t, distribution.RoleCredit, m["leg_role"])
	assert.Equal(t, "2150", m["account_code"])
	assert.Equal(t, d.TransactionID, m["transaction_id"])
	assert.Len(t, m, len(ExtractDBColumns[distribution.Distribution]()))
}
