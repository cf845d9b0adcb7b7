package material_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/documents/material"
)

func TestTransaction_JSONKeepsOwnAndSourceFields(t *testing.T) {
	poID, lineID := id.New(), id.New()
	txn := material.NewTransaction(&material.Request{
		OrganizationID: id.New(),
		ItemID:         id.New(),
		Type:           material.TypePOReceipt,
		Quantity:       types.Units(3),
		SubinventoryID: id.New(),
		Source:         material.SourceDocument{DocumentType: "PO", DocumentID: &poID, LineID: &lineID},
	})

	raw, err := json.Marshal(txn)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, txn.ID.String(), body["id"])
	assert.Equal(t, string(material.TypePOReceipt), body["type"])
	assert.Equal(t, "PO", body["documentType"])
	assert.Equal(t, poID.String(), body["documentId"])
	assert.Equal(t, lineID.String(), body["lineId"])
}

func TestNewTransaction_DefaultsDateWithoutTouchingRequest(t *testing.T) {
	req := &material.Request{
		OrganizationID: id.New(),
		ItemID:         id.New(),
		Type:           material.TypeMiscReceipt,
		Quantity:       types.Units(1),
		SubinventoryID: id.New(),
	}

	txn := material.NewTransaction(req)

	assert.Equal(t, txn.CreatedAt, txn.TransactionDate)
	assert.True(t, req.TransactionDate.IsZero())
}
