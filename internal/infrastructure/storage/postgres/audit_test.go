package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
	"costbook/internal/domain/audit"
)

func TestAuditRecorder_CompressesLargeChanges(t *testing.T) {
	rec, err := NewAuditRecorder(nil)
	require.NoError(t, err)

	ctx := appctx.WithActor(context.Background(), &appctx.Actor{UserID: "controller"})
	entry := audit.Entry{
		EntityType: "cost_scenario",
		EntityID:   id.New(),
		Action:     audit.ActionPublish,
		Changes:    map[string]any{"note": strings.Repeat("x", 20*1024)},
	}

	r, err := rec.newRecord(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, "controller", r.UserID)
	assert.Equal(t, CompressionZstd, r.CompressionAlgo)
	assert.Nil(t, r.Changes)
	assert.Less(t, len(r.ChangesCompressed), 20*1024)

	require.NoError(t, rec.inflate(r))
	assert.Contains(t, string(r.Changes), `"note":"xxx`)
	assert.Nil(t, r.ChangesCompressed)
}

func TestAuditRecorder_SmallChangesStayPlain(t *testing.T) {
	rec, err := NewAuditRecorder(nil)
	require.NoError(t, err)

	r, err := rec.newRecord(context.Background(), audit.Entry{
		EntityType: "approval_request",
		EntityID:   id.New(),
		Action:     audit.ActionApprove,
		Changes:    map[string]any{"status": "APPROVED"},
	})
	require.NoError(t, err)

	assert.Equal(t, CompressionNone, r.CompressionAlgo)
	assert.JSONEq(t, `{"status":"APPROVED"}`, string(r.Changes))
	assert.Empty(t, r.UserID)
}
