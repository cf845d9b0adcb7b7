package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestFromContext_TagsJobOrganizationAndActor(t *testing.T) {
	log, logs := observed()
	orgID := id.New()

	ctx := WithLogger(context.Background(), log)
	ctx = appctx.WithActor(ctx, appctx.SystemActor("worker"))
	ctx = appctx.WithTrace(ctx, appctx.NewJobTrace("cost-run", orgID))

	Info(ctx, "costed transactions", "transactions", 3)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "cost-run", fields["job"])
	assert.Equal(t, orgID.String(), fields["organization_id"])
	assert.Equal(t, "system:worker", fields["actor_id"])
	assert.Equal(t, fields["trace_id"], fields["request_id"])
	assert.EqualValues(t, 3, fields["transactions"])
}

func TestFromContext_OmitsEmptyOrganization(t *testing.T) {
	log, logs := observed()
	ctx := WithLogger(context.Background(), log)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t1", RequestID: "r1"})

	Warn(ctx, "release cost processor lock failed")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "r1", fields["request_id"])
	assert.NotContains(t, fields, "organization_id")
	assert.NotContains(t, fields, "job")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "bogus", Service: "costbook-worker"})
	require.NoError(t, err)
	assert.True(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
}
