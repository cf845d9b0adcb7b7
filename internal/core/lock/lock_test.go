package lock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

func TestLocal_AcquireIsExclusive(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()
	key := Key("sla", id.New())

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key)
	assert.True(t, apperror.IsConflict(err))

	require.NoError(t, release(ctx))

	release, err = l.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}
