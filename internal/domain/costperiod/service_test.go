package costperiod

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/tx"
)

type staticResolver map[id.ID]id.ID

func (r staticResolver) CostOrganizationID(_ context.Context, orgID id.ID) (id.ID, error) {
	if v, ok := r[orgID]; ok {
		return v, nil
	}
	return id.Nil(), apperror.NewNotFound("cost_organization", orgID)
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestService() (*Service, id.ID, id.ID) {
	invOrg, costOrg := id.New(), id.New()
	svc := NewService(NewMemoryRepository(), staticResolver{invOrg: costOrg}, tx.Passthrough{})
	return svc, invOrg, costOrg
}

func TestService_CreatePeriod(t *testing.T) {
	ctx := context.Background()
	svc, _, costOrg := newTestService()

	p, err := svc.CreatePeriod(ctx, costOrg, "2026-01", date("2026-01-01"), date("2026-01-31"))
	require.NoError(t, err)
	assert.Equal(t, StatusFutureEntry, p.Status)

	_, err = svc.CreatePeriod(ctx, costOrg, "overlap", date("2026-01-31"), date("2026-02-28"))
	assert.True(t, apperror.IsConflict(err))

	_, err = svc.CreatePeriod(ctx, costOrg, "backwards", date("2026-03-31"), date("2026-03-01"))
	assert.True(t, apperror.IsValidation(err))
}

func TestService_Transitions(t *testing.T) {
	ctx := context.Background()
	svc, _, costOrg := newTestService()

	p, err := svc.CreatePeriod(ctx, costOrg, "2026-01", date("2026-01-01"), date("2026-01-31"))
	require.NoError(t, err)

	_, err = svc.ClosePeriod(ctx, p.ID)
	assert.True(t, apperror.IsInvalidState(err), "future entry cannot be closed")

	_, err = svc.PermanentlyClosePeriod(ctx, p.ID)
	assert.True(t, apperror.IsInvalidState(err))

	p, err = svc.OpenPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, p.Status)

	p, err = svc.ClosePeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, p.Status)

	p, err = svc.PermanentlyClosePeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusForeverClosed, p.Status)

	_, err = svc.OpenPeriod(ctx, p.ID)
	assert.True(t, apperror.IsInvalidState(err), "forever closed is terminal")

	_, err = svc.OpenPeriod(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ValidateTransactionDate(t *testing.T) {
	ctx := context.Background()
	svc, invOrg, costOrg := newTestService()

	p, err := svc.CreatePeriod(ctx, costOrg, "2026-01", date("2026-01-01"), date("2026-01-31"))
	require.NoError(t, err)

	// Future Entry rejects.
	err = svc.ValidateTransactionDate(ctx, invOrg, date("2026-01-15"))
	assert.True(t, apperror.IsPeriodClosed(err))

	_, err = svc.OpenPeriod(ctx, p.ID)
	require.NoError(t, err)

	// Both boundaries are inclusive, time of day is ignored.
	require.NoError(t, svc.ValidateTransactionDate(ctx, invOrg, date("2026-01-01")))
	require.NoError(t, svc.ValidateTransactionDate(ctx, invOrg, date("2026-01-31").Add(23*time.Hour+59*time.Minute)))

	err = svc.ValidateTransactionDate(ctx, invOrg, date("2026-02-01"))
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.ClosePeriod(ctx, p.ID)
	require.NoError(t, err)
	err = svc.ValidateTransactionDate(ctx, invOrg, date("2026-01-15"))
	assert.True(t, apperror.IsPeriodClosed(err))
	assert.True(t, apperror.IsInvalidState(err))

	// Reopened: the same range is accepted again.
	_, err = svc.OpenPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.NoError(t, svc.ValidateTransactionDate(ctx, invOrg, date("2026-01-15")))

	err = svc.ValidateTransactionDate(ctx, id.New(), date("2026-01-15"))
	assert.True(t, apperror.IsNotFound(err))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusFutureEntry, StatusOpen))
	assert.True(t, CanTransition(StatusClosed, StatusOpen))
	assert.False(t, CanTransition(StatusForeverClosed, StatusOpen))
	assert.False(t, CanTransition(StatusFutureEntry, StatusClosed))
	assert.False(t, CanTransition(StatusOpen, StatusForeverClosed))
}
