package onhand

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

func TestService_ApplyDeltas_BalanceEqualsSignedSum(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo)

	lot := id.New()
	dims := Dimensions{OrganizationID: id.New(), ItemID: id.New(), SubinventoryID: id.New(), LotID: &lot}

	moves := []types.Quantity{types.Units(10), types.Units(-3), types.Units(5), types.Units(-12)}
	var want types.Quantity
	for _, q := range moves {
		require.NoError(t, svc.ApplyDeltas(ctx, []Delta{{Dimensions: dims, Quantity: q}}))
		want += q
	}

	bal, err := svc.GetBalance(ctx, dims)
	require.NoError(t, err)
	assert.Equal(t, want, bal.Quantity)
	assert.Equal(t, types.Units(0), bal.Quantity)
}

func TestService_ApplyDeltas_SeparatesOptionalDimensions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo)

	org, item, sub := id.New(), id.New(), id.New()
	loc := id.New()
	plain := Dimensions{OrganizationID: org, ItemID: item, SubinventoryID: sub}
	located := Dimensions{OrganizationID: org, ItemID: item, SubinventoryID: sub, LocatorID: &loc}

	require.NoError(t, svc.ApplyDeltas(ctx, []Delta{
		{Dimensions: plain, Quantity: types.Units(4)},
		{Dimensions: located, Quantity: types.Units(6)},
	}))

	assert.Len(t, repo.All(), 2)

	bal, err := svc.GetBalance(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, types.Units(4), bal.Quantity)

	bal, err = svc.GetBalance(ctx, located)
	require.NoError(t, err)
	assert.Equal(t, types.Units(6), bal.Quantity)
}

func TestService_ApplyDeltas_RejectsZero(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	err := svc.ApplyDeltas(context.Background(), []Delta{{
		Dimensions: Dimensions{OrganizationID: id.New(), ItemID: id.New(), SubinventoryID: id.New()},
	}})
	assert.True(t, apperror.IsValidation(err))
}
