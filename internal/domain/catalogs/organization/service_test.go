package organization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/tx"
)

func TestService_Onboard(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), tx.Passthrough{})

	setup, err := svc.Onboard(ctx, "M1", "Main plant")
	require.NoError(t, err)

	costOrgID, err := svc.CostOrganizationID(ctx, setup.Inventory.ID)
	require.NoError(t, err)
	assert.Equal(t, setup.Cost.ID, costOrgID)

	bookID, err := svc.PrimaryCostBookID(ctx, setup.Inventory.ID)
	require.NoError(t, err)
	assert.Equal(t, setup.Book.ID, bookID)
	assert.Equal(t, setup.Cost.ID, setup.Book.CostOrganizationID)
}

func TestService_Onboard_RequiresCode(t *testing.T) {
	svc := NewService(NewMemoryRepository(), tx.Passthrough{})
	_, err := svc.Onboard(context.Background(), " ", "Main plant")
	assert.True(t, apperror.IsValidation(err))
}

func TestService_CostOrganizationID_NotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository(), tx.Passthrough{})
	_, err := svc.CostOrganizationID(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
