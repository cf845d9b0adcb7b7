package onhand

import (
	"context"
	"fmt"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// Service maintains on-hand balances. Transactions are managed by the caller
// (the transaction ledger), so every Apply lands with its ledger row.
type Service struct {
	repo Repository
}

// NewService creates a new on-hand register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ApplyDeltas updates each balance row by its signed delta.
func (s *Service) ApplyDeltas(ctx context.Context, deltas []Delta) error {
	for i, d := range deltas {
		if d.Quantity.IsZero() {
			return apperror.NewValidation(fmt.Sprintf("delta %d: quantity must not be zero", i))
		}
		if id.IsNil(d.Dimensions.OrganizationID) || id.IsNil(d.Dimensions.ItemID) || id.IsNil(d.Dimensions.SubinventoryID) {
			return apperror.NewValidation(fmt.Sprintf("delta %d: organization, item and subinventory are required", i))
		}
		if _, err := s.repo.Apply(ctx, d.Dimensions, d.Quantity); err != nil {
			return fmt.Errorf("apply balance delta: %w", err)
		}
	}
	return nil
}

// GetBalance returns the balance of a dimension tuple.
func (s *Service) GetBalance(ctx context.Context, dims Dimensions) (Balance, error) {
	return s.repo.GetBalance(ctx, dims)
}
