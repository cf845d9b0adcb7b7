package organization

import (
	"context"
	"fmt"

	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/pkg/logger"
)

// Service provides organization setup and lookups.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new organization service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Onboard creates an inventory organization with its cost organization and primary cost book.
func (s *Service) Onboard(ctx context.Context, code, name string) (*Setup, error) {
	setup := NewSetup(code, name)
	if err := setup.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, setup); err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "organization onboarded",
		"organization_id", setup.Inventory.ID,
		"cost_organization_id", setup.Cost.ID,
		"code", code)

	return setup, nil
}

// GetCostOrganizationByInventoryOrg resolves the cost organization of an inventory organization.
func (s *Service) GetCostOrganizationByInventoryOrg(ctx context.Context, orgID id.ID) (*CostOrganization, error) {
	return s.repo.GetCostOrganizationByInventoryOrg(ctx, orgID)
}

// GetCostOrganization returns a cost organization by id.
func (s *Service) GetCostOrganization(ctx context.Context, costOrgID id.ID) (*CostOrganization, error) {
	return s.repo.GetCostOrganization(ctx, costOrgID)
}

// ListInventoryOrganizations returns every inventory organization (worker scheduling).
func (s *Service) ListInventoryOrganizations(ctx context.Context) ([]InventoryOrganization, error) {
	return s.repo.ListInventoryOrganizations(ctx)
}

// CostOrganizationID resolves the id of the cost organization owning an inventory organization.
func (s *Service) CostOrganizationID(ctx context.Context, orgID id.ID) (id.ID, error) {
	costOrg, err := s.repo.GetCostOrganizationByInventoryOrg(ctx, orgID)
	if err != nil {
		return id.Nil(), err
	}
	return costOrg.ID, nil
}

// PrimaryCostBookID resolves the cost book item costs of an inventory organization are kept in.
func (s *Service) PrimaryCostBookID(ctx context.Context, orgID id.ID) (id.ID, error) {
	costOrg, err := s.repo.GetCostOrganizationByInventoryOrg(ctx, orgID)
	if err != nil {
		return id.Nil(), err
	}
	return costOrg.PrimaryCostBookID, nil
}
