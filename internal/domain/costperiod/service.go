package costperiod

import (
	"context"
	"fmt"
	"time"

	"costbook/internal/core/apperror"
	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/pkg/logger"
)

// Service manages the period calendar and gates postings by date.
type Service struct {
	repo      Repository
	orgs      OrganizationResolver
	txManager tx.Manager
}

// NewService creates a new cost period service.
func NewService(repo Repository, orgs OrganizationResolver, txManager tx.Manager) *Service {
	return &Service{repo: repo, orgs: orgs, txManager: txManager}
}

// CreatePeriod adds a Future Entry period to a cost organization's calendar.
func (s *Service) CreatePeriod(ctx context.Context, costOrgID id.ID, name string, start, end time.Time) (*Period, error) {
	period := NewPeriod(costOrgID, name, start, end, appctx.GetActorID(ctx))
	if err := period.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		overlapping, err := s.repo.ExistsOverlapping(ctx, costOrgID, period.StartDate, period.EndDate)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if overlapping {
			return apperror.NewConflict("period overlaps an existing period").
				WithDetail("cost_organization_id", costOrgID).
				WithDetail("name", name)
		}
		return s.repo.Create(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cost period created",
		"period_id", period.ID,
		"name", period.Name,
		"start_date", period.StartDate,
		"end_date", period.EndDate)

	return period, nil
}

// OpenPeriod transitions a Future Entry or Closed period to Open.
func (s *Service) OpenPeriod(ctx context.Context, periodID id.ID) (*Period, error) {
	return s.transition(ctx, periodID, StatusOpen)
}

// ClosePeriod transitions an Open period to Closed.
func (s *Service) ClosePeriod(ctx context.Context, periodID id.ID) (*Period, error) {
	return s.transition(ctx, periodID, StatusClosed)
}

// PermanentlyClosePeriod transitions a Closed period to Forever Closed (terminal).
func (s *Service) PermanentlyClosePeriod(ctx context.Context, periodID id.ID) (*Period, error) {
	return s.transition(ctx, periodID, StatusForeverClosed)
}

func (s *Service) transition(ctx context.Context, periodID id.ID, to Status) (*Period, error) {
	var period *Period
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.repo.GetForUpdate(ctx, periodID)
		if err != nil {
			return err
		}

		if !CanTransition(period.Status, to) {
			return apperror.NewInvalidState("cost_period", period.Status,
				fmt.Sprintf("cannot move period from %s to %s", period.Status, to)).
				WithDetail("period_id", periodID)
		}

		from := period.Status
		period.Status = to
		period.Touch(appctx.GetActorID(ctx))
		if err := s.repo.UpdateStatus(ctx, period); err != nil {
			return fmt.Errorf("update period status: %w", err)
		}

		logger.Info(ctx, "cost period status changed",
			"period_id", periodID,
			"from", from,
			"to", to)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// ValidateTransactionDate fails unless an Open period of the organization's cost
// calendar covers date. Missing period is NotFound; any other status is PERIOD_CLOSED.
func (s *Service) ValidateTransactionDate(ctx context.Context, inventoryOrgID id.ID, date time.Time) error {
	costOrgID, err := s.orgs.CostOrganizationID(ctx, inventoryOrgID)
	if err != nil {
		return err
	}

	period, err := s.repo.FindCovering(ctx, costOrgID, date)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("cost_period", Day(date).Format(time.DateOnly)).
				WithDetail("cost_organization_id", costOrgID)
		}
		return fmt.Errorf("find period: %w", err)
	}

	if period.Status != StatusOpen {
		return apperror.NewPeriodClosed(period.Name, period.Status).
			WithDetail("date", Day(date).Format(time.DateOnly))
	}
	return nil
}

// ListPeriods returns the calendar of a cost organization.
func (s *Service) ListPeriods(ctx context.Context, costOrgID id.ID) ([]Period, error) {
	return s.repo.ListByCostOrganization(ctx, costOrgID)
}
