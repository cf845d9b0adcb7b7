// Package ledger_repo provides PostgreSQL implementations for the cost period
// calendar, accounting distributions and the general ledger.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/domain/costperiod"
	"costbook/internal/infrastructure/storage/postgres"
)

const costPeriodTable = "cst_periods"

// CostPeriodRepo implements costperiod.Repository.
type CostPeriodRepo struct {
	periods postgres.Table[costperiod.Period]
}

// NewCostPeriodRepo creates a new cost period repository.
func NewCostPeriodRepo(txManager *postgres.TxManager) *CostPeriodRepo {
	return &CostPeriodRepo{
		periods: postgres.NewTable[costperiod.Period](txManager, costPeriodTable, "cost_period"),
	}
}

// Create implements costperiod.Repository.
func (r *CostPeriodRepo) Create(ctx context.Context, period *costperiod.Period) error {
	return r.periods.Insert(ctx, period)
}

// GetByID implements costperiod.Repository.
func (r *CostPeriodRepo) GetByID(ctx context.Context, periodID id.ID) (*costperiod.Period, error) {
	return r.periods.Get(ctx, r.periods.Select().Where(squirrel.Eq{"id": periodID}), periodID)
}

// GetForUpdate implements costperiod.Repository.
func (r *CostPeriodRepo) GetForUpdate(ctx context.Context, periodID id.ID) (*costperiod.Period, error) {
	q := r.periods.Select().Where(squirrel.Eq{"id": periodID}).Suffix("FOR UPDATE")
	return r.periods.Get(ctx, q, periodID)
}

// FindCovering implements costperiod.Repository.
func (r *CostPeriodRepo) FindCovering(ctx context.Context, costOrgID id.ID, date time.Time) (*costperiod.Period, error) {
	day := costperiod.Day(date)
	q := r.periods.Select().
		Where(squirrel.Eq{"cost_organization_id": costOrgID}).
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.GtOrEq{"end_date": day}).
		Limit(1)
	return r.periods.Get(ctx, q, day)
}

// ExistsOverlapping implements costperiod.Repository.
func (r *CostPeriodRepo) ExistsOverlapping(ctx context.Context, costOrgID id.ID, start, end time.Time) (bool, error) {
	return r.periods.Exists(ctx, squirrel.And{
		squirrel.Eq{"cost_organization_id": costOrgID},
		squirrel.LtOrEq{"start_date": costperiod.Day(end)},
		squirrel.GtOrEq{"end_date": costperiod.Day(start)},
	})
}

// UpdateStatus implements costperiod.Repository.
func (r *CostPeriodRepo) UpdateStatus(ctx context.Context, period *costperiod.Period) error {
	q := postgres.Builder().
		Update(costPeriodTable).
		Set("status", period.Status).
		Set("updated_at", period.UpdatedAt).
		Set("updated_by", period.UpdatedBy).
		Where(squirrel.Eq{"id": period.ID})

	n, err := r.periods.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("update period status: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound("cost_period", period.ID)
	}
	return nil
}

// ListByCostOrganization implements costperiod.Repository.
func (r *CostPeriodRepo) ListByCostOrganization(ctx context.Context, costOrgID id.ID) ([]costperiod.Period, error) {
	q := r.periods.Select().
		Where(squirrel.Eq{"cost_organization_id": costOrgID}).
		OrderBy("start_date")
	return r.periods.List(ctx, q)
}
