package workflow_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/scenario"
	"costbook/internal/infrastructure/storage/postgres"
)

const (
	scenarioTable     = "cst_scenarios"
	standardCostTable = "cst_standard_costs"
)

// ScenarioRepo implements scenario.Repository.
type ScenarioRepo struct {
	scenarios postgres.Table[scenario.Scenario]
	costs     postgres.Table[scenario.StandardCost]
}

// NewScenarioRepo creates a new cost scenario repository.
func NewScenarioRepo(txManager *postgres.TxManager) *ScenarioRepo {
	return &ScenarioRepo{
		scenarios: postgres.NewTable[scenario.Scenario](txManager, scenarioTable, "cost_scenario"),
		costs:     postgres.NewTable[scenario.StandardCost](txManager, standardCostTable, "standard_cost"),
	}
}

// Create implements scenario.Repository.
func (r *ScenarioRepo) Create(ctx context.Context, s *scenario.Scenario) error {
	return r.scenarios.Insert(ctx, s)
}

// GetByID implements scenario.Repository.
func (r *ScenarioRepo) GetByID(ctx context.Context, scenarioID id.ID) (*scenario.Scenario, error) {
	return r.scenarios.Get(ctx, r.scenarios.Select().Where(squirrel.Eq{"id": scenarioID}), scenarioID)
}

// GetForUpdate implements scenario.Repository.
func (r *ScenarioRepo) GetForUpdate(ctx context.Context, scenarioID id.ID) (*scenario.Scenario, error) {
	q := r.scenarios.Select().Where(squirrel.Eq{"id": scenarioID}).Suffix("FOR UPDATE")
	return r.scenarios.Get(ctx, q, scenarioID)
}

// UpdateType implements scenario.Repository.
func (r *ScenarioRepo) UpdateType(ctx context.Context, s *scenario.Scenario) error {
	q := postgres.Builder().
		Update(scenarioTable).
		Set("scenario_type", s.Type).
		Set("effective_date", s.EffectiveDate).
		Set("updated_at", s.UpdatedAt).
		Set("updated_by", s.UpdatedBy).
		Where(squirrel.Eq{"id": s.ID})

	n, err := r.scenarios.Exec(ctx, q)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewConflict("cost organization already has a current scenario").
				WithDetail("cost_organization_id", s.CostOrganizationID)
		}
		return fmt.Errorf("update scenario type: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound("cost_scenario", s.ID)
	}
	return nil
}

// ArchiveCurrent implements scenario.Repository.
func (r *ScenarioRepo) ArchiveCurrent(ctx context.Context, costOrgID, exceptID id.ID) (int64, error) {
	q := postgres.Builder().
		Update(scenarioTable).
		Set("scenario_type", scenario.TypeHistorical).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"cost_organization_id": costOrgID, "scenario_type": scenario.TypeCurrent}).
		Where(squirrel.NotEq{"id": exceptID})

	n, err := r.scenarios.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("archive current scenarios: %w", err)
	}
	return n, nil
}

// FindCurrent implements scenario.Repository.
func (r *ScenarioRepo) FindCurrent(ctx context.Context, costOrgID id.ID) (*scenario.Scenario, error) {
	q := r.scenarios.Select().Where(squirrel.Eq{
		"cost_organization_id": costOrgID,
		"scenario_type":        scenario.TypeCurrent,
	})
	s, err := r.scenarios.Get(ctx, q, costOrgID)
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("current_cost_scenario", costOrgID)
	}
	return s, err
}

// ListByCostOrganization implements scenario.Repository.
func (r *ScenarioRepo) ListByCostOrganization(ctx context.Context, costOrgID id.ID) ([]scenario.Scenario, error) {
	q := r.scenarios.Select().
		Where(squirrel.Eq{"cost_organization_id": costOrgID}).
		OrderBy("created_at", "id")
	return r.scenarios.List(ctx, q)
}

// UpsertStandardCost implements scenario.Repository.
func (r *ScenarioRepo) UpsertStandardCost(ctx context.Context, cost *scenario.StandardCost) error {
	q := postgres.Builder().
		Insert(standardCostTable).
		SetMap(postgres.StructToMap(cost)).
		Suffix("ON CONFLICT (scenario_id, item_id, cost_element) DO UPDATE SET unit_cost = EXCLUDED.unit_cost")

	if _, err := r.costs.Exec(ctx, q); err != nil {
		return fmt.Errorf("upsert standard cost: %w", err)
	}
	return nil
}

type itemSum struct {
	ItemID   id.ID       `db:"item_id"`
	UnitCost types.Money `db:"unit_cost"`
	Elements int         `db:"elements"`
}

func sumQuery(scenarioID id.ID) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("item_id", "SUM(unit_cost) AS unit_cost", "COUNT(*) AS elements").
		From(standardCostTable).
		Where(squirrel.Eq{"scenario_id": scenarioID}).
		GroupBy("item_id")
}

func (r *ScenarioRepo) sums(ctx context.Context, q squirrel.SelectBuilder) ([]itemSum, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []itemSum
	if err := pgxscan.Select(ctx, r.costs.Querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("sum standard costs: %w", err)
	}
	return rows, nil
}

// SumStandardCosts implements scenario.Repository.
func (r *ScenarioRepo) SumStandardCosts(ctx context.Context, scenarioID id.ID) (map[id.ID]types.Money, error) {
	rows, err := r.sums(ctx, sumQuery(scenarioID))
	if err != nil {
		return nil, err
	}
	out := make(map[id.ID]types.Money, len(rows))
	for _, row := range rows {
		out[row.ItemID] = row.UnitCost
	}
	return out, nil
}

// ItemStandardCost implements scenario.Repository.
func (r *ScenarioRepo) ItemStandardCost(ctx context.Context, scenarioID, itemID id.ID) (types.Money, bool, error) {
	rows, err := r.sums(ctx, sumQuery(scenarioID).Where(squirrel.Eq{"item_id": itemID}))
	if err != nil {
		return types.Zero(), false, err
	}
	if len(rows) == 0 {
		return types.Zero(), false, nil
	}
	return rows[0].UnitCost, true, nil
}
