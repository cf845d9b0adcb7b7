package scenario

import (
	"context"
	"fmt"
	"time"

	"costbook/internal/core/apperror"
	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/approval"
	"costbook/internal/domain/audit"
	"costbook/internal/domain/catalogs/organization"
	"costbook/internal/domain/registers/itemcost"
	"costbook/pkg/logger"
)

// AuditEntityType names scenarios in the audit trail.
const AuditEntityType = "cost_scenario"

// OrganizationResolver resolves cost organizations.
type OrganizationResolver interface {
	GetCostOrganization(ctx context.Context, costOrgID id.ID) (*organization.CostOrganization, error)
	GetCostOrganizationByInventoryOrg(ctx context.Context, orgID id.ID) (*organization.CostOrganization, error)
}

// ApprovalSubmitter opens approval requests.
type ApprovalSubmitter interface {
	Submit(ctx context.Context, entityType approval.EntityType, entityID id.ID, requestedBy string) (*approval.Request, error)
}

// Dependencies are the collaborators of the scenario service.
type Dependencies struct {
	Repo          Repository
	Organizations OrganizationResolver
	Costs         itemcost.Repository
	Approvals     ApprovalSubmitter
	Audit         audit.Recorder
	TxManager     tx.Manager
}

// Service manages cost scenarios and publishes approved ones into the item cost register.
type Service struct {
	repo      Repository
	orgs      OrganizationResolver
	costs     itemcost.Repository
	approvals ApprovalSubmitter
	audit     audit.Recorder
	txManager tx.Manager
}

// NewService creates a new scenario service.
func NewService(deps Dependencies) *Service {
	recorder := deps.Audit
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:      deps.Repo,
		orgs:      deps.Organizations,
		costs:     deps.Costs,
		approvals: deps.Approvals,
		audit:     recorder,
		txManager: deps.TxManager,
	}
}

var _ approval.Publishable = (*Service)(nil)

// CreateScenario creates a Pending scenario.
func (s *Service) CreateScenario(ctx context.Context, costOrgID id.ID, name string) (*Scenario, error) {
	sc := NewScenario(costOrgID, name, appctx.GetActorID(ctx))
	if err := sc.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.orgs.GetCostOrganization(ctx, costOrgID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, sc); err != nil {
			return err
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: AuditEntityType,
			EntityID:   sc.ID,
			Action:     audit.ActionCreate,
			Changes:    map[string]any{"name": sc.Name, "type": sc.Type},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cost scenario created", "scenario_id", sc.ID, "name", sc.Name)
	return sc, nil
}

// DefineStandardCost sets one element of an item's standard cost. Only Pending
// scenarios are editable.
func (s *Service) DefineStandardCost(ctx context.Context, scenarioID, itemID id.ID, element CostElement, unitCost types.Money) (*StandardCost, error) {
	cost := &StandardCost{
		ID:          id.New(),
		ScenarioID:  scenarioID,
		ItemID:      itemID,
		CostElement: element,
		UnitCost:    types.RoundUnitCost(unitCost),
	}
	if err := cost.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sc, err := s.repo.GetForUpdate(ctx, scenarioID)
		if err != nil {
			return err
		}
		if sc.Type != TypePending {
			return apperror.NewInvalidState("cost_scenario", sc.Type, "standard costs can only be defined on a pending scenario").
				WithDetail("scenario_id", scenarioID)
		}
		return s.repo.UpsertStandardCost(ctx, cost)
	})
	if err != nil {
		return nil, err
	}
	return cost, nil
}

// PublishScenario submits the scenario for approval. The scenario is activated
// only when the request is approved.
func (s *Service) PublishScenario(ctx context.Context, scenarioID id.ID, requesterID string) (*approval.Request, error) {
	sc, err := s.repo.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if sc.Type != TypePending {
		return nil, apperror.NewInvalidState("cost_scenario", sc.Type, "only a pending scenario can be published").
			WithDetail("scenario_id", scenarioID)
	}

	req, err := s.approvals.Submit(ctx, approval.EntityCostScenario, scenarioID, requesterID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cost scenario submitted for publish",
		"scenario_id", scenarioID,
		"request_id", req.ID)
	return req, nil
}

// ExecuteCallback implements approval.Publishable.
func (s *Service) ExecuteCallback(ctx context.Context, entityID id.ID) error {
	_, err := s.ExecutePublish(ctx, entityID)
	return err
}

// ExecutePublish activates a scenario: item standard costs (summed over elements)
// are written to the primary cost book, the scenario becomes Current and every
// other Current scenario of the cost organization becomes Historical, all in
// one transaction.
func (s *Service) ExecutePublish(ctx context.Context, scenarioID id.ID) (*Scenario, error) {
	var (
		sc       *Scenario
		items    int
		archived int64
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		sc, err = s.repo.GetForUpdate(ctx, scenarioID)
		if err != nil {
			return err
		}
		if sc.Type != TypePending {
			return apperror.NewInvalidState("cost_scenario", sc.Type, "only a pending scenario can be published").
				WithDetail("scenario_id", scenarioID)
		}

		costOrg, err := s.orgs.GetCostOrganization(ctx, sc.CostOrganizationID)
		if err != nil {
			return err
		}

		sums, err := s.repo.SumStandardCosts(ctx, scenarioID)
		if err != nil {
			return fmt.Errorf("sum standard costs: %w", err)
		}
		for itemID, unitCost := range sums {
			key := itemcost.Key{
				OrganizationID: costOrg.InventoryOrganizationID,
				ItemID:         itemID,
				CostBookID:     costOrg.PrimaryCostBookID,
			}
			if err := s.costs.Upsert(ctx, key, unitCost); err != nil {
				return fmt.Errorf("upsert item cost: %w", err)
			}
		}
		items = len(sums)

		archived, err = s.repo.ArchiveCurrent(ctx, sc.CostOrganizationID, scenarioID)
		if err != nil {
			return fmt.Errorf("archive current scenarios: %w", err)
		}

		now := time.Now().UTC()
		sc.Type = TypeCurrent
		sc.EffectiveDate = &now
		sc.Touch(appctx.GetActorID(ctx))
		if err := s.repo.UpdateType(ctx, sc); err != nil {
			return fmt.Errorf("activate scenario: %w", err)
		}

		return s.audit.Record(ctx, audit.Entry{
			EntityType: AuditEntityType,
			EntityID:   sc.ID,
			Action:     audit.ActionPublish,
			Changes: map[string]any{
				"type":           sc.Type,
				"effective_date": now,
				"items":          items,
				"archived":       archived,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cost scenario published",
		"scenario_id", sc.ID,
		"items", items,
		"archived", archived)
	return sc, nil
}

// FreezeScenario moves a Pending or Current scenario to Frozen.
func (s *Service) FreezeScenario(ctx context.Context, scenarioID id.ID) (*Scenario, error) {
	var sc *Scenario
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		sc, err = s.repo.GetForUpdate(ctx, scenarioID)
		if err != nil {
			return err
		}
		if sc.Type != TypePending && sc.Type != TypeCurrent {
			return apperror.NewInvalidState("cost_scenario", sc.Type, "only pending or current scenarios can be frozen").
				WithDetail("scenario_id", scenarioID)
		}

		from := sc.Type
		sc.Type = TypeFrozen
		sc.Touch(appctx.GetActorID(ctx))
		if err := s.repo.UpdateType(ctx, sc); err != nil {
			return fmt.Errorf("freeze scenario: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: AuditEntityType,
			EntityID:   sc.ID,
			Action:     audit.ActionFreeze,
			Changes:    map[string]any{"from": from, "to": sc.Type},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cost scenario frozen", "scenario_id", scenarioID)
	return sc, nil
}

// GetScenario returns a scenario.
func (s *Service) GetScenario(ctx context.Context, scenarioID id.ID) (*Scenario, error) {
	return s.repo.GetByID(ctx, scenarioID)
}

// ListScenarios returns every scenario of a cost organization.
func (s *Service) ListScenarios(ctx context.Context, costOrgID id.ID) ([]Scenario, error) {
	return s.repo.ListByCostOrganization(ctx, costOrgID)
}

// CurrentItemCost returns an item's standard cost in the Current scenario of the
// inventory organization's cost organization. found is false when there is no
// Current scenario or it defines no cost for the item.
func (s *Service) CurrentItemCost(ctx context.Context, inventoryOrgID, itemID id.ID) (cost types.Money, found bool, err error) {
	costOrg, err := s.orgs.GetCostOrganizationByInventoryOrg(ctx, inventoryOrgID)
	if err != nil {
		return types.Zero(), false, err
	}

	current, err := s.repo.FindCurrent(ctx, costOrg.ID)
	if apperror.IsNotFound(err) {
		return types.Zero(), false, nil
	}
	if err != nil {
		return types.Zero(), false, err
	}

	return s.repo.ItemStandardCost(ctx, current.ID, itemID)
}
