package scenario

import (
	"context"
	"sync"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/types"
)

type costKey struct {
	scenarioID id.ID
	itemID     id.ID
	element    CostElement
}

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu        sync.Mutex
	scenarios map[id.ID]Scenario
	costs     map[costKey]StandardCost
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		scenarios: make(map[id.ID]Scenario),
		costs:     make(map[costKey]StandardCost),
	}
}

// Create implements Repository.
func (r *MemoryRepository) Create(_ context.Context, s *Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[s.ID] = *s
	return nil
}

// GetByID implements Repository.
func (r *MemoryRepository) GetByID(_ context.Context, scenarioID id.ID) (*Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.scenarios[scenarioID]
	if !ok {
		return nil, apperror.NewNotFound("cost_scenario", scenarioID)
	}
	return &s, nil
}

// GetForUpdate implements Repository.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, scenarioID id.ID) (*Scenario, error) {
	return r.GetByID(ctx, scenarioID)
}

// UpdateType implements Repository.
func (r *MemoryRepository) UpdateType(_ context.Context, s *Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scenarios[s.ID]; !ok {
		return apperror.NewNotFound("cost_scenario", s.ID)
	}
	r.scenarios[s.ID] = *s
	return nil
}

// ArchiveCurrent implements Repository.
func (r *MemoryRepository) ArchiveCurrent(_ context.Context, costOrgID, exceptID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, s := range r.scenarios {
		if s.CostOrganizationID == costOrgID && s.Type == TypeCurrent && s.ID != exceptID {
			s.Type = TypeHistorical
			r.scenarios[k] = s
			n++
		}
	}
	return n, nil
}

// FindCurrent implements Repository.
func (r *MemoryRepository) FindCurrent(_ context.Context, costOrgID id.ID) (*Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.scenarios {
		if s.CostOrganizationID == costOrgID && s.Type == TypeCurrent {
			return &s, nil
		}
	}
	return nil, apperror.NewNotFound("current_cost_scenario", costOrgID)
}

// ListByCostOrganization implements Repository.
func (r *MemoryRepository) ListByCostOrganization(_ context.Context, costOrgID id.ID) ([]Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Scenario
	for _, s := range r.scenarios {
		if s.CostOrganizationID == costOrgID {
			out = append(out, s)
		}
	}
	return out, nil
}

// UpsertStandardCost implements Repository.
func (r *MemoryRepository) UpsertStandardCost(_ context.Context, cost *StandardCost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.costs[costKey{cost.ScenarioID, cost.ItemID, cost.CostElement}] = *cost
	return nil
}

// SumStandardCosts implements Repository.
func (r *MemoryRepository) SumStandardCosts(_ context.Context, scenarioID id.ID) (map[id.ID]types.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[id.ID]types.Money)
	for k, c := range r.costs {
		if k.scenarioID == scenarioID {
			out[k.itemID] = out[k.itemID].Add(c.UnitCost)
		}
	}
	return out, nil
}

// ItemStandardCost implements Repository.
func (r *MemoryRepository) ItemStandardCost(_ context.Context, scenarioID, itemID id.ID) (types.Money, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := types.Zero()
	found := false
	for k, c := range r.costs {
		if k.scenarioID == scenarioID && k.itemID == itemID {
			sum = sum.Add(c.UnitCost)
			found = true
		}
	}
	return sum, found, nil
}
