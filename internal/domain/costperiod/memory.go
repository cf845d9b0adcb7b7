package costperiod

import (
	"context"
	"sort"
	"sync"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu      sync.Mutex
	periods map[id.ID]Period
}

// NewMemoryRepository creates an empty in-memory calendar.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{periods: make(map[id.ID]Period)}
}

// Create implements Repository.
func (r *MemoryRepository) Create(_ context.Context, period *Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.periods[period.ID] = *period
	return nil
}

// GetByID implements Repository.
func (r *MemoryRepository) GetByID(_ context.Context, periodID id.ID) (*Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[periodID]
	if !ok {
		return nil, apperror.NewNotFound("cost_period", periodID)
	}
	return &p, nil
}

// GetForUpdate implements Repository.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, periodID id.ID) (*Period, error) {
	return r.GetByID(ctx, periodID)
}

// FindCovering implements Repository.
func (r *MemoryRepository) FindCovering(_ context.Context, costOrgID id.ID, date time.Time) (*Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.periods {
		if p.CostOrganizationID == costOrgID && p.Covers(date) {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("cost_period", date)
}

// ExistsOverlapping implements Repository.
func (r *MemoryRepository) ExistsOverlapping(_ context.Context, costOrgID id.ID, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.periods {
		if p.CostOrganizationID == costOrgID && p.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

// UpdateStatus implements Repository.
func (r *MemoryRepository) UpdateStatus(_ context.Context, period *Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.periods[period.ID]; !ok {
		return apperror.NewNotFound("cost_period", period.ID)
	}
	r.periods[period.ID] = *period
	return nil
}

// ListByCostOrganization implements Repository.
func (r *MemoryRepository) ListByCostOrganization(_ context.Context, costOrgID id.ID) ([]Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Period
	for _, p := range r.periods {
		if p.CostOrganizationID == costOrgID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}
