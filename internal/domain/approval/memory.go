package approval

import (
	"context"
	"sort"
	"sync"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// MemoryRepository is an in-process Repository used by service tests across packages.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[id.ID]Request
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[id.ID]Request)}
}

// Create implements Repository.
func (r *MemoryRepository) Create(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.Status == StatusPending && row.EntityType == req.EntityType && row.EntityID == req.EntityID {
			return apperror.NewConflict("an approval request is already pending for this entity")
		}
	}
	r.rows[req.ID] = *req
	return nil
}

// GetByID implements Repository.
func (r *MemoryRepository) GetByID(_ context.Context, requestID id.ID) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[requestID]
	if !ok {
		return nil, apperror.NewNotFound("approval_request", requestID)
	}
	return &row, nil
}

// GetForUpdate implements Repository.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, requestID id.ID) (*Request, error) {
	return r.GetByID(ctx, requestID)
}

// FindPending implements Repository.
func (r *MemoryRepository) FindPending(_ context.Context, entityType EntityType, entityID id.ID) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.Status == StatusPending && row.EntityType == entityType && row.EntityID == entityID {
			return &row, nil
		}
	}
	return nil, apperror.NewNotFound("approval_request", entityID)
}

// Update implements Repository.
func (r *MemoryRepository) Update(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[req.ID]; !ok {
		return apperror.NewNotFound("approval_request", req.ID)
	}
	r.rows[req.ID] = *req
	return nil
}

// ListByStatus implements Repository.
func (r *MemoryRepository) ListByStatus(_ context.Context, status Status, limit int) ([]Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Request
	for _, row := range r.rows {
		if row.Status == status {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return id.Less(out[j].ID, out[i].ID) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
