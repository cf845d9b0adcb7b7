// Package workflow_repo provides PostgreSQL implementations for approval
// requests and cost scenarios.
package workflow_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/domain/approval"
	"costbook/internal/infrastructure/storage/postgres"
)

const approvalTable = "wf_approval_requests"

// ApprovalRepo implements approval.Repository. A partial unique index on
// (entity_type, entity_id) WHERE status = 'PENDING' keeps one pending request per entity.
type ApprovalRepo struct {
	requests postgres.Table[approval.Request]
}

// NewApprovalRepo creates a new approval request repository.
func NewApprovalRepo(txManager *postgres.TxManager) *ApprovalRepo {
	return &ApprovalRepo{
		requests: postgres.NewTable[approval.Request](txManager, approvalTable, "approval_request"),
	}
}

// Create implements approval.Repository.
func (r *ApprovalRepo) Create(ctx context.Context, req *approval.Request) error {
	err := r.requests.Insert(ctx, req)
	if apperror.IsConflict(err) {
		return apperror.NewConflict("an approval request is already pending for this entity").
			WithDetail("entity_type", req.EntityType).
			WithDetail("entity_id", req.EntityID)
	}
	return err
}

// GetByID implements approval.Repository.
func (r *ApprovalRepo) GetByID(ctx context.Context, requestID id.ID) (*approval.Request, error) {
	return r.requests.Get(ctx, r.requests.Select().Where(squirrel.Eq{"id": requestID}), requestID)
}

// GetForUpdate implements approval.Repository.
func (r *ApprovalRepo) GetForUpdate(ctx context.Context, requestID id.ID) (*approval.Request, error) {
	q := r.requests.Select().Where(squirrel.Eq{"id": requestID}).Suffix("FOR UPDATE")
	return r.requests.Get(ctx, q, requestID)
}

// FindPending implements approval.Repository.
func (r *ApprovalRepo) FindPending(ctx context.Context, entityType approval.EntityType, entityID id.ID) (*approval.Request, error) {
	q := r.requests.Select().Where(squirrel.Eq{
		"entity_type": entityType,
		"entity_id":   entityID,
		"status":      approval.StatusPending,
	})
	return r.requests.Get(ctx, q, entityID)
}

// Update implements approval.Repository.
func (r *ApprovalRepo) Update(ctx context.Context, req *approval.Request) error {
	q := postgres.Builder().
		Update(approvalTable).
		Set("status", req.Status).
		Set("decided_by", req.DecidedBy).
		Set("decided_at", req.DecidedAt).
		Set("reason", req.Reason).
		Set("updated_at", req.UpdatedAt).
		Set("updated_by", req.UpdatedBy).
		Where(squirrel.Eq{"id": req.ID})

	n, err := r.requests.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("update approval request: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound("approval_request", req.ID)
	}
	return nil
}

// ListByStatus implements approval.Repository.
func (r *ApprovalRepo) ListByStatus(ctx context.Context, status approval.Status, limit int) ([]approval.Request, error) {
	q := r.requests.Select().
		Where(squirrel.Eq{"status": status}).
		OrderBy("id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.requests.List(ctx, q)
}
