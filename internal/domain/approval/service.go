package approval

import (
	"context"
	"fmt"
	"strings"

	"costbook/internal/core/apperror"
	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
	"costbook/internal/core/tx"
	"costbook/internal/domain/audit"
	"costbook/pkg/logger"
)

// AuditEntityType names approval requests in the audit trail.
const AuditEntityType = "approval_request"

// Service runs the approval workflow.
type Service struct {
	repo      Repository
	registry  *Registry
	audit     audit.Recorder
	txManager tx.Manager
}

// NewService creates a new approval service.
func NewService(repo Repository, registry *Registry, recorder audit.Recorder, txManager tx.Manager) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{repo: repo, registry: registry, audit: recorder, txManager: txManager}
}

// actorOr returns who, falling back to the context actor.
func actorOr(ctx context.Context, who string) string {
	if strings.TrimSpace(who) != "" {
		return who
	}
	return appctx.GetActorID(ctx)
}

// Submit opens a Pending request for an entity. It fails with CONFLICT when a
// Pending request already exists for the entity.
func (s *Service) Submit(ctx context.Context, entityType EntityType, entityID id.ID, requestedBy string) (*Request, error) {
	if _, err := s.registry.Lookup(entityType); err != nil {
		return nil, err
	}

	req := NewRequest(entityType, entityID, actorOr(ctx, requestedBy))
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindPending(ctx, entityType, entityID)
		switch {
		case err == nil:
			return apperror.NewConflict("an approval request is already pending for this entity").
				WithDetail("request_id", existing.ID).
				WithDetail("entity_id", entityID)
		case !apperror.IsNotFound(err):
			return fmt.Errorf("find pending request: %w", err)
		}

		if err := s.repo.Create(ctx, req); err != nil {
			return err
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: AuditEntityType,
			EntityID:   req.ID,
			Action:     audit.ActionSubmit,
			Changes: map[string]any{
				"entity_type":  entityType,
				"entity_id":    entityID,
				"requested_by": req.RequestedBy,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "approval requested",
		"request_id", req.ID,
		"entity_type", entityType,
		"entity_id", entityID,
		"requested_by", req.RequestedBy)

	return req, nil
}

// Approve approves a Pending request and runs the entity type's callback in the
// same transaction. If the callback fails the request stays Pending.
func (s *Service) Approve(ctx context.Context, requestID id.ID, approverID string) (*Request, error) {
	approverID = actorOr(ctx, approverID)
	if approverID == "" {
		return nil, apperror.NewValidation("approver is required")
	}

	var req *Request
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.repo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.decide(StatusApproved, approverID, ""); err != nil {
			return err
		}

		callback, err := s.registry.Lookup(req.EntityType)
		if err != nil {
			return err
		}
		if err := callback.ExecuteCallback(ctx, req.EntityID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return s.audit.Record(ctx, audit.Entry{
			EntityType: AuditEntityType,
			EntityID:   req.ID,
			Action:     audit.ActionApprove,
			Changes:    map[string]any{"status": req.Status, "decided_by": approverID},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "approval request approved",
		"request_id", req.ID,
		"entity_type", req.EntityType,
		"entity_id", req.EntityID,
		"approver", approverID)

	return req, nil
}

// Reject rejects a Pending request. No callback runs.
func (s *Service) Reject(ctx context.Context, requestID id.ID, approverID, reason string) (*Request, error) {
	approverID = actorOr(ctx, approverID)
	if approverID == "" {
		return nil, apperror.NewValidation("approver is required")
	}

	var req *Request
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.repo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.decide(StatusRejected, approverID, reason); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return s.audit.Record(ctx, audit.Entry{
			EntityType: AuditEntityType,
			EntityID:   req.ID,
			Action:     audit.ActionReject,
			Changes:    map[string]any{"status": req.Status, "decided_by": approverID, "reason": reason},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "approval request rejected",
		"request_id", req.ID,
		"entity_id", req.EntityID,
		"approver", approverID,
		"reason", reason)

	return req, nil
}

// GetByID returns an approval request.
func (s *Service) GetByID(ctx context.Context, requestID id.ID) (*Request, error) {
	return s.repo.GetByID(ctx, requestID)
}

// ListPending returns Pending requests, newest first.
func (s *Service) ListPending(ctx context.Context, limit int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByStatus(ctx, StatusPending, limit)
}
