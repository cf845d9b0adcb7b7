// Package approval provides the approval-request state machine gating
// sensitive actions such as publishing a cost scenario.
package approval

import (
	"context"
	"strings"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
)

// Status of an approval request. Approved and Rejected are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// EntityType names the kind of entity an approval gates.
type EntityType string

const (
	EntityCostScenario EntityType = "COST_SCENARIO"
)

// Request is an approval request. At most one request per entity is Pending.
type Request struct {
	entity.Tracked

	EntityType  EntityType `db:"entity_type" json:"entityType"`
	EntityID    id.ID      `db:"entity_id" json:"entityId"`
	Status      Status     `db:"status" json:"status"`
	RequestedBy string     `db:"requested_by" json:"requestedBy"`
	DecidedBy   string     `db:"decided_by" json:"decidedBy,omitempty"`
	DecidedAt   *time.Time `db:"decided_at" json:"decidedAt,omitempty"`
	Reason      string     `db:"reason" json:"reason,omitempty"`
}

// NewRequest creates a Pending request.
func NewRequest(entityType EntityType, entityID id.ID, requestedBy string) *Request {
	return &Request{
		Tracked:     entity.NewTracked(requestedBy),
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      StatusPending,
		RequestedBy: requestedBy,
	}
}

// Validate implements entity.Validatable interface.
func (r *Request) Validate(_ context.Context) error {
	if strings.TrimSpace(string(r.EntityType)) == "" {
		return apperror.NewValidation("entity type is required")
	}
	if id.IsNil(r.EntityID) {
		return apperror.NewValidation("entity id is required")
	}
	if strings.TrimSpace(r.RequestedBy) == "" {
		return apperror.NewValidation("requester is required")
	}
	return nil
}

// decide moves a Pending request to a terminal status.
func (r *Request) decide(to Status, decidedBy, reason string) error {
	if r.Status != StatusPending {
		return apperror.NewInvalidState("approval_request", r.Status, "approval request is not pending").
			WithDetail("request_id", r.ID)
	}
	now := time.Now().UTC()
	r.Status = to
	r.DecidedBy = decidedBy
	r.DecidedAt = &now
	r.Reason = reason
	r.Touch(decidedBy)
	return nil
}
