package approval

import (
	"context"

	"costbook/internal/core/id"
)

// Repository defines operations for approval request storage.
type Repository interface {
	// Create inserts a request. A second Pending request for the same entity
	// fails with CONFLICT.
	Create(ctx context.Context, req *Request) error

	GetByID(ctx context.Context, requestID id.ID) (*Request, error)

	// GetForUpdate locks the request row for a decision.
	GetForUpdate(ctx context.Context, requestID id.ID) (*Request, error)

	// FindPending returns the Pending request of an entity, or NotFound.
	FindPending(ctx context.Context, entityType EntityType, entityID id.ID) (*Request, error)

	Update(ctx context.Context, req *Request) error

	// ListByStatus returns requests in the status, newest first.
	ListByStatus(ctx context.Context, status Status, limit int) ([]Request, error)
}
