// Package entity provides the fields shared by persisted cost-accounting rows.
package entity

import (
	"context"
	"time"

	"costbook/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains the identity and creation time of an immutable row
// (ledger entries, distributions, GL entries).
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewBase creates a Base with a generated ID.
func NewBase() Base {
	return Base{
		ID:        id.New(),
		CreatedAt: time.Now().UTC(),
	}
}

// Tracked extends Base for rows that move through states
// (periods, scenarios, approval requests).
type Tracked struct {
	Base

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewTracked creates a Tracked with generated ID and timestamps.
func NewTracked(actor string) Tracked {
	base := NewBase()
	return Tracked{
		Base:      base,
		UpdatedAt: base.CreatedAt,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
}

// Touch stamps a state change.
func (t *Tracked) Touch(actor string) {
	t.UpdatedAt = time.Now().UTC()
	if actor != "" {
		t.UpdatedBy = actor
	}
}
