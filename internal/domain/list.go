// Package domain provides types shared by the cost-accounting domain packages.
package domain

import "costbook/internal/core/id"

// ListFilter contains common pagination options for list operations.
type ListFilter struct {
	// OrganizationID scopes the listing to one inventory organization
	OrganizationID id.ID

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter(orgID id.ID) ListFilter {
	return ListFilter{
		OrganizationID: orgID,
		Limit:          50,
	}
}

// Normalize clamps pagination to sane bounds.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
