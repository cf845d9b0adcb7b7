package distribution

import (
	"context"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// AccountResolver maps a line type to the GL account code of an organization.
type AccountResolver interface {
	AccountFor(ctx context.Context, orgID id.ID, lineType LineType) (string, error)
}

// Chart is a chart of accounts shared by every organization.
type Chart map[LineType]string

// AccountFor implements AccountResolver.
func (c Chart) AccountFor(_ context.Context, _ id.ID, lineType LineType) (string, error) {
	code, ok := c[lineType]
	if !ok || code == "" {
		return "", apperror.NewInvalidState("chart_of_accounts", lineType, "no account mapped for line type")
	}
	return code, nil
}

// lineRule is the debit and credit line type of a material movement.
type lineRule struct {
	Debit  LineType
	Credit LineType
}
