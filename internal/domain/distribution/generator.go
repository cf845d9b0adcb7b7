package distribution

import (
	"context"
	"fmt"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/types"
	"costbook/internal/domain/documents/material"
)

var materialRules = map[material.TransactionType]lineRule{
	material.TypePOReceipt:       {Debit: LineInventoryValuation, Credit: LineReceivingAccrual},
	material.TypeMiscReceipt:     {Debit: LineInventoryValuation, Credit: LineInventoryAdjustment},
	material.TypeMiscIssue:       {Debit: LineInventoryAdjustment, Credit: LineInventoryValuation},
	material.TypeSalesOrderIssue: {Debit: LineCOGS, Credit: LineInventoryValuation},
	material.TypeReturnToVendor:  {Debit: LineReceivingAccrual, Credit: LineInventoryValuation},
}

// offsetLines is the credit line generated at accounting time for single-leg WIP charges.
var offsetLines = map[LineType]LineType{
	LineWipMaterial: LineInventoryValuation,
	LineWipResource: LineResourceAbsorption,
}

// Generator builds and stores draft distributions.
type Generator struct {
	repo     Repository
	accounts AccountResolver
	currency string
}

// NewGenerator creates a new distribution generator booking in currency.
func NewGenerator(repo Repository, accounts AccountResolver, currency string) *Generator {
	return &Generator{repo: repo, accounts: accounts, currency: currency}
}

var _ material.DistributionWriter = (*Generator)(nil)

// BuildMaterial returns the debit and credit legs of a costed movement.
// Transfers have no financial effect and produce nothing.
func (g *Generator) BuildMaterial(ctx context.Context, txn *material.Transaction, unitCost types.Money) ([]Distribution, error) {
	rule, ok := materialRules[txn.Type]
	if !ok {
		return nil, nil
	}

	amount := types.Extend(txn.Quantity.Abs(), unitCost)

	debit, err := g.leg(ctx, txn, rule.Debit, RoleDebit, amount)
	if err != nil {
		return nil, err
	}
	credit, err := g.leg(ctx, txn, rule.Credit, RoleCredit, amount)
	if err != nil {
		return nil, err
	}
	return []Distribution{debit, credit}, nil
}

func (g *Generator) leg(ctx context.Context, txn *material.Transaction, line LineType, role LegRole, amount types.Money) (Distribution, error) {
	account, err := g.accounts.AccountFor(ctx, txn.OrganizationID, line)
	if err != nil {
		return Distribution{}, err
	}
	return Distribution{
		Base:           entity.NewBase(),
		OrganizationID: txn.OrganizationID,
		SourceType:     SourceMaterial,
		TransactionID:  txn.ID,
		LineType:       line,
		LegRole:        role,
		AccountCode:    account,
		Amount:         amount,
		Currency:       g.currency,
		AccountingDate: txn.TransactionDate,
		Status:         StatusDraft,
	}, nil
}

// CreateMaterialDistributions implements material.DistributionWriter.
func (g *Generator) CreateMaterialDistributions(ctx context.Context, txn *material.Transaction, unitCost types.Money) error {
	rows, err := g.BuildMaterial(ctx, txn, unitCost)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if err := g.repo.Insert(ctx, rows); err != nil {
		return fmt.Errorf("insert distributions: %w", err)
	}
	return nil
}

// CreateReceiptDistributions writes the Inventory Valuation / Receiving Accrual pair of a PO receipt.
func (g *Generator) CreateReceiptDistributions(ctx context.Context, txn *material.Transaction, unitCost types.Money) error {
	if txn.Type != material.TypePOReceipt {
		return apperror.NewValidation("receipt distributions require a PO receipt").WithDetail("type", txn.Type)
	}
	return g.CreateMaterialDistributions(ctx, txn, unitCost)
}

// CreateWipDistribution writes the single WIP valuation debit of a WIP charge.
// The offsetting credit is generated by the accounting batch.
func (g *Generator) CreateWipDistribution(ctx context.Context, charge WipCharge) (*Distribution, error) {
	if _, ok := offsetLines[charge.LineType]; !ok {
		return nil, apperror.NewValidation("unsupported WIP line type").WithDetail("line_type", charge.LineType)
	}

	account, err := g.accounts.AccountFor(ctx, charge.OrganizationID, charge.LineType)
	if err != nil {
		return nil, err
	}

	row := Distribution{
		Base:           entity.NewBase(),
		OrganizationID: charge.OrganizationID,
		SourceType:     SourceWip,
		TransactionID:  charge.TransactionID,
		LineType:       charge.LineType,
		LegRole:        RoleDebit,
		AccountCode:    account,
		Amount:         types.RoundAmount(charge.Amount),
		Currency:       g.currency,
		AccountingDate: charge.Date,
		Status:         StatusDraft,
	}
	if err := g.repo.Insert(ctx, []Distribution{row}); err != nil {
		return nil, fmt.Errorf("insert wip distribution: %w", err)
	}
	return &row, nil
}

// BuildOffset returns the credit leg balancing a single WIP debit.
func (g *Generator) BuildOffset(ctx context.Context, debit *Distribution) (Distribution, error) {
	line, ok := offsetLines[debit.LineType]
	if !ok || debit.LegRole != RoleDebit {
		return Distribution{}, apperror.NewInvalidState("distribution", debit.LineType, "no offset defined for distribution").
			WithDetail("distribution_id", debit.ID)
	}

	account, err := g.accounts.AccountFor(ctx, debit.OrganizationID, line)
	if err != nil {
		return Distribution{}, err
	}

	offset := *debit
	offset.Base = entity.NewBase()
	offset.LineType = line
	offset.LegRole = RoleCredit
	offset.AccountCode = account
	offset.Accounted = false
	offset.Status = StatusDraft
	return offset, nil
}

// NeedsOffset reports whether a group is a lone WIP debit awaiting its generated credit.
func NeedsOffset(group []Distribution) bool {
	if len(group) != 1 {
		return false
	}
	_, ok := offsetLines[group[0].LineType]
	return ok && group[0].SourceType == SourceWip && group[0].LegRole == RoleDebit
}
