// Package gl provides the general ledger entries posted by the accounting batch.
package gl

import (
	"time"

	"costbook/internal/core/id"
	"costbook/internal/core/types"
	"costbook/internal/domain/distribution"
)

// Entry is one balanced journal line: a debit and a credit of equal amount.
// Entries are append-only.
type Entry struct {
	ID             id.ID                   `db:"id" json:"id"`
	OrganizationID id.ID                   `db:"organization_id" json:"organizationId"`
	SourceType     distribution.SourceType `db:"source_type" json:"sourceType"`
	TransactionID  id.ID                   `db:"transaction_id" json:"transactionId"`
	BatchID        id.ID                   `db:"batch_id" json:"batchId"`

	DebitAccount  string      `db:"debit_account" json:"debitAccount"`
	DebitAmount   types.Money `db:"debit_amount" json:"debitAmount"`
	CreditAccount string      `db:"credit_account" json:"creditAccount"`
	CreditAmount  types.Money `db:"credit_amount" json:"creditAmount"`

	Currency       string    `db:"currency" json:"currency"`
	AccountingDate time.Time `db:"accounting_date" json:"accountingDate"`
	PostedAt       time.Time `db:"posted_at" json:"postedAt"`
}

// NewEntry pairs a debit and a credit distribution into a journal line.
func NewEntry(batchID id.ID, debit, credit *distribution.Distribution, postedAt time.Time) Entry {
	return Entry{
		ID:             id.New(),
		OrganizationID: debit.OrganizationID,
		SourceType:     debit.SourceType,
		TransactionID:  debit.TransactionID,
		BatchID:        batchID,
		DebitAccount:   debit.AccountCode,
		DebitAmount:    debit.Amount,
		CreditAccount:  credit.AccountCode,
		CreditAmount:   credit.Amount,
		Currency:       debit.Currency,
		AccountingDate: debit.AccountingDate,
		PostedAt:       postedAt,
	}
}

// Filter narrows entry listings.
type Filter struct {
	OrganizationID id.ID
	TransactionID  *id.ID
	Account        string
	From, To       *time.Time
	Limit          int
}
