package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing normalized transactions.
// The first error encountered is kept and returned by Build.
type TransactionBuilder struct {
	tx    NormalizedTransaction
	typed bool
	err   error
}

// NewTransactionBuilder creates a new TransactionBuilder with default values
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: NormalizedTransaction{
			Amount: decimal.Zero,
		},
	}
}

// WithDate sets the transaction date, which must already be in YYYY-MM-DD form
func (b *TransactionBuilder) WithDate(isoDate string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	isoDate = strings.TrimSpace(isoDate)
	if isoDate == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	if _, err := time.Parse("2006-01-02", isoDate); err != nil {
		b.err = fmt.Errorf("date %q is not an ISO date", isoDate)
		return b
	}
	b.tx.Date = isoDate
	return b
}

// WithDescription sets the label, trimmed of surrounding whitespace
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = strings.TrimSpace(description)
	return b
}

// WithSignedAmount derives type and magnitude from a signed amount.
// Negative values are expenses.
func (b *TransactionBuilder) WithSignedAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if amount.IsNegative() {
		b.tx.Type = TransactionTypeExpense
	} else {
		b.tx.Type = TransactionTypeIncome
	}
	b.tx.Amount = amount.Abs()
	b.typed = true
	return b
}

// AsDebit records an amount found in a debit column.
func (b *TransactionBuilder) AsDebit(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Type = TransactionTypeExpense
	b.tx.Amount = amount.Abs()
	b.typed = true
	return b
}

// AsCredit records an amount found in a credit column.
func (b *TransactionBuilder) AsCredit(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Type = TransactionTypeIncome
	b.tx.Amount = amount.Abs()
	b.typed = true
	return b
}

// Build validates and returns the transaction
func (b *TransactionBuilder) Build() (NormalizedTransaction, error) {
	if b.err != nil {
		return NormalizedTransaction{}, b.err
	}
	if b.tx.Date == "" {
		return NormalizedTransaction{}, errors.New("date is required")
	}
	if !b.typed {
		return NormalizedTransaction{}, errors.New("amount is required")
	}
	return b.tx, nil
}
