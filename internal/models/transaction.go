// Package models provides the data structures used throughout the application.
package models

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a normalized transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// NormalizedTransaction is a bank line reduced to the canonical shape shared by all formats.
// Amount is always non-negative; the sign is carried by Type.
type NormalizedTransaction struct {
	Date        string          `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Type        TransactionType `json:"type" yaml:"type"`
}

// IsExpense returns true for money leaving the account.
func (t NormalizedTransaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsIncome returns true for money entering the account.
func (t NormalizedTransaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// SignedAmount returns the amount negated for expenses, as stored by the ledger.
func (t NormalizedTransaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CategorizedTransaction is a normalized transaction with the category assigned at import.
type CategorizedTransaction struct {
	NormalizedTransaction
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Currency    string `json:"currency" yaml:"currency"`
}

// StoredTransaction is a categorized transaction as read back from storage.
type StoredTransaction struct {
	CategorizedTransaction
	ID          int64  `json:"id"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	BatchID     string `json:"batch_id"`
}
