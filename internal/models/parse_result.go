package models

import (
	"github.com/shopspring/decimal"
)

// ParseResult is the unified output of every bank format handler.
// Transactions keep the order of the source lines.
type ParseResult struct {
	Transactions        []NormalizedTransaction `json:"transactions"`
	DetectedBalance     *decimal.Decimal        `json:"detectedBalance"`
	DetectedBalanceDate *string                 `json:"detectedBalanceDate"`
	BankName            string                  `json:"bankName"`
	Currency            string                  `json:"currency"`
	SkippedRows         int                     `json:"skippedRows"`
}

// EmptyResult returns a result with no transactions and the handler's fixed metadata.
func EmptyResult(bankName, currency string) ParseResult {
	return ParseResult{
		Transactions: []NormalizedTransaction{},
		BankName:     bankName,
		Currency:     currency,
	}
}

// HasBalance reports whether the source carried a statement balance.
func (r ParseResult) HasBalance() bool {
	return r.DetectedBalance != nil
}

// Totals returns the sum of income and the sum of expenses.
func (r ParseResult) Totals() (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, tx := range r.Transactions {
		if tx.IsExpense() {
			expense = expense.Add(tx.Amount)
		} else {
			income = income.Add(tx.Amount)
		}
	}
	return income, expense
}

// EarliestDate returns the smallest ISO date in the result, or "" when empty.
func (r ParseResult) EarliestDate() string {
	earliest := ""
	for _, tx := range r.Transactions {
		if earliest == "" || tx.Date < earliest {
			earliest = tx.Date
		}
	}
	return earliest
}

// LatestDate returns the largest ISO date in the result, or "" when empty.
func (r ParseResult) LatestDate() string {
	latest := ""
	for _, tx := range r.Transactions {
		if tx.Date > latest {
			latest = tx.Date
		}
	}
	return latest
}
