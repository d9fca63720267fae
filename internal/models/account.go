package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank account owned by a user. Balance is nil until a first import
// provides or computes one.
type Account struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	BankName    string           `json:"bank_name"`
	Currency    string           `json:"currency"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	BalanceDate string           `json:"balance_date,omitempty"`
}

// ImportBatch records one imported file.
type ImportBatch struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Filename  string    `json:"filename"`
	BankName  string    `json:"bank_name"`
	Currency  string    `json:"currency"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is a message for a user. DedupeKey, when set, makes the notification
// unique for that user.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	DedupeKey string    `json:"-"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
